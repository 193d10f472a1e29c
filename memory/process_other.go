//go:build !linux

package memory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
)

// ProcessSource is unavailable on this platform; every read fails with
// ErrNotSupported. Use FileSource with a raw dump instead.
type ProcessSource struct {
	ChunkSize int
}

// NewProcessSource returns the platform memory source.
func NewProcessSource() Source {
	return ProcessSource{}
}

// ReadMemory implements Source.
func (ProcessSource) ReadMemory(context.Context, uint32, uint64, int) ([]byte, error) {
	return nil, errors.Wrap(common.ErrNotSupported, "process memory reads")
}
