package memory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

// Source reads length bytes at addr in the address space of process pid.
//
// Implementations return exactly length bytes or an error. They are not expected
// to retry.
type Source interface {
	ReadMemory(ctx context.Context, pid uint32, addr uint64, length int) ([]byte, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context, pid uint32, addr uint64, length int) ([]byte, error)

// ReadMemory calls f.
func (f SourceFunc) ReadMemory(ctx context.Context, pid uint32, addr uint64, length int) ([]byte, error) {
	return f(ctx, pid, addr, length)
}

// Reader applies the read contract on top of a Source.
type Reader struct {
	Source Source
}

// NewReader returns a Reader over src.
func NewReader(src Source) *Reader {
	return &Reader{Source: src}
}

// Read returns length bytes from pid at addr.
//
// A non-positive length returns an empty buffer without touching the source.
// Source errors and short reads are wrapped with ErrReadFailure.
//
// Arguments:
//   - ctx: Cancels the read if the source honors it.
//   - pid: The target process.
//   - addr: The start address in the target process.
//   - length: The number of bytes to read.
//
// Returns:
//   - []byte: Exactly length bytes.
//   - error: ErrReadFailure on failure.
func (r *Reader) Read(ctx context.Context, pid uint32, addr uint64, length int) ([]byte, error) {
	if length <= 0 {
		return []byte{}, nil
	}
	if r.Source == nil {
		return nil, errors.Wrap(common.ErrReadFailure, "no memory source configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(common.ErrReadFailure, "pid %d at %s: %v", pid, FormatAddress(addr), err)
	}

	buf, err := r.Source.ReadMemory(ctx, pid, addr, length)
	if err != nil {
		return nil, errors.Wrapf(common.ErrReadFailure, "pid %d at %s (%d bytes): %v", pid, FormatAddress(addr), length, err)
	}
	if len(buf) < length {
		return nil, errors.Wrapf(common.ErrReadFailure,
			"pid %d at %s: short read, got %d of %d bytes", pid, FormatAddress(addr), len(buf), length)
	}
	return buf[:length], nil
}

// ReadImage reads the raw buffer of a width x height image in format f.
//
// The length is computed before anything is read, so an overflowing request fails
// with ErrPreconditionViolation and never reaches the source.
func (r *Reader) ReadImage(ctx context.Context, pid uint32, addr uint64, f pixfmt.Format, width, height int) ([]byte, error) {
	if !f.Valid() {
		return nil, errors.Wrapf(common.ErrPreconditionViolation, "format %d is not in the catalog", uint8(f))
	}
	n, err := pixfmt.BufferLen(f, width, height)
	if err != nil {
		return nil, err
	}
	return r.Read(ctx, pid, addr, n)
}
