package memory

import (
	"context"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// FileSource reads memory through a file using ReadAt with the address as the
// offset. With an empty Path it opens /proc/<pid>/mem, which needs the same ptrace
// access as ProcessSource. With a Path it reads a raw dump and ignores pid.
type FileSource struct {
	Path string
	// Base is subtracted from every address before it is used as an offset, so a
	// dump taken at Base can be addressed with the pointers of the dumped process.
	Base uint64
}

func (s FileSource) path(pid uint32) string {
	if s.Path != "" {
		return s.Path
	}
	return "/proc/" + strconv.FormatUint(uint64(pid), 10) + "/mem"
}

// ReadMemory implements Source.
func (s FileSource) ReadMemory(_ context.Context, pid uint32, addr uint64, length int) ([]byte, error) {
	if addr < s.Base {
		return nil, errors.Errorf("address %s is below the file base %s", FormatAddress(addr), FormatAddress(s.Base))
	}
	off := addr - s.Base
	if off > math.MaxInt64 {
		return nil, errors.Errorf("offset %s does not fit a file offset", FormatAddress(off))
	}

	name := s.path(pid)
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, int64(off))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return buf[:n], nil
}
