package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Region is a block of bytes mapped at Base.
type Region struct {
	Base uint64
	Data []byte
}

// BufferSource serves reads from in-memory regions keyed by pid. It stands in for
// a live process in tests and when replaying captured buffers.
type BufferSource struct {
	mu      sync.RWMutex
	regions map[uint32][]Region
}

// NewBufferSource returns an empty BufferSource.
func NewBufferSource() *BufferSource {
	return &BufferSource{regions: make(map[uint32][]Region)}
}

// Map adds data at base in the address space of pid. The data is not copied.
func (s *BufferSource) Map(pid uint32, base uint64, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[pid] = append(s.regions[pid], Region{Base: base, Data: data})
}

// ReadMemory implements Source. A range that runs past the end of its region
// returns the bytes up to the end.
func (s *BufferSource) ReadMemory(_ context.Context, pid uint32, addr uint64, length int) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regions, ok := s.regions[pid]
	if !ok {
		return nil, errors.Errorf("no such process %d", pid)
	}
	for _, r := range regions {
		if addr < r.Base || addr-r.Base >= uint64(len(r.Data)) {
			continue
		}
		start := addr - r.Base
		end := start + uint64(length)
		if end > uint64(len(r.Data)) {
			end = uint64(len(r.Data))
		}
		out := make([]byte, end-start)
		copy(out, r.Data[start:end])
		return out, nil
	}
	return nil, errors.Errorf("address %s is not mapped", FormatAddress(addr))
}
