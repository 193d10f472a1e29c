package memory

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

// countingSource records how often it is called.
type countingSource struct {
	calls int
	inner Source
}

func (c *countingSource) ReadMemory(ctx context.Context, pid uint32, addr uint64, length int) ([]byte, error) {
	c.calls++
	return c.inner.ReadMemory(ctx, pid, addr, length)
}

func newTestSource() *BufferSource {
	src := NewBufferSource()
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	src.Map(42, 0x1000, data)
	return src
}

func TestReaderRead(t *testing.T) {
	r := NewReader(newTestSource())

	buf, err := r.Read(context.Background(), 42, 0x1004, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6, 7}, buf)
}

func TestReaderZeroLengthSkipsSource(t *testing.T) {
	src := &countingSource{inner: newTestSource()}
	r := NewReader(src)

	for _, n := range []int{0, -1} {
		buf, err := r.Read(context.Background(), 42, 0x1000, n)
		require.NoError(t, err)
		assert.NotNil(t, buf)
		assert.Empty(t, buf)
	}

	buf, err := r.ReadImage(context.Background(), 42, 0x1000, pixfmt.CV8UC3, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, buf)
	assert.Zero(t, src.calls, "zero-length reads must not reach the source")
}

func TestReaderFailures(t *testing.T) {
	r := NewReader(newTestSource())
	ctx := context.Background()

	_, err := r.Read(ctx, 7, 0x1000, 4)
	assert.ErrorIs(t, err, common.ErrReadFailure, "unknown pid")

	_, err = r.Read(ctx, 42, 0x9000, 4)
	assert.ErrorIs(t, err, common.ErrReadFailure, "unmapped address")
	assert.Contains(t, err.Error(), "0x9000")

	_, err = r.Read(ctx, 42, 0x1000+60, 8)
	assert.ErrorIs(t, err, common.ErrReadFailure, "short read")
	assert.Contains(t, err.Error(), "short read")

	_, err = NewReader(nil).Read(ctx, 42, 0x1000, 1)
	assert.ErrorIs(t, err, common.ErrReadFailure)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Read(cancelled, 42, 0x1000, 1)
	assert.ErrorIs(t, err, common.ErrReadFailure)
}

func TestReaderWrapsSourceError(t *testing.T) {
	cause := errors.New("permission denied")
	r := NewReader(SourceFunc(func(context.Context, uint32, uint64, int) ([]byte, error) {
		return nil, cause
	}))

	_, err := r.Read(context.Background(), 1, 0x10, 4)
	assert.ErrorIs(t, err, common.ErrReadFailure)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "pid 1")
}

func TestReaderTruncatesLongReads(t *testing.T) {
	r := NewReader(SourceFunc(func(_ context.Context, _ uint32, _ uint64, n int) ([]byte, error) {
		return make([]byte, n+10), nil
	}))
	buf, err := r.Read(context.Background(), 1, 0, 4)
	require.NoError(t, err)
	assert.Len(t, buf, 4)
}

func TestReadImage(t *testing.T) {
	r := NewReader(newTestSource())

	buf, err := r.ReadImage(context.Background(), 42, 0x1000, pixfmt.CV16UC2, 2, 2)
	require.NoError(t, err)
	assert.Len(t, buf, 16)
	assert.Equal(t, byte(15), buf[15])
}

func TestReadImagePreconditions(t *testing.T) {
	src := &countingSource{inner: newTestSource()}
	r := NewReader(src)
	ctx := context.Background()

	_, err := r.ReadImage(ctx, 42, 0x1000, pixfmt.CV64FC4, math.MaxInt, 2)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)

	_, err = r.ReadImage(ctx, 42, 0x1000, pixfmt.CV8UC1, -1, 2)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)

	_, err = r.ReadImage(ctx, 42, 0x1000, pixfmt.Format(0), 1, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)

	assert.Zero(t, src.calls, "invalid requests must fail before reading")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	require.NoError(t, os.WriteFile(path, []byte{0, 1, 2, 3, 4, 5, 6, 7}, 0o644))

	r := NewReader(FileSource{Path: path, Base: 0x4000})
	ctx := context.Background()

	buf, err := r.Read(ctx, 0, 0x4002, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, buf)

	_, err = r.Read(ctx, 0, 0x4006, 4)
	assert.ErrorIs(t, err, common.ErrReadFailure, "reading past the end is a short read")

	_, err = r.Read(ctx, 0, 0x3fff, 1)
	assert.ErrorIs(t, err, common.ErrReadFailure, "below base")

	_, err = NewReader(FileSource{Path: filepath.Join(t.TempDir(), "missing")}).Read(ctx, 0, 0, 1)
	assert.ErrorIs(t, err, common.ErrReadFailure)
}

func TestFileSourceProcPath(t *testing.T) {
	assert.Equal(t, "/proc/123/mem", FileSource{}.path(123))
	assert.Equal(t, "x.bin", FileSource{Path: "x.bin"}.path(123))
}
