package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-memimg/codec"
	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

// failingEncoder always fails to encode.
type failingEncoder struct{}

func (failingEncoder) Name() string { return "broken" }
func (failingEncoder) Ext() string  { return ".broken" }
func (failingEncoder) Encode(io.Writer, image.Image) error {
	return errors.New("encoder exploded")
}

func TestNewValidatesLength(t *testing.T) {
	img, err := New(pixfmt.RGB8, make([]byte, 6), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Channels())
	assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())

	_, err = New(pixfmt.RGB8, make([]byte, 5), 2, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation, "short buffer should be rejected")

	_, err = New(pixfmt.Gray8, make([]byte, 3), 1, 2)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation, "long buffer should be rejected")

	_, err = New(pixfmt.Gray8, nil, -1, 0)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)
}

func TestToImage(t *testing.T) {
	tests := []struct {
		name   string
		layout pixfmt.Layout
		pix    []byte
		want   color.NRGBA
	}{
		{"gray-alpha", pixfmt.GrayAlpha8, []byte{10, 20}, color.NRGBA{10, 10, 10, 20}},
		{"rgb", pixfmt.RGB8, []byte{10, 20, 30}, color.NRGBA{10, 20, 30, 255}},
		{"rgba", pixfmt.RGBA8, []byte{10, 20, 30, 40}, color.NRGBA{10, 20, 30, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(tt.layout, tt.pix, 1, 1)
			require.NoError(t, err)

			out, ok := img.ToImage().(*image.NRGBA)
			require.True(t, ok, "non-gray layouts should produce NRGBA")
			assert.Equal(t, tt.want, out.NRGBAAt(0, 0))
			assert.Equal(t, tt.want, img.At(0, 0))
		})
	}

	gray, err := New(pixfmt.Gray8, []byte{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	g, ok := gray.ToImage().(*image.Gray)
	require.True(t, ok, "gray layout should produce image.Gray")
	assert.Equal(t, []byte{1, 2, 3, 4}, g.Pix)
	assert.Equal(t, color.Transparent, gray.At(5, 5))
}

func TestCloneIsIndependent(t *testing.T) {
	img, err := New(pixfmt.Gray8, []byte{1, 2}, 2, 1)
	require.NoError(t, err)

	c := img.Clone()
	c.Pix[0] = 99
	assert.Equal(t, byte(1), img.Pix[0], "clone must not share the pixel buffer")
}

func TestSave(t *testing.T) {
	img, err := New(pixfmt.RGB8, []byte{10, 20, 30, 40, 50, 60}, 2, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	require.NoError(t, img.Save(path, codec.PNG{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	r, g, b, _ := decoded.At(1, 0).RGBA()
	assert.Equal(t, []uint32{40, 50, 60}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestSaveCodecFailure(t *testing.T) {
	img, err := New(pixfmt.Gray8, []byte{1}, 1, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.broken")
	err = img.Save(path, failingEncoder{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCodecFailure)
	assert.NotErrorIs(t, err, common.ErrIoFailure)

	var pe *common.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path, "error should carry the attempted path")
}

func TestSaveIoFailure(t *testing.T) {
	img, err := New(pixfmt.Gray8, []byte{1}, 1, 1)
	require.NoError(t, err)

	// A regular file where a directory is expected.
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err = img.Save(filepath.Join(blocker, "out.png"), codec.PNG{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrIoFailure)
	assert.NotErrorIs(t, err, common.ErrCodecFailure)
	assert.Contains(t, err.Error(), blocker)
}

func TestSaveEmpty(t *testing.T) {
	img, err := New(pixfmt.Gray8, nil, 0, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, img.Save(filepath.Join(t.TempDir(), "e.png"), nil), common.ErrCodecFailure)
}

func TestPreview(t *testing.T) {
	img, err := New(pixfmt.RGB8, []byte{10, 20, 30, 40, 50, 60}, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 2, 1), Preview(img, 1).Bounds())
	assert.Equal(t, image.Rect(0, 0, 2, 1), Preview(img, 0).Bounds())

	zoomed := Preview(img, 2)
	assert.Equal(t, 4, zoomed.Bounds().Dx())
	assert.Equal(t, 2, zoomed.Bounds().Dy())

	r, _, _, _ := zoomed.At(3, 1).RGBA()
	assert.Equal(t, uint32(40), r>>8, "nearest-neighbour should keep source values")

	tiny := Preview(img, 0.01)
	assert.Equal(t, 1, tiny.Bounds().Dx(), "preview keeps at least one pixel")
}
