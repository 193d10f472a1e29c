// Package images - the normalized image produced from a raw memory read, and its
// hand-off to an encoder or a display.
package images

import (
	"bufio"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/codec"
	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

// Image is a converted buffer in one of the canonical 8-bit layouts. It owns Pix;
// nothing in this module mutates an Image after New returns it.
type Image struct {
	// The canonical layout of Pix.
	Layout pixfmt.Layout `json:"layout"`
	// Pix holds Width*Height*Layout.Channels() bytes, row-major, no padding.
	Pix []byte `json:"-"`
	// The width of the image.
	Width int `json:"width"`
	// The height of the image.
	Height int `json:"height"`
}

// New wraps pix as an image, taking ownership of it.
//
// Arguments:
//   - layout: The canonical layout of pix.
//   - pix: The pixel bytes, exactly width*height*layout.Channels() long.
//   - width: The width in pixels.
//   - height: The height in pixels.
//
// Returns:
//   - *Image: The image.
//   - error: ErrPreconditionViolation if the length does not match.
func New(layout pixfmt.Layout, pix []byte, width, height int) (*Image, error) {
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(common.ErrPreconditionViolation, "invalid image dimensions: %dx%d", width, height)
	}
	if want := width * height * layout.Channels(); len(pix) != want {
		return nil, errors.Wrapf(common.ErrPreconditionViolation,
			"%s %dx%d needs %d bytes, got %d", layout, width, height, want, len(pix))
	}
	return &Image{Layout: layout, Pix: pix, Width: width, Height: height}, nil
}

// Channels returns the number of bytes per pixel.
func (m *Image) Channels() int {
	return m.Layout.Channels()
}

// Bytes returns the pixel buffer. Callers must not modify it.
func (m *Image) Bytes() []byte {
	return m.Pix
}

// Bounds returns the image rectangle anchored at the origin.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Empty reports whether the image has no pixels.
func (m *Image) Empty() bool {
	return m.Width == 0 || m.Height == 0
}

// Clone returns an image with its own copy of the pixel buffer.
func (m *Image) Clone() *Image {
	pix := make([]byte, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Layout: m.Layout, Pix: pix, Width: m.Width, Height: m.Height}
}

// ToImage returns a Go image backed by a new buffer. Gray8 becomes *image.Gray;
// the other layouts become *image.NRGBA, with gray replicated into the color
// channels and opaque alpha for RGB8.
func (m *Image) ToImage() image.Image {
	r := m.Bounds()
	if m.Layout == pixfmt.Gray8 {
		g := image.NewGray(r)
		copy(g.Pix, m.Pix)
		return g
	}

	dst := image.NewNRGBA(r)
	n := m.Width * m.Height
	src := m.Pix
	for i := 0; i < n; i++ {
		d := dst.Pix[i*4 : i*4+4 : i*4+4]
		switch m.Layout {
		case pixfmt.GrayAlpha8:
			y, a := src[i*2], src[i*2+1]
			d[0], d[1], d[2], d[3] = y, y, y, a
		case pixfmt.RGB8:
			s := src[i*3 : i*3+3 : i*3+3]
			d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
		case pixfmt.RGBA8:
			copy(d, src[i*4:i*4+4])
		}
	}
	return dst
}

// At returns the color of the pixel at (x, y), or transparent outside the bounds.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.Bounds()) {
		return color.Transparent
	}
	c := m.Channels()
	p := m.Pix[(y*m.Width+x)*c:]
	switch m.Layout {
	case pixfmt.Gray8:
		return color.Gray{Y: p[0]}
	case pixfmt.GrayAlpha8:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
	case pixfmt.RGB8:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
	default:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
}

// Save encodes the image to path, creating missing parent directories.
//
// Filesystem errors are reported as ErrIoFailure and encoder errors as
// ErrCodecFailure, both as *common.PathError carrying path.
//
// Arguments:
//   - path: The destination file. Its extension is not changed.
//   - enc: The encoder to use; nil selects codec.ForPath(path).
//
// Returns:
//   - error: nil on success.
func (m *Image) Save(path string, enc codec.Encoder) (err error) {
	if enc == nil {
		enc = codec.ForPath(path)
	}
	if m.Empty() {
		return common.NewPathError(common.ErrCodecFailure, "encode", path,
			errors.Errorf("cannot encode an empty %dx%d image", m.Width, m.Height))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return common.NewPathError(common.ErrIoFailure, "mkdir", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return common.NewPathError(common.ErrIoFailure, "create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = common.NewPathError(common.ErrIoFailure, "close", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := enc.Encode(w, m.ToImage()); err != nil {
		return common.NewPathError(common.ErrCodecFailure, "encode", path, err)
	}
	if err := w.Flush(); err != nil {
		return common.NewPathError(common.ErrIoFailure, "write", path, err)
	}
	return nil
}
