// Package vipsenc - encoders and thumbnails backed by libvips.
package vipsenc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/cshum/vipsgen/vips"

	"github.com/nvr-ai/go-memimg/codec"
)

// Container selects the libvips saver.
type Container string

// Supported containers.
const (
	JPEG Container = "jpeg"
	WebP Container = "webp"
	PNG  Container = "png"
)

// Encoder re-encodes an image through libvips. It is registered under the name
// "vips-<container>", except JPEG which is plain "jpeg" since no built-in encoder
// covers it.
type Encoder struct {
	Container Container
}

var _ codec.Encoder = Encoder{}

// Name implements codec.Encoder.
func (e Encoder) Name() string {
	if e.container() == JPEG {
		return string(JPEG)
	}
	return "vips-" + string(e.container())
}

// Ext implements codec.Encoder.
func (e Encoder) Ext() string {
	switch e.container() {
	case WebP:
		return ".webp"
	case PNG:
		return ".png"
	default:
		return ".jpg"
	}
}

func (e Encoder) container() Container {
	if e.Container == "" {
		return JPEG
	}
	return e.Container
}

// Encode implements codec.Encoder. The image is handed to libvips as PNG.
func (e Encoder) Encode(w io.Writer, img image.Image) error {
	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		return fmt.Errorf("failed to stage image: %w", err)
	}

	ref, err := vips.NewImageFromBuffer(src.Bytes(), &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	defer ref.Close()

	out, err := save(ref, e.container())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func save(ref *vips.Image, c Container) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case WebP:
		out, err = ref.WebpsaveBuffer(&vips.WebpsaveBufferOptions{})
	case PNG:
		out, err = ref.PngsaveBuffer(&vips.PngsaveBufferOptions{})
	default:
		out, err = ref.JpegsaveBuffer(&vips.JpegsaveBufferOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("failed to encode image: empty %s output", c)
	}
	return out, nil
}

// Thumbnail shrinks an encoded image to fit width x height and returns it as
// PNG. The aspect ratio is kept.
//
// Arguments:
//   - data: The encoded image (any format libvips can load).
//   - width: The maximum width.
//   - height: The maximum height.
//
// Returns:
//   - []byte: The PNG thumbnail.
//   - error: An error if the image fails to load or resize.
func Thumbnail(data []byte, width, height int) ([]byte, error) {
	ref, err := vips.NewImageFromBuffer(data, &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	defer ref.Close()

	err = ref.ThumbnailImage(width, &vips.ThumbnailImageOptions{
		Height: height,
		FailOn: vips.FailOnError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}
	return save(ref, PNG)
}
