package mat

import (
	"fmt"
	"image"
	"io"
	"strings"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-memimg/codec"
)

// Name is the codec name of the OpenCV encoder.
const Name = "opencv"

// Encoder writes images through OpenCV imgcodecs.
type Encoder struct {
	// Container is the file extension imgcodecs encodes to, e.g. ".tiff".
	// Empty means PNG.
	Container string
}

var _ codec.Encoder = Encoder{}

// Name implements codec.Encoder.
func (Encoder) Name() string { return Name }

// Ext implements codec.Encoder.
func (e Encoder) Ext() string {
	if e.Container == "" {
		return string(gocv.PNGFileExt)
	}
	return strings.ToLower(e.Container)
}

// Encode implements codec.Encoder.
func (e Encoder) Encode(w io.Writer, img image.Image) error {
	var (
		m   gocv.Mat
		err error
	)
	if g, ok := img.(*image.Gray); ok {
		m, err = gocv.ImageGrayToMatGray(g)
	} else {
		m, err = gocv.ImageToMatRGBA(img)
	}
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer m.Close()

	buf, err := gocv.IMEncode(gocv.FileExt(e.Ext()), m)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	_, err = w.Write(buf.GetBytes())
	return err
}
