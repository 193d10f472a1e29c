// Package mat - OpenCV interop for raw buffers and converted images.
//
// Every catalog format has an OpenCV matrix type with the same name, so a raw
// buffer can be handed to OpenCV as is, and a converted image can be encoded by
// imgcodecs instead of the Go encoders.
package mat

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/convert"
	"github.com/nvr-ai/go-memimg/images"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

var matTypes = map[pixfmt.Format]gocv.MatType{
	pixfmt.CV8UC1:  gocv.MatTypeCV8UC1,
	pixfmt.CV8UC2:  gocv.MatTypeCV8UC2,
	pixfmt.CV8UC3:  gocv.MatTypeCV8UC3,
	pixfmt.CV8UC4:  gocv.MatTypeCV8UC4,
	pixfmt.CV16UC1: gocv.MatTypeCV16UC1,
	pixfmt.CV16UC2: gocv.MatTypeCV16UC2,
	pixfmt.CV16UC3: gocv.MatTypeCV16UC3,
	pixfmt.CV16UC4: gocv.MatTypeCV16UC4,
	pixfmt.CV32FC1: gocv.MatTypeCV32FC1,
	pixfmt.CV32FC2: gocv.MatTypeCV32FC2,
	pixfmt.CV32FC3: gocv.MatTypeCV32FC3,
	pixfmt.CV32FC4: gocv.MatTypeCV32FC4,
	pixfmt.CV64FC1: gocv.MatTypeCV64FC1,
	pixfmt.CV64FC2: gocv.MatTypeCV64FC2,
	pixfmt.CV64FC3: gocv.MatTypeCV64FC3,
	pixfmt.CV64FC4: gocv.MatTypeCV64FC4,
}

// MatType returns the OpenCV matrix type of f.
func MatType(f pixfmt.Format) (gocv.MatType, error) {
	t, ok := matTypes[f]
	if !ok {
		return 0, errors.Wrapf(common.ErrUnknownFormat, "no OpenCV type for %d", uint8(f))
	}
	return t, nil
}

// FromRaw wraps an unconverted buffer as an OpenCV matrix of the matching type.
// The caller must Close the returned Mat.
//
// Arguments:
//   - raw: Exactly width*height*f.BytesPerPixel() bytes.
//   - f: The format of raw.
//   - width: The width in pixels.
//   - height: The height in pixels.
//
// Returns:
//   - gocv.Mat: The matrix, height rows by width columns.
//   - error: ErrPreconditionViolation if raw has the wrong length.
func FromRaw(raw []byte, f pixfmt.Format, width, height int) (gocv.Mat, error) {
	t, err := MatType(f)
	if err != nil {
		return gocv.NewMat(), err
	}
	want, err := pixfmt.BufferLen(f, width, height)
	if err != nil {
		return gocv.NewMat(), err
	}
	if len(raw) != want {
		return gocv.NewMat(), errors.Wrapf(common.ErrPreconditionViolation, "%s %dx%d needs %d bytes, got %d", f, width, height, want, len(raw))
	}
	m, err := gocv.NewMatFromBytes(height, width, t, raw)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	return m, nil
}

// FromImage copies a converted image into an 8-bit OpenCV matrix. Color channels
// are stored in OpenCV's BGR order. The caller must Close the returned Mat.
func FromImage(img *images.Image) (gocv.Mat, error) {
	f, err := pixfmt.ParseFormat(fmt.Sprintf("8UC%d", img.Channels()))
	if err != nil {
		return gocv.NewMat(), err
	}
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	convert.SwapRB(pix, img.Channels())
	return FromRaw(pix, f, img.Width, img.Height)
}

// Checksum returns a hex MD5 of the matrix data, or "empty".
func Checksum(m gocv.Mat) string {
	if m.Empty() {
		return "empty"
	}
	data, err := m.DataPtrUint8()
	if err != nil {
		return "empty"
	}
	return fmt.Sprintf("%x", md5.Sum(data))
}
