// Package convert - turns a raw buffer of any catalog format into a canonical
// 8-bit image.
//
// The conversion is lossy by construction: every source depth is reduced to one
// byte per channel, which is what the display and the encoders accept.
//
// Rescale rules per source depth:
//
//	8U   passed through unchanged
//	16U  round(65535 / u * 255), u == 0 gives 255 (Rescale16Inverse, default)
//	     round(u / 257)                          (Rescale16Linear)
//	32F  round(f * 255) saturated to [0, 255], NaN gives 0
//	64F  same as 32F on the double value
//
// Rounding is half away from zero, so 0.5 maps to 128.
package convert

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/images"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

// Rescale16 selects how 16-bit samples are reduced to 8 bits.
type Rescale16 int

const (
	// Rescale16Inverse computes round(65535/u*255). This is the behavior existing
	// dumps were produced with, so it stays the default. It maps every sample to 255.
	Rescale16Inverse Rescale16 = iota
	// Rescale16Linear computes round(u/257), a proportional downscale.
	Rescale16Linear
)

func (r Rescale16) String() string {
	if r == Rescale16Linear {
		return "linear"
	}
	return "inverse"
}

// ParseRescale16 accepts "inverse" or "linear". An empty string is the default.
func ParseRescale16(s string) (Rescale16, error) {
	switch s {
	case "", "inverse":
		return Rescale16Inverse, nil
	case "linear":
		return Rescale16Linear, nil
	default:
		return Rescale16Inverse, errors.Errorf("unknown 16-bit rescale %q", s)
	}
}

// Converter holds the conversion options. The zero value converts RGB data with
// the default 16-bit rule.
type Converter struct {
	// Order is the channel order of the source data.
	Order pixfmt.ChannelOrder
	// Rescale16 selects the 16-bit reduction.
	Rescale16 Rescale16
}

// Convert normalizes raw into a canonical image. The converter takes ownership of
// raw: for 8-bit formats it becomes the image buffer without a copy.
//
// Arguments:
//   - raw: Exactly width*height*f.BytesPerPixel() bytes.
//   - f: The source format.
//   - width: The width in pixels.
//   - height: The height in pixels.
//
// Returns:
//   - *images.Image: The normalized image.
//   - error: ErrPreconditionViolation when the buffer length does not match.
func (c Converter) Convert(raw []byte, f pixfmt.Format, width, height int) (*images.Image, error) {
	if !f.Valid() {
		return nil, errors.Wrapf(common.ErrPreconditionViolation, "format %d is not in the catalog", uint8(f))
	}
	want, err := pixfmt.BufferLen(f, width, height)
	if err != nil {
		return nil, err
	}
	if len(raw) != want {
		return nil, errors.Wrapf(common.ErrPreconditionViolation,
			"%s %dx%d needs %d bytes, got %d", f, width, height, want, len(raw))
	}

	var pix []byte
	switch f.Depth() {
	case pixfmt.Depth8U:
		pix = raw
	case pixfmt.Depth16U:
		pix = c.decode16(raw)
	case pixfmt.Depth32F:
		pix = decode32F(raw)
	case pixfmt.Depth64F:
		pix = decode64F(raw)
	}

	if c.Order.Applies(f.Channels()) {
		SwapRB(pix, f.Channels())
	}

	return images.New(f.Layout(), pix, width, height)
}

// Convert normalizes raw with the default 16-bit rule and the given channel order.
func Convert(raw []byte, f pixfmt.Format, order pixfmt.ChannelOrder, width, height int) (*images.Image, error) {
	return Converter{Order: order}.Convert(raw, f, width, height)
}

// MustConvert is like Convert but panics on error. Use it where a length mismatch
// can only be a programming error.
func MustConvert(raw []byte, f pixfmt.Format, order pixfmt.ChannelOrder, width, height int) *images.Image {
	img, err := Convert(raw, f, order, width, height)
	if err != nil {
		panic(err)
	}
	return img
}

// SwapRB exchanges channel 0 and channel 2 of every pixel in place. Buffers with
// fewer than 3 channels are left untouched. Applying it twice restores the input.
func SwapRB(pix []byte, channels int) {
	if channels < 3 {
		return
	}
	for i := 0; i+channels <= len(pix); i += channels {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

func (c Converter) decode16(raw []byte) []byte {
	out := make([]byte, len(raw)/2)
	for i := range out {
		u := binary.LittleEndian.Uint16(raw[i*2:])
		if c.Rescale16 == Rescale16Linear {
			out[i] = uint8((uint32(u) + 128) / 257)
			continue
		}
		out[i] = inverse16(u)
	}
	return out
}

// inverse16 reproduces round(65535/u*255) with saturation. u == 0 would divide
// by zero and is defined as 255.
func inverse16(u uint16) uint8 {
	if u == 0 {
		return math.MaxUint8
	}
	return saturate(math.Round(65535.0 / float64(u) * 255.0))
}

func decode32F(raw []byte) []byte {
	out := make([]byte, len(raw)/4)
	for i := range out {
		f := math32.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		// Negative values saturate to 0, so flooring v+0.5 rounds half away from zero.
		out[i] = saturate(math32.Floor(f*255 + 0.5))
	}
	return out
}

func decode64F(raw []byte) []byte {
	out := make([]byte, len(raw)/8)
	for i := range out {
		f := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		out[i] = saturate(math.Round(f * 255))
	}
	return out
}

// saturate converts an already rounded value to a byte, clamping out of range
// values to 0 or 255 and mapping NaN to 0.
func saturate[T constraints.Float](v T) uint8 {
	switch {
	case v != v:
		return 0
	case v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}
