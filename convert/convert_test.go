package convert

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-memimg/common"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

func encode16(values ...uint16) []byte {
	b := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

func encode32F(values ...float32) []byte {
	b := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func encode64F(values ...float64) []byte {
	b := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b
}

// TestConvert8UC3 covers the pass-through path with both channel orders.
func TestConvert8UC3(t *testing.T) {
	img, err := Convert([]byte{10, 20, 30, 40, 50, 60}, pixfmt.CV8UC3, pixfmt.RGB, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, pixfmt.RGB8, img.Layout)
	assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, img.Bytes())

	img, err = Convert([]byte{10, 20, 30, 40, 50, 60}, pixfmt.CV8UC3, pixfmt.BGR, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{30, 20, 10, 60, 50, 40}, img.Bytes())
}

func TestConvert8UC4BGRKeepsAlpha(t *testing.T) {
	img, err := Convert([]byte{1, 2, 3, 4, 5, 6, 7, 8}, pixfmt.CV8UC4, pixfmt.BGR, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, pixfmt.RGBA8, img.Layout)
	assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, img.Bytes())
}

// TestZeroBuffers checks that an all-zero buffer stays zero for every format,
// except 16-bit formats where zero maps to 255.
func TestZeroBuffers(t *testing.T) {
	const w, h = 3, 2
	for _, f := range pixfmt.Formats() {
		t.Run(f.String(), func(t *testing.T) {
			raw := make([]byte, w*h*f.BytesPerPixel())
			img, err := Convert(raw, f, pixfmt.RGB, w, h)
			require.NoError(t, err)
			require.Len(t, img.Bytes(), w*h*f.Channels())
			assert.Equal(t, f.Layout(), img.Layout)

			want := byte(0)
			if f.Depth() == pixfmt.Depth16U {
				want = 255
			}
			assert.Equal(t, bytes.Repeat([]byte{want}, w*h*f.Channels()), img.Bytes())
		})
	}
}

func TestConvert16U(t *testing.T) {
	img, err := Convert(encode16(65535, 0), pixfmt.CV16UC1, pixfmt.RGB, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, pixfmt.Gray8, img.Layout)
	assert.Equal(t, []byte{255, 255}, img.Bytes(), "65535 and 0 both map to 255")

	img, err = Convert(encode16(1, 1000, 32768), pixfmt.CV16UC3, pixfmt.RGB, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 255, 255}, img.Bytes(), "the inverse rescale saturates")
}

func TestConvert16ULinear(t *testing.T) {
	c := Converter{Rescale16: Rescale16Linear}
	img, err := c.Convert(encode16(0, 257, 385, 386, 65535), pixfmt.CV16UC1, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 1, 2, 255}, img.Bytes())
}

func TestInverse16(t *testing.T) {
	assert.Equal(t, uint8(255), inverse16(0))
	assert.Equal(t, uint8(255), inverse16(65535))
	for u := 1; u <= math.MaxUint16; u += 997 {
		assert.Equal(t, uint8(255), inverse16(uint16(u)), "u=%d", u)
	}
}

func TestConvert32F(t *testing.T) {
	img, err := Convert(encode32F(1, 1, 1, 1), pixfmt.CV32FC4, pixfmt.RGB, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 255, 255, 255}, img.Bytes(), "1.0 maps to 255 exactly")

	img, err = Convert(encode32F(0.5), pixfmt.CV32FC1, pixfmt.RGB, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{128}, img.Bytes(), "0.5 rounds half away from zero")

	img, err = Convert(encode32F(-0.25, 2, float32(math.NaN()), 0.1), pixfmt.CV32FC2, pixfmt.BGR, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, pixfmt.GrayAlpha8, img.Layout)
	assert.Equal(t, []byte{0, 255, 0, 26}, img.Bytes(), "out of range values saturate and BGR is ignored")
}

func TestConvert64F(t *testing.T) {
	img, err := Convert(encode64F(1, 0.5, 0, 1), pixfmt.CV64FC4, pixfmt.BGR, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 128, 255, 255}, img.Bytes())

	img, err = Convert(encode64F(math.Inf(1), math.Inf(-1), 100.0/255.0), pixfmt.CV64FC3, pixfmt.RGB, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 0, 100}, img.Bytes())
}

// TestChannelOrderInvolution converts with BGR, swaps again and expects the input.
func TestChannelOrderInvolution(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	for _, f := range []pixfmt.Format{pixfmt.CV8UC1, pixfmt.CV8UC2, pixfmt.CV8UC3, pixfmt.CV8UC4} {
		t.Run(f.String(), func(t *testing.T) {
			pixels := len(src) / f.Channels()
			raw := append([]byte(nil), src...)

			img, err := Convert(raw, f, pixfmt.BGR, pixels, 1)
			require.NoError(t, err)

			out := append([]byte(nil), img.Bytes()...)
			if f.Channels() < 3 {
				assert.Equal(t, src, out, "1 and 2 channel data is never permuted")
				return
			}
			assert.NotEqual(t, src, out)
			SwapRB(out, f.Channels())
			assert.Equal(t, src, out, "swapping twice restores the input")
		})
	}
}

func TestLengthMismatch(t *testing.T) {
	_, err := Convert(make([]byte, 5), pixfmt.CV8UC3, pixfmt.RGB, 2, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation, "short buffer should be rejected")

	_, err = Convert(make([]byte, 7), pixfmt.CV8UC3, pixfmt.RGB, 2, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation, "long buffer should be rejected")

	_, err = Convert(make([]byte, 8), pixfmt.CV32FC1, pixfmt.RGB, 1, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)

	_, err = Convert(nil, pixfmt.Format(0), pixfmt.RGB, 0, 0)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation, "invalid format should be rejected")

	assert.Panics(t, func() {
		MustConvert(make([]byte, 3), pixfmt.CV16UC1, pixfmt.RGB, 2, 1)
	})
	assert.NotPanics(t, func() {
		MustConvert(make([]byte, 4), pixfmt.CV16UC1, pixfmt.RGB, 2, 1)
	})
}

func TestParseRescale16(t *testing.T) {
	r, err := ParseRescale16("")
	require.NoError(t, err)
	assert.Equal(t, Rescale16Inverse, r)

	r, err = ParseRescale16("linear")
	require.NoError(t, err)
	assert.Equal(t, Rescale16Linear, r)
	assert.Equal(t, "linear", r.String())

	_, err = ParseRescale16("log")
	assert.Error(t, err)
}
