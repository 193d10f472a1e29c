package pixfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-memimg/common"
)

// TestCatalogConsistency checks the metadata table of every catalog entry.
func TestCatalogConsistency(t *testing.T) {
	formats := Formats()
	require.Len(t, formats, 16, "catalog should have 16 formats")

	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			assert.True(t, f.Valid())
			assert.Equal(t, f.Channels()*f.BytesPerChannel(), f.BytesPerPixel(), "bytes per pixel should be channels * bytes per channel")
			assert.Contains(t, []int{1, 2, 3, 4}, f.Channels())
			assert.Contains(t, []int{1, 2, 4, 8}, f.BytesPerChannel())
			assert.Equal(t, f.Channels(), f.Layout().Channels(), "layout should keep the channel count")
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	tests := []struct {
		format   Format
		name     string
		alias    string
		channels int
		bpc      int
		layout   Layout
	}{
		{CV8UC1, "CV_8UC1", "8UC1", 1, 1, Gray8},
		{CV8UC3, "CV_8UC3", "8UC3", 3, 1, RGB8},
		{CV16UC2, "CV_16UC2", "16UC2", 2, 2, GrayAlpha8},
		{CV32FC4, "CV_32FC4", "32FC4", 4, 4, RGBA8},
		{CV64FC3, "CV_64FC3", "64FC3", 3, 8, RGB8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.alias, tt.format.Alias())
			assert.Equal(t, tt.channels, tt.format.Channels())
			assert.Equal(t, tt.bpc, tt.format.BytesPerChannel())
			assert.Equal(t, tt.layout, tt.format.Layout())
		})
	}
}

func TestDefaultFormat(t *testing.T) {
	assert.Equal(t, CV8UC3, DefaultFormat)
	assert.False(t, Format(0).Valid(), "zero value should not be a catalog entry")
	assert.False(t, Format(17).Valid())
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)

		got, err = ParseFormat(f.Alias())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat(" cv_32fc1 ")
	require.NoError(t, err)
	assert.Equal(t, CV32FC1, got)

	for _, bad := range []string{"", "CV_8SC1", "8UC5", "rgb"} {
		_, err := ParseFormat(bad)
		assert.ErrorIs(t, err, common.ErrUnknownFormat, "parsing %q", bad)
	}
}

func TestFormatText(t *testing.T) {
	text, err := CV16UC4.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "CV_16UC4", string(text))

	var f Format
	require.NoError(t, f.UnmarshalText([]byte("64FC2")))
	assert.Equal(t, CV64FC2, f)

	_, err = Format(0).MarshalText()
	assert.Error(t, err)
}

func TestBufferLen(t *testing.T) {
	n, err := BufferLen(CV8UC3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = BufferLen(CV64FC4, 640, 480)
	require.NoError(t, err)
	assert.Equal(t, 640*480*32, n)

	n, err = BufferLen(CV32FC1, 0, 100)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = BufferLen(CV8UC1, -1, 10)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)

	_, err = BufferLen(CV64FC4, math.MaxInt, 2)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation, "overflowing length should be rejected")

	_, err = BufferLen(CV8UC1, math.MaxInt, math.MaxInt)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)
}

func TestChannelOrder(t *testing.T) {
	assert.Equal(t, RGB, ChannelOrder(0), "RGB should be the default")

	for channels, want := range map[int]bool{1: false, 2: false, 3: true, 4: true} {
		assert.Equal(t, want, BGR.Applies(channels), "BGR with %d channels", channels)
		assert.False(t, RGB.Applies(channels))
	}

	o, err := ParseChannelOrder("BGR")
	require.NoError(t, err)
	assert.Equal(t, BGR, o)

	o, err = ParseChannelOrder("")
	require.NoError(t, err)
	assert.Equal(t, RGB, o)

	_, err = ParseChannelOrder("grb")
	assert.Error(t, err)
}
