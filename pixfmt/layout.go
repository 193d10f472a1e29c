package pixfmt

import (
	"strings"

	"github.com/pkg/errors"
)

// Layout is one of the canonical 8-bit-per-channel encodings every source format
// is normalized into.
type Layout uint8

// Layout constants.
const (
	Gray8 Layout = iota
	GrayAlpha8
	RGB8
	RGBA8
)

// LayoutForChannels maps a channel count to its canonical layout.
func LayoutForChannels(channels int) Layout {
	switch channels {
	case 2:
		return GrayAlpha8
	case 3:
		return RGB8
	case 4:
		return RGBA8
	default:
		return Gray8
	}
}

// Channels returns the number of bytes per pixel of the layout.
func (l Layout) Channels() int {
	return int(l) + 1
}

func (l Layout) String() string {
	switch l {
	case GrayAlpha8:
		return "GrayAlpha8"
	case RGB8:
		return "Rgb8"
	case RGBA8:
		return "Rgba8"
	default:
		return "Gray8"
	}
}

// ChannelOrder is the byte order of color channels inside a pixel. Only 3- and
// 4-channel formats are affected by it.
type ChannelOrder uint8

// ChannelOrder constants. RGB is the zero value.
const (
	RGB ChannelOrder = iota
	BGR
)

func (o ChannelOrder) String() string {
	if o == BGR {
		return "bgr"
	}
	return "rgb"
}

// Applies reports whether the order changes anything for a format with the given channel count.
func (o ChannelOrder) Applies(channels int) bool {
	return o == BGR && (channels == 3 || channels == 4)
}

// ParseChannelOrder accepts "rgb" or "bgr" in any case. An empty string is RGB.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rgb":
		return RGB, nil
	case "bgr":
		return BGR, nil
	default:
		return RGB, errors.Errorf("unknown channel order %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o ChannelOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *ChannelOrder) UnmarshalText(text []byte) error {
	parsed, err := ParseChannelOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
