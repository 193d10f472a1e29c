// Package pixfmt - the closed catalog of source pixel encodings that can be read
// out of a process, and the canonical 8-bit layouts they are normalized into.
//
// The catalog mirrors the OpenCV Mat element types: an unsigned 8-bit, unsigned
// 16-bit, 32-bit float or 64-bit float depth combined with one to four channels.
package pixfmt

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
)

// Depth is the storage type of a single channel sample.
type Depth uint8

// Depth constants.
const (
	// Depth8U is an unsigned 8-bit sample.
	Depth8U Depth = iota
	// Depth16U is an unsigned 16-bit sample.
	Depth16U
	// Depth32F is an IEEE-754 single precision sample.
	Depth32F
	// Depth64F is an IEEE-754 double precision sample.
	Depth64F
)

// BytesPerChannel returns the size of one sample of this depth.
func (d Depth) BytesPerChannel() int {
	switch d {
	case Depth16U:
		return 2
	case Depth32F:
		return 4
	case Depth64F:
		return 8
	default:
		return 1
	}
}

func (d Depth) String() string {
	switch d {
	case Depth16U:
		return "16U"
	case Depth32F:
		return "32F"
	case Depth64F:
		return "64F"
	default:
		return "8U"
	}
}

// Format is one of the 16 supported source encodings. The zero value is not a
// valid format; use DefaultFormat for an unconfigured value.
type Format uint8

// Format constants.
const (
	CV8UC1 Format = iota + 1
	CV8UC2
	CV8UC3
	CV8UC4
	CV16UC1
	CV16UC2
	CV16UC3
	CV16UC4
	CV32FC1
	CV32FC2
	CV32FC3
	CV32FC4
	CV64FC1
	CV64FC2
	CV64FC3
	CV64FC4

	numFormats = int(CV64FC4)
)

// DefaultFormat is used when nothing has been configured yet.
const DefaultFormat = CV8UC3

type info struct {
	depth    Depth
	channels int
}

// catalog is indexed by Format-1. Its length is fixed by numFormats, so a format
// constant without an entry fails to compile.
var catalog = [numFormats]info{
	{Depth8U, 1}, {Depth8U, 2}, {Depth8U, 3}, {Depth8U, 4},
	{Depth16U, 1}, {Depth16U, 2}, {Depth16U, 3}, {Depth16U, 4},
	{Depth32F, 1}, {Depth32F, 2}, {Depth32F, 3}, {Depth32F, 4},
	{Depth64F, 1}, {Depth64F, 2}, {Depth64F, 3}, {Depth64F, 4},
}

func (f Format) info() info {
	if !f.Valid() {
		return catalog[DefaultFormat-1]
	}
	return catalog[f-1]
}

// Valid reports whether f is a catalog entry.
func (f Format) Valid() bool {
	return f >= CV8UC1 && int(f) <= numFormats
}

// Depth returns the sample type.
func (f Format) Depth() Depth {
	return f.info().depth
}

// Channels returns the channel count, 1 to 4.
func (f Format) Channels() int {
	return f.info().channels
}

// BytesPerChannel returns 1, 2, 4 or 8.
func (f Format) BytesPerChannel() int {
	return f.info().depth.BytesPerChannel()
}

// BytesPerPixel returns Channels() * BytesPerChannel().
func (f Format) BytesPerPixel() int {
	return f.Channels() * f.BytesPerChannel()
}

// Layout returns the canonical output layout, which depends only on the channel count.
func (f Format) Layout() Layout {
	return LayoutForChannels(f.Channels())
}

// Alias returns the short name, e.g. "8UC3".
func (f Format) Alias() string {
	i := f.info()
	return i.depth.String() + "C" + string(rune('0'+i.channels))
}

// String returns the catalog name, e.g. "CV_8UC3".
func (f Format) String() string {
	if !f.Valid() {
		return "CV_INVALID"
	}
	return "CV_" + f.Alias()
}

// Formats returns every catalog entry in declaration order.
func Formats() []Format {
	out := make([]Format, 0, numFormats)
	for f := CV8UC1; int(f) <= numFormats; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFormat resolves a catalog name ("CV_16UC1") or its short alias ("16UC1").
// Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, f := range Formats() {
		if name == f.String() || name == f.Alias() {
			return f, nil
		}
	}
	return 0, errors.Wrapf(common.ErrUnknownFormat, "%q", s)
}

// MarshalText implements encoding.TextMarshaler so formats persist by name.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, errors.Wrapf(common.ErrUnknownFormat, "value %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// BufferLen returns width*height*BytesPerPixel, the only valid raw buffer length
// for these dimensions. It fails with ErrPreconditionViolation for negative
// dimensions or when the product does not fit in an int.
func BufferLen(f Format, width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, errors.Wrapf(common.ErrPreconditionViolation, "negative dimensions %dx%d", width, height)
	}
	hi, pixels := bits.Mul64(uint64(width), uint64(height))
	if hi != 0 {
		return 0, errors.Wrapf(common.ErrPreconditionViolation, "%dx%d overflows", width, height)
	}
	hi, n := bits.Mul64(pixels, uint64(f.BytesPerPixel()))
	if hi != 0 || n > uint64(maxInt) {
		return 0, errors.Wrapf(common.ErrPreconditionViolation, "%dx%d %s overflows the address space", width, height, f)
	}
	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)
