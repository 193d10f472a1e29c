// Package codec - the image encoders an Image can be persisted with.
//
// Every encoder accepts a Go image.Image and writes one file format. The
// encoders are stateless and safe for concurrent use.
package codec

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes an image in one file format.
type Encoder interface {
	// Name is the short name used on the command line ("png").
	Name() string
	// Ext is the file extension including the dot (".png").
	Ext() string
	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error
}

// Format identifies one of the built-in encoders.
type Format string

// Built-in encoder names.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// Default is the encoder used when nothing else is requested.
var Default Encoder = PNG{}

// PNG encodes lossless PNG with the default compression level.
type PNG struct {
	// Compression overrides the default compression level.
	Compression png.CompressionLevel
}

func (PNG) Name() string { return string(FormatPNG) }
func (PNG) Ext() string  { return ".png" }

func (e PNG) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.Compression}
	return enc.Encode(w, img)
}

// BMP encodes uncompressed Windows bitmaps.
type BMP struct{}

func (BMP) Name() string { return string(FormatBMP) }
func (BMP) Ext() string  { return ".bmp" }

func (BMP) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// TIFF encodes deflate-compressed TIFF.
type TIFF struct{}

func (TIFF) Name() string { return string(FormatTIFF) }
func (TIFF) Ext() string  { return ".tiff" }

func (TIFF) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// WebP encodes lossless WebP.
type WebP struct{}

func (WebP) Name() string { return string(FormatWebP) }
func (WebP) Ext() string  { return ".webp" }

func (WebP) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true})
}

var builtin = map[Format]Encoder{
	FormatPNG:  PNG{},
	FormatBMP:  BMP{},
	FormatTIFF: TIFF{},
	FormatWebP: WebP{},
}

// ByName returns the encoder with the given name. Encoders in extra are
// consulted before the built-in ones, so callers can plug in encoders backed by
// native libraries without this package linking them.
func ByName(name string, extra ...Encoder) (Encoder, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return Default, nil
	}
	for _, enc := range extra {
		if enc.Name() == string(f) {
			return enc, nil
		}
	}
	if enc, ok := builtin[f]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported codec %q (available: %s)", name, strings.Join(Names(extra...), ", "))
}

// ForPath picks an encoder from the extension of path, falling back to Default.
func ForPath(path string) Encoder {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return BMP{}
	case ".tif", ".tiff":
		return TIFF{}
	case ".webp":
		return WebP{}
	default:
		return Default
	}
}

// Names lists the built-in encoder names and those of extra in sorted order.
func Names(extra ...Encoder) []string {
	seen := make(map[string]bool, len(builtin)+len(extra))
	for f := range builtin {
		seen[string(f)] = true
	}
	for _, enc := range extra {
		seen[enc.Name()] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithExt appends the encoder's extension to name unless it is already there.
func WithExt(name string, enc Encoder) string {
	if strings.EqualFold(filepath.Ext(name), enc.Ext()) {
		return name
	}
	return name + enc.Ext()
}
