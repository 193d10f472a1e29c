package images

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// Preview renders the image for display at the given zoom scale. Scaling uses
// nearest-neighbour so individual source pixels stay visible when zoomed in.
// A scale of 1 (or any non-positive or NaN scale) returns the unscaled image.
func Preview(m *Image, scale float64) image.Image {
	img := m.ToImage()
	if m.Empty() || scale <= 0 || scale == 1 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return img
	}

	w := uint(math.Max(1, math.Round(float64(m.Width)*scale)))
	h := uint(math.Max(1, math.Round(float64(m.Height)*scale)))
	return resize.Resize(w, h, img, resize.NearestNeighbor)
}
