package session

import "math"

// Zoom steps applied by ZoomIn and ZoomOut.
const (
	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// View is the display zoom. The zero value is unscaled.
type View struct {
	scale float64
}

// Scale returns the current zoom factor.
func (v *View) Scale() float64 {
	if v.scale == 0 {
		return 1
	}
	return v.scale
}

// ZoomIn enlarges by 10%.
func (v *View) ZoomIn() float64 {
	v.scale = v.Scale() * zoomInFactor
	return v.scale
}

// ZoomOut shrinks by 10%.
func (v *View) ZoomOut() float64 {
	v.scale = v.Scale() * zoomOutFactor
	return v.scale
}

// Reset returns to 100%.
func (v *View) Reset() {
	v.scale = 1
}

// Percent is the zoom as a truncated percentage, as shown on the zoom button.
func (v *View) Percent() int {
	return int(math.Floor(v.Scale()*100 + 1e-9))
}
