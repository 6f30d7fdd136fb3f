package game

import "github.com/Garsondee/rugtown/internal/sim"

// RugSize is the side of the square model-space the map is authored in.
const RugSize = 900

// View letterboxes the square rug into the screen. Scale maps model units to
// screen pixels; OffX/OffY centre the rug on the longer axis.
type View struct {
	W, H  int
	Scale float64
	OffX  float64
	OffY  float64
}

// Fit recomputes the transform for a w×h screen.
func (v *View) Fit(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	v.W, v.H = w, h
	v.Scale = float64(min(w, h)) / RugSize
	v.OffX = (float64(w) - RugSize*v.Scale) / 2
	v.OffY = (float64(h) - RugSize*v.Scale) / 2
}

// ScreenToWorld maps a screen pixel to model-space.
func (v View) ScreenToWorld(px, py float64) sim.Point {
	if v.Scale == 0 {
		return sim.Point{X: px, Y: py}
	}
	return sim.Point{X: (px - v.OffX) / v.Scale, Y: (py - v.OffY) / v.Scale}
}

// WorldToScreen maps a model-space point to screen pixels.
func (v View) WorldToScreen(p sim.Point) (float32, float32) {
	return float32(v.OffX + p.X*v.Scale), float32(v.OffY + p.Y*v.Scale)
}

// Len scales a model-space length to pixels.
func (v View) Len(l float64) float32 { return float32(l * v.Scale) }
