// Package viewport holds the camera state of a map canvas: pan offset,
// zoom scale, and (for hex documents) the grid orientation. It is the
// single source of truth for the screen<->world affine transform; every
// coordinate conversion in the app goes through it.
package viewport

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/geom"
)

// Viewport is mutated only through its methods; the setters clamp or
// reject malformed input so the geometry layer never divides by zero.
type Viewport struct {
	Pan         cp.Vector // world units
	Zoom        float64
	Orientation geom.Orientation

	MinZoom float64
	MaxZoom float64
}

// New returns a viewport at the origin with zoom 1 and the given clamp
// range. A degenerate range falls back to [0.1, 10].
func New(minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 || math.IsNaN(minZoom) {
		minZoom = 0.1
	}
	if maxZoom < minZoom || math.IsNaN(maxZoom) {
		maxZoom = 10
	}
	return &Viewport{Zoom: clamp(1, minZoom, maxZoom), MinZoom: minZoom, MaxZoom: maxZoom}
}

// ScreenToWorld maps a screen point through the inverse transform:
// world = screen/zoom - pan.
func (v *Viewport) ScreenToWorld(screen cp.Vector) cp.Vector {
	return cp.Vector{
		X: screen.X/v.Zoom - v.Pan.X,
		Y: screen.Y/v.Zoom - v.Pan.Y,
	}
}

// WorldToScreen is the exact inverse of ScreenToWorld.
func (v *Viewport) WorldToScreen(world cp.Vector) cp.Vector {
	return cp.Vector{
		X: (world.X + v.Pan.X) * v.Zoom,
		Y: (world.Y + v.Pan.Y) * v.Zoom,
	}
}

// PanBy shifts the camera by a screen-space delta. The pan itself is
// unclamped; the canvas is infinite.
func (v *Viewport) PanBy(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	v.Pan.X += dx / v.Zoom
	v.Pan.Y += dy / v.Zoom
}

// ZoomAt scales the zoom by factor while keeping the world point under the
// given screen point fixed, the way wheel and pinch zoom are expected to
// behave. Non-positive or NaN factors are rejected; the result is clamped
// to [MinZoom, MaxZoom].
func (v *Viewport) ZoomAt(screen cp.Vector, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsNaN(screen.X) || math.IsNaN(screen.Y) {
		return
	}
	anchor := v.ScreenToWorld(screen)
	v.Zoom = clamp(v.Zoom*factor, v.MinZoom, v.MaxZoom)
	// Recompute pan so the anchor stays under the cursor.
	v.Pan.X = screen.X/v.Zoom - anchor.X
	v.Pan.Y = screen.Y/v.Zoom - anchor.Y
}

// SetZoom clamps and applies an absolute zoom value.
func (v *Viewport) SetZoom(zoom float64) {
	if zoom <= 0 || math.IsNaN(zoom) {
		return
	}
	v.Zoom = clamp(zoom, v.MinZoom, v.MaxZoom)
}

// SetOrientation switches the hex basis. The caller owning the hex layout
// must re-derive it; square documents ignore orientation entirely.
func (v *Viewport) SetOrientation(o geom.Orientation) {
	v.Orientation = o
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
