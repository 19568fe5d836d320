package viewport

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestScreenWorldRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		pan  cp.Vector
		zoom float64
	}{
		{"identity", cp.Vector{}, 1},
		{"panned", cp.Vector{X: 120, Y: -45}, 1},
		{"zoomed_in", cp.Vector{X: -3.5, Y: 7.25}, 4},
		{"zoomed_out", cp.Vector{X: 999, Y: 999}, 0.25},
	}
	points := []cp.Vector{
		{X: 0, Y: 0},
		{X: 640, Y: 360},
		{X: -17.3, Y: 1024.6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := New(0.1, 10)
			v.Pan = c.pan
			v.Zoom = c.zoom
			for _, p := range points {
				got := v.WorldToScreen(v.ScreenToWorld(p))
				if math.Abs(got.X-p.X) > 1e-6 || math.Abs(got.Y-p.Y) > 1e-6 {
					t.Fatalf("round trip of %v = %v", p, got)
				}
			}
		})
	}
}

func TestZoomAtKeepsCursorPointFixed(t *testing.T) {
	v := New(0.1, 10)
	v.Pan = cp.Vector{X: 50, Y: -20}
	cursor := cp.Vector{X: 400, Y: 300}
	before := v.ScreenToWorld(cursor)

	v.ZoomAt(cursor, 1.5)
	after := v.ScreenToWorld(cursor)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Fatalf("world point under cursor moved: %v -> %v", before, after)
	}

	v.ZoomAt(cursor, 1.0/3.0)
	after = v.ScreenToWorld(cursor)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Fatalf("world point under cursor moved on zoom out: %v", after)
	}
}

func TestZoomClamping(t *testing.T) {
	v := New(0.5, 2)
	v.ZoomAt(cp.Vector{}, 100)
	if v.Zoom != 2 {
		t.Errorf("zoom = %v, want clamped to 2", v.Zoom)
	}
	v.ZoomAt(cp.Vector{}, 0.0001)
	if v.Zoom != 0.5 {
		t.Errorf("zoom = %v, want clamped to 0.5", v.Zoom)
	}
}

func TestMalformedInputRejected(t *testing.T) {
	v := New(0.1, 10)
	v.Pan = cp.Vector{X: 1, Y: 2}

	v.ZoomAt(cp.Vector{}, -1)
	v.ZoomAt(cp.Vector{}, 0)
	v.ZoomAt(cp.Vector{}, math.NaN())
	v.ZoomAt(cp.Vector{X: math.NaN()}, 2)
	v.SetZoom(0)
	v.SetZoom(math.NaN())
	if v.Zoom != 1 {
		t.Errorf("zoom changed by rejected input: %v", v.Zoom)
	}

	v.PanBy(math.NaN(), 5)
	if v.Pan.X != 1 || v.Pan.Y != 2 {
		t.Errorf("pan changed by NaN delta: %v", v.Pan)
	}
}

func TestPanIsUnclamped(t *testing.T) {
	v := New(0.1, 10)
	v.Zoom = 2
	v.PanBy(1e7, -1e7)
	if v.Pan.X != 5e6 || v.Pan.Y != -5e6 {
		t.Errorf("pan = %v, want screen delta divided by zoom", v.Pan)
	}
}
