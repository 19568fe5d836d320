package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// HexLayout maps world space onto a hexagonal grid in axial coordinates.
// Size is the circumradius (center to vertex) in world units. Orientation
// picks between the flat-top and pointy-top basis matrices.
type HexLayout struct {
	Size        float64
	Orientation Orientation
}

// NewHexLayout returns a hex layout. A non-positive size falls back to 1.
func NewHexLayout(size float64, o Orientation) *HexLayout {
	if size <= 0 || math.IsNaN(size) {
		size = 1
	}
	return &HexLayout{Size: size, Orientation: o}
}

const sqrt3 = 1.7320508075688772

// CellAt converts a world point to fractional axial coordinates with the
// orientation's inverse basis matrix, then snaps with cube rounding.
func (l *HexLayout) CellAt(world cp.Vector) Cell {
	var fq, fr float64
	if l.Orientation == OrientationPointy {
		fq = (sqrt3/3*world.X - 1.0/3*world.Y) / l.Size
		fr = (2.0 / 3 * world.Y) / l.Size
	} else {
		fq = (2.0 / 3 * world.X) / l.Size
		fr = (-1.0/3*world.X + sqrt3/3*world.Y) / l.Size
	}
	return roundCube(fq, fr)
}

// roundCube snaps fractional axial coordinates to the nearest hex. Each of
// the three cube components is rounded independently, then the component
// with the largest rounding error is recomputed from the other two so that
// q+r+s = 0 holds again. Rounding the axial pair independently picks the
// wrong cell near edges.
func roundCube(fq, fr float64) Cell {
	fs := -fq - fr
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return Cell{Q: int(q), R: int(r)}
}

func (l *HexLayout) Center(c Cell) cp.Vector {
	q := float64(c.Q)
	r := float64(c.R)
	if l.Orientation == OrientationPointy {
		return cp.Vector{
			X: l.Size * (sqrt3*q + sqrt3/2*r),
			Y: l.Size * (3.0 / 2 * r),
		}
	}
	return cp.Vector{
		X: l.Size * (3.0 / 2 * q),
		Y: l.Size * (sqrt3/2*q + sqrt3*r),
	}
}

// Polygon returns the six vertices of the hex. Flat-top corners sit at
// 0°, 60°, ...; pointy-top corners are offset by 30°.
func (l *HexLayout) Polygon(c Cell) []cp.Vector {
	center := l.Center(c)
	offset := 0.0
	if l.Orientation == OrientationPointy {
		offset = 30
	}
	verts := make([]cp.Vector, 6)
	for i := 0; i < 6; i++ {
		angle := (60*float64(i) - offset) * math.Pi / 180
		verts[i] = cp.Vector{
			X: center.X + l.Size*math.Cos(angle),
			Y: center.Y + l.Size*math.Sin(angle),
		}
	}
	return verts
}

func (l *HexLayout) Bounds(c Cell) cp.BB {
	center := l.Center(c)
	// Inradius spans the flat sides, circumradius the pointy ones.
	in := l.Size * sqrt3 / 2
	if l.Orientation == OrientationPointy {
		return cp.BB{L: center.X - in, B: center.Y - l.Size, R: center.X + in, T: center.Y + l.Size}
	}
	return cp.BB{L: center.X - l.Size, B: center.Y - in, R: center.X + l.Size, T: center.Y + in}
}

var hexDirs = []Cell{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

func (l *HexLayout) Neighbors(c Cell) []Cell {
	out := make([]Cell, len(hexDirs))
	for i, d := range hexDirs {
		out[i] = c.Add(d)
	}
	return out
}

// Distance is the cube distance (|dq|+|dr|+|ds|)/2; the rule argument only
// applies to square layouts.
func (l *HexLayout) Distance(a, b Cell, _ DistanceRule) float64 {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return float64(dq+dr+ds) / 2
}
