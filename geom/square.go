package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// SquareLayout maps world space onto an axis-aligned grid of CellSize-sized
// squares. Diagonal8 widens the neighborhood from 4 to 8 cells.
type SquareLayout struct {
	CellSize  float64
	Diagonal8 bool
}

// NewSquareLayout returns a square layout. A non-positive cell size falls
// back to 1 so the layout stays total.
func NewSquareLayout(cellSize float64) *SquareLayout {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = 1
	}
	return &SquareLayout{CellSize: cellSize}
}

func (l *SquareLayout) CellAt(world cp.Vector) Cell {
	return Cell{
		Q: int(math.Floor(world.X / l.CellSize)),
		R: int(math.Floor(world.Y / l.CellSize)),
	}
}

func (l *SquareLayout) Center(c Cell) cp.Vector {
	return cp.Vector{
		X: (float64(c.Q) + 0.5) * l.CellSize,
		Y: (float64(c.R) + 0.5) * l.CellSize,
	}
}

func (l *SquareLayout) Polygon(c Cell) []cp.Vector {
	x := float64(c.Q) * l.CellSize
	y := float64(c.R) * l.CellSize
	s := l.CellSize
	return []cp.Vector{
		{X: x, Y: y},
		{X: x + s, Y: y},
		{X: x + s, Y: y + s},
		{X: x, Y: y + s},
	}
}

func (l *SquareLayout) Bounds(c Cell) cp.BB {
	x := float64(c.Q) * l.CellSize
	y := float64(c.R) * l.CellSize
	return cp.BB{L: x, B: y, R: x + l.CellSize, T: y + l.CellSize}
}

var squareDirs4 = []Cell{
	{Q: 1, R: 0},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: 0, R: 1},
}

var squareDirs8 = []Cell{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
	{Q: 1, R: 1},
}

func (l *SquareLayout) Neighbors(c Cell) []Cell {
	dirs := squareDirs4
	if l.Diagonal8 {
		dirs = squareDirs8
	}
	out := make([]Cell, len(dirs))
	for i, d := range dirs {
		out[i] = c.Add(d)
	}
	return out
}

func (l *SquareLayout) Distance(a, b Cell, rule DistanceRule) float64 {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	switch rule {
	case RuleEuclidean:
		return math.Sqrt(float64(dq*dq + dr*dr))
	case RuleEqual:
		return float64(max(dq, dr))
	default:
		// Alternating: diagonals cost 1,2,1,2... so every second diagonal
		// step adds an extra point on top of the Chebyshev distance.
		diag := min(dq, dr)
		straight := max(dq, dr) - diag
		return float64(straight + diag + diag/2)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
