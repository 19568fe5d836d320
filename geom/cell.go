// Package geom converts between continuous world coordinates and the two
// discrete grid systems a map document can use: square col/row grids and
// hexagonal axial grids in flat-top or pointy-top orientation. Everything
// here is pure; callers hold the mutable state.
package geom

// Cell is a discrete grid address. For a square layout Q is the column and
// R the row; for a hex layout Q and R are axial coordinates. A document is
// fixed to one layout, so the two readings never mix.
type Cell struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate of an axial hex cell.
func (c Cell) S() int {
	return -c.Q - c.R
}

// Add returns the component-wise sum of two cells.
func (c Cell) Add(o Cell) Cell {
	return Cell{Q: c.Q + o.Q, R: c.R + o.R}
}

// DistanceRule selects how a square layout prices diagonal movement.
// Hex layouts ignore the rule; cube distance is the only sensible metric.
type DistanceRule int

const (
	// RuleAlternating prices diagonals 1,2,1,2... (the D&D 5e variant rule).
	RuleAlternating DistanceRule = iota
	// RuleEqual prices diagonals like straights (Chebyshev distance).
	RuleEqual
	// RuleEuclidean measures straight-line cell distance.
	RuleEuclidean
)

// Orientation selects the hex basis matrices. It is meaningless for
// square layouts.
type Orientation int

const (
	OrientationFlat Orientation = iota
	OrientationPointy
)

func (o Orientation) String() string {
	if o == OrientationPointy {
		return "pointy"
	}
	return "flat"
}
