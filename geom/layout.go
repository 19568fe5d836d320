package geom

import "github.com/jakecoffman/cp"

// Layout is the contract shared by the square and hex grid variants. All
// methods are total: any world point maps to some cell and any cell maps
// back to world space. Validating zoom and pan is the viewport's job, so a
// Layout never sees a degenerate transform.
type Layout interface {
	// CellAt returns the cell containing the given world point.
	CellAt(world cp.Vector) Cell
	// Center returns the world-space center of a cell. It is the exact
	// inverse of CellAt at cell centers.
	Center(c Cell) cp.Vector
	// Polygon returns the cell's outline in world space: 4 vertices for a
	// square layout, 6 for hex, in drawing order.
	Polygon(c Cell) []cp.Vector
	// Bounds returns the world-space axis-aligned bounding box of a cell.
	Bounds(c Cell) cp.BB
	// Neighbors returns the adjacent cells: 4 (or 8) for square, 6 for hex.
	Neighbors(c Cell) []Cell
	// Distance returns the cell distance between a and b under the given
	// rule. Hex layouts ignore the rule and use cube distance.
	Distance(a, b Cell, rule DistanceRule) float64
}

// FootprintBB returns the world bounds of a w x h block of cells anchored
// at c. Both renderer and spatial index use it to place multi-cell objects.
func FootprintBB(l Layout, c Cell, w, h int) cp.BB {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	bb := l.Bounds(c)
	for dr := 0; dr < h; dr++ {
		for dq := 0; dq < w; dq++ {
			bb = bb.Merge(l.Bounds(Cell{Q: c.Q + dq, R: c.R + dr}))
		}
	}
	return bb
}

// FootprintCells lists the cells covered by a w x h block anchored at c.
func FootprintCells(c Cell, w, h int) []Cell {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	cells := make([]Cell, 0, w*h)
	for dr := 0; dr < h; dr++ {
		for dq := 0; dq < w; dq++ {
			cells = append(cells, Cell{Q: c.Q + dq, R: c.R + dr})
		}
	}
	return cells
}

// LineCells walks the segment between the centers of a and b and collects
// every cell the sampled points fall into, endpoints included. Sampling at
// twice the cell distance keeps the walk gap-free on both layouts.
func LineCells(l Layout, a, b Cell) []Cell {
	if a == b {
		return []Cell{a}
	}
	steps := int(l.Distance(a, b, RuleEqual))*2 + 1
	start := l.Center(a)
	end := l.Center(b)
	cells := make([]Cell, 0, steps+1)
	seen := make(map[Cell]bool, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := start.Lerp(end, t)
		c := l.CellAt(p)
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	return cells
}
