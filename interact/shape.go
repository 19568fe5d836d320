package interact

import (
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// shapeKind selects what a shapeHandler rasterizes on commit.
type shapeKind int

const (
	shapeRectangle shapeKind = iota
	shapeCircle
	shapeLine
	shapeClear
)

// shapeHandler implements the two-point tools: anchor on pointer-down,
// live preview on every move, rasterize to painted cells on commit. A
// completed shape is one history entry no matter how many cells it fills.
type shapeHandler struct {
	doc  *document.Document
	kind shapeKind

	color   string
	opacity float64

	anchorWorld cp.Vector
	anchorCell  geom.Cell
	curCell     geom.Cell
	started     bool
	preview     []geom.Cell
}

func newShapeHandler(doc *document.Document, kind shapeKind, color string, opacity float64) *shapeHandler {
	return &shapeHandler{doc: doc, kind: kind, color: color, opacity: opacity}
}

func (h *shapeHandler) Begin(world cp.Vector) {
	h.anchorWorld = world
	h.anchorCell = h.doc.Layout().CellAt(world)
	h.curCell = h.anchorCell
	h.started = true
	h.preview = []geom.Cell{h.anchorCell}
}

func (h *shapeHandler) Update(world cp.Vector) {
	if !h.started {
		return
	}
	l := h.doc.Layout()
	cur := l.CellAt(world)
	h.curCell = cur
	switch h.kind {
	case shapeLine:
		h.preview = geom.LineCells(l, h.anchorCell, cur)
	case shapeCircle:
		radius := l.Center(h.anchorCell).Distance(l.Center(cur))
		h.preview = diskCells(l, h.anchorCell, radius)
	default: // rectangle and clear share the rectangle footprint
		h.preview = rectCells(l, h.anchorCell, cur)
	}
}

func (h *shapeHandler) Commit() commitResult {
	if !h.started {
		return commitNoChange
	}
	changed := false
	for _, c := range h.preview {
		if h.kind == shapeClear {
			if _, ok := h.doc.CellAt(c); ok {
				h.doc.RemoveCell(c)
				changed = true
			}
			continue
		}
		h.doc.SetCell(document.PaintedCell{Cell: c, Color: h.color, Opacity: h.opacity})
		changed = true
	}
	if h.kind == shapeClear && h.clearEntities() {
		changed = true
	}
	h.reset()
	if !changed {
		return commitNoChange
	}
	return commitApplied
}

// clearEntities removes every object and text label whose box intersects
// the cleared rectangle, so the clear tool empties the region completely
// instead of only stripping paint.
func (h *shapeHandler) clearEntities() bool {
	l := h.doc.Layout()
	bb := l.Bounds(h.anchorCell).Merge(l.Bounds(h.curCell))
	changed := false
	for _, id := range h.doc.HitTestObjectsBB(bb) {
		if h.doc.RemoveObject(id) {
			changed = true
		}
	}
	for _, id := range h.doc.HitTestTextsBB(bb) {
		if h.doc.RemoveText(id) {
			changed = true
		}
	}
	return changed
}

func (h *shapeHandler) Cancel() {
	h.reset()
}

func (h *shapeHandler) reset() {
	h.started = false
	h.preview = nil
}

func (h *shapeHandler) Preview(ov *Overlay) {
	for _, c := range h.preview {
		if h.kind == shapeClear {
			ov.Erased[c] = true
			continue
		}
		ov.Cells[c] = document.PaintedCell{Cell: c, Color: h.color, Opacity: h.opacity}
	}
}

// rectCells collects every cell whose center lies inside the merged
// bounds of the two corner cells. On a square grid this is exactly the
// inclusive col/row range; on hex it is the natural rectangular patch.
func rectCells(l geom.Layout, a, b geom.Cell) []geom.Cell {
	bb := l.Bounds(a).Merge(l.Bounds(b))
	inside := func(c geom.Cell) bool {
		return bb.ContainsVect(l.Center(c))
	}
	return floodCollect(l, a, inside)
}

// diskCells collects every cell whose center lies within radius of the
// center cell's center.
func diskCells(l geom.Layout, center geom.Cell, radius float64) []geom.Cell {
	origin := l.Center(center)
	inside := func(c geom.Cell) bool {
		return l.Center(c).Distance(origin) <= radius+1e-9
	}
	return floodCollect(l, center, inside)
}

// floodCollect walks outward from seed through neighbor links, keeping
// cells that satisfy the predicate. Both target regions are convex and
// contain the seed, so the walk reaches every matching cell.
func floodCollect(l geom.Layout, seed geom.Cell, inside func(geom.Cell) bool) []geom.Cell {
	if !inside(seed) {
		return []geom.Cell{seed}
	}
	visited := map[geom.Cell]bool{seed: true}
	out := []geom.Cell{seed}
	queue := []geom.Cell{seed}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range l.Neighbors(c) {
			if visited[n] {
				continue
			}
			visited[n] = true
			if !inside(n) {
				continue
			}
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}
