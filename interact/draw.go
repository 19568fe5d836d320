package interact

import (
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// drawHandler paints (or erases) every cell the pointer crosses during
// one drag. Cells accumulate in a pending map and land in the document
// in a single commit, so the whole stroke is one undo step.
type drawHandler struct {
	doc   *document.Document
	erase bool

	color   string
	opacity float64

	last    geom.Cell
	started bool
	pending map[geom.Cell]document.PaintedCell
	erased  map[geom.Cell]bool
}

func newDrawHandler(doc *document.Document, erase bool, color string, opacity float64) *drawHandler {
	return &drawHandler{
		doc:     doc,
		erase:   erase,
		color:   color,
		opacity: opacity,
		pending: map[geom.Cell]document.PaintedCell{},
		erased:  map[geom.Cell]bool{},
	}
}

func (h *drawHandler) Begin(world cp.Vector) {
	c := h.doc.Layout().CellAt(world)
	h.last = c
	h.started = true
	h.touch(c)
}

func (h *drawHandler) Update(world cp.Vector) {
	if !h.started {
		return
	}
	c := h.doc.Layout().CellAt(world)
	if c == h.last {
		return
	}
	// Fast drags skip cells; walk the line so strokes stay solid.
	for _, lc := range geom.LineCells(h.doc.Layout(), h.last, c) {
		h.touch(lc)
	}
	h.last = c
}

func (h *drawHandler) touch(c geom.Cell) {
	if h.erase {
		if _, ok := h.doc.CellAt(c); ok {
			h.erased[c] = true
		}
		return
	}
	h.pending[c] = document.PaintedCell{Cell: c, Color: h.color, Opacity: h.opacity}
}

func (h *drawHandler) Commit() commitResult {
	changed := false
	for _, pc := range h.pending {
		h.doc.SetCell(pc)
		changed = true
	}
	for c := range h.erased {
		h.doc.RemoveCell(c)
		changed = true
	}
	h.reset()
	if !changed {
		return commitNoChange
	}
	return commitApplied
}

func (h *drawHandler) Cancel() {
	h.reset()
}

func (h *drawHandler) reset() {
	h.pending = map[geom.Cell]document.PaintedCell{}
	h.erased = map[geom.Cell]bool{}
	h.started = false
}

func (h *drawHandler) Preview(ov *Overlay) {
	for c, pc := range h.pending {
		ov.Cells[c] = pc
	}
	for c := range h.erased {
		ov.Erased[c] = true
	}
}
