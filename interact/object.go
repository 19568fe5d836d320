package interact

import (
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// objectDragHandler moves a selected object by whole cells. The document
// is only touched on commit; while the drag is live the handler tracks a
// pending anchor and whether that spot is free, so the user sees invalid
// positions flagged without the collection ever entering a bad state.
type objectDragHandler struct {
	doc *document.Document
	id  int

	grabOffset geom.Cell // grab cell minus object anchor
	origin     geom.Cell
	pending    geom.Cell
	valid      bool
	started    bool
}

func newObjectDragHandler(doc *document.Document, id int) *objectDragHandler {
	return &objectDragHandler{doc: doc, id: id}
}

func (h *objectDragHandler) Begin(world cp.Vector) {
	o, ok := h.doc.ObjectByID(h.id)
	if !ok {
		return
	}
	grab := h.doc.Layout().CellAt(world)
	h.grabOffset = geom.Cell{Q: grab.Q - o.Cell.Q, R: grab.R - o.Cell.R}
	h.origin = o.Cell
	h.pending = o.Cell
	h.valid = true
	h.started = true
}

func (h *objectDragHandler) Update(world cp.Vector) {
	if !h.started {
		return
	}
	o, ok := h.doc.ObjectByID(h.id)
	if !ok {
		h.started = false
		return
	}
	grab := h.doc.Layout().CellAt(world)
	h.pending = geom.Cell{Q: grab.Q - h.grabOffset.Q, R: grab.R - h.grabOffset.R}
	h.valid = h.doc.AreaFree(h.pending, o.W, o.H, h.id)
}

func (h *objectDragHandler) Commit() commitResult {
	defer func() { h.started = false }()
	if !h.started || h.pending == h.origin {
		return commitNoChange
	}
	if !h.valid || !h.doc.MoveObject(h.id, h.pending) {
		return commitInvalid
	}
	return commitApplied
}

func (h *objectDragHandler) Cancel() {
	h.started = false
}

func (h *objectDragHandler) Preview(ov *Overlay) {
	if !h.started {
		return
	}
	o, ok := h.doc.ObjectByID(h.id)
	if !ok {
		return
	}
	o.Cell = h.pending
	ov.Object = &o
	ov.ObjectValid = h.valid
}

// objectResizeHandler grows or shrinks a footprint by dragging one corner
// while the opposite corner stays fixed. The footprint never goes below
// 1x1, and the overlap check runs on every intermediate step so invalid
// sizes are flagged live rather than at commit.
type objectResizeHandler struct {
	doc *document.Document
	id  int

	fixed   geom.Cell // the corner cell that does not move
	started bool

	anchor geom.Cell
	w, h   int
	valid  bool
}

func newObjectResizeHandler(doc *document.Document, id int, fixed geom.Cell) *objectResizeHandler {
	return &objectResizeHandler{doc: doc, id: id, fixed: fixed}
}

func (h *objectResizeHandler) Begin(world cp.Vector) {
	o, ok := h.doc.ObjectByID(h.id)
	if !ok {
		return
	}
	h.anchor = o.Cell
	h.w = o.W
	h.h = o.H
	h.valid = true
	h.started = true
	h.Update(world)
}

func (h *objectResizeHandler) Update(world cp.Vector) {
	if !h.started {
		return
	}
	cur := h.doc.Layout().CellAt(world)
	h.anchor = geom.Cell{Q: min(h.fixed.Q, cur.Q), R: min(h.fixed.R, cur.R)}
	h.w = abs(cur.Q-h.fixed.Q) + 1
	h.h = abs(cur.R-h.fixed.R) + 1
	h.valid = h.doc.AreaFree(h.anchor, h.w, h.h, h.id)
}

func (h *objectResizeHandler) Commit() commitResult {
	defer func() { h.started = false }()
	if !h.started {
		return commitNoChange
	}
	o, ok := h.doc.ObjectByID(h.id)
	if !ok {
		return commitNoChange
	}
	if o.Cell == h.anchor && o.W == h.w && o.H == h.h {
		return commitNoChange
	}
	if !h.valid || !h.doc.ResizeObject(h.id, h.anchor, h.w, h.h) {
		return commitInvalid
	}
	return commitApplied
}

func (h *objectResizeHandler) Cancel() {
	h.started = false
}

func (h *objectResizeHandler) Preview(ov *Overlay) {
	if !h.started {
		return
	}
	o, ok := h.doc.ObjectByID(h.id)
	if !ok {
		return
	}
	o.Cell = h.anchor
	o.W = h.w
	o.H = h.h
	ov.Object = &o
	ov.ObjectValid = h.valid
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
