package interact

import (
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
)

// textDragHandler moves a label in continuous world space. Labels never
// snap to the grid and can overlap freely, so there is no validity check,
// only a live position held apart from the document until commit.
type textDragHandler struct {
	doc *document.Document
	id  int

	beginWorld cp.Vector
	origin     cp.Vector
	pending    cp.Vector
	started    bool
}

func newTextDragHandler(doc *document.Document, id int) *textDragHandler {
	return &textDragHandler{doc: doc, id: id}
}

func (h *textDragHandler) Begin(world cp.Vector) {
	t, ok := h.doc.TextByID(h.id)
	if !ok {
		return
	}
	h.beginWorld = world
	h.origin = t.Pos
	h.pending = t.Pos
	h.started = true
}

func (h *textDragHandler) Update(world cp.Vector) {
	if !h.started {
		return
	}
	h.pending = h.origin.Add(world.Sub(h.beginWorld))
}

func (h *textDragHandler) Commit() commitResult {
	defer func() { h.started = false }()
	if !h.started || h.pending == h.origin {
		return commitNoChange
	}
	if !h.doc.SetTextPosition(h.id, h.pending) {
		return commitNoChange
	}
	return commitApplied
}

func (h *textDragHandler) Cancel() {
	h.started = false
}

func (h *textDragHandler) Preview(ov *Overlay) {
	if !h.started {
		return
	}
	t, ok := h.doc.TextByID(h.id)
	if !ok {
		return
	}
	t.Pos = h.pending
	ov.Text = &t
}
