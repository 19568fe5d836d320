package interact

import (
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// commitResult distinguishes the three ways a gesture can end: it
// changed the document, it changed nothing (a drag back to the start),
// or its live state was invalid and the edit was refused.
type commitResult int

const (
	commitNoChange commitResult = iota
	commitApplied
	commitInvalid
)

// handler is the small state machine behind one gesture. Between Begin
// and Commit a handler keeps its edit in internal live state and leaves
// the document untouched, which is what makes Cancel free: dropping the
// live state restores the pre-gesture world.
type handler interface {
	// Begin starts the gesture at a world point.
	Begin(world cp.Vector)
	// Update feeds the current pointer position while the gesture is live.
	Update(world cp.Vector)
	// Commit applies the live edit to the document. The coordinator
	// pushes one history entry on commitApplied and reports a rejection
	// only on commitInvalid; ending where the gesture began is neither.
	Commit() commitResult
	// Cancel drops the live edit without touching the document.
	Cancel()
	// Preview contributes the live edit to the render overlay.
	Preview(ov *Overlay)
}

// Overlay is the uncommitted visual state of the gesture in flight. The
// renderer composes it on top of the committed document; history never
// sees it.
type Overlay struct {
	// Cells are pending paints, keyed like the document's cells.
	Cells map[geom.Cell]document.PaintedCell
	// Erased marks committed cells the gesture is about to remove.
	Erased map[geom.Cell]bool
	// Object is the live position/size of a moved, resized, or previewed
	// object; Valid is false while the live footprint overlaps something.
	Object      *document.Object
	ObjectValid bool
	// Text is the live position of a dragged label.
	Text *document.Text
}
