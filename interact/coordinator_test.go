package interact

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
	"github.com/mapslate/mapslate/history"
	"github.com/mapslate/mapslate/viewport"
)

func cell(q, r int) geom.Cell { return geom.Cell{Q: q, R: r} }

// newTestCoordinator builds a square-grid coordinator with zoom 1 and no
// pan, so screen and world coordinates coincide and tests can reason in
// cell units (cell size 10).
func newTestCoordinator(t *testing.T) (*Coordinator, *document.Document, *history.Stack) {
	t.Helper()
	doc := document.NewSquare(10)
	view := viewport.New(0.1, 10)
	hist := history.New(100, doc.Snapshot())
	c := New(doc, view, hist, DefaultConfig())
	return c, doc, hist
}

func press(c *Coordinator, x, y float64) Outcome {
	return c.PointerDown(PointerDown{Screen: cp.Vector{X: x, Y: y}, Button: ButtonLeft})
}

func move(c *Coordinator, x, y float64) {
	c.PointerMove(PointerMove{Screen: cp.Vector{X: x, Y: y}})
}

func release(c *Coordinator, x, y float64) Outcome {
	return c.PointerUp(PointerUp{Screen: cp.Vector{X: x, Y: y}, Button: ButtonLeft})
}

func drag(c *Coordinator, x0, y0, x1, y1 float64) Outcome {
	press(c, x0, y0)
	move(c, x1, y1)
	return release(c, x1, y1)
}

func TestRectangleDragIsOneUndoEntry(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	c.SetTool(ToolRectangle)

	drag(c, 5, 5, 25, 25)

	if got := doc.CellCount(); got != 9 {
		t.Fatalf("3x3 rectangle painted %d cells, want 9", got)
	}
	if hist.Len() != 2 {
		t.Fatalf("rectangle drag pushed %d entries past the initial one, want 1", hist.Len()-1)
	}
	if !c.Undo() {
		t.Fatal("undo failed")
	}
	if got := doc.CellCount(); got != 0 {
		t.Fatalf("one undo left %d cells, want 0", got)
	}
	if !c.Redo() {
		t.Fatal("redo failed")
	}
	if got := doc.CellCount(); got != 9 {
		t.Fatalf("redo restored %d cells, want 9", got)
	}
}

func TestGestureExclusivity(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	c.SetTool(ToolDraw)

	press(c, 5, 5)
	if c.Phase() != PhaseDragging {
		t.Fatalf("phase after draw press = %v, want %v", c.Phase(), PhaseDragging)
	}
	if got := press(c, 55, 55); got != OutcomeNone {
		t.Fatalf("second press during a gesture returned %v, want %v", got, OutcomeNone)
	}
	if c.Phase() != PhaseDragging {
		t.Fatalf("second press changed phase to %v", c.Phase())
	}
	release(c, 5, 5)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after release = %v, want %v", c.Phase(), PhaseIdle)
	}
}

func TestClickBelowThresholdDoesNotMoveObject(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	id, _ := doc.AddObject(document.Object{Cell: cell(1, 1), W: 1, H: 1, Kind: "marker"})
	base := hist.Len()

	c.SetTool(ToolSelect)
	press(c, 15, 15)
	move(c, 17, 16) // under the 4px threshold
	release(c, 17, 16)

	o, _ := doc.ObjectByID(id)
	if o.Cell != cell(1, 1) {
		t.Fatalf("click moved object to %v", o.Cell)
	}
	if hist.Len() != base {
		t.Fatalf("click pushed %d history entries", hist.Len()-base)
	}
	if c.Selection() != (Selection{Kind: SelectObject, ID: id}) {
		t.Fatalf("click did not select the object: %+v", c.Selection())
	}
}

func TestClickOnEmptyCanvasClearsSelection(t *testing.T) {
	c, doc, _ := newTestCoordinator(t)
	doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	c.SetTool(ToolSelect)

	drag(c, 5, 5, 5, 5)
	if c.Selection().Kind != SelectObject {
		t.Fatal("press on object did not select it")
	}
	drag(c, 95, 95, 95, 95)
	if c.Selection().Kind != SelectNone {
		t.Fatalf("click on empty canvas left selection %+v", c.Selection())
	}
}

func TestObjectDragCommitsOnce(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	id, _ := doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	base := hist.Len()

	c.SetTool(ToolSelect)
	drag(c, 5, 5, 45, 25)

	o, _ := doc.ObjectByID(id)
	if o.Cell != cell(4, 2) {
		t.Fatalf("drag ended at %v, want (4,2)", o.Cell)
	}
	if hist.Len() != base+1 {
		t.Fatalf("drag pushed %d entries, want 1", hist.Len()-base)
	}
}

func TestObjectDragOntoOccupiedIsRejected(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	id, _ := doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	doc.AddObject(document.Object{Cell: cell(3, 0), W: 1, H: 1, Kind: "marker"})
	base := hist.Len()

	c.SetTool(ToolSelect)
	press(c, 5, 5)
	move(c, 35, 5)
	if got := release(c, 35, 5); got != OutcomeRejected {
		t.Fatalf("drop on occupied cell returned %v, want %v", got, OutcomeRejected)
	}
	o, _ := doc.ObjectByID(id)
	if o.Cell != cell(0, 0) {
		t.Fatalf("rejected drag still moved object to %v", o.Cell)
	}
	if hist.Len() != base {
		t.Fatalf("rejected drag pushed %d entries", hist.Len()-base)
	}
}

func TestPlacementRejectionIsObservable(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	c.SetTool(ToolPlaceObject)

	if got := press(c, 15, 15); got != OutcomeHandled {
		t.Fatalf("first placement returned %v", got)
	}
	release(c, 15, 15)
	before := doc.Snapshot()
	base := hist.Len()

	if got := press(c, 15, 15); got != OutcomeRejected {
		t.Fatalf("overlapping placement returned %v, want %v", got, OutcomeRejected)
	}
	release(c, 15, 15)

	if doc.ObjectCount() != len(before.Objects) {
		t.Fatalf("rejected placement changed object count to %d", doc.ObjectCount())
	}
	if hist.Len() != base {
		t.Fatalf("rejected placement pushed %d history entries", hist.Len()-base)
	}
}

func TestEscapeCancelsFromAnyPhase(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	base := hist.Len()

	c.SetTool(ToolDraw)
	press(c, 5, 5)
	move(c, 45, 45)
	if len(c.Overlay().Cells) == 0 {
		t.Fatal("draw in flight produced no overlay")
	}
	c.Key(KeyEvent{Key: KeyEscape})

	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after escape = %v", c.Phase())
	}
	if doc.CellCount() != 0 {
		t.Fatalf("cancelled stroke painted %d cells", doc.CellCount())
	}
	if hist.Len() != base {
		t.Fatalf("cancel pushed %d history entries", hist.Len()-base)
	}
	if len(c.Overlay().Cells) != 0 {
		t.Fatal("overlay not empty after cancel")
	}
	// A release after the cancel is a no-op, not a commit.
	release(c, 45, 45)
	if doc.CellCount() != 0 {
		t.Fatal("release after cancel committed the stroke")
	}
}

func TestUndoRedoSymmetry(t *testing.T) {
	c, doc, _ := newTestCoordinator(t)
	c.SetTool(ToolDraw)
	for i := 0; i < 4; i++ {
		x := float64(i*10) + 5
		drag(c, x, 5, x, 5)
	}
	if doc.CellCount() != 4 {
		t.Fatalf("setup painted %d cells, want 4", doc.CellCount())
	}

	for i := 0; i < 4; i++ {
		if !c.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if doc.CellCount() != 0 {
		t.Fatalf("%d cells left after full undo", doc.CellCount())
	}
	if c.Undo() {
		t.Fatal("undo past the initial snapshot succeeded")
	}
	for i := 0; i < 4; i++ {
		if !c.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if doc.CellCount() != 4 {
		t.Fatalf("%d cells after full redo, want 4", doc.CellCount())
	}
	if c.Redo() {
		t.Fatal("redo past the newest snapshot succeeded")
	}
}

func TestUndoClearsStaleSelection(t *testing.T) {
	c, doc, _ := newTestCoordinator(t)
	c.SetTool(ToolPlaceObject)
	press(c, 15, 15)
	release(c, 15, 15)
	if c.Selection().Kind != SelectObject {
		t.Fatal("placement did not select the new object")
	}

	c.Undo()

	if doc.ObjectCount() != 0 {
		t.Fatalf("undo left %d objects", doc.ObjectCount())
	}
	if c.Selection().Kind != SelectNone {
		t.Fatalf("selection still references undone object: %+v", c.Selection())
	}
}

func TestDeleteSelectionPushesHistory(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	hist.Push(doc.Snapshot())
	c.SetTool(ToolSelect)
	drag(c, 5, 5, 5, 5)
	base := hist.Len()

	if got := c.Key(KeyEvent{Key: KeyDelete}); got != OutcomeHandled {
		t.Fatalf("delete returned %v", got)
	}
	if doc.ObjectCount() != 0 {
		t.Fatal("delete left the object in place")
	}
	if c.Selection().Kind != SelectNone {
		t.Fatal("selection survived its own deletion")
	}
	if hist.Len() != base+1 {
		t.Fatalf("delete pushed %d entries, want 1", hist.Len()-base)
	}
	if !c.Undo() {
		t.Fatal("undo after delete failed")
	}
	if doc.ObjectCount() != 1 {
		t.Fatal("undo did not restore the deleted object")
	}
}

func TestNudgeBurstCoalesces(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	id, _ := doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	hist.Push(doc.Snapshot())
	c.SetTool(ToolSelect)
	drag(c, 5, 5, 5, 5)
	base := hist.Len()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		c.Key(KeyEvent{Key: KeyRight})
		clock = clock.Add(100 * time.Millisecond)
	}
	if hist.Len() != base+1 {
		t.Fatalf("burst of 3 nudges pushed %d entries, want 1", hist.Len()-base)
	}
	o, _ := doc.ObjectByID(id)
	if o.Cell != cell(3, 0) {
		t.Fatalf("3 nudges landed at %v, want (3,0)", o.Cell)
	}

	// Past the window a new burst starts a new entry.
	clock = clock.Add(time.Second)
	c.Key(KeyEvent{Key: KeyDown})
	if hist.Len() != base+2 {
		t.Fatalf("nudge after window pushed %d entries total, want 2", hist.Len()-base)
	}

	if !c.Undo() {
		t.Fatal("undo failed")
	}
	o, _ = doc.ObjectByID(id)
	if o.Cell != cell(3, 0) {
		t.Fatalf("undo of second burst landed at %v, want (3,0)", o.Cell)
	}
	if !c.Undo() {
		t.Fatal("undo failed")
	}
	o, _ = doc.ObjectByID(id)
	if o.Cell != cell(0, 0) {
		t.Fatalf("undo of first burst landed at %v, want (0,0)", o.Cell)
	}
}

func TestResizeViaCornerHandle(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	id, _ := doc.AddObject(document.Object{Cell: cell(0, 0), W: 2, H: 2, Kind: "zone"})
	c.SetTool(ToolSelect)
	drag(c, 5, 5, 5, 5) // select
	base := hist.Len()

	// Footprint spans world (0,0)-(20,20); grab the max corner handle.
	press(c, 20, 20)
	if c.Phase() != PhaseResizing {
		t.Fatalf("press on handle entered phase %v, want %v", c.Phase(), PhaseResizing)
	}
	move(c, 29, 29)
	release(c, 29, 29)

	o, _ := doc.ObjectByID(id)
	if o.Cell != cell(0, 0) || o.W != 3 || o.H != 3 {
		t.Fatalf("resize produced anchor=%v w=%d h=%d, want (0,0) 3x3", o.Cell, o.W, o.H)
	}
	if hist.Len() != base+1 {
		t.Fatalf("resize pushed %d entries, want 1", hist.Len()-base)
	}
}

func TestMiddleButtonPanDoesNotEdit(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	c.SetTool(ToolDraw)
	base := hist.Len()

	c.PointerDown(PointerDown{Screen: cp.Vector{X: 50, Y: 50}, Button: ButtonMiddle})
	c.PointerMove(PointerMove{Screen: cp.Vector{X: 70, Y: 60}})
	c.PointerUp(PointerUp{Screen: cp.Vector{X: 70, Y: 60}, Button: ButtonMiddle})

	if doc.CellCount() != 0 {
		t.Fatalf("pan painted %d cells", doc.CellCount())
	}
	if hist.Len() != base {
		t.Fatal("pan pushed a history entry")
	}
}

func TestWheelZoomKeepsCursorFixed(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	cursor := cp.Vector{X: 120, Y: 80}
	before := c.view.ScreenToWorld(cursor)

	c.Wheel(Wheel{Screen: cursor, DY: 1})

	after := c.view.ScreenToWorld(cursor)
	if before.Distance(after) > 1e-6 {
		t.Fatalf("world point under cursor drifted from %v to %v", before, after)
	}
	if c.view.Zoom <= 1 {
		t.Fatalf("zoom after wheel-in = %v, want > 1", c.view.Zoom)
	}
}

func TestSetToolCancelsGestureAndSelection(t *testing.T) {
	c, doc, _ := newTestCoordinator(t)
	doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	c.SetTool(ToolSelect)
	drag(c, 5, 5, 5, 5)

	c.SetTool(ToolDraw)
	press(c, 45, 45)
	c.SetTool(ToolErase)

	if c.Phase() != PhaseIdle {
		t.Fatalf("tool switch left phase %v", c.Phase())
	}
	if c.Selection().Kind != SelectNone {
		t.Fatal("tool switch kept the selection")
	}
	if doc.CellCount() != 0 {
		t.Fatal("tool switch committed the abandoned stroke")
	}
}

func TestApplyGeneratedIsOneEntry(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"})
	hist.Push(doc.Snapshot())
	base := hist.Len()

	cells := []document.PaintedCell{
		{Cell: cell(5, 5), Color: "#fff", Opacity: 1},
		{Cell: cell(6, 5), Color: "#fff", Opacity: 1},
	}
	objects := []document.Object{
		{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"}, // overlaps, skipped
		{Cell: cell(8, 8), W: 1, H: 1, Kind: "marker"},
	}

	skipped := c.ApplyGenerated(cells, objects, nil)

	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if doc.CellCount() != 2 || doc.ObjectCount() != 2 {
		t.Fatalf("bulk apply left %d cells, %d objects", doc.CellCount(), doc.ObjectCount())
	}
	if hist.Len() != base+1 {
		t.Fatalf("bulk apply pushed %d entries, want 1", hist.Len()-base)
	}
	if !c.Undo() {
		t.Fatal("undo failed")
	}
	if doc.CellCount() != 0 || doc.ObjectCount() != 1 {
		t.Fatal("one undo did not revert the whole bulk apply")
	}
}

func TestDragBackToStartIsNotRejected(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	if _, ok := doc.AddObject(document.Object{Cell: cell(0, 0), W: 1, H: 1, Kind: "marker"}); !ok {
		t.Fatal("setup object not placed")
	}
	hist.Push(doc.Snapshot())
	c.SetTool(ToolSelect)

	// Past the click threshold but the release lands in the object's own
	// cell, so nothing moved and nothing was refused.
	press(c, 2, 2)
	move(c, 8, 8)
	if out := release(c, 8, 8); out != OutcomeHandled {
		t.Fatalf("drag back to the start returned %v, want %v", out, OutcomeHandled)
	}
	if hist.Len() != 2 {
		t.Fatalf("no-change drag pushed history, len = %d, want 2", hist.Len())
	}
	o, _ := doc.ObjectByID(1)
	if o.Cell != cell(0, 0) {
		t.Fatalf("object moved to %v, want (0,0)", o.Cell)
	}
}

func TestClearAreaRemovesObjectsAndTexts(t *testing.T) {
	c, doc, hist := newTestCoordinator(t)
	doc.SetCell(document.PaintedCell{Cell: cell(0, 0), Color: "#ffffff", Opacity: 1})
	inID, ok := doc.AddObject(document.Object{Cell: cell(1, 1), W: 1, H: 1, Kind: "marker"})
	if !ok {
		t.Fatal("setup object not placed")
	}
	outID, ok := doc.AddObject(document.Object{Cell: cell(8, 8), W: 1, H: 1, Kind: "marker"})
	if !ok {
		t.Fatal("setup object not placed")
	}
	textID := doc.AddText(document.Text{Pos: cp.Vector{X: 15, Y: 15}, Content: "door", Size: 12})
	hist.Push(doc.Snapshot())

	c.SetTool(ToolClearArea)
	drag(c, 5, 5, 25, 25)

	if doc.CellCount() != 0 {
		t.Fatalf("clear left %d painted cells, want 0", doc.CellCount())
	}
	if _, ok := doc.ObjectByID(inID); ok {
		t.Fatal("object inside the cleared rectangle survived")
	}
	if _, ok := doc.TextByID(textID); ok {
		t.Fatal("label inside the cleared rectangle survived")
	}
	if _, ok := doc.ObjectByID(outID); !ok {
		t.Fatal("object outside the cleared rectangle was removed")
	}
	if hist.Len() != 3 {
		t.Fatalf("clear pushed %d entries, want 1 past setup", hist.Len()-2)
	}

	if !c.Undo() {
		t.Fatal("undo failed")
	}
	if doc.CellCount() != 1 || doc.ObjectCount() != 2 || doc.TextCount() != 1 {
		t.Fatalf("undo restored %d cells / %d objects / %d labels, want 1/2/1",
			doc.CellCount(), doc.ObjectCount(), doc.TextCount())
	}
}
