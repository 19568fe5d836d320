package interact

import (
	"time"

	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
	"github.com/mapslate/mapslate/history"
	"github.com/mapslate/mapslate/viewport"
)

// SelectionKind says what kind of entity a selection references.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectObject
	SelectText
)

// Selection is the transient single-owner reference held while the
// select tool is active. Drag state lives in the owning handler, not
// here.
type Selection struct {
	Kind SelectionKind
	ID   int
}

// Config tunes the coordinator's gesture thresholds and the defaults new
// entities are created with.
type Config struct {
	// DragThresholdPx is how far the pointer must travel before an armed
	// press becomes a drag instead of a click.
	DragThresholdPx float64
	// HandleRadiusPx is the pick radius around a selected object's
	// corner resize handles, in screen pixels.
	HandleRadiusPx float64
	// NudgeWindow coalesces arrow-key nudges into one undo entry while
	// repeats arrive within this interval.
	NudgeWindow time.Duration

	PaintColor   string
	PaintOpacity float64
	ObjectKind   string
	TextSize     float64
}

// DefaultConfig matches the shipped editor settings.
func DefaultConfig() Config {
	return Config{
		DragThresholdPx: 4,
		HandleRadiusPx:  8,
		NudgeWindow:     400 * time.Millisecond,
		PaintColor:      "#3c78ff",
		PaintOpacity:    1,
		ObjectKind:      "marker",
		TextSize:        14,
	}
}

// Coordinator owns the current tool and gesture state and is the only
// thing allowed to turn raw input into document mutations. Gesture
// ownership is exclusive: from armed until commit or cancel exactly one
// handler sees the pointer, which is the invariant that keeps a drag on
// an object from simultaneously starting a draw stroke.
type Coordinator struct {
	doc  *document.Document
	view *viewport.Viewport
	hist *history.Stack
	cfg  Config

	tool  Tool
	phase Phase
	sel   Selection

	active     handler
	downScreen cp.Vector

	panning bool
	panLast cp.Vector

	// injected clock so nudge coalescing is testable
	now       func() time.Time
	lastNudge time.Time
	nudging   bool
}

// New wires a coordinator to the document, viewport, and history stack it
// drives.
func New(doc *document.Document, view *viewport.Viewport, hist *history.Stack, cfg Config) *Coordinator {
	if cfg.DragThresholdPx <= 0 {
		cfg.DragThresholdPx = 4
	}
	if cfg.HandleRadiusPx <= 0 {
		cfg.HandleRadiusPx = 8
	}
	if cfg.NudgeWindow <= 0 {
		cfg.NudgeWindow = 400 * time.Millisecond
	}
	return &Coordinator{
		doc:  doc,
		view: view,
		hist: hist,
		cfg:  cfg,
		now:  time.Now,
	}
}

// SetConfig swaps the tuning values, typically after a config file
// reload. New thresholds apply from the next event on.
func (c *Coordinator) SetConfig(cfg Config) {
	if cfg.DragThresholdPx <= 0 {
		cfg.DragThresholdPx = 4
	}
	if cfg.HandleRadiusPx <= 0 {
		cfg.HandleRadiusPx = 8
	}
	if cfg.NudgeWindow <= 0 {
		cfg.NudgeWindow = 400 * time.Millisecond
	}
	c.cfg = cfg
}

func (c *Coordinator) Tool() Tool          { return c.tool }
func (c *Coordinator) Phase() Phase        { return c.phase }
func (c *Coordinator) Selection() Selection { return c.sel }

// SetTool switches modes. Any gesture in flight is cancelled and the
// selection cleared; tools never inherit another tool's state.
func (c *Coordinator) SetTool(t Tool) {
	c.CancelGesture()
	c.sel = Selection{}
	c.tool = t
}

// PointerDown starts a gesture. While a gesture is owned, further
// presses are ignored until the owner commits or cancels.
func (c *Coordinator) PointerDown(e PointerDown) Outcome {
	if c.phase != PhaseIdle {
		return OutcomeNone
	}
	c.nudging = false
	c.downScreen = e.Screen
	world := c.view.ScreenToWorld(e.Screen)

	// Panning wins over every tool: middle button or space-drag, plus the
	// dedicated pan tool.
	if e.Button == ButtonMiddle || e.Mods.Space || (c.tool == ToolPan && e.Button == ButtonLeft) {
		c.panning = true
		c.panLast = e.Screen
		c.phase = PhaseDragging
		return OutcomeHandled
	}
	if e.Button != ButtonLeft {
		return OutcomeNone
	}

	switch c.tool {
	case ToolSelect:
		return c.beginSelect(e.Screen, world)

	case ToolDraw, ToolErase:
		h := newDrawHandler(c.doc, c.tool == ToolErase, c.cfg.PaintColor, c.cfg.PaintOpacity)
		h.Begin(world)
		c.active = h
		c.phase = PhaseDragging
		return OutcomeHandled

	case ToolRectangle, ToolCircle, ToolLine, ToolClearArea:
		h := newShapeHandler(c.doc, shapeKindFor(c.tool), c.cfg.PaintColor, c.cfg.PaintOpacity)
		h.Begin(world)
		c.active = h
		c.phase = PhaseDragging
		return OutcomeHandled

	case ToolPlaceObject, ToolPlaceNotePin:
		return c.placeObject(world, c.tool == ToolPlaceNotePin)

	case ToolPlaceText:
		id := c.doc.AddText(document.Text{Pos: world, Content: "label", Size: c.cfg.TextSize})
		c.sel = Selection{Kind: SelectText, ID: id}
		c.hist.Push(c.doc.Snapshot())
		return OutcomeHandled
	}
	return OutcomeNone
}

// beginSelect resolves what a select-tool press lands on: a resize handle
// of the current selection, then objects, then text labels. Object hits
// shadow text hits at the same point; that ordering is a product rule,
// not an accident of iteration.
func (c *Coordinator) beginSelect(screen, world cp.Vector) Outcome {
	if c.sel.Kind == SelectObject {
		if corner, ok := c.grabbedHandle(screen); ok {
			h := newObjectResizeHandler(c.doc, c.sel.ID, corner)
			h.Begin(world)
			c.active = h
			c.phase = PhaseResizing
			return OutcomeHandled
		}
	}

	if id, ok := c.doc.HitTestObject(world); ok {
		c.sel = Selection{Kind: SelectObject, ID: id}
		h := newObjectDragHandler(c.doc, id)
		h.Begin(world)
		c.active = h
		c.phase = PhaseArmed
		return OutcomeHandled
	}
	if id, ok := c.doc.HitTestText(world); ok {
		c.sel = Selection{Kind: SelectText, ID: id}
		h := newTextDragHandler(c.doc, id)
		h.Begin(world)
		c.active = h
		c.phase = PhaseArmed
		return OutcomeHandled
	}

	// Pressed on empty canvas: arm with no owner; an up without movement
	// clears the selection.
	c.active = nil
	c.phase = PhaseArmed
	return OutcomeHandled
}

// grabbedHandle returns the cell of the footprint corner opposite the
// handle under the cursor, which becomes the fixed corner of the resize.
func (c *Coordinator) grabbedHandle(screen cp.Vector) (geom.Cell, bool) {
	o, ok := c.doc.ObjectByID(c.sel.ID)
	if !ok {
		return geom.Cell{}, false
	}
	bb := geom.FootprintBB(c.doc.Layout(), o.Cell, o.W, o.H)
	lo := o.Cell
	hi := geom.Cell{Q: o.Cell.Q + o.W - 1, R: o.Cell.R + o.H - 1}
	handles := []struct {
		corner cp.Vector
		fixed  geom.Cell // opposite corner cell
	}{
		{cp.Vector{X: bb.L, Y: bb.B}, hi},
		{cp.Vector{X: bb.R, Y: bb.B}, geom.Cell{Q: lo.Q, R: hi.R}},
		{cp.Vector{X: bb.L, Y: bb.T}, geom.Cell{Q: hi.Q, R: lo.R}},
		{cp.Vector{X: bb.R, Y: bb.T}, lo},
	}
	for _, h := range handles {
		if c.view.WorldToScreen(h.corner).Distance(screen) <= c.cfg.HandleRadiusPx {
			return h.fixed, true
		}
	}
	return geom.Cell{}, false
}

func (c *Coordinator) placeObject(world cp.Vector, notePin bool) Outcome {
	cell := c.doc.Layout().CellAt(world)
	o := document.Object{Cell: cell, W: 1, H: 1, Kind: c.cfg.ObjectKind, Color: c.cfg.PaintColor}
	if notePin {
		o.Kind = "note"
		o.LinkTarget = "note:unlinked"
	}
	id, ok := c.doc.AddObject(o)
	if !ok {
		// Overlap: silently rejected, nothing mutated, no history entry.
		return OutcomeRejected
	}
	c.sel = Selection{Kind: SelectObject, ID: id}
	c.hist.Push(c.doc.Snapshot())
	return OutcomeHandled
}

// PointerMove feeds the gesture in flight. An armed press promotes to a
// drag once the pointer has travelled past the click threshold.
func (c *Coordinator) PointerMove(e PointerMove) {
	if c.panning {
		c.view.PanBy(e.Screen.X-c.panLast.X, e.Screen.Y-c.panLast.Y)
		c.panLast = e.Screen
		return
	}
	switch c.phase {
	case PhaseArmed:
		if e.Screen.Distance(c.downScreen) > c.cfg.DragThresholdPx {
			c.phase = PhaseDragging
			if c.active != nil {
				c.active.Update(c.view.ScreenToWorld(e.Screen))
			}
		}
	case PhaseDragging, PhaseResizing:
		if c.active != nil {
			c.active.Update(c.view.ScreenToWorld(e.Screen))
		}
	}
}

// PointerUp ends the gesture: an armed press is a click, a drag or
// resize commits and pushes exactly one history entry if it changed
// anything.
func (c *Coordinator) PointerUp(e PointerUp) Outcome {
	if c.panning {
		c.panning = false
		c.phase = PhaseIdle
		return OutcomeHandled
	}
	switch c.phase {
	case PhaseArmed:
		// Click. A press on empty canvas clears the selection; a press on
		// an entity already selected it on the way down.
		if c.active == nil {
			c.sel = Selection{}
		} else {
			c.active.Cancel()
		}
		c.active = nil
		c.phase = PhaseIdle
		return OutcomeHandled

	case PhaseDragging, PhaseResizing:
		outcome := OutcomeHandled
		if c.active != nil {
			switch c.active.Commit() {
			case commitApplied:
				c.hist.Push(c.doc.Snapshot())
				c.dropStaleSelection()
			case commitInvalid:
				outcome = OutcomeRejected
			}
		}
		c.active = nil
		c.phase = PhaseIdle
		return outcome
	}
	return OutcomeNone
}

// Wheel zooms about the cursor. The app layer applies at most one wheel
// event per frame; the coordinator just forwards it.
func (c *Coordinator) Wheel(e Wheel) {
	factor := 1.1
	if e.DY < 0 {
		factor = 1 / 1.1
	} else if e.DY == 0 {
		return
	}
	c.view.ZoomAt(e.Screen, factor)
}

// Key handles the keyboard surface: Escape cancels, Delete removes the
// selection, arrows nudge it.
func (c *Coordinator) Key(e KeyEvent) Outcome {
	switch e.Key {
	case KeyEscape:
		c.CancelGesture()
		return OutcomeHandled
	case KeyDelete:
		return c.deleteSelection()
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		return c.nudge(e)
	}
	return OutcomeNone
}

func (c *Coordinator) deleteSelection() Outcome {
	switch c.sel.Kind {
	case SelectObject:
		if !c.doc.RemoveObject(c.sel.ID) {
			c.sel = Selection{}
			return OutcomeNone
		}
	case SelectText:
		if !c.doc.RemoveText(c.sel.ID) {
			c.sel = Selection{}
			return OutcomeNone
		}
	default:
		return OutcomeNone
	}
	c.sel = Selection{}
	c.nudging = false
	c.hist.Push(c.doc.Snapshot())
	return OutcomeHandled
}

// nudge moves the selection one cell per arrow press, or one screen
// pixel with the Alt modifier held. A burst of repeats collapses into a
// single history entry so undo is not flooded.
func (c *Coordinator) nudge(e KeyEvent) Outcome {
	dq, dr := 0, 0
	switch e.Key {
	case KeyLeft:
		dq = -1
	case KeyRight:
		dq = 1
	case KeyUp:
		dr = -1
	case KeyDown:
		dr = 1
	}

	moved := false
	switch c.sel.Kind {
	case SelectObject:
		o, ok := c.doc.ObjectByID(c.sel.ID)
		if !ok {
			c.sel = Selection{}
			return OutcomeNone
		}
		target := geom.Cell{Q: o.Cell.Q + dq, R: o.Cell.R + dr}
		moved = c.doc.MoveObject(c.sel.ID, target)
		if !moved {
			return OutcomeRejected
		}
	case SelectText:
		t, ok := c.doc.TextByID(c.sel.ID)
		if !ok {
			c.sel = Selection{}
			return OutcomeNone
		}
		step := c.textNudgeStep(e.Mods)
		moved = c.doc.SetTextPosition(c.sel.ID, cp.Vector{
			X: t.Pos.X + float64(dq)*step.X,
			Y: t.Pos.Y + float64(dr)*step.Y,
		})
	default:
		return OutcomeNone
	}
	if !moved {
		return OutcomeNone
	}

	now := c.now()
	if c.nudging && now.Sub(c.lastNudge) <= c.cfg.NudgeWindow {
		c.hist.ReplaceTop(c.doc.Snapshot())
	} else {
		c.hist.Push(c.doc.Snapshot())
	}
	c.nudging = true
	c.lastNudge = now
	return OutcomeHandled
}

// textNudgeStep is one cell extent per axis, or one screen pixel in
// world units with Alt held.
func (c *Coordinator) textNudgeStep(m Mods) cp.Vector {
	if m.Alt {
		px := 1 / c.view.Zoom
		return cp.Vector{X: px, Y: px}
	}
	bb := c.doc.Layout().Bounds(geom.Cell{})
	return cp.Vector{X: bb.R - bb.L, Y: bb.T - bb.B}
}

// CancelGesture returns to idle from any phase without touching the
// document or the history. Pointer-leave, window blur, and Escape all
// end up here; there is no phase from which cancellation is disallowed.
func (c *Coordinator) CancelGesture() {
	if c.active != nil {
		c.active.Cancel()
		c.active = nil
	}
	c.panning = false
	c.phase = PhaseIdle
}

// Undo applies the previous history snapshot wholesale.
func (c *Coordinator) Undo() bool {
	snap, ok := c.hist.Undo()
	if !ok {
		return false
	}
	c.applySnapshot(snap)
	return true
}

// Redo applies the next history snapshot wholesale.
func (c *Coordinator) Redo() bool {
	snap, ok := c.hist.Redo()
	if !ok {
		return false
	}
	c.applySnapshot(snap)
	return true
}

func (c *Coordinator) applySnapshot(snap document.Snapshot) {
	c.CancelGesture()
	c.doc.Restore(snap)
	c.nudging = false
	c.dropStaleSelection()
}

// dropStaleSelection clears a selection whose entity no longer exists,
// e.g. after undoing the gesture that created it.
func (c *Coordinator) dropStaleSelection() {
	switch c.sel.Kind {
	case SelectObject:
		if _, ok := c.doc.ObjectByID(c.sel.ID); !ok {
			c.sel = Selection{}
		}
	case SelectText:
		if _, ok := c.doc.TextByID(c.sel.ID); !ok {
			c.sel = Selection{}
		}
	}
}

// EditSelectedText rewrites the selected label's content as one undo
// step.
func (c *Coordinator) EditSelectedText(content string) Outcome {
	if c.sel.Kind != SelectText {
		return OutcomeNone
	}
	t, ok := c.doc.TextByID(c.sel.ID)
	if !ok || t.Content == content {
		return OutcomeNone
	}
	c.doc.SetTextContent(c.sel.ID, content)
	c.hist.Push(c.doc.Snapshot())
	return OutcomeHandled
}

// RotateSelectedText turns the selected label by delta degrees as one
// undo step.
func (c *Coordinator) RotateSelectedText(delta float64) Outcome {
	if c.sel.Kind != SelectText || delta == 0 {
		return OutcomeNone
	}
	t, ok := c.doc.TextByID(c.sel.ID)
	if !ok {
		return OutcomeNone
	}
	c.doc.SetTextRotation(c.sel.ID, t.Rotation+delta)
	c.hist.Push(c.doc.Snapshot())
	return OutcomeHandled
}

// ApplyGenerated pastes a generator result (cells, objects, edges) as a
// single bulk edit with one history entry. It returns how many objects
// the overlap check skipped.
func (c *Coordinator) ApplyGenerated(cells []document.PaintedCell, objects []document.Object, edges []document.Edge) int {
	c.CancelGesture()
	skipped := c.doc.ApplyBulk(cells, objects, edges)
	c.hist.Push(c.doc.Snapshot())
	return skipped
}

// Overlay returns the live, uncommitted state of the gesture in flight
// for the renderer to compose over the document.
func (c *Coordinator) Overlay() Overlay {
	ov := Overlay{
		Cells:  map[geom.Cell]document.PaintedCell{},
		Erased: map[geom.Cell]bool{},
	}
	if c.active != nil && (c.phase == PhaseDragging || c.phase == PhaseResizing) {
		c.active.Preview(&ov)
	}
	return ov
}

func shapeKindFor(t Tool) shapeKind {
	switch t {
	case ToolCircle:
		return shapeCircle
	case ToolLine:
		return shapeLine
	case ToolClearArea:
		return shapeClear
	default:
		return shapeRectangle
	}
}
