package interact

import "github.com/jakecoffman/cp"

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Mods carries the modifier keys held during an event.
type Mods struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Space bool // space-drag panning
}

// PointerDown is a button press at a screen position.
type PointerDown struct {
	Screen cp.Vector
	Button Button
	Mods   Mods
}

// PointerMove is a cursor move; Screen is the new position.
type PointerMove struct {
	Screen cp.Vector
	Mods   Mods
}

// PointerUp is a button release.
type PointerUp struct {
	Screen cp.Vector
	Button Button
	Mods   Mods
}

// Wheel is a scroll step at a screen position; DY is positive for
// zooming in.
type Wheel struct {
	Screen cp.Vector
	DY     float64
}

// Key names the keyboard inputs the coordinator understands. The app
// layer translates whatever backend it polls into these.
type Key int

const (
	KeyNone Key = iota
	KeyDelete
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyEvent is one key press (edge, not hold).
type KeyEvent struct {
	Key  Key
	Mods Mods
}

// Outcome reports what an event did. Rejections are silent in the UI by
// default, but callers can still observe and surface them.
type Outcome int

const (
	// OutcomeNone means the event changed nothing.
	OutcomeNone Outcome = iota
	// OutcomeHandled means the event was consumed.
	OutcomeHandled
	// OutcomeRejected means a placement or edit was refused, typically by
	// the footprint-overlap check. No state changed.
	OutcomeRejected
)
