// Package interact routes one stream of pointer and keyboard events to
// whichever editing mode currently owns the gesture: painting, shape
// tools, object placement and manipulation, text labels, note pins, or
// panning. Events are plain values, so every transition can be driven
// from a test without a real input device.
package interact

// Tool is the active editing mode. Exactly one is active at a time.
type Tool int

const (
	ToolSelect Tool = iota
	ToolDraw
	ToolErase
	ToolRectangle
	ToolCircle
	ToolLine
	ToolClearArea
	ToolPlaceObject
	ToolPlaceText
	ToolPlaceNotePin
	ToolPan
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolRectangle:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolLine:
		return "line"
	case ToolClearArea:
		return "clear area"
	case ToolPlaceObject:
		return "object"
	case ToolPlaceText:
		return "text"
	case ToolPlaceNotePin:
		return "note pin"
	case ToolPan:
		return "pan"
	default:
		return "unknown"
	}
}

// Phase is where the coordinator is within the current gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseDragging
	PhaseResizing
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "idle"
	}
}
