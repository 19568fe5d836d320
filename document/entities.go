package document

import (
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/geom"
)

// PaintedCell is one filled grid cell. At most one exists per coordinate.
type PaintedCell struct {
	Cell    geom.Cell `json:"cell"`
	Color   string    `json:"color"`
	Opacity float64   `json:"opacity"`
}

// Object is a symbolic map object anchored to a cell and spanning a W x H
// footprint. A non-empty LinkTarget makes it a note pin; the target is an
// opaque string the core never resolves.
type Object struct {
	ID         int       `json:"id"`
	Cell       geom.Cell `json:"cell"`
	W          int       `json:"w"`
	H          int       `json:"h"`
	Kind       string    `json:"kind"`
	Color      string    `json:"color,omitempty"`
	Note       string    `json:"note,omitempty"`
	LinkTarget string    `json:"link_target,omitempty"`
}

// IsNotePin reports whether the object carries a note link.
func (o Object) IsNotePin() bool { return o.LinkTarget != "" }

// Contains reports whether cell c lies inside the object's footprint.
func (o Object) Contains(c geom.Cell) bool {
	return c.Q >= o.Cell.Q && c.Q < o.Cell.Q+o.W &&
		c.R >= o.Cell.R && c.R < o.Cell.R+o.H
}

// Text is a rotatable label positioned in continuous world space; it is
// never snapped to the grid.
type Text struct {
	ID       int       `json:"id"`
	Pos      cp.Vector `json:"pos"` // center of the label
	Rotation float64   `json:"rotation"`
	Content  string    `json:"content"`
	Size     float64   `json:"size"`
	Color    string    `json:"color,omitempty"`
}

// BB approximates the unrotated world box of the label from its content
// length and font size. Hit testing applies the rotation on top.
func (t Text) BB() cp.BB {
	size := t.Size
	if size <= 0 {
		size = 12
	}
	// Monospace-ish estimate; good enough for picking.
	hw := size * 0.6 * float64(len([]rune(t.Content))) / 2
	if hw < size/2 {
		hw = size / 2
	}
	hh := size / 2
	return cp.BB{L: t.Pos.X - hw, B: t.Pos.Y - hh, R: t.Pos.X + hw, T: t.Pos.Y + hh}
}

// Edge is a wall or door segment between two adjacent cells, produced by
// the external generator. The core carries edges through bulk pastes
// untouched; nothing here interprets them.
type Edge struct {
	A    geom.Cell `json:"a"`
	B    geom.Cell `json:"b"`
	Kind string    `json:"kind,omitempty"`
}
