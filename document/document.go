// Package document owns the mutable state of one map: painted cells,
// placed objects (note pins included), and free-floating text labels,
// together with the grid layout the document was created with. Every
// mutation goes through methods that keep the object-overlap invariant and
// the spatial indexes intact; renderers and input code never reach into
// the collections directly.
package document

import (
	"github.com/jakecoffman/cp"
	"github.com/zyedidia/generic/mapset"

	"github.com/mapslate/mapslate/geom"
	"github.com/mapslate/mapslate/spatial"
)

// Variant names the grid system a document is fixed to.
type Variant string

const (
	VariantSquare Variant = "square"
	VariantHex    Variant = "hex"
)

// Document is one open map. The zero value is not usable; construct with
// NewSquare or NewHex.
type Document struct {
	variant Variant
	layout  geom.Layout

	cells   map[geom.Cell]PaintedCell
	objects []Object // creation order, which is also z-order
	texts   []Text   // creation order
	edges   []Edge   // generator output, carried through untouched
	nextID  int

	objIndex  *spatial.BoxIndex
	textIndex *spatial.BoxIndex
}

// NewSquare creates an empty square-grid document.
func NewSquare(cellSize float64) *Document {
	return newDocument(VariantSquare, geom.NewSquareLayout(cellSize))
}

// NewHex creates an empty hex-grid document in the given orientation.
func NewHex(size float64, o geom.Orientation) *Document {
	return newDocument(VariantHex, geom.NewHexLayout(size, o))
}

func newDocument(v Variant, l geom.Layout) *Document {
	return &Document{
		variant:   v,
		layout:    l,
		cells:     map[geom.Cell]PaintedCell{},
		nextID:    1,
		objIndex:  spatial.NewBoxIndex(),
		textIndex: spatial.NewBoxIndex(),
	}
}

func (d *Document) Variant() Variant   { return d.variant }
func (d *Document) Layout() geom.Layout { return d.layout }

// SetOrientation swaps the hex basis in place. Square documents ignore it.
func (d *Document) SetOrientation(o geom.Orientation) {
	hex, ok := d.layout.(*geom.HexLayout)
	if !ok {
		return
	}
	hex.Orientation = o
	// Cell coordinates are orientation-independent, but every world-space
	// box changes, so the indexes are re-derived.
	d.reindex()
}

// --- painted cells ---

// SetCell paints or overwrites the cell at the given coordinate.
func (d *Document) SetCell(c PaintedCell) {
	d.cells[c.Cell] = c
}

// RemoveCell erases a painted cell; missing cells are a no-op.
func (d *Document) RemoveCell(c geom.Cell) {
	delete(d.cells, c)
}

// CellAt looks up the painted cell at a coordinate.
func (d *Document) CellAt(c geom.Cell) (PaintedCell, bool) {
	pc, ok := d.cells[c]
	return pc, ok
}

// CellCount returns how many cells are painted.
func (d *Document) CellCount() int { return len(d.cells) }

// EachCell visits every painted cell in no particular order.
func (d *Document) EachCell(fn func(PaintedCell)) {
	for _, pc := range d.cells {
		fn(pc)
	}
}

// --- objects ---

// AreaFree reports whether a w x h footprint anchored at c overlaps no
// object other than excludeID. Pass 0 to exclude nothing.
func (d *Document) AreaFree(c geom.Cell, w, h int, excludeID int) bool {
	occupied := mapset.New[geom.Cell]()
	for _, o := range d.objects {
		if o.ID == excludeID {
			continue
		}
		for _, fc := range geom.FootprintCells(o.Cell, o.W, o.H) {
			occupied.Put(fc)
		}
	}
	for _, fc := range geom.FootprintCells(c, w, h) {
		if occupied.Has(fc) {
			return false
		}
	}
	return true
}

// AddObject places a new object and returns its id. It fails (and changes
// nothing) when the footprint overlaps an existing object.
func (d *Document) AddObject(o Object) (int, bool) {
	if o.W < 1 {
		o.W = 1
	}
	if o.H < 1 {
		o.H = 1
	}
	if !d.AreaFree(o.Cell, o.W, o.H, 0) {
		return 0, false
	}
	o.ID = d.nextID
	d.nextID++
	d.objects = append(d.objects, o)
	d.objIndex.Insert(o.ID, geom.FootprintBB(d.layout, o.Cell, o.W, o.H))
	return o.ID, true
}

// MoveObject re-anchors an object. Fails on overlap or unknown id.
func (d *Document) MoveObject(id int, to geom.Cell) bool {
	i, ok := d.objectPos(id)
	if !ok {
		return false
	}
	o := d.objects[i]
	if !d.AreaFree(to, o.W, o.H, id) {
		return false
	}
	d.objects[i].Cell = to
	d.objIndex.Update(id, geom.FootprintBB(d.layout, to, o.W, o.H))
	return true
}

// ResizeObject changes an object's footprint, re-anchoring at the given
// cell (resize from any corner moves the anchor). The footprint is clamped
// to at least 1x1; overlap fails the resize.
func (d *Document) ResizeObject(id int, anchor geom.Cell, w, h int) bool {
	i, ok := d.objectPos(id)
	if !ok {
		return false
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if !d.AreaFree(anchor, w, h, id) {
		return false
	}
	d.objects[i].Cell = anchor
	d.objects[i].W = w
	d.objects[i].H = h
	d.objIndex.Update(id, geom.FootprintBB(d.layout, anchor, w, h))
	return true
}

// RemoveObject deletes an object by id.
func (d *Document) RemoveObject(id int) bool {
	i, ok := d.objectPos(id)
	if !ok {
		return false
	}
	d.objects = append(d.objects[:i], d.objects[i+1:]...)
	d.objIndex.Remove(id)
	return true
}

// ObjectByID returns a copy of the object with the given id.
func (d *Document) ObjectByID(id int) (Object, bool) {
	i, ok := d.objectPos(id)
	if !ok {
		return Object{}, false
	}
	return d.objects[i], true
}

// EachObject visits objects bottom to top.
func (d *Document) EachObject(fn func(Object)) {
	for _, o := range d.objects {
		fn(o)
	}
}

func (d *Document) ObjectCount() int { return len(d.objects) }

func (d *Document) objectPos(id int) (int, bool) {
	for i, o := range d.objects {
		if o.ID == id {
			return i, true
		}
	}
	return 0, false
}

// --- text labels ---

// AddText places a new label and returns its id.
func (d *Document) AddText(t Text) int {
	t.ID = d.nextID
	d.nextID++
	d.texts = append(d.texts, t)
	d.indexText(t)
	return t.ID
}

// SetTextPosition moves a label in continuous world space.
func (d *Document) SetTextPosition(id int, pos cp.Vector) bool {
	i, ok := d.textPos(id)
	if !ok {
		return false
	}
	d.texts[i].Pos = pos
	d.indexText(d.texts[i])
	return true
}

// SetTextRotation rotates a label about its center.
func (d *Document) SetTextRotation(id int, degrees float64) bool {
	i, ok := d.textPos(id)
	if !ok {
		return false
	}
	d.texts[i].Rotation = degrees
	d.indexText(d.texts[i])
	return true
}

// SetTextContent replaces a label's content.
func (d *Document) SetTextContent(id int, content string) bool {
	i, ok := d.textPos(id)
	if !ok {
		return false
	}
	d.texts[i].Content = content
	d.indexText(d.texts[i])
	return true
}

// RemoveText deletes a label by id.
func (d *Document) RemoveText(id int) bool {
	i, ok := d.textPos(id)
	if !ok {
		return false
	}
	d.texts = append(d.texts[:i], d.texts[i+1:]...)
	d.textIndex.Remove(id)
	return true
}

// TextByID returns a copy of the label with the given id.
func (d *Document) TextByID(id int) (Text, bool) {
	i, ok := d.textPos(id)
	if !ok {
		return Text{}, false
	}
	return d.texts[i], true
}

// EachText visits labels bottom to top.
func (d *Document) EachText(fn func(Text)) {
	for _, t := range d.texts {
		fn(t)
	}
}

func (d *Document) TextCount() int { return len(d.texts) }

func (d *Document) textPos(id int) (int, bool) {
	for i, t := range d.texts {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (d *Document) indexText(t Text) {
	d.textIndex.UpdateRotated(t.ID, t.BB(), t.Pos, t.Rotation)
}

// --- hit testing ---

// HitTestObject returns the topmost object whose footprint box contains
// the world point.
func (d *Document) HitTestObject(world cp.Vector) (int, bool) {
	return d.objIndex.HitTest(world)
}

// HitTestText returns the topmost label containing the world point,
// honoring each label's rotation.
func (d *Document) HitTestText(world cp.Vector) (int, bool) {
	return d.textIndex.HitTest(world)
}

// HitTestObjectsBB lists every object intersecting a world rectangle.
func (d *Document) HitTestObjectsBB(bb cp.BB) []int {
	return d.objIndex.HitTestBB(bb)
}

// HitTestTextsBB lists every label intersecting a world rectangle.
func (d *Document) HitTestTextsBB(bb cp.BB) []int {
	return d.textIndex.HitTestBB(bb)
}

func (d *Document) reindex() {
	d.objIndex.Clear()
	for _, o := range d.objects {
		d.objIndex.Insert(o.ID, geom.FootprintBB(d.layout, o.Cell, o.W, o.H))
	}
	d.textIndex.Clear()
	for _, t := range d.texts {
		d.textIndex.InsertRotated(t.ID, t.BB(), t.Pos, t.Rotation)
	}
}
