// Package spatial answers "what is under this world point" for the boxy
// entity kinds, objects and text labels. Painted cells don't need an index;
// the document's coordinate-keyed map already is one. Entries keep creation
// order so ties resolve to the most recently created entity, which is the
// one documented stacking rule.
package spatial

import (
	"math"

	"github.com/jakecoffman/cp"
)

type entry struct {
	id       int
	bb       cp.BB
	center   cp.Vector
	rotation float64 // degrees; 0 means plain AABB test
}

// BoxIndex is a creation-ordered collection of world-space boxes, each
// optionally rotated about its center. Collections here are hundreds of
// entries, not millions; a linear scan is cheaper than keeping a tree
// balanced under constant editing.
type BoxIndex struct {
	entries []entry
	byID    map[int]int // id -> position in entries
}

func NewBoxIndex() *BoxIndex {
	return &BoxIndex{byID: map[int]int{}}
}

// Insert registers a box. Inserting an existing id moves it to the top of
// the stacking order, matching re-creation.
func (ix *BoxIndex) Insert(id int, bb cp.BB) {
	ix.InsertRotated(id, bb, bb.Center(), 0)
}

// InsertRotated registers a box rotated by rotation degrees about center.
func (ix *BoxIndex) InsertRotated(id int, bb cp.BB, center cp.Vector, rotation float64) {
	if _, ok := ix.byID[id]; ok {
		ix.Remove(id)
	}
	ix.byID[id] = len(ix.entries)
	ix.entries = append(ix.entries, entry{id: id, bb: bb, center: center, rotation: rotation})
}

// Update replaces an entry's geometry while keeping its stacking position.
func (ix *BoxIndex) Update(id int, bb cp.BB) {
	ix.UpdateRotated(id, bb, bb.Center(), 0)
}

func (ix *BoxIndex) UpdateRotated(id int, bb cp.BB, center cp.Vector, rotation float64) {
	pos, ok := ix.byID[id]
	if !ok {
		ix.InsertRotated(id, bb, center, rotation)
		return
	}
	ix.entries[pos] = entry{id: id, bb: bb, center: center, rotation: rotation}
}

// Remove drops an entry. Unknown ids are a no-op.
func (ix *BoxIndex) Remove(id int) {
	pos, ok := ix.byID[id]
	if !ok {
		return
	}
	ix.entries = append(ix.entries[:pos], ix.entries[pos+1:]...)
	delete(ix.byID, id)
	for i := pos; i < len(ix.entries); i++ {
		ix.byID[ix.entries[i].id] = i
	}
}

// Clear empties the index.
func (ix *BoxIndex) Clear() {
	ix.entries = ix.entries[:0]
	ix.byID = map[int]int{}
}

func (ix *BoxIndex) Len() int {
	return len(ix.entries)
}

// HitTest returns the topmost entry containing the world point. Scanning
// from the back makes the most recently created entry win.
func (ix *BoxIndex) HitTest(p cp.Vector) (int, bool) {
	for i := len(ix.entries) - 1; i >= 0; i-- {
		if ix.entries[i].contains(p) {
			return ix.entries[i].id, true
		}
	}
	return 0, false
}

// HitTestBB returns every entry whose box intersects the query rectangle,
// bottom to top. Rotated entries are tested by their axis-aligned bounds,
// which is what rectangle-select wants.
func (ix *BoxIndex) HitTestBB(bb cp.BB) []int {
	var ids []int
	for _, e := range ix.entries {
		if worldBB(e).Intersects(bb) {
			ids = append(ids, e.id)
		}
	}
	return ids
}

func (e entry) contains(p cp.Vector) bool {
	if e.rotation != 0 {
		// Rotate the point back by the entry's rotation about its center,
		// then test against the axis-aligned box.
		rad := -e.rotation * math.Pi / 180
		d := p.Sub(e.center)
		p = cp.Vector{
			X: e.center.X + d.X*math.Cos(rad) - d.Y*math.Sin(rad),
			Y: e.center.Y + d.X*math.Sin(rad) + d.Y*math.Cos(rad),
		}
	}
	return e.bb.ContainsVect(p)
}

// worldBB returns the axis-aligned bounds of the possibly rotated entry.
func worldBB(e entry) cp.BB {
	if e.rotation == 0 {
		return e.bb
	}
	rad := e.rotation * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	hw := (e.bb.R - e.bb.L) / 2
	hh := (e.bb.T - e.bb.B) / 2
	rw := hw*cos + hh*sin
	rh := hw*sin + hh*cos
	return cp.BB{L: e.center.X - rw, B: e.center.Y - rh, R: e.center.X + rw, T: e.center.Y + rh}
}
