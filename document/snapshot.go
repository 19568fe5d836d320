package document

import "github.com/mapslate/mapslate/geom"

// Snapshot is a deep copy of the undoable map state: painted cells,
// objects, text labels, and generator edges. It carries no viewport or
// gesture state, so it doubles as the record an external persistence
// layer serializes.
type Snapshot struct {
	Cells   []PaintedCell `json:"cells"`
	Objects []Object      `json:"objects"`
	Texts   []Text        `json:"texts"`
	Edges   []Edge        `json:"edges,omitempty"`
	NextID  int           `json:"next_id"`
}

// Snapshot copies the current state. The copy is immutable from the
// document's point of view; later edits never leak into it.
func (d *Document) Snapshot() Snapshot {
	s := Snapshot{
		Cells:   make([]PaintedCell, 0, len(d.cells)),
		Objects: make([]Object, len(d.objects)),
		Texts:   make([]Text, len(d.texts)),
		Edges:   make([]Edge, len(d.edges)),
		NextID:  d.nextID,
	}
	for _, pc := range d.cells {
		s.Cells = append(s.Cells, pc)
	}
	copy(s.Objects, d.objects)
	copy(s.Texts, d.texts)
	copy(s.Edges, d.edges)
	return s
}

// Restore replaces the document state wholesale with a snapshot, the way
// undo and redo apply history entries. Indexes are rebuilt.
func (d *Document) Restore(s Snapshot) {
	d.cells = make(map[geom.Cell]PaintedCell, len(s.Cells))
	for _, pc := range s.Cells {
		d.cells[pc.Cell] = pc
	}
	d.objects = make([]Object, len(s.Objects))
	copy(d.objects, s.Objects)
	d.texts = make([]Text, len(s.Texts))
	copy(d.texts, s.Texts)
	d.edges = make([]Edge, len(s.Edges))
	copy(d.edges, s.Edges)
	if s.NextID > 0 {
		d.nextID = s.NextID
	}
	d.reindex()
}

// ApplyBulk pastes a generator result into the document in one step:
// cells overwrite by coordinate, objects are placed in order with fresh
// ids (overlapping ones are skipped, the same silent-rejection policy as
// interactive placement), edges append to the edge list with exact
// duplicates dropped, so re-running a generator does not pile up copies.
// It returns how many objects were skipped; the caller decides whether
// to surface that.
func (d *Document) ApplyBulk(cells []PaintedCell, objects []Object, edges []Edge) int {
	for _, pc := range cells {
		d.cells[pc.Cell] = pc
	}
	skipped := 0
	for _, o := range objects {
		if _, ok := d.AddObject(o); !ok {
			skipped++
		}
	}
	if len(edges) > 0 {
		seen := map[Edge]bool{}
		for _, e := range d.edges {
			seen[e] = true
		}
		for _, e := range edges {
			if seen[e] {
				continue
			}
			seen[e] = true
			d.edges = append(d.edges, e)
		}
	}
	return skipped
}

// EachEdge visits the generator edges in paste order.
func (d *Document) EachEdge(fn func(Edge)) {
	for _, e := range d.edges {
		fn(e)
	}
}

func (d *Document) EdgeCount() int { return len(d.edges) }
