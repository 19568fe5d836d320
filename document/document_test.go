package document

import (
	"reflect"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/geom"
)

func newTestDoc(t *testing.T) *Document {
	t.Helper()
	return NewSquare(32)
}

func TestPaintedCellKeyedByCoordinate(t *testing.T) {
	d := newTestDoc(t)
	c := geom.Cell{Q: 2, R: 3}
	d.SetCell(PaintedCell{Cell: c, Color: "#ff0000", Opacity: 1})
	d.SetCell(PaintedCell{Cell: c, Color: "#00ff00", Opacity: 0.5})
	if d.CellCount() != 1 {
		t.Fatalf("cell count = %d, want 1 (overwrite by coordinate)", d.CellCount())
	}
	pc, ok := d.CellAt(c)
	if !ok || pc.Color != "#00ff00" {
		t.Fatalf("cell = %+v, want the second paint", pc)
	}
	d.RemoveCell(c)
	if _, ok := d.CellAt(c); ok {
		t.Fatal("cell survived removal")
	}
	d.RemoveCell(c) // double remove is a no-op
}

func TestObjectOverlapRejected(t *testing.T) {
	d := newTestDoc(t)
	id, ok := d.AddObject(Object{Cell: geom.Cell{Q: 0, R: 0}, W: 2, H: 2, Kind: "table"})
	if !ok || id == 0 {
		t.Fatalf("first placement failed")
	}

	before := d.Snapshot()
	cases := []struct {
		name string
		obj  Object
	}{
		{"same_anchor", Object{Cell: geom.Cell{Q: 0, R: 0}, W: 1, H: 1}},
		{"corner_overlap", Object{Cell: geom.Cell{Q: 1, R: 1}, W: 2, H: 2}},
		{"covers_entirely", Object{Cell: geom.Cell{Q: -1, R: -1}, W: 4, H: 4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, ok := d.AddObject(c.obj); ok {
				t.Fatal("overlapping placement should fail")
			}
			if !reflect.DeepEqual(before, d.Snapshot()) {
				t.Fatal("failed placement mutated the document")
			}
		})
	}

	// Adjacent is fine.
	if _, ok := d.AddObject(Object{Cell: geom.Cell{Q: 2, R: 0}, W: 1, H: 1}); !ok {
		t.Fatal("adjacent placement should succeed")
	}
}

func TestMoveAndResizeHonorOverlap(t *testing.T) {
	d := newTestDoc(t)
	a, _ := d.AddObject(Object{Cell: geom.Cell{Q: 0, R: 0}, W: 2, H: 2})
	b, _ := d.AddObject(Object{Cell: geom.Cell{Q: 5, R: 5}, W: 1, H: 1})

	if d.MoveObject(b, geom.Cell{Q: 1, R: 1}) {
		t.Fatal("move into occupied area should fail")
	}
	if !d.MoveObject(b, geom.Cell{Q: 3, R: 0}) {
		t.Fatal("move to free area should succeed")
	}
	// An object may always move onto its own footprint.
	if !d.MoveObject(a, geom.Cell{Q: 1, R: 0}) {
		t.Fatal("self-overlapping move should succeed")
	}

	if d.ResizeObject(a, geom.Cell{Q: 1, R: 0}, 2, 1) != true {
		t.Fatal("shrink should succeed")
	}
	if d.ResizeObject(b, geom.Cell{Q: 2, R: 0}, 2, 2) {
		t.Fatal("resize into occupied area should fail")
	}
	if !d.ResizeObject(b, geom.Cell{Q: 2, R: 2}, 0, 0) {
		t.Fatal("resize clamps to 1x1 and succeeds")
	}
	o, _ := d.ObjectByID(b)
	if o.W != 1 || o.H != 1 {
		t.Fatalf("footprint = %dx%d, want clamped 1x1", o.W, o.H)
	}
}

func TestHitTestZOrder(t *testing.T) {
	d := newTestDoc(t)
	layout := d.Layout()

	first := d.AddText(Text{Pos: layout.Center(geom.Cell{Q: 1, R: 1}), Content: "alpha", Size: 14})
	second := d.AddText(Text{Pos: layout.Center(geom.Cell{Q: 1, R: 1}), Content: "beta", Size: 14})
	if first == second {
		t.Fatal("ids must be unique")
	}
	if id, ok := d.HitTestText(layout.Center(geom.Cell{Q: 1, R: 1})); !ok || id != second {
		t.Fatalf("hit = %d, want most recently created %d", id, second)
	}
	d.RemoveText(second)
	if id, ok := d.HitTestText(layout.Center(geom.Cell{Q: 1, R: 1})); !ok || id != first {
		t.Fatalf("hit after removal = %d, want %d", id, first)
	}
}

func TestHitTestObjectFootprint(t *testing.T) {
	d := newTestDoc(t)
	id, _ := d.AddObject(Object{Cell: geom.Cell{Q: 2, R: 2}, W: 2, H: 1})
	layout := d.Layout()

	if got, ok := d.HitTestObject(layout.Center(geom.Cell{Q: 3, R: 2})); !ok || got != id {
		t.Fatalf("far footprint cell should hit, got (%d,%v)", got, ok)
	}
	if _, ok := d.HitTestObject(layout.Center(geom.Cell{Q: 4, R: 2})); ok {
		t.Fatal("cell outside footprint should miss")
	}
}

func TestRotatedTextHit(t *testing.T) {
	d := newTestDoc(t)
	id := d.AddText(Text{Pos: cp.Vector{X: 100, Y: 100}, Content: "long label text", Size: 12, Rotation: 90})
	w := Text{Content: "long label text", Size: 12}.BB()
	halfW := (w.R - w.L) / 2

	// After a 90 degree turn the long axis is vertical.
	if _, ok := d.HitTestText(cp.Vector{X: 100 + halfW*0.9, Y: 100}); ok {
		t.Fatal("horizontal extent should no longer hit")
	}
	if got, ok := d.HitTestText(cp.Vector{X: 100, Y: 100 + halfW*0.9}); !ok || got != id {
		t.Fatal("vertical extent should hit")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	d := newTestDoc(t)
	d.SetCell(PaintedCell{Cell: geom.Cell{Q: 0, R: 0}, Color: "#123456", Opacity: 1})
	d.AddObject(Object{Cell: geom.Cell{Q: 3, R: 3}, W: 1, H: 2, Kind: "door", LinkTarget: "note:7"})
	d.AddText(Text{Pos: cp.Vector{X: 10, Y: 20}, Content: "entrance", Size: 12})

	snap := d.Snapshot()

	// Mutate heavily, then restore.
	d.SetCell(PaintedCell{Cell: geom.Cell{Q: 9, R: 9}, Color: "#fff", Opacity: 1})
	d.EachObject(func(o Object) { d.RemoveObject(o.ID) })
	d.AddText(Text{Pos: cp.Vector{}, Content: "junk"})
	d.Restore(snap)

	if !reflect.DeepEqual(snap, d.Snapshot()) {
		t.Fatal("restore did not bring back the snapshotted state")
	}
	// Indexes were rebuilt too.
	if _, ok := d.HitTestObject(d.Layout().Center(geom.Cell{Q: 3, R: 4})); !ok {
		t.Fatal("object index stale after restore")
	}
}

func TestSnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	d := newTestDoc(t)
	id, _ := d.AddObject(Object{Cell: geom.Cell{Q: 1, R: 1}, W: 1, H: 1})
	snap := d.Snapshot()
	d.MoveObject(id, geom.Cell{Q: 5, R: 5})
	if snap.Objects[0].Cell != (geom.Cell{Q: 1, R: 1}) {
		t.Fatal("edit leaked into an existing snapshot")
	}
}

func TestApplyBulk(t *testing.T) {
	d := newTestDoc(t)
	d.AddObject(Object{Cell: geom.Cell{Q: 0, R: 0}, W: 2, H: 2})

	cells := []PaintedCell{
		{Cell: geom.Cell{Q: 0, R: 0}, Color: "#111", Opacity: 1},
		{Cell: geom.Cell{Q: 1, R: 0}, Color: "#222", Opacity: 1},
	}
	objects := []Object{
		{Cell: geom.Cell{Q: 4, R: 4}, W: 1, H: 1, Kind: "chest"},
		{Cell: geom.Cell{Q: 1, R: 1}, W: 1, H: 1, Kind: "overlaps"},
	}
	edges := []Edge{{A: geom.Cell{Q: 0, R: 0}, B: geom.Cell{Q: 1, R: 0}, Kind: "wall"}}

	skipped := d.ApplyBulk(cells, objects, edges)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1 overlapping object", skipped)
	}
	if d.CellCount() != 2 || d.ObjectCount() != 2 || d.EdgeCount() != 1 {
		t.Fatalf("counts = %d cells, %d objects, %d edges", d.CellCount(), d.ObjectCount(), d.EdgeCount())
	}
}

func TestApplyBulkEdgesDropDuplicates(t *testing.T) {
	d := newTestDoc(t)
	wall := Edge{A: geom.Cell{Q: 0, R: 0}, B: geom.Cell{Q: 1, R: 0}, Kind: "wall"}
	door := Edge{A: geom.Cell{Q: 0, R: 0}, B: geom.Cell{Q: 1, R: 0}, Kind: "door"}

	d.ApplyBulk(nil, nil, []Edge{wall})
	// A re-run of the same generator must not pile up a second wall, but
	// a different kind on the same boundary is a new edge.
	d.ApplyBulk(nil, nil, []Edge{wall, door})

	if d.EdgeCount() != 2 {
		t.Fatalf("edge count = %d, want 2", d.EdgeCount())
	}
}

func TestHexDocumentOrientationSwitch(t *testing.T) {
	d := NewHex(16, geom.OrientationFlat)
	id, _ := d.AddObject(Object{Cell: geom.Cell{Q: 2, R: -1}, W: 1, H: 1})

	d.SetOrientation(geom.OrientationPointy)
	// The same cell must still be hittable at its re-derived center.
	center := d.Layout().Center(geom.Cell{Q: 2, R: -1})
	if got, ok := d.HitTestObject(center); !ok || got != id {
		t.Fatalf("hit after orientation switch = (%d,%v)", got, ok)
	}
}
