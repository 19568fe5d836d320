package mapfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := document.NewHex(16, geom.OrientationPointy)
	doc.SetCell(document.PaintedCell{Cell: geom.Cell{Q: 0, R: 0}, Color: "#334455", Opacity: 0.8})
	doc.SetCell(document.PaintedCell{Cell: geom.Cell{Q: 2, R: -1}, Color: "#556677", Opacity: 1})
	doc.AddObject(document.Object{Cell: geom.Cell{Q: 1, R: 1}, W: 2, H: 1, Kind: "zone", Color: "#aa0000"})
	doc.AddObject(document.Object{Cell: geom.Cell{Q: 5, R: 5}, W: 1, H: 1, Kind: "note", Note: "stairs", LinkTarget: "note:12"})
	doc.AddText(document.Text{Pos: cp.Vector{X: 40, Y: 12}, Rotation: 45, Content: "entrance", Size: 14})
	doc.ApplyBulk(nil, nil, []document.Edge{{A: geom.Cell{Q: 0, R: 0}, B: geom.Cell{Q: 1, R: 0}, Kind: "door"}})

	path := filepath.Join(t.TempDir(), "dungeon.json")
	saved, err := Save(doc, path)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != path {
		t.Fatalf("saved to %s, want %s", saved, path)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Variant() != document.VariantHex {
		t.Fatalf("variant = %v", got.Variant())
	}
	hex, ok := got.Layout().(*geom.HexLayout)
	if !ok || hex.Size != 16 || hex.Orientation != geom.OrientationPointy {
		t.Fatalf("layout = %+v", got.Layout())
	}
	if got.CellCount() != 2 || got.ObjectCount() != 2 || got.TextCount() != 1 || got.EdgeCount() != 1 {
		t.Fatalf("counts: %d cells, %d objects, %d texts, %d edges",
			got.CellCount(), got.ObjectCount(), got.TextCount(), got.EdgeCount())
	}

	pc, ok := got.CellAt(geom.Cell{Q: 0, R: 0})
	if !ok || pc.Color != "#334455" || pc.Opacity != 0.8 {
		t.Fatalf("cell = %+v", pc)
	}
	found := false
	got.EachObject(func(o document.Object) {
		if o.IsNotePin() && o.Note == "stairs" && o.LinkTarget == "note:12" {
			found = true
		}
	})
	if !found {
		t.Fatal("note pin did not survive the round trip")
	}
}

func TestLoadDropsOverlappingObjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	body := `{
  "variant": "square",
  "cell_size": 10,
  "cells": [],
  "objects": [
    {"id": 1, "cell": {"q": 0, "r": 0}, "w": 2, "h": 2, "kind": "zone"},
    {"id": 2, "cell": {"q": 1, "r": 1}, "w": 1, "h": 1, "kind": "marker"},
    {"id": 3, "cell": {"q": 4, "r": 4}, "w": 1, "h": 1, "kind": "marker"}
  ],
  "texts": []
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// The second object overlaps the first and is dropped.
	if got.ObjectCount() != 2 {
		t.Fatalf("objects = %d, want 2", got.ObjectCount())
	}
	if _, ok := got.Layout().(*geom.SquareLayout); !ok {
		t.Fatalf("layout = %T", got.Layout())
	}
}
