package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

func TestExportPNGWritesSizedImage(t *testing.T) {
	doc := document.NewSquare(10)
	for q := 0; q < 4; q++ {
		for r := 0; r < 3; r++ {
			doc.SetCell(document.PaintedCell{Cell: geom.Cell{Q: q, R: r}, Color: "#446644", Opacity: 1})
		}
	}
	doc.AddObject(document.Object{Cell: geom.Cell{Q: 1, R: 1}, W: 2, H: 1, Kind: "zone", Color: "#aa4444"})

	path := filepath.Join(t.TempDir(), "map.png")
	err := ExportPNG(doc, path, ExportOptions{Scale: 2, PaddingPx: 10, Grid: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Content is 4x3 cells of 10 world units at scale 2 plus 10px padding
	// each side.
	if w := img.Bounds().Dx(); w != 100 {
		t.Fatalf("width = %d, want 100", w)
	}
	if h := img.Bounds().Dy(); h != 80 {
		t.Fatalf("height = %d, want 80", h)
	}
}

func TestExportPNGEmptyDocumentErrors(t *testing.T) {
	doc := document.NewSquare(10)
	err := ExportPNG(doc, filepath.Join(t.TempDir(), "empty.png"), ExportOptions{})
	if err == nil {
		t.Fatal("empty document exported without error")
	}
}

func TestExportPNGHexDocument(t *testing.T) {
	doc := document.NewHex(12, geom.OrientationPointy)
	doc.SetCell(document.PaintedCell{Cell: geom.Cell{Q: 0, R: 0}, Color: "#335577", Opacity: 0.9})
	doc.SetCell(document.PaintedCell{Cell: geom.Cell{Q: 1, R: 0}, Color: "#335577", Opacity: 0.9})
	doc.AddText(document.Text{Pos: doc.Layout().Center(geom.Cell{Q: 0, R: 0}), Content: "start", Size: 10, Rotation: 30})

	path := filepath.Join(t.TempDir(), "hex.png")
	if err := ExportPNG(doc, path, ExportOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatal("exported file is empty")
	}
}
