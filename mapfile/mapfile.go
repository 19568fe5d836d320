// Package mapfile reads and writes the JSON map format shared by the
// editor and the headless export tool.
package mapfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// mapFile is the on-disk JSON shape of a document. The grid parameters
// travel with the entities so a file reopens on the layout it was drawn
// on.
type mapFile struct {
	Variant     string  `json:"variant"`
	CellSize    float64 `json:"cell_size"`
	Orientation string  `json:"orientation,omitempty"`
	Diagonal8   bool    `json:"diagonal8,omitempty"`

	Cells   []document.PaintedCell `json:"cells"`
	Objects []document.Object      `json:"objects"`
	Texts   []document.Text        `json:"texts"`
	Edges   []document.Edge        `json:"edges,omitempty"`
}

func Save(doc *document.Document, filename string) (string, error) {
	if filename == "" {
		if err := os.MkdirAll("maps", 0755); err != nil {
			return "", err
		}
		filename = filepath.Join("maps", fmt.Sprintf("map_%d.json", time.Now().Unix()))
	} else if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	mf := mapFile{
		Variant: string(doc.Variant()),
		Cells:   []document.PaintedCell{},
		Objects: []document.Object{},
		Texts:   []document.Text{},
	}
	switch l := doc.Layout().(type) {
	case *geom.SquareLayout:
		mf.CellSize = l.CellSize
		mf.Diagonal8 = l.Diagonal8
	case *geom.HexLayout:
		mf.CellSize = l.Size
		mf.Orientation = l.Orientation.String()
	}
	doc.EachCell(func(pc document.PaintedCell) { mf.Cells = append(mf.Cells, pc) })
	doc.EachObject(func(o document.Object) { mf.Objects = append(mf.Objects, o) })
	doc.EachText(func(t document.Text) { mf.Texts = append(mf.Texts, t) })
	doc.EachEdge(func(e document.Edge) { mf.Edges = append(mf.Edges, e) })

	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mf); err != nil {
		return "", fmt.Errorf("save %s: %w", filename, err)
	}
	return filename, nil
}

func Load(filename string) (*document.Document, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var mf mapFile
	if err := json.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	if mf.CellSize <= 0 {
		mf.CellSize = 32
	}

	var doc *document.Document
	switch mf.Variant {
	case string(document.VariantHex):
		o := geom.OrientationFlat
		if mf.Orientation == geom.OrientationPointy.String() {
			o = geom.OrientationPointy
		}
		doc = document.NewHex(mf.CellSize, o)
	default:
		doc = document.NewSquare(mf.CellSize)
		if sq, ok := doc.Layout().(*geom.SquareLayout); ok {
			sq.Diagonal8 = mf.Diagonal8
		}
	}

	for _, pc := range mf.Cells {
		doc.SetCell(pc)
	}
	for _, o := range mf.Objects {
		if _, ok := doc.AddObject(o); !ok {
			// Overlapping footprints in a file are dropped, same as a
			// rejected placement.
			fmt.Fprintf(os.Stderr, "load %s: dropped overlapping object at (%d,%d)\n", filename, o.Cell.Q, o.Cell.R)
		}
	}
	for _, t := range mf.Texts {
		doc.AddText(t)
	}
	if len(mf.Edges) > 0 {
		doc.ApplyBulk(nil, nil, mf.Edges)
	}
	return doc, nil
}
