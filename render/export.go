package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mapslate/mapslate/config"
	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// ExportOptions controls headless PNG export.
type ExportOptions struct {
	// Scale multiplies world units to pixels. Zero means 1.
	Scale float64
	// PaddingPx is added around the content bounds.
	PaddingPx float64
	// Grid draws cell outlines for the painted region.
	Grid bool
	// Background fills the image; nil means opaque dark.
	Background color.Color
}

// ExportPNG renders the committed document to a PNG file sized to its
// content. An empty document is an error rather than a zero-sized image.
func ExportPNG(doc *document.Document, path string, opts ExportOptions) error {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.PaddingPx < 0 {
		opts.PaddingPx = 0
	}
	if opts.Background == nil {
		opts.Background = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	}

	bb, ok := contentBounds(doc)
	if !ok {
		return fmt.Errorf("render: export %s: document is empty", path)
	}

	w := int(math.Ceil((bb.R-bb.L)*opts.Scale + 2*opts.PaddingPx))
	h := int(math.Ceil((bb.T-bb.B)*opts.Scale + 2*opts.PaddingPx))
	if w < 1 || h < 1 {
		return fmt.Errorf("render: export %s: degenerate bounds", path)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(opts.Background)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("render: parse font: %w", err)
	}

	// World-to-image transform; world Y grows the same way as image Y.
	toImage := func(v cp.Vector) (float64, float64) {
		return (v.X-bb.L)*opts.Scale + opts.PaddingPx,
			(v.Y-bb.B)*opts.Scale + opts.PaddingPx
	}

	l := doc.Layout()

	doc.EachCell(func(pc document.PaintedCell) {
		drawPolygon(dc, l.Polygon(pc.Cell), toImage)
		c := parseColor(pc.Color)
		dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, pc.Opacity)
		dc.Fill()
		if opts.Grid {
			drawPolygon(dc, l.Polygon(pc.Cell), toImage)
			dc.SetRGB(0.25, 0.25, 0.3)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	})

	doc.EachEdge(func(e document.Edge) {
		ax, ay := toImage(l.Center(e.A))
		bx, by := toImage(l.Center(e.B))
		dc.SetRGB(0.85, 0.7, 0.35)
		dc.SetLineWidth(2 * opts.Scale)
		dc.DrawLine(ax, ay, bx, by)
		dc.Stroke()
	})

	doc.EachObject(func(o document.Object) {
		fbb := geom.FootprintBB(l, o.Cell, o.W, o.H)
		x0, y0 := toImage(cp.Vector{X: fbb.L, Y: fbb.B})
		x1, y1 := toImage(cp.Vector{X: fbb.R, Y: fbb.T})
		if o.IsNotePin() {
			dc.SetRGB(0.94, 0.82, 0.25)
			dc.DrawCircle((x0+x1)/2, (y0+y1)/2, math.Abs(x1-x0)/4)
			dc.Fill()
			return
		}
		c := parseColor(o.Color)
		dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 0.4)
		dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
		dc.Fill()
		dc.SetRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		dc.SetLineWidth(2)
		dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
		dc.Stroke()
	})

	doc.EachText(func(t document.Text) {
		size := t.Size
		if size <= 0 {
			size = 14
		}
		face := truetype.NewFace(ttf, &truetype.Options{
			Size:    size * opts.Scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		dc.SetFontFace(face)
		c := parseColor(t.Color)
		if t.Color == "" {
			c = config.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
		}
		dc.SetRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		x, y := toImage(t.Pos)
		if t.Rotation != 0 {
			dc.Push()
			dc.RotateAbout(t.Rotation*math.Pi/180, x, y)
			dc.DrawStringAnchored(t.Content, x, y, 0.5, 0.5)
			dc.Pop()
			return
		}
		dc.DrawStringAnchored(t.Content, x, y, 0.5, 0.5)
	})

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

func drawPolygon(dc *gg.Context, verts []cp.Vector, toImage func(cp.Vector) (float64, float64)) {
	for i, v := range verts {
		x, y := toImage(v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

// contentBounds merges every entity's world box. ok is false for an
// empty document.
func contentBounds(doc *document.Document) (cp.BB, bool) {
	l := doc.Layout()
	var bb cp.BB
	found := false
	grow := func(b cp.BB) {
		if !found {
			bb = b
			found = true
			return
		}
		bb = bb.Merge(b)
	}
	doc.EachCell(func(pc document.PaintedCell) { grow(l.Bounds(pc.Cell)) })
	doc.EachObject(func(o document.Object) { grow(geom.FootprintBB(l, o.Cell, o.W, o.H)) })
	doc.EachText(func(t document.Text) { grow(t.BB()) })
	doc.EachEdge(func(e document.Edge) {
		grow(l.Bounds(e.A))
		grow(l.Bounds(e.B))
	})
	return bb, found
}

func parseColor(s string) config.RGBA {
	c, err := config.ParseHexColor(s)
	if err != nil {
		return config.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	}
	return c
}
