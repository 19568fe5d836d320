// Package render draws a map document to the screen and exports it to
// PNG. The live renderer reads committed state plus the gesture overlay;
// it owns no document state of its own.
package render

import (
	"bytes"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mapslate/mapslate/config"
	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
	"github.com/mapslate/mapslate/interact"
	"github.com/mapslate/mapslate/viewport"
)

var (
	colorBackground = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	colorGridLine   = color.NRGBA{R: 0x3a, G: 0x3a, B: 0x44, A: 0xff}
	colorEdge       = color.NRGBA{R: 0xd8, G: 0xb4, B: 0x5a, A: 0xff}
	colorSelection  = color.NRGBA{R: 0x5a, G: 0xc8, B: 0xfa, A: 0xff}
	colorInvalid    = color.NRGBA{R: 0xe0, G: 0x50, B: 0x50, A: 0xa0}
	colorValidGhost = color.NRGBA{R: 0x50, G: 0xe0, B: 0x78, A: 0xa0}
	colorNotePin    = color.NRGBA{R: 0xf0, G: 0xd0, B: 0x40, A: 0xff}
	colorText       = color.NRGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
)

type Renderer struct {
	face   text.Face
	colors map[string]color.NRGBA
}

func New() (*Renderer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return &Renderer{
		face:   &text.GoTextFace{Source: src, Size: 14},
		colors: map[string]color.NRGBA{},
	}, nil
}

// Frame is everything one draw call needs.
type Frame struct {
	Doc       *document.Document
	View      *viewport.Viewport
	Overlay   interact.Overlay
	Selection interact.Selection
	ShowGrid  bool
}

func (r *Renderer) Draw(dst *ebiten.Image, f Frame) {
	dst.Fill(colorBackground)
	if f.Doc == nil || f.View == nil {
		return
	}

	if f.ShowGrid {
		r.drawGrid(dst, f)
	}
	r.drawCells(dst, f)
	r.drawEdges(dst, f)
	r.drawObjects(dst, f)
	r.drawTexts(dst, f)
	r.drawOverlay(dst, f)
	r.drawSelection(dst, f)
}

// visibleCells walks the axial rectangle covering the screen, padded so
// hex cells straddling the edge still draw.
func (r *Renderer) visibleCells(f Frame, dst *ebiten.Image, fn func(geom.Cell)) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	l := f.Doc.Layout()
	corners := []cp.Vector{
		f.View.ScreenToWorld(cp.Vector{}),
		f.View.ScreenToWorld(cp.Vector{X: float64(w)}),
		f.View.ScreenToWorld(cp.Vector{Y: float64(h)}),
		f.View.ScreenToWorld(cp.Vector{X: float64(w), Y: float64(h)}),
	}
	minQ, maxQ := math.MaxInt32, math.MinInt32
	minR, maxR := math.MaxInt32, math.MinInt32
	for _, c := range corners {
		cell := l.CellAt(c)
		minQ, maxQ = min(minQ, cell.Q), max(maxQ, cell.Q)
		minR, maxR = min(minR, cell.R), max(maxR, cell.R)
	}
	const pad = 2
	for q := minQ - pad; q <= maxQ+pad; q++ {
		for rr := minR - pad; rr <= maxR+pad; rr++ {
			fn(geom.Cell{Q: q, R: rr})
		}
	}
}

func (r *Renderer) drawGrid(dst *ebiten.Image, f Frame) {
	l := f.Doc.Layout()
	r.visibleCells(f, dst, func(c geom.Cell) {
		path := r.cellPath(l, f.View, c)
		opts := &vector.DrawPathOptions{AntiAlias: true}
		opts.ColorScale.ScaleWithColor(colorGridLine)
		vector.StrokePath(dst, path, &vector.StrokeOptions{Width: 1}, opts)
	})
}

func (r *Renderer) drawCells(dst *ebiten.Image, f Frame) {
	l := f.Doc.Layout()
	f.Doc.EachCell(func(pc document.PaintedCell) {
		if f.Overlay.Erased[pc.Cell] {
			return
		}
		r.fillCell(dst, l, f.View, pc)
	})
}

func (r *Renderer) fillCell(dst *ebiten.Image, l geom.Layout, view *viewport.Viewport, pc document.PaintedCell) {
	clr := r.cellColor(pc.Color)
	clr.A = uint8(float64(clr.A) * pc.Opacity)
	path := r.cellPath(l, view, pc.Cell)
	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(clr)
	vector.FillPath(dst, path, nil, opts)
}

func (r *Renderer) cellPath(l geom.Layout, view *viewport.Viewport, c geom.Cell) *vector.Path {
	var path vector.Path
	for i, v := range l.Polygon(c) {
		s := view.WorldToScreen(v)
		if i == 0 {
			path.MoveTo(float32(s.X), float32(s.Y))
		} else {
			path.LineTo(float32(s.X), float32(s.Y))
		}
	}
	path.Close()
	return &path
}

func (r *Renderer) drawEdges(dst *ebiten.Image, f Frame) {
	l := f.Doc.Layout()
	f.Doc.EachEdge(func(e document.Edge) {
		a := f.View.WorldToScreen(l.Center(e.A))
		b := f.View.WorldToScreen(l.Center(e.B))
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, colorEdge, true)
	})
}

func (r *Renderer) drawObjects(dst *ebiten.Image, f Frame) {
	l := f.Doc.Layout()
	f.Doc.EachObject(func(o document.Object) {
		// A dragged/resized object draws from the overlay instead.
		if f.Overlay.Object != nil && f.Overlay.Object.ID == o.ID {
			return
		}
		r.drawObject(dst, l, f.View, o, r.cellColor(o.Color))
	})
}

func (r *Renderer) drawObject(dst *ebiten.Image, l geom.Layout, view *viewport.Viewport, o document.Object, clr color.NRGBA) {
	bb := geom.FootprintBB(l, o.Cell, o.W, o.H)
	lo := view.WorldToScreen(cp.Vector{X: bb.L, Y: bb.B})
	hi := view.WorldToScreen(cp.Vector{X: bb.R, Y: bb.T})
	x := float32(math.Min(lo.X, hi.X))
	y := float32(math.Min(lo.Y, hi.Y))
	w := float32(math.Abs(hi.X - lo.X))
	h := float32(math.Abs(hi.Y - lo.Y))

	if o.IsNotePin() {
		cx, cy := x+w/2, y+h/2
		vector.FillCircle(dst, cx, cy, w/4, colorNotePin, true)
		vector.StrokeCircle(dst, cx, cy, w/4, 1.5, colorBackground, true)
		return
	}
	fill := clr
	fill.A = 0x60
	vector.FillRect(dst, x, y, w, h, fill, true)
	vector.StrokeRect(dst, x, y, w, h, 2, clr, true)
}

func (r *Renderer) drawTexts(dst *ebiten.Image, f Frame) {
	f.Doc.EachText(func(t document.Text) {
		if f.Overlay.Text != nil && f.Overlay.Text.ID == t.ID {
			return
		}
		r.drawText(dst, f.View, t)
	})
}

func (r *Renderer) drawText(dst *ebiten.Image, view *viewport.Viewport, t document.Text) {
	s := view.WorldToScreen(t.Pos)
	op := &text.DrawOptions{}
	op.GeoM.Rotate(t.Rotation * math.Pi / 180)
	op.GeoM.Translate(s.X, s.Y)
	op.ColorScale.ScaleWithColor(r.textColor(t.Color))
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	if gf, ok := r.face.(*text.GoTextFace); ok && t.Size > 0 {
		scaled := *gf
		scaled.Size = t.Size * view.Zoom
		text.Draw(dst, t.Content, &scaled, op)
		return
	}
	text.Draw(dst, t.Content, r.face, op)
}

func (r *Renderer) drawOverlay(dst *ebiten.Image, f Frame) {
	l := f.Doc.Layout()
	for _, pc := range f.Overlay.Cells {
		faded := pc
		faded.Opacity = pc.Opacity * 0.6
		r.fillCell(dst, l, f.View, faded)
	}
	for c := range f.Overlay.Erased {
		path := r.cellPath(l, f.View, c)
		opts := &vector.DrawPathOptions{AntiAlias: true}
		opts.ColorScale.ScaleWithColor(colorInvalid)
		vector.StrokePath(dst, path, &vector.StrokeOptions{Width: 2}, opts)
	}
	if f.Overlay.Object != nil {
		ghost := colorValidGhost
		if !f.Overlay.ObjectValid {
			ghost = colorInvalid
		}
		r.drawObject(dst, l, f.View, *f.Overlay.Object, ghost)
	}
	if f.Overlay.Text != nil {
		r.drawText(dst, f.View, *f.Overlay.Text)
	}
}

func (r *Renderer) drawSelection(dst *ebiten.Image, f Frame) {
	switch f.Selection.Kind {
	case interact.SelectObject:
		o, ok := f.Doc.ObjectByID(f.Selection.ID)
		if !ok {
			return
		}
		bb := geom.FootprintBB(f.Doc.Layout(), o.Cell, o.W, o.H)
		r.strokeWorldBB(dst, f.View, bb)
		for _, corner := range []cp.Vector{
			{X: bb.L, Y: bb.B}, {X: bb.R, Y: bb.B},
			{X: bb.L, Y: bb.T}, {X: bb.R, Y: bb.T},
		} {
			s := f.View.WorldToScreen(corner)
			vector.FillCircle(dst, float32(s.X), float32(s.Y), 4, colorSelection, true)
		}
	case interact.SelectText:
		t, ok := f.Doc.TextByID(f.Selection.ID)
		if !ok {
			return
		}
		r.strokeWorldBB(dst, f.View, t.BB())
	}
}

func (r *Renderer) strokeWorldBB(dst *ebiten.Image, view *viewport.Viewport, bb cp.BB) {
	lo := view.WorldToScreen(cp.Vector{X: bb.L, Y: bb.B})
	hi := view.WorldToScreen(cp.Vector{X: bb.R, Y: bb.T})
	x := float32(math.Min(lo.X, hi.X))
	y := float32(math.Min(lo.Y, hi.Y))
	w := float32(math.Abs(hi.X - lo.X))
	h := float32(math.Abs(hi.Y - lo.Y))
	vector.StrokeRect(dst, x, y, w, h, 1.5, colorSelection, true)
}

func (r *Renderer) cellColor(s string) color.NRGBA {
	if c, ok := r.colors[s]; ok {
		return c
	}
	parsed, err := config.ParseHexColor(s)
	c := color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	if err == nil {
		c = color.NRGBA{R: parsed.R, G: parsed.G, B: parsed.B, A: parsed.A}
	}
	r.colors[s] = c
	return c
}

func (r *Renderer) textColor(s string) color.NRGBA {
	if s == "" {
		return colorText
	}
	return r.cellColor(s)
}
