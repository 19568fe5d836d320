package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/interact"
)

var clipboardInit = sync.OnceValue(func() bool {
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
		return false
	}
	return true
})

// clip is the system-clipboard payload for a copied entity. The marker
// field keeps paste from trying to interpret arbitrary text.
type clip struct {
	Mapslate string           `json:"mapslate"`
	Object   *document.Object `json:"object,omitempty"`
	Text     *document.Text   `json:"text,omitempty"`
}

func (g *Game) copySelection() {
	if !clipboardInit() {
		return
	}
	sel := g.coord.Selection()
	payload := clip{Mapslate: "v1"}
	switch sel.Kind {
	case interact.SelectObject:
		o, ok := g.doc.ObjectByID(sel.ID)
		if !ok {
			return
		}
		payload.Object = &o
	case interact.SelectText:
		t, ok := g.doc.TextByID(sel.ID)
		if !ok {
			return
		}
		payload.Text = &t
	default:
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	clipboard.Write(clipboard.FmtText, b)
	g.setStatus("copied")
}

// pasteAtCursor places a copied entity at the pointer. Objects land on
// the hovered cell with the usual overlap rules; texts keep their
// rotation and land at the exact cursor position.
func (g *Game) pasteAtCursor() {
	if !clipboardInit() {
		return
	}
	b := clipboard.Read(clipboard.FmtText)
	if len(b) == 0 {
		return
	}
	var payload clip
	if err := json.Unmarshal(b, &payload); err != nil || payload.Mapslate == "" {
		return
	}

	mx, my := ebiten.CursorPosition()
	world := g.view.ScreenToWorld(cp.Vector{X: float64(mx), Y: float64(my)})

	switch {
	case payload.Object != nil:
		o := *payload.Object
		o.Cell = g.doc.Layout().CellAt(world)
		if _, ok := g.doc.AddObject(o); !ok {
			g.setStatus("paste blocked: cells occupied")
			return
		}
	case payload.Text != nil:
		t := *payload.Text
		t.Pos = world
		g.doc.AddText(t)
	default:
		return
	}
	g.hist.Push(g.doc.Snapshot())
	g.setStatus("pasted")
}
