package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/mapslate/mapslate/config"
	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
	"github.com/mapslate/mapslate/history"
	"github.com/mapslate/mapslate/interact"
	"github.com/mapslate/mapslate/mapfile"
	"github.com/mapslate/mapslate/render"
	"github.com/mapslate/mapslate/script"
	"github.com/mapslate/mapslate/viewport"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	toolbarHeight = 48
)

type Game struct {
	cfg        config.Config
	configPath string
	filename   string

	doc   *document.Document
	view  *viewport.Viewport
	hist  *history.Stack
	coord *interact.Coordinator
	rend  *render.Renderer

	toolbar  *toolBar
	scripts  *script.Runtime
	watcher  *config.Watcher
	showGrid bool

	status      string
	statusUntil time.Time

	wasFocused bool
}

func NewGame(cfg config.Config, configPath, filename string) (*Game, error) {
	var doc *document.Document
	if filename != "" {
		d, err := mapfile.Load(filename)
		if err != nil {
			return nil, err
		}
		doc = d
	} else {
		doc = newDocumentFromConfig(cfg)
	}

	view := viewport.New(cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom)
	if hex, ok := doc.Layout().(*geom.HexLayout); ok {
		view.SetOrientation(hex.Orientation)
	}

	hist := history.New(cfg.History.MaxDepth, doc.Snapshot())
	coord := interact.New(doc, view, hist, interactConfig(cfg))

	rend, err := render.New()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		configPath: configPath,
		filename:   filename,
		doc:        doc,
		view:       view,
		hist:       hist,
		coord:      coord,
		rend:       rend,
		scripts:    script.New(doc.Layout(), cfg.Style.PaintColor, cfg.Style.PaintOpacity),
		showGrid:   true,
		wasFocused: true,
	}
	g.toolbar = newToolBar(g.coord.SetTool)

	var watchPaths []string
	if configPath != "" {
		watchPaths = append(watchPaths, configPath)
	}
	if cfg.Scripts.Watch {
		watchPaths = append(watchPaths, cfg.Scripts.Dir)
	}
	if len(watchPaths) > 0 {
		if w, err := config.NewWatcher(cfg.WatchDebounce(), watchPaths...); err != nil {
			log.Printf("file watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func interactConfig(cfg config.Config) interact.Config {
	return interact.Config{
		DragThresholdPx: cfg.Interact.DragThresholdPx,
		HandleRadiusPx:  cfg.Interact.HandleRadiusPx,
		NudgeWindow:     cfg.NudgeWindow(),
		PaintColor:      cfg.Style.PaintColor,
		PaintOpacity:    cfg.Style.PaintOpacity,
		ObjectKind:      cfg.Style.ObjectKind,
		TextSize:        cfg.Style.TextSize,
	}
}

func newDocumentFromConfig(cfg config.Config) *document.Document {
	if cfg.Grid.Variant == "hex" {
		o := geom.OrientationFlat
		if cfg.Grid.Orientation == "pointy" {
			o = geom.OrientationPointy
		}
		return document.NewHex(cfg.Grid.CellSize, o)
	}
	doc := document.NewSquare(cfg.Grid.CellSize)
	if sq, ok := doc.Layout().(*geom.SquareLayout); ok {
		sq.Diagonal8 = cfg.Grid.Diagonal8
	}
	return doc
}

func (g *Game) Update() error {
	g.toolbar.Update()
	g.pollWatcher()

	// Losing focus mid-gesture cancels it; a half-finished drag must not
	// commit when the window comes back.
	focused := ebiten.IsFocused()
	if g.wasFocused && !focused {
		g.coord.CancelGesture()
	}
	g.wasFocused = focused
	if !focused {
		return nil
	}

	g.pollKeyboard()
	g.pollPointer()
	return nil
}

func (g *Game) pollPointer() {
	mx, my := ebiten.CursorPosition()
	screen := cp.Vector{X: float64(mx), Y: float64(my)}
	mods := currentMods()

	if _, wy := ebiten.Wheel(); wy != 0 && my >= toolbarHeight {
		g.coord.Wheel(interact.Wheel{Screen: screen, DY: wy})
	}

	overUI := my < toolbarHeight
	if !overUI && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		out := g.coord.PointerDown(interact.PointerDown{Screen: screen, Button: interact.ButtonLeft, Mods: mods})
		if out == interact.OutcomeRejected {
			g.setStatus("placement blocked: cells occupied")
		}
	}
	if !overUI && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		g.coord.PointerDown(interact.PointerDown{Screen: screen, Button: interact.ButtonMiddle, Mods: mods})
	}

	g.coord.PointerMove(interact.PointerMove{Screen: screen, Mods: mods})

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		out := g.coord.PointerUp(interact.PointerUp{Screen: screen, Button: interact.ButtonLeft, Mods: mods})
		if out == interact.OutcomeRejected {
			g.setStatus("drop blocked: cells occupied")
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.coord.PointerUp(interact.PointerUp{Screen: screen, Button: interact.ButtonMiddle, Mods: mods})
	}
}

func (g *Game) pollKeyboard() {
	mods := currentMods()

	if mods.Ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ) && mods.Shift:
			g.coord.Redo()
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			g.coord.Undo()
		case inpututil.IsKeyJustPressed(ebiten.KeyY):
			g.coord.Redo()
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			g.save()
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			g.exportPNG()
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			g.copySelection()
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			g.pasteAtCursor()
		}
		return
	}

	for _, k := range []struct {
		eb  ebiten.Key
		key interact.Key
	}{
		{ebiten.KeyDelete, interact.KeyDelete},
		{ebiten.KeyBackspace, interact.KeyDelete},
		{ebiten.KeyEscape, interact.KeyEscape},
	} {
		if inpututil.IsKeyJustPressed(k.eb) {
			g.coord.Key(interact.KeyEvent{Key: k.key, Mods: mods})
		}
	}

	for _, k := range []struct {
		eb  ebiten.Key
		key interact.Key
	}{
		{ebiten.KeyArrowLeft, interact.KeyLeft},
		{ebiten.KeyArrowRight, interact.KeyRight},
		{ebiten.KeyArrowUp, interact.KeyUp},
		{ebiten.KeyArrowDown, interact.KeyDown},
	} {
		if keyRepeated(k.eb) {
			g.coord.Key(interact.KeyEvent{Key: k.key, Mods: mods})
		}
	}

	digits := []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
		ebiten.KeyDigit9, ebiten.KeyDigit0,
	}
	for i, k := range digits {
		if i < len(toolbarTools) && inpututil.IsKeyJustPressed(k) {
			g.coord.SetTool(toolbarTools[i].tool)
			g.toolbar.SetActiveTool(toolbarTools[i].tool)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.showGrid = !g.showGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.toggleOrientation()
	}
}

// keyRepeated fires on the initial press and then at a steady rate while
// the key is held.
func keyRepeated(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d == 1 {
		return true
	}
	return d >= 20 && (d-20)%4 == 0
}

func currentMods() interact.Mods {
	return interact.Mods{
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Space: ebiten.IsKeyPressed(ebiten.KeySpace),
	}
}

func (g *Game) toggleOrientation() {
	hex, ok := g.doc.Layout().(*geom.HexLayout)
	if !ok {
		return
	}
	next := geom.OrientationFlat
	if hex.Orientation == geom.OrientationFlat {
		next = geom.OrientationPointy
	}
	g.coord.CancelGesture()
	g.doc.SetOrientation(next)
	g.view.SetOrientation(next)
	g.setStatus("orientation: " + next.String())
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case ev, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		switch ev.Kind {
		case config.EventConfig:
			if g.configPath != "" {
				g.reloadConfig()
			}
		case config.EventScript:
			g.runScript(ev.Path)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("script watch: %v", err)
		}
	default:
	}
}

// reloadConfig applies edited tuning values without touching the open
// document; grid variant and cell size stay what the document was
// created with.
func (g *Game) reloadConfig() {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		g.setStatus("config reload failed: " + err.Error())
		return
	}
	g.cfg = cfg
	g.coord.SetConfig(interactConfig(cfg))
	g.setStatus("config reloaded")
}

func (g *Game) runScript(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		g.setStatus("script: " + err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := g.scripts.Run(ctx, src)
	if err != nil {
		g.setStatus(err.Error())
		return
	}
	skipped := g.coord.ApplyGenerated(res.Cells, res.Objects, res.Edges)
	msg := fmt.Sprintf("script: %d cells, %d objects", len(res.Cells), len(res.Objects))
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}
	g.setStatus(msg)
}

func (g *Game) save() {
	name, err := mapfile.Save(g.doc, g.filename)
	if err != nil {
		g.setStatus("save failed: " + err.Error())
		return
	}
	g.filename = name
	g.setStatus("saved " + name)
}

func (g *Game) exportPNG() {
	name := g.filename
	if name == "" {
		name = "map"
	}
	out := name + ".png"
	err := render.ExportPNG(g.doc, out, render.ExportOptions{Scale: 1, PaddingPx: 16, Grid: g.showGrid})
	if err != nil {
		g.setStatus("export failed: " + err.Error())
		return
	}
	g.setStatus("exported " + out)
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusUntil = time.Now().Add(3 * time.Second)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.rend.Draw(screen, render.Frame{
		Doc:       g.doc,
		View:      g.view,
		Overlay:   g.coord.Overlay(),
		Selection: g.coord.Selection(),
		ShowGrid:  g.showGrid,
	})
	g.toolbar.Draw(screen)

	if g.status != "" && time.Now().Before(g.statusUntil) {
		ebitenutil.DebugPrintAt(screen, g.status, 8, toolbarHeight+8)
	}
	mx, my := ebiten.CursorPosition()
	cell := g.doc.Layout().CellAt(g.view.ScreenToWorld(cp.Vector{X: float64(mx), Y: float64(my)}))
	footer := fmt.Sprintf("%s  cell (%d,%d)  zoom %.2f", g.coord.Tool(), cell.Q, cell.R, g.view.Zoom)
	ebitenutil.DebugPrintAt(screen, footer, 8, baseHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
