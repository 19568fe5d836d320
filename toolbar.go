package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mapslate/mapslate/interact"
)

// solidNineSlice returns a solid color *image.NineSlice for widget
// backgrounds.
func solidNineSlice(c color.Color) *imageui.NineSlice {
	return imageui.NewNineSliceColor(c)
}

var toolbarTools = []struct {
	label string
	tool  interact.Tool
}{
	{"Select", interact.ToolSelect},
	{"Draw", interact.ToolDraw},
	{"Erase", interact.ToolErase},
	{"Rect", interact.ToolRectangle},
	{"Circle", interact.ToolCircle},
	{"Line", interact.ToolLine},
	{"Clear", interact.ToolClearArea},
	{"Object", interact.ToolPlaceObject},
	{"Text", interact.ToolPlaceText},
	{"Note", interact.ToolPlaceNotePin},
	{"Pan", interact.ToolPan},
}

type toolBar struct {
	ui      *ebitenui.UI
	group   *widget.RadioGroup
	buttons []*widget.Button
}

func newToolBar(onToolSelected func(interact.Tool)) *toolBar {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: src, Size: 13}

	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
		Hover:    color.White,
		Pressed:  color.NRGBA{R: 0x5a, G: 0xc8, B: 0xfa, A: 0xff},
		Disabled: color.Gray{Y: 128},
	}
	buttonImage := &widget.ButtonImage{
		Idle:    solidNineSlice(color.NRGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xff}),
		Hover:   solidNineSlice(color.NRGBA{R: 0x40, G: 0x40, B: 0x4a, A: 0xff}),
		Pressed: solidNineSlice(color.NRGBA{R: 0x20, G: 0x50, B: 0x70, A: 0xff}),
	}

	bar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth, toolbarHeight),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.NRGBA{R: 0x26, G: 0x26, B: 0x2e, A: 0xff})),
	)

	var buttons []*widget.Button
	for _, entry := range toolbarTools {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text(entry.label, &fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(64, 36),
			),
		)
		buttons = append(buttons, btn)
		bar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onToolSelected == nil {
				return
			}
			for idx, b := range buttons {
				if args.Active == b {
					onToolSelected(toolbarTools[idx].tool)
					return
				}
			}
		}),
	)
	group.SetActive(buttons[0])

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	bar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchHorizontal:  true,
	}
	root.AddChild(bar)

	return &toolBar{
		ui:      &ebitenui.UI{Container: root},
		group:   group,
		buttons: buttons,
	}
}

// SetActiveTool syncs the pressed button when the tool changes from the
// keyboard side.
func (t *toolBar) SetActiveTool(tool interact.Tool) {
	for idx, entry := range toolbarTools {
		if entry.tool == tool {
			t.group.SetActive(t.buttons[idx])
			return
		}
	}
}

func (t *toolBar) Update() {
	t.ui.Update()
}

func (t *toolBar) Draw(screen *ebiten.Image) {
	t.ui.Draw(screen)
}
