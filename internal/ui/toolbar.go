package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal/canvas"
	"DraftBoard/internal/shape"
)

// fill palette offered in the toolbar, as HSL.
var paletteFills = []shape.Color{
	{H: 0, S: 0, L: 0.85, A: 1},    // light gray
	{H: 0, S: 0.75, L: 0.55, A: 1}, // red
	{H: 0.33, S: 0.6, L: 0.45, A: 1},
	{H: 0.58, S: 0.75, L: 0.55, A: 1},
	{H: 0.13, S: 0.9, L: 0.6, A: 1},
}

// --- Custom widget for fill swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    shape.Color
	OnTapped func(shape.Color)
}

func newColorSwatch(c shape.Color, tapped func(shape.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	cr, cg, cb, ca := s.Color.RGBA8()
	rect := fynecanvas.NewRectangle(color.NRGBA{R: cr, G: cg, B: cb, A: ca})
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := fynecanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the main tool strip: tool selection, fill palette,
// stroke width, and view reset.
func NewToolbar(w *CanvasWidget) fyne.CanvasObject {
	m := w.Model()
	setTool := func(t canvas.Tool) func() {
		return func() {
			m.SetTool(t)
			w.status("Tool: %s", t)
		}
	}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentCopyIcon(), func() {
			m.DuplicateSelected()
			w.Refresh()
		}),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			m.DeleteSelected()
			w.Refresh()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() {
			m.Viewport().Reset()
			w.Refresh()
		}),
	)

	toolSelect := widget.NewSelect([]string{
		canvas.ToolSelect.String(),
		canvas.ToolPan.String(),
		canvas.ToolRectangle.String(),
		canvas.ToolEllipse.String(),
		canvas.ToolFrame.String(),
	}, func(name string) {
		if t, err := canvas.ParseTool(name); err == nil {
			setTool(t)()
		}
	})
	toolSelect.SetSelected(canvas.ToolSelect.String())

	onFillTapped := func(c shape.Color) {
		m.DefaultFill = &shape.Fill{Color: c}
		w.status("Fill set")
	}
	swatches := make([]fyne.CanvasObject, 0, len(paletteFills))
	for _, c := range paletteFills {
		swatches = append(swatches, newColorSwatch(c, onFillTapped))
	}
	colorBox := container.NewHBox(swatches...)

	strokeSlider := widget.NewSlider(0.0, 20.0)
	strokeSlider.SetValue(2.0)
	strokeSlider.OnChanged = func(val float64) {
		if m.DefaultStroke == nil {
			m.DefaultStroke = &shape.Stroke{Color: shape.Color{L: 0.2, A: 1}}
		}
		m.DefaultStroke.Width = float32(val)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), strokeSlider)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		widget.NewSeparator(),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Fill:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Stroke:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
