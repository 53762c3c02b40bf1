package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal/canvas"
	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// handleHitSize is the clickable radius around a corner handle, in screen
// pixels.
const handleHitSize float32 = 6

// handleDrawSize is the rendered side of a corner handle square.
const handleDrawSize float32 = 8

var (
	selectionColor  = color.NRGBA{R: 0x2a, G: 0x7f, B: 0xff, A: 0xff}
	rubberBandFill  = color.NRGBA{R: 0x2a, G: 0x7f, B: 0xff, A: 0x30}
	frameOutline    = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
	canvasBackdrop  = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	handleFillColor = color.White
)

// CanvasWidget is the interactive drawing surface. All pointer events are
// translated into gestures on the underlying canvas model; the renderer
// draws whatever the model holds.
type CanvasWidget struct {
	widget.BaseWidget
	model *canvas.Canvas

	OnStatus func(text string)
}

var _ fyne.Widget = (*CanvasWidget)(nil)
var _ fyne.Draggable = (*CanvasWidget)(nil)
var _ fyne.Scrollable = (*CanvasWidget)(nil)
var _ fyne.Focusable = (*CanvasWidget)(nil)
var _ desktop.Mouseable = (*CanvasWidget)(nil)

// NewCanvasWidget wraps a canvas model in a widget. Model callbacks that
// affect rendering trigger a refresh.
func NewCanvasWidget(m *canvas.Canvas) *CanvasWidget {
	w := &CanvasWidget{model: m}
	w.ExtendBaseWidget(w)

	m.OnContentChanged = func() { w.Refresh() }
	m.OnSelectionChanged = func() {
		w.Refresh()
		w.status("%d selected", len(m.Selection()))
	}
	m.OnShapeAdded = func(id shape.ID) {
		if s := m.GetShape(id); s != nil {
			w.status("Added %s %s", s.Kind, id)
		}
	}
	return w
}

// Model exposes the underlying canvas for the toolbar and app wiring.
func (w *CanvasWidget) Model() *canvas.Canvas { return w.model }

func (w *CanvasWidget) status(format string, args ...any) {
	if w.OnStatus != nil {
		w.OnStatus(fmt.Sprintf(format, args...))
	}
}

// MouseDown dispatches the pointer-down to exactly one gesture based on the
// active tool and what sits under the cursor.
func (w *CanvasWidget) MouseDown(e *desktop.MouseEvent) {
	w.requestFocus()

	screen := geom.Pt(e.Position.X, e.Position.Y)
	vp := w.model.Viewport()
	pt := vp.ScreenToCanvas(screen)

	if e.Button == desktop.MouseButtonTertiary || e.Button == desktop.MouseButtonSecondary {
		w.model.StartPan(screen)
		return
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}

	switch w.model.Tool() {
	case canvas.ToolPan:
		w.model.StartPan(screen)
	case canvas.ToolRectangle:
		w.model.StartDraw(shape.Rectangle, pt)
	case canvas.ToolEllipse:
		w.model.StartDraw(shape.Ellipse, pt)
	case canvas.ToolFrame:
		w.model.StartDraw(shape.Frame, pt)
	case canvas.ToolSelect:
		w.dispatchSelect(screen, pt, e.Modifier&fyne.KeyModifierShift != 0)
	}
	w.Refresh()
}

// dispatchSelect handles pointer-down with the select tool: corner handles
// win over shapes, shapes win over the rubber band.
func (w *CanvasWidget) dispatchSelect(screen, pt geom.Point, additive bool) {
	if handle, ok := w.handleAt(screen); ok {
		w.model.StartResize(handle, pt)
		return
	}
	if id := w.model.ShapeAtPoint(pt); !id.IsNil() {
		if !w.model.IsSelected(id) {
			w.model.Select(id, additive)
		}
		w.model.StartMove(pt)
		return
	}
	if !additive {
		w.model.ClearSelection()
	}
	w.model.StartSelect(pt)
}

// handleAt hit-tests the four selection corner handles in screen space.
func (w *CanvasWidget) handleAt(screen geom.Point) (canvas.ResizeHandle, bool) {
	min, max, ok := w.model.SelectionBounds()
	if !ok {
		return 0, false
	}
	vp := w.model.Viewport()
	corners := handleCorners(vp.CanvasToScreen(min), vp.CanvasToScreen(max))
	for _, h := range canvas.Handles {
		c := corners[h]
		if absf(screen.X-c.X) <= handleHitSize && absf(screen.Y-c.Y) <= handleHitSize {
			return h, true
		}
	}
	return 0, false
}

func handleCorners(min, max geom.Point) [4]geom.Point {
	var corners [4]geom.Point
	corners[canvas.HandleTopLeft] = min
	corners[canvas.HandleTopRight] = geom.Pt(max.X, min.Y)
	corners[canvas.HandleBottomLeft] = geom.Pt(min.X, max.Y)
	corners[canvas.HandleBottomRight] = max
	return corners
}

func (w *CanvasWidget) Dragged(e *fyne.DragEvent) {
	screen := geom.Pt(e.Position.X, e.Position.Y)
	switch w.model.ActiveDrag() {
	case canvas.DragNone:
		return
	case canvas.DragPanning:
		w.model.PointerMoved(screen)
	default:
		w.model.PointerMoved(w.model.Viewport().ScreenToCanvas(screen))
	}
	w.Refresh()
}

func (w *CanvasWidget) DragEnd() {
	w.model.PointerUp()
	w.Refresh()
}

func (w *CanvasWidget) MouseUp(*desktop.MouseEvent) {
	w.model.PointerUp()
	w.Refresh()
}

// Scrolled zooms around the cursor. Each wheel notch scales by 10%.
func (w *CanvasWidget) Scrolled(e *fyne.ScrollEvent) {
	vp := w.model.Viewport()
	screen := geom.Pt(e.Position.X, e.Position.Y)
	factor := float32(1.1)
	if e.Scrolled.DY < 0 {
		factor = 1 / 1.1
	}
	vp.ZoomAt(screen, factor)
	w.Refresh()
}

func (w *CanvasWidget) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyEscape:
		w.model.CancelDrag()
		w.Refresh()
	case fyne.KeyDelete, fyne.KeyBackspace:
		w.model.DeleteSelected()
	}
}

func (w *CanvasWidget) TypedRune(rune) {}
func (w *CanvasWidget) FocusGained()   {}
func (w *CanvasWidget) FocusLost()     {}

func (w *CanvasWidget) requestFocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(w); c != nil {
		c.Focus(w)
	}
}

func (w *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &canvasRenderer{widget: w}
	r.background = fynecanvas.NewRectangle(canvasBackdrop)
	return r
}

// canvasRenderer rebuilds its object list on every pass from the model's
// shape sequence, like an immediate-mode renderer. Shape order is z-order.
type canvasRenderer struct {
	widget     *CanvasWidget
	background *fynecanvas.Rectangle
}

var _ fyne.WidgetRenderer = (*canvasRenderer)(nil)

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	m := r.widget.model
	vp := m.Viewport()
	objects := []fyne.CanvasObject{r.background}

	shapes := m.Shapes()
	for i := range shapes {
		objects = append(objects, r.renderShape(&shapes[i], m, vp))
	}
	objects = append(objects, r.selectionObjects(m, vp)...)
	if min, max, ok := m.RubberBand(); ok {
		objects = append(objects, r.rubberBand(vp, min, max))
	}
	return objects
}

func (r *canvasRenderer) renderShape(s *shape.Shape, m *canvas.Canvas, vp *canvas.Viewport) fyne.CanvasObject {
	world := s.WorldPosition(m.GetShape)
	topLeft := vp.CanvasToScreen(world)
	size := fyne.NewSize(s.Size.W*vp.Zoom, s.Size.H*vp.Zoom)

	fill := color.Color(color.Transparent)
	if s.Fill != nil {
		cr, cg, cb, ca := s.Fill.Color.RGBA8()
		fill = color.NRGBA{R: cr, G: cg, B: cb, A: ca}
	}

	var strokeColor color.Color = color.Transparent
	var strokeWidth float32
	if s.Stroke != nil {
		cr, cg, cb, ca := s.Stroke.Color.RGBA8()
		strokeColor = color.NRGBA{R: cr, G: cg, B: cb, A: ca}
		strokeWidth = s.Stroke.Width * vp.Zoom
	}

	if s.Kind == shape.Ellipse {
		circle := fynecanvas.NewCircle(fill)
		circle.StrokeColor = strokeColor
		circle.StrokeWidth = strokeWidth
		circle.Position1 = fyne.NewPos(topLeft.X, topLeft.Y)
		circle.Position2 = fyne.NewPos(topLeft.X+size.Width, topLeft.Y+size.Height)
		return circle
	}

	rect := fynecanvas.NewRectangle(fill)
	rect.StrokeColor = strokeColor
	rect.StrokeWidth = strokeWidth
	rect.CornerRadius = s.CornerRadius * vp.Zoom
	if s.Kind == shape.Frame && s.Stroke == nil {
		rect.StrokeColor = frameOutline
		rect.StrokeWidth = 1
	}
	rect.Move(fyne.NewPos(topLeft.X, topLeft.Y))
	rect.Resize(size)
	return rect
}

// selectionObjects draws a box around the selection bounds plus the four
// corner handles.
func (r *canvasRenderer) selectionObjects(m *canvas.Canvas, vp *canvas.Viewport) []fyne.CanvasObject {
	min, max, ok := m.SelectionBounds()
	if !ok {
		return nil
	}
	sMin := vp.CanvasToScreen(min)
	sMax := vp.CanvasToScreen(max)

	outline := fynecanvas.NewRectangle(color.Transparent)
	outline.StrokeColor = selectionColor
	outline.StrokeWidth = 1
	outline.Move(fyne.NewPos(sMin.X, sMin.Y))
	outline.Resize(fyne.NewSize(sMax.X-sMin.X, sMax.Y-sMin.Y))

	objects := []fyne.CanvasObject{outline}
	for _, c := range handleCorners(sMin, sMax) {
		handle := fynecanvas.NewRectangle(handleFillColor)
		handle.StrokeColor = selectionColor
		handle.StrokeWidth = 1
		handle.Move(fyne.NewPos(c.X-handleDrawSize/2, c.Y-handleDrawSize/2))
		handle.Resize(fyne.NewSize(handleDrawSize, handleDrawSize))
		objects = append(objects, handle)
	}
	return objects
}

func (r *canvasRenderer) rubberBand(vp *canvas.Viewport, min, max geom.Point) fyne.CanvasObject {
	sMin := vp.CanvasToScreen(min)
	sMax := vp.CanvasToScreen(max)
	band := fynecanvas.NewRectangle(rubberBandFill)
	band.StrokeColor = selectionColor
	band.StrokeWidth = 1
	band.Move(fyne.NewPos(sMin.X, sMin.Y))
	band.Resize(fyne.NewSize(sMax.X-sMin.X, sMax.Y-sMin.Y))
	return band
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *canvasRenderer) Refresh() {
	fynecanvas.Refresh(r.widget)
}

func (r *canvasRenderer) Destroy() {}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
