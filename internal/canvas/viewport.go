package canvas

import "DraftBoard/internal/geom"

// Zoom bounds. Values outside this range make direct manipulation useless.
const (
	MinZoom float32 = 0.1
	MaxZoom float32 = 10.0
)

// Viewport is the pan/zoom camera mapping between canvas space (where
// shapes live) and screen space (where the pointer operates).
type Viewport struct {
	// Offset is the pan, in canvas units.
	Offset geom.Vector
	// Zoom is the scale factor, always within [MinZoom, MaxZoom].
	Zoom float32
}

// NewViewport returns the identity camera.
func NewViewport() Viewport {
	return Viewport{Zoom: 1.0}
}

// ScreenToCanvas converts a screen-space point to canvas space.
func (v *Viewport) ScreenToCanvas(p geom.Point) geom.Point {
	return geom.Pt(p.X/v.Zoom-v.Offset.DX, p.Y/v.Zoom-v.Offset.DY)
}

// CanvasToScreen converts a canvas-space point to screen space.
func (v *Viewport) CanvasToScreen(p geom.Point) geom.Point {
	return geom.Pt((p.X+v.Offset.DX)*v.Zoom, (p.Y+v.Offset.DY)*v.Zoom)
}

// Pan shifts the camera. delta is in screen pixels so pan speed feels the
// same at every zoom level.
func (v *Viewport) Pan(delta geom.Vector) {
	v.Offset = v.Offset.Add(delta.Scale(1 / v.Zoom))
}

// ZoomAt multiplies the zoom by factor, clamped to the valid range, and
// recomputes the offset so screenPoint maps to the same canvas point before
// and after. When the clamp makes the zoom a no-op the offset is untouched.
func (v *Viewport) ZoomAt(screenPoint geom.Point, factor float32) {
	oldZoom := v.Zoom
	newZoom := clampZoom(oldZoom * factor)
	if newZoom == oldZoom {
		return
	}
	v.Zoom = newZoom
	v.Offset.DX = screenPoint.X/newZoom - (screenPoint.X/oldZoom - v.Offset.DX)
	v.Offset.DY = screenPoint.Y/newZoom - (screenPoint.Y/oldZoom - v.Offset.DY)
}

// Reset restores the identity camera.
func (v *Viewport) Reset() {
	v.Offset = geom.Vector{}
	v.Zoom = 1.0
}

func clampZoom(z float32) float32 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
