package canvas

import (
	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// ResizeHandle identifies which corner of the selection bounds is being
// dragged.
type ResizeHandle int

const (
	HandleTopLeft ResizeHandle = iota
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// Handles lists all corner handles in drawing order.
var Handles = [4]ResizeHandle{HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight}

// DragState describes the one gesture in flight. At most one exists at a
// time and the canvas owns it exclusively: created on pointer-down, mutated
// on pointer-move, cleared on pointer-up or cancel.
type DragState interface {
	dragState()
}

// movingShapes: pointer went down on an already-selected shape with the
// select tool. Holds the gesture origin and a snapshot of every selected
// shape's original position so cancel can restore them.
type movingShapes struct {
	startMouse geom.Point // canvas space
	snapshot   []shapePosition
}

type shapePosition struct {
	id  shape.ID
	pos geom.Point
}

// ResizeConstraints bounds the selection box during a resize gesture. A
// zero field leaves that side unconstrained; the engine's minimum shape
// dimension still applies underneath.
type ResizeConstraints struct {
	MinW, MinH float32
	MaxW, MaxH float32
}

func (rc *ResizeConstraints) clampW(w float32) float32 {
	if rc.MinW > 0 && w < rc.MinW {
		w = rc.MinW
	}
	if rc.MaxW > 0 && w > rc.MaxW {
		w = rc.MaxW
	}
	return w
}

func (rc *ResizeConstraints) clampH(h float32) float32 {
	if rc.MinH > 0 && h < rc.MinH {
		h = rc.MinH
	}
	if rc.MaxH > 0 && h > rc.MaxH {
		h = rc.MaxH
	}
	return h
}

// resizingShapes: pointer went down on a corner handle. Holds the original
// selection bounding box, each shape's original geometry and the size
// constraints in force when the gesture started.
type resizingShapes struct {
	handle     ResizeHandle
	startMouse geom.Point
	startMin   geom.Point
	startMax   geom.Point
	limits     *ResizeConstraints
	snapshot   []shapeGeometry
}

type shapeGeometry struct {
	id   shape.ID
	pos  geom.Point
	size geom.Size
}

// drawingShape: pointer went down with a draw tool active. The shape is
// already in the sequence; cancel removes it again.
type drawingShape struct {
	shapeID shape.ID
	start   geom.Point
}

// panning tracks the last screen-space pointer position so each move
// applies an incremental delta.
type panning struct {
	lastScreen geom.Point
}

// selecting is the rubber-band gesture started on empty canvas.
type selecting struct {
	start   geom.Point
	current geom.Point
}

func (*movingShapes) dragState()   {}
func (*resizingShapes) dragState() {}
func (*drawingShape) dragState()   {}
func (*panning) dragState()        {}
func (*selecting) dragState()      {}

// DragKind names the active gesture for inspection by the UI layer.
type DragKind int

const (
	DragNone DragKind = iota
	DragMoving
	DragResizing
	DragDrawing
	DragPanning
	DragSelecting
)

// ActiveDrag reports which gesture, if any, is in flight.
func (c *Canvas) ActiveDrag() DragKind {
	switch c.drag.(type) {
	case *movingShapes:
		return DragMoving
	case *resizingShapes:
		return DragResizing
	case *drawingShape:
		return DragDrawing
	case *panning:
		return DragPanning
	case *selecting:
		return DragSelecting
	default:
		return DragNone
	}
}

// RubberBand returns the current selection rectangle while a rubber-band
// gesture is active, for the renderer.
func (c *Canvas) RubberBand() (min, max geom.Point, ok bool) {
	sel, isSel := c.drag.(*selecting)
	if !isSel {
		return geom.Point{}, geom.Point{}, false
	}
	return sel.start.Min(sel.current), sel.start.Max(sel.current), true
}
