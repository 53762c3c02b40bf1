package canvas

import (
	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// Gesture lifecycle. A pointer-down picks exactly one variant to enter
// based on (active tool, what is under the cursor); that dispatch happens
// in the interaction driver. From then on moves and the final up are routed
// purely by the active variant via PointerMoved/PointerUp below. Pointer-up
// with no active gesture is a no-op.

// StartMove begins dragging the current selection. startMouse is in canvas
// space. Returns false when nothing is selected.
func (c *Canvas) StartMove(startMouse geom.Point) bool {
	ids := c.Selection()
	if len(ids) == 0 {
		return false
	}
	snap := make([]shapePosition, 0, len(ids))
	for _, id := range ids {
		if s := c.GetShape(id); s != nil {
			snap = append(snap, shapePosition{id: id, pos: s.Position})
		}
	}
	c.drag = &movingShapes{startMouse: startMouse, snapshot: snap}
	return true
}

func (c *Canvas) updateMove(d *movingShapes, current geom.Point) {
	delta := current.Sub(d.startMouse)
	for _, sp := range d.snapshot {
		if s := c.GetShape(sp.id); s != nil {
			s.Position = sp.pos.Add(delta)
		}
	}
	c.emitContent()
}

// StartResize begins resizing the current selection from a corner handle.
// Returns false when nothing is selected.
func (c *Canvas) StartResize(handle ResizeHandle, startMouse geom.Point) bool {
	min, max, ok := c.SelectionBounds()
	if !ok {
		return false
	}
	ids := c.Selection()
	snap := make([]shapeGeometry, 0, len(ids))
	for _, id := range ids {
		if s := c.GetShape(id); s != nil {
			snap = append(snap, shapeGeometry{id: id, pos: s.Position, size: s.Size})
		}
	}
	c.drag = &resizingShapes{
		handle:     handle,
		startMouse: startMouse,
		startMin:   min,
		startMax:   max,
		limits:     c.ResizeLimits,
		snapshot:   snap,
	}
	return true
}

// updateResize recomputes every snapshotted shape from the original
// selection bounds: the dragged handle moves its two adjacent edges by the
// pointer delta, the box is normalized (dragging past the opposite edge
// flips the axis and mirrors shape positions), a minimum size is enforced,
// and each shape's relative position and size scale with the box.
func (c *Canvas) updateResize(d *resizingShapes, current geom.Point) {
	delta := current.Sub(d.startMouse)

	rawMin, rawMax := d.startMin, d.startMax
	switch d.handle {
	case HandleTopLeft:
		rawMin = rawMin.Add(delta)
	case HandleTopRight:
		rawMin.Y += delta.DY
		rawMax.X += delta.DX
	case HandleBottomLeft:
		rawMin.X += delta.DX
		rawMax.Y += delta.DY
	case HandleBottomRight:
		rawMax = rawMax.Add(delta)
	}

	newMin := rawMin.Min(rawMax)
	newMax := rawMin.Max(rawMax)
	flipX := rawMin.X > rawMax.X
	flipY := rawMin.Y > rawMax.Y

	newW := maxf(newMax.X-newMin.X, shape.MinDimension)
	newH := maxf(newMax.Y-newMin.Y, shape.MinDimension)
	if d.limits != nil {
		newW = d.limits.clampW(newW)
		newH = d.limits.clampH(newH)
	}
	// Clamping can change the box size without moving the pointer; keep the
	// edge opposite the dragged handle anchored on each axis.
	newMin.X = d.anchoredMinX(flipX, newW)
	newMin.Y = d.anchoredMinY(flipY, newH)

	startW := d.startMax.X - d.startMin.X
	startH := d.startMax.Y - d.startMin.Y
	// Zero-size axes scale by 1 instead of dividing by zero.
	scaleX, scaleY := float32(1), float32(1)
	if startW > 0 {
		scaleX = newW / startW
	}
	if startH > 0 {
		scaleY = newH / startH
	}

	for _, sg := range d.snapshot {
		s := c.GetShape(sg.id)
		if s == nil {
			continue
		}
		relX := sg.pos.X - d.startMin.X
		relY := sg.pos.Y - d.startMin.Y
		if flipX {
			relX = startW - relX - sg.size.W
		}
		if flipY {
			relY = startH - relY - sg.size.H
		}
		s.Position = geom.Pt(newMin.X+relX*scaleX, newMin.Y+relY*scaleY)
		s.Size = sg.size.Scale(scaleX, scaleY)
	}
	c.emitContent()
}

// anchoredMinX places the box's left edge for the final width: the edge
// opposite the dragged handle stays where it started, and a flip swaps
// which edge that is.
func (d *resizingShapes) anchoredMinX(flipX bool, w float32) float32 {
	leftHandle := d.handle == HandleTopLeft || d.handle == HandleBottomLeft
	switch {
	case leftHandle && !flipX:
		return d.startMax.X - w
	case leftHandle:
		return d.startMax.X
	case flipX:
		return d.startMin.X - w
	default:
		return d.startMin.X
	}
}

func (d *resizingShapes) anchoredMinY(flipY bool, h float32) float32 {
	topHandle := d.handle == HandleTopLeft || d.handle == HandleTopRight
	switch {
	case topHandle && !flipY:
		return d.startMax.Y - h
	case topHandle:
		return d.startMax.Y
	case flipY:
		return d.startMin.Y - h
	default:
		return d.startMin.Y
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// StartDraw inserts a zero-sized shape of the given kind at start and
// begins the drawing gesture. The new shape carries the canvas defaults.
func (c *Canvas) StartDraw(kind shape.Kind, start geom.Point) shape.ID {
	s := shape.New(kind, start, geom.Size{})
	if c.DefaultStroke != nil {
		st := *c.DefaultStroke
		s.Stroke = &st
	}
	if c.DefaultFill != nil {
		f := *c.DefaultFill
		s.Fill = &f
	}
	c.shapes = append(c.shapes, s)
	c.drag = &drawingShape{shapeID: s.ID, start: start}
	return s.ID
}

func (c *Canvas) updateDraw(d *drawingShape, current geom.Point) {
	s := c.GetShape(d.shapeID)
	if s == nil {
		return
	}
	min := d.start.Min(current)
	max := d.start.Max(current)
	s.Position = min
	s.Size = geom.Sz(max.X-min.X, max.Y-min.Y)
	c.emitContent()
}

func (c *Canvas) finishDraw(d *drawingShape) {
	s := c.GetShape(d.shapeID)
	if s == nil {
		return
	}
	if s.Size.W < shape.MinDimension {
		s.Size.W = shape.MinDimension
	}
	if s.Size.H < shape.MinDimension {
		s.Size.H = shape.MinDimension
	}
	// Nest into a frame when fully contained by one.
	if frameID := c.findContainingFrame(d.shapeID); !frameID.IsNil() {
		c.AddChild(d.shapeID, frameID)
	}
	for k := range c.selection {
		delete(c.selection, k)
	}
	c.selection[d.shapeID] = struct{}{}
	c.tool = ToolSelect
	c.emitAdded(d.shapeID)
	c.emitSelection()
	c.emitContent()
}

// StartPan begins a pan gesture from a screen-space position.
func (c *Canvas) StartPan(screen geom.Point) {
	c.drag = &panning{lastScreen: screen}
}

func (c *Canvas) updatePan(d *panning, screen geom.Point) {
	c.viewport.Pan(screen.Sub(d.lastScreen))
	d.lastScreen = screen
	c.emitContent()
}

// StartSelect begins a rubber-band selection from a canvas-space point.
func (c *Canvas) StartSelect(start geom.Point) {
	c.drag = &selecting{start: start, current: start}
}

func (c *Canvas) finishSelect(d *selecting) {
	min := d.start.Min(d.current)
	max := d.start.Max(d.current)
	for k := range c.selection {
		delete(c.selection, k)
	}
	for i := range c.shapes {
		s := &c.shapes[i]
		w := s.WorldPosition(c.GetShape)
		if w.X <= max.X && w.X+s.Size.W >= min.X &&
			w.Y <= max.Y && w.Y+s.Size.H >= min.Y {
			c.selection[s.ID] = struct{}{}
		}
	}
	c.emitSelection()
}

// PointerMoved advances the active gesture. position is screen-space for a
// pan and canvas-space for everything else; the interaction driver converts
// before calling. No gesture means no-op.
func (c *Canvas) PointerMoved(position geom.Point) {
	switch d := c.drag.(type) {
	case *movingShapes:
		c.updateMove(d, position)
	case *resizingShapes:
		c.updateResize(d, position)
	case *drawingShape:
		c.updateDraw(d, position)
	case *panning:
		c.updatePan(d, position)
	case *selecting:
		d.current = position
		c.emitContent()
	}
}

// PointerUp commits the active gesture and clears it. Idempotent.
func (c *Canvas) PointerUp() {
	switch d := c.drag.(type) {
	case *movingShapes, *resizingShapes:
		c.emitContent()
	case *drawingShape:
		c.finishDraw(d)
	case *selecting:
		c.finishSelect(d)
	}
	c.drag = nil
}

// CancelDrag aborts the active gesture: move and resize restore their
// snapshots, an in-progress drawing is deleted, pan and rubber band are
// simply dropped.
func (c *Canvas) CancelDrag() {
	switch d := c.drag.(type) {
	case *movingShapes:
		for _, sp := range d.snapshot {
			if s := c.GetShape(sp.id); s != nil {
				s.Position = sp.pos
			}
		}
		c.emitContent()
	case *resizingShapes:
		for _, sg := range d.snapshot {
			if s := c.GetShape(sg.id); s != nil {
				s.Position = sg.pos
				s.Size = sg.size
			}
		}
		c.emitContent()
	case *drawingShape:
		c.drag = nil
		c.discardDrawn(d.shapeID)
		return
	}
	c.drag = nil
}

// discardDrawn drops an uncommitted drawing from the sequence without the
// removal event: the add is only announced when the gesture commits, so
// observers never saw this shape.
func (c *Canvas) discardDrawn(id shape.ID) {
	for i := range c.shapes {
		if c.shapes[i].ID == id {
			c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
			break
		}
	}
	c.emitContent()
}
