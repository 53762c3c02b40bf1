// Package canvas implements the interactive canvas state machine: the shape
// sequence, selection, viewport, active tool and the single in-flight drag
// gesture. The canvas is owned by exactly one goroutine; there is no locking
// here. Every mutation, whether from direct manipulation or from command
// execution, funnels through the methods on Canvas.
package canvas

import (
	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// DuplicateOffset is the fixed displacement applied to duplicated shapes.
var DuplicateOffset = geom.Vec(20, 20)

// Canvas owns all mutable document state. Change notification is done
// through the On* callback fields, set once by the owner before use.
type Canvas struct {
	shapes    []shape.Shape
	selection map[shape.ID]struct{}
	viewport  Viewport
	tool      Tool
	drag      DragState

	// Style applied to newly drawn shapes.
	DefaultStroke *shape.Stroke
	DefaultFill   *shape.Fill

	// ResizeLimits, when set, bounds the selection box during resize
	// gestures. Snapshotted at gesture start.
	ResizeLimits *ResizeConstraints

	OnShapeAdded       func(shape.ID)
	OnShapeRemoved     func(shape.ID)
	OnSelectionChanged func()
	OnContentChanged   func()
}

// New returns an empty canvas with the identity viewport and the select
// tool active.
func New() *Canvas {
	return &Canvas{
		selection: make(map[shape.ID]struct{}),
		viewport:  NewViewport(),
		tool:      ToolSelect,
		DefaultStroke: &shape.Stroke{
			Color: shape.Color{H: 0, S: 0, L: 0.2, A: 1},
			Width: 2,
		},
	}
}

func (c *Canvas) emitAdded(id shape.ID) {
	if c.OnShapeAdded != nil {
		c.OnShapeAdded(id)
	}
}

func (c *Canvas) emitRemoved(id shape.ID) {
	if c.OnShapeRemoved != nil {
		c.OnShapeRemoved(id)
	}
}

func (c *Canvas) emitSelection() {
	if c.OnSelectionChanged != nil {
		c.OnSelectionChanged()
	}
}

func (c *Canvas) emitContent() {
	if c.OnContentChanged != nil {
		c.OnContentChanged()
	}
}

// Shapes returns the shape sequence in z-order (later = on top). The slice
// is the canvas's own storage; callers on the owning goroutine may read it
// but must mutate only through Canvas methods.
func (c *Canvas) Shapes() []shape.Shape {
	return c.shapes
}

// ShapeCount returns the number of shapes.
func (c *Canvas) ShapeCount() int {
	return len(c.shapes)
}

// GetShape returns a pointer into the sequence, or nil for unknown ids.
// The pointer is invalidated by the next AddShape/RemoveShape.
func (c *Canvas) GetShape(id shape.ID) *shape.Shape {
	for i := range c.shapes {
		if c.shapes[i].ID == id {
			return &c.shapes[i]
		}
	}
	return nil
}

// Viewport returns the camera for mutation by the owner.
func (c *Canvas) Viewport() *Viewport {
	return &c.viewport
}

// Tool returns the active tool.
func (c *Canvas) Tool() Tool {
	return c.tool
}

// SetTool switches the active tool. An in-flight gesture keeps running;
// the tool only matters at the next pointer-down.
func (c *Canvas) SetTool(t Tool) {
	c.tool = t
}

// AddShape appends a shape to the sequence (top of the z-order).
func (c *Canvas) AddShape(s shape.Shape) {
	c.shapes = append(c.shapes, s)
	c.emitAdded(s.ID)
	c.emitContent()
}

// RemoveShape deletes a shape, drops it from the selection and detaches it
// from its parent. Children of a removed frame fall back to root placement
// at their world position. Unknown ids are a no-op.
func (c *Canvas) RemoveShape(id shape.ID) {
	idx := -1
	for i := range c.shapes {
		if c.shapes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	removed := c.shapes[idx]

	// Re-root children before the parent disappears.
	for _, childID := range removed.Children {
		if child := c.GetShape(childID); child != nil {
			child.Position = child.WorldPosition(c.GetShape)
			child.Parent = shape.ID{}
		}
	}
	if !removed.Parent.IsNil() {
		if parent := c.GetShape(removed.Parent); parent != nil {
			parent.Children = removeID(parent.Children, id)
		}
	}

	c.shapes = append(c.shapes[:idx], c.shapes[idx+1:]...)
	if _, ok := c.selection[id]; ok {
		delete(c.selection, id)
		c.emitSelection()
	}
	c.emitRemoved(id)
	c.emitContent()
}

func removeID(ids []shape.ID, id shape.ID) []shape.ID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// Select adds a shape to the selection, replacing it unless additive is
// set. Unknown ids are a no-op.
func (c *Canvas) Select(id shape.ID, additive bool) {
	if c.GetShape(id) == nil {
		return
	}
	if !additive {
		for k := range c.selection {
			delete(c.selection, k)
		}
	}
	c.selection[id] = struct{}{}
	c.emitSelection()
}

// SetSelection replaces (or, when additive, extends) the selection with the
// given ids in one step, notifying observers once. Ids that resolve to no
// shape are skipped.
func (c *Canvas) SetSelection(ids []shape.ID, additive bool) {
	if !additive {
		for k := range c.selection {
			delete(c.selection, k)
		}
	}
	for _, id := range ids {
		if c.GetShape(id) != nil {
			c.selection[id] = struct{}{}
		}
	}
	c.emitSelection()
}

// Deselect removes one shape from the selection.
func (c *Canvas) Deselect(id shape.ID) {
	if _, ok := c.selection[id]; ok {
		delete(c.selection, id)
		c.emitSelection()
	}
}

// ClearSelection empties the selection set.
func (c *Canvas) ClearSelection() {
	if len(c.selection) == 0 {
		return
	}
	for k := range c.selection {
		delete(c.selection, k)
	}
	c.emitSelection()
}

// SelectAll selects every shape.
func (c *Canvas) SelectAll() {
	for i := range c.shapes {
		c.selection[c.shapes[i].ID] = struct{}{}
	}
	c.emitSelection()
}

// IsSelected reports selection membership.
func (c *Canvas) IsSelected(id shape.ID) bool {
	_, ok := c.selection[id]
	return ok
}

// Selection returns the selected ids in z-order.
func (c *Canvas) Selection() []shape.ID {
	ids := make([]shape.ID, 0, len(c.selection))
	for i := range c.shapes {
		if _, ok := c.selection[c.shapes[i].ID]; ok {
			ids = append(ids, c.shapes[i].ID)
		}
	}
	return ids
}

// SelectionBounds returns the world-space bounding box of the selection,
// or ok=false when nothing is selected.
func (c *Canvas) SelectionBounds() (min, max geom.Point, ok bool) {
	first := true
	for i := range c.shapes {
		s := &c.shapes[i]
		if _, sel := c.selection[s.ID]; !sel {
			continue
		}
		w := s.WorldPosition(c.GetShape)
		sMin := w
		sMax := geom.Pt(w.X+s.Size.W, w.Y+s.Size.H)
		if first {
			min, max, first = sMin, sMax, false
			continue
		}
		min = min.Min(sMin)
		max = max.Max(sMax)
	}
	return min, max, !first
}

// ShapeAtPoint returns the topmost shape containing the canvas-space point,
// or the nil id. Frames recurse into their children first, so the deepest
// nested hit wins; siblings are tested in reverse sequence order so
// later-drawn shapes win ties.
func (c *Canvas) ShapeAtPoint(p geom.Point) shape.ID {
	return c.shapeAtPointIn(p, shape.ID{})
}

func (c *Canvas) shapeAtPointIn(p geom.Point, parent shape.ID) shape.ID {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := &c.shapes[i]
		if s.Parent != parent {
			continue
		}
		w := s.WorldPosition(c.GetShape)
		if p.X < w.X || p.X > w.X+s.Size.W || p.Y < w.Y || p.Y > w.Y+s.Size.H {
			continue
		}
		if len(s.Children) > 0 {
			if hit := c.shapeAtPointIn(p, s.ID); !hit.IsNil() {
				return hit
			}
		}
		return s.ID
	}
	return shape.ID{}
}

// DeleteSelected removes every selected shape.
func (c *Canvas) DeleteSelected() {
	for _, id := range c.Selection() {
		c.RemoveShape(id)
	}
}

// DuplicateSelected clones the selection with the default offset.
func (c *Canvas) DuplicateSelected() []shape.ID {
	return c.DuplicateShapes(c.Selection(), DuplicateOffset)
}

// DuplicateShapes clones each given shape with a fresh id, offset by the
// given displacement, and replaces the selection with the clones. Parent
// links are not carried over; duplicates land at the root.
func (c *Canvas) DuplicateShapes(ids []shape.ID, offset geom.Vector) []shape.ID {
	created := make([]shape.ID, 0, len(ids))
	for _, id := range ids {
		src := c.GetShape(id)
		if src == nil {
			continue
		}
		dup := src.Clone()
		dup.ID = shape.NewID()
		dup.Position = src.WorldPosition(c.GetShape).Add(offset)
		dup.Parent = shape.ID{}
		dup.Children = nil
		created = append(created, dup.ID)
		c.AddShape(dup)
	}
	if len(created) == 0 {
		return created
	}
	for k := range c.selection {
		delete(c.selection, k)
	}
	for _, id := range created {
		c.selection[id] = struct{}{}
	}
	c.emitSelection()
	return created
}

// NotifyContentChanged fires the content-changed callback. Callers that
// mutate shapes through GetShape pointers use it to keep observers current.
func (c *Canvas) NotifyContentChanged() {
	c.emitContent()
}

// MoveSelected translates every selected shape by delta (canvas units).
func (c *Canvas) MoveSelected(delta geom.Vector) {
	for i := range c.shapes {
		if _, ok := c.selection[c.shapes[i].ID]; ok {
			c.shapes[i].Translate(delta)
		}
	}
	c.emitContent()
}

// AddChild parents child under parent (a frame), converting the child's
// position to parent-relative coordinates. Reparenting a shape under its
// own descendant is rejected: that is the single construction point where
// a containment cycle could form.
func (c *Canvas) AddChild(childID, parentID shape.ID) bool {
	if childID == parentID {
		return false
	}
	parent := c.GetShape(parentID)
	child := c.GetShape(childID)
	if parent == nil || child == nil {
		return false
	}
	if c.isDescendantOf(parentID, childID) {
		return false
	}

	childWorld := child.WorldPosition(c.GetShape)

	// Detach from any current parent first.
	if !child.Parent.IsNil() {
		if old := c.GetShape(child.Parent); old != nil {
			old.Children = removeID(old.Children, childID)
		}
	}

	parentWorld := parent.WorldPosition(c.GetShape)
	child.Position = geom.Pt(childWorld.X-parentWorld.X, childWorld.Y-parentWorld.Y)
	child.Parent = parentID
	if !containsID(parent.Children, childID) {
		parent.Children = append(parent.Children, childID)
	}
	c.emitContent()
	return true
}

// isDescendantOf reports whether id sits somewhere below ancestor in the
// containment tree.
func (c *Canvas) isDescendantOf(id, ancestor shape.ID) bool {
	for !id.IsNil() {
		s := c.GetShape(id)
		if s == nil {
			return false
		}
		if s.Parent == ancestor {
			return true
		}
		id = s.Parent
	}
	return false
}

func containsID(ids []shape.ID, id shape.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Unparent detaches a shape from its frame, converting its position back
// to absolute canvas coordinates. Root shapes are a no-op.
func (c *Canvas) Unparent(childID shape.ID) bool {
	child := c.GetShape(childID)
	if child == nil || child.Parent.IsNil() {
		return false
	}
	world := child.WorldPosition(c.GetShape)
	if parent := c.GetShape(child.Parent); parent != nil {
		parent.Children = removeID(parent.Children, childID)
	}
	child.Position = world
	child.Parent = shape.ID{}
	c.emitContent()
	return true
}

// findContainingFrame returns the topmost frame whose bounds fully contain
// the shape, or the nil id.
func (c *Canvas) findContainingFrame(id shape.ID) shape.ID {
	s := c.GetShape(id)
	if s == nil {
		return shape.ID{}
	}
	sw := s.WorldPosition(c.GetShape)
	sMax := geom.Pt(sw.X+s.Size.W, sw.Y+s.Size.H)

	for i := len(c.shapes) - 1; i >= 0; i-- {
		f := &c.shapes[i]
		if f.Kind != shape.Frame || f.ID == id {
			continue
		}
		fw := f.WorldPosition(c.GetShape)
		if sw.X >= fw.X && sw.Y >= fw.Y &&
			sMax.X <= fw.X+f.Size.W && sMax.Y <= fw.Y+f.Size.H {
			return f.ID
		}
	}
	return shape.ID{}
}
