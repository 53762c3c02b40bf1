package canvas

import (
	"testing"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

func addRect(t *testing.T, c *Canvas, x, y, w, h float32) shape.ID {
	t.Helper()
	s := shape.New(shape.Rectangle, geom.Pt(x, y), geom.Sz(w, h))
	c.AddShape(s)
	return s.ID
}

func addFrame(t *testing.T, c *Canvas, x, y, w, h float32) shape.ID {
	t.Helper()
	s := shape.New(shape.Frame, geom.Pt(x, y), geom.Sz(w, h))
	c.AddShape(s)
	return s.ID
}

func TestShapeAtPointPicksTopmost(t *testing.T) {
	c := New()
	a := addRect(t, c, 0, 0, 100, 100)
	b := addRect(t, c, 50, 50, 100, 100) // added later, on top

	if got := c.ShapeAtPoint(geom.Pt(75, 75)); got != b {
		t.Fatalf("overlap: got %v, want later shape %v", got, b)
	}
	if got := c.ShapeAtPoint(geom.Pt(10, 10)); got != a {
		t.Fatalf("non-overlap: got %v, want %v", got, a)
	}
	if got := c.ShapeAtPoint(geom.Pt(500, 500)); !got.IsNil() {
		t.Fatalf("empty space: got %v, want nil id", got)
	}
}

func TestShapeAtPointRecursesIntoFrames(t *testing.T) {
	c := New()
	frame := addFrame(t, c, 100, 100, 400, 300)
	child := addRect(t, c, 150, 150, 50, 50)
	if !c.AddChild(child, frame) {
		t.Fatal("AddChild failed")
	}

	if got := c.ShapeAtPoint(geom.Pt(160, 160)); got != child {
		t.Fatalf("inside child: got %v, want %v", got, child)
	}
	if got := c.ShapeAtPoint(geom.Pt(400, 300)); got != frame {
		t.Fatalf("inside frame only: got %v, want %v", got, frame)
	}
}

func TestSelectionReplaceAndAdditive(t *testing.T) {
	c := New()
	a := addRect(t, c, 0, 0, 10, 10)
	b := addRect(t, c, 20, 0, 10, 10)

	c.Select(a, false)
	c.Select(b, false)
	if c.IsSelected(a) || !c.IsSelected(b) {
		t.Fatal("replace select should drop previous selection")
	}

	c.Select(a, true)
	if !c.IsSelected(a) || !c.IsSelected(b) {
		t.Fatal("additive select should keep previous selection")
	}

	c.Select(shape.NewID(), false) // unknown id
	if len(c.Selection()) != 2 {
		t.Fatal("selecting an unknown id should be a no-op")
	}
}

func TestSelectionBounds(t *testing.T) {
	c := New()
	a := addRect(t, c, 10, 10, 100, 100)
	b := addRect(t, c, 200, 50, 40, 20)
	c.Select(a, false)
	c.Select(b, true)

	min, max, ok := c.SelectionBounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if min != geom.Pt(10, 10) || max != geom.Pt(240, 110) {
		t.Fatalf("bounds: got %v %v", min, max)
	}

	c.ClearSelection()
	if _, _, ok := c.SelectionBounds(); ok {
		t.Fatal("empty selection should report no bounds")
	}
}

func TestDuplicateSelected(t *testing.T) {
	c := New()
	a := addRect(t, c, 10, 10, 50, 50)
	c.Select(a, false)

	created := c.DuplicateSelected()
	if len(created) != 1 {
		t.Fatalf("created %d shapes, want 1", len(created))
	}
	dup := c.GetShape(created[0])
	if dup == nil {
		t.Fatal("duplicate not in sequence")
	}
	if dup.ID == a {
		t.Fatal("duplicate shares id with original")
	}
	if dup.Position != geom.Pt(30, 30) {
		t.Fatalf("duplicate position: got %v, want {30 30}", dup.Position)
	}
	if c.IsSelected(a) || !c.IsSelected(dup.ID) {
		t.Fatal("selection should move to the duplicates")
	}
}

func TestAddChildRejectsCycles(t *testing.T) {
	c := New()
	outer := addFrame(t, c, 0, 0, 500, 500)
	inner := addFrame(t, c, 10, 10, 200, 200)
	if !c.AddChild(inner, outer) {
		t.Fatal("AddChild(inner, outer) failed")
	}

	if c.AddChild(outer, inner) {
		t.Fatal("reparenting an ancestor under its descendant must fail")
	}
	if c.AddChild(outer, outer) {
		t.Fatal("self-parenting must fail")
	}
	// The rejected calls must not have mutated the tree.
	if got := c.GetShape(outer); !got.Parent.IsNil() {
		t.Fatalf("outer parent changed: %v", got.Parent)
	}
}

func TestAddChildConvertsToRelative(t *testing.T) {
	c := New()
	frame := addFrame(t, c, 100, 100, 400, 300)
	child := addRect(t, c, 150, 170, 50, 50)
	c.AddChild(child, frame)

	s := c.GetShape(child)
	if s.Position != geom.Pt(50, 70) {
		t.Fatalf("relative position: got %v, want {50 70}", s.Position)
	}
	if s.WorldPosition(c.GetShape) != geom.Pt(150, 170) {
		t.Fatal("world position must be unchanged by reparenting")
	}
}

func TestUnparentRestoresAbsolutePosition(t *testing.T) {
	c := New()
	frame := addFrame(t, c, 100, 100, 400, 300)
	child := addRect(t, c, 150, 170, 50, 50)
	c.AddChild(child, frame)

	if !c.Unparent(child) {
		t.Fatal("Unparent failed")
	}
	s := c.GetShape(child)
	if !s.Parent.IsNil() || s.Position != geom.Pt(150, 170) {
		t.Fatalf("after unparent: parent %v position %v", s.Parent, s.Position)
	}
	if len(c.GetShape(frame).Children) != 0 {
		t.Fatal("frame still lists the child")
	}
	if c.Unparent(child) {
		t.Fatal("unparenting a root shape should report false")
	}
}

func TestRemoveFrameReRootsChildren(t *testing.T) {
	c := New()
	frame := addFrame(t, c, 100, 100, 400, 300)
	child := addRect(t, c, 150, 170, 50, 50)
	c.AddChild(child, frame)

	c.RemoveShape(frame)
	s := c.GetShape(child)
	if s == nil {
		t.Fatal("child removed along with frame")
	}
	if !s.Parent.IsNil() || s.Position != geom.Pt(150, 170) {
		t.Fatalf("re-rooted child: parent %v position %v", s.Parent, s.Position)
	}
}

func TestDeleteSelectedPrunesSelection(t *testing.T) {
	c := New()
	a := addRect(t, c, 0, 0, 10, 10)
	b := addRect(t, c, 20, 0, 10, 10)
	c.Select(a, false)
	c.Select(b, true)

	c.DeleteSelected()
	if c.ShapeCount() != 0 {
		t.Fatalf("shape count: got %d, want 0", c.ShapeCount())
	}
	if len(c.Selection()) != 0 {
		t.Fatal("selection not emptied")
	}
}
