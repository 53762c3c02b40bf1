package api

import (
	"testing"

	"DraftBoard/internal/canvas"
	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

func kindPtr(k shape.Kind) *shape.Kind   { return &k }
func ptPtr(x, y float32) *geom.Point     { p := geom.Pt(x, y); return &p }
func szPtr(w, h float32) *geom.Size      { s := geom.Sz(w, h); return &s }
func vecPtr(dx, dy float32) *geom.Vector { v := geom.Vec(dx, dy); return &v }
func f32Ptr(v float32) *float32          { return &v }

func mustCreate(t *testing.T, c *canvas.Canvas, kind shape.Kind, x, y, w, h float32) shape.ID {
	t.Helper()
	res := ExecuteCommand(c, Command{
		Type:     "create_shape",
		Kind:     kindPtr(kind),
		Position: ptPtr(x, y),
		Size:     szPtr(w, h),
	})
	if res.Status != "success" || len(res.Created) != 1 {
		t.Fatalf("create_shape: %+v", res)
	}
	return res.Created[0]
}

func TestCreateShapeDefaults(t *testing.T) {
	c := canvas.New()
	res := ExecuteCommand(c, Command{Type: "create_shape", Kind: kindPtr(shape.Rectangle)})
	if res.Status != "success" {
		t.Fatalf("result: %+v", res)
	}
	s := c.GetShape(res.Created[0])
	if s.Position != (geom.Point{}) {
		t.Fatalf("default position: %v", s.Position)
	}
	if s.Size != geom.Sz(shape.MinDimension, shape.MinDimension) {
		t.Fatalf("default size: %v", s.Size)
	}

	res = ExecuteCommand(c, Command{Type: "create_shape"})
	if res.Status != "error" {
		t.Fatal("create_shape without kind must fail")
	}
}

func TestTargetForms(t *testing.T) {
	c := canvas.New()
	a := mustCreate(t, c, shape.Rectangle, 0, 0, 10, 10)
	b := mustCreate(t, c, shape.Ellipse, 100, 0, 10, 10)
	c.Select(a, false)

	// Default target is the selection.
	res := ExecuteCommand(c, Command{Type: "move", Delta: vecPtr(5, 0)})
	if len(res.Modified) != 1 || res.Modified[0] != a {
		t.Fatalf("selection target: modified %v", res.Modified)
	}

	// Explicit shape target.
	res = ExecuteCommand(c, Command{Type: "move", Delta: vecPtr(0, 5), Target: TargetShape(b)})
	if len(res.Modified) != 1 || res.Modified[0] != b {
		t.Fatalf("shape target: modified %v", res.Modified)
	}

	// All target.
	res = ExecuteCommand(c, Command{Type: "move", Delta: vecPtr(1, 1), Target: TargetAll()})
	if len(res.Modified) != 2 {
		t.Fatalf("all target: modified %v", res.Modified)
	}

	// Query target by kind.
	res = ExecuteCommand(c, Command{
		Type:   "move",
		Delta:  vecPtr(1, 0),
		Target: &Target{Query: &ShapeQuery{ByKind: "ellipse"}},
	})
	if len(res.Modified) != 1 || res.Modified[0] != b {
		t.Fatalf("by_kind target: modified %v", res.Modified)
	}

	// Unknown ids resolve to nothing and succeed trivially.
	res = ExecuteCommand(c, Command{Type: "move", Delta: vecPtr(1, 0), Target: TargetShape(shape.NewID())})
	if res.Status != "success" || len(res.Modified) != 0 {
		t.Fatalf("unknown id target: %+v", res)
	}
}

func TestSetCornerRadiusClamps(t *testing.T) {
	c := canvas.New()
	id := mustCreate(t, c, shape.Rectangle, 0, 0, 40, 20)

	res := ExecuteCommand(c, Command{
		Type:   "set_corner_radius",
		Radius: f32Ptr(1000),
		Target: TargetShape(id),
	})
	if res.Status != "success" {
		t.Fatalf("result: %+v", res)
	}
	if got := c.GetShape(id).CornerRadius; got != 10 {
		t.Fatalf("radius: got %v, want half the short side (10)", got)
	}
}

func TestScaleClampsToMinimum(t *testing.T) {
	c := canvas.New()
	id := mustCreate(t, c, shape.Rectangle, 0, 0, 10, 10)

	ExecuteCommand(c, Command{
		Type:   "scale",
		Factor: &ScaleFactor{X: 0, Y: 0, Uniform: true},
		Target: TargetShape(id),
	})
	if got := c.GetShape(id).Size; got != geom.Sz(shape.MinDimension, shape.MinDimension) {
		t.Fatalf("size after zero scale: %v", got)
	}
}

func TestBatchSeesPriorEffects(t *testing.T) {
	c := canvas.New()
	res := ExecuteCommand(c, Command{
		Type: "batch",
		Commands: []Command{
			{Type: "create_shape", Kind: kindPtr(shape.Rectangle), Position: ptPtr(0, 0), Size: szPtr(50, 50)},
			{Type: "select_all"},
			{Type: "move", Delta: vecPtr(10, 10)},
		},
	})
	if res.Status != "success" {
		t.Fatalf("batch: %+v", res)
	}
	if len(res.Created) != 1 || len(res.Modified) != 1 {
		t.Fatalf("batch accumulation: %+v", res)
	}
	// The move must have applied to the shape created earlier in the batch.
	if got := c.GetShape(res.Created[0]).Position; got != geom.Pt(10, 10) {
		t.Fatalf("position after batch: %v", got)
	}
}

func TestBatchShortCircuitsWithoutRollback(t *testing.T) {
	c := canvas.New()
	res := ExecuteCommand(c, Command{
		Type: "batch",
		Commands: []Command{
			{Type: "create_shape", Kind: kindPtr(shape.Rectangle)},
			{Type: "undo"}, // always errors
			{Type: "create_shape", Kind: kindPtr(shape.Ellipse)},
		},
	})
	if res.Status != "error" {
		t.Fatalf("batch should fail: %+v", res)
	}
	// First sub-command stands, third never ran.
	if c.ShapeCount() != 1 {
		t.Fatalf("shape count: got %d, want 1", c.ShapeCount())
	}
}

func TestAddChildCommand(t *testing.T) {
	c := canvas.New()
	frame := mustCreate(t, c, shape.Frame, 0, 0, 500, 500)
	inner := mustCreate(t, c, shape.Frame, 10, 10, 100, 100)
	ExecuteCommand(c, Command{Type: "add_child", Child: &inner, Parent: &frame})

	// Cycle refused with an error.
	res := ExecuteCommand(c, Command{Type: "add_child", Child: &frame, Parent: &inner})
	if res.Status != "error" {
		t.Fatalf("cycle: %+v", res)
	}

	// Missing shapes succeed silently.
	ghost := shape.NewID()
	res = ExecuteCommand(c, Command{Type: "add_child", Child: &ghost, Parent: &frame})
	if res.Status != "success" {
		t.Fatalf("missing child: %+v", res)
	}
}

func TestSetClipChildrenFramesOnly(t *testing.T) {
	c := canvas.New()
	frame := mustCreate(t, c, shape.Frame, 0, 0, 100, 100)
	rect := mustCreate(t, c, shape.Rectangle, 0, 0, 10, 10)
	clip := false

	res := ExecuteCommand(c, Command{Type: "set_clip_children", Clip: &clip, Target: TargetAll()})
	if res.Status != "success" {
		t.Fatalf("result: %+v", res)
	}
	if len(res.Modified) != 1 || res.Modified[0] != frame {
		t.Fatalf("modified: %v, want only the frame", res.Modified)
	}
	if c.GetShape(frame).ClipChildren {
		t.Fatal("frame clip not updated")
	}
	_ = rect
}

func TestUndoRedoStubs(t *testing.T) {
	c := canvas.New()
	for _, typ := range []string{"undo", "redo"} {
		res := ExecuteCommand(c, Command{Type: typ})
		if res.Status != "error" || res.Message != typ+" not yet implemented" {
			t.Fatalf("%s: %+v", typ, res)
		}
	}
}

func TestQueryCanvasBounds(t *testing.T) {
	c := canvas.New()
	res := ExecuteQuery(c, Query{Type: "get_canvas_bounds"})
	if res.Min != nil || res.Max != nil {
		t.Fatalf("empty canvas bounds should be absent: %+v", res)
	}

	mustCreate(t, c, shape.Rectangle, 10, 20, 100, 50)
	mustCreate(t, c, shape.Rectangle, -30, 5, 10, 10)
	res = ExecuteQuery(c, Query{Type: "get_canvas_bounds"})
	if res.Min == nil || res.Max == nil {
		t.Fatal("bounds missing")
	}
	if *res.Min != geom.Pt(-30, 5) || *res.Max != geom.Pt(110, 70) {
		t.Fatalf("bounds: %v %v", *res.Min, *res.Max)
	}
}

func TestQueryShapeAndCount(t *testing.T) {
	c := canvas.New()
	id := mustCreate(t, c, shape.Ellipse, 1, 2, 30, 40)

	res := ExecuteQuery(c, Query{Type: "get_shape", ID: &id})
	if res.Shape == nil || res.Shape.ID != id || res.Shape.Kind != shape.Ellipse {
		t.Fatalf("get_shape: %+v", res)
	}

	ghost := shape.NewID()
	res = ExecuteQuery(c, Query{Type: "get_shape", ID: &ghost})
	if res.Shape != nil {
		t.Fatal("unknown id should return no shape")
	}

	res = ExecuteQuery(c, Query{Type: "get_shape_count"})
	if res.Count == nil || *res.Count != 1 {
		t.Fatalf("count: %+v", res)
	}
}

func TestQueryChildrenAndParentOf(t *testing.T) {
	c := canvas.New()
	frame := mustCreate(t, c, shape.Frame, 0, 0, 500, 500)
	a := mustCreate(t, c, shape.Rectangle, 10, 10, 20, 20)
	b := mustCreate(t, c, shape.Rectangle, 40, 40, 20, 20)
	ExecuteCommand(c, Command{Type: "add_child", Child: &a, Parent: &frame})
	ExecuteCommand(c, Command{Type: "add_child", Child: &b, Parent: &frame})

	children := resolveTarget(c, &Target{Query: &ShapeQuery{ChildrenOf: TargetShape(frame)}})
	if len(children) != 2 {
		t.Fatalf("children_of: %v", children)
	}

	parents := resolveTarget(c, &Target{Query: &ShapeQuery{ParentOf: TargetShapes([]shape.ID{a, b})}})
	if len(parents) != 1 || parents[0] != frame {
		t.Fatalf("parent_of should dedup: %v", parents)
	}
}

func TestDuplicateCommandOffsets(t *testing.T) {
	c := canvas.New()
	id := mustCreate(t, c, shape.Rectangle, 10, 10, 50, 50)
	c.Select(id, false)

	res := ExecuteCommand(c, Command{Type: "duplicate"})
	if res.Status != "success" || len(res.Created) != 1 {
		t.Fatalf("duplicate: %+v", res)
	}
	dup := c.GetShape(res.Created[0])
	want := geom.Pt(10, 10).Add(canvas.DuplicateOffset)
	if dup.Position != want {
		t.Fatalf("duplicate position: got %v, want %v", dup.Position, want)
	}

	res = ExecuteCommand(c, Command{Type: "duplicate", Offset: vecPtr(0, 100), Target: TargetShape(id)})
	if got := c.GetShape(res.Created[0]).Position; got != geom.Pt(10, 110) {
		t.Fatalf("explicit offset: got %v", got)
	}
}

func TestSelectNotifiesOnce(t *testing.T) {
	c := canvas.New()
	a := mustCreate(t, c, shape.Rectangle, 0, 0, 10, 10)
	b := mustCreate(t, c, shape.Rectangle, 20, 0, 10, 10)
	c.Select(a, false)

	var sizes []int
	c.OnSelectionChanged = func() { sizes = append(sizes, len(c.Selection())) }

	res := ExecuteCommand(c, Command{Type: "select", Target: TargetShape(b)})
	if res.Status != "success" {
		t.Fatalf("select: %+v", res)
	}
	// One notification, and it already carries the final selection: the
	// replaced set never appears empty to observers.
	if len(sizes) != 1 || sizes[0] != 1 {
		t.Fatalf("selection notifications: %v, want [1]", sizes)
	}
	if !c.IsSelected(b) || c.IsSelected(a) {
		t.Fatal("selection should be exactly b")
	}

	sizes = nil
	ExecuteCommand(c, Command{Type: "select", Target: TargetShape(a), AddToSelection: true})
	if len(sizes) != 1 || sizes[0] != 2 {
		t.Fatalf("additive notifications: %v, want [2]", sizes)
	}
}
