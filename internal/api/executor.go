package api

import (
	"DraftBoard/internal/canvas"
	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// ExecuteCommand applies one command to the canvas and reports what it
// touched. It must run on the canvas's owning goroutine; each command is
// atomic with respect to the canvas's change notifications. Targets that
// resolve to zero shapes succeed trivially. Invalid geometry is clamped,
// never rejected.
func ExecuteCommand(c *canvas.Canvas, cmd Command) CommandResult {
	switch cmd.Type {
	case "create_shape":
		return execCreateShape(c, cmd)

	case "duplicate":
		offset := canvas.DuplicateOffset
		if cmd.Offset != nil {
			offset = *cmd.Offset
		}
		created := c.DuplicateShapes(resolveTarget(c, cmd.Target), offset)
		return resultCreated(created)

	case "delete":
		ids := resolveTarget(c, cmd.Target)
		for _, id := range ids {
			c.RemoveShape(id)
		}
		return resultDeleted(ids)

	case "select":
		c.SetSelection(resolveTarget(c, cmd.Target), cmd.AddToSelection)
		return resultSuccess()

	case "clear_selection":
		c.ClearSelection()
		return resultSuccess()

	case "select_all":
		c.SelectAll()
		return resultSuccess()

	case "move":
		if cmd.Delta == nil {
			return resultErrorf("move requires a delta")
		}
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			s.Translate(*cmd.Delta)
		}))

	case "set_position":
		if cmd.Position == nil {
			return resultErrorf("set_position requires a position")
		}
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			s.Position = *cmd.Position
		}))

	case "set_size":
		if cmd.Size == nil {
			return resultErrorf("set_size requires a size")
		}
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			s.Size = clampSize(*cmd.Size)
			s.ClampCornerRadius()
		}))

	case "scale":
		if cmd.Factor == nil {
			return resultErrorf("scale requires a factor")
		}
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			s.Size = clampSize(s.Size.Scale(cmd.Factor.X, cmd.Factor.Y))
			s.ClampCornerRadius()
		}))

	case "set_fill":
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			if cmd.Fill == nil {
				s.Fill = nil
				return
			}
			s.Fill = &shape.Fill{Color: cmd.Fill.Color()}
		}))

	case "set_stroke":
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			if cmd.Stroke == nil {
				s.Stroke = nil
				return
			}
			s.Stroke = &shape.Stroke{Color: cmd.Stroke.Color.Color(), Width: cmd.Stroke.Width}
		}))

	case "set_corner_radius":
		if cmd.Radius == nil {
			return resultErrorf("set_corner_radius requires a radius")
		}
		return resultModified(eachShape(c, cmd.Target, func(s *shape.Shape) {
			s.CornerRadius = *cmd.Radius
			s.ClampCornerRadius()
		}))

	case "add_child":
		if cmd.Child == nil || cmd.Parent == nil {
			return resultErrorf("add_child requires child and parent ids")
		}
		// Missing shapes are a silent no-op; a containment cycle is the one
		// parenting request that is refused outright.
		if c.GetShape(*cmd.Child) == nil || c.GetShape(*cmd.Parent) == nil {
			return resultSuccess()
		}
		if !c.AddChild(*cmd.Child, *cmd.Parent) {
			return resultErrorf("add_child would create a containment cycle")
		}
		return resultModified([]shape.ID{*cmd.Child, *cmd.Parent})

	case "unparent":
		var modified []shape.ID
		for _, id := range resolveTarget(c, cmd.Target) {
			if c.Unparent(id) {
				modified = append(modified, id)
			}
		}
		return resultModified(modified)

	case "set_clip_children":
		if cmd.Clip == nil {
			return resultErrorf("set_clip_children requires clip")
		}
		var modified []shape.ID
		for _, id := range resolveTarget(c, cmd.Target) {
			s := c.GetShape(id)
			if s == nil || s.Kind != shape.Frame {
				continue
			}
			s.ClipChildren = *cmd.Clip
			modified = append(modified, id)
		}
		return resultModified(modified)

	case "pan":
		if cmd.Delta == nil {
			return resultErrorf("pan requires a delta")
		}
		c.Viewport().Pan(*cmd.Delta)
		return resultSuccess()

	case "zoom":
		if cmd.Factor == nil {
			return resultErrorf("zoom requires a factor")
		}
		center := geom.Point{}
		if cmd.Center != nil {
			center = *cmd.Center
		}
		c.Viewport().ZoomAt(center, cmd.Factor.X)
		return resultSuccess()

	case "reset_view":
		c.Viewport().Reset()
		return resultSuccess()

	case "set_tool":
		tool, err := canvas.ParseTool(cmd.Tool)
		if err != nil {
			return resultErrorf("%v", err)
		}
		c.SetTool(tool)
		return resultSuccess()

	case "undo":
		return resultErrorf("undo not yet implemented")

	case "redo":
		return resultErrorf("redo not yet implemented")

	case "batch":
		return execBatch(c, cmd.Commands)

	default:
		return resultErrorf("unknown command type %q", cmd.Type)
	}
}

func execCreateShape(c *canvas.Canvas, cmd Command) CommandResult {
	if cmd.Kind == nil {
		return resultErrorf("create_shape requires a kind")
	}
	pos := geom.Point{}
	if cmd.Position != nil {
		pos = *cmd.Position
	}
	size := geom.Sz(shape.MinDimension, shape.MinDimension)
	if cmd.Size != nil {
		size = clampSize(*cmd.Size)
	}
	s := shape.New(*cmd.Kind, pos, size)
	if cmd.Fill != nil {
		s.Fill = &shape.Fill{Color: cmd.Fill.Color()}
	}
	if cmd.Stroke != nil {
		s.Stroke = &shape.Stroke{Color: cmd.Stroke.Color.Color(), Width: cmd.Stroke.Width}
	}
	if cmd.CornerRadius != nil {
		s.CornerRadius = *cmd.CornerRadius
		s.ClampCornerRadius()
	}
	c.AddShape(s)
	return resultCreated([]shape.ID{s.ID})
}

// execBatch runs sub-commands in order, short-circuiting on the first
// error. Mutations already applied stand; there is no rollback.
func execBatch(c *canvas.Canvas, cmds []Command) CommandResult {
	out := resultSuccess()
	for _, sub := range cmds {
		res := ExecuteCommand(c, sub)
		if res.Status != "success" {
			return resultErrorf("batch failed: %s", res.Message)
		}
		out.Created = append(out.Created, res.Created...)
		out.Modified = append(out.Modified, res.Modified...)
		out.Deleted = append(out.Deleted, res.Deleted...)
	}
	return out
}

// ExecuteQuery answers a read-only query against current canvas state.
func ExecuteQuery(c *canvas.Canvas, q Query) QueryResult {
	switch q.Type {
	case "get_selection":
		return QueryResult{Type: "selection", IDs: c.Selection()}

	case "get_all_shapes":
		return QueryResult{Type: "shapes", Shapes: shapeInfos(c, allIDs(c))}

	case "get_shapes":
		return QueryResult{Type: "shapes", Shapes: shapeInfos(c, resolveTarget(c, q.Target))}

	case "get_shape":
		if q.ID == nil {
			return queryErrorf("get_shape requires an id")
		}
		res := QueryResult{Type: "shape"}
		if s := c.GetShape(*q.ID); s != nil {
			info := shapeToInfo(s)
			res.Shape = &info
		}
		return res

	case "get_canvas_bounds":
		res := QueryResult{Type: "bounds"}
		shapes := c.Shapes()
		if len(shapes) == 0 {
			return res
		}
		min, max := shapes[0].Bounds()
		for i := 1; i < len(shapes); i++ {
			sMin, sMax := shapes[i].Bounds()
			min = min.Min(sMin)
			max = max.Max(sMax)
		}
		res.Min, res.Max = &min, &max
		return res

	case "get_viewport":
		v := c.Viewport()
		offset := v.Offset
		zoom := v.Zoom
		return QueryResult{Type: "viewport", Offset: &offset, Zoom: &zoom}

	case "get_tool":
		return QueryResult{Type: "tool", Tool: c.Tool().String()}

	case "get_shape_count":
		n := c.ShapeCount()
		return QueryResult{Type: "count", Count: &n}

	default:
		return queryErrorf("unknown query type %q", q.Type)
	}
}

// resolveTarget maps a target to concrete ids against current state. A nil
// target means the current selection.
func resolveTarget(c *canvas.Canvas, t *Target) []shape.ID {
	if t == nil {
		return c.Selection()
	}
	switch {
	case t.Selection:
		return c.Selection()
	case t.All:
		return allIDs(c)
	case t.Shape != nil:
		return []shape.ID{*t.Shape}
	case t.Shapes != nil:
		return append([]shape.ID(nil), t.Shapes...)
	case t.Query != nil:
		return resolveQuery(c, t.Query)
	default:
		return c.Selection()
	}
}

func allIDs(c *canvas.Canvas) []shape.ID {
	shapes := c.Shapes()
	ids := make([]shape.ID, len(shapes))
	for i := range shapes {
		ids[i] = shapes[i].ID
	}
	return ids
}

func resolveQuery(c *canvas.Canvas, q *ShapeQuery) []shape.ID {
	shapes := c.Shapes()
	switch {
	case q.ByKind != "":
		var ids []shape.ID
		for i := range shapes {
			if kindName(shapes[i].Kind) == q.ByKind {
				ids = append(ids, shapes[i].ID)
			}
		}
		return ids

	case q.ByName != "":
		// Shapes have no names yet.
		return nil

	case q.InBounds != nil:
		bMin := geom.Pt(q.InBounds.X, q.InBounds.Y)
		bMax := geom.Pt(q.InBounds.X+q.InBounds.Width, q.InBounds.Y+q.InBounds.Height)
		var ids []shape.ID
		for i := range shapes {
			sMin, sMax := shapes[i].Bounds()
			if sMin.X < bMax.X && sMax.X > bMin.X && sMin.Y < bMax.Y && sMax.Y > bMin.Y {
				ids = append(ids, shapes[i].ID)
			}
		}
		return ids

	case q.ChildrenOf != nil:
		parents := resolveTarget(c, q.ChildrenOf)
		var ids []shape.ID
		for i := range shapes {
			if !shapes[i].Parent.IsNil() && containsID(parents, shapes[i].Parent) {
				ids = append(ids, shapes[i].ID)
			}
		}
		return ids

	case q.ParentOf != nil:
		children := resolveTarget(c, q.ParentOf)
		var ids []shape.ID
		for i := range shapes {
			if containsID(children, shapes[i].ID) && !shapes[i].Parent.IsNil() {
				if !containsID(ids, shapes[i].Parent) {
					ids = append(ids, shapes[i].Parent)
				}
			}
		}
		return ids

	default:
		return nil
	}
}

func kindName(k shape.Kind) string {
	switch k {
	case shape.Rectangle:
		return "rectangle"
	case shape.Ellipse:
		return "ellipse"
	case shape.Frame:
		return "frame"
	default:
		return ""
	}
}

func containsID(ids []shape.ID, id shape.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// eachShape applies fn to every shape the target resolves to and returns
// the ids actually touched. Unknown ids are skipped silently.
func eachShape(c *canvas.Canvas, t *Target, fn func(*shape.Shape)) []shape.ID {
	var modified []shape.ID
	for _, id := range resolveTarget(c, t) {
		s := c.GetShape(id)
		if s == nil {
			continue
		}
		fn(s)
		modified = append(modified, id)
	}
	if len(modified) > 0 {
		c.NotifyContentChanged()
	}
	return modified
}

func shapeInfos(c *canvas.Canvas, ids []shape.ID) []ShapeInfo {
	infos := make([]ShapeInfo, 0, len(ids))
	for _, id := range ids {
		if s := c.GetShape(id); s != nil {
			infos = append(infos, shapeToInfo(s))
		}
	}
	return infos
}
