package api

import (
	"fmt"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// Query is the envelope for read-only requests. Type selects the variant:
// get_selection, get_all_shapes, get_shapes, get_shape, get_canvas_bounds,
// get_viewport, get_tool, get_shape_count.
type Query struct {
	Type   string    `json:"type"`
	Target *Target   `json:"target,omitempty"`
	ID     *shape.ID `json:"id,omitempty"`
}

// QueryResult is the response envelope. Type mirrors the result family:
// selection, shapes, shape, bounds, viewport, tool, count, error. Unused
// fields are dropped from the wire form; absent min/max on a bounds result
// means the canvas is empty.
type QueryResult struct {
	Type    string       `json:"type"`
	IDs     []shape.ID   `json:"ids,omitempty"`
	Shapes  []ShapeInfo  `json:"shapes,omitempty"`
	Shape   *ShapeInfo   `json:"shape,omitempty"`
	Min     *geom.Point  `json:"min,omitempty"`
	Max     *geom.Point  `json:"max,omitempty"`
	Offset  *geom.Vector `json:"offset,omitempty"`
	Zoom    *float32     `json:"zoom,omitempty"`
	Tool    string       `json:"tool,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Message string       `json:"message,omitempty"`
}

func queryErrorf(format string, args ...any) QueryResult {
	return QueryResult{Type: "error", Message: fmt.Sprintf(format, args...)}
}

// ShapeInfo is the serializable snapshot of one shape, as returned by
// queries. Colors are always HSLA on the way out.
type ShapeInfo struct {
	ID           shape.ID      `json:"id"`
	Kind         shape.Kind    `json:"kind"`
	Position     geom.Point    `json:"position"`
	Size         geom.Size     `json:"size"`
	Fill         *shape.Fill   `json:"fill,omitempty"`
	Stroke       *shape.Stroke `json:"stroke,omitempty"`
	CornerRadius float32       `json:"corner_radius,omitempty"`
	Parent       *shape.ID     `json:"parent,omitempty"`
	Children     []shape.ID    `json:"children,omitempty"`
	ClipChildren bool          `json:"clip_children,omitempty"`
}

func shapeToInfo(s *shape.Shape) ShapeInfo {
	info := ShapeInfo{
		ID:           s.ID,
		Kind:         s.Kind,
		Position:     s.Position,
		Size:         s.Size,
		CornerRadius: s.CornerRadius,
		ClipChildren: s.ClipChildren,
	}
	if s.Fill != nil {
		f := *s.Fill
		info.Fill = &f
	}
	if s.Stroke != nil {
		st := *s.Stroke
		info.Stroke = &st
	}
	if !s.Parent.IsNil() {
		p := s.Parent
		info.Parent = &p
	}
	if len(s.Children) > 0 {
		info.Children = append([]shape.ID(nil), s.Children...)
	}
	return info
}
