package api

import (
	"encoding/json"
	"fmt"

	"DraftBoard/internal/shape"
)

// Target names the shapes a command operates on. The wire forms are
// "selection", "all", {"shape": id}, {"shapes": [ids]} and
// {"query": {...}}. Resolution to concrete ids happens once per command,
// immediately before the mutation, against current canvas state, so a batch
// behaves like sequential execution.
type Target struct {
	Selection bool
	All       bool
	Shape     *shape.ID
	Shapes    []shape.ID
	Query     *ShapeQuery
}

// TargetSelection is the default target.
func TargetSelection() *Target {
	return &Target{Selection: true}
}

// TargetShape targets one shape by id.
func TargetShape(id shape.ID) *Target {
	return &Target{Shape: &id}
}

// TargetShapes targets several shapes by id.
func TargetShapes(ids []shape.ID) *Target {
	return &Target{Shapes: ids}
}

// TargetAll targets every shape on the canvas.
func TargetAll() *Target {
	return &Target{All: true}
}

func (t Target) MarshalJSON() ([]byte, error) {
	switch {
	case t.Selection:
		return json.Marshal("selection")
	case t.All:
		return json.Marshal("all")
	case t.Shape != nil:
		return json.Marshal(map[string]shape.ID{"shape": *t.Shape})
	case t.Shapes != nil:
		return json.Marshal(map[string][]shape.ID{"shapes": t.Shapes})
	case t.Query != nil:
		return json.Marshal(map[string]*ShapeQuery{"query": t.Query})
	default:
		return json.Marshal("selection")
	}
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "selection":
			*t = Target{Selection: true}
			return nil
		case "all":
			*t = Target{All: true}
			return nil
		default:
			return fmt.Errorf("unknown target %q", name)
		}
	}

	var obj struct {
		Shape  *shape.ID   `json:"shape"`
		Shapes []shape.ID  `json:"shapes"`
		Query  *ShapeQuery `json:"query"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}
	switch {
	case obj.Shape != nil:
		*t = Target{Shape: obj.Shape}
	case obj.Shapes != nil:
		*t = Target{Shapes: obj.Shapes}
	case obj.Query != nil:
		*t = Target{Query: obj.Query}
	default:
		return fmt.Errorf("target object needs one of shape, shapes, query")
	}
	return nil
}

// ShapeQuery filters shapes by properties. Exactly one field is set.
type ShapeQuery struct {
	// ByKind matches the snake_case kind name: rectangle, ellipse, frame.
	ByKind string `json:"by_kind,omitempty"`
	// ByName is reserved; shapes have no names yet so it matches nothing.
	ByName string `json:"by_name,omitempty"`
	// InBounds matches shapes whose bounds overlap the given box.
	InBounds *BoundsFilter `json:"in_bounds,omitempty"`
	// ChildrenOf matches direct children of the target's shapes.
	ChildrenOf *Target `json:"children_of,omitempty"`
	// ParentOf matches the parents of the target's shapes.
	ParentOf *Target `json:"parent_of,omitempty"`
}

// BoundsFilter is an axis-aligned box in canvas units.
type BoundsFilter struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}
