// Package shape defines the flat geometric record for one visual object on
// the canvas. A Shape has no behavior beyond derived geometry queries; all
// mutation policy lives in the canvas package.
package shape

import (
	"encoding/json"
	"fmt"

	"DraftBoard/internal/geom"
)

// Kind discriminates the shape variants.
type Kind int

const (
	Rectangle Kind = iota
	Ellipse
	Frame
)

var kindNames = map[Kind]string{
	Rectangle: "Rectangle",
	Ellipse:   "Ellipse",
	Frame:     "Frame",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind reads the PascalCase wire name.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	n, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("cannot marshal shape kind %d", int(k))
	}
	return json.Marshal(n)
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Color is an HSLA color. Hue is in [0, 1) like the rest of the components.
type Color struct {
	H float32 `json:"h"`
	S float32 `json:"s"`
	L float32 `json:"l"`
	A float32 `json:"a"`
}

// Fill is a solid fill paint. Absence (nil) means no fill.
type Fill struct {
	Color Color `json:"color"`
}

// Stroke is an outline paint. Absence (nil) means no stroke.
type Stroke struct {
	Color Color   `json:"color"`
	Width float32 `json:"width"`
}

// MinDimension is the smallest width/height the engine allows. Resize paths
// clamp to it so degenerate geometry never reaches the renderer.
const MinDimension float32 = 1.0

// Shape is one visual object. Position is in canvas units for root shapes
// and parent-relative for children of a Frame. Shapes live in a single
// ordered sequence owned by the canvas; sequence order is z-order.
type Shape struct {
	ID   ID   `json:"id"`
	Kind Kind `json:"kind"`

	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`

	Fill         *Fill   `json:"fill,omitempty"`
	Stroke       *Stroke `json:"stroke,omitempty"`
	CornerRadius float32 `json:"corner_radius,omitempty"`

	// Single-level containment. Parent is the nil ID for root shapes.
	Parent       ID   `json:"parent"`
	Children     []ID `json:"children,omitempty"`
	ClipChildren bool `json:"clip_children,omitempty"`
}

// New creates a shape of the given kind with a fresh id. Frames clip their
// children by default.
func New(kind Kind, position geom.Point, size geom.Size) Shape {
	return Shape{
		ID:           NewID(),
		Kind:         kind,
		Position:     position,
		Size:         size,
		ClipChildren: kind == Frame,
	}
}

// Bounds returns the local-space bounding box as (min, max) corners.
func (s *Shape) Bounds() (min, max geom.Point) {
	min = s.Position
	max = geom.Pt(s.Position.X+s.Size.W, s.Position.Y+s.Size.H)
	return min, max
}

// ContainsPoint reports whether p falls inside the bounding box, edges
// inclusive.
func (s *Shape) ContainsPoint(p geom.Point) bool {
	min, max := s.Bounds()
	return p.X >= min.X && p.X <= max.X && p.Y >= min.Y && p.Y <= max.Y
}

// Translate moves the shape by delta.
func (s *Shape) Translate(delta geom.Vector) {
	s.Position = s.Position.Add(delta)
}

// WorldPosition resolves the absolute canvas position by walking the parent
// chain through lookup. A missing parent is treated as root placement rather
// than an error, so orphaned references degrade gracefully.
func (s *Shape) WorldPosition(lookup func(ID) *Shape) geom.Point {
	if s.Parent.IsNil() {
		return s.Position
	}
	parent := lookup(s.Parent)
	if parent == nil {
		return s.Position
	}
	pw := parent.WorldPosition(lookup)
	return geom.Pt(pw.X+s.Position.X, pw.Y+s.Position.Y)
}

// ClampCornerRadius caps the radius at half the smaller dimension. Only
// rectangles render the radius but the invariant is kept for all kinds.
func (s *Shape) ClampCornerRadius() {
	limit := s.Size.W
	if s.Size.H < limit {
		limit = s.Size.H
	}
	limit /= 2
	if s.CornerRadius > limit {
		s.CornerRadius = limit
	}
	if s.CornerRadius < 0 {
		s.CornerRadius = 0
	}
}

// Clone returns a deep copy with the same id. The children slice is copied
// so later mutation of one shape cannot alias the other.
func (s *Shape) Clone() Shape {
	dup := *s
	if s.Fill != nil {
		f := *s.Fill
		dup.Fill = &f
	}
	if s.Stroke != nil {
		st := *s.Stroke
		dup.Stroke = &st
	}
	if len(s.Children) > 0 {
		dup.Children = append([]ID(nil), s.Children...)
	}
	return dup
}
