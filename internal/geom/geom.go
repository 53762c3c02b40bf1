// Package geom holds the small value types shared by the canvas: points,
// sizes and vectors in canvas or screen units. All of them marshal to
// two-element JSON arrays so the wire format stays compact.
package geom

import (
	"encoding/json"
	"fmt"
)

// Point is a 2D position.
type Point struct {
	X, Y float32
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{DX: p.X - q.X, DY: p.Y - q.Y}
}

func (p Point) Min(q Point) Point {
	return Point{X: minf(p.X, q.X), Y: minf(p.Y, q.Y)}
}

func (p Point) Max(q Point) Point {
	return Point{X: maxf(p.X, q.X), Y: maxf(p.Y, q.Y)}
}

func (p Point) MarshalJSON() ([]byte, error) {
	return marshalPair(p.X, p.Y)
}

func (p *Point) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &p.X, &p.Y)
}

// Size is a width/height pair. Negative sizes are never stored; callers
// normalize before assignment.
type Size struct {
	W, H float32
}

// Sz is shorthand for constructing a Size.
func Sz(w, h float32) Size {
	return Size{W: w, H: h}
}

func (s Size) Scale(fx, fy float32) Size {
	return Size{W: s.W * fx, H: s.H * fy}
}

func (s Size) MarshalJSON() ([]byte, error) {
	return marshalPair(s.W, s.H)
}

func (s *Size) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &s.W, &s.H)
}

// Vector is a displacement between two points.
type Vector struct {
	DX, DY float32
}

// Vec is shorthand for constructing a Vector.
func Vec(dx, dy float32) Vector {
	return Vector{DX: dx, DY: dy}
}

func (v Vector) Add(w Vector) Vector {
	return Vector{DX: v.DX + w.DX, DY: v.DY + w.DY}
}

func (v Vector) Scale(f float32) Vector {
	return Vector{DX: v.DX * f, DY: v.DY * f}
}

func (v Vector) MarshalJSON() ([]byte, error) {
	return marshalPair(v.DX, v.DY)
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &v.DX, &v.DY)
}

func marshalPair(a, b float32) ([]byte, error) {
	return json.Marshal([2]float32{a, b})
}

func unmarshalPair(data []byte, a, b *float32) error {
	var pair [2]float32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("expected [x, y] array: %w", err)
	}
	*a, *b = pair[0], pair[1]
	return nil
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
