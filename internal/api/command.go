// Package api is the serializable command/query surface of the canvas.
// Commands describe mutation intent, queries describe reads; both execute
// against a Canvas on its owning goroutine. The JSON forms are the wire
// contract for the control socket, the websocket bridge and the CLI.
package api

import (
	"encoding/json"
	"fmt"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// Command is the envelope for every mutation intent. Type selects the
// variant; the remaining fields are variant-specific and omitted from the
// wire form when unused. Commands that accept a Target treat a missing one
// as "selection".
type Command struct {
	Type string `json:"type"`

	// create_shape
	Kind         *shape.Kind `json:"kind,omitempty"`
	Position     *geom.Point `json:"position,omitempty"`
	Size         *geom.Size  `json:"size,omitempty"`
	CornerRadius *float32    `json:"corner_radius,omitempty"`

	// Styling. For set_fill / set_stroke a missing value clears the paint.
	Fill   *ColorValue  `json:"fill,omitempty"`
	Stroke *StrokeValue `json:"stroke,omitempty"`

	Target *Target `json:"target,omitempty"`

	// duplicate
	Offset *geom.Vector `json:"offset,omitempty"`

	// select
	AddToSelection bool `json:"add_to_selection,omitempty"`

	// move / pan
	Delta *geom.Vector `json:"delta,omitempty"`

	// scale (per-axis) and zoom (uniform) share the wire key.
	Factor *ScaleFactor `json:"factor,omitempty"`
	Center *geom.Point  `json:"center,omitempty"`

	// set_corner_radius
	Radius *float32 `json:"radius,omitempty"`

	// add_child
	Child  *shape.ID `json:"child,omitempty"`
	Parent *shape.ID `json:"parent,omitempty"`

	// set_clip_children
	Clip *bool `json:"clip,omitempty"`

	// set_tool
	Tool string `json:"tool,omitempty"`

	// batch
	Commands []Command `json:"commands,omitempty"`
}

// ScaleFactor is a per-axis factor that accepts either a bare number
// (applied to both axes, the zoom form) or an [x, y] pair.
type ScaleFactor struct {
	X, Y float32
	// Uniform records which wire form produced the value so it round-trips.
	Uniform bool
}

func (f ScaleFactor) MarshalJSON() ([]byte, error) {
	if f.Uniform {
		return json.Marshal(f.X)
	}
	return json.Marshal([2]float32{f.X, f.Y})
}

func (f *ScaleFactor) UnmarshalJSON(data []byte) error {
	var scalar float32
	if err := json.Unmarshal(data, &scalar); err == nil {
		*f = ScaleFactor{X: scalar, Y: scalar, Uniform: true}
		return nil
	}
	var pair [2]float32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("factor must be a number or [x, y]: %w", err)
	}
	*f = ScaleFactor{X: pair[0], Y: pair[1]}
	return nil
}

// ColorValue is the wire color: either an HSLA object or a "#RRGGBB" hex
// string. Internally everything becomes HSLA.
type ColorValue struct {
	HSLA *shape.Color
	Hex  string
}

func (c ColorValue) MarshalJSON() ([]byte, error) {
	if c.Hex != "" {
		return json.Marshal(c.Hex)
	}
	if c.HSLA != nil {
		return json.Marshal(c.HSLA)
	}
	return nil, fmt.Errorf("empty color value")
}

func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		if _, err := parseHex(hex); err != nil {
			return err
		}
		*c = ColorValue{Hex: hex}
		return nil
	}
	var hsla shape.Color
	if err := json.Unmarshal(data, &hsla); err != nil {
		return fmt.Errorf("color must be {h,s,l,a} or \"#RRGGBB\": %w", err)
	}
	*c = ColorValue{HSLA: &hsla}
	return nil
}

// Color resolves the wire value to HSLA.
func (c ColorValue) Color() shape.Color {
	if c.HSLA != nil {
		return *c.HSLA
	}
	r, g, b, _ := parseHexOrZero(c.Hex)
	return rgbToHSL(r, g, b)
}

func parseHex(s string) ([3]uint8, error) {
	raw := s
	if len(raw) > 0 && raw[0] == '#' {
		raw = raw[1:]
	}
	if len(raw) != 6 {
		return [3]uint8{}, fmt.Errorf("hex color %q must be #RRGGBB", s)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		var v uint8
		if _, err := fmt.Sscanf(raw[i*2:i*2+2], "%02x", &v); err != nil {
			return [3]uint8{}, fmt.Errorf("hex color %q: %w", s, err)
		}
		rgb[i] = v
	}
	return rgb, nil
}

func parseHexOrZero(s string) (r, g, b float32, ok bool) {
	rgb, err := parseHex(s)
	if err != nil {
		return 0, 0, 0, false
	}
	return float32(rgb[0]) / 255, float32(rgb[1]) / 255, float32(rgb[2]) / 255, true
}

// rgbToHSL converts normalized RGB to the HSLA color space used internally.
func rgbToHSL(r, g, b float32) shape.Color {
	max := maxf(r, maxf(g, b))
	min := minf(r, minf(g, b))
	l := (max + min) / 2

	if max == min {
		return shape.Color{H: 0, S: 0, L: l, A: 1}
	}

	d := max - min
	var s float32
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	var h float32
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return shape.Color{H: h / 6, S: s, L: l, A: 1}
}

// StrokeValue is the wire stroke: color plus width.
type StrokeValue struct {
	Color ColorValue `json:"color"`
	Width float32    `json:"width"`
}

// CommandResult reports what a command did. Status is "success" or
// "error"; success carries the ids touched, error carries a message.
type CommandResult struct {
	Status   string     `json:"status"`
	Created  []shape.ID `json:"created,omitempty"`
	Modified []shape.ID `json:"modified,omitempty"`
	Deleted  []shape.ID `json:"deleted,omitempty"`
	Message  string     `json:"message,omitempty"`
}

func resultSuccess() CommandResult {
	return CommandResult{Status: "success"}
}

func resultCreated(ids []shape.ID) CommandResult {
	return CommandResult{Status: "success", Created: ids}
}

func resultModified(ids []shape.ID) CommandResult {
	return CommandResult{Status: "success", Modified: ids}
}

func resultDeleted(ids []shape.ID) CommandResult {
	return CommandResult{Status: "success", Deleted: ids}
}

func resultErrorf(format string, args ...any) CommandResult {
	return CommandResult{Status: "error", Message: fmt.Sprintf(format, args...)}
}

// clampSize floors both dimensions at the minimum shape size.
func clampSize(s geom.Size) geom.Size {
	return geom.Sz(maxf(s.W, shape.MinDimension), maxf(s.H, shape.MinDimension))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
