package canvas

import "fmt"

// Tool is the active interaction mode. It decides what a pointer-down on
// the canvas means; once a drag is in flight the tool is not consulted
// again until the gesture ends.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolRectangle
	ToolEllipse
	ToolFrame
)

var toolNames = map[Tool]string{
	ToolSelect:    "select",
	ToolPan:       "pan",
	ToolRectangle: "rectangle",
	ToolEllipse:   "ellipse",
	ToolFrame:     "frame",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool reads the snake_case wire name.
func ParseTool(s string) (Tool, error) {
	for t, n := range toolNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}
