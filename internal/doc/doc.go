// Package doc reads and writes the DraftBoard document format: a
// tree-structured text file with one node per shape, nested child blocks
// for style and frame containment. The format is hand-editable; round
// trips preserve the full shape ids.
//
//	document version="0.1" {
//	  rect "9b2d..." x=100 y=100 width=150 height=100 {
//	    fill h=0.5 s=0.8 l=0.5 a=1
//	    stroke width=2 h=0 s=0 l=0 a=1
//	    radius 8
//	  }
//	  frame "c41a..." x=300 y=80 width=400 height=300 {
//	    clip true
//	    ellipse "77f0..." x=20 y=20 width=120 height=120
//	  }
//	}
package doc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

// FormatVersion is written into every document header.
const FormatVersion = "0.1"

// Save writes the shapes to path in document format. The slice must be the
// canvas sequence (z-order); containment is expressed by nesting.
func Save(path string, shapes []shape.Shape) error {
	var b strings.Builder
	fmt.Fprintf(&b, "document version=%q {\n", FormatVersion)

	lookup := func(id shape.ID) *shape.Shape {
		for i := range shapes {
			if shapes[i].ID == id {
				return &shapes[i]
			}
		}
		return nil
	}
	for i := range shapes {
		if shapes[i].Parent.IsNil() {
			writeShape(&b, &shapes[i], lookup, 1)
		}
	}
	b.WriteString("}\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing document %s: %w", path, err)
	}
	return nil
}

func kindNodeName(k shape.Kind) string {
	switch k {
	case shape.Ellipse:
		return "ellipse"
	case shape.Frame:
		return "frame"
	default:
		return "rect"
	}
}

func writeShape(b *strings.Builder, s *shape.Shape, lookup func(shape.ID) *shape.Shape, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s %q x=%s y=%s width=%s height=%s",
		indent, kindNodeName(s.Kind), s.ID.UUID.String(),
		ftoa(s.Position.X), ftoa(s.Position.Y), ftoa(s.Size.W), ftoa(s.Size.H))

	hasBody := s.Fill != nil || s.Stroke != nil || s.CornerRadius > 0 ||
		s.Kind == shape.Frame || len(s.Children) > 0
	if !hasBody {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	inner := strings.Repeat("  ", depth+1)

	if f := s.Fill; f != nil {
		fmt.Fprintf(b, "%sfill h=%s s=%s l=%s a=%s\n",
			inner, ftoa(f.Color.H), ftoa(f.Color.S), ftoa(f.Color.L), ftoa(f.Color.A))
	}
	if st := s.Stroke; st != nil {
		fmt.Fprintf(b, "%sstroke width=%s h=%s s=%s l=%s a=%s\n",
			inner, ftoa(st.Width), ftoa(st.Color.H), ftoa(st.Color.S), ftoa(st.Color.L), ftoa(st.Color.A))
	}
	if s.CornerRadius > 0 {
		fmt.Fprintf(b, "%sradius %s\n", inner, ftoa(s.CornerRadius))
	}
	if s.Kind == shape.Frame {
		fmt.Fprintf(b, "%sclip %t\n", inner, s.ClipChildren)
	}
	for _, childID := range s.Children {
		if child := lookup(childID); child != nil {
			writeShape(b, child, lookup, depth+1)
		}
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// Load parses a document file into a shape sequence. Parent/child links are
// rebuilt from nesting; child positions stay parent-relative as stored.
func Load(path string) ([]shape.Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer f.Close()

	p := &parser{scanner: bufio.NewScanner(f)}
	if err := p.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}
	return p.shapes, nil
}

type parser struct {
	scanner *bufio.Scanner
	lineNo  int
	shapes  []shape.Shape
	// stack of shape indexes for open frame blocks; -1 marks the document
	// block itself.
	stack []int
}

func (p *parser) parseDocument() error {
	opened := false
	for p.scanner.Scan() {
		p.lineNo++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" {
			continue
		}
		if line == "}" {
			if len(p.stack) == 0 {
				return p.errf("unexpected closing brace")
			}
			p.stack = p.stack[:len(p.stack)-1]
			continue
		}

		name, args, props, opensBlock, err := splitNode(line)
		if err != nil {
			return p.errf("%v", err)
		}

		if name == "document" {
			if opened {
				return p.errf("duplicate document node")
			}
			if !opensBlock {
				return p.errf("document node must open a block")
			}
			opened = true
			p.stack = append(p.stack, -1)
			continue
		}
		if !opened {
			return p.errf("content before document node")
		}
		if err := p.parseNode(name, args, props, opensBlock); err != nil {
			return err
		}
	}
	if err := p.scanner.Err(); err != nil {
		return err
	}
	if len(p.stack) != 0 {
		return fmt.Errorf("unclosed block at end of document")
	}
	return nil
}

func (p *parser) parseNode(name string, args []string, props map[string]string, opensBlock bool) error {
	switch name {
	case "rect", "ellipse", "frame":
		return p.parseShape(name, args, props, opensBlock)
	case "fill", "stroke", "radius", "clip":
		return p.parseStyle(name, args, props)
	default:
		return p.errf("unknown node %q", name)
	}
}

func (p *parser) currentShape() *shape.Shape {
	if len(p.stack) == 0 {
		return nil
	}
	idx := p.stack[len(p.stack)-1]
	if idx < 0 {
		return nil
	}
	return &p.shapes[idx]
}

func (p *parser) parseShape(name string, args []string, props map[string]string, opensBlock bool) error {
	var kind shape.Kind
	switch name {
	case "ellipse":
		kind = shape.Ellipse
	case "frame":
		kind = shape.Frame
	default:
		kind = shape.Rectangle
	}

	s := shape.New(kind, geom.Point{}, geom.Size{})
	if len(args) > 0 {
		id, err := shape.ParseID(args[0])
		if err != nil {
			return p.errf("%v", err)
		}
		s.ID = id
	}
	var err error
	if s.Position.X, err = p.propFloat(props, "x"); err != nil {
		return err
	}
	if s.Position.Y, err = p.propFloat(props, "y"); err != nil {
		return err
	}
	if s.Size.W, err = p.propFloat(props, "width"); err != nil {
		return err
	}
	if s.Size.H, err = p.propFloat(props, "height"); err != nil {
		return err
	}
	if parent := p.currentShape(); parent != nil {
		s.Parent = parent.ID
		parent.Children = append(parent.Children, s.ID)
	}
	p.shapes = append(p.shapes, s)
	if opensBlock {
		p.stack = append(p.stack, len(p.shapes)-1)
	}
	return nil
}

func (p *parser) parseStyle(name string, args []string, props map[string]string) error {
	s := p.currentShape()
	if s == nil {
		return p.errf("%s node outside a shape block", name)
	}
	switch name {
	case "fill":
		c, err := p.propColor(props)
		if err != nil {
			return err
		}
		s.Fill = &shape.Fill{Color: c}
	case "stroke":
		c, err := p.propColor(props)
		if err != nil {
			return err
		}
		w, err := p.propFloat(props, "width")
		if err != nil {
			return err
		}
		s.Stroke = &shape.Stroke{Color: c, Width: w}
	case "radius":
		if len(args) != 1 {
			return p.errf("radius takes one value")
		}
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return p.errf("invalid radius %q", args[0])
		}
		s.CornerRadius = float32(v)
		s.ClampCornerRadius()
	case "clip":
		if len(args) != 1 {
			return p.errf("clip takes one value")
		}
		s.ClipChildren = args[0] == "true"
	}
	return nil
}

func (p *parser) propFloat(props map[string]string, key string) (float32, error) {
	raw, ok := props[key]
	if !ok {
		return 0, p.errf("missing property %q", key)
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, p.errf("invalid %s value %q", key, raw)
	}
	return float32(v), nil
}

func (p *parser) propColor(props map[string]string) (shape.Color, error) {
	var c shape.Color
	var err error
	if c.H, err = p.propFloat(props, "h"); err != nil {
		return c, err
	}
	if c.S, err = p.propFloat(props, "s"); err != nil {
		return c, err
	}
	if c.L, err = p.propFloat(props, "l"); err != nil {
		return c, err
	}
	if c.A, err = p.propFloat(props, "a"); err != nil {
		return c, err
	}
	return c, nil
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.lineNo, fmt.Sprintf(format, args...))
}

// splitNode tokenizes one node line into its name, bare arguments,
// key=value properties, and whether it opens a child block.
func splitNode(line string) (name string, args []string, props map[string]string, opensBlock bool, err error) {
	if strings.HasSuffix(line, "{") {
		opensBlock = true
		line = strings.TrimSpace(strings.TrimSuffix(line, "{"))
	}
	tokens, err := tokenize(line)
	if err != nil {
		return "", nil, nil, false, err
	}
	if len(tokens) == 0 {
		return "", nil, nil, false, fmt.Errorf("empty node")
	}
	name = tokens[0]
	props = make(map[string]string)
	for _, tok := range tokens[1:] {
		if k, v, found := strings.Cut(tok, "="); found {
			props[k] = unquote(v)
		} else {
			args = append(args, unquote(tok))
		}
	}
	return name, args, props, opensBlock, nil
}

// tokenize splits on spaces while keeping quoted strings intact.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated string")
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
