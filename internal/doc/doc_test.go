package doc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	rect := shape.New(shape.Rectangle, geom.Pt(100, 100), geom.Sz(150, 100))
	rect.Fill = &shape.Fill{Color: shape.Color{H: 0.5, S: 0.8, L: 0.5, A: 1}}
	rect.Stroke = &shape.Stroke{Color: shape.Color{L: 0.2, A: 1}, Width: 2}
	rect.CornerRadius = 8

	frame := shape.New(shape.Frame, geom.Pt(300, 80), geom.Sz(400, 300))
	child := shape.New(shape.Ellipse, geom.Pt(20, 20), geom.Sz(120, 120))
	child.Parent = frame.ID
	frame.Children = []shape.ID{child.ID}

	path := filepath.Join(t.TempDir(), "board.draft")
	if err := Save(path, []shape.Shape{rect, frame, child}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded %d shapes, want 3", len(loaded))
	}

	byID := make(map[shape.ID]*shape.Shape, len(loaded))
	for i := range loaded {
		byID[loaded[i].ID] = &loaded[i]
	}

	got, ok := byID[rect.ID]
	if !ok {
		t.Fatal("rect id not preserved")
	}
	if got.Kind != shape.Rectangle || got.Position != geom.Pt(100, 100) || got.Size != geom.Sz(150, 100) {
		t.Fatalf("rect geometry: %+v", got)
	}
	if got.Fill == nil || got.Fill.Color.H != 0.5 {
		t.Fatalf("rect fill: %+v", got.Fill)
	}
	if got.Stroke == nil || got.Stroke.Width != 2 {
		t.Fatalf("rect stroke: %+v", got.Stroke)
	}
	if got.CornerRadius != 8 {
		t.Fatalf("rect radius: %v", got.CornerRadius)
	}

	gotChild, ok := byID[child.ID]
	if !ok {
		t.Fatal("child id not preserved")
	}
	if gotChild.Parent != frame.ID {
		t.Fatalf("child parent: %v, want %v", gotChild.Parent, frame.ID)
	}
	if gotChild.Position != geom.Pt(20, 20) {
		t.Fatalf("child position must stay parent-relative: %v", gotChild.Position)
	}
	gotFrame := byID[frame.ID]
	if len(gotFrame.Children) != 1 || gotFrame.Children[0] != child.ID {
		t.Fatalf("frame children: %v", gotFrame.Children)
	}
	if !gotFrame.ClipChildren {
		t.Fatal("frame clip default lost")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no document node": "rect \"x\" x=0 y=0 width=1 height=1\n",
		"bad number":       "document version=\"0.1\" {\n  rect x=abc y=0 width=1 height=1\n}\n",
		"unknown node":     "document version=\"0.1\" {\n  triangle x=0 y=0 width=1 height=1\n}\n",
		"style outside":    "document version=\"0.1\" {\n  radius 4\n}\n",
		"unclosed block":   "document version=\"0.1\" {\n  rect x=0 y=0 width=1 height=1 {\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name+".draft")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestSaveNestsChildrenUnderFrames(t *testing.T) {
	frame := shape.New(shape.Frame, geom.Pt(0, 0), geom.Sz(100, 100))
	child := shape.New(shape.Rectangle, geom.Pt(10, 10), geom.Sz(20, 20))
	child.Parent = frame.ID
	frame.Children = []shape.ID{child.ID}

	path := filepath.Join(t.TempDir(), "nested.draft")
	if err := Save(path, []shape.Shape{frame, child}); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	// The child must appear once, inside the frame block, not at top level.
	if strings.Count(text, "rect ") != 1 {
		t.Fatalf("child written more than once:\n%s", text)
	}
	frameIdx := strings.Index(text, "frame ")
	childIdx := strings.Index(text, "rect ")
	if childIdx < frameIdx {
		t.Fatalf("child written before its frame:\n%s", text)
	}
}

func TestLoadAcceptsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.draft")
	content := "document version=\"0.1\" {\n  rect x=5 y=5 width=10 height=10\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	shapes, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(shapes) != 1 || shapes[0].ID.IsNil() {
		t.Fatalf("anonymous shape should get a fresh id: %+v", shapes)
	}
}
