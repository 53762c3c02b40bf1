package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/shape"
)

func TestPDFWritesDocument(t *testing.T) {
	rect := shape.New(shape.Rectangle, geom.Pt(10, 10), geom.Sz(200, 100))
	rect.Fill = &shape.Fill{Color: shape.Color{H: 0.6, S: 0.7, L: 0.5, A: 1}}
	rect.CornerRadius = 12

	ellipse := shape.New(shape.Ellipse, geom.Pt(300, 50), geom.Sz(120, 80))
	ellipse.Stroke = &shape.Stroke{Color: shape.Color{L: 0.1, A: 1}, Width: 3}

	frame := shape.New(shape.Frame, geom.Pt(0, 200), geom.Sz(400, 300))

	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := PDF(path, []shape.Shape{rect, ellipse, frame}); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("not a PDF file: %q", data[:8])
	}
}

func TestPDFSkipsInvisibleShapes(t *testing.T) {
	// A rectangle with neither fill nor stroke draws nothing but must not
	// fail the export.
	bare := shape.New(shape.Rectangle, geom.Pt(0, 0), geom.Sz(10, 10))
	path := filepath.Join(t.TempDir(), "bare.pdf")
	if err := PDF(path, []shape.Shape{bare}); err != nil {
		t.Fatalf("export: %v", err)
	}
}
