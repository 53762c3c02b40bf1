package canvas

import (
	"testing"

	"DraftBoard/internal/geom"
)

const epsilon = 1e-3

func nearPoint(a, b geom.Point) bool {
	return absf(a.X-b.X) < epsilon && absf(a.Y-b.Y) < epsilon
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestScreenCanvasRoundTrip(t *testing.T) {
	v := NewViewport()
	v.Offset = geom.Vec(50, 30)
	v.Zoom = 2

	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(100, 250), geom.Pt(-40, 17.5)} {
		back := v.CanvasToScreen(v.ScreenToCanvas(p))
		if !nearPoint(back, p) {
			t.Errorf("round trip of %v: got %v", p, back)
		}
	}
}

func TestPanIsZoomCompensated(t *testing.T) {
	v := NewViewport()
	v.Zoom = 2
	v.Pan(geom.Vec(100, 50))
	if !nearPoint(geom.Pt(v.Offset.DX, v.Offset.DY), geom.Pt(50, 25)) {
		t.Fatalf("pan at zoom 2: offset %v, want {50 25}", v.Offset)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	v := NewViewport()
	v.Offset = geom.Vec(10, 20)

	anchor := geom.Pt(300, 200)
	before := v.ScreenToCanvas(anchor)
	v.ZoomAt(anchor, 2.5)
	after := v.ScreenToCanvas(anchor)

	if !nearPoint(before, after) {
		t.Fatalf("anchor moved: before %v, after %v", before, after)
	}
	if v.Zoom != 2.5 {
		t.Fatalf("zoom: got %v, want 2.5", v.Zoom)
	}
}

func TestZoomClampLeavesOffsetAlone(t *testing.T) {
	v := NewViewport()
	v.Zoom = MaxZoom
	v.Offset = geom.Vec(7, 7)

	v.ZoomAt(geom.Pt(100, 100), 4)
	if v.Zoom != MaxZoom {
		t.Fatalf("zoom: got %v, want clamp at %v", v.Zoom, MaxZoom)
	}
	if v.Offset != geom.Vec(7, 7) {
		t.Fatalf("offset changed on clamped zoom: %v", v.Offset)
	}

	v.Zoom = MinZoom
	v.ZoomAt(geom.Pt(100, 100), 0.01)
	if v.Zoom != MinZoom || v.Offset != geom.Vec(7, 7) {
		t.Fatalf("min clamp: zoom %v offset %v", v.Zoom, v.Offset)
	}
}

func TestViewportReset(t *testing.T) {
	v := NewViewport()
	v.Pan(geom.Vec(10, 10))
	v.ZoomAt(geom.Pt(50, 50), 3)
	v.Reset()
	if v.Zoom != 1 || v.Offset != (geom.Vector{}) {
		t.Fatalf("reset: zoom %v offset %v", v.Zoom, v.Offset)
	}
}
