package geom

import (
	"encoding/json"
	"testing"
)

func TestPointVectorMath(t *testing.T) {
	p := Pt(10, 20)
	q := p.Add(Vec(5, -5))
	if q != Pt(15, 15) {
		t.Fatalf("Add: got %v, want {15 15}", q)
	}
	v := q.Sub(p)
	if v != Vec(5, -5) {
		t.Fatalf("Sub: got %v, want {5 -5}", v)
	}
}

func TestPointMinMax(t *testing.T) {
	a := Pt(10, 40)
	b := Pt(30, 20)
	if got := a.Min(b); got != Pt(10, 20) {
		t.Fatalf("Min: got %v, want {10 20}", got)
	}
	if got := a.Max(b); got != Pt(30, 40) {
		t.Fatalf("Max: got %v, want {30 40}", got)
	}
}

func TestSizeScale(t *testing.T) {
	s := Sz(100, 50).Scale(2, 0.5)
	if s != Sz(200, 25) {
		t.Fatalf("Scale: got %v, want {200 25}", s)
	}
}

func TestVectorScale(t *testing.T) {
	v := Vec(10, -20).Scale(0.5)
	if v != Vec(5, -10) {
		t.Fatalf("Scale: got %v, want {5 -10}", v)
	}
}

func TestPointJSONIsArray(t *testing.T) {
	data, err := json.Marshal(Pt(1.5, -2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[1.5,-2]" {
		t.Fatalf("marshal: got %s, want [1.5,-2]", data)
	}

	var p Point
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != Pt(1.5, -2) {
		t.Fatalf("round trip: got %v", p)
	}
}

func TestPairUnmarshalRejectsNonArray(t *testing.T) {
	var p Point
	if err := json.Unmarshal([]byte(`{"x":1}`), &p); err == nil {
		t.Fatal("expected error for object input")
	}
}
