// Package export renders the canvas contents to PDF.
package export

import (
	"github.com/jung-kurt/gofpdf"

	"DraftBoard/internal/shape"
)

// pdfScale maps canvas units to millimetres on the page.
const pdfScale = 0.25

// PDF writes all shapes to a single-page PDF at path. Shapes are drawn in
// sequence order at their world positions, so stacking on the page matches
// the canvas.
func PDF(path string, shapes []shape.Shape) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()

	lookup := func(id shape.ID) *shape.Shape {
		for i := range shapes {
			if shapes[i].ID == id {
				return &shapes[i]
			}
		}
		return nil
	}

	for i := range shapes {
		drawShape(p, &shapes[i], lookup)
	}
	return p.OutputFileAndClose(path)
}

func drawShape(p *gofpdf.Fpdf, s *shape.Shape, lookup func(shape.ID) *shape.Shape) {
	pos := s.WorldPosition(lookup)
	x := float64(pos.X) * pdfScale
	y := float64(pos.Y) * pdfScale
	w := float64(s.Size.W) * pdfScale
	h := float64(s.Size.H) * pdfScale

	style := ""
	if s.Fill != nil {
		r, g, b, _ := s.Fill.Color.RGBA8()
		p.SetFillColor(int(r), int(g), int(b))
		style += "F"
	}
	if s.Stroke != nil {
		r, g, b, _ := s.Stroke.Color.RGBA8()
		p.SetDrawColor(int(r), int(g), int(b))
		p.SetLineWidth(float64(s.Stroke.Width) * pdfScale)
		style += "D"
	}
	if s.Kind == shape.Frame && style == "" {
		// Frames always get an outline so their extent stays visible.
		p.SetDrawColor(128, 128, 128)
		p.SetLineWidth(0.2)
		style = "D"
	}
	if style == "" {
		return
	}

	switch s.Kind {
	case shape.Ellipse:
		p.Ellipse(x+w/2, y+h/2, w/2, h/2, 0, style)
	default:
		if s.CornerRadius > 0 {
			p.RoundedRect(x, y, w, h, float64(s.CornerRadius)*pdfScale, "1234", style)
		} else {
			p.Rect(x, y, w, h, style)
		}
	}
}
