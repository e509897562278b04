// Package render draws a shape set onto a drawing surface.
package render

import (
	"image/color"

	"github.com/example/annotate/internal/palette"
	"github.com/example/annotate/internal/shape"
)

// HighlightRadius is the radius of the cursor highlight disc.
const HighlightRadius = 10

// Surface is the drawing context the renderer paints through. Fill paints
// the current path and keeps it; Stroke paints it and starts a new one.
type Surface interface {
	Clear()
	SetStrokeColor(c color.NRGBA)
	SetFillColor(c color.NRGBA)
	SetLineWidth(w float64)
	SetAlpha(a float64)
	BeginPath()
	MoveTo(p shape.Point)
	LineTo(p shape.Point)
	Rect(origin shape.Point, w, h float64)
	Circle(center shape.Point, r float64)
	Fill()
	Stroke()
}

// Cursor is the pointer highlight state.
type Cursor struct {
	Pos        shape.Point
	Visible    bool
	ColorIndex int
}

// Frame is everything one redraw needs.
type Frame struct {
	Shapes    shape.Set
	Transient *shape.Shape
	Cursor    Cursor
	// Fallback supplies the stroke colour and thickness for shapes that
	// carry none.
	Fallback shape.Style
}

// Render clears s and draws f. It never modifies the shapes.
func Render(s Surface, f Frame) {
	s.Clear()
	for _, sh := range f.Shapes {
		drawShape(s, sh, f.Fallback)
	}
	if f.Transient != nil {
		drawShape(s, *f.Transient, f.Fallback)
	}
	if f.Cursor.Visible {
		fill, outline := palette.Highlight(f.Cursor.ColorIndex)
		s.SetAlpha(1)
		s.SetLineWidth(1)
		s.SetFillColor(fill)
		s.SetStrokeColor(outline)
		s.BeginPath()
		s.Circle(f.Cursor.Pos, HighlightRadius)
		s.Fill()
		s.Stroke()
	}
}

func drawShape(s Surface, sh shape.Shape, fallback shape.Style) {
	if sh.Geometry == nil {
		return
	}
	st := sh.Style
	if st.Stroke.A == 0 {
		st.Stroke = fallback.Stroke
	}
	if st.Thickness <= 0 {
		st.Thickness = fallback.Thickness
	}
	s.SetStrokeColor(st.Stroke)
	s.SetLineWidth(float64(st.Thickness))
	if sh.Filled() {
		s.SetFillColor(st.FillColor)
	}
	s.SetAlpha(st.Opacity)
	defer s.SetAlpha(1)

	s.BeginPath()
	switch g := sh.Geometry.(type) {
	case shape.Segment:
		s.MoveTo(g.From)
		s.LineTo(g.To)
		s.Stroke()
	case shape.Arrow:
		s.MoveTo(g.From)
		s.LineTo(g.To)
		for _, seg := range g.Head() {
			s.MoveTo(seg.From)
			s.LineTo(seg.To)
		}
		s.Stroke()
	case shape.Box:
		w, h := g.Size()
		s.Rect(g.From, w, h)
		if sh.Filled() {
			s.Fill()
		}
		s.Stroke()
	case shape.Round:
		s.Circle(g.Center, g.Radius())
		if sh.Filled() {
			s.Fill()
		}
		s.Stroke()
	case shape.Polyline:
		switch len(g.Points) {
		case 0:
		case 1:
			// A click without a drag still leaves a visible dot.
			s.SetFillColor(st.Stroke)
			s.Circle(g.Points[0], float64(st.Thickness)/2)
			s.Fill()
			s.BeginPath()
		default:
			s.MoveTo(g.Points[0])
			for _, p := range g.Points[1:] {
				s.LineTo(p)
			}
			s.Stroke()
		}
	}
}
