package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in device pixels.
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

const (
	// ArrowHeadLength is the length of each arrow head segment.
	ArrowHeadLength = 20.0
	// ArrowHeadAngle is the angle between the shaft and each head segment.
	ArrowHeadAngle = math.Pi / 6
)

// Geometry is the kind-specific part of a shape. The concrete types are
// Segment, Box, Round, Arrow and Polyline.
type Geometry interface {
	Kind() Kind
	// Anchor is the point a move grabs relative to.
	Anchor() Point
	// Translate returns a copy shifted by d.
	Translate(d Point) Geometry
	// Extend returns a copy updated for a pointer at p while drawing.
	Extend(p Point) Geometry
	clone() Geometry
}

// Segment is a straight line.
type Segment struct{ From, To Point }

// Box is an axis-aligned rectangle spanned by two corners.
type Box struct{ From, To Point }

// Round is a circle centred on Center passing through Edge.
type Round struct{ Center, Edge Point }

// Arrow is a line with a two-segment head at To.
type Arrow struct{ From, To Point }

// Polyline is a freehand stroke.
type Polyline struct{ Points []Point }

// Start returns the geometry for kind with both defining points at p.
func Start(kind Kind, p Point) Geometry {
	switch kind {
	case KindRectangle:
		return Box{From: p, To: p}
	case KindCircle:
		return Round{Center: p, Edge: p}
	case KindArrow:
		return Arrow{From: p, To: p}
	case KindFreehand:
		return Polyline{Points: []Point{p}}
	default:
		return Segment{From: p, To: p}
	}
}

func (Segment) Kind() Kind                   { return KindLine }
func (g Segment) Anchor() Point              { return g.From }
func (g Segment) Translate(d Point) Geometry { return Segment{r2.Add(g.From, d), r2.Add(g.To, d)} }
func (g Segment) Extend(p Point) Geometry    { return Segment{g.From, p} }
func (g Segment) clone() Geometry            { return g }

// Length is the distance between the endpoints.
func (g Segment) Length() float64 { return r2.Norm(r2.Sub(g.To, g.From)) }

// DistanceTo returns the shortest distance from p to the segment.
func (g Segment) DistanceTo(p Point) float64 {
	d := r2.Sub(g.To, g.From)
	l2 := r2.Norm2(d)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, g.From))
	}
	t := r2.Dot(r2.Sub(p, g.From), d) / l2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(g.From, r2.Scale(t, d))
	return r2.Norm(r2.Sub(p, closest))
}

func (Box) Kind() Kind                   { return KindRectangle }
func (g Box) Anchor() Point              { return g.From }
func (g Box) Translate(d Point) Geometry { return Box{r2.Add(g.From, d), r2.Add(g.To, d)} }
func (g Box) Extend(p Point) Geometry    { return Box{g.From, p} }
func (g Box) clone() Geometry            { return g }

// Size returns the signed width and height.
func (g Box) Size() (w, h float64) { return g.To.X - g.From.X, g.To.Y - g.From.Y }

// Contains reports whether p lies inside the box, whichever way it was dragged.
func (g Box) Contains(p Point) bool {
	minX, maxX := math.Min(g.From.X, g.To.X), math.Max(g.From.X, g.To.X)
	minY, maxY := math.Min(g.From.Y, g.To.Y), math.Max(g.From.Y, g.To.Y)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// Edges returns the four sides in drawing order.
func (g Box) Edges() [4]Segment {
	a := g.From
	b := Pt(g.To.X, g.From.Y)
	c := g.To
	d := Pt(g.From.X, g.To.Y)
	return [4]Segment{{a, b}, {b, c}, {c, d}, {d, a}}
}

func (Round) Kind() Kind                   { return KindCircle }
func (g Round) Anchor() Point              { return g.Center }
func (g Round) Translate(d Point) Geometry { return Round{r2.Add(g.Center, d), r2.Add(g.Edge, d)} }
func (g Round) Extend(p Point) Geometry    { return Round{g.Center, p} }
func (g Round) clone() Geometry            { return g }

// Radius is the Euclidean distance from the centre to the edge point.
func (g Round) Radius() float64 { return r2.Norm(r2.Sub(g.Edge, g.Center)) }

func (Arrow) Kind() Kind                   { return KindArrow }
func (g Arrow) Anchor() Point              { return g.From }
func (g Arrow) Translate(d Point) Geometry { return Arrow{r2.Add(g.From, d), r2.Add(g.To, d)} }
func (g Arrow) Extend(p Point) Geometry    { return Arrow{g.From, p} }
func (g Arrow) clone() Geometry            { return g }

// Shaft is the segment from tail to tip.
func (g Arrow) Shaft() Segment { return Segment{g.From, g.To} }

// Head returns the two head segments, both rooted at the tip.
func (g Arrow) Head() [2]Segment {
	angle := math.Atan2(g.To.Y-g.From.Y, g.To.X-g.From.X)
	wing := func(a float64) Point {
		return Pt(g.To.X-ArrowHeadLength*math.Cos(a), g.To.Y-ArrowHeadLength*math.Sin(a))
	}
	return [2]Segment{
		{g.To, wing(angle - ArrowHeadAngle)},
		{g.To, wing(angle + ArrowHeadAngle)},
	}
}

func (Polyline) Kind() Kind { return KindFreehand }

func (g Polyline) Anchor() Point {
	if len(g.Points) == 0 {
		return Point{}
	}
	return g.Points[0]
}

func (g Polyline) Translate(d Point) Geometry {
	out := make([]Point, len(g.Points))
	for i, p := range g.Points {
		out[i] = r2.Add(p, d)
	}
	return Polyline{Points: out}
}

// Extend appends p; earlier points never change.
func (g Polyline) Extend(p Point) Geometry {
	out := make([]Point, len(g.Points), len(g.Points)+1)
	copy(out, g.Points)
	return Polyline{Points: append(out, p)}
}

func (g Polyline) clone() Geometry {
	return Polyline{Points: append([]Point(nil), g.Points...)}
}

// Segments returns consecutive point pairs. A single point yields none.
func (g Polyline) Segments() []Segment {
	if len(g.Points) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(g.Points)-1)
	for i := 1; i < len(g.Points); i++ {
		out = append(out, Segment{g.Points[i-1], g.Points[i]})
	}
	return out
}
