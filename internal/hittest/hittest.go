// Package hittest finds the shape under a point.
package hittest

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/annotate/internal/shape"
)

// Slop is the extra distance in pixels a stroke is allowed to miss by.
const Slop = 3.0

// Test returns the id of the topmost shape containing p.
func Test(set shape.Set, p shape.Point) (string, bool) {
	for i := len(set) - 1; i >= 0; i-- {
		if Contains(set[i], p) {
			return set[i].ID, true
		}
	}
	return "", false
}

// Contains reports whether p falls on the stroke of s, or inside it when
// s is a filled rectangle or circle.
func Contains(s shape.Shape, p shape.Point) bool {
	tol := float64(s.Style.Thickness)/2 + Slop
	switch g := s.Geometry.(type) {
	case shape.Segment:
		return g.DistanceTo(p) <= tol
	case shape.Arrow:
		if g.Shaft().DistanceTo(p) <= tol {
			return true
		}
		for _, seg := range g.Head() {
			if seg.DistanceTo(p) <= tol {
				return true
			}
		}
		return false
	case shape.Box:
		if s.Filled() && g.Contains(p) {
			return true
		}
		for _, seg := range g.Edges() {
			if seg.DistanceTo(p) <= tol {
				return true
			}
		}
		return false
	case shape.Round:
		d := r2.Norm(r2.Sub(p, g.Center))
		r := g.Radius()
		if s.Filled() && d <= r {
			return true
		}
		return math.Abs(d-r) <= tol
	case shape.Polyline:
		switch len(g.Points) {
		case 0:
			return false
		case 1:
			return r2.Norm(r2.Sub(p, g.Points[0])) <= tol
		}
		for _, seg := range g.Segments() {
			if seg.DistanceTo(p) <= tol {
				return true
			}
		}
	}
	return false
}
