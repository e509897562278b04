// Package shape holds the drawn objects of the overlay and their geometry.
package shape

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/google/uuid"
)

const (
	MinThickness = 1
	MaxThickness = 10
)

var (
	ErrNoGeometry    = errors.New("shape has no geometry")
	ErrEmptyFreehand = errors.New("freehand shape needs at least one point")
	ErrThickness     = fmt.Errorf("stroke thickness must be between %d and %d", MinThickness, MaxThickness)
	ErrOpacity       = errors.New("opacity must be between 0 and 1")
)

// Style is the paint applied to a shape.
type Style struct {
	Stroke    color.NRGBA
	Thickness int
	Opacity   float64
	Fade      bool
	Fill      bool
	FillColor color.NRGBA
}

// Shape is a committed or in-progress drawing.
type Shape struct {
	ID       string
	Geometry Geometry
	Style    Style
}

// New builds a shape with a fresh id. The fill settings are dropped for
// kinds that cannot be filled.
func New(g Geometry, st Style) (Shape, error) {
	s := Shape{ID: uuid.NewString(), Geometry: g, Style: st}
	if g != nil && !g.Kind().Fillable() {
		s.Style.Fill = false
		s.Style.FillColor = color.NRGBA{}
	}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Validate checks the shape invariants.
func (s Shape) Validate() error {
	if s.Geometry == nil {
		return ErrNoGeometry
	}
	if p, ok := s.Geometry.(Polyline); ok && len(p.Points) == 0 {
		return ErrEmptyFreehand
	}
	if s.Style.Thickness < MinThickness || s.Style.Thickness > MaxThickness {
		return fmt.Errorf("%w: got %d", ErrThickness, s.Style.Thickness)
	}
	if s.Style.Opacity < 0 || s.Style.Opacity > 1 {
		return fmt.Errorf("%w: got %v", ErrOpacity, s.Style.Opacity)
	}
	return nil
}

// Kind returns the geometry kind.
func (s Shape) Kind() Kind { return s.Geometry.Kind() }

// Filled reports whether the interior should be painted.
func (s Shape) Filled() bool {
	return s.Style.Fill && s.Geometry != nil && s.Geometry.Kind().Fillable()
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	if s.Geometry != nil {
		s.Geometry = s.Geometry.clone()
	}
	return s
}

// Anchor is the geometry's reference point, the one moves track.
func (s Shape) Anchor() Point { return s.Geometry.Anchor() }

// Moved returns a copy shifted by d with the same id.
func (s Shape) Moved(d Point) Shape {
	s.Geometry = s.Geometry.Translate(d)
	return s
}

// Set is an ordered list of shapes; earlier shapes paint first.
type Set []Shape

// Clone deep-copies the set.
func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	out := make(Set, len(s))
	for i, sh := range s {
		out[i] = sh.Clone()
	}
	return out
}

// Index returns the position of the shape with id, or -1.
func (s Set) Index(id string) int {
	for i, sh := range s {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

// IDs lists the shape ids in paint order.
func (s Set) IDs() []string {
	out := make([]string, len(s))
	for i, sh := range s {
		out[i] = sh.ID
	}
	return out
}
