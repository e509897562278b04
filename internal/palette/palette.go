// Package palette defines the three annotation colour slots.
package palette

import (
	"image/color"
	"math/rand/v2"
	"strings"
)

// Color is a named palette slot.
type Color struct {
	Name  string
	Color color.RGBA
}

const (
	// DefaultIndex is the pink slot.
	DefaultIndex = 2

	fillAlpha      = 51  // 0.2
	highlightAlpha = 174 // 0.683
)

var slots = []Color{
	{Name: "green", Color: color.RGBA{100, 255, 127, 255}},
	{Name: "yellow", Color: color.RGBA{255, 252, 100, 255}},
	{Name: "pink", Color: color.RGBA{255, 100, 164, 255}},
}

// Colors returns a copy of the slots in key order (1, 2, 3).
func Colors() []Color {
	out := make([]Color, len(slots))
	copy(out, slots)
	return out
}

// Len is the number of slots.
func Len() int { return len(slots) }

// Default returns the name of the default slot.
func Default() string { return slots[DefaultIndex].Name }

// ClampIndex keeps idx inside the palette.
func ClampIndex(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx >= len(slots) {
		return len(slots) - 1
	}
	return idx
}

// At returns the slot at idx, clamped.
func At(idx int) Color { return slots[ClampIndex(idx)] }

// Index looks a slot up by name, ignoring case.
func Index(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, c := range slots {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Lookup returns the slot index for name or the default slot.
func Lookup(name string) int {
	if idx, ok := Index(name); ok {
		return idx
	}
	return DefaultIndex
}

// Random picks a slot index.
func Random(r *rand.Rand) int {
	if r == nil {
		return rand.IntN(len(slots))
	}
	return r.IntN(len(slots))
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Stroke is the opaque line colour of the slot.
func Stroke(idx int) color.NRGBA { return withAlpha(At(idx).Color, 255) }

// Fill is the translucent interior colour derived from the slot.
func Fill(idx int) color.NRGBA { return withAlpha(At(idx).Color, fillAlpha) }

// Highlight returns the fill and outline of the cursor highlight disc.
func Highlight(idx int) (fill, outline color.NRGBA) {
	c := At(idx).Color
	return withAlpha(c, highlightAlpha), withAlpha(c, 255)
}
