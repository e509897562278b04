// Package display finds where the overlay canvas should cover.
package display

import (
	"errors"
	"image"
)

// Fallback is used when the display cannot be queried.
var Fallback = image.Rect(0, 0, 1280, 720)

// Monitor is one output in the desktop layout.
type Monitor struct {
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

// Pick returns the primary monitor, or the first one.
func Pick(monitors []Monitor) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, errNoMonitors
	}
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	return monitors[0], nil
}

// Bounds returns the rectangle the canvas should cover, falling back to
// Fallback when no display can be queried.
func Bounds() (image.Rectangle, error) {
	monitors, err := listMonitors()
	if err != nil {
		return Fallback, err
	}
	m, err := Pick(monitors)
	if err != nil {
		return Fallback, err
	}
	return m.Rect, nil
}
