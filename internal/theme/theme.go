// Package theme holds the toolbar colours.
package theme

import (
	"image/color"
	"sort"
)

// Theme defines the colours the toolbar window paints with.
type Theme struct {
	Name string

	Background color.RGBA // toolbar background
	Foreground color.RGBA // label text

	ButtonBackground color.RGBA
	ButtonActive     color.RGBA // selected tool or enabled toggle
	ButtonHover      color.RGBA
	ButtonText       color.RGBA
	ButtonBorder     color.RGBA

	// SwatchRing outlines the selected colour swatch.
	SwatchRing color.RGBA
}

// Default returns the light theme.
func Default() *Theme {
	return &Theme{
		Name:             "light",
		Background:       color.RGBA{236, 236, 236, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		ButtonBackground: color.RGBA{210, 210, 210, 255},
		ButtonActive:     color.RGBA{160, 190, 230, 255},
		ButtonHover:      color.RGBA{190, 190, 190, 255},
		ButtonText:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:     color.RGBA{90, 90, 90, 255},
		SwatchRing:       color.RGBA{0, 0, 0, 255},
	}
}

func dark() *Theme {
	return &Theme{
		Name:             "dark",
		Background:       color.RGBA{32, 33, 36, 255},
		Foreground:       color.RGBA{232, 234, 237, 255},
		ButtonBackground: color.RGBA{60, 64, 67, 255},
		ButtonActive:     color.RGBA{26, 115, 232, 255},
		ButtonHover:      color.RGBA{80, 84, 88, 255},
		ButtonText:       color.RGBA{232, 234, 237, 255},
		ButtonBorder:     color.RGBA{20, 20, 20, 255},
		SwatchRing:       color.RGBA{255, 255, 255, 255},
	}
}

// builtin lists the themes available without any file.
var builtin = map[string]func() *Theme{
	"light": Default,
	"dark":  dark,
}

// Builtin returns a fresh copy of a built-in theme.
func Builtin(name string) (*Theme, bool) {
	fn, ok := builtin[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// BuiltinNames lists the built-in themes in order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
