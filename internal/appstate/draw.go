package appstate

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	checkerLight = color.RGBA{60, 60, 60, 255}
	checkerDark  = color.RGBA{40, 40, 40, 255}
)

// strokeRect outlines r with thick-pixel edges drawn inside it.
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	for _, e := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick),
		image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y),
		image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, e.Intersect(r), u, image.Point{}, draw.Src)
	}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// backdrop caches the pattern painted behind the overlay. Shiny windows
// are opaque, so the checkerboard stands in for the desktop.
type backdrop struct {
	cache *image.RGBA
}

func (b *backdrop) draw(dst *image.RGBA) {
	r := dst.Bounds()
	if b.cache == nil || b.cache.Bounds() != r {
		b.cache = image.NewRGBA(r)
		drawCheckerboard(b.cache, r, 8, checkerLight, checkerDark)
	}
	draw.Draw(dst, r, b.cache, r.Min, draw.Src)
}
