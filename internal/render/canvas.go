package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"

	"github.com/gogpu/gg"

	"github.com/example/annotate/internal/shape"
)

// Canvas is a Surface backed by a gg raster context.
type Canvas struct {
	ctx    *gg.Context
	stroke color.NRGBA
	fill   color.NRGBA
	alpha  float64
}

// NewCanvas allocates a transparent w x h canvas.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{ctx: gg.NewContext(max(w, 1), max(h, 1)), alpha: 1}
	c.ctx.SetLineCap(gg.LineCapRound)
	c.ctx.SetLineJoin(gg.LineJoinRound)
	return c
}

// Resize reallocates the pixel buffer. The pixels are lost; callers redraw.
func (c *Canvas) Resize(w, h int) error {
	if err := c.ctx.Resize(max(w, 1), max(h, 1)); err != nil {
		return fmt.Errorf("resize canvas: %w", err)
	}
	return nil
}

// Size returns the pixel dimensions.
func (c *Canvas) Size() image.Point { return image.Pt(c.ctx.Width(), c.ctx.Height()) }

// Image returns a copy of the pixels.
func (c *Canvas) Image() image.Image { return c.ctx.Image() }

// EncodePNG writes the pixels as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.ctx.EncodePNG(w) }

// Close releases the raster context.
func (c *Canvas) Close() error { return c.ctx.Close() }

func (c *Canvas) Clear() {
	c.ctx.ClearPath()
	c.ctx.Clear()
}

func (c *Canvas) SetStrokeColor(col color.NRGBA) { c.stroke = col }
func (c *Canvas) SetFillColor(col color.NRGBA)   { c.fill = col }
func (c *Canvas) SetLineWidth(w float64)         { c.ctx.SetLineWidth(w) }

func (c *Canvas) SetAlpha(a float64) {
	c.alpha = min(max(a, 0), 1)
}

func (c *Canvas) BeginPath()           { c.ctx.ClearPath() }
func (c *Canvas) MoveTo(p shape.Point) { c.ctx.MoveTo(p.X, p.Y) }
func (c *Canvas) LineTo(p shape.Point) { c.ctx.LineTo(p.X, p.Y) }

func (c *Canvas) Circle(p shape.Point, r float64) {
	c.ctx.DrawCircle(p.X, p.Y, r)
}

func (c *Canvas) Rect(p shape.Point, w, h float64) {
	c.ctx.DrawRectangle(p.X, p.Y, w, h)
}

func (c *Canvas) use(col color.NRGBA) {
	c.ctx.SetRGBA(
		float64(col.R)/255,
		float64(col.G)/255,
		float64(col.B)/255,
		float64(col.A)/255*c.alpha,
	)
}

func (c *Canvas) Fill() {
	c.use(c.fill)
	if err := c.ctx.FillPreserve(); err != nil {
		log.Printf("render: fill: %v", err)
	}
}

func (c *Canvas) Stroke() {
	c.use(c.stroke)
	if err := c.ctx.Stroke(); err != nil {
		log.Printf("render: stroke: %v", err)
	}
}
