package appstate

import (
	"image"
	"image/draw"
	"log"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"

	"github.com/example/annotate/internal/clipboard"
	"github.com/example/annotate/internal/engine"
	"github.com/example/annotate/internal/notify"
	"github.com/example/annotate/internal/options"
	"github.com/example/annotate/internal/render"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteImage

// canvasWindow is the drawing surface. All methods run on the window's
// event loop.
type canvasWindow struct {
	src      engine.OptionSource
	engine   *engine.Engine
	surface  *render.Canvas
	notifier *notify.Notifier
	backdrop backdrop
}

func newCanvasWindow(src engine.OptionSource, sz image.Point, n *notify.Notifier, opts ...engine.Option) *canvasWindow {
	c := &canvasWindow{
		src:      src,
		surface:  render.NewCanvas(sz.X, sz.Y),
		notifier: n,
	}
	c.engine = engine.New(src, opts...)
	c.engine.Resize(sz.X, sz.Y)
	return c
}

// handle applies one event and reports whether the window stays open.
// Paint events are left to the caller.
func (c *canvasWindow) handle(e any) bool {
	switch e := e.(type) {
	case closeEvent:
		return false
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			return false
		}
		if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
			c.engine.Blur()
		}
	case size.Event:
		if err := c.surface.Resize(e.WidthPx, e.HeightPx); err != nil {
			log.Printf("canvas: %v", err)
			return true
		}
		c.engine.Resize(e.WidthPx, e.HeightPx)
	case optionsEvent:
		// Events queue behind local updates; the replica holds the latest value.
		c.engine.OptionsChanged(e.old, c.src.Options())
	case commandEvent:
		c.command(e.cmd)
	case fadeEvent:
		c.engine.FadeTick()
	case mouse.Event:
		if c.src.Options().TransparentMode {
			// Pass-through: the overlay is display-only.
			return true
		}
		dispatchMouse(c.engine, e)
	case key.Event:
		k, ok := keyOf(e)
		if !ok {
			return true
		}
		if k.Ctrl && (k.Rune == 'c' || k.Rune == 'C') {
			c.copy()
			return true
		}
		c.engine.KeyDown(k)
	}
	return true
}

func (c *canvasWindow) command(cmd options.Command) {
	switch cmd.Op {
	case options.OpClear:
		n := len(c.engine.Shapes())
		c.engine.ClearBoard()
		c.notifier.Clear(n)
	default:
		log.Printf("canvas: unknown command %q", cmd.Op)
	}
}

// render repaints the overlay surface.
func (c *canvasWindow) render() {
	c.surface.Clear()
	render.Render(c.surface, c.engine.Frame())
}

// compose paints the backdrop and the overlay into dst.
func (c *canvasWindow) compose(dst *image.RGBA) {
	c.render()
	c.backdrop.draw(dst)
	draw.Draw(dst, dst.Bounds(), c.surface.Image(), image.Point{}, draw.Over)
}

func (c *canvasWindow) copy() {
	c.render()
	img := c.surface.Image()
	if err := writeClipboard(img); err != nil {
		log.Printf("canvas: copy: %v", err)
		return
	}
	log.Print("canvas: overlay copied to clipboard")
	c.notifier.Copy(img)
}

func (c *canvasWindow) close() {
	if err := c.surface.Close(); err != nil {
		log.Printf("canvas: %v", err)
	}
}
