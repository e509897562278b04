package appstate

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/annotate/internal/engine"
	"github.com/example/annotate/internal/options"
	"github.com/example/annotate/internal/shape"
)

// Custom events posted into a window's queue from other goroutines.
type (
	optionsEvent struct{ old, cur options.Options }
	commandEvent struct{ cmd options.Command }
	fadeEvent    struct{}
	closeEvent   struct{}
)

func pointOf(e mouse.Event) shape.Point {
	return shape.Pt(float64(e.X), float64(e.Y))
}

// dispatchMouse feeds a left-button gesture to the engine. Other buttons
// and wheel steps are ignored.
func dispatchMouse(eng *engine.Engine, e mouse.Event) {
	p := pointOf(e)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button == mouse.ButtonLeft {
			eng.PointerDown(p)
		}
	case mouse.DirRelease:
		if e.Button == mouse.ButtonLeft {
			eng.PointerUp(p)
		}
	case mouse.DirNone:
		eng.PointerMove(p)
	}
}

// keyOf maps a key press to an engine key. Drivers that report no rune,
// or a control character while Control is held, fall back to the key code.
func keyOf(e key.Event) (engine.Key, bool) {
	if e.Direction != key.DirPress {
		return engine.Key{}, false
	}
	r := e.Rune
	if r < ' ' {
		switch {
		case e.Code >= key.CodeA && e.Code <= key.CodeZ:
			r = 'a' + rune(e.Code-key.CodeA)
		case e.Code >= key.Code1 && e.Code <= key.Code9:
			r = '1' + rune(e.Code-key.Code1)
		default:
			return engine.Key{}, false
		}
	}
	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	return engine.Key{Rune: r, Ctrl: ctrl}, true
}
