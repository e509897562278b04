package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/example/annotate/internal/kvstore"
	"github.com/example/annotate/internal/options"
	"github.com/example/annotate/internal/palette"
	"github.com/example/annotate/internal/shape"
)

// source is an in-memory OptionSource.
type source struct {
	opts    options.Options
	updates int
}

func (s *source) Options() options.Options { return s.opts }

func (s *source) Update(fn func(*options.Options)) options.Options {
	fn(&s.opts)
	s.opts = s.opts.Normalize()
	s.updates++
	return s.opts
}

type fader struct{ calls []bool }

func (f *fader) SetEnabled(on bool) { f.calls = append(f.calls, on) }

func newEngine(t *testing.T, mod func(*options.Options)) (*Engine, *source, *int) {
	t.Helper()
	src := &source{opts: options.Default()}
	if mod != nil {
		mod(&src.opts)
	}
	redraws := 0
	e := New(src, WithRedraw(func() { redraws++ }), WithRand(rand.New(rand.NewPCG(1, 2))))
	return e, src, &redraws
}

func drag(e *Engine, pts ...shape.Point) {
	e.PointerDown(pts[0])
	for _, p := range pts[1:] {
		e.PointerMove(p)
	}
	e.PointerUp(pts[len(pts)-1])
}

func TestDrawCircleCommits(t *testing.T) {
	e, _, redraws := newEngine(t, func(o *options.Options) {
		o.Tool = shape.KindCircle
		o.Color = "green"
		o.StrokeThickness = 4
		o.FillShape = true
	})
	e.PointerDown(shape.Pt(0, 0))
	if e.State() != Drawing {
		t.Fatalf("state = %v", e.State())
	}
	e.PointerMove(shape.Pt(1, 1))
	if tr, ok := e.Transient(); !ok || tr.Geometry.(shape.Round).Edge != shape.Pt(1, 1) {
		t.Fatalf("transient = %+v", tr)
	}
	e.PointerUp(shape.Pt(3, 4))

	set := e.Shapes()
	if len(set) != 1 || e.State() != Idle {
		t.Fatalf("shapes = %d state = %v", len(set), e.State())
	}
	s := set[0]
	if r := s.Geometry.(shape.Round).Radius(); r != 5 {
		t.Fatalf("radius = %v, want 5", r)
	}
	if s.Style.Stroke != palette.Stroke(0) || s.Style.Thickness != 4 || s.Style.Opacity != 1 {
		t.Fatalf("style = %+v", s.Style)
	}
	if !s.Filled() || s.Style.FillColor != palette.Fill(0) {
		t.Fatalf("fill not applied: %+v", s.Style)
	}
	if s.ID == "" {
		t.Fatalf("missing id")
	}
	if _, ok := e.Transient(); ok {
		t.Fatalf("transient kept after commit")
	}
	if e.History().Len() != 2 {
		t.Fatalf("history len = %d", e.History().Len())
	}
	if *redraws == 0 {
		t.Fatalf("no redraws")
	}
}

func TestFreehandAccumulates(t *testing.T) {
	e, _, _ := newEngine(t, nil)
	drag(e, shape.Pt(0, 0), shape.Pt(1, 0), shape.Pt(2, 0))
	pl := e.Shapes()[0].Geometry.(shape.Polyline)
	if len(pl.Points) != 3 {
		t.Fatalf("points = %v", pl.Points)
	}
	if e.Shapes()[0].Filled() {
		t.Fatalf("freehand filled")
	}
}

func TestUndoRedoThroughKeys(t *testing.T) {
	e, _, _ := newEngine(t, func(o *options.Options) { o.Tool = shape.KindLine })
	for i := 0; i < 3; i++ {
		x := float64(i * 10)
		drag(e, shape.Pt(x, 0), shape.Pt(x, 10))
	}
	final := e.Shapes().IDs()
	for i := 0; i < 3; i++ {
		e.KeyDown(Key{Rune: 'z', Ctrl: true})
	}
	if len(e.Shapes()) != 0 {
		t.Fatalf("after undos: %d shapes", len(e.Shapes()))
	}
	for i := 0; i < 3; i++ {
		e.KeyDown(Key{Rune: 'Y', Ctrl: true})
	}
	got := e.Shapes().IDs()
	if len(got) != 3 || got[0] != final[0] || got[2] != final[2] {
		t.Fatalf("after redos: %v, want %v", got, final)
	}

	e.KeyDown(Key{Rune: 'z', Ctrl: true})
	drag(e, shape.Pt(50, 0), shape.Pt(50, 10))
	if e.History().CanRedo() {
		t.Fatalf("redo survived a new commit")
	}
}

func TestShortcutsUpdateOptions(t *testing.T) {
	e, src, _ := newEngine(t, func(o *options.Options) { o.MoveShapes = true })
	cases := []struct {
		key  rune
		want shape.Kind
	}{
		{'l', shape.KindLine},
		{'a', shape.KindArrow},
		{'r', shape.KindRectangle},
		{'c', shape.KindCircle},
		{'o', shape.KindCircle},
		{'p', shape.KindFreehand},
	}
	for _, c := range cases {
		e.KeyDown(Key{Rune: c.key})
		if src.opts.Tool != c.want || src.opts.MoveShapes {
			t.Fatalf("key %q: options = %+v", c.key, src.opts)
		}
	}
	e.KeyDown(Key{Rune: 'f'})
	if !src.opts.FillShape {
		t.Fatalf("f did not toggle fill")
	}
	e.KeyDown(Key{Rune: '2'})
	if src.opts.Color != "yellow" {
		t.Fatalf("2 selected %q", src.opts.Color)
	}
	if got := e.Frame().Fallback.Stroke; got != palette.Stroke(1) {
		t.Fatalf("engine did not adopt the new colour: %v", got)
	}
	before := src.updates
	e.KeyDown(Key{Rune: 'q'})
	e.KeyDown(Key{Rune: 'l', Ctrl: true})
	if src.updates != before {
		t.Fatalf("unbound keys changed options")
	}
}

func TestMoveIsUndoable(t *testing.T) {
	e, src, _ := newEngine(t, func(o *options.Options) { o.Tool = shape.KindRectangle })
	drag(e, shape.Pt(10, 10), shape.Pt(50, 40))
	src.Update(func(o *options.Options) { o.MoveShapes = true })
	e.OptionsChanged(options.Options{}, src.opts)

	// Grab the left edge 5px below the anchor and drag by (100, 0).
	e.PointerDown(shape.Pt(10, 15))
	if e.State() != Moving {
		t.Fatalf("state = %v", e.State())
	}
	e.PointerMove(shape.Pt(60, 15))
	e.PointerMove(shape.Pt(110, 15))
	e.PointerUp(shape.Pt(110, 15))

	box := e.Shapes()[0].Geometry.(shape.Box)
	if box.From != shape.Pt(110, 10) || box.To != shape.Pt(150, 40) {
		t.Fatalf("moved box = %+v", box)
	}
	if e.History().Len() != 3 {
		t.Fatalf("history len = %d, want one entry for the move", e.History().Len())
	}
	e.Undo()
	if got := e.Shapes()[0].Geometry.(shape.Box); got.From != shape.Pt(10, 10) {
		t.Fatalf("undo did not restore position: %+v", got)
	}

	// A click without a drag records nothing.
	e.Redo()
	e.PointerDown(shape.Pt(110, 15))
	e.PointerUp(shape.Pt(110, 15))
	if e.History().Len() != 3 {
		t.Fatalf("click pushed history")
	}
}

func TestMoveMissStaysIdle(t *testing.T) {
	e, _, _ := newEngine(t, func(o *options.Options) { o.MoveShapes = true })
	e.PointerDown(shape.Pt(5, 5))
	if e.State() != Idle {
		t.Fatalf("state = %v", e.State())
	}
	e.PointerUp(shape.Pt(5, 5))
	if len(e.Shapes()) != 0 || e.History().Len() != 1 {
		t.Fatalf("miss changed the board")
	}
}

func TestStrayPointerUpAndBlur(t *testing.T) {
	e, _, _ := newEngine(t, nil)
	e.PointerUp(shape.Pt(3, 3))
	if len(e.Shapes()) != 0 || e.History().Len() != 1 {
		t.Fatalf("stray release committed something")
	}
	e.PointerDown(shape.Pt(0, 0))
	e.PointerMove(shape.Pt(4, 4))
	e.Blur()
	e.PointerUp(shape.Pt(4, 4))
	if len(e.Shapes()) != 0 || e.State() != Idle {
		t.Fatalf("blurred drawing committed: %d shapes", len(e.Shapes()))
	}
}

func TestToolSwitchAbandonsDrawing(t *testing.T) {
	e, src, _ := newEngine(t, func(o *options.Options) { o.Tool = shape.KindLine })
	e.PointerDown(shape.Pt(0, 0))
	e.PointerMove(shape.Pt(9, 9))

	// Same tool again changes nothing.
	e.OptionsChanged(src.opts, src.opts)
	if e.State() != Drawing {
		t.Fatalf("idempotent change abandoned the drawing")
	}

	e.KeyDown(Key{Rune: 'r'})
	if e.State() != Idle {
		t.Fatalf("state = %v after tool switch", e.State())
	}
	e.PointerUp(shape.Pt(9, 9))
	if len(e.Shapes()) != 0 {
		t.Fatalf("abandoned drawing committed")
	}
}

func TestRandomColorMode(t *testing.T) {
	e, _, _ := newEngine(t, func(o *options.Options) {
		o.Tool = shape.KindLine
		o.RandomColorMode = true
	})
	for i := 0; i < 30; i++ {
		drag(e, shape.Pt(0, 0), shape.Pt(1, 1))
	}
	seen := map[uint8]bool{}
	for _, s := range e.Shapes() {
		seen[s.Style.Stroke.G] = true
	}
	if len(seen) < 2 {
		t.Fatalf("random colour mode produced one colour")
	}
}

func TestFadeTick(t *testing.T) {
	f := &fader{}
	src := &source{opts: options.Default()}
	src.opts.Tool = shape.KindLine
	src.opts.FadeLines = true
	src.opts.FadeSpeed = 0.05
	e := New(src, WithFader(f))
	if len(f.calls) != 1 || !f.calls[0] {
		t.Fatalf("fader calls = %v", f.calls)
	}
	drag(e, shape.Pt(0, 0), shape.Pt(5, 5))
	histLen := e.History().Len()

	for i := 0; i < 19; i++ {
		e.FadeTick()
	}
	if len(e.Shapes()) != 1 {
		t.Fatalf("removed early")
	}
	e.FadeTick()
	if len(e.Shapes()) != 0 {
		t.Fatalf("not removed after 20 ticks")
	}
	if e.History().Len() != histLen {
		t.Fatalf("fading touched history")
	}

	src.opts.FadeLines = false
	e.OptionsChanged(options.Options{}, src.opts)
	if f.calls[len(f.calls)-1] {
		t.Fatalf("fader not disabled")
	}
	drag(e, shape.Pt(0, 0), shape.Pt(5, 5))
	e.FadeTick()
	if e.Shapes()[0].Style.Opacity != 1 {
		t.Fatalf("tick applied while fading is off")
	}
}

func TestResizeKeepsShapes(t *testing.T) {
	e, _, redraws := newEngine(t, func(o *options.Options) { o.Tool = shape.KindArrow })
	drag(e, shape.Pt(0, 0), shape.Pt(30, 0))
	before := e.Shapes()
	n := *redraws
	e.Resize(640, 480)
	after := e.Shapes()
	if len(after) != 1 || after[0].ID != before[0].ID || after[0].Geometry != before[0].Geometry {
		t.Fatalf("resize changed shapes: %+v", after)
	}
	if e.Size().X != 640 || *redraws != n+1 {
		t.Fatalf("size = %v redraws = %d", e.Size(), *redraws)
	}
}

func TestClearBoardIsUndoable(t *testing.T) {
	e, _, _ := newEngine(t, func(o *options.Options) { o.Tool = shape.KindLine })
	drag(e, shape.Pt(0, 0), shape.Pt(5, 5))
	e.ClearBoard()
	if len(e.Shapes()) != 0 {
		t.Fatalf("board not cleared")
	}
	e.Undo()
	if len(e.Shapes()) != 1 {
		t.Fatalf("undo after clear restored %d shapes", len(e.Shapes()))
	}
}

func TestCursorHighlight(t *testing.T) {
	e, src, redraws := newEngine(t, nil)
	e.PointerMove(shape.Pt(7, 8))
	if e.Frame().Cursor.Visible || *redraws != 0 {
		t.Fatalf("highlight shown while disabled")
	}
	src.opts.HighlightCursor = true
	e.OptionsChanged(options.Options{}, src.opts)
	e.PointerMove(shape.Pt(9, 9))
	c := e.Frame().Cursor
	if !c.Visible || c.Pos != shape.Pt(9, 9) || c.ColorIndex != palette.DefaultIndex {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestReplicaDrivesEngine(t *testing.T) {
	hub := kvstore.NewHub()
	canvas := options.Open(hub.Client())
	toolbar := options.Open(hub.Client())
	t.Cleanup(canvas.Close)
	t.Cleanup(toolbar.Close)

	e := New(canvas)
	canvas.OnChange(e.OptionsChanged)
	toolbar.Update(func(o *options.Options) { o.Tool = shape.KindRectangle; o.Color = "green" })
	drag(e, shape.Pt(0, 0), shape.Pt(4, 4))
	s := e.Shapes()[0]
	if s.Kind() != shape.KindRectangle || s.Style.Stroke != palette.Stroke(0) {
		t.Fatalf("shape = %v %+v", s.Kind(), s.Style)
	}

	e.KeyDown(Key{Rune: 'a'})
	if toolbar.Options().Tool != shape.KindArrow {
		t.Fatalf("toolbar did not see the shortcut")
	}
}
