// Package engine turns pointer and key input into edits of the shape set.
//
// An Engine is not safe for concurrent use. Each window owns one and feeds
// it from its event loop; timers and store callbacks must hand their work
// to that loop instead of calling the engine directly.
package engine

import (
	"image"
	"log"
	"math/rand/v2"
	"unicode"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/annotate/internal/fade"
	"github.com/example/annotate/internal/history"
	"github.com/example/annotate/internal/hittest"
	"github.com/example/annotate/internal/options"
	"github.com/example/annotate/internal/palette"
	"github.com/example/annotate/internal/render"
	"github.com/example/annotate/internal/shape"
)

// State is the interaction state.
type State int

const (
	Idle State = iota
	Drawing
	Moving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Moving:
		return "moving"
	}
	return "unknown"
}

// OptionSource supplies the shared options. options.Replica implements it.
type OptionSource interface {
	Options() options.Options
	Update(fn func(*options.Options)) options.Options
}

// Fader is told whether fading is on. fade.Scheduler implements it.
type Fader interface {
	SetEnabled(on bool)
}

// Key is a key press. Ctrl is set for Control or Meta.
type Key struct {
	Rune rune
	Ctrl bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithFader attaches the fade ticker, enabled whenever fading is on.
func WithFader(f Fader) Option { return func(e *Engine) { e.fader = f } }

// WithRedraw sets the function called whenever the picture changes.
func WithRedraw(fn func()) Option { return func(e *Engine) { e.redraw = fn } }

// WithRand sets the source used by random colour mode.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// Engine is the per-canvas interaction state machine.
type Engine struct {
	src     OptionSource
	opts    options.Options
	shapes  shape.Set
	history *history.Manager
	state   State

	// Drawing: the in-progress geometry; style comes from the options.
	transient shape.Geometry

	// Moving: the target and the pointer offset from its anchor.
	moving    string
	grab      shape.Point
	moveStart shape.Point

	cursor     shape.Point
	cursorSeen bool
	size       image.Point

	fader  Fader
	redraw func()
	rng    *rand.Rand
}

// New returns an idle engine with an empty board.
func New(src OptionSource, opts ...Option) *Engine {
	e := &Engine{
		src:     src,
		shapes:  shape.Set{},
		history: history.New(),
		redraw:  func() {},
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.opts = src.Options()
	if e.fader != nil {
		e.fader.SetEnabled(e.opts.FadeLines)
	}
	return e
}

// State returns the interaction state.
func (e *Engine) State() State { return e.state }

// Shapes returns a copy of the committed shapes.
func (e *Engine) Shapes() shape.Set { return e.shapes.Clone() }

// History exposes the undo stack for inspection.
func (e *Engine) History() *history.Manager { return e.history }

// Size returns the last canvas size.
func (e *Engine) Size() image.Point { return e.size }

// Transient returns the in-progress shape, styled as it would be drawn.
func (e *Engine) Transient() (shape.Shape, bool) {
	if e.transient == nil {
		return shape.Shape{}, false
	}
	idx := e.opts.ColorIndex()
	st := shape.Style{Opacity: 1}
	if e.opts.FillShape && e.transient.Kind().Fillable() {
		st.Fill = true
		st.FillColor = palette.Fill(idx)
	}
	return shape.Shape{Geometry: e.transient, Style: st}, true
}

// Frame builds everything the renderer needs for the current picture.
func (e *Engine) Frame() render.Frame {
	f := render.Frame{
		Shapes: e.shapes,
		Cursor: render.Cursor{
			Pos:        e.cursor,
			Visible:    e.opts.HighlightCursor && e.cursorSeen,
			ColorIndex: e.opts.ColorIndex(),
		},
		Fallback: shape.Style{
			Stroke:    palette.Stroke(e.opts.ColorIndex()),
			Thickness: e.opts.StrokeThickness,
		},
	}
	if t, ok := e.Transient(); ok {
		f.Transient = &t
	}
	return f
}

// PointerDown starts a drawing or, in move mode, grabs the topmost shape
// under p.
func (e *Engine) PointerDown(p shape.Point) {
	e.track(p)
	if e.state != Idle {
		return
	}
	if e.opts.MoveShapes {
		id, ok := hittest.Test(e.shapes, p)
		if !ok {
			return
		}
		anchor := e.shapes[e.shapes.Index(id)].Anchor()
		e.state = Moving
		e.moving = id
		e.grab = r2.Sub(p, anchor)
		e.moveStart = anchor
		return
	}
	e.state = Drawing
	e.transient = shape.Start(e.opts.Tool, p)
	e.redraw()
}

// PointerMove updates the preview or drags the grabbed shape.
func (e *Engine) PointerMove(p shape.Point) {
	moved := e.track(p)
	switch e.state {
	case Drawing:
		e.transient = e.transient.Extend(p)
		e.redraw()
	case Moving:
		i := e.shapes.Index(e.moving)
		if i < 0 {
			// Faded away or removed remotely mid-drag.
			e.state = Idle
			return
		}
		d := r2.Sub(r2.Sub(p, e.grab), e.shapes[i].Anchor())
		e.shapes[i] = e.shapes[i].Moved(d)
		e.redraw()
	default:
		if moved && e.opts.HighlightCursor {
			e.redraw()
		}
	}
}

// PointerUp commits a drawing or finishes a move. A release without a
// press does nothing.
func (e *Engine) PointerUp(p shape.Point) {
	e.track(p)
	switch e.state {
	case Drawing:
		e.commit(p)
	case Moving:
		e.state = Idle
		if i := e.shapes.Index(e.moving); i >= 0 && e.shapes[i].Anchor() != e.moveStart {
			e.history.Commit(e.shapes)
		}
		e.moving = ""
	}
}

func (e *Engine) commit(p shape.Point) {
	g := e.transient
	if pl, ok := g.(shape.Polyline); !ok || pl.Points[len(pl.Points)-1] != p {
		g = g.Extend(p)
	}
	e.transient = nil
	e.state = Idle

	idx := e.opts.ColorIndex()
	if e.opts.RandomColorMode {
		idx = palette.Random(e.rng)
	}
	s, err := shape.New(g, shape.Style{
		Stroke:    palette.Stroke(idx),
		Thickness: e.opts.StrokeThickness,
		Opacity:   1,
		Fade:      e.opts.FadeLines,
		Fill:      e.opts.FillShape,
		FillColor: palette.Fill(idx),
	})
	if err != nil {
		log.Printf("engine: dropping %s: %v", g.Kind(), err)
		e.redraw()
		return
	}
	e.shapes = append(e.shapes, s)
	e.history.Commit(e.shapes)
	e.redraw()
}

// KeyDown handles the keyboard shortcuts. Option changes go through the
// option source so every window sees them.
func (e *Engine) KeyDown(k Key) {
	r := unicode.ToLower(k.Rune)
	if k.Ctrl {
		switch r {
		case 'z':
			e.Undo()
		case 'y':
			e.Redo()
		}
		return
	}
	switch r {
	case 'l':
		e.setTool(shape.KindLine)
	case 'a':
		e.setTool(shape.KindArrow)
	case 'r':
		e.setTool(shape.KindRectangle)
	case 'c', 'o':
		e.setTool(shape.KindCircle)
	case 'p':
		e.setTool(shape.KindFreehand)
	case 'f':
		e.update(func(o *options.Options) { o.FillShape = !o.FillShape })
	case '1', '2', '3':
		name := palette.At(int(r - '1')).Name
		e.update(func(o *options.Options) { o.Color = name })
	}
}

func (e *Engine) setTool(k shape.Kind) {
	e.update(func(o *options.Options) {
		o.Tool = k
		o.MoveShapes = false
	})
}

func (e *Engine) update(fn func(*options.Options)) {
	e.OptionsChanged(e.opts, e.src.Update(fn))
}

// OptionsChanged adopts cur. Switching the active tool abandons any
// drawing or move in progress. Applying the same value twice is harmless.
func (e *Engine) OptionsChanged(_, cur options.Options) {
	prev := e.opts
	e.opts = cur
	if e.fader != nil {
		e.fader.SetEnabled(cur.FadeLines)
	}
	dirty := prev.HighlightCursor != cur.HighlightCursor ||
		prev.StrokeThickness != cur.StrokeThickness ||
		prev.Color != cur.Color ||
		prev.FillShape != cur.FillShape
	if prev.ActiveTool() != cur.ActiveTool() && e.state != Idle {
		e.abandon()
		dirty = true
	}
	if dirty {
		e.redraw()
	}
}

// Undo restores the previous snapshot.
func (e *Engine) Undo() {
	e.abandon()
	if set, ok := e.history.Undo(); ok {
		e.shapes = set
		e.redraw()
	}
}

// Redo reapplies the next snapshot.
func (e *Engine) Redo() {
	e.abandon()
	if set, ok := e.history.Redo(); ok {
		e.shapes = set
		e.redraw()
	}
}

// ClearBoard removes every shape. The clear is itself undoable.
func (e *Engine) ClearBoard() {
	e.abandon()
	e.shapes = shape.Set{}
	e.history.Commit(e.shapes)
	e.redraw()
}

// Blur drops any drawing or move in progress without committing it.
func (e *Engine) Blur() {
	if e.state == Idle {
		return
	}
	e.abandon()
	e.redraw()
}

// Resize records the new canvas size. Shapes are kept; the caller resets
// its surface and the redraw repaints everything.
func (e *Engine) Resize(w, h int) {
	e.size = image.Pt(w, h)
	e.redraw()
}

// FadeTick decays fading shapes by one step. History is left alone.
func (e *Engine) FadeTick() {
	if !e.opts.FadeLines {
		return
	}
	set, changed := fade.Decay(e.shapes, e.opts.FadeSpeed)
	if !changed {
		return
	}
	e.shapes = set
	if e.state == Moving && e.shapes.Index(e.moving) < 0 {
		e.state = Idle
		e.moving = ""
	}
	e.redraw()
}

func (e *Engine) abandon() {
	e.state = Idle
	e.transient = nil
	e.moving = ""
}

// track records the cursor and reports whether it moved.
func (e *Engine) track(p shape.Point) bool {
	if e.cursorSeen && e.cursor == p {
		return false
	}
	e.cursor = p
	e.cursorSeen = true
	return true
}
