// Package appstate hosts the canvas and toolbar windows.
package appstate

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/annotate/internal/display"
	"github.com/example/annotate/internal/engine"
	"github.com/example/annotate/internal/fade"
	"github.com/example/annotate/internal/kvstore"
	"github.com/example/annotate/internal/notify"
	"github.com/example/annotate/internal/options"
	"github.com/example/annotate/internal/theme"
)

// Mode selects which windows Run opens.
type Mode int

const (
	// ModeBoth opens the toolbar and the canvas; closing either closes both.
	ModeBoth Mode = iota
	ModeCanvas
	ModeToolbar
)

// OpenStore returns a fresh handle on the shared store. Each window gets
// its own handle and closes it on exit.
type OpenStore func() (kvstore.Store, error)

// App holds application configuration for the UI.
type App struct {
	mode         Mode
	open         OpenStore
	theme        *theme.Theme
	notifier     *notify.Notifier
	fadeInterval time.Duration
	bounds       image.Rectangle

	quit     chan struct{}
	quitOnce sync.Once

	mu  sync.Mutex
	err error
}

// Option configures an App.
type Option func(*App)

// WithMode chooses the windows to open.
func WithMode(m Mode) Option { return func(a *App) { a.mode = m } }

// WithTheme sets the toolbar colours.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithNotifier enables desktop notifications for copy and clear.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithFadeInterval sets the fade tick period.
func WithFadeInterval(d time.Duration) Option { return func(a *App) { a.fadeInterval = d } }

// WithBounds sets the initial canvas rectangle.
func WithBounds(r image.Rectangle) Option { return func(a *App) { a.bounds = r } }

// New creates an App that opens store handles with open.
func New(open OpenStore, opts ...Option) *App {
	a := &App{
		open:         open,
		theme:        theme.Default(),
		fadeInterval: fade.DefaultInterval,
		bounds:       display.Fallback,
		quit:         make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run starts the window driver and blocks until every window has closed.
func (a *App) Run() error {
	driver.Main(a.Main)
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Main runs the windows on s.
func (a *App) Main(s screen.Screen) {
	var wg sync.WaitGroup
	if a.mode != ModeToolbar {
		wg.Go(func() { a.fail(a.runCanvas(s)) })
	}
	if a.mode != ModeCanvas {
		wg.Go(func() { a.fail(a.runToolbar(s)) })
	}
	wg.Wait()
}

func (a *App) fail(err error) {
	a.quitOnce.Do(func() { close(a.quit) })
	if err == nil {
		return
	}
	a.mu.Lock()
	a.err = errors.Join(a.err, err)
	a.mu.Unlock()
}

// forwardQuit closes w when another window exits.
func (a *App) forwardQuit(w screen.Window) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-a.quit:
			w.Send(closeEvent{})
		case <-done:
		}
	}()
	return func() { close(done) }
}

func (a *App) openReplica() (kvstore.Store, *options.Replica, error) {
	store, err := a.open()
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store, options.Open(store), nil
}

func closeStore(store kvstore.Store, r *options.Replica) {
	r.Close()
	if err := store.Close(); err != nil {
		log.Printf("appstate: close store: %v", err)
	}
}

func (a *App) runCanvas(s screen.Screen) error {
	store, replica, err := a.openReplica()
	if err != nil {
		return err
	}
	defer closeStore(store, replica)

	sz := a.bounds.Size()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: sz.X, Height: sz.Y, Title: "Annotate"})
	if err != nil {
		return fmt.Errorf("new canvas window: %w", err)
	}
	defer w.Release()
	defer a.forwardQuit(w)()

	fader := fade.New(a.fadeInterval, func() { w.Send(fadeEvent{}) })
	defer fader.Stop()

	pending := false
	redraw := func() {
		if !pending {
			pending = true
			w.Send(paint.Event{})
		}
	}
	c := newCanvasWindow(replica, sz, a.notifier, engine.WithFader(fader), engine.WithRedraw(redraw))
	defer c.close()

	replica.OnChange(func(old, cur options.Options) { w.Send(optionsEvent{old, cur}) })
	cancel := options.OnCommand(store, func(cmd options.Command) { w.Send(commandEvent{cmd}) })
	defer cancel()

	for {
		e := w.NextEvent()
		if _, ok := e.(paint.Event); ok {
			pending = false
			a.paintCanvas(s, w, c)
			continue
		}
		if !c.handle(e) {
			return nil
		}
	}
}

func (a *App) paintCanvas(s screen.Screen, w screen.Window, c *canvasWindow) {
	b, err := s.NewBuffer(c.surface.Size())
	if err != nil {
		log.Printf("canvas: new buffer: %v", err)
		return
	}
	defer b.Release()
	c.compose(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func (a *App) runToolbar(s screen.Screen) error {
	store, replica, err := a.openReplica()
	if err != nil {
		return err
	}
	defer closeStore(store, replica)

	tb := NewToolbar(replica, func(op string) error { return options.SendCommand(store, op) }, a.theme)
	sz := tb.Size()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: sz.X, Height: sz.Y, Title: "Annotate toolbar"})
	if err != nil {
		return fmt.Errorf("new toolbar window: %w", err)
	}
	defer w.Release()
	defer a.forwardQuit(w)()

	replica.OnChange(func(old, cur options.Options) { w.Send(optionsEvent{old, cur}) })

	for {
		e := w.NextEvent()
		repaint := false
		switch e := e.(type) {
		case closeEvent:
			return nil
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				repaint = tb.Leave()
			}
		case optionsEvent:
			repaint = true
		case paint.Event:
			a.paintToolbar(s, w, tb)
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			switch {
			case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft:
				repaint = tb.Press(p)
			case e.Direction == mouse.DirRelease:
				repaint = tb.Release()
			case e.Direction == mouse.DirNone:
				repaint = tb.Hover(p)
			}
		}
		if repaint {
			w.Send(paint.Event{})
		}
	}
}

func (a *App) paintToolbar(s screen.Screen, w screen.Window, tb *Toolbar) {
	b, err := s.NewBuffer(tb.Size())
	if err != nil {
		log.Printf("toolbar: new buffer: %v", err)
		return
	}
	defer b.Release()
	tb.Draw(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
