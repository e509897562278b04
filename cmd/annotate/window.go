package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/example/annotate/internal/appstate"
	"github.com/example/annotate/internal/config"
	"github.com/example/annotate/internal/display"
)

// windowCmd opens the canvas, the toolbar or both.
type windowCmd struct {
	*root
	name string
	mode appstate.Mode
	fs   *flag.FlagSet
}

func (w *windowCmd) Program() string {
	return w.root.program + " " + w.name
}

func (w *windowCmd) FlagSet() *flag.FlagSet {
	return w.fs
}

// displayBounds is swapped in tests.
var displayBounds = display.Bounds

// runApp is swapped in tests.
var runApp = func(a *appstate.App) error { return a.Run() }

func parseWindowCmd(name string, mode appstate.Mode, args []string, r *root) (*windowCmd, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	w := &windowCmd{root: r, name: name, mode: mode, fs: fs}
	fs.Usage = usageFunc(w)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

func (w *windowCmd) Run() error {
	if w.mode != appstate.ModeBoth && w.config.Sync == config.SyncMemory {
		return fmt.Errorf("%s: memory sync needs both windows in one process; use 'run'", w.name)
	}
	open, err := w.storeOpener(true)
	if err != nil {
		return err
	}
	bounds, err := displayBounds()
	if err != nil {
		log.Printf("display: %v; using %dx%d", err, bounds.Dx(), bounds.Dy())
	}
	app := appstate.New(open,
		appstate.WithMode(w.mode),
		appstate.WithTheme(w.activeTheme),
		appstate.WithNotifier(w.notifier),
		appstate.WithFadeInterval(w.config.FadeInterval),
		appstate.WithBounds(bounds),
	)
	return runApp(app)
}
