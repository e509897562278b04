package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/annotate/internal/appstate"
	"github.com/example/annotate/internal/config"
	"github.com/example/annotate/internal/kvstore"
	"github.com/example/annotate/internal/notify"
	"github.com/example/annotate/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	storePath   string
	syncMode    string
	debug       bool
	copyAlerts  bool
	clearAlerts bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("annotate", flag.ExitOnError),
		program:  "annotate",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.StringVar(&r.storePath, "store", cfg.Store, "path of the shared option store")
	r.fs.StringVar(&r.syncMode, "sync", cfg.Sync, "how windows share options: file, dbus or memory")
	r.fs.BoolVar(&r.debug, "debug", false, "log raster diagnostics")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.clearAlerts, "notify-clear", cfg.Notify.Clear, "show a desktop notification after clearing the board")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "toolbar theme ("+strings.Join(theme.BuiltinNames(), ", ")+" or a .theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventClear, r.clearAlerts)
	}
	if r.debug {
		gg.SetLogger(slog.Default())
	}
	r.config.Store = r.storePath
	r.config.Sync = strings.ToLower(strings.TrimSpace(r.syncMode))
	if err := r.config.Validate(); err != nil {
		return err
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "canvas":
		cmd, err = parseWindowCmd("canvas", appstate.ModeCanvas, subArgs, r)
	case "toolbar":
		cmd, err = parseWindowCmd("toolbar", appstate.ModeToolbar, subArgs, r)
	case "run":
		cmd, err = parseWindowCmd("run", appstate.ModeBoth, subArgs, r)
	case "options":
		cmd, err = parseOptionsCmd(subArgs, r)
	case "clear":
		cmd, err = parseClearCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	if runErr := cmd.Run(); runErr != nil {
		return runErr
	}
	return nil
}

// resolveTheme picks the toolbar theme from the flag, ANNOTATE_THEME or
// the config file, falling back to the default theme.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("ANNOTATE_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	t, err := theme.NewLoader(r.config.Themes).Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

// storeOpener returns a function handing out store handles for the
// configured sync mode. watch asks file stores to follow other writers.
func (r *root) storeOpener(watch bool) (appstate.OpenStore, error) {
	path := r.config.Store
	switch r.config.Sync {
	case config.SyncMemory:
		hub := kvstore.NewHub()
		return func() (kvstore.Store, error) { return hub.Client(), nil }, nil
	case config.SyncDBus:
		return func() (kvstore.Store, error) {
			f, err := kvstore.OpenFile(path, false)
			if err != nil {
				return nil, err
			}
			d, err := kvstore.NewDBus(f)
			if err != nil {
				f.Close()
				return nil, err
			}
			return d, nil
		}, nil
	case config.SyncFile:
		return func() (kvstore.Store, error) { return kvstore.OpenFile(path, watch) }, nil
	}
	return nil, fmt.Errorf("unknown sync mode %q", r.config.Sync)
}

// openStore opens a single handle for one-shot commands.
func (r *root) openStore() (kvstore.Store, error) {
	if r.config.Sync == config.SyncMemory {
		return nil, errors.New("memory sync only works inside 'run'; use -sync file or dbus")
	}
	open, err := r.storeOpener(false)
	if err != nil {
		return nil, err
	}
	return open()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
