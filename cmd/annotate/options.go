package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/annotate/internal/kvstore"
	"github.com/example/annotate/internal/options"
)

// optionsCmd reads and writes the shared options from the shell. Running
// windows pick the change up through the store.
type optionsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (o *optionsCmd) Program() string {
	return o.root.program + " options"
}

func (o *optionsCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOptionsCmd(args []string, r *root) (*optionsCmd, error) {
	fs := flag.NewFlagSet("options", flag.ExitOnError)
	o := &optionsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(o)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: o}
	}
	switch fs.Arg(0) {
	case "print", "reset":
		if fs.NArg() != 1 {
			return nil, &UsageError{of: o}
		}
	case "set":
		if fs.NArg() < 2 {
			return nil, &UsageError{of: o}
		}
	default:
		return nil, fmt.Errorf("unknown options command: %s", fs.Arg(0))
	}
	return o, nil
}

func (o *optionsCmd) Run() error {
	store, err := o.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return o.run(store)
}

func (o *optionsCmd) run(store kvstore.Store) error {
	replica := options.Open(store)
	defer replica.Close()

	switch o.fs.Arg(0) {
	case "print":
		return printOptions(o.out, replica.Options())
	case "reset":
		replica.Set(options.Default())
		return nil
	}

	cur := replica.Options()
	for _, arg := range o.fs.Args()[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q (keys: %s)", arg, strings.Join(options.Fields(), ", "))
		}
		if err := cur.Set(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	replica.Set(cur)
	return nil
}

func printOptions(w io.Writer, o options.Options) error {
	rows := [][2]string{
		{"shapeType", o.Tool.String()},
		{"color", o.Color},
		{"strokeThickness", fmt.Sprint(o.StrokeThickness)},
		{"fadeLines", fmt.Sprint(o.FadeLines)},
		{"fadeSpeed", fmt.Sprint(o.FadeSpeed)},
		{"fillShape", fmt.Sprint(o.FillShape)},
		{"randomColorMode", fmt.Sprint(o.RandomColorMode)},
		{"moveShapes", fmt.Sprint(o.MoveShapes)},
		{"highlightCursor", fmt.Sprint(o.HighlightCursor)},
		{"transparentMode", fmt.Sprint(o.TransparentMode)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s = %s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}
