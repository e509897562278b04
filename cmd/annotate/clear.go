package main

import (
	"flag"
	"fmt"

	"github.com/example/annotate/internal/options"
)

// clearCmd asks running canvases to remove every shape.
type clearCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *clearCmd) Program() string {
	return c.root.program + " clear"
}

func (c *clearCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseClearCmd(args []string, r *root) (*clearCmd, error) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	c := &clearCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *clearCmd) Run() error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := options.SendCommand(store, options.OpClear); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
