package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/annotate/internal/theme"
)

// Sync modes select how the windows share the option store.
const (
	SyncFile   = "file"
	SyncDBus   = "dbus"
	SyncMemory = "memory"
)

// DefaultFadeInterval is the fade tick period.
const DefaultFadeInterval = 20 * time.Millisecond

// Notify holds notification settings.
type Notify struct {
	Copy  bool
	Clear bool
}

// Config holds the application configuration.
type Config struct {
	Store        string
	Sync         string
	FadeInterval time.Duration
	Theme        string
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Store:        DefaultStorePath(),
		Sync:         SyncFile,
		FadeInterval: DefaultFadeInterval,
		Notify:       Notify{Copy: true},
		Themes:       make(map[string]*theme.Theme),
	}
}

// DefaultStorePath is the shared store under the user's state directory.
func DefaultStorePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "annotate", "store.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "annotate", "store.yaml")
}

// Validate reports settings no window could run with.
func (c *Config) Validate() error {
	switch c.Sync {
	case SyncFile, SyncDBus, SyncMemory:
	default:
		return fmt.Errorf("unknown sync mode %q (want %s, %s or %s)", c.Sync, SyncFile, SyncDBus, SyncMemory)
	}
	if c.FadeInterval <= 0 {
		return fmt.Errorf("fade_interval must be positive, got %v", c.FadeInterval)
	}
	if c.Store == "" && c.Sync != SyncMemory {
		return fmt.Errorf("store path is empty")
	}
	return nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "store = %s\n", c.Store)
	fmt.Fprintf(&sb, "sync = %s\n", c.Sync)
	fmt.Fprintf(&sb, "fade_interval = %s\n", c.FadeInterval)
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "clear = %v\n", c.Notify.Clear)
	sb.WriteString("\n")

	// Sorted for deterministic output.
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f[0], f[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
