package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves theme names.
type Loader struct {
	ConfigDir string
	// Extra holds themes defined in the rc file.
	Extra map[string]*Theme
}

// NewLoader creates a Loader that also searches ~/.config/annotate/themes.
func NewLoader(extra map[string]*Theme) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "annotate", "themes"),
		Extra:     extra,
	}
}

// Load resolves name in order: empty name, rc-file theme, built-in theme,
// existing file path, then <ConfigDir>/<name>.theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if t, ok := l.Extra[name]; ok {
		return t, nil
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	path := filepath.Join(l.ConfigDir, filename)
	if _, err := os.Stat(path); err == nil {
		return parseFile(path)
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
