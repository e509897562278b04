package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
store = /tmp/annotate.yaml
sync = DBus
fade_interval = 50ms
theme = my_custom_theme

[notify]
copy = false
clear = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Store != "/tmp/annotate.yaml" {
		t.Errorf("Expected store '/tmp/annotate.yaml', got '%s'", cfg.Store)
	}
	if cfg.Sync != SyncDBus {
		t.Errorf("Expected sync 'dbus', got '%s'", cfg.Sync)
	}
	if cfg.FadeInterval != 50*time.Millisecond {
		t.Errorf("Expected fade_interval 50ms, got %v", cfg.FadeInterval)
	}
	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}
	if !cfg.Notify.Clear {
		t.Error("Expected notify.clear to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"fade_interval = soon",
		"[notify]\ncopy = maybe",
		"[theme.x]\nBackground = red",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded", input)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg.Sync = "both"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for unknown sync mode")
	}
	cfg = New()
	cfg.FadeInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for zero fade interval")
	}
}

func TestCircular(t *testing.T) {
	input := `store = /home/user/store.yaml
sync = memory
fade_interval = 1s
theme = dark

[notify]
copy = true
clear = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Store != cfg2.Store || cfg.Sync != cfg2.Sync || cfg.FadeInterval != cfg2.FadeInterval {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd := t.TempDir()
	prev, _ := os.Getwd()
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })

	if got := NewLoader("dev", "").GetConfigPath(); got != "" {
		t.Fatalf("no files: got %q", got)
	}
	cfg, err := NewLoader("dev", "").Load()
	if err != nil || cfg.Sync != SyncFile {
		t.Fatalf("defaults: %+v %v", cfg, err)
	}

	user := UserConfigPath()
	saved := New()
	saved.Sync = SyncMemory
	if err := saved.Save(user); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := NewLoader("v1.0.0", "").GetConfigPath(); got != user {
		t.Fatalf("user path: got %q want %q", got, user)
	}

	local := filepath.Join(wd, ".annotaterc")
	if err := os.WriteFile(local, []byte("sync = dbus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewLoader("dev", "").GetConfigPath(); got != local {
		t.Fatalf("dev mode: got %q want %q", got, local)
	}
	if got := NewLoader("v1.0.0", "").GetConfigPath(); got != user {
		t.Fatalf("release ignores local rc: got %q", got)
	}

	override := filepath.Join(t.TempDir(), "x.rc")
	if err := os.WriteFile(override, []byte("sync = memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewLoader("dev", override).Load()
	if err != nil || cfg.Sync != SyncMemory {
		t.Fatalf("override: %+v %v", cfg, err)
	}
}
