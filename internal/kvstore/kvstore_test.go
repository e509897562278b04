package kvstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

type recorder struct {
	mu  sync.Mutex
	got []Change
	ch  chan Change
}

func newRecorder() *recorder { return &recorder{ch: make(chan Change, 16)} }

func (r *recorder) record(c Change) {
	r.mu.Lock()
	r.got = append(r.got, c)
	r.mu.Unlock()
	r.ch <- c
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func (r *recorder) wait(t *testing.T) Change {
	t.Helper()
	select {
	case c := <-r.ch:
		return c
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for change")
	}
	return Change{}
}

func TestHubBroadcastSkipsWriter(t *testing.T) {
	hub := NewHub()
	a, b := hub.Client(), hub.Client()
	ra, rb := newRecorder(), newRecorder()
	a.Subscribe(ra.record)
	cancel := b.Subscribe(rb.record)

	if err := a.Set("k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := rb.wait(t); got != (Change{Key: "k", Value: "v1"}) {
		t.Fatalf("b got %+v", got)
	}
	if ra.count() != 0 {
		t.Fatalf("writer heard its own change")
	}
	if v, ok, err := b.Get("k"); err != nil || !ok || v != "v1" {
		t.Fatalf("Get = %q %v %v", v, ok, err)
	}

	if err := a.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := rb.wait(t); !got.Deleted || got.Key != "k" {
		t.Fatalf("b got %+v, want deletion", got)
	}

	cancel()
	if err := a.Set("k", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rb.count() != 2 {
		t.Fatalf("cancelled subscriber still notified")
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Set("k", "x"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.yaml")
	f, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	blob := `{"color":"green","strokeThickness":3}`
	if err := f.Set("toolbarOptions", blob); err != nil {
		t.Fatalf("Set: %v", err)
	}
	g, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	v, ok, err := g.Get("toolbarOptions")
	if err != nil || !ok || v != blob {
		t.Fatalf("Get = %q %v %v", v, ok, err)
	}
	if _, ok, _ := g.Get("missing"); ok {
		t.Fatalf("missing key reported present")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "toolbarOptions:") {
		t.Fatalf("document is not YAML keyed by name:\n%s", data)
	}
}

func TestFileWatchDeliversToOtherHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	writer, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { writer.Close() })
	reader, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { reader.Close() })

	rw, rr := newRecorder(), newRecorder()
	writer.Subscribe(rw.record)
	reader.Subscribe(rr.record)

	if err := writer.Set("color", "green"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := rr.wait(t); got != (Change{Key: "color", Value: "green"}) {
		t.Fatalf("reader got %+v", got)
	}
	// Give the writer's watcher time to see its own rename.
	time.Sleep(200 * time.Millisecond)
	if rw.count() != 0 {
		t.Fatalf("writer heard its own change")
	}
}

func TestFileCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	if err := os.WriteFile(path, []byte("{: not yaml ["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	if _, _, err := f.Get("k"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDiff(t *testing.T) {
	got := diff(map[string]string{"a": "1", "b": "2"}, map[string]string{"a": "1", "b": "3", "c": "4"})
	if len(got) != 2 {
		t.Fatalf("diff = %+v", got)
	}
	got = diff(map[string]string{"a": "1"}, map[string]string{})
	if len(got) != 1 || !got[0].Deleted {
		t.Fatalf("diff = %+v", got)
	}
}

func TestDBusDecode(t *testing.T) {
	d := &DBus{self: ":1.7"}
	name := BusInterface + "." + BusMember

	c, ok := d.decode(&dbus.Signal{Sender: ":1.8", Path: BusPath, Name: name, Body: []interface{}{"toolbarOptions", "{}", false}})
	if !ok || c != (Change{Key: "toolbarOptions", Value: "{}"}) {
		t.Fatalf("decode = %+v %v", c, ok)
	}
	if _, ok := d.decode(&dbus.Signal{Sender: ":1.7", Path: BusPath, Name: name, Body: []interface{}{"k", "v", false}}); ok {
		t.Fatalf("own signal accepted")
	}
	if _, ok := d.decode(&dbus.Signal{Sender: ":1.8", Path: BusPath, Name: "other.Member", Body: []interface{}{"k", "v", false}}); ok {
		t.Fatalf("unrelated signal accepted")
	}
	if _, ok := d.decode(&dbus.Signal{Sender: ":1.8", Path: BusPath, Name: name, Body: []interface{}{"k"}}); ok {
		t.Fatalf("short body accepted")
	}
}
