package kvstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// File is a store backed by a YAML document of string keys and values.
// Every window opens its own File on the same path; with watching enabled
// the handle reports writes made through other handles.
type File struct {
	path string
	subs subscribers

	mu     sync.Mutex
	last   map[string]string
	closed bool

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// OpenFile opens the store at path, creating its directory if needed.
func OpenFile(path string, watch bool) (*File, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	f := &File{path: path, done: make(chan struct{})}
	doc, err := f.read()
	if err != nil {
		log.Printf("kvstore: %v; starting empty", err)
		doc = map[string]string{}
	}
	f.last = doc
	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("watch store: %w", err)
		}
		// The directory is watched so atomic renames are seen.
		if err := w.Add(filepath.Dir(path)); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
		}
		f.watcher = w
		f.wg.Add(1)
		go f.watch()
	}
	return f, nil
}

// Path is the document location.
func (f *File) Path() string { return f.path }

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	doc := map[string]string{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if doc == nil {
		doc = map[string]string{}
	}
	return doc, nil
}

func (f *File) write(doc map[string]string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kvstore-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, f.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	return f.update(func(doc map[string]string) { doc[key] = value })
}

func (f *File) Delete(key string) error {
	return f.update(func(doc map[string]string) { delete(doc, key) })
}

// update rewrites the document. Changes from other handles that the
// watcher has not reported yet are published before the write lands.
func (f *File) update(fn func(map[string]string)) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		f.mu.Unlock()
		return err
	}
	pending := diff(f.last, doc)
	fn(doc)
	if err := f.write(doc); err != nil {
		f.mu.Unlock()
		return err
	}
	f.last = doc
	f.mu.Unlock()
	if f.watcher != nil {
		f.subs.publish(pending...)
	}
	return nil
}

func (f *File) Subscribe(fn func(Change)) func() { return f.subs.add(fn) }

func (f *File) watch() {
	defer f.wg.Done()
	for {
		select {
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			f.reload()
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("kvstore: watch %s: %v", f.path, err)
		}
	}
}

// reload publishes the keys that differ from the last document this
// handle saw. Its own writes already match and produce nothing.
func (f *File) reload() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	doc, err := f.read()
	if err != nil {
		f.mu.Unlock()
		log.Printf("kvstore: %v", err)
		return
	}
	changes := diff(f.last, doc)
	f.last = doc
	f.mu.Unlock()
	f.subs.publish(changes...)
}

// Close stops the watcher.
func (f *File) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()
	close(f.done)
	var err error
	if f.watcher != nil {
		err = f.watcher.Close()
	}
	f.wg.Wait()
	f.subs.clear()
	return err
}
