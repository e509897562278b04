// Package kvstore provides the shared key/value store windows use to
// exchange settings, together with a change broadcast that reaches every
// handle except the one that wrote.
package kvstore

import (
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kvstore: closed")

// Change describes a key written or removed by another handle.
type Change struct {
	Key     string
	Value   string
	Deleted bool
}

// Store is one window's handle on the shared store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// Subscribe registers fn for changes made through other handles. fn may
	// run on any goroutine.
	Subscribe(fn func(Change)) (cancel func())
	Close() error
}

// subscribers is the listener registry shared by the store implementations.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Change)
}

func (s *subscribers) add(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(Change))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) snapshot() []func(Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(Change), 0, len(s.fns))
	for _, fn := range s.fns {
		out = append(out, fn)
	}
	return out
}

func (s *subscribers) publish(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	fns := s.snapshot()
	for _, c := range changes {
		for _, fn := range fns {
			fn(c)
		}
	}
}

func (s *subscribers) clear() {
	s.mu.Lock()
	s.fns = nil
	s.mu.Unlock()
}

// diff lists the changes that turn before into after.
func diff(before, after map[string]string) []Change {
	var out []Change
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			out = append(out, Change{Key: k, Value: v})
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			out = append(out, Change{Key: k, Deleted: true})
		}
	}
	return out
}
