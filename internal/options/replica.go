package options

import (
	"log"
	"sync"

	"github.com/example/annotate/internal/kvstore"
)

// Replica is one window's copy of the shared options.
//
// Writes update the local copy first and then persist; a failed persist
// is logged and the local copy is kept. Changes other windows write
// replace the local copy whole.
type Replica struct {
	store kvstore.Store

	mu        sync.Mutex
	opts      Options
	listeners []func(old, cur Options)

	cancel func()
}

// Open loads the stored options, falling back to defaults when they are
// absent or unreadable, and starts following changes.
func Open(store kvstore.Store) *Replica {
	r := &Replica{store: store, opts: load(store)}
	r.cancel = store.Subscribe(r.handle)
	return r
}

func load(store kvstore.Store) Options {
	data, ok, err := store.Get(Key)
	if err != nil {
		log.Printf("options: read %s: %v; using defaults", Key, err)
		return Default()
	}
	if !ok {
		return Default()
	}
	o, err := Decode(data)
	if err != nil {
		log.Printf("options: %v; using defaults", err)
		return Default()
	}
	return o
}

// Options returns the current local copy.
func (r *Replica) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// OnChange registers fn for every accepted change, local or remote.
func (r *Replica) OnChange(fn func(old, cur Options)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Update applies fn to a copy of the options, adopts the result and
// persists it.
func (r *Replica) Update(fn func(*Options)) Options {
	r.mu.Lock()
	old := r.opts
	cur := old
	fn(&cur)
	cur = cur.Normalize()
	r.opts = cur
	listeners := append([]func(old, cur Options){}, r.listeners...)
	r.mu.Unlock()

	r.persist(cur)
	notify(listeners, old, cur)
	return cur
}

// Set replaces the options.
func (r *Replica) Set(o Options) Options {
	return r.Update(func(p *Options) { *p = o })
}

func (r *Replica) persist(o Options) {
	data, err := o.Encode()
	if err != nil {
		log.Printf("options: %v", err)
		return
	}
	if err := r.store.Set(Key, data); err != nil {
		log.Printf("options: persist: %v; keeping local value", err)
	}
}

func (r *Replica) handle(c kvstore.Change) {
	if c.Key != Key {
		return
	}
	if c.Deleted {
		log.Printf("options: %s removed from store; keeping local value", Key)
		return
	}
	o, err := Decode(c.Value)
	if err != nil {
		log.Printf("options: discarding update: %v", err)
		return
	}
	r.mu.Lock()
	old := r.opts
	r.opts = o
	listeners := append([]func(old, cur Options){}, r.listeners...)
	r.mu.Unlock()
	notify(listeners, old, o)
}

func notify(listeners []func(old, cur Options), old, cur Options) {
	for _, fn := range listeners {
		fn(old, cur)
	}
}

// Close stops following the store. The store itself stays open.
func (r *Replica) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}
