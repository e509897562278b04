// Package fade decays fading shapes on a timer.
package fade

import (
	"context"
	"sync"
	"time"

	"github.com/example/annotate/internal/shape"
)

// DefaultInterval is the time between ticks.
const DefaultInterval = 20 * time.Millisecond

// epsilon absorbs float drift so 1/speed ticks always reach zero.
const epsilon = 1e-9

// Decay lowers the opacity of every fading shape by speed and drops the
// shapes that reach zero. It reports whether anything changed. The input
// is not modified.
func Decay(set shape.Set, speed float64) (shape.Set, bool) {
	if speed <= 0 {
		return set, false
	}
	out := make(shape.Set, 0, len(set))
	changed := false
	for _, s := range set {
		if !s.Style.Fade || s.Style.Opacity <= 0 {
			out = append(out, s)
			continue
		}
		changed = true
		s.Style.Opacity -= speed
		if s.Style.Opacity <= epsilon {
			continue
		}
		out = append(out, s)
	}
	if !changed {
		return set, false
	}
	return out, true
}

// Scheduler calls post once per interval while enabled. post should hand
// the tick to the owner's event loop rather than touch state directly.
type Scheduler struct {
	interval time.Duration
	post     func()

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a stopped scheduler.
func New(interval time.Duration, post func()) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, post: post}
}

// SetEnabled starts or stops the ticker. Enabling a running scheduler or
// disabling a stopped one does nothing.
func (s *Scheduler) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on == (s.cancel != nil) {
		return
	}
	if !on {
		s.stopLocked()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	go s.run(ctx, done)
}

// Enabled reports whether the ticker is running.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop halts the ticker and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.post()
		}
	}
}
