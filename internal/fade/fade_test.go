package fade

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/annotate/internal/shape"
)

func fading(t *testing.T, fade bool) shape.Shape {
	t.Helper()
	s, err := shape.New(shape.Segment{From: shape.Pt(0, 0), To: shape.Pt(1, 1)}, shape.Style{Thickness: 2, Opacity: 1, Fade: fade})
	if err != nil {
		t.Fatalf("shape.New: %v", err)
	}
	return s
}

func TestDecayRemovesAfterExactTicks(t *testing.T) {
	set := shape.Set{fading(t, true), fading(t, false)}
	ticks := 0
	for ; ticks < 100; ticks++ {
		if len(set) == 1 {
			break
		}
		for _, s := range set {
			if s.Style.Opacity < 0 {
				t.Fatalf("negative opacity %v", s.Style.Opacity)
			}
		}
		set, _ = Decay(set, 0.05)
	}
	if ticks != 20 {
		t.Fatalf("removed after %d ticks, want 20", ticks)
	}
	if set[0].Style.Fade || set[0].Style.Opacity != 1 {
		t.Fatalf("non-fading shape touched: %+v", set[0].Style)
	}
}

func TestDecayLeavesInputAlone(t *testing.T) {
	set := shape.Set{fading(t, true)}
	out, changed := Decay(set, 0.5)
	if !changed || out[0].Style.Opacity != 0.5 {
		t.Fatalf("Decay = %+v, %v", out, changed)
	}
	if set[0].Style.Opacity != 1 {
		t.Fatalf("input mutated")
	}
	if _, changed := Decay(shape.Set{fading(t, false)}, 0.5); changed {
		t.Fatalf("changed without fading shapes")
	}
	if _, changed := Decay(set, 0); changed {
		t.Fatalf("zero speed changed the set")
	}
}

func TestSchedulerSingleTicker(t *testing.T) {
	var ticks atomic.Int64
	s := New(time.Millisecond, func() { ticks.Add(1) })
	t.Cleanup(s.Stop)

	s.SetEnabled(true)
	first := s.done
	for i := 0; i < 4; i++ {
		s.SetEnabled(true)
	}
	if s.done != first {
		t.Fatalf("re-enabling started a second ticker")
	}
	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ticks.Load() == 0 {
		t.Fatalf("no ticks while enabled")
	}

	s.SetEnabled(false)
	if s.Enabled() {
		t.Fatalf("still enabled")
	}
	stopped := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if ticks.Load() != stopped {
		t.Fatalf("ticked after disable")
	}

	for i := 0; i < 3; i++ {
		s.SetEnabled(true)
		s.SetEnabled(false)
	}
	s.SetEnabled(false)
}

func TestNewDefaultsInterval(t *testing.T) {
	if s := New(0, func() {}); s.interval != DefaultInterval {
		t.Fatalf("interval = %v", s.interval)
	}
}
