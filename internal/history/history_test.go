package history

import (
	"slices"
	"testing"

	"github.com/example/annotate/internal/shape"
)

func mkShape(t *testing.T, x float64) shape.Shape {
	t.Helper()
	s, err := shape.New(shape.Segment{From: shape.Pt(x, 0), To: shape.Pt(x, 10)}, shape.Style{Thickness: 2, Opacity: 1})
	if err != nil {
		t.Fatalf("shape.New: %v", err)
	}
	return s
}

func TestUndoRedoAreInverses(t *testing.T) {
	for n := 1; n <= 5; n++ {
		m := New()
		var set shape.Set
		for i := 0; i < n; i++ {
			set = append(set, mkShape(t, float64(i)))
			m.Commit(set)
		}
		final := set.IDs()

		var got shape.Set
		for i := 0; i < n; i++ {
			var ok bool
			if got, ok = m.Undo(); !ok {
				t.Fatalf("n=%d undo %d refused", n, i)
			}
		}
		if len(got) != 0 {
			t.Fatalf("n=%d: after %d undos got %d shapes", n, n, len(got))
		}
		if _, ok := m.Undo(); ok {
			t.Fatalf("n=%d: undo past start succeeded", n)
		}
		for i := 0; i < n; i++ {
			var ok bool
			if got, ok = m.Redo(); !ok {
				t.Fatalf("n=%d redo %d refused", n, i)
			}
		}
		if !slices.Equal(got.IDs(), final) {
			t.Fatalf("n=%d: redo restored %v, want %v", n, got.IDs(), final)
		}
		if _, ok := m.Redo(); ok {
			t.Fatalf("n=%d: redo past end succeeded", n)
		}
	}
}

func TestCommitAfterUndoDropsRedo(t *testing.T) {
	m := New()
	a, b, c := mkShape(t, 1), mkShape(t, 2), mkShape(t, 3)
	m.Commit(shape.Set{a})
	m.Commit(shape.Set{a, b})
	if _, ok := m.Undo(); !ok {
		t.Fatalf("undo refused")
	}
	m.Commit(shape.Set{a, c})
	if m.CanRedo() {
		t.Fatalf("redo still available after new commit")
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo returned a discarded entry")
	}
	if got := m.Current().IDs(); !slices.Equal(got, []string{a.ID, c.ID}) {
		t.Fatalf("current = %v", got)
	}
	if m.Len() != 3 || m.Cursor() != 2 {
		t.Fatalf("len=%d cursor=%d, want 3 and 2", m.Len(), m.Cursor())
	}
}

func TestClearKeepsOneEmptySnapshot(t *testing.T) {
	m := New()
	m.Commit(shape.Set{mkShape(t, 1)})
	m.Clear()
	if m.Len() != 1 || m.Cursor() != 0 {
		t.Fatalf("len=%d cursor=%d after clear", m.Len(), m.Cursor())
	}
	if len(m.Current()) != 0 {
		t.Fatalf("current not empty after clear")
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo after clear should be a no-op")
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	m := New()
	set := shape.Set{mkShape(t, 1)}
	m.Commit(set)
	set[0].Style.Thickness = 9
	if m.Current()[0].Style.Thickness != 2 {
		t.Fatalf("commit stored a reference to the caller's set")
	}
	cur := m.Current()
	cur[0].Style.Thickness = 7
	if m.Current()[0].Style.Thickness != 2 {
		t.Fatalf("Current leaked internal storage")
	}
}
