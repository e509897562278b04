// Package history keeps the undo/redo stack of shape snapshots.
package history

import "github.com/example/annotate/internal/shape"

// Manager is a linear undo stack. It always holds at least one snapshot.
type Manager struct {
	entries []shape.Set
	cursor  int
}

// New returns a manager holding a single empty snapshot.
func New() *Manager {
	m := &Manager{}
	m.Clear()
	return m
}

// Commit drops any redo entries and records set as the newest snapshot.
func (m *Manager) Commit(set shape.Set) {
	m.entries = append(m.entries[:m.cursor+1], set.Clone())
	m.cursor = len(m.entries) - 1
}

// Undo steps back one snapshot. It reports false when already at the start.
func (m *Manager) Undo() (shape.Set, bool) {
	if m.cursor == 0 {
		return nil, false
	}
	m.cursor--
	return m.entries[m.cursor].Clone(), true
}

// Redo steps forward one snapshot. It reports false when nothing was undone.
func (m *Manager) Redo() (shape.Set, bool) {
	if m.cursor >= len(m.entries)-1 {
		return nil, false
	}
	m.cursor++
	return m.entries[m.cursor].Clone(), true
}

// Clear resets to a single empty snapshot.
func (m *Manager) Clear() {
	m.entries = []shape.Set{{}}
	m.cursor = 0
}

// Current returns a copy of the snapshot under the cursor.
func (m *Manager) Current() shape.Set { return m.entries[m.cursor].Clone() }

func (m *Manager) CanUndo() bool { return m.cursor > 0 }
func (m *Manager) CanRedo() bool { return m.cursor < len(m.entries)-1 }

// Len is the number of snapshots held.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor is the index of the current snapshot.
func (m *Manager) Cursor() int { return m.cursor }
