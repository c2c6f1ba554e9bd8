package history

import (
	"time"

	"floorplan/internal/domain"
)

// MaxPast bounds the undo depth. When a commit would exceed it the
// oldest snapshot is evicted, so very long sessions stay O(1) in memory.
const MaxPast = 50

// Snapshot is one point-in-time copy of a plan's shape collection plus
// the selection, so undo restores what the user was looking at.
type Snapshot struct {
	Shapes      []domain.Shape `json:"shapes"`
	SelectedID  string         `json:"selectedId,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Shapes = domain.CloneShapes(s.Shapes)
	return out
}

// Manager holds the undo/redo timeline for one plan: a bounded past,
// the present, and a future that survives until the next commit.
// Transient state (drag frames, viewport changes) never passes through
// here — only committed edits do.
type Manager struct {
	past    []Snapshot
	present Snapshot
	future  []Snapshot
	primed  bool
}

// NewManager starts a timeline at the given state with empty past and
// future.
func NewManager(initial Snapshot) *Manager {
	return &Manager{present: initial.clone(), primed: true}
}

// Commit pushes the current present into the past, adopts the new
// state, and discards any redo branch. Snapshots are deep-copied on the
// way in so later mutations by the caller can't corrupt the timeline.
func (m *Manager) Commit(next Snapshot) {
	if !m.primed {
		m.present = next.clone()
		m.primed = true
		return
	}
	m.past = append(m.past, m.present)
	if len(m.past) > MaxPast {
		m.past = m.past[len(m.past)-MaxPast:]
	}
	m.present = next.clone()
	m.future = nil
}

// CanUndo reports whether an earlier state exists.
func (m *Manager) CanUndo() bool { return len(m.past) > 0 }

// CanRedo reports whether an undone state can be reapplied.
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Undo steps back one committed state. The second return is false when
// there is nothing to undo.
func (m *Manager) Undo() (Snapshot, bool) {
	if len(m.past) == 0 {
		return Snapshot{}, false
	}
	m.future = append(m.future, m.present)
	m.present = m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	return m.present.clone(), true
}

// Redo reapplies the most recently undone state.
func (m *Manager) Redo() (Snapshot, bool) {
	if len(m.future) == 0 {
		return Snapshot{}, false
	}
	m.past = append(m.past, m.present)
	m.present = m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	return m.present.clone(), true
}

// Present returns a copy of the current state.
func (m *Manager) Present() Snapshot { return m.present.clone() }

// Depths reports (undoable, redoable) counts for UI affordances.
func (m *Manager) Depths() (int, int) { return len(m.past), len(m.future) }

// Reset discards the whole timeline and restarts it at the given state.
// Used when a different plan is opened or a project import replaces
// everything.
func (m *Manager) Reset(initial Snapshot) {
	m.past = nil
	m.future = nil
	m.present = initial.clone()
	m.primed = true
}
