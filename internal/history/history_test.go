package history

import (
	"fmt"
	"testing"

	"floorplan/internal/domain"
)

func snap(ids ...string) Snapshot {
	s := Snapshot{}
	for _, id := range ids {
		s.Shapes = append(s.Shapes, domain.Shape{
			ID:   id,
			Kind: domain.ShapeKindRectangle,
			Rect: &domain.RectProps{Width: 100, Height: 100},
		})
	}
	return s
}

func ids(s Snapshot) []string {
	out := make([]string, len(s.Shapes))
	for i, sh := range s.Shapes {
		out[i] = sh.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestManager_UndoRestoresPreCommit(t *testing.T) {
	m := NewManager(snap("a"))
	m.Commit(snap("a", "b"))

	got, ok := m.Undo()
	if !ok {
		t.Fatal("Undo returned false")
	}
	if !equalIDs(ids(got), []string{"a"}) {
		t.Errorf("undo state = %v, want [a]", ids(got))
	}
	if !m.CanRedo() {
		t.Error("CanRedo false after undo")
	}
}

func TestManager_RedoReapplies(t *testing.T) {
	m := NewManager(snap("a"))
	m.Commit(snap("a", "b"))
	m.Undo()

	got, ok := m.Redo()
	if !ok {
		t.Fatal("Redo returned false")
	}
	if !equalIDs(ids(got), []string{"a", "b"}) {
		t.Errorf("redo state = %v, want [a b]", ids(got))
	}
	if m.CanRedo() {
		t.Error("CanRedo true after exhausting future")
	}
}

func TestManager_CommitClearsFuture(t *testing.T) {
	m := NewManager(snap("a"))
	m.Commit(snap("a", "b"))
	m.Undo()
	m.Commit(snap("a", "c"))

	if m.CanRedo() {
		t.Error("redo branch survived a new commit")
	}
	got, _ := m.Undo()
	if !equalIDs(ids(got), []string{"a"}) {
		t.Errorf("undo after branch = %v, want [a]", ids(got))
	}
}

func TestManager_AddDeleteUndoUndoRedo(t *testing.T) {
	// add x → delete x → undo (x back) → undo (x gone) → redo (x back).
	m := NewManager(snap())
	m.Commit(snap("x"))
	m.Commit(snap())

	got, _ := m.Undo()
	if !equalIDs(ids(got), []string{"x"}) {
		t.Fatalf("first undo = %v, want [x]", ids(got))
	}
	got, _ = m.Undo()
	if len(got.Shapes) != 0 {
		t.Fatalf("second undo = %v, want empty", ids(got))
	}
	got, _ = m.Redo()
	if !equalIDs(ids(got), []string{"x"}) {
		t.Fatalf("redo = %v, want [x]", ids(got))
	}
}

func TestManager_EvictsOldestBeyondLimit(t *testing.T) {
	m := NewManager(snap("s0"))
	for i := 1; i <= MaxPast+1; i++ {
		m.Commit(snap(fmt.Sprintf("s%d", i)))
	}

	undo, redo := m.Depths()
	if undo != MaxPast || redo != 0 {
		t.Fatalf("depths = (%d, %d), want (%d, 0)", undo, redo, MaxPast)
	}

	// Walking all the way back lands on s1: s0 was evicted.
	var last Snapshot
	for m.CanUndo() {
		last, _ = m.Undo()
	}
	if !equalIDs(ids(last), []string{"s1"}) {
		t.Errorf("oldest reachable state = %v, want [s1]", ids(last))
	}
}

func TestManager_SnapshotsAreIsolated(t *testing.T) {
	src := snap("a")
	m := NewManager(src)
	src.Shapes[0].Position.X = 999

	if got := m.Present(); got.Shapes[0].Position.X != 0 {
		t.Error("manager shares memory with the committed snapshot")
	}

	out := m.Present()
	out.Shapes[0].Position.X = 777
	if got := m.Present(); got.Shapes[0].Position.X != 0 {
		t.Error("returned snapshot aliases manager state")
	}
}

func TestManager_UndoOnEmptyPast(t *testing.T) {
	m := NewManager(snap("a"))
	if _, ok := m.Undo(); ok {
		t.Error("Undo succeeded with empty past")
	}
	if _, ok := m.Redo(); ok {
		t.Error("Redo succeeded with empty future")
	}
}

func TestManager_ResetDiscardsTimeline(t *testing.T) {
	m := NewManager(snap("a"))
	m.Commit(snap("a", "b"))
	m.Reset(snap("z"))

	if m.CanUndo() || m.CanRedo() {
		t.Error("timeline survived Reset")
	}
	if !equalIDs(ids(m.Present()), []string{"z"}) {
		t.Errorf("present after reset = %v, want [z]", ids(m.Present()))
	}
}
