package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"floorplan/internal/domain"
	"floorplan/internal/history"
	"floorplan/internal/layout"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Editor Service — undo/redo timelines and drag sessions
// ─────────────────────────────────────────────────────────────

// EditorService owns the per-plan undo timelines and the single active
// drag session. Stores only see committed state: drag frames live
// entirely in memory until the drag ends.
type EditorService struct {
	shapes  domain.ShapeStore
	plans   domain.PlanStore
	log     *storage.CommitLog
	emitter EventEmitter

	mu        sync.Mutex
	histories map[string]*history.Manager

	dragger  layout.Dragger
	dragPlan string // plan owning the active session
}

// NewEditorService creates an EditorService.
func NewEditorService(shapes domain.ShapeStore, plans domain.PlanStore, log *storage.CommitLog, emitter EventEmitter) *EditorService {
	return &EditorService{
		shapes:    shapes,
		plans:     plans,
		log:       log,
		emitter:   emitter,
		histories: make(map[string]*history.Manager),
	}
}

// HistoryState is what the frontend needs to draw undo/redo affordances.
type HistoryState struct {
	CanUndo   bool `json:"canUndo"`
	CanRedo   bool `json:"canRedo"`
	UndoDepth int  `json:"undoDepth"`
	RedoDepth int  `json:"redoDepth"`
}

// OpenPlan starts (or restarts) the undo timeline for a plan at its
// current stored state.
func (s *EditorService) OpenPlan(planID string) error {
	shapes, err := s.shapes.ListShapes(planID)
	if err != nil {
		return fmt.Errorf("open plan: %w", err)
	}
	snap := history.Snapshot{Shapes: shapes, Timestamp: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.histories[planID]; ok {
		m.Reset(snap)
	} else {
		s.histories[planID] = history.NewManager(snap)
	}
	return nil
}

// ClosePlan drops a plan's timeline. The commit log keeps the durable trail.
func (s *EditorService) ClosePlan(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, planID)
}

func (s *EditorService) manager(planID string) (*history.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.histories[planID]
	if !ok {
		return nil, fmt.Errorf("plan %s has no open editing session", planID)
	}
	return m, nil
}

// Commit records the plan's current stored state as one undoable edit.
// Call it after each completed operation (create, move, delete, align),
// never during transient interactions.
func (s *EditorService) Commit(ctx context.Context, planID, label, selectedID string) error {
	m, err := s.manager(planID)
	if err != nil {
		return err
	}
	shapes, err := s.shapes.ListShapes(planID)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	snap := history.Snapshot{
		Shapes:      shapes,
		SelectedID:  selectedID,
		Timestamp:   time.Now(),
		Description: label,
	}
	m.Commit(snap)
	s.persistCommit(planID, label, snap)
	s.emitHistory(ctx, planID, m)
	return nil
}

// persistCommit mirrors a commit into the durable log, bounded to the
// same depth as the in-memory timeline.
func (s *EditorService) persistCommit(planID, label string, snap history.Snapshot) {
	if s.log == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = s.log.Append(uuid.New().String(), planID, label, string(data), history.MaxPast)
}

// Undo steps the plan back one committed edit and syncs the store.
// With nothing left to undo it is a no-op returning the current state.
func (s *EditorService) Undo(ctx context.Context, planID string) (*domain.PlanState, error) {
	m, err := s.manager(planID)
	if err != nil {
		return nil, err
	}
	snap, ok := m.Undo()
	if !ok {
		return s.presentState(planID, m)
	}
	return s.applySnapshot(ctx, planID, m, snap)
}

// Redo reapplies the most recently undone edit and syncs the store.
// With nothing left to redo it is a no-op returning the current state.
func (s *EditorService) Redo(ctx context.Context, planID string) (*domain.PlanState, error) {
	m, err := s.manager(planID)
	if err != nil {
		return nil, err
	}
	snap, ok := m.Redo()
	if !ok {
		return s.presentState(planID, m)
	}
	return s.applySnapshot(ctx, planID, m, snap)
}

// presentState reads the timeline's present snapshot without touching
// the store or emitting events.
func (s *EditorService) presentState(planID string, m *history.Manager) (*domain.PlanState, error) {
	plan, err := s.plans.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	return &domain.PlanState{Plan: *plan, Shapes: m.Present().Shapes}, nil
}

func (s *EditorService) applySnapshot(ctx context.Context, planID string, m *history.Manager, snap history.Snapshot) (*domain.PlanState, error) {
	if err := s.shapes.ReplacePlanShapes(planID, snap.Shapes); err != nil {
		return nil, fmt.Errorf("apply snapshot: %w", err)
	}
	plan, err := s.plans.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, "shapes:replaced", map[string]any{
		"planId": planID,
		"shapes": snap.Shapes,
	})
	s.emitHistory(ctx, planID, m)
	return &domain.PlanState{Plan: *plan, Shapes: snap.Shapes}, nil
}

// History returns the undo/redo affordance state for a plan.
func (s *EditorService) History(planID string) (*HistoryState, error) {
	m, err := s.manager(planID)
	if err != nil {
		return nil, err
	}
	undo, redo := m.Depths()
	return &HistoryState{
		CanUndo:   m.CanUndo(),
		CanRedo:   m.CanRedo(),
		UndoDepth: undo,
		RedoDepth: redo,
	}, nil
}

func (s *EditorService) emitHistory(ctx context.Context, planID string, m *history.Manager) {
	undo, redo := m.Depths()
	s.emitter.Emit(ctx, "history:changed", map[string]any{
		"planId":    planID,
		"canUndo":   m.CanUndo(),
		"canRedo":   m.CanRedo(),
		"undoDepth": undo,
		"redoDepth": redo,
	})
}

// ── Drag sessions ──────────────────────────────────────────

// BeginDrag starts dragging a lead shape with optional followers. Only
// one drag can be active across the whole app.
func (s *EditorService) BeginDrag(planID, leadID string, followerIDs []string) error {
	plan, err := s.plans.GetPlan(planID)
	if err != nil {
		return err
	}
	lead, err := s.shapes.GetShape(leadID)
	if err != nil {
		return err
	}
	var followers []domain.Shape
	for _, id := range followerIDs {
		f, err := s.shapes.GetShape(id)
		if err != nil {
			return err
		}
		followers = append(followers, *f)
	}

	cfg := layout.DefaultConfig()
	cfg.GridSize = plan.GridSize
	cfg.SnapEnabled = plan.SnapEnabled
	cfg.GroupClamp = layout.PolicyOrDefault(plan.GroupClamp)

	if _, err := s.dragger.Begin(*lead, followers, cfg, layout.AreaForPlan(plan)); err != nil {
		return err
	}
	s.mu.Lock()
	s.dragPlan = planID
	s.mu.Unlock()
	return nil
}

// DragMove advances the active drag. The returned positions are
// transient: nothing is persisted and no history entry is created.
func (s *EditorService) DragMove(ctx context.Context, x, y float64) ([]layout.PositionChange, error) {
	sess := s.dragger.Active()
	if sess == nil {
		return nil, fmt.Errorf("no drag in progress")
	}
	changes := sess.Move(domain.Position{X: x, Y: y})
	s.emitter.Emit(ctx, "drag:moved", changes)
	return changes, nil
}

// EndDrag commits the drag: final positions are persisted and one
// history entry covers the whole gesture. A drag that went nowhere
// produces no commit.
func (s *EditorService) EndDrag(ctx context.Context) ([]layout.PositionChange, error) {
	sess := s.dragger.Active()
	if sess == nil {
		return nil, fmt.Errorf("no drag in progress")
	}
	defer s.dragger.Release(sess)

	changes := sess.End()
	if !sess.Moved() {
		return changes, nil
	}
	for _, ch := range changes {
		sh, err := s.shapes.GetShape(ch.ID)
		if err != nil {
			return nil, err
		}
		sh.Position = ch.Pos
		if err := s.shapes.UpdateShape(sh); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	planID := s.dragPlan
	s.mu.Unlock()
	if err := s.Commit(ctx, planID, "move "+sess.Lead(), sess.Lead()); err != nil {
		return nil, err
	}
	return changes, nil
}

// CancelDrag abandons the drag; every participant snaps back to its
// grab-time position and no history entry is created.
func (s *EditorService) CancelDrag(ctx context.Context) ([]layout.PositionChange, error) {
	sess := s.dragger.Active()
	if sess == nil {
		return nil, fmt.Errorf("no drag in progress")
	}
	defer s.dragger.Release(sess)

	changes := sess.Cancel()
	s.emitter.Emit(ctx, "drag:cancelled", changes)
	return changes, nil
}
