package service_test

import (
	"context"
	"fmt"
	"testing"

	"floorplan/internal/domain"
	"floorplan/internal/service"
)

// ─────────────────────────────────────────────────────────────
// EditorService unit tests
// Runs against in-memory stores; no SQLite involved.
// ─────────────────────────────────────────────────────────────

// memShapeStore is a map-backed domain.ShapeStore.
type memShapeStore struct {
	shapes map[string]domain.Shape
	order  []string
}

func newMemShapeStore() *memShapeStore {
	return &memShapeStore{shapes: make(map[string]domain.Shape)}
}

func (m *memShapeStore) CreateShape(s *domain.Shape) error {
	if _, ok := m.shapes[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	m.shapes[s.ID] = *s
	return nil
}

func (m *memShapeStore) GetShape(id string) (*domain.Shape, error) {
	s, ok := m.shapes[id]
	if !ok {
		return nil, fmt.Errorf("shape %s not found", id)
	}
	return &s, nil
}

func (m *memShapeStore) ListShapes(planID string) ([]domain.Shape, error) {
	var out []domain.Shape
	for _, id := range m.order {
		if s := m.shapes[id]; s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memShapeStore) UpdateShape(s *domain.Shape) error {
	if _, ok := m.shapes[s.ID]; !ok {
		return fmt.Errorf("shape %s not found", s.ID)
	}
	m.shapes[s.ID] = *s
	return nil
}

func (m *memShapeStore) DeleteShape(id string) error {
	delete(m.shapes, id)
	return nil
}

func (m *memShapeStore) DeleteShapesByPlan(planID string) error {
	for id, s := range m.shapes {
		if s.PlanID == planID {
			delete(m.shapes, id)
		}
	}
	return nil
}

func (m *memShapeStore) ReplacePlanShapes(planID string, shapes []domain.Shape) error {
	if err := m.DeleteShapesByPlan(planID); err != nil {
		return err
	}
	m.order = nil
	for i := range shapes {
		if err := m.CreateShape(&shapes[i]); err != nil {
			return err
		}
	}
	return nil
}

// memPlanStore is a map-backed domain.PlanStore.
type memPlanStore struct {
	plans map[string]domain.Plan
}

func newMemPlanStore() *memPlanStore {
	return &memPlanStore{plans: make(map[string]domain.Plan)}
}

func (m *memPlanStore) CreateVenue(v *domain.Venue) error         { return nil }
func (m *memPlanStore) GetVenue(id string) (*domain.Venue, error) { return nil, fmt.Errorf("no venue") }
func (m *memPlanStore) ListVenues() ([]domain.Venue, error)       { return nil, nil }
func (m *memPlanStore) UpdateVenue(v *domain.Venue) error         { return nil }
func (m *memPlanStore) DeleteVenue(id string) error               { return nil }

func (m *memPlanStore) CreatePlan(p *domain.Plan) error {
	m.plans[p.ID] = *p
	return nil
}

func (m *memPlanStore) GetPlan(id string) (*domain.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, fmt.Errorf("plan %s not found", id)
	}
	return &p, nil
}

func (m *memPlanStore) ListPlans(venueID string) ([]domain.Plan, error) { return nil, nil }
func (m *memPlanStore) UpdatePlan(p *domain.Plan) error {
	m.plans[p.ID] = *p
	return nil
}
func (m *memPlanStore) DeletePlan(id string) error              { return nil }
func (m *memPlanStore) DeletePlansByVenue(venueID string) error { return nil }

func TestEditorService_RequiresOpenSession(t *testing.T) {
	emitter := &service.MockEmitter{}
	svc := service.NewEditorService(nil, nil, nil, emitter)
	ctx := context.Background()

	if _, err := svc.Undo(ctx, "plan-1"); err == nil {
		t.Error("Undo without OpenPlan must fail")
	}
	if _, err := svc.Redo(ctx, "plan-1"); err == nil {
		t.Error("Redo without OpenPlan must fail")
	}
	if _, err := svc.History("plan-1"); err == nil {
		t.Error("History without OpenPlan must fail")
	}
	if err := svc.Commit(ctx, "plan-1", "edit", ""); err == nil {
		t.Error("Commit without OpenPlan must fail")
	}
}

func TestEditorService_DragWithoutSession(t *testing.T) {
	emitter := &service.MockEmitter{}
	svc := service.NewEditorService(nil, nil, nil, emitter)
	ctx := context.Background()

	if _, err := svc.DragMove(ctx, 100, 100); err == nil {
		t.Error("DragMove without an active drag must fail")
	}
	if _, err := svc.EndDrag(ctx); err == nil {
		t.Error("EndDrag without an active drag must fail")
	}
	if _, err := svc.CancelDrag(ctx); err == nil {
		t.Error("CancelDrag without an active drag must fail")
	}
}

func TestEditorService_UndoRedoAtTimelineEdgesIsNoOp(t *testing.T) {
	plans := newMemPlanStore()
	shapes := newMemShapeStore()
	_ = plans.CreatePlan(&domain.Plan{ID: "plan-1", Name: "Hall A"})
	_ = shapes.CreateShape(&domain.Shape{
		ID: "s1", PlanID: "plan-1", Kind: domain.ShapeKindRectangle,
		Position: domain.Position{X: 100, Y: 100},
		Rect:     &domain.RectProps{Width: 200, Height: 100},
	})

	emitter := &service.MockEmitter{}
	svc := service.NewEditorService(shapes, plans, nil, emitter)
	ctx := context.Background()

	if err := svc.OpenPlan("plan-1"); err != nil {
		t.Fatalf("OpenPlan: %v", err)
	}

	// Fresh timeline: nothing to undo, nothing to redo. Both calls must
	// succeed and hand back the unchanged state.
	state, err := svc.Undo(ctx, "plan-1")
	if err != nil {
		t.Fatalf("Undo on empty timeline: %v", err)
	}
	if len(state.Shapes) != 1 || state.Shapes[0].Position.X != 100 {
		t.Errorf("empty undo changed state: %+v", state.Shapes)
	}
	if state, err = svc.Redo(ctx, "plan-1"); err != nil {
		t.Fatalf("Redo on empty timeline: %v", err)
	}
	if len(state.Shapes) != 1 {
		t.Errorf("empty redo changed state: %+v", state.Shapes)
	}

	// One committed move: the single undo works, the second stays put.
	s, _ := shapes.GetShape("s1")
	s.Position = domain.Position{X: 300, Y: 200}
	_ = shapes.UpdateShape(s)
	if err := svc.Commit(ctx, "plan-1", "move s1", "s1"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if state, err = svc.Undo(ctx, "plan-1"); err != nil {
		t.Fatalf("first Undo: %v", err)
	}
	if state.Shapes[0].Position.X != 100 {
		t.Errorf("undo position X = %.1f, want 100", state.Shapes[0].Position.X)
	}
	if state, err = svc.Undo(ctx, "plan-1"); err != nil {
		t.Fatalf("Undo past the floor: %v", err)
	}
	if state.Shapes[0].Position.X != 100 {
		t.Errorf("floor undo moved the shape to X = %.1f", state.Shapes[0].Position.X)
	}

	// The floor no-op must not disturb the redo stack.
	if state, err = svc.Redo(ctx, "plan-1"); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if state.Shapes[0].Position.X != 300 {
		t.Errorf("redo position X = %.1f, want 300", state.Shapes[0].Position.X)
	}
	if state, err = svc.Redo(ctx, "plan-1"); err != nil {
		t.Fatalf("Redo past the tip: %v", err)
	}
	if state.Shapes[0].Position.X != 300 {
		t.Errorf("tip redo moved the shape to X = %.1f", state.Shapes[0].Position.X)
	}
}

func TestPlanService_UpdateEditorSettingsValidation(t *testing.T) {
	svc := service.NewPlanService(nil, nil, "", &service.MockEmitter{})

	if err := svc.UpdateEditorSettings("p1", 0, true, ""); err == nil {
		t.Error("zero grid size accepted")
	}
	if err := svc.UpdateEditorSettings("p1", 25, true, "bogus"); err == nil {
		t.Error("unknown group clamp policy accepted")
	}
}

func TestEditorService_ClosePlanIsIdempotent(t *testing.T) {
	emitter := &service.MockEmitter{}
	svc := service.NewEditorService(nil, nil, nil, emitter)

	svc.ClosePlan("never-opened")
	svc.ClosePlan("never-opened")
}
