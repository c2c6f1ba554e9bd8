package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
	"floorplan/internal/layout"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Shape Service — business logic for floor plan shapes
// ─────────────────────────────────────────────────────────────

// ShapeService manages the lifecycle of shapes on a plan. Every
// position it persists has been through snap and boundary clamping for
// the owning plan's settings.
type ShapeService struct {
	store   *storage.ShapeStore
	plans   *storage.PlanStore
	emitter EventEmitter
}

// NewShapeService creates a ShapeService.
func NewShapeService(store *storage.ShapeStore, plans *storage.PlanStore, emitter EventEmitter) *ShapeService {
	return &ShapeService{store: store, plans: plans, emitter: emitter}
}

// planContext loads the settings the constraint engine needs for a plan.
func (s *ShapeService) planContext(planID string) (domain.BoundaryArea, layout.Config, error) {
	p, err := s.plans.GetPlan(planID)
	if err != nil {
		return domain.BoundaryArea{}, layout.Config{}, err
	}
	cfg := layout.DefaultConfig()
	cfg.GridSize = p.GridSize
	cfg.SnapEnabled = p.SnapEnabled
	cfg.GroupClamp = layout.PolicyOrDefault(p.GroupClamp)
	return layout.AreaForPlan(p), cfg, nil
}

// CreateShape creates a new shape on a plan. When pos is nil the shape
// is auto-placed in the first free slot. An explicit position outside
// the boundary is clamped, not rejected.
func (s *ShapeService) CreateShape(ctx context.Context, planID, kind, propsJSON string, pos *domain.Position) (*domain.Shape, error) {
	area, cfg, err := s.planContext(planID)
	if err != nil {
		return nil, err
	}

	sh := &domain.Shape{
		ID:        uuid.New().String(),
		PlanID:    planID,
		Kind:      domain.ShapeKind(kind),
		StyleJSON: "{}",
	}
	if err := sh.UnmarshalProps(propsJSON); err != nil {
		return nil, fmt.Errorf("create shape: %w", err)
	}

	if pos != nil {
		sh.Position = *pos
	} else {
		circ := geometry.Circumscribe(*sh)
		existing, err := s.store.ListShapes(planID)
		if err != nil {
			return nil, err
		}
		sh.Position = layout.NewPlacer(cfg.GridSize).NextPosition(existing, circ.Width, circ.Height, area)
	}
	if cfg.SnapEnabled && pos != nil {
		sh.Position = layout.SnapPosition(sh.Position, cfg.GridSize, area)
	}
	sh.Position = layout.ClampToBoundary(*sh, sh.Position, area)

	if err := s.store.CreateShape(sh); err != nil {
		return nil, fmt.Errorf("create shape: %w", err)
	}
	s.emitter.Emit(ctx, "shape:created", sh)
	return sh, nil
}

// CheckPlacement validates a candidate position without creating anything.
func (s *ShapeService) CheckPlacement(planID, kind, propsJSON string, pos domain.Position) (*layout.PlacementCheck, error) {
	area, _, err := s.planContext(planID)
	if err != nil {
		return nil, err
	}
	sh := domain.Shape{Kind: domain.ShapeKind(kind)}
	if err := sh.UnmarshalProps(propsJSON); err != nil {
		return nil, fmt.Errorf("check placement: %w", err)
	}
	check := layout.CheckPlacement(sh, pos, area)
	return &check, nil
}

// GetShape returns a shape by ID.
func (s *ShapeService) GetShape(id string) (*domain.Shape, error) {
	return s.store.GetShape(id)
}

// ListShapes returns all shapes for a plan.
func (s *ShapeService) ListShapes(planID string) ([]domain.Shape, error) {
	return s.store.ListShapes(planID)
}

// MoveShape moves a shape to a new center, applying snap then clamp.
func (s *ShapeService) MoveShape(ctx context.Context, id string, x, y float64) (*domain.Shape, error) {
	sh, err := s.store.GetShape(id)
	if err != nil {
		return nil, err
	}
	area, cfg, err := s.planContext(sh.PlanID)
	if err != nil {
		return nil, err
	}

	pos := domain.Position{X: x, Y: y}
	if cfg.SnapEnabled {
		pos = layout.SnapPosition(pos, cfg.GridSize, area)
	}
	sh.Position = layout.ClampToBoundary(*sh, pos, area)

	if err := s.store.UpdateShape(sh); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, "shape:moved", sh)
	return sh, nil
}

// UpdateShapeProps replaces a shape's variant properties (resize,
// rotate, text edits). The position is re-clamped because a new extent
// can push the circumscription past the boundary.
func (s *ShapeService) UpdateShapeProps(ctx context.Context, id, propsJSON string) (*domain.Shape, error) {
	sh, err := s.store.GetShape(id)
	if err != nil {
		return nil, err
	}
	if err := sh.UnmarshalProps(propsJSON); err != nil {
		return nil, fmt.Errorf("update shape props: %w", err)
	}
	area, _, err := s.planContext(sh.PlanID)
	if err != nil {
		return nil, err
	}
	sh.Position = layout.ClampToBoundary(*sh, sh.Position, area)

	if err := s.store.UpdateShape(sh); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, "shape:updated", sh)
	return sh, nil
}

// RotateShape sets the rotation of a rectangle or image shape.
func (s *ShapeService) RotateShape(ctx context.Context, id string, degrees float64) (*domain.Shape, error) {
	sh, err := s.store.GetShape(id)
	if err != nil {
		return nil, err
	}
	switch {
	case sh.Rect != nil:
		sh.Rect.RotationDeg = degrees
	case sh.Image != nil:
		sh.Image.RotationDeg = degrees
	default:
		return nil, fmt.Errorf("shape %s (%s) cannot rotate", id, sh.Kind)
	}
	area, _, err := s.planContext(sh.PlanID)
	if err != nil {
		return nil, err
	}
	sh.Position = layout.ClampToBoundary(*sh, sh.Position, area)

	if err := s.store.UpdateShape(sh); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, "shape:updated", sh)
	return sh, nil
}

// UpdateShapeStyle replaces the frontend style payload.
func (s *ShapeService) UpdateShapeStyle(id, styleJSON string) error {
	sh, err := s.store.GetShape(id)
	if err != nil {
		return err
	}
	sh.StyleJSON = styleJSON
	return s.store.UpdateShape(sh)
}

// DeleteShape removes a shape. Annotations referencing it are left in
// place; they resolve to nothing until retargeted.
func (s *ShapeService) DeleteShape(ctx context.Context, id string) error {
	if err := s.store.DeleteShape(id); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "shape:deleted", map[string]string{"id": id})
	return nil
}

// DuplicateShape copies a shape with a small diagonal offset so the
// copy is visibly distinct.
func (s *ShapeService) DuplicateShape(ctx context.Context, id string) (*domain.Shape, error) {
	src, err := s.store.GetShape(id)
	if err != nil {
		return nil, err
	}
	area, _, err := s.planContext(src.PlanID)
	if err != nil {
		return nil, err
	}

	dup := src.Clone()
	dup.ID = uuid.New().String()
	dup.Position = layout.OffsetForCopy(*src, area)

	if err := s.store.CreateShape(&dup); err != nil {
		return nil, fmt.Errorf("duplicate shape: %w", err)
	}
	s.emitter.Emit(ctx, "shape:created", &dup)
	return &dup, nil
}

// BatchMove translates a set of shapes by a common delta, clamping each
// member independently.
func (s *ShapeService) BatchMove(ctx context.Context, planID string, ids []string, dx, dy float64) ([]domain.Shape, error) {
	area, _, err := s.planContext(planID)
	if err != nil {
		return nil, err
	}

	var moved []domain.Shape
	for _, id := range ids {
		sh, err := s.store.GetShape(id)
		if err != nil {
			return nil, err
		}
		pos := domain.Position{X: sh.Position.X + dx, Y: sh.Position.Y + dy}
		sh.Position = layout.ClampToBoundary(*sh, pos, area)
		if err := s.store.UpdateShape(sh); err != nil {
			return nil, err
		}
		moved = append(moved, *sh)
	}
	s.emitter.Emit(ctx, "shapes:moved", moved)
	return moved, nil
}

// SwapShapes exchanges the positions of two shapes (a common seating
// operation: swap two tables without redrawing either).
func (s *ShapeService) SwapShapes(ctx context.Context, idA, idB string) error {
	a, err := s.store.GetShape(idA)
	if err != nil {
		return err
	}
	b, err := s.store.GetShape(idB)
	if err != nil {
		return err
	}
	area, _, err := s.planContext(a.PlanID)
	if err != nil {
		return err
	}

	a.Position, b.Position = b.Position, a.Position
	// Differently sized shapes can violate the boundary after a swap.
	a.Position = layout.ClampToBoundary(*a, a.Position, area)
	b.Position = layout.ClampToBoundary(*b, b.Position, area)

	if err := s.store.UpdateShape(a); err != nil {
		return err
	}
	if err := s.store.UpdateShape(b); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "shapes:moved", []domain.Shape{*a, *b})
	return nil
}

// AlignShapes aligns a selection to its first alignable member and
// persists the resulting positions (clamped).
func (s *ShapeService) AlignShapes(ctx context.Context, planID string, ids []string, alignment string) ([]domain.Shape, error) {
	area, _, err := s.planContext(planID)
	if err != nil {
		return nil, err
	}

	members := make([]domain.Shape, 0, len(ids))
	byID := make(map[string]*domain.Shape, len(ids))
	for _, id := range ids {
		sh, err := s.store.GetShape(id)
		if err != nil {
			return nil, err
		}
		members = append(members, *sh)
		byID[id] = sh
	}

	changes, err := layout.Align(members, layout.Alignment(alignment))
	if err != nil {
		return nil, err
	}

	var moved []domain.Shape
	for _, ch := range changes {
		sh := byID[ch.ID]
		sh.Position = layout.ClampToBoundary(*sh, ch.Pos, area)
		if err := s.store.UpdateShape(sh); err != nil {
			return nil, err
		}
		moved = append(moved, *sh)
	}
	s.emitter.Emit(ctx, "shapes:moved", moved)
	return moved, nil
}

// MeasureShapes returns the gap measurement between two shapes.
func (s *ShapeService) MeasureShapes(idA, idB string) (*geometry.PairMeasure, error) {
	a, err := s.store.GetShape(idA)
	if err != nil {
		return nil, err
	}
	b, err := s.store.GetShape(idB)
	if err != nil {
		return nil, err
	}
	m := geometry.MeasurePair(geometry.Circumscribe(*a), geometry.Circumscribe(*b))
	return &m, nil
}

// CreateAnnotation creates a scale annotation between two shapes.
func (s *ShapeService) CreateAnnotation(ctx context.Context, planID, firstID, secondID string) (*domain.Shape, error) {
	for _, id := range []string{firstID, secondID} {
		if _, err := s.store.GetShape(id); err != nil {
			return nil, fmt.Errorf("annotation target %s: %w", id, err)
		}
	}
	sh := &domain.Shape{
		ID:        uuid.New().String(),
		PlanID:    planID,
		Kind:      domain.ShapeKindScale,
		Scale:     &domain.ScaleProps{FirstID: firstID, SecondID: secondID},
		StyleJSON: "{}",
	}
	if err := s.store.CreateShape(sh); err != nil {
		return nil, fmt.Errorf("create annotation: %w", err)
	}
	s.emitter.Emit(ctx, "shape:created", sh)
	return sh, nil
}

// ResolveAnnotation computes the render geometry of a scale annotation
// against the current shape collection. ok is false when either
// referenced shape is gone.
func (s *ShapeService) ResolveAnnotation(annotationID string) (*geometry.AnnotationGeometry, bool, error) {
	ann, err := s.store.GetShape(annotationID)
	if err != nil {
		return nil, false, err
	}
	shapes, err := s.store.ListShapes(ann.PlanID)
	if err != nil {
		return nil, false, err
	}
	index := make(map[string]domain.Shape, len(shapes))
	for _, sh := range shapes {
		index[sh.ID] = sh
	}
	geo, ok := geometry.ResolveAnnotation(*ann, func(id string) (domain.Shape, bool) {
		sh, ok := index[id]
		return sh, ok
	})
	if !ok {
		return nil, false, nil
	}
	return &geo, true, nil
}
