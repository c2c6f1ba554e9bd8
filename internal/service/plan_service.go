package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"floorplan/internal/diagram"
	"floorplan/internal/domain"
	"floorplan/internal/geometry"
	"floorplan/internal/layout"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Plan Service — venues, plans, viewport and diagram state
// ─────────────────────────────────────────────────────────────

// PlanService manages venues and their floor plans.
type PlanService struct {
	store   *storage.PlanStore
	shapes  *storage.ShapeStore
	dataDir string
	emitter EventEmitter
}

// NewPlanService creates a PlanService. dataDir is where imported SVG
// diagrams are copied.
func NewPlanService(store *storage.PlanStore, shapes *storage.ShapeStore, dataDir string, emitter EventEmitter) *PlanService {
	return &PlanService{store: store, shapes: shapes, dataDir: dataDir, emitter: emitter}
}

// ── Venues ─────────────────────────────────────────────────

func (s *PlanService) CreateVenue(name, address string) (*domain.Venue, error) {
	v := &domain.Venue{ID: uuid.New().String(), Name: name, Address: address}
	if err := s.store.CreateVenue(v); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}
	return v, nil
}

func (s *PlanService) GetVenue(id string) (*domain.Venue, error) {
	return s.store.GetVenue(id)
}

func (s *PlanService) ListVenues() ([]domain.Venue, error) {
	return s.store.ListVenues()
}

func (s *PlanService) RenameVenue(id, name, address string) error {
	v, err := s.store.GetVenue(id)
	if err != nil {
		return err
	}
	v.Name = name
	v.Address = address
	return s.store.UpdateVenue(v)
}

// DeleteVenue removes a venue with all its plans and shapes.
func (s *PlanService) DeleteVenue(id string) error {
	plans, err := s.store.ListPlans(id)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if err := s.shapes.DeleteShapesByPlan(p.ID); err != nil {
			return err
		}
	}
	if err := s.store.DeletePlansByVenue(id); err != nil {
		return err
	}
	return s.store.DeleteVenue(id)
}

// ── Plans ──────────────────────────────────────────────────

func (s *PlanService) CreatePlan(venueID, name string) (*domain.Plan, error) {
	p := &domain.Plan{
		ID:           uuid.New().String(),
		VenueID:      venueID,
		Name:         name,
		ViewportZoom: 1.0,
		GridSize:     layout.DefaultGridSize,
		SnapEnabled:  true,
		GroupClamp:   string(layout.ClampLeadOnly),
	}
	if err := s.store.CreatePlan(p); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return p, nil
}

func (s *PlanService) GetPlan(id string) (*domain.Plan, error) {
	return s.store.GetPlan(id)
}

func (s *PlanService) ListPlans(venueID string) ([]domain.Plan, error) {
	return s.store.ListPlans(venueID)
}

// GetPlanState returns the plan and its shapes in one call.
func (s *PlanService) GetPlanState(id string) (*domain.PlanState, error) {
	p, err := s.store.GetPlan(id)
	if err != nil {
		return nil, err
	}
	shapes, err := s.shapes.ListShapes(id)
	if err != nil {
		return nil, err
	}
	return &domain.PlanState{Plan: *p, Shapes: shapes}, nil
}

func (s *PlanService) RenamePlan(id, name string) error {
	p, err := s.store.GetPlan(id)
	if err != nil {
		return err
	}
	p.Name = name
	return s.store.UpdatePlan(p)
}

func (s *PlanService) DeletePlan(id string) error {
	if err := s.shapes.DeleteShapesByPlan(id); err != nil {
		return err
	}
	return s.store.DeletePlan(id)
}

// ── Viewport and editor settings ───────────────────────────

// SaveViewport persists pan and zoom. Viewport changes are transient
// from the undo timeline's point of view, so this writes the plan row
// directly and never touches history.
func (s *PlanService) SaveViewport(id string, panX, panY, zoom float64) error {
	p, err := s.store.GetPlan(id)
	if err != nil {
		return err
	}
	p.ViewportX = panX
	p.ViewportY = panY
	p.ViewportZoom = geometry.ClampZoom(zoom)
	return s.store.UpdatePlan(p)
}

// UpdateEditorSettings sets grid pitch, snap, and the group clamp
// policy for a plan. An empty groupClamp keeps the stored policy.
func (s *PlanService) UpdateEditorSettings(id string, gridSize float64, snapEnabled bool, groupClamp string) error {
	if gridSize <= 0 {
		return fmt.Errorf("grid size must be positive, got %g", gridSize)
	}
	if groupClamp != "" && layout.PolicyOrDefault(groupClamp) != layout.GroupClampPolicy(groupClamp) {
		return fmt.Errorf("unknown group clamp policy %q", groupClamp)
	}
	p, err := s.store.GetPlan(id)
	if err != nil {
		return err
	}
	p.GridSize = gridSize
	p.SnapEnabled = snapEnabled
	if groupClamp != "" {
		p.GroupClamp = groupClamp
	}
	return s.store.UpdatePlan(p)
}

// SetBoundary sets (or clears, when area is nil) the plan's placement
// region. The boundary must lie within the diagram extent.
func (s *PlanService) SetBoundary(ctx context.Context, id string, area *domain.BoundaryArea) error {
	p, err := s.store.GetPlan(id)
	if err != nil {
		return err
	}
	if area != nil {
		if area.Width <= 0 || area.Height <= 0 {
			return fmt.Errorf("boundary extent must be positive")
		}
		if p.DiagramWidth > 0 && (area.X < 0 || area.Y < 0 ||
			area.X+area.Width > p.DiagramWidth || area.Y+area.Height > p.DiagramHeight) {
			return fmt.Errorf("boundary exceeds diagram extent %gx%g", p.DiagramWidth, p.DiagramHeight)
		}
	}
	p.Boundary = area
	if err := s.store.UpdatePlan(p); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "plan:boundary-changed", p)
	return nil
}

// ── Background diagram ─────────────────────────────────────

// AttachDiagram copies an SVG file into the data directory, extracts
// its extent, and links it to the plan. Existing shapes keep their
// positions; the caller decides whether they still make sense.
func (s *PlanService) AttachDiagram(ctx context.Context, planID, svgPath string) (*domain.Plan, error) {
	p, err := s.store.GetPlan(planID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(svgPath)
	if err != nil {
		return nil, fmt.Errorf("read diagram: %w", err)
	}
	info, err := diagram.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("diagram %s: %w", filepath.Base(svgPath), err)
	}

	dir := filepath.Join(s.dataDir, "diagrams")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("mkdir diagrams: %w", err)
	}
	dst := filepath.Join(dir, planID+".svg")
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, fmt.Errorf("copy diagram: %w", err)
	}

	p.SVGPath = dst
	p.DiagramWidth = info.Width
	p.DiagramHeight = info.Height
	if err := s.store.UpdatePlan(p); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, "plan:diagram-changed", p)
	return p, nil
}

// DiagramData returns the linked SVG document, empty when none is set.
func (s *PlanService) DiagramData(planID string) (string, error) {
	p, err := s.store.GetPlan(planID)
	if err != nil {
		return "", err
	}
	if p.SVGPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(p.SVGPath)
	if err != nil {
		return "", fmt.Errorf("read diagram: %w", err)
	}
	return string(data), nil
}

// Fit computes the base scale and resulting viewport for a canvas size.
// Nothing is persisted: base scale is derived state.
func (s *PlanService) Fit(planID string, canvasW, canvasH float64) (*geometry.Viewport, error) {
	p, err := s.store.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	return &geometry.Viewport{
		BaseScale:     geometry.FitScale(p.DiagramWidth, p.DiagramHeight, canvasW, canvasH),
		UserZoom:      geometry.ClampZoom(p.ViewportZoom),
		PanX:          p.ViewportX,
		PanY:          p.ViewportY,
		CanvasWidth:   canvasW,
		CanvasHeight:  canvasH,
		DiagramWidth:  p.DiagramWidth,
		DiagramHeight: p.DiagramHeight,
	}, nil
}
