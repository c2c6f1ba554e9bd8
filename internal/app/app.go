package app

import (
	"context"
	"os"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
	"floorplan/internal/layout"
	mcpserver "floorplan/internal/mcp"
	"floorplan/internal/secret"
	"floorplan/internal/service"
	"floorplan/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db       *storage.DB
	plans    *service.PlanService
	shapes   *service.ShapeService
	editor   *service.EditorService
	projects *service.ProjectService
	library  *service.LibraryService
	autosave *service.AutosaveService
	window   *service.WindowSettingsService

	mcpSrv  *mcpserver.Server
	watcher *planWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Emit implements the EventEmitter interface used by the service and
// MCP layers, forwarding events to the Wails frontend.
func (a *App) Emit(ctx context.Context, event string, data any) {
	if a.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(a.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "floorplan")
	dbPath := filepath.Join(dataDir, "floorplan.db")

	db, err := storage.New(dbPath, dataDir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	planStore := storage.NewPlanStore(db)
	shapeStore := storage.NewShapeStore(db)
	commitLog := storage.NewCommitLog(db)
	libStore := storage.NewLibraryStore(db)
	secrets := secret.NewKeychainStore()

	a.plans = service.NewPlanService(planStore, shapeStore, dataDir, a)
	a.shapes = service.NewShapeService(shapeStore, planStore, a)
	a.editor = service.NewEditorService(shapeStore, planStore, commitLog, a)
	a.projects = service.NewProjectService(planStore, shapeStore, a.editor, a)
	a.library = service.NewLibraryService(libStore, secrets, a.projects)
	a.autosave = service.NewAutosaveService(planStore, a.projects, dataDir, a)
	a.window = service.NewWindowSettingsService(db)

	if err := a.autosave.Start(ctx, ""); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start autosave: %v", err)
	}

	// In-process MCP server (approval flows through Wails events)
	a.mcpSrv = mcpserver.New(ctx, mcpserver.Deps{
		Emitter:  a,
		Plans:    a.plans,
		Shapes:   a.shapes,
		Editor:   a.editor,
		Projects: a.projects,
		Library:  a.library,
	})

	// Poll for external edits made by a standalone MCP process
	a.watcher = newPlanWatcher(ctx, a)
	a.watcher.Start()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.autosave != nil {
		a.autosave.Stop()
	}
	if a.projects != nil {
		a.projects.Stop()
		a.projects.WaitRunning(ctx)
	}
	if a.library != nil {
		a.library.CloseAll()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ============================================================
// Venues and Plans
// ============================================================

func (a *App) ListVenues() ([]domain.Venue, error) {
	return a.plans.ListVenues()
}

func (a *App) CreateVenue(name, address string) (*domain.Venue, error) {
	return a.plans.CreateVenue(name, address)
}

func (a *App) RenameVenue(id, name, address string) error {
	return a.plans.RenameVenue(id, name, address)
}

func (a *App) DeleteVenue(id string) error {
	return a.plans.DeleteVenue(id)
}

func (a *App) ListPlans(venueID string) ([]domain.Plan, error) {
	return a.plans.ListPlans(venueID)
}

func (a *App) CreatePlan(venueID, name string) (*domain.Plan, error) {
	return a.plans.CreatePlan(venueID, name)
}

func (a *App) RenamePlan(id, name string) error {
	return a.plans.RenamePlan(id, name)
}

func (a *App) DeletePlan(id string) error {
	a.editor.ClosePlan(id)
	a.autosave.Untrack(id)
	return a.plans.DeletePlan(id)
}

// OpenPlan loads a plan for editing: returns its full state and starts
// the undo timeline and autosave tracking.
func (a *App) OpenPlan(id string) (*domain.PlanState, error) {
	state, err := a.plans.GetPlanState(id)
	if err != nil {
		return nil, err
	}
	if err := a.editor.OpenPlan(id); err != nil {
		return nil, err
	}
	a.autosave.Track(id)
	a.watcher.SetPlan(id, state.Plan.VenueID)
	return state, nil
}

// ClosePlan ends the editing session for a plan.
func (a *App) ClosePlan(id string) {
	a.editor.ClosePlan(id)
	a.autosave.Untrack(id)
}

func (a *App) GetPlanState(id string) (*domain.PlanState, error) {
	return a.plans.GetPlanState(id)
}

// ============================================================
// Viewport and editor settings
// ============================================================

func (a *App) SaveViewport(planID string, panX, panY, zoom float64) error {
	return a.plans.SaveViewport(planID, panX, panY, zoom)
}

func (a *App) UpdateEditorSettings(planID string, gridSize float64, snapEnabled bool, groupClamp string) error {
	return a.plans.UpdateEditorSettings(planID, gridSize, snapEnabled, groupClamp)
}

func (a *App) SetBoundary(planID string, area *domain.BoundaryArea) error {
	return a.plans.SetBoundary(a.ctx, planID, area)
}

// FitViewport returns the viewport that fits the plan's diagram into a
// canvas of the given size.
func (a *App) FitViewport(planID string, canvasW, canvasH float64) (*geometry.Viewport, error) {
	return a.plans.Fit(planID, canvasW, canvasH)
}

// ToDomain converts a pointer position in canvas pixels to domain mm.
func (a *App) ToDomain(v geometry.Viewport, x, y float64) domain.Position {
	return v.ToDomain(domain.Position{X: x, Y: y})
}

// ToDisplay converts a domain position to canvas pixels.
func (a *App) ToDisplay(v geometry.Viewport, x, y float64) domain.Position {
	return v.ToDisplay(domain.Position{X: x, Y: y})
}

func (a *App) ClampZoom(zoom float64) float64 {
	return geometry.ClampZoom(zoom)
}

// ============================================================
// Background diagram
// ============================================================

func (a *App) AttachDiagram(planID, svgPath string) (*domain.Plan, error) {
	return a.plans.AttachDiagram(a.ctx, planID, svgPath)
}

func (a *App) DiagramData(planID string) (string, error) {
	return a.plans.DiagramData(planID)
}

// ============================================================
// Shapes
// ============================================================

func (a *App) CreateShape(planID, kind, propsJSON string, pos *domain.Position) (*domain.Shape, error) {
	sh, err := a.shapes.CreateShape(a.ctx, planID, kind, propsJSON, pos)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, planID, "create "+kind, sh.ID)
	return sh, nil
}

func (a *App) GetShape(id string) (*domain.Shape, error) {
	return a.shapes.GetShape(id)
}

func (a *App) ListShapes(planID string) ([]domain.Shape, error) {
	return a.shapes.ListShapes(planID)
}

func (a *App) MoveShape(id string, x, y float64) (*domain.Shape, error) {
	sh, err := a.shapes.MoveShape(a.ctx, id, x, y)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, sh.PlanID, "move shape", sh.ID)
	return sh, nil
}

func (a *App) UpdateShapeProps(id, propsJSON string) (*domain.Shape, error) {
	sh, err := a.shapes.UpdateShapeProps(a.ctx, id, propsJSON)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, sh.PlanID, "edit "+string(sh.Kind), sh.ID)
	return sh, nil
}

func (a *App) RotateShape(id string, degrees float64) (*domain.Shape, error) {
	sh, err := a.shapes.RotateShape(a.ctx, id, degrees)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, sh.PlanID, "rotate shape", sh.ID)
	return sh, nil
}

func (a *App) UpdateShapeStyle(id, styleJSON string) error {
	return a.shapes.UpdateShapeStyle(id, styleJSON)
}

func (a *App) DeleteShape(id string) error {
	sh, err := a.shapes.GetShape(id)
	if err != nil {
		return err
	}
	if err := a.shapes.DeleteShape(a.ctx, id); err != nil {
		return err
	}
	return a.editor.Commit(a.ctx, sh.PlanID, "delete "+string(sh.Kind), "")
}

func (a *App) DuplicateShape(id string) (*domain.Shape, error) {
	sh, err := a.shapes.DuplicateShape(a.ctx, id)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, sh.PlanID, "duplicate shape", sh.ID)
	return sh, nil
}

func (a *App) SwapShapes(idA, idB string) error {
	sh, err := a.shapes.GetShape(idA)
	if err != nil {
		return err
	}
	if err := a.shapes.SwapShapes(a.ctx, idA, idB); err != nil {
		return err
	}
	return a.editor.Commit(a.ctx, sh.PlanID, "swap shapes", idA)
}

// ============================================================
// Layout operations
// ============================================================

func (a *App) CheckPlacement(planID, kind, propsJSON string, x, y float64) (*layout.PlacementCheck, error) {
	return a.shapes.CheckPlacement(planID, kind, propsJSON, domain.Position{X: x, Y: y})
}

func (a *App) AlignShapes(planID string, ids []string, alignment string) ([]domain.Shape, error) {
	moved, err := a.shapes.AlignShapes(a.ctx, planID, ids, alignment)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, planID, "align "+alignment, "")
	return moved, nil
}

func (a *App) MeasureShapes(idA, idB string) (*geometry.PairMeasure, error) {
	return a.shapes.MeasureShapes(idA, idB)
}

func (a *App) CreateAnnotation(planID, firstID, secondID string) (*domain.Shape, error) {
	ann, err := a.shapes.CreateAnnotation(a.ctx, planID, firstID, secondID)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, planID, "create annotation", ann.ID)
	return ann, nil
}

// ResolveAnnotation returns the render geometry of a dimension
// annotation, or nil when a referenced shape no longer exists.
func (a *App) ResolveAnnotation(annotationID string) (*geometry.AnnotationGeometry, error) {
	geo, ok, err := a.shapes.ResolveAnnotation(annotationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return geo, nil
}

// Circumscribe returns the axis-aligned bounding extent of a shape,
// used by the frontend for selection handles.
func (a *App) Circumscribe(id string) (*geometry.Circumscription, error) {
	sh, err := a.shapes.GetShape(id)
	if err != nil {
		return nil, err
	}
	circ := geometry.Circumscribe(*sh)
	return &circ, nil
}

// ============================================================
// Undo / redo and drag sessions
// ============================================================

func (a *App) Undo(planID string) (*domain.PlanState, error) {
	return a.editor.Undo(a.ctx, planID)
}

func (a *App) Redo(planID string) (*domain.PlanState, error) {
	return a.editor.Redo(a.ctx, planID)
}

func (a *App) HistoryState(planID string) (*service.HistoryState, error) {
	return a.editor.History(planID)
}

func (a *App) BeginDrag(planID, leadID string, followerIDs []string) error {
	return a.editor.BeginDrag(planID, leadID, followerIDs)
}

func (a *App) DragMove(x, y float64) ([]layout.PositionChange, error) {
	return a.editor.DragMove(a.ctx, x, y)
}

func (a *App) EndDrag() ([]layout.PositionChange, error) {
	return a.editor.EndDrag(a.ctx)
}

func (a *App) CancelDrag() ([]layout.PositionChange, error) {
	return a.editor.CancelDrag(a.ctx)
}

// BatchMoveShapes translates several shapes by a common delta.
func (a *App) BatchMoveShapes(planID string, ids []string, dx, dy float64) ([]domain.Shape, error) {
	moved, err := a.shapes.BatchMove(a.ctx, planID, ids, dx, dy)
	if err != nil {
		return nil, err
	}
	_ = a.editor.Commit(a.ctx, planID, "move selection", "")
	return moved, nil
}

// ============================================================
// MCP approval (in-process mode)
// ============================================================

func (a *App) ApproveMCPAction(actionID string) {
	if a.mcpSrv != nil {
		a.mcpSrv.Approve(actionID)
	}
	// Also resolve DB-based approvals written by a standalone MCP process
	if a.db != nil {
		a.db.Conn().Exec(`UPDATE mcp_approvals SET status = 'approved' WHERE id = ?`, actionID)
	}
}

func (a *App) RejectMCPAction(actionID string) {
	if a.mcpSrv != nil {
		a.mcpSrv.Reject(actionID)
	}
	if a.db != nil {
		a.db.Conn().Exec(`UPDATE mcp_approvals SET status = 'rejected' WHERE id = ?`, actionID)
	}
}

// ============================================================
// Window settings
// ============================================================

func (a *App) LoadWindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}

func (a *App) SaveWindowSize(width, height int) error {
	return a.window.SaveWindowSize(width, height)
}
