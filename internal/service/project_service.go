package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"floorplan/internal/layout"
	"floorplan/internal/project"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Project Service — export/import and linked-file sync
// ─────────────────────────────────────────────────────────────

// ProjectService moves complete plans in and out of the editor as
// self-contained project files, and can keep a plan synced with a file
// edited elsewhere (a colleague's export on a shared drive).
type ProjectService struct {
	plans   *storage.PlanStore
	shapes  *storage.ShapeStore
	editor  *EditorService
	emitter EventEmitter
	jobs    runningJobsGuard

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	watchCancel context.CancelFunc
	linked      map[string]string // absolute file path → plan id
}

// NewProjectService creates a ProjectService.
func NewProjectService(plans *storage.PlanStore, shapes *storage.ShapeStore, editor *EditorService, emitter EventEmitter) *ProjectService {
	return &ProjectService{
		plans:   plans,
		shapes:  shapes,
		editor:  editor,
		emitter: emitter,
		linked:  make(map[string]string),
	}
}

// Export writes a plan to a project file on disk.
func (s *ProjectService) Export(planID, path string, meta project.Metadata) error {
	f, err := s.buildFile(planID, meta)
	if err != nil {
		return err
	}
	return project.WriteFile(path, f)
}

func (s *ProjectService) buildFile(planID string, meta project.Metadata) (*project.File, error) {
	p, err := s.plans.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	shapes, err := s.shapes.ListShapes(planID)
	if err != nil {
		return nil, err
	}
	svg := ""
	if p.SVGPath != "" {
		data, err := os.ReadFile(p.SVGPath)
		if err != nil {
			return nil, fmt.Errorf("read diagram for export: %w", err)
		}
		svg = string(data)
	}
	return project.Build(p, shapes, svg, meta), nil
}

// BuildFile exposes the export document without writing it, for
// publishing to a shared library.
func (s *ProjectService) BuildFile(planID string, meta project.Metadata) (*project.File, error) {
	return s.buildFile(planID, meta)
}

// Import loads a project file into an existing plan, replacing its
// shapes and settings. The undo timeline restarts at the imported state.
func (s *ProjectService) Import(ctx context.Context, planID, path string) (*project.ImportResult, error) {
	res, err := project.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, planID, res.File); err != nil {
		return nil, err
	}
	return res, nil
}

// ImportDocument applies an already-decoded project document (fetched
// from a shared library) to a plan.
func (s *ProjectService) ImportDocument(ctx context.Context, planID string, f *project.File) error {
	return s.apply(ctx, planID, f)
}

func (s *ProjectService) apply(ctx context.Context, planID string, f *project.File) error {
	p, err := s.plans.GetPlan(planID)
	if err != nil {
		return err
	}

	for i := range f.Shapes {
		f.Shapes[i].PlanID = planID
	}
	if err := s.shapes.ReplacePlanShapes(planID, f.Shapes); err != nil {
		return fmt.Errorf("import shapes: %w", err)
	}

	p.ViewportX = f.Viewport.PanX
	p.ViewportY = f.Viewport.PanY
	p.ViewportZoom = f.Viewport.Zoom
	p.GridSize = f.UI.GridSize
	p.SnapEnabled = f.UI.SnapEnabled
	p.GroupClamp = string(layout.PolicyOrDefault(string(f.UI.GroupClamp)))
	p.Boundary = f.UI.Boundary
	p.DiagramWidth = f.DiagramWidth
	p.DiagramHeight = f.DiagramHeight

	if f.SVGData != nil && *f.SVGData != "" {
		dir := filepath.Join(filepath.Dir(p.SVGPath), "diagrams")
		if p.SVGPath != "" {
			dir = filepath.Dir(p.SVGPath)
		}
		if err := os.MkdirAll(dir, 0755); err == nil {
			dst := filepath.Join(dir, planID+".svg")
			if os.WriteFile(dst, []byte(*f.SVGData), 0644) == nil {
				p.SVGPath = dst
			}
		}
	}

	if err := s.plans.UpdatePlan(p); err != nil {
		return err
	}
	if s.editor != nil {
		if err := s.editor.OpenPlan(planID); err != nil {
			return err
		}
	}
	s.emitter.Emit(ctx, "project:imported", map[string]string{"planId": planID})
	return nil
}

// ── Linked file watching ───────────────────────────────────

// LinkFile keeps a plan synced with an external project file: whenever
// the file changes on disk it is re-imported after a short debounce.
func (s *ProjectService) LinkFile(ctx context.Context, planID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("link file: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("link file: %w", err)
	}

	s.mu.Lock()
	s.linked[absPath] = planID
	s.mu.Unlock()
	return s.restartWatcher(ctx)
}

// UnlinkFile stops syncing a plan with its external file.
func (s *ProjectService) UnlinkFile(ctx context.Context, planID string) error {
	s.mu.Lock()
	for path, id := range s.linked {
		if id == planID {
			delete(s.linked, path)
		}
	}
	s.mu.Unlock()
	return s.restartWatcher(ctx)
}

// restartWatcher tears down the current watcher and rebuilds it from
// the linked-file map.
func (s *ProjectService) restartWatcher(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatcherLocked()

	if len(s.linked) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = watcher

	pathToPlan := make(map[string]string, len(s.linked))
	watchedDirs := make(map[string]bool)
	for path, planID := range s.linked {
		pathToPlan[path] = planID
		dir := filepath.Dir(path)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				log.Printf("[WATCH] failed to watch dir %q: %v", dir, err)
			} else {
				watchedDirs[dir] = true
			}
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				absPath, _ := filepath.Abs(event.Name)
				planID, ok := pathToPlan[absPath]
				if !ok {
					continue
				}
				if t, exists := timers[absPath]; exists {
					t.Stop()
				}
				path := absPath
				pid := planID
				timers[absPath] = time.AfterFunc(500*time.Millisecond, func() {
					s.syncFromFile(ctx, pid, path)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WATCH] error: %v", err)
			}
		}
	}()

	log.Printf("[WATCH] watching %d linked file(s)", len(pathToPlan))
	return nil
}

func (s *ProjectService) syncFromFile(ctx context.Context, planID, path string) {
	if !s.jobs.TryLock(planID) {
		return // an import for this plan is already running
	}
	defer s.jobs.Unlock(planID)

	log.Printf("[WATCH] linked file changed %q, re-importing plan %s", path, planID)
	res, err := s.Import(ctx, planID, path)
	if err != nil {
		log.Printf("[WATCH] re-import failed for plan %s: %v", planID, err)
		s.emitter.Emit(ctx, "project:sync-failed", map[string]string{
			"planId": planID,
			"error":  err.Error(),
		})
		return
	}
	if len(res.Warnings) > 0 {
		s.emitter.Emit(ctx, "project:sync-warnings", map[string]any{
			"planId":   planID,
			"warnings": res.Warnings,
		})
	}
}

// WaitRunning blocks until in-flight imports finish or ctx is cancelled.
// Used for graceful shutdown.
func (s *ProjectService) WaitRunning(ctx context.Context) {
	s.jobs.WaitAll(ctx)
}

// Stop tears down the file watcher.
func (s *ProjectService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatcherLocked()
}

func (s *ProjectService) stopWatcherLocked() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
