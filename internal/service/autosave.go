package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"floorplan/internal/project"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Autosave — scheduled snapshot exports
// ─────────────────────────────────────────────────────────────

// DefaultAutosaveSpec runs every 5 minutes.
const DefaultAutosaveSpec = "@every 5m"

// AutosaveService periodically exports every open plan to a snapshots
// directory, so a crash never costs more than one interval of work.
type AutosaveService struct {
	plans    *storage.PlanStore
	projects *ProjectService
	emitter  EventEmitter
	dir      string

	mu    sync.Mutex
	sched *cron.Cron
	open  map[string]bool // plan ids currently being edited
}

// NewAutosaveService creates an AutosaveService writing into
// dataDir/snapshots.
func NewAutosaveService(plans *storage.PlanStore, projects *ProjectService, dataDir string, emitter EventEmitter) *AutosaveService {
	return &AutosaveService{
		plans:    plans,
		projects: projects,
		emitter:  emitter,
		dir:      filepath.Join(dataDir, "snapshots"),
		open:     make(map[string]bool),
	}
}

// Track marks a plan as open for autosaving; Untrack removes it.
func (s *AutosaveService) Track(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[planID] = true
}

func (s *AutosaveService) Untrack(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, planID)
}

// Start begins the autosave schedule. spec is a cron expression or
// @every duration; empty uses the default.
func (s *AutosaveService) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultAutosaveSpec
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create snapshots dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched != nil {
		s.sched.Stop()
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("autosave schedule %q: %v", spec, err)
	}
	c.Start()
	s.sched = c
	log.Printf("autosave: scheduled %q into %s", spec, s.dir)
	return nil
}

// Stop halts the schedule.
func (s *AutosaveService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched != nil {
		s.sched.Stop()
		s.sched = nil
	}
}

func (s *AutosaveService) runOnce(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		path := filepath.Join(s.dir, id+".floorplan.json")
		if err := s.projects.Export(id, path, project.Metadata{Description: "autosave"}); err != nil {
			log.Printf("autosave: plan %s failed: %v", id, err)
			continue
		}
		s.emitter.Emit(ctx, "autosave:written", map[string]string{
			"planId": id,
			"path":   path,
		})
	}
}

// SnapshotPath returns where a plan's autosave lands, for recovery UI.
func (s *AutosaveService) SnapshotPath(planID string) string {
	return filepath.Join(s.dir, planID+".floorplan.json")
}
