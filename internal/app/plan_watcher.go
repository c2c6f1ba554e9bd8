package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// planWatcher polls the database for changes to the active plan,
// detecting external modifications (e.g. from an MCP standalone process)
// and emitting Wails events so the frontend auto-refreshes.
type planWatcher struct {
	ctx context.Context
	app *App
	mu  sync.Mutex
	// Active plan tracking
	planID     string
	venueID    string
	lastPlan   string // plan updated_at fingerprint
	lastShapes string // shapes fingerprint (count + max updated_at)
	// Plan list tracking (sidebar refresh)
	lastPlanList string // plans fingerprint (count + max updated_at)
	stopCh       chan struct{}
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newPlanWatcher(ctx context.Context, app *App) *planWatcher {
	return &planWatcher{ctx: ctx, app: app, emittedApprovals: map[string]bool{}}
}

// SetPlan updates the watched plan ID. Called when the user opens a plan.
func (w *planWatcher) SetPlan(planID, venueID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.planID = planID
	w.venueID = venueID
	// Reset tracked state when switching plans
	w.lastPlan = ""
	w.lastShapes = ""
	w.lastPlanList = ""
}

// Start begins the polling loop. Should be called once on app startup.
func (w *planWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *planWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
}

func (w *planWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *planWatcher) check() {
	w.mu.Lock()
	planID := w.planID
	venueID := w.venueID
	w.mu.Unlock()

	if planID == "" {
		return
	}

	db := w.app.db.Conn()

	// ── Check plan settings updated_at ──────────────────
	var planUpdated string
	err := db.QueryRow(`SELECT COALESCE(updated_at, '') FROM plans WHERE id = ?`, planID).Scan(&planUpdated)
	if err != nil {
		return
	}

	// ── Check shapes MAX(updated_at) and count ──────────
	var shapeUpdated string
	var shapeCount int
	err = db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM shapes WHERE plan_id = ?`, planID,
	).Scan(&shapeCount, &shapeUpdated)
	if err != nil {
		return
	}

	// ── Check plan list changes (sidebar) ───────────────
	var planListFingerprint string
	if venueID != "" {
		var planCount int
		var plansMaxUpdated string
		err = db.QueryRow(
			`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM plans WHERE venue_id = ?`, venueID,
		).Scan(&planCount, &plansMaxUpdated)
		if err == nil {
			planListFingerprint = fmt.Sprintf("%d:%s", planCount, plansMaxUpdated)
		}
	}

	// ── Build fingerprints and compare ──────────────────
	planFingerprint := planUpdated
	shapeFingerprint := fmt.Sprintf("%d:%s", shapeCount, shapeUpdated)

	w.mu.Lock()
	planChanged := w.lastPlan != "" && w.lastPlan != planFingerprint
	shapesChanged := w.lastShapes != "" && w.lastShapes != shapeFingerprint
	plansChanged := w.lastPlanList != "" && planListFingerprint != "" && w.lastPlanList != planListFingerprint
	w.lastPlan = planFingerprint
	w.lastShapes = shapeFingerprint
	if planListFingerprint != "" {
		w.lastPlanList = planListFingerprint
	}
	w.mu.Unlock()

	// ── Emit events ────────────────────────────────────
	if planChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:plan-changed", map[string]string{"planId": planID})
	}
	if shapesChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:shapes-changed", map[string]string{"planId": planID})
	}
	if plansChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:plans-changed", map[string]string{"venueId": venueID})
	}

	// Note: mcp:activity is emitted only for pending approvals (below), not for
	// generic plan changes, since those also occur from manual user edits.

	// ── Check pending MCP approvals (cross-process IPC) ─
	rows, err := db.Query(`SELECT id, tool, description, created_at, metadata FROM mcp_approvals WHERE status = 'pending'`)
	if err == nil {
		for rows.Next() {
			var id, tool, desc, createdAt, metadata string
			if rows.Scan(&id, &tool, &desc, &createdAt, &metadata) == nil {
				w.mu.Lock()
				alreadySent := w.emittedApprovals[id]
				if !alreadySent {
					w.emittedApprovals[id] = true
				}
				w.mu.Unlock()
				if !alreadySent {
					wailsRuntime.EventsEmit(w.ctx, "mcp:activity", map[string]any{
						"changes": 1,
						"planId":  planID,
					})
					wailsRuntime.EventsEmit(w.ctx, "mcp:approval-required", map[string]string{
						"id":          id,
						"tool":        tool,
						"description": desc,
						"createdAt":   createdAt,
						"metadata":    metadata,
					})
				}
			}
		}
		rows.Close()
	}

	// Clean up tracking for resolved/deleted approvals (standalone MCP deletes after reading)
	w.mu.Lock()
	for id := range w.emittedApprovals {
		var count int
		if db.QueryRow(`SELECT COUNT(*) FROM mcp_approvals WHERE id = ? AND status = 'pending'`, id).Scan(&count) == nil && count == 0 {
			delete(w.emittedApprovals, id)
		}
	}
	w.mu.Unlock()
}
