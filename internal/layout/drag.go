package layout

import (
	"fmt"
	"sync"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
)

// DragSession tracks one in-flight drag of a lead shape and its
// followers. Positions held by the session are transient: nothing is
// persisted until the caller commits the result of End.
type DragSession struct {
	lead      domain.Shape
	followers []domain.Shape
	offsets   []domain.Position // follower center minus lead center at grab time
	start     domain.Position
	current   domain.Position
	area      domain.BoundaryArea
	cfg       Config
}

// Lead returns the id of the dragged shape.
func (d *DragSession) Lead() string { return d.lead.ID }

// Move advances the drag to a new candidate center for the lead shape.
// Snap applies before clamp, so a snapped position that falls outside
// the boundary is pulled back in (possibly off-grid). Followers
// translate rigidly by the lead's effective delta.
func (d *DragSession) Move(candidate domain.Position) []PositionChange {
	if d.cfg.SnapEnabled {
		candidate = SnapPosition(candidate, d.cfg.GridSize, d.area)
	}
	d.current = ClampToBoundary(d.lead, candidate, d.area)

	changes := make([]PositionChange, 0, 1+len(d.followers))
	changes = append(changes, PositionChange{ID: d.lead.ID, Pos: d.current})
	for i, f := range d.followers {
		pos := domain.Position{
			X: d.current.X + d.offsets[i].X,
			Y: d.current.Y + d.offsets[i].Y,
		}
		if d.cfg.GroupClamp == ClampAllMembers {
			pos = ClampToBoundary(f, pos, d.area)
		}
		changes = append(changes, PositionChange{ID: f.ID, Pos: pos})
	}
	return changes
}

// End returns the final positions of the session. The caller persists
// them and records the history snapshot.
func (d *DragSession) End() []PositionChange {
	return d.Move(d.current)
}

// Cancel returns every participant to its grab-time position.
func (d *DragSession) Cancel() []PositionChange {
	changes := make([]PositionChange, 0, 1+len(d.followers))
	changes = append(changes, PositionChange{ID: d.lead.ID, Pos: d.start})
	for _, f := range d.followers {
		changes = append(changes, PositionChange{ID: f.ID, Pos: f.Position})
	}
	return changes
}

// Moved reports whether the lead ended anywhere other than where it
// started. Commits for no-op drags are skipped by the caller.
func (d *DragSession) Moved() bool {
	dx := d.current.X - d.start.X
	dy := d.current.Y - d.start.Y
	return dx > geometry.Epsilon || dx < -geometry.Epsilon ||
		dy > geometry.Epsilon || dy < -geometry.Epsilon
}

// Dragger guards that at most one drag session is active at a time.
// The desktop runtime delivers pointer events from one goroutine, but
// the MCP surface can race it, hence the mutex.
type Dragger struct {
	mu      sync.Mutex
	session *DragSession
}

// Begin starts a drag of lead with the given followers. It fails if a
// session is already active or the lead cannot be dragged.
func (g *Dragger) Begin(lead domain.Shape, followers []domain.Shape, cfg Config, area domain.BoundaryArea) (*DragSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		return nil, fmt.Errorf("drag already in progress for shape %s", g.session.lead.ID)
	}
	if lead.ID == "" {
		return nil, fmt.Errorf("drag lead has no id")
	}

	s := &DragSession{
		lead:    lead,
		start:   lead.Position,
		current: lead.Position,
		area:    area,
		cfg:     cfg,
	}
	for _, f := range followers {
		if f.ID == lead.ID {
			continue
		}
		s.followers = append(s.followers, f)
		s.offsets = append(s.offsets, domain.Position{
			X: f.Position.X - lead.Position.X,
			Y: f.Position.Y - lead.Position.Y,
		})
	}
	g.session = s
	return s, nil
}

// Active returns the current session, if any.
func (g *Dragger) Active() *DragSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Release clears the active session. Both End and Cancel paths call it.
func (g *Dragger) Release(s *DragSession) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == s {
		g.session = nil
	}
}
