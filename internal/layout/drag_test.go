package layout

import (
	"testing"

	"floorplan/internal/domain"
)

func TestDragSession_SnapThenClamp(t *testing.T) {
	var g Dragger
	lead := rectShape("t1", 500, 500, 200, 100)
	cfg := Config{GridSize: 25, SnapEnabled: true, GroupClamp: ClampLeadOnly}

	s, err := g.Begin(lead, nil, cfg, room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	// 612 snaps to 600; well inside, no clamping.
	changes := s.Move(domain.Position{X: 612, Y: 512})
	if changes[0].Pos.X != 600 || changes[0].Pos.Y != 500 {
		t.Errorf("snapped to (%.1f, %.1f), want (600, 500)", changes[0].Pos.X, changes[0].Pos.Y)
	}

	// 995 snaps to 1000, then the right edge clamps back to 900: the
	// committed position may be off-grid.
	changes = s.Move(domain.Position{X: 995, Y: 500})
	if changes[0].Pos.X != 900 {
		t.Errorf("snap+clamp X = %.1f, want 900", changes[0].Pos.X)
	}
}

func TestDragSession_SnapDisabled(t *testing.T) {
	var g Dragger
	lead := rectShape("t1", 500, 500, 200, 100)
	cfg := Config{GridSize: 25, SnapEnabled: false}

	s, err := g.Begin(lead, nil, cfg, room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	changes := s.Move(domain.Position{X: 612.5, Y: 512.5})
	if changes[0].Pos.X != 612.5 || changes[0].Pos.Y != 512.5 {
		t.Errorf("moved to (%.1f, %.1f), want raw (612.5, 512.5)", changes[0].Pos.X, changes[0].Pos.Y)
	}
}

func TestDragSession_GroupTranslatesRigidly(t *testing.T) {
	var g Dragger
	lead := rectShape("lead", 200, 200, 100, 100)
	followers := []domain.Shape{
		circleShape("f1", 300, 200, 25),
		rectShape("f2", 200, 350, 100, 100),
	}
	cfg := Config{SnapEnabled: false, GroupClamp: ClampLeadOnly}

	s, err := g.Begin(lead, followers, cfg, room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	changes := s.Move(domain.Position{X: 250, Y: 230})
	byID := map[string]domain.Position{}
	for _, ch := range changes {
		byID[ch.ID] = ch.Pos
	}
	if byID["f1"] != (domain.Position{X: 350, Y: 230}) {
		t.Errorf("f1 = %+v, want (350, 230)", byID["f1"])
	}
	if byID["f2"] != (domain.Position{X: 250, Y: 380}) {
		t.Errorf("f2 = %+v, want (250, 380)", byID["f2"])
	}
}

func TestDragSession_LeadOnlyClampLetsFollowersExit(t *testing.T) {
	var g Dragger
	lead := rectShape("lead", 800, 500, 100, 100)
	follower := circleShape("f1", 950, 500, 25)
	cfg := Config{SnapEnabled: false, GroupClamp: ClampLeadOnly}

	s, err := g.Begin(lead, []domain.Shape{follower}, cfg, room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	// Lead clamps at x=950 (right edge 1000); follower keeps the rigid
	// +150 offset and pokes past the boundary.
	changes := s.Move(domain.Position{X: 980, Y: 500})
	if changes[0].Pos.X != 950 {
		t.Errorf("lead X = %.1f, want 950", changes[0].Pos.X)
	}
	if changes[1].Pos.X != 1100 {
		t.Errorf("follower X = %.1f, want 1100 (unclamped)", changes[1].Pos.X)
	}
}

func TestDragSession_AllMembersClamp(t *testing.T) {
	var g Dragger
	lead := rectShape("lead", 800, 500, 100, 100)
	follower := circleShape("f1", 950, 500, 25)
	cfg := Config{SnapEnabled: false, GroupClamp: ClampAllMembers}

	s, err := g.Begin(lead, []domain.Shape{follower}, cfg, room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	changes := s.Move(domain.Position{X: 980, Y: 500})
	if changes[1].Pos.X != 975 {
		t.Errorf("follower X = %.1f, want 975 (clamped)", changes[1].Pos.X)
	}
}

func TestDragSession_CancelRestoresStart(t *testing.T) {
	var g Dragger
	lead := rectShape("lead", 200, 200, 100, 100)
	follower := circleShape("f1", 300, 200, 25)

	s, err := g.Begin(lead, []domain.Shape{follower}, DefaultConfig(), room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	s.Move(domain.Position{X: 600, Y: 600})
	changes := s.Cancel()
	if changes[0].Pos != (domain.Position{X: 200, Y: 200}) {
		t.Errorf("lead restored to %+v", changes[0].Pos)
	}
	if changes[1].Pos != (domain.Position{X: 300, Y: 200}) {
		t.Errorf("follower restored to %+v", changes[1].Pos)
	}
}

func TestDragger_SingleSession(t *testing.T) {
	var g Dragger
	a := rectShape("a", 200, 200, 100, 100)
	b := rectShape("b", 500, 500, 100, 100)

	s, err := g.Begin(a, nil, DefaultConfig(), room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := g.Begin(b, nil, DefaultConfig(), room); err == nil {
		t.Error("expected error starting a second session")
	}

	g.Release(s)
	s2, err := g.Begin(b, nil, DefaultConfig(), room)
	if err != nil {
		t.Fatalf("Begin after release: %v", err)
	}
	g.Release(s2)
}

func TestDragSession_Moved(t *testing.T) {
	var g Dragger
	lead := rectShape("a", 200, 200, 100, 100)

	s, err := g.Begin(lead, nil, Config{SnapEnabled: false}, room)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer g.Release(s)

	if s.Moved() {
		t.Error("fresh session reports Moved")
	}
	s.Move(domain.Position{X: 200, Y: 200})
	if s.Moved() {
		t.Error("no-op move reports Moved")
	}
	s.Move(domain.Position{X: 250, Y: 200})
	if !s.Moved() {
		t.Error("real move not reported")
	}
}
