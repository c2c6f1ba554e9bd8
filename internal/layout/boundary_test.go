package layout

import (
	"testing"

	"floorplan/internal/domain"
)

func rectShape(id string, x, y, w, h float64) domain.Shape {
	return domain.Shape{
		ID:       id,
		Kind:     domain.ShapeKindRectangle,
		Position: domain.Position{X: x, Y: y},
		Rect:     &domain.RectProps{Width: w, Height: h},
	}
}

func circleShape(id string, x, y, r float64) domain.Shape {
	return domain.Shape{
		ID:       id,
		Kind:     domain.ShapeKindCircle,
		Position: domain.Position{X: x, Y: y},
		Circle:   &domain.CircleProps{Radius: r},
	}
}

var room = domain.BoundaryArea{X: 0, Y: 0, Width: 1000, Height: 1000}

func TestClampToBoundary(t *testing.T) {
	s := rectShape("t1", 0, 0, 200, 100)
	tests := []struct {
		name     string
		in, want domain.Position
	}{
		{"inside is untouched", domain.Position{X: 500, Y: 500}, domain.Position{X: 500, Y: 500}},
		{"past right edge", domain.Position{X: 980, Y: 500}, domain.Position{X: 900, Y: 500}},
		{"past left edge", domain.Position{X: 40, Y: 500}, domain.Position{X: 100, Y: 500}},
		{"past bottom edge", domain.Position{X: 500, Y: 990}, domain.Position{X: 500, Y: 950}},
		{"corner overflow", domain.Position{X: -50, Y: -50}, domain.Position{X: 100, Y: 50}},
	}
	for _, tt := range tests {
		got := ClampToBoundary(s, tt.in, room)
		if got != tt.want {
			t.Errorf("%s: clamped to (%.1f, %.1f), want (%.1f, %.1f)",
				tt.name, got.X, got.Y, tt.want.X, tt.want.Y)
		}
	}
}

func TestClampToBoundary_OversizedPinsLowEdge(t *testing.T) {
	// A 2000 mm wide shape cannot fit a 1000 mm room: the left edge pins
	// to the boundary's left, centering the shape at x = 1000.
	s := rectShape("huge", 0, 0, 2000, 100)
	got := ClampToBoundary(s, domain.Position{X: 1500, Y: 500}, room)
	if got.X != 1000 {
		t.Errorf("oversized clamp X = %.1f, want 1000", got.X)
	}
	if got.Y != 500 {
		t.Errorf("oversized clamp Y = %.1f, want 500 (axis independent)", got.Y)
	}
}

func TestClampToBoundary_OffsetArea(t *testing.T) {
	area := domain.BoundaryArea{X: 200, Y: 300, Width: 400, Height: 400}
	s := circleShape("c1", 0, 0, 50)
	got := ClampToBoundary(s, domain.Position{X: 0, Y: 0}, area)
	want := domain.Position{X: 250, Y: 350}
	if got != want {
		t.Errorf("clamped to (%.1f, %.1f), want (%.1f, %.1f)", got.X, got.Y, want.X, want.Y)
	}
}

func TestClampToBoundary_ZeroExtentAreaIsUnconstrained(t *testing.T) {
	// A plan with no boundary and no diagram attached yet yields a
	// zero-extent area; clamping against it must leave positions alone
	// instead of pinning shapes to the shape-sized minimum corner.
	s := rectShape("t1", 0, 0, 100, 60)
	pos := domain.Position{X: 500, Y: 400}
	if got := ClampToBoundary(s, pos, AreaForPlan(&domain.Plan{})); got != pos {
		t.Errorf("clamped to (%.1f, %.1f), want requested (500, 400)", got.X, got.Y)
	}
}

func TestClampToBoundary_SkipsAnnotations(t *testing.T) {
	s := domain.Shape{
		ID:    "ann",
		Kind:  domain.ShapeKindScale,
		Scale: &domain.ScaleProps{FirstID: "a", SecondID: "b"},
	}
	pos := domain.Position{X: -500, Y: 9999}
	if got := ClampToBoundary(s, pos, room); got != pos {
		t.Errorf("annotation was clamped to (%.1f, %.1f)", got.X, got.Y)
	}
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		v, grid, origin, want float64
	}{
		{112, 25, 0, 100},
		{113, 25, 0, 125},
		{112.5, 25, 0, 125}, // half rounds away from zero
		{112, 25, 10, 110},  // grid anchored at region origin
		{112, 0, 0, 112},    // grid disabled
		{-30, 25, 0, -25},
	}
	for _, tt := range tests {
		if got := SnapToGrid(tt.v, tt.grid, tt.origin); got != tt.want {
			t.Errorf("SnapToGrid(%.1f, %.1f, %.1f) = %.1f, want %.1f",
				tt.v, tt.grid, tt.origin, got, tt.want)
		}
	}
}

func TestCheckPlacement(t *testing.T) {
	s := rectShape("t1", 0, 0, 200, 100)

	ok := CheckPlacement(s, domain.Position{X: 500, Y: 500}, room)
	if !ok.Allowed || len(ok.Violations) != 0 {
		t.Errorf("valid placement rejected: %+v", ok)
	}

	bad := CheckPlacement(s, domain.Position{X: 980, Y: 500}, room)
	if bad.Allowed {
		t.Error("out-of-bounds placement allowed")
	}
	if bad.Suggested.X != 900 {
		t.Errorf("suggested X = %.1f, want 900", bad.Suggested.X)
	}
	if len(bad.Violations) != 1 {
		t.Errorf("violations = %v, want exactly the right edge", bad.Violations)
	}
}

func TestCheckPlacement_OversizedReportsBothAxes(t *testing.T) {
	s := rectShape("huge", 0, 0, 2000, 100)
	check := CheckPlacement(s, domain.Position{X: 500, Y: 500}, room)
	if check.Allowed {
		t.Error("oversized placement allowed")
	}
	if check.Suggested.X != 1000 {
		t.Errorf("suggested X = %.1f, want 1000", check.Suggested.X)
	}
}

func TestCheckPlacement_ZeroExtentAreaAllowsAll(t *testing.T) {
	s := rectShape("t1", 0, 0, 200, 100)
	check := CheckPlacement(s, domain.Position{X: 5000, Y: 5000}, domain.BoundaryArea{})
	if !check.Allowed || len(check.Violations) != 0 {
		t.Errorf("placement rejected on an unbounded plan: %+v", check)
	}
}

func TestPolicyOrDefault(t *testing.T) {
	tests := []struct {
		name string
		want GroupClampPolicy
	}{
		{"leadOnly", ClampLeadOnly},
		{"allMembers", ClampAllMembers},
		{"", ClampLeadOnly},
		{"bogus", ClampLeadOnly},
	}
	for _, tt := range tests {
		if got := PolicyOrDefault(tt.name); got != tt.want {
			t.Errorf("PolicyOrDefault(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAreaForPlan(t *testing.T) {
	p := &domain.Plan{DiagramWidth: 800, DiagramHeight: 600}
	if got := AreaForPlan(p); got.Width != 800 || got.Height != 600 {
		t.Errorf("fallback area = %+v, want diagram extent", got)
	}

	p.Boundary = &domain.BoundaryArea{X: 50, Y: 50, Width: 300, Height: 200}
	if got := AreaForPlan(p); got != *p.Boundary {
		t.Errorf("explicit boundary not used: %+v", got)
	}
}
