package layout

import (
	"testing"

	"floorplan/internal/domain"
)

func TestPlacer_EmptyAreaPlacesAtOrigin(t *testing.T) {
	p := NewPlacer(25)
	got := p.NextPosition(nil, 200, 100, room)
	want := domain.Position{X: 100, Y: 50}
	if got != want {
		t.Errorf("NextPosition = %+v, want %+v", got, want)
	}
}

func TestPlacer_AvoidsExistingShapes(t *testing.T) {
	p := NewPlacer(25)
	existing := []domain.Shape{rectShape("t1", 150, 100, 300, 200)}

	got := p.NextPosition(existing, 200, 100, room)

	// The slot must clear the padded box of t1 (which spans x −50..350
	// with 50 mm padding) and stay on the grid.
	candidate := rect{x: got.X - 100, y: got.Y - 50, w: 200, h: 100}
	occupied := rect{x: 0 - DefaultPadding, y: 0 - DefaultPadding,
		w: 300 + DefaultPadding*2, h: 200 + DefaultPadding*2}
	if candidate.intersects(occupied) {
		t.Errorf("placed at %+v, overlaps padded existing shape", got)
	}
	if SnapToGrid(candidate.x, 25, 0) != candidate.x {
		t.Errorf("placement x %.1f is off-grid", candidate.x)
	}
}

func TestPlacer_IgnoresAnnotations(t *testing.T) {
	p := NewPlacer(25)
	existing := []domain.Shape{{
		ID:    "ann",
		Kind:  domain.ShapeKindScale,
		Scale: &domain.ScaleProps{FirstID: "a", SecondID: "b"},
	}}
	got := p.NextPosition(existing, 200, 100, room)
	want := domain.Position{X: 100, Y: 50}
	if got != want {
		t.Errorf("NextPosition = %+v, want %+v (annotations occupy no space)", got, want)
	}
}

func TestPlacer_FullAreaFallsBackNearCenter(t *testing.T) {
	p := NewPlacer(25)
	// One shape covering the entire area leaves no free slot.
	existing := []domain.Shape{rectShape("wall", 500, 500, 1000, 1000)}
	c := Center(room)

	got := p.NextPosition(existing, 200, 100, room)
	if got.X < c.X-PlacementJitter || got.X > c.X+PlacementJitter ||
		got.Y < c.Y-PlacementJitter || got.Y > c.Y+PlacementJitter {
		t.Errorf("NextPosition = %+v, want within %g mm of center %+v", got, PlacementJitter, c)
	}
}

func TestPlacer_FullAreaPlacementsDoNotStack(t *testing.T) {
	p := NewPlacer(25)
	existing := []domain.Shape{rectShape("wall", 500, 500, 1000, 1000)}

	// With every cell occupied, successive placements jitter around the
	// center instead of landing on the exact same point. 16 tries make a
	// coincidental collision of all samples vanishingly unlikely.
	first := p.NextPosition(existing, 200, 100, room)
	for i := 0; i < 16; i++ {
		if p.NextPosition(existing, 200, 100, room) != first {
			return
		}
	}
	t.Errorf("16 fallback placements all landed on %+v", first)
}

func TestPlacer_ZeroExtentFallsBackToCenter(t *testing.T) {
	p := NewPlacer(25)
	if got := p.NextPosition(nil, 0, 100, room); got != Center(room) {
		t.Errorf("NextPosition = %+v, want area center", got)
	}
}

func TestOffsetForCopy(t *testing.T) {
	s := rectShape("t1", 500, 500, 200, 100)
	got := OffsetForCopy(s, room)
	want := domain.Position{X: 550, Y: 550}
	if got != want {
		t.Errorf("OffsetForCopy = %+v, want %+v", got, want)
	}

	// A source hugging the bottom-right corner produces a clamped copy.
	corner := rectShape("t2", 900, 950, 200, 100)
	got = OffsetForCopy(corner, room)
	if got.X != 900 || got.Y != 950 {
		t.Errorf("corner copy = %+v, want clamped (900, 950)", got)
	}
}
