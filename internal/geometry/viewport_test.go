package geometry

import (
	"math"
	"testing"

	"floorplan/internal/domain"
)

func testViewport() Viewport {
	return Viewport{
		BaseScale:     0.5,
		UserZoom:      2.0,
		PanX:          10,
		PanY:          -20,
		CanvasWidth:   1200,
		CanvasHeight:  800,
		DiagramWidth:  1000,
		DiagramHeight: 600,
	}
}

func TestViewport_RoundTrip(t *testing.T) {
	v := testViewport()
	points := []domain.Position{
		{X: 0, Y: 0},
		{X: 500, Y: 300},
		{X: -120.5, Y: 999.25},
		{X: 1000, Y: 600},
	}
	for _, p := range points {
		got := v.ToDomain(v.ToDisplay(p))
		if math.Abs(got.X-p.X) > Epsilon || math.Abs(got.Y-p.Y) > Epsilon {
			t.Errorf("round trip of (%.2f, %.2f) = (%.9f, %.9f)", p.X, p.Y, got.X, got.Y)
		}
	}
}

func TestViewport_CenterOffset(t *testing.T) {
	// finalScale = 0.5 * 2.0 = 1.0, so the 1000×600 diagram sits
	// centered in the 1200×800 canvas: offset (100, 100).
	v := testViewport()
	v.PanX, v.PanY = 0, 0

	got := v.ToDisplay(domain.Position{X: 0, Y: 0})
	if got.X != 100 || got.Y != 100 {
		t.Errorf("diagram origin maps to (%.1f, %.1f), want (100, 100)", got.X, got.Y)
	}
}

func TestViewport_PanShiftsDisplay(t *testing.T) {
	v := testViewport()
	base := v.ToDisplay(domain.Position{X: 250, Y: 250})
	v.PanX += 40
	v.PanY += 70
	panned := v.ToDisplay(domain.Position{X: 250, Y: 250})
	if panned.X-base.X != 40 || panned.Y-base.Y != 70 {
		t.Errorf("pan delta = (%.1f, %.1f), want (40, 70)", panned.X-base.X, panned.Y-base.Y)
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.05, 0.1},
		{0.1, 0.1},
		{1.0, 1.0},
		{5.0, 5.0},
		{12.0, 5.0},
		{-3.0, 0.1},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.want {
			t.Errorf("ClampZoom(%.2f) = %.2f, want %.2f", tt.in, got, tt.want)
		}
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		dw, dh, cw, ch float64
		want           float64
	}{
		{1000, 600, 1200, 800, 1.2}, // width-bound
		{1000, 600, 2000, 600, 1.0}, // height-bound
		{2000, 2000, 1000, 500, 0.25},
		{0, 600, 1200, 800, 1}, // degenerate diagram
		{1000, 600, 0, 800, 1}, // degenerate canvas
	}
	for _, tt := range tests {
		if got := FitScale(tt.dw, tt.dh, tt.cw, tt.ch); math.Abs(got-tt.want) > Epsilon {
			t.Errorf("FitScale(%.0f,%.0f,%.0f,%.0f) = %.4f, want %.4f",
				tt.dw, tt.dh, tt.cw, tt.ch, got, tt.want)
		}
	}
}

func TestFinalScale_ZeroBaseFallsBack(t *testing.T) {
	v := Viewport{BaseScale: 0, UserZoom: 1}
	if got := v.FinalScale(); got != 1 {
		t.Errorf("FinalScale with zero base = %.2f, want 1", got)
	}
	// ToDomain must never divide by zero.
	p := v.ToDomain(domain.Position{X: 100, Y: 100})
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) {
		t.Errorf("ToDomain produced non-finite X: %v", p.X)
	}
}
