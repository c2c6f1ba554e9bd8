package geometry

import (
	"math"
	"testing"

	"floorplan/internal/domain"
)

func rectShape(x, y, w, h, rot float64) domain.Shape {
	return domain.Shape{
		ID:       "r1",
		Kind:     domain.ShapeKindRectangle,
		Position: domain.Position{X: x, Y: y},
		Rect:     &domain.RectProps{Width: w, Height: h, RotationDeg: rot},
	}
}

func TestCircumscribe_RectangleUnrotated(t *testing.T) {
	c := Circumscribe(rectShape(500, 500, 200, 100, 0))

	if c.Width != 200 || c.Height != 100 {
		t.Errorf("extents = (%.1f, %.1f), want (200, 100)", c.Width, c.Height)
	}
	if c.TopLeft.X != 400 || c.TopLeft.Y != 450 {
		t.Errorf("topLeft = (%.1f, %.1f), want (400, 450)", c.TopLeft.X, c.TopLeft.Y)
	}
	if c.BottomRight.X != 600 || c.BottomRight.Y != 550 {
		t.Errorf("bottomRight = (%.1f, %.1f), want (600, 550)", c.BottomRight.X, c.BottomRight.Y)
	}
}

func TestCircumscribe_RotationCardinals(t *testing.T) {
	tests := []struct {
		deg          float64
		wantW, wantH float64
	}{
		{0, 200, 100},
		{90, 100, 200},
		{180, 200, 100},
		{270, 100, 200},
		{360, 200, 100},
	}
	for _, tt := range tests {
		c := Circumscribe(rectShape(0, 0, 200, 100, tt.deg))
		if math.Abs(c.Width-tt.wantW) > Epsilon || math.Abs(c.Height-tt.wantH) > Epsilon {
			t.Errorf("rotation %.0f°: extents = (%.9f, %.9f), want (%.0f, %.0f)",
				tt.deg, c.Width, c.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestCircumscribe_Rotation45(t *testing.T) {
	// A 100×100 square at 45° circumscribes to 100·√2 per side.
	c := Circumscribe(rectShape(0, 0, 100, 100, 45))
	want := 100 * math.Sqrt2
	if math.Abs(c.Width-want) > Epsilon || math.Abs(c.Height-want) > Epsilon {
		t.Errorf("extents = (%.6f, %.6f), want %.6f", c.Width, c.Height, want)
	}
}

func TestCircumscribe_Circle(t *testing.T) {
	s := domain.Shape{
		Kind:     domain.ShapeKindCircle,
		Position: domain.Position{X: 100, Y: 100},
		Circle:   &domain.CircleProps{Radius: 50},
	}
	c := Circumscribe(s)
	if c.Width != 100 || c.Height != 100 {
		t.Errorf("extents = (%.1f, %.1f), want (100, 100)", c.Width, c.Height)
	}
	if c.TopLeft.X != 50 || c.TopLeft.Y != 50 {
		t.Errorf("topLeft = (%.1f, %.1f), want (50, 50)", c.TopLeft.X, c.TopLeft.Y)
	}
}

func TestCircumscribe_TextBox(t *testing.T) {
	s := domain.Shape{
		Kind:     domain.ShapeKindTextBox,
		Position: domain.Position{X: 10, Y: 20},
		Text:     &domain.TextProps{Text: "Exit", Width: 80, Height: 30},
	}
	c := Circumscribe(s)
	if c.Width != 80 || c.Height != 30 {
		t.Errorf("extents = (%.1f, %.1f), want (80, 30)", c.Width, c.Height)
	}
}

func TestCircumscribe_DegenerateSizes(t *testing.T) {
	tests := []struct {
		name  string
		shape domain.Shape
	}{
		{"zero width rect", rectShape(5, 5, 0, 100, 0)},
		{"negative height rect", rectShape(5, 5, 100, -10, 0)},
		{"zero radius circle", domain.Shape{
			Kind:     domain.ShapeKindCircle,
			Position: domain.Position{X: 5, Y: 5},
			Circle:   &domain.CircleProps{Radius: 0},
		}},
		{"nil props", domain.Shape{
			Kind:     domain.ShapeKindRectangle,
			Position: domain.Position{X: 5, Y: 5},
		}},
		{"scale annotation", domain.Shape{
			Kind:     domain.ShapeKindScale,
			Position: domain.Position{X: 5, Y: 5},
			Scale:    &domain.ScaleProps{FirstID: "a", SecondID: "b"},
		}},
	}
	for _, tt := range tests {
		c := Circumscribe(tt.shape)
		if !c.IsZero() {
			t.Errorf("%s: expected zero-area circumscription, got (%.1f, %.1f)",
				tt.name, c.Width, c.Height)
		}
		// Zero boxes collapse onto the shape position.
		if c.TopLeft != tt.shape.Position || c.BottomRight != tt.shape.Position {
			t.Errorf("%s: zero box not centered on position", tt.name)
		}
	}
}

func TestCircumscribeAt_DoesNotMutate(t *testing.T) {
	s := rectShape(0, 0, 200, 100, 0)
	c := CircumscribeAt(s, domain.Position{X: 500, Y: 500})
	if c.TopLeft.X != 400 || c.TopLeft.Y != 450 {
		t.Errorf("topLeft = (%.1f, %.1f), want (400, 450)", c.TopLeft.X, c.TopLeft.Y)
	}
	if s.Position.X != 0 || s.Position.Y != 0 {
		t.Errorf("shape position mutated to (%.1f, %.1f)", s.Position.X, s.Position.Y)
	}
}
