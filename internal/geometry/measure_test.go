package geometry

import (
	"math"
	"testing"

	"floorplan/internal/domain"
)

func circleShape(id string, x, y, r float64) domain.Shape {
	return domain.Shape{
		ID:       id,
		Kind:     domain.ShapeKindCircle,
		Position: domain.Position{X: x, Y: y},
		Circle:   &domain.CircleProps{Radius: r},
	}
}

func TestMeasurePair_HorizontalOnly(t *testing.T) {
	// Two radius-50 circles at (100,100) and (300,100): edges are
	// 100 mm apart horizontally, overlapping vertically.
	a := Circumscribe(circleShape("a", 100, 100, 50))
	b := Circumscribe(circleShape("b", 300, 100, 50))

	m := MeasurePair(a, b)
	if m.HorizontalGap != 100 {
		t.Errorf("horizontalGap = %.1f, want 100", m.HorizontalGap)
	}
	if m.VerticalGap > 0 {
		t.Errorf("verticalGap = %.1f, want ≤ 0", m.VerticalGap)
	}
	if m.Class != GapHorizontalOnly {
		t.Errorf("class = %s, want %s", m.Class, GapHorizontalOnly)
	}
	if m.DiagonalDistance != 0 {
		t.Errorf("diagonalDistance = %.1f, want 0 (unused for this class)", m.DiagonalDistance)
	}
}

func TestMeasurePair_IsSymmetric(t *testing.T) {
	a := Circumscribe(circleShape("a", 100, 100, 50))
	b := Circumscribe(circleShape("b", 300, 400, 50))

	ab := MeasurePair(a, b)
	ba := MeasurePair(b, a)
	if ab != ba {
		t.Errorf("MeasurePair not symmetric: %+v vs %+v", ab, ba)
	}
}

func TestMeasurePair_Classification(t *testing.T) {
	tests := []struct {
		name   string
		ax, ay float64
		bx, by float64
		want   GapClass
	}{
		{"overlapping", 100, 100, 150, 120, GapOverlapping},
		{"horizontal", 100, 100, 400, 100, GapHorizontalOnly},
		{"vertical", 100, 100, 100, 400, GapVerticalOnly},
		{"diagonal", 100, 100, 400, 400, GapDiagonal},
	}
	for _, tt := range tests {
		a := Circumscribe(circleShape("a", tt.ax, tt.ay, 50))
		b := Circumscribe(circleShape("b", tt.bx, tt.by, 50))
		m := MeasurePair(a, b)
		if m.Class != tt.want {
			t.Errorf("%s: class = %s, want %s", tt.name, m.Class, tt.want)
		}
	}
}

func TestMeasurePair_DiagonalDistance(t *testing.T) {
	// Gaps of 200 on both axes → diagonal √(200²+200²).
	a := Circumscribe(circleShape("a", 100, 100, 50))
	b := Circumscribe(circleShape("b", 400, 400, 50))

	m := MeasurePair(a, b)
	want := math.Hypot(200, 200)
	if math.Abs(m.DiagonalDistance-want) > Epsilon {
		t.Errorf("diagonalDistance = %.4f, want %.4f", m.DiagonalDistance, want)
	}
}

func lookupIn(shapes []domain.Shape) func(string) (domain.Shape, bool) {
	return func(id string) (domain.Shape, bool) {
		for _, s := range shapes {
			if s.ID == id {
				return s, true
			}
		}
		return domain.Shape{}, false
	}
}

func scaleShape(first, second string) domain.Shape {
	return domain.Shape{
		ID:    "ann",
		Kind:  domain.ShapeKindScale,
		Scale: &domain.ScaleProps{FirstID: first, SecondID: second},
	}
}

func TestResolveAnnotation_HorizontalArrow(t *testing.T) {
	shapes := []domain.Shape{
		circleShape("a", 100, 100, 50),
		circleShape("b", 300, 100, 50),
	}
	geo, ok := ResolveAnnotation(scaleShape("a", "b"), lookupIn(shapes))
	if !ok {
		t.Fatal("expected annotation to resolve")
	}
	if geo.Class != GapHorizontalOnly {
		t.Errorf("class = %s, want %s", geo.Class, GapHorizontalOnly)
	}
	if geo.LengthMM != 100 {
		t.Errorf("lengthMm = %.1f, want 100", geo.LengthMM)
	}
	if geo.Label != "100 mm" {
		t.Errorf("label = %q, want \"100 mm\"", geo.Label)
	}
	// Arrow runs between the facing corners: a's right edge to b's left edge.
	if geo.From.X != 150 || geo.To.X != 250 {
		t.Errorf("arrow X span = %.1f → %.1f, want 150 → 250", geo.From.X, geo.To.X)
	}
}

func TestResolveAnnotation_OrientationFollowsSides(t *testing.T) {
	shapes := []domain.Shape{
		circleShape("a", 300, 100, 50), // a right of b
		circleShape("b", 100, 100, 50),
	}
	geo, ok := ResolveAnnotation(scaleShape("a", "b"), lookupIn(shapes))
	if !ok {
		t.Fatal("expected annotation to resolve")
	}
	// From is on a (the right shape), so it points leftward.
	if geo.From.X <= geo.To.X {
		t.Errorf("expected From.X > To.X for right→left arrow, got %.1f → %.1f", geo.From.X, geo.To.X)
	}
}

func TestResolveAnnotation_DanglingReference(t *testing.T) {
	shapes := []domain.Shape{circleShape("a", 100, 100, 50)}

	if _, ok := ResolveAnnotation(scaleShape("a", "gone"), lookupIn(shapes)); ok {
		t.Error("annotation with dangling second reference must not resolve")
	}
	if _, ok := ResolveAnnotation(scaleShape("gone", "a"), lookupIn(shapes)); ok {
		t.Error("annotation with dangling first reference must not resolve")
	}
}

func TestResolveAnnotation_WrongKind(t *testing.T) {
	shapes := []domain.Shape{circleShape("a", 100, 100, 50)}
	if _, ok := ResolveAnnotation(circleShape("a", 0, 0, 1), lookupIn(shapes)); ok {
		t.Error("non-annotation shape must not resolve")
	}
}
