package layout

import (
	"testing"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
)

func applyChanges(shapes []domain.Shape, changes []PositionChange) []domain.Shape {
	out := domain.CloneShapes(shapes)
	for _, ch := range changes {
		for i := range out {
			if out[i].ID == ch.ID {
				out[i].Position = ch.Pos
			}
		}
	}
	return out
}

func TestAlign_TopEqualizesTopEdges(t *testing.T) {
	shapes := []domain.Shape{
		rectShape("a", 100, 100, 200, 100), // primary, top edge at 50
		rectShape("b", 400, 300, 100, 200),
		circleShape("c", 700, 500, 75),
	}
	changes, err := Align(shapes, AlignTop)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %d, want 2", len(changes))
	}

	after := applyChanges(shapes, changes)
	for _, s := range after {
		c := geometry.Circumscribe(s)
		if c.Top() != 50 {
			t.Errorf("%s top edge = %.1f, want 50", s.ID, c.Top())
		}
	}
	// Only Y moves.
	for i, s := range after {
		if s.Position.X != shapes[i].Position.X {
			t.Errorf("%s X moved from %.1f to %.1f", s.ID, shapes[i].Position.X, s.Position.X)
		}
	}
}

func TestAlign_LeftAndRight(t *testing.T) {
	shapes := []domain.Shape{
		rectShape("a", 100, 100, 200, 100),
		rectShape("b", 400, 300, 100, 200),
	}

	left, err := Align(shapes, AlignLeft)
	if err != nil {
		t.Fatalf("Align left: %v", err)
	}
	after := applyChanges(shapes, left)
	if got := geometry.Circumscribe(after[1]).Left(); got != 0 {
		t.Errorf("left edge = %.1f, want 0", got)
	}

	right, err := Align(shapes, AlignRight)
	if err != nil {
		t.Fatalf("Align right: %v", err)
	}
	after = applyChanges(shapes, right)
	if got := geometry.Circumscribe(after[1]).Right(); got != 200 {
		t.Errorf("right edge = %.1f, want 200", got)
	}
}

func TestAlign_CentersFollowPrimary(t *testing.T) {
	shapes := []domain.Shape{
		rectShape("a", 100, 100, 200, 100),
		circleShape("b", 400, 300, 50),
	}

	h, err := Align(shapes, AlignCenterH)
	if err != nil {
		t.Fatalf("Align centerH: %v", err)
	}
	after := applyChanges(shapes, h)
	if after[1].Position.X != 100 || after[1].Position.Y != 300 {
		t.Errorf("centerH moved b to (%.1f, %.1f), want (100, 300)",
			after[1].Position.X, after[1].Position.Y)
	}

	v, err := Align(shapes, AlignCenterV)
	if err != nil {
		t.Fatalf("Align centerV: %v", err)
	}
	after = applyChanges(shapes, v)
	if after[1].Position.X != 400 || after[1].Position.Y != 100 {
		t.Errorf("centerV moved b to (%.1f, %.1f), want (400, 100)",
			after[1].Position.X, after[1].Position.Y)
	}
}

func TestAlign_SkipsZeroExtentMembers(t *testing.T) {
	ann := domain.Shape{
		ID:       "ann",
		Kind:     domain.ShapeKindScale,
		Position: domain.Position{X: 1, Y: 1},
		Scale:    &domain.ScaleProps{FirstID: "a", SecondID: "b"},
	}
	shapes := []domain.Shape{
		ann, // first in selection but unalignable
		rectShape("a", 100, 100, 200, 100),
		rectShape("b", 400, 300, 100, 200),
	}
	changes, err := Align(shapes, AlignTop)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	// Only b moves: the annotation is skipped, a becomes the primary.
	if len(changes) != 1 || changes[0].ID != "b" {
		t.Fatalf("changes = %+v, want one change for b", changes)
	}
}

func TestAlign_Errors(t *testing.T) {
	shapes := []domain.Shape{rectShape("a", 0, 0, 10, 10)}
	if _, err := Align(shapes, AlignTop); err == nil {
		t.Error("expected error for single-member selection")
	}

	shapes = append(shapes, rectShape("b", 5, 5, 10, 10))
	if _, err := Align(shapes, Alignment("middle")); err == nil {
		t.Error("expected error for unknown alignment")
	}

	anns := []domain.Shape{
		{ID: "x", Kind: domain.ShapeKindScale},
		{ID: "y", Kind: domain.ShapeKindScale},
	}
	if _, err := Align(anns, AlignLeft); err == nil {
		t.Error("expected error when nothing in the selection is alignable")
	}
}
