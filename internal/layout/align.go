package layout

import (
	"fmt"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
)

// Alignment names an edge or centerline shapes can be aligned to.
type Alignment string

const (
	AlignTop     Alignment = "top"
	AlignBottom  Alignment = "bottom"
	AlignLeft    Alignment = "left"
	AlignRight   Alignment = "right"
	AlignCenterH Alignment = "centerH"
	AlignCenterV Alignment = "centerV"
)

// PositionChange records one shape's move produced by an alignment.
type PositionChange struct {
	ID  string          `json:"id"`
	Pos domain.Position `json:"pos"`
}

// Align computes the position changes that align every member of the
// selection to the first member (the primary). Only the relevant axis
// moves; the other coordinate of each member is untouched. Members
// whose circumscription has zero area (annotations, degenerate shapes)
// are skipped, including when they come first: the primary is the first
// member with real extent.
//
// The result is pure: callers apply the changes, clamp them, and commit.
func Align(members []domain.Shape, a Alignment) ([]PositionChange, error) {
	switch a {
	case AlignTop, AlignBottom, AlignLeft, AlignRight, AlignCenterH, AlignCenterV:
	default:
		return nil, fmt.Errorf("unknown alignment %q", a)
	}
	if len(members) < 2 {
		return nil, fmt.Errorf("alignment needs at least 2 shapes, got %d", len(members))
	}

	primary := -1
	var pc geometry.Circumscription
	for i, s := range members {
		c := geometry.Circumscribe(s)
		if !c.IsZero() {
			primary, pc = i, c
			break
		}
	}
	if primary < 0 {
		return nil, fmt.Errorf("no alignable shapes in selection")
	}

	var changes []PositionChange
	for i, s := range members {
		if i == primary {
			continue
		}
		c := geometry.Circumscribe(s)
		if c.IsZero() {
			continue
		}
		pos := s.Position
		switch a {
		case AlignTop:
			pos.Y = pc.Top() + c.Height/2
		case AlignBottom:
			pos.Y = pc.Bottom() - c.Height/2
		case AlignLeft:
			pos.X = pc.Left() + c.Width/2
		case AlignRight:
			pos.X = pc.Right() - c.Width/2
		case AlignCenterH:
			pos.X = pc.Center().X
		case AlignCenterV:
			pos.Y = pc.Center().Y
		}
		if pos != s.Position {
			changes = append(changes, PositionChange{ID: s.ID, Pos: pos})
		}
	}
	return changes, nil
}
