package layout

import (
	"math/rand"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
)

// DefaultPadding is the clearance in mm kept around existing shapes
// when auto-placing a new one.
const DefaultPadding = 50.0

// PlacementJitter is the radius in mm of the random offset applied when
// no free cell exists, so successive placements in a full area don't
// stack exactly on the center.
const PlacementJitter = 40.0

// Placer finds free positions for newly created shapes so tool-created
// tables don't stack on top of existing furniture.
type Placer struct {
	gridSize float64
	padding  float64
}

func NewPlacer(gridSize float64) *Placer {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &Placer{gridSize: gridSize, padding: DefaultPadding}
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// NextPosition scans the boundary area row by row for the first grid
// cell where a shape of the given extent fits without touching the
// padded box of any existing shape. Existing shapes with zero extent
// (annotations) don't occupy space. The returned position is a center.
// When nothing fits, a jittered area center is returned and the caller
// relies on clamping.
func (p *Placer) NextPosition(existing []domain.Shape, w, h float64, area domain.BoundaryArea) domain.Position {
	if w <= 0 || h <= 0 {
		return Center(area)
	}

	occupied := make([]rect, 0, len(existing))
	for _, s := range existing {
		c := geometry.Circumscribe(s)
		if c.IsZero() {
			continue
		}
		occupied = append(occupied, rect{
			x: c.Left() - p.padding,
			y: c.Top() - p.padding,
			w: c.Width + p.padding*2,
			h: c.Height + p.padding*2,
		})
	}
	if len(occupied) == 0 {
		return domain.Position{X: area.X + w/2, Y: area.Y + h/2}
	}

	candidate := rect{w: w, h: h}
	for y := area.Y; y+h <= area.Y+area.Height; y += p.gridSize {
		for x := area.X; x+w <= area.X+area.Width; x += p.gridSize {
			candidate.x = SnapToGrid(x, p.gridSize, area.X)
			candidate.y = SnapToGrid(y, p.gridSize, area.Y)

			overlaps := false
			for _, occ := range occupied {
				if candidate.intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return domain.Position{X: candidate.x + w/2, Y: candidate.y + h/2}
			}
		}
	}

	return jitteredCenter(area)
}

// jitteredCenter spreads give-up placements around the area midpoint so
// repeated calls on a full plan remain individually selectable.
func jitteredCenter(area domain.BoundaryArea) domain.Position {
	c := Center(area)
	c.X += (rand.Float64()*2 - 1) * PlacementJitter
	c.Y += (rand.Float64()*2 - 1) * PlacementJitter
	return c
}

// Center returns the midpoint of an area.
func Center(area domain.BoundaryArea) domain.Position {
	return domain.Position{X: area.X + area.Width/2, Y: area.Y + area.Height/2}
}

// DuplicateOffset is the diagonal nudge in mm applied to copies so a
// duplicate is visibly distinct from its source.
const DuplicateOffset = 50.0

// OffsetForCopy returns the position a duplicated shape should take,
// clamped so the copy stays inside the area even when the source sits
// in the bottom-right corner.
func OffsetForCopy(s domain.Shape, area domain.BoundaryArea) domain.Position {
	pos := domain.Position{X: s.Position.X + DuplicateOffset, Y: s.Position.Y + DuplicateOffset}
	return ClampToBoundary(s, pos, area)
}
