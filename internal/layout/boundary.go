package layout

import (
	"fmt"
	"math"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"
)

// DefaultGridSize is the grid pitch in mm used when a plan has none set.
const DefaultGridSize = 25.0

// GroupClampPolicy controls whether follower shapes in a multi-selection
// drag are individually clamped to the boundary. The historical editor
// behavior clamps only the lead shape, which keeps the formation intact
// even if followers exit the region.
type GroupClampPolicy string

const (
	// ClampLeadOnly translates followers by the raw lead delta.
	ClampLeadOnly GroupClampPolicy = "leadOnly"
	// ClampAllMembers re-clamps every follower after translation.
	ClampAllMembers GroupClampPolicy = "allMembers"
)

// PolicyOrDefault parses a stored policy name; unknown or empty values
// fall back to the default lead-only behavior.
func PolicyOrDefault(name string) GroupClampPolicy {
	switch GroupClampPolicy(name) {
	case ClampLeadOnly, ClampAllMembers:
		return GroupClampPolicy(name)
	default:
		return ClampLeadOnly
	}
}

// Config holds the editor settings the constraint engine consumes.
type Config struct {
	GridSize    float64          `json:"gridSize"`
	SnapEnabled bool             `json:"snapEnabled"`
	GroupClamp  GroupClampPolicy `json:"groupClamp"`
}

// DefaultConfig returns the editor defaults.
func DefaultConfig() Config {
	return Config{
		GridSize:    DefaultGridSize,
		SnapEnabled: true,
		GroupClamp:  ClampLeadOnly,
	}
}

// SnapToGrid snaps a coordinate to the nearest grid line, relative to
// the boundary region's origin rather than the global origin. Callers
// pass the diagram origin when no boundary region is set. A non-positive
// grid size disables snapping.
func SnapToGrid(value, gridSize, origin float64) float64 {
	if gridSize <= 0 {
		return value
	}
	return origin + math.Round((value-origin)/gridSize)*gridSize
}

// SnapPosition snaps both axes of a position against an area's origin.
func SnapPosition(pos domain.Position, gridSize float64, area domain.BoundaryArea) domain.Position {
	return domain.Position{
		X: SnapToGrid(pos.X, gridSize, area.X),
		Y: SnapToGrid(pos.Y, gridSize, area.Y),
	}
}

// clampAxis clamps a bbox low edge into [lo, hi] with saturating
// min/max. When the shape is larger than the region (hi < lo) the
// result deterministically pins to lo.
func clampAxis(edge, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, edge))
}

// ClampToBoundary clamps a candidate center position so the shape's
// circumscription stays inside the boundary area. Scale annotations and
// zero-extent shapes are not subject to boundary logic and pass through
// unchanged, as does any candidate when the area itself has no extent
// (a plan with no boundary and no diagram attached yet).
func ClampToBoundary(s domain.Shape, candidate domain.Position, area domain.BoundaryArea) domain.Position {
	if area.Width <= 0 || area.Height <= 0 {
		return candidate
	}
	circ := geometry.CircumscribeAt(s, candidate)
	if s.Kind == domain.ShapeKindScale || circ.IsZero() {
		return candidate
	}

	left := clampAxis(candidate.X-circ.Width/2, area.X, area.X+area.Width-circ.Width)
	top := clampAxis(candidate.Y-circ.Height/2, area.Y, area.Y+area.Height-circ.Height)

	return domain.Position{
		X: left + circ.Width/2,
		Y: top + circ.Height/2,
	}
}

// PlacementCheck is the result of a creation-time placement validation.
// It never mutates anything: the caller decides whether to reject the
// placement or adopt the suggested position.
type PlacementCheck struct {
	Allowed    bool            `json:"allowed"`
	Suggested  domain.Position `json:"suggested"`
	Violations []string        `json:"violations"`
}

// CheckPlacement validates a candidate position against the boundary
// area and reports which edges would be violated, along with the
// clamped position that would satisfy the constraint.
func CheckPlacement(s domain.Shape, pos domain.Position, area domain.BoundaryArea) PlacementCheck {
	circ := geometry.CircumscribeAt(s, pos)
	check := PlacementCheck{Allowed: true, Suggested: pos}
	if s.Kind == domain.ShapeKindScale || circ.IsZero() {
		return check
	}
	if area.Width <= 0 || area.Height <= 0 {
		return check
	}

	if circ.Left() < area.X {
		check.Violations = append(check.Violations, "left edge outside boundary")
	}
	if circ.Right() > area.X+area.Width {
		check.Violations = append(check.Violations, "right edge outside boundary")
	}
	if circ.Top() < area.Y {
		check.Violations = append(check.Violations, "top edge outside boundary")
	}
	if circ.Bottom() > area.Y+area.Height {
		check.Violations = append(check.Violations, "bottom edge outside boundary")
	}
	if circ.Width > area.Width {
		check.Violations = append(check.Violations,
			fmt.Sprintf("shape width %.0f exceeds boundary width %.0f", circ.Width, area.Width))
	}
	if circ.Height > area.Height {
		check.Violations = append(check.Violations,
			fmt.Sprintf("shape height %.0f exceeds boundary height %.0f", circ.Height, area.Height))
	}

	if len(check.Violations) > 0 {
		check.Allowed = false
		check.Suggested = ClampToBoundary(s, pos, area)
	}
	return check
}

// AreaForPlan resolves the active placement region: the plan's explicit
// boundary if set, otherwise the full diagram extent.
func AreaForPlan(p *domain.Plan) domain.BoundaryArea {
	if p != nil && p.Boundary != nil {
		return *p.Boundary
	}
	if p == nil {
		return domain.BoundaryArea{}
	}
	return domain.BoundaryArea{X: 0, Y: 0, Width: p.DiagramWidth, Height: p.DiagramHeight}
}
