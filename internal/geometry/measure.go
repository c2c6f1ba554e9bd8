package geometry

import (
	"fmt"
	"math"

	"floorplan/internal/domain"
)

// GapClass classifies how two circumscriptions relate on the plane.
type GapClass string

const (
	GapOverlapping    GapClass = "overlapping"
	GapHorizontalOnly GapClass = "horizontalOnly"
	GapVerticalOnly   GapClass = "verticalOnly"
	GapDiagonal       GapClass = "diagonal"
)

// PairMeasure is the gap measurement between two shapes. Gaps are edge
// to edge; a negative gap means the boxes overlap on that axis.
// DiagonalDistance is meaningful only for GapDiagonal.
type PairMeasure struct {
	HorizontalGap    float64  `json:"horizontalGap"`
	VerticalGap      float64  `json:"verticalGap"`
	DiagonalDistance float64  `json:"diagonalDistance"`
	Class            GapClass `json:"class"`
}

// MeasurePair computes the axis gaps between two circumscriptions and
// classifies the result.
func MeasurePair(a, b Circumscription) PairMeasure {
	h := math.Max(a.TopLeft.X-b.BottomRight.X, b.TopLeft.X-a.BottomRight.X)
	v := math.Max(a.TopLeft.Y-b.BottomRight.Y, b.TopLeft.Y-a.BottomRight.Y)

	m := PairMeasure{HorizontalGap: h, VerticalGap: v}
	switch {
	case h <= 0 && v <= 0:
		m.Class = GapOverlapping
	case h > 0 && v <= 0:
		m.Class = GapHorizontalOnly
	case h <= 0 && v > 0:
		m.Class = GapVerticalOnly
	default:
		m.Class = GapDiagonal
		m.DiagonalDistance = math.Hypot(h, v)
	}
	return m
}

// AnnotationGeometry is the transient render geometry of a scale
// annotation: an arrow between the nearest corners of the two
// referenced shapes, plus a millimeter label.
type AnnotationGeometry struct {
	From     domain.Position `json:"from"`
	To       domain.Position `json:"to"`
	LengthMM float64         `json:"lengthMm"`
	Label    string          `json:"label"`
	Class    GapClass        `json:"class"`
}

// ResolveAnnotation derives the render geometry of a scale annotation
// from the current shape collection. References are resolved by id at
// call time; if either referenced shape is missing (or the annotation
// is malformed) the second return is false and nothing is rendered —
// the annotation itself survives.
func ResolveAnnotation(s domain.Shape, lookup func(id string) (domain.Shape, bool)) (AnnotationGeometry, bool) {
	if s.Kind != domain.ShapeKindScale || s.Scale == nil {
		return AnnotationGeometry{}, false
	}
	first, ok := lookup(s.Scale.FirstID)
	if !ok {
		return AnnotationGeometry{}, false
	}
	second, ok := lookup(s.Scale.SecondID)
	if !ok {
		return AnnotationGeometry{}, false
	}

	ca := Circumscribe(first)
	cb := Circumscribe(second)
	m := MeasurePair(ca, cb)

	from, to := nearestCorners(ca, cb)
	geo := AnnotationGeometry{From: from, To: to, Class: m.Class}

	// The labeled length follows the classification: the axis gap for
	// single-axis separation, the corner distance for diagonal, zero
	// when the shapes overlap.
	switch m.Class {
	case GapHorizontalOnly:
		geo.LengthMM = m.HorizontalGap
	case GapVerticalOnly:
		geo.LengthMM = m.VerticalGap
	case GapDiagonal:
		geo.LengthMM = m.DiagonalDistance
	default:
		geo.LengthMM = 0
	}
	geo.Label = fmt.Sprintf("%.0f mm", geo.LengthMM)
	return geo, true
}

// nearestCorners returns the pair of corners (one per box) with the
// smallest separation. The scan order makes ties deterministic, so the
// arrow orientation is stable for each left/right, above/below case.
func nearestCorners(a, b Circumscription) (domain.Position, domain.Position) {
	ac := [4]domain.Position{a.TopLeft, a.TopRight, a.BottomLeft, a.BottomRight}
	bc := [4]domain.Position{b.TopLeft, b.TopRight, b.BottomLeft, b.BottomRight}

	best := math.Inf(1)
	var from, to domain.Position
	for _, p := range ac {
		for _, q := range bc {
			d := math.Hypot(p.X-q.X, p.Y-q.Y)
			if d < best {
				best = d
				from, to = p, q
			}
		}
	}
	return from, to
}
