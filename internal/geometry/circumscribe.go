package geometry

import (
	"math"

	"floorplan/internal/domain"
)

// Epsilon is the floating tolerance for geometric comparisons, in mm.
const Epsilon = 1e-6

// Circumscription is the axis-aligned bounding box of a shape's visual
// extent in domain space, plus its four corners, centered on the
// shape's position. Rotation is folded into the box; the box itself is
// never rotated.
type Circumscription struct {
	Width       float64         `json:"width"`
	Height      float64         `json:"height"`
	TopLeft     domain.Position `json:"topLeft"`
	TopRight    domain.Position `json:"topRight"`
	BottomLeft  domain.Position `json:"bottomLeft"`
	BottomRight domain.Position `json:"bottomRight"`
}

// IsZero reports whether the circumscription has no area.
func (c Circumscription) IsZero() bool {
	return c.Width <= Epsilon || c.Height <= Epsilon
}

// Left returns the X of the box's left edge.
func (c Circumscription) Left() float64 { return c.TopLeft.X }

// Right returns the X of the box's right edge.
func (c Circumscription) Right() float64 { return c.BottomRight.X }

// Top returns the Y of the box's top edge.
func (c Circumscription) Top() float64 { return c.TopLeft.Y }

// Bottom returns the Y of the box's bottom edge.
func (c Circumscription) Bottom() float64 { return c.BottomRight.Y }

// Center returns the box center.
func (c Circumscription) Center() domain.Position {
	return domain.Position{
		X: (c.TopLeft.X + c.BottomRight.X) / 2,
		Y: (c.TopLeft.Y + c.BottomRight.Y) / 2,
	}
}

// Circumscribe computes the circumscription of a shape at its current
// position. Degenerate dimensions (≤ 0) and scale annotations yield a
// zero-area box at the shape position; callers skip rendering and
// constraint work for those.
func Circumscribe(s domain.Shape) Circumscription {
	w, h := extents(s)
	if w <= 0 || h <= 0 {
		return boxAround(s.Position, 0, 0)
	}
	return boxAround(s.Position, w, h)
}

// CircumscribeAt computes the circumscription the shape would have if
// centered at pos. Used by the boundary engine to evaluate candidate
// positions without mutating the shape.
func CircumscribeAt(s domain.Shape, pos domain.Position) Circumscription {
	w, h := extents(s)
	if w <= 0 || h <= 0 {
		return boxAround(pos, 0, 0)
	}
	return boxAround(pos, w, h)
}

// extents returns the axis-aligned width/height of the shape's visual
// extent, folding in rotation for rectangles and images.
func extents(s domain.Shape) (float64, float64) {
	switch s.Kind {
	case domain.ShapeKindCircle:
		if s.Circle == nil || s.Circle.Radius <= 0 {
			return 0, 0
		}
		d := 2 * s.Circle.Radius
		return d, d
	case domain.ShapeKindRectangle:
		if s.Rect == nil {
			return 0, 0
		}
		return rotatedExtents(s.Rect.Width, s.Rect.Height, s.Rect.RotationDeg)
	case domain.ShapeKindImage:
		if s.Image == nil {
			return 0, 0
		}
		return rotatedExtents(s.Image.Width, s.Image.Height, s.Image.RotationDeg)
	case domain.ShapeKindTextBox:
		if s.Text == nil {
			return 0, 0
		}
		return s.Text.Width, s.Text.Height
	case domain.ShapeKindScale:
		// No intrinsic extent: the annotation's visual geometry is
		// derived transiently from its two referenced shapes.
		return 0, 0
	default:
		return 0, 0
	}
}

// rotatedExtents computes the oriented-bounding-box extents of a w×h
// rectangle rotated by deg degrees:
//
//	w' = |w·cosθ| + |h·sinθ|
//	h' = |w·sinθ| + |h·cosθ|
//
// Exact at 0°/180° (unchanged) and 90°/270° (swapped) within Epsilon.
func rotatedExtents(w, h, deg float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	theta := deg * math.Pi / 180
	cos := math.Abs(math.Cos(theta))
	sin := math.Abs(math.Sin(theta))
	return w*cos + h*sin, w*sin + h*cos
}

func boxAround(center domain.Position, w, h float64) Circumscription {
	hw, hh := w/2, h/2
	return Circumscription{
		Width:       w,
		Height:      h,
		TopLeft:     domain.Position{X: center.X - hw, Y: center.Y - hh},
		TopRight:    domain.Position{X: center.X + hw, Y: center.Y - hh},
		BottomLeft:  domain.Position{X: center.X - hw, Y: center.Y + hh},
		BottomRight: domain.Position{X: center.X + hw, Y: center.Y + hh},
	}
}
