package geometry

import (
	"math"

	"floorplan/internal/domain"
)

// Zoom limits. Out-of-range zoom is clamped, never rejected.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Viewport holds the parameters mapping domain space (mm) to display
// space (canvas pixels). BaseScale is derived via FitScale whenever the
// canvas or diagram size changes; it is never persisted. All shape
// interaction (hit testing, drag translation, boundary drawing) goes
// through ToDisplay/ToDomain — nothing else may do scale math.
type Viewport struct {
	BaseScale     float64 `json:"baseScale"`
	UserZoom      float64 `json:"userZoom"`
	PanX          float64 `json:"panX"`
	PanY          float64 `json:"panY"`
	CanvasWidth   float64 `json:"canvasWidth"`
	CanvasHeight  float64 `json:"canvasHeight"`
	DiagramWidth  float64 `json:"diagramWidth"`
	DiagramHeight float64 `json:"diagramHeight"`
}

// ClampZoom saturates a zoom factor into [MinZoom, MaxZoom].
func ClampZoom(zoom float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, zoom))
}

// FitScale derives the base scale that fits the diagram inside the
// canvas while preserving aspect ratio. Degenerate inputs yield 1.
func FitScale(diagramW, diagramH, canvasW, canvasH float64) float64 {
	if diagramW <= 0 || diagramH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return 1
	}
	return math.Min(canvasW/diagramW, canvasH/diagramH)
}

// FinalScale is baseScale × clamped user zoom. A non-positive base
// scale falls back to 1 so inverse transforms can never divide by zero.
func (v Viewport) FinalScale() float64 {
	base := v.BaseScale
	if base <= 0 {
		base = 1
	}
	return base * ClampZoom(v.UserZoom)
}

// centerOffset centers the scaled diagram within the canvas.
func (v Viewport) centerOffset() (float64, float64) {
	scale := v.FinalScale()
	return (v.CanvasWidth - v.DiagramWidth*scale) / 2,
		(v.CanvasHeight - v.DiagramHeight*scale) / 2
}

// ToDisplay maps a domain-space position to display space:
// display = domain·finalScale + centerOffset + pan.
func (v Viewport) ToDisplay(p domain.Position) domain.Position {
	scale := v.FinalScale()
	cx, cy := v.centerOffset()
	return domain.Position{
		X: p.X*scale + cx + v.PanX,
		Y: p.Y*scale + cy + v.PanY,
	}
}

// ToDomain maps a display/pointer position back to domain space:
// domain = (display - centerOffset - pan) / finalScale.
func (v Viewport) ToDomain(p domain.Position) domain.Position {
	scale := v.FinalScale()
	cx, cy := v.centerOffset()
	return domain.Position{
		X: (p.X - cx - v.PanX) / scale,
		Y: (p.Y - cy - v.PanY) / scale,
	}
}
