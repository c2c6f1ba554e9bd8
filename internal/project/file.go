package project

import (
	"time"

	"floorplan/internal/domain"
	"floorplan/internal/layout"
)

// FormatVersion is the current project file format, semver-style. The
// major component gates compatibility warnings on import.
const FormatVersion = "2.0"

// Metadata describes the project itself, not its geometry.
type Metadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ViewportState is the persisted part of the view transform. Base scale
// is intentionally absent: it is rederived from diagram and canvas size
// on every open.
type ViewportState struct {
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
	Zoom float64 `json:"zoom"`
}

// UIState carries the editor settings a collaborator would want to
// inherit along with the plan.
type UIState struct {
	GridSize    float64                 `json:"gridSize"`
	SnapEnabled bool                    `json:"snapEnabled"`
	Boundary    *domain.BoundaryArea    `json:"boundary,omitempty"`
	GroupClamp  layout.GroupClampPolicy `json:"groupClamp,omitempty"`
}

// File is the self-contained interchange document for one plan: the SVG
// diagram inline, every shape, the view state, and an integrity
// checksum over the geometry.
type File struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata"`

	// SVGData is the diagram document itself, nil when the plan has no
	// background diagram.
	SVGData       *string `json:"svgData,omitempty"`
	DiagramWidth  float64 `json:"diagramWidth"`
	DiagramHeight float64 `json:"diagramHeight"`

	Shapes   []domain.Shape `json:"shapes"`
	Viewport ViewportState  `json:"viewport"`
	UI       UIState        `json:"ui"`

	Checksum string `json:"checksum"`
}
