package domain

import "time"

// Venue groups the floor plans of a single location.
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Plan is one editable floor plan over a background diagram.
// Viewport state is persisted per plan; BaseScale is not — it is
// rederived from diagram and canvas size every session.
type Plan struct {
	ID      string `json:"id"`
	VenueID string `json:"venueId"`
	Name    string `json:"name"`
	Order   int    `json:"order"`

	ViewportX    float64 `json:"viewportX"`
	ViewportY    float64 `json:"viewportY"`
	ViewportZoom float64 `json:"viewportZoom"`

	// Editor settings, persisted like viewport state. GroupClamp names
	// a layout.GroupClampPolicy; unknown values resolve to the default.
	GridSize    float64 `json:"gridSize"`
	SnapEnabled bool    `json:"snapEnabled"`
	GroupClamp  string  `json:"groupClamp"`

	// Optional placement region; nil means the full diagram extent.
	Boundary *BoundaryArea `json:"boundary,omitempty"`

	// Background diagram. SVGPath references the source file; the
	// extent numbers are what the engine consumes.
	SVGPath       string  `json:"svgPath"`
	DiagramWidth  float64 `json:"diagramWidth"`
	DiagramHeight float64 `json:"diagramHeight"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlanState is the complete state of a plan for rendering.
type PlanState struct {
	Plan   Plan    `json:"plan"`
	Shapes []Shape `json:"shapes"`
}

type PlanStore interface {
	CreateVenue(v *Venue) error
	GetVenue(id string) (*Venue, error)
	ListVenues() ([]Venue, error)
	UpdateVenue(v *Venue) error
	DeleteVenue(id string) error

	CreatePlan(p *Plan) error
	GetPlan(id string) (*Plan, error)
	ListPlans(venueID string) ([]Plan, error)
	UpdatePlan(p *Plan) error
	DeletePlan(id string) error
	DeletePlansByVenue(venueID string) error
}
