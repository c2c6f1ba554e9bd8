package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type ShapeKind string

const (
	ShapeKindRectangle ShapeKind = "rectangle"
	ShapeKindCircle    ShapeKind = "circle"
	ShapeKindImage     ShapeKind = "image"
	ShapeKindTextBox   ShapeKind = "textBox"
	ShapeKindScale     ShapeKind = "scaleAnnotation"
)

// Position is a point in domain space. Domain units are millimeters,
// 1 mm = 1 px before zoom.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundaryArea is the rectangular placement region in domain space.
// When a plan has none, the full diagram extent is the active region.
type BoundaryArea struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectProps describes rectangular shapes (tables, stages).
type RectProps struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	RotationDeg float64 `json:"rotationDeg"`
}

// CircleProps describes round tables.
type CircleProps struct {
	Radius float64 `json:"radius"`
}

// ImageProps describes placed image shapes. SourceRef points at the
// asset the frontend renders; the engine only uses the dimensions.
type ImageProps struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	RotationDeg float64 `json:"rotationDeg"`
	SourceRef   string  `json:"sourceRef"`
}

// TextProps describes free-standing text boxes.
type TextProps struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Color      string  `json:"color"`
}

// ScaleProps is a dimension annotation between two other shapes.
// FirstID/SecondID are weak references: resolved by id lookup at
// render time, never cached, never owning. If either shape is gone
// the annotation renders nothing but is not deleted.
type ScaleProps struct {
	FirstID  string `json:"firstId"`
	SecondID string `json:"secondId"`
}

// Shape is a tagged union over the five shape kinds. Exactly the
// variant pointer matching Kind is non-nil. Position is the shape's
// center in domain space.
type Shape struct {
	ID       string    `json:"id"`
	PlanID   string    `json:"planId"`
	Kind     ShapeKind `json:"kind"`
	Position Position  `json:"position"`

	Rect   *RectProps   `json:"rect,omitempty"`
	Circle *CircleProps `json:"circle,omitempty"`
	Image  *ImageProps  `json:"image,omitempty"`
	Text   *TextProps   `json:"text,omitempty"`
	Scale  *ScaleProps  `json:"scale,omitempty"`

	StyleJSON string    `json:"styleJson"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy. History snapshots rely on clones so a
// stored snapshot can never alias live shape state.
func (s Shape) Clone() Shape {
	c := s
	if s.Rect != nil {
		r := *s.Rect
		c.Rect = &r
	}
	if s.Circle != nil {
		r := *s.Circle
		c.Circle = &r
	}
	if s.Image != nil {
		r := *s.Image
		c.Image = &r
	}
	if s.Text != nil {
		r := *s.Text
		c.Text = &r
	}
	if s.Scale != nil {
		r := *s.Scale
		c.Scale = &r
	}
	return c
}

// CloneShapes deep-copies a shape slice.
func CloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// MarshalProps serializes the active variant to JSON for storage.
func (s Shape) MarshalProps() (string, error) {
	var v any
	switch s.Kind {
	case ShapeKindRectangle:
		v = s.Rect
	case ShapeKindCircle:
		v = s.Circle
	case ShapeKindImage:
		v = s.Image
	case ShapeKindTextBox:
		v = s.Text
	case ShapeKindScale:
		v = s.Scale
	default:
		return "", fmt.Errorf("unknown shape kind: %s", s.Kind)
	}
	if v == nil {
		return "{}", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s props: %w", s.Kind, err)
	}
	return string(data), nil
}

// UnmarshalProps hydrates the variant pointer for s.Kind from stored JSON.
func (s *Shape) UnmarshalProps(propsJSON string) error {
	switch s.Kind {
	case ShapeKindRectangle:
		s.Rect = &RectProps{}
		return json.Unmarshal([]byte(propsJSON), s.Rect)
	case ShapeKindCircle:
		s.Circle = &CircleProps{}
		return json.Unmarshal([]byte(propsJSON), s.Circle)
	case ShapeKindImage:
		s.Image = &ImageProps{}
		return json.Unmarshal([]byte(propsJSON), s.Image)
	case ShapeKindTextBox:
		s.Text = &TextProps{}
		return json.Unmarshal([]byte(propsJSON), s.Text)
	case ShapeKindScale:
		s.Scale = &ScaleProps{}
		return json.Unmarshal([]byte(propsJSON), s.Scale)
	default:
		return fmt.Errorf("unknown shape kind: %s", s.Kind)
	}
}

type ShapeStore interface {
	CreateShape(s *Shape) error
	GetShape(id string) (*Shape, error)
	ListShapes(planID string) ([]Shape, error)
	UpdateShape(s *Shape) error
	DeleteShape(id string) error
	DeleteShapesByPlan(planID string) error
	ReplacePlanShapes(planID string, shapes []Shape) error
}
