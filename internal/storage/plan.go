package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"floorplan/internal/domain"
)

// PlanStore implements domain.PlanStore using SQLite.
type PlanStore struct {
	db *DB
}

func NewPlanStore(db *DB) *PlanStore {
	return &PlanStore{db: db}
}

func (s *PlanStore) CreateVenue(v *domain.Venue) error {
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO venues (id, name, address, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Address, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func (s *PlanStore) GetVenue(id string) (*domain.Venue, error) {
	v := &domain.Venue{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, address, created_at, updated_at FROM venues WHERE id = ?`, id,
	).Scan(&v.ID, &v.Name, &v.Address, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

func (s *PlanStore) ListVenues() ([]domain.Venue, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, address, created_at, updated_at FROM venues ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (s *PlanStore) UpdateVenue(v *domain.Venue) error {
	v.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE venues SET name = ?, address = ?, updated_at = ? WHERE id = ?`,
		v.Name, v.Address, v.UpdatedAt, v.ID,
	)
	return err
}

func (s *PlanStore) DeleteVenue(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM venues WHERE id = ?`, id)
	return err
}

func encodeBoundary(b *domain.BoundaryArea) (string, error) {
	if b == nil {
		return "", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode boundary: %w", err)
	}
	return string(data), nil
}

func decodeBoundary(raw string) (*domain.BoundaryArea, error) {
	if raw == "" {
		return nil, nil
	}
	b := &domain.BoundaryArea{}
	if err := json.Unmarshal([]byte(raw), b); err != nil {
		return nil, fmt.Errorf("decode boundary: %w", err)
	}
	return b, nil
}

func (s *PlanStore) CreatePlan(p *domain.Plan) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	boundary, err := encodeBoundary(p.Boundary)
	if err != nil {
		return err
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO plans (id, venue_id, name, sort_order, viewport_x, viewport_y, viewport_zoom, grid_size, snap_enabled, group_clamp, boundary_json, svg_path, diagram_width, diagram_height, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.VenueID, p.Name, p.Order, p.ViewportX, p.ViewportY, p.ViewportZoom,
		p.GridSize, p.SnapEnabled, p.GroupClamp, boundary, p.SVGPath, p.DiagramWidth, p.DiagramHeight,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PlanStore) scanPlan(scan func(dest ...any) error) (*domain.Plan, error) {
	p := &domain.Plan{}
	var boundary string
	err := scan(&p.ID, &p.VenueID, &p.Name, &p.Order, &p.ViewportX, &p.ViewportY, &p.ViewportZoom,
		&p.GridSize, &p.SnapEnabled, &p.GroupClamp, &boundary, &p.SVGPath, &p.DiagramWidth, &p.DiagramHeight,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Boundary, err = decodeBoundary(boundary)
	if err != nil {
		return nil, err
	}
	return p, nil
}

const planColumns = `id, venue_id, name, sort_order, viewport_x, viewport_y, viewport_zoom, grid_size, snap_enabled, group_clamp, boundary_json, svg_path, diagram_width, diagram_height, created_at, updated_at`

func (s *PlanStore) GetPlan(id string) (*domain.Plan, error) {
	row := s.db.Conn().QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := s.scanPlan(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (s *PlanStore) ListPlans(venueID string) ([]domain.Plan, error) {
	rows, err := s.db.Conn().Query(
		`SELECT `+planColumns+` FROM plans WHERE venue_id = ? ORDER BY sort_order ASC, created_at ASC`,
		venueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		p, err := s.scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (s *PlanStore) UpdatePlan(p *domain.Plan) error {
	p.UpdatedAt = time.Now()
	boundary, err := encodeBoundary(p.Boundary)
	if err != nil {
		return err
	}
	_, err = s.db.Conn().Exec(
		`UPDATE plans SET name = ?, sort_order = ?, viewport_x = ?, viewport_y = ?, viewport_zoom = ?, grid_size = ?, snap_enabled = ?, group_clamp = ?, boundary_json = ?, svg_path = ?, diagram_width = ?, diagram_height = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Order, p.ViewportX, p.ViewportY, p.ViewportZoom, p.GridSize, p.SnapEnabled,
		p.GroupClamp, boundary, p.SVGPath, p.DiagramWidth, p.DiagramHeight, p.UpdatedAt, p.ID,
	)
	return err
}

func (s *PlanStore) DeletePlan(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM plans WHERE id = ?`, id)
	return err
}

func (s *PlanStore) DeletePlansByVenue(venueID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM plans WHERE venue_id = ?`, venueID)
	return err
}
