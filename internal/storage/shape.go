package storage

import (
	"fmt"
	"time"

	"floorplan/internal/domain"
)

// ShapeStore implements domain.ShapeStore using SQLite.
type ShapeStore struct {
	db *DB
}

func NewShapeStore(db *DB) *ShapeStore {
	return &ShapeStore{db: db}
}

func (s *ShapeStore) CreateShape(sh *domain.Shape) error {
	now := time.Now()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	props, err := sh.MarshalProps()
	if err != nil {
		return err
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO shapes (id, plan_id, kind, x, y, props_json, style_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.PlanID, sh.Kind, sh.Position.X, sh.Position.Y, props, sh.StyleJSON, sh.CreatedAt, sh.UpdatedAt,
	)
	return err
}

func (s *ShapeStore) GetShape(id string) (*domain.Shape, error) {
	sh := &domain.Shape{}
	var props string
	err := s.db.Conn().QueryRow(
		`SELECT id, plan_id, kind, x, y, props_json, style_json, created_at, updated_at FROM shapes WHERE id = ?`, id,
	).Scan(&sh.ID, &sh.PlanID, &sh.Kind, &sh.Position.X, &sh.Position.Y, &props, &sh.StyleJSON, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get shape: %w", err)
	}
	if err := sh.UnmarshalProps(props); err != nil {
		return nil, fmt.Errorf("decode shape %s props: %w", sh.ID, err)
	}
	return sh, nil
}

func (s *ShapeStore) ListShapes(planID string) ([]domain.Shape, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, plan_id, kind, x, y, props_json, style_json, created_at, updated_at FROM shapes WHERE plan_id = ? ORDER BY created_at ASC`,
		planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shapes []domain.Shape
	for rows.Next() {
		var sh domain.Shape
		var props string
		if err := rows.Scan(&sh.ID, &sh.PlanID, &sh.Kind, &sh.Position.X, &sh.Position.Y, &props, &sh.StyleJSON, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, err
		}
		if err := sh.UnmarshalProps(props); err != nil {
			return nil, fmt.Errorf("decode shape %s props: %w", sh.ID, err)
		}
		shapes = append(shapes, sh)
	}
	return shapes, rows.Err()
}

func (s *ShapeStore) UpdateShape(sh *domain.Shape) error {
	sh.UpdatedAt = time.Now()
	props, err := sh.MarshalProps()
	if err != nil {
		return err
	}
	_, err = s.db.Conn().Exec(
		`UPDATE shapes SET kind = ?, x = ?, y = ?, props_json = ?, style_json = ?, updated_at = ? WHERE id = ?`,
		sh.Kind, sh.Position.X, sh.Position.Y, props, sh.StyleJSON, sh.UpdatedAt, sh.ID,
	)
	return err
}

func (s *ShapeStore) DeleteShape(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM shapes WHERE id = ?`, id)
	return err
}

func (s *ShapeStore) DeleteShapesByPlan(planID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM shapes WHERE plan_id = ?`, planID)
	return err
}

// ReplacePlanShapes atomically replaces all shapes for a plan.
// Used by undo/redo and project import to fully sync DB with a snapshot.
func (s *ShapeStore) ReplacePlanShapes(planID string, shapes []domain.Shape) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM shapes WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("delete shapes: %w", err)
	}

	now := time.Now()
	for _, sh := range shapes {
		props, err := sh.MarshalProps()
		if err != nil {
			return fmt.Errorf("encode shape %s: %w", sh.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO shapes (id, plan_id, kind, x, y, props_json, style_json, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sh.ID, planID, sh.Kind, sh.Position.X, sh.Position.Y, props, sh.StyleJSON, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert shape %s: %w", sh.ID, err)
		}
	}

	return tx.Commit()
}
