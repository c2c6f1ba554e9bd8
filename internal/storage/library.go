package storage

import (
	"fmt"
	"time"

	"floorplan/internal/domain"
)

// LibraryStore implements domain.LibraryConnectionStore using SQLite.
// Passwords never touch this table; they live in the secret store keyed
// by connection id.
type LibraryStore struct {
	db *DB
}

func NewLibraryStore(db *DB) *LibraryStore {
	return &LibraryStore{db: db}
}

func (s *LibraryStore) CreateConnection(c *domain.LibraryConnection) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO library_connections (id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *LibraryStore) GetConnection(id string) (*domain.LibraryConnection, error) {
	c := &domain.LibraryConnection{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at
		 FROM library_connections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get library connection: %w", err)
	}
	return c, nil
}

func (s *LibraryStore) ListConnections() ([]domain.LibraryConnection, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at
		 FROM library_connections ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []domain.LibraryConnection
	for rows.Next() {
		var c domain.LibraryConnection
		if err := rows.Scan(&c.ID, &c.Name, &c.Driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func (s *LibraryStore) UpdateConnection(c *domain.LibraryConnection) error {
	c.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE library_connections SET name = ?, driver = ?, host = ?, port = ?, database_name = ?, username = ?, ssl_mode = ?, extra_json = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.UpdatedAt, c.ID,
	)
	return err
}

func (s *LibraryStore) DeleteConnection(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM library_connections WHERE id = ?`, id)
	return err
}
