package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"floorplan/internal/project"
)

// sqlLibrary is the shared implementation for MySQL, Postgres, and SQLite.
// Published documents live in a single plans table keyed by id, with the
// project file stored as JSON.
type sqlLibrary struct {
	driverName string
	db         *sql.DB
}

const libraryTable = "floorplan_documents"

// newSQLLibrary opens a generic SQL library connection and ensures the
// documents table exists.
func newSQLLibrary(driverName, dsn string) (*sqlLibrary, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	lib := &sqlLibrary{driverName: driverName, db: db}
	if err := lib.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return lib, nil
}

func (l *sqlLibrary) ensureTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// TEXT is wide enough everywhere; MySQL needs LONGTEXT for big SVGs.
	dataType := "TEXT"
	if l.driverName == "mysql" {
		dataType = "LONGTEXT"
	}
	_, err := l.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL DEFAULT '',
			data %s NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, libraryTable, dataType))
	if err != nil {
		return fmt.Errorf("ensure library table: %w", err)
	}
	return nil
}

// rebind converts ?-style placeholders to the driver's syntax.
func (l *sqlLibrary) rebind(query string) string {
	if l.driverName != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *sqlLibrary) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return l.db.PingContext(ctx)
}

func (l *sqlLibrary) List(ctx context.Context) ([]PlanSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := l.db.QueryContext(ctx, l.rebind(
		`SELECT id, name, author, LENGTH(data), updated_at FROM `+libraryTable+` ORDER BY updated_at DESC`))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var s PlanSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Author, &s.SizeBytes, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (l *sqlLibrary) Publish(ctx context.Context, id string, doc *project.File) error {
	data, err := project.Encode(doc)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	// Upsert: delete-then-insert works identically on all three engines.
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, l.rebind(`DELETE FROM `+libraryTable+` WHERE id = ?`), id); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	_, err = tx.ExecContext(ctx, l.rebind(
		`INSERT INTO `+libraryTable+` (id, name, author, data, updated_at) VALUES (?, ?, ?, ?, ?)`),
		id, doc.Metadata.Name, doc.Metadata.Author, string(data), now)
	if err != nil {
		return fmt.Errorf("publish document: %w", err)
	}
	return tx.Commit()
}

func (l *sqlLibrary) Fetch(ctx context.Context, id string) (*project.File, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var data string
	err := l.db.QueryRowContext(ctx, l.rebind(
		`SELECT data FROM `+libraryTable+` WHERE id = ?`), id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	res, err := project.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return res.File, nil
}

func (l *sqlLibrary) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := l.db.ExecContext(ctx, l.rebind(`DELETE FROM `+libraryTable+` WHERE id = ?`), id)
	return err
}

func (l *sqlLibrary) Close() error {
	return l.db.Close()
}
