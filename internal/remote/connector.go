package remote

import (
	"context"
	"fmt"
	"time"

	"floorplan/internal/domain"
	"floorplan/internal/project"
)

// PlanSummary is one published plan as listed from a shared library.
type PlanSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Author    string    `json:"author"`
	UpdatedAt time.Time `json:"updatedAt"`
	SizeBytes int       `json:"sizeBytes"`
}

// Library abstracts a shared plan library: a team database that project
// documents are published to and fetched from. Documents travel as
// project files, so anything exportable is publishable.
type Library interface {
	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// List returns the published plans, newest first.
	List(ctx context.Context) ([]PlanSummary, error)

	// Publish uploads a project document under the given id, replacing
	// any previous version.
	Publish(ctx context.Context, id string, doc *project.File) error

	// Fetch downloads a published document.
	Fetch(ctx context.Context, id string) (*project.File, error)

	// Delete removes a published document.
	Delete(ctx context.Context, id string) error

	// Close closes the connection.
	Close() error
}

// Open creates a Library for the given connection. The password must be
// provided separately (from SecretStore).
func Open(conn *domain.LibraryConnection, password string) (Library, error) {
	switch conn.Driver {
	case domain.LibraryDriverSQLite:
		return newSQLiteLibrary(conn)
	case domain.LibraryDriverMySQL:
		return newSQLLibrary("mysql", buildMySQLDSN(conn, password))
	case domain.LibraryDriverPostgres:
		return newSQLLibrary("postgres", buildPostgresDSN(conn, password))
	case domain.LibraryDriverMongoDB:
		return newMongoLibrary(conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
