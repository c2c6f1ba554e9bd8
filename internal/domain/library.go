package domain

import "time"

// LibraryDriver represents the backing store of a shared plan library.
type LibraryDriver string

const (
	LibraryDriverMySQL    LibraryDriver = "mysql"
	LibraryDriverPostgres LibraryDriver = "postgres"
	LibraryDriverMongoDB  LibraryDriver = "mongodb"
	LibraryDriverSQLite   LibraryDriver = "sqlite"
)

// LibraryConnection holds the metadata for connecting to a shared plan
// library (a team database plans are published to / fetched from).
// The password is stored separately in the SecretStore.
type LibraryConnection struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Driver    LibraryDriver `json:"driver"`
	Host      string        `json:"host"`     // hostname or file path (sqlite)
	Port      int           `json:"port"`     // 0 for sqlite
	Database  string        `json:"database"` // db name or empty for sqlite
	Username  string        `json:"username"`
	SSLMode   string        `json:"sslMode"`
	ExtraJSON string        `json:"extraJson"` // driver-specific options
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// LibraryConnectionStore manages CRUD operations for library connections.
type LibraryConnectionStore interface {
	CreateConnection(c *LibraryConnection) error
	GetConnection(id string) (*LibraryConnection, error)
	ListConnections() ([]LibraryConnection, error)
	UpdateConnection(c *LibraryConnection) error
	DeleteConnection(id string) error
}
