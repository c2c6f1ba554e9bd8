package remote

import (
	"floorplan/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteLibrary opens a library backed by a shared SQLite file (for
// teams passing plans around on a network drive). WAL mode with busy
// timeout for concurrent access.
func newSQLiteLibrary(conn *domain.LibraryConnection) (*sqlLibrary, error) {
	dsn := conn.Host + "?_journal_mode=WAL&_busy_timeout=5000"
	return newSQLLibrary("sqlite", dsn)
}
