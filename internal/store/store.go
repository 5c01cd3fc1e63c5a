// Package store owns the SQLite schema and the mapping between stored
// rows and the wire representation of tasks.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a task with the requested ID does not exist.
var ErrNotFound = errors.New("task not found")

// Open opens the SQLite database at path and ensures the schema is in
// place. The path can be a file path or ":memory:" for an in-memory
// database. A schema failure here must abort startup: the service may
// not serve requests against an unmigrated table.
func Open(path string) (*sql.DB, error) {
	// Configure connection string with pragmas
	connStr := path
	if !strings.Contains(path, "?") {
		connStr += "?"
	} else {
		connStr += "&"
	}
	connStr += "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_synchronous=NORMAL"

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}
