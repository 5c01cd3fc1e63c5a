package store

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// createTasksTable is the schema for a fresh database.
const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    duration     INTEGER DEFAULT 0,
    session_date TEXT NOT NULL,
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER DEFAULT 0,
    timer_logs   TEXT DEFAULT '[]',
    subtasks     TEXT DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_tasks_session_date ON tasks(session_date);
`

// EnsureSchema creates the tasks table if absent and additively adds
// any columns older databases are missing. It is idempotent and runs on
// every startup; existing rows are never rewritten or dropped.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(createTasksTable); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	columns, err := tableColumns(db, "tasks")
	if err != nil {
		return err
	}

	if !columns["subtasks"] {
		logrus.WithField("column", "subtasks").Info("migrating tasks table: adding missing column")
		if _, err := db.Exec("ALTER TABLE tasks ADD COLUMN subtasks TEXT DEFAULT '[]'"); err != nil {
			return fmt.Errorf("failed to add subtasks column: %w", err)
		}
	}
	if !columns["updated_at"] {
		logrus.WithField("column", "updated_at").Info("migrating tasks table: adding missing column")
		if _, err := db.Exec("ALTER TABLE tasks ADD COLUMN updated_at INTEGER DEFAULT 0"); err != nil {
			return fmt.Errorf("failed to add updated_at column: %w", err)
		}
	}

	return nil
}

// tableColumns returns the set of column names on the given table.
func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s table: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column info: %w", err)
	}

	return columns, nil
}
