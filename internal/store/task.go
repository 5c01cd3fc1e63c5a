package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/timekeep/timekeep/internal/domain"
)

const taskColumns = "id, name, duration, session_date, created_at, updated_at, timer_logs, subtasks"

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?"
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List returns all tasks ordered by creation time descending, or only
// those on the given session date when dateFilter is non-nil.
func (r *TaskRepository) List(ctx context.Context, dateFilter *string) ([]*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var args []interface{}
	if dateFilter != nil {
		query += " WHERE session_date = ?"
		args = append(args, *dateFilter)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Upsert inserts the task or fully replaces the existing row with the
// same ID. Every column is overwritten; omitted payload fields arrive
// here already resolved to their defaults.
func (r *TaskRepository) Upsert(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			duration = excluded.duration,
			session_date = excluded.session_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			timer_logs = excluded.timer_logs,
			subtasks = excluded.subtasks
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Name,
		task.Duration,
		task.SessionDate,
		task.CreatedAt,
		task.UpdatedAt,
		encodeOpaqueList(task.TimerLogs),
		encodeOpaqueList(task.Subtasks),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}

	return nil
}

// SeedReplace writes a synthetic task, replacing any prior row with the
// same deterministic ID so repeated seeding stays idempotent.
func (r *TaskRepository) SeedReplace(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT OR REPLACE INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, '[]', '[]')
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Name,
		task.Duration,
		task.SessionDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to seed task: %w", err)
	}

	return nil
}

// Delete removes a task by its ID.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAll removes every task and returns the number of rows removed.
func (r *TaskRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks")
	if err != nil {
		return 0, fmt.Errorf("failed to clear tasks: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// rowScanner lets scanTask work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask maps a stored row to the wire record. A row whose updated_at
// was never populated (legacy rows, default 0) surfaces created_at as
// the read-time fallback rather than a stored backfill.
func scanTask(s rowScanner) (*domain.Task, error) {
	var task domain.Task
	var updatedAt sql.NullInt64
	var timerLogs, subtasks sql.NullString

	if err := s.Scan(
		&task.ID,
		&task.Name,
		&task.Duration,
		&task.SessionDate,
		&task.CreatedAt,
		&updatedAt,
		&timerLogs,
		&subtasks,
	); err != nil {
		return nil, err
	}

	task.UpdatedAt = task.CreatedAt
	if updatedAt.Valid && updatedAt.Int64 > 0 {
		task.UpdatedAt = updatedAt.Int64
	}

	task.TimerLogs = decodeOpaqueList(timerLogs)
	task.Subtasks = decodeOpaqueList(subtasks)

	return &task, nil
}

// decodeOpaqueList decodes a JSON array column. NULL, empty, or
// malformed text yields an empty list; decode failure is never
// surfaced to the caller.
func decodeOpaqueList(col sql.NullString) []json.RawMessage {
	if !col.Valid || col.String == "" {
		return []json.RawMessage{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(col.String), &items); err != nil || items == nil {
		return []json.RawMessage{}
	}
	return items
}

// encodeOpaqueList serializes an opaque list for storage. The column is
// always a valid JSON array, never NULL.
func encodeOpaqueList(items []json.RawMessage) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
