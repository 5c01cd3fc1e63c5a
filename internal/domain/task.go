package domain

import "encoding/json"

const (
	// DefaultName is assigned when a task payload omits the name.
	DefaultName = "Untitled"
	// DateLayout is the session date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
)

// Task is the persisted unit of tracked work. Timestamps are
// epoch-milliseconds as supplied by the client; SessionDate is the
// calendar day the time was logged against.
//
// TimerLogs and Subtasks are opaque client payloads. The server stores
// and returns them verbatim without validating their internal shape.
type Task struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Duration    int64             `json:"duration"`
	SessionDate string            `json:"sessionDate"`
	CreatedAt   int64             `json:"createdAt"`
	UpdatedAt   int64             `json:"updatedAt"`
	TimerLogs   []json.RawMessage `json:"timerLogs"`
	Subtasks    []json.RawMessage `json:"subtasks"`
}
