package request

import (
	"encoding/json"
	"net/http"
)

// UpsertTaskRequest represents a sync push for a single task. Pointer
// fields distinguish omitted keys from zero values: an omitted field is
// reset to its server-side default, not merged with the stored row.
type UpsertTaskRequest struct {
	ID          string            `json:"id"`
	Name        *string           `json:"name"`
	Duration    *int64            `json:"duration"`
	SessionDate *string           `json:"sessionDate"`
	CreatedAt   *int64            `json:"createdAt"`
	UpdatedAt   *int64            `json:"updatedAt"`
	TimerLogs   []json.RawMessage `json:"timerLogs"`
	Subtasks    []json.RawMessage `json:"subtasks"`
}

// DecodeJSON decodes JSON from the request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
