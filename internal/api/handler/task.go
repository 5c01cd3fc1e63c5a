package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/timekeep/timekeep/internal/api/request"
	"github.com/timekeep/timekeep/internal/api/response"
	"github.com/timekeep/timekeep/internal/domain"
	"github.com/timekeep/timekeep/internal/service"
)

// TaskHandler handles task sync operations.
type TaskHandler struct {
	svc *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ListTasks handles GET /api/tasks, optionally filtered by ?date=YYYY-MM-DD.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var dateFilter *string
	if date := r.URL.Query().Get("date"); date != "" {
		dateFilter = &date
	}

	tasks, err := h.svc.List(r.Context(), dateFilter)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, tasks)
}

// UpsertTask handles POST /api/tasks. An existing ID is fully replaced;
// a new ID is inserted.
func (h *TaskHandler) UpsertTask(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		// Absent and malformed bodies share the one validation failure
		// this route defines.
		response.Error(w, domain.NewValidationError("Task ID is required"))
		return
	}

	task, err := h.svc.Upsert(r.Context(), service.UpsertInput{
		ID:          req.ID,
		Name:        req.Name,
		Duration:    req.Duration,
		SessionDate: req.SessionDate,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
		TimerLogs:   req.TimerLogs,
		Subtasks:    req.Subtasks,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, task)
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	task, err := h.svc.Get(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), taskID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{
		"message": "Task deleted",
		"id":      taskID,
	})
}

// SeedTasks handles POST /api/tasks/seed.
func (h *TaskHandler) SeedTasks(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Seed(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{
		"message": fmt.Sprintf("Seeded %d tasks across 30 days", count),
	})
}

// ClearTasks handles DELETE /api/tasks/clear.
func (h *TaskHandler) ClearTasks(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.ClearAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{
		"message": fmt.Sprintf("Cleared %d tasks", count),
	})
}
