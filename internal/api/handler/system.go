package handler

import (
	"net/http"

	"github.com/timekeep/timekeep/internal/api/response"
)

// ServiceName identifies this service in health responses.
const ServiceName = "time-tracker-api"

// SystemHandler handles system-level endpoints.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}
