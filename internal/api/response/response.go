package response

import (
	"encoding/json"
	"net/http"

	"github.com/timekeep/timekeep/internal/domain"
)

// ErrorResponse is the flat error shape the sync client expects.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// OK sends a 200 OK response with JSON body.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 Created response with JSON body.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error response based on the domain error.
func Error(w http.ResponseWriter, err error) {
	domainErr, ok := err.(*domain.DomainError)
	if !ok {
		domainErr = domain.NewInternalError(err)
	}

	JSON(w, mapErrorCodeToStatus(domainErr.Code), ErrorResponse{Error: domainErr.Message})
}

func mapErrorCodeToStatus(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case domain.ErrCodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
