package domain

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound     ErrorCode = "TASK_NOT_FOUND"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// DomainError carries an error code alongside the message the HTTP
// layer puts on the wire.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError() *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: "Task not found",
	}
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: message,
	}
}

// NewInternalError creates an internal error. The underlying cause is
// not exposed on the wire.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
	}
}
