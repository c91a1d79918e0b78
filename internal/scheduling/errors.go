package scheduling

import (
	"fmt"

	"fleetdesk-backend/internal/models"
)

// ValidationError indicates a malformed or incomplete request (HTTP 400)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates an unknown driver or trip (HTTP 404)
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError indicates a critical scheduling conflict that was not
// overridden with a force flag (HTTP 409). Carries the conflict list so
// callers can show the dispatcher exactly what blocked the assignment.
type ConflictError struct {
	Message   string
	Conflicts []models.Conflict
}

func (e *ConflictError) Error() string { return e.Message }
