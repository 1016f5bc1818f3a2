// Package apperr defines the error kinds surfaced by the API and their HTTP
// status mapping.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports a payload or query that failed schema checks.
type ValidationError struct {
	Fields []FieldError
}

// Invalid builds a ValidationError for one field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError reports a missing record on the get-by-id path.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// StorageError wraps a failed data-store call. The cause is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// TimeoutError reports a data-store call that ran past its deadline.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string { return e.Op + ": timed out" }
func (e *TimeoutError) Unwrap() error { return e.Err }

// AuthError reports missing or invalid credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "unauthorized: " + e.Reason }

// ForbiddenError reports an authenticated caller lacking the required role.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return "forbidden: " + e.Reason }

// Classify wraps a raw store error. Deadline overruns become TimeoutError,
// everything else StorageError.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Err: err}
	}
	return &StorageError{Op: op, Err: err}
}

// Status maps an error to the HTTP status the route layer responds with.
func Status(err error) int {
	var (
		verr *ValidationError
		nerr *NotFoundError
		terr *TimeoutError
		aerr *AuthError
		ferr *ForbiddenError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &aerr):
		return http.StatusUnauthorized
	case errors.As(err, &ferr):
		return http.StatusForbidden
	case errors.As(err, &terr):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
