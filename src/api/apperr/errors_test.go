package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Invalid("email", "must be a valid email address"), http.StatusBadRequest},
		{"not found", &NotFoundError{Entity: "member", ID: "x"}, http.StatusNotFound},
		{"auth", &AuthError{Reason: "missing bearer token"}, http.StatusUnauthorized},
		{"forbidden", &ForbiddenError{Reason: "admin role required"}, http.StatusForbidden},
		{"timeout", &TimeoutError{Op: "members.list", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"storage", &StorageError{Op: "members.get", Err: errors.New("conn refused")}, http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("load: %w", &NotFoundError{Entity: "event", ID: "1"}), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify("op", nil))

	err := Classify("notices.list", fmt.Errorf("query: %w", context.DeadlineExceeded))
	var terr *TimeoutError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, "notices.list", terr.Op)

	cause := errors.New("too many connections")
	err = Classify("members.create", cause)
	var serr *StorageError
	assert.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "fullName", Message: "is required"},
		{Field: "phone", Message: "must be at least 10 characters"},
	}}
	assert.Equal(t, "validation failed: fullName is required; phone must be at least 10 characters", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
