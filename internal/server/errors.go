// Package server exposes the job-board gateway's HTTP surface: public job
// browsing and resume submission, session endpoints, and the admin-gated
// applicant dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/session"
	"github.com/daniel/job-board/internal/upload"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a referenced resource does not exist
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrForbidden indicates the caller is authenticated but lacks the role for
// the requested view.
type ErrForbidden struct {
	Role string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("requires role %s", e.Role)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Backend failures keep their status when it is a client error and collapse
// to 502 otherwise, so gateway callers can tell their mistake from a broken
// upstream.
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var uploadValidation *upload.ValidationError
	var notFound *ErrNotFound
	var forbidden *ErrForbidden
	var authErr *session.AuthError
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &validation), errors.As(err, &uploadValidation):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
