package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a failed call to the remote backend: either a transport
// failure (StatusCode 0, Cause set) or a non-2xx response. Detail carries the
// server's error message when the body had one.
type APIError struct {
	Op         string // e.g. "list jobs", "upload resume"
	StatusCode int
	Detail     string
	Cause      error
}

func (e *APIError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("backend: %s: %v", e.Op, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("backend: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("backend: %s: HTTP %d", e.Op, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsAuthFailure reports whether err is a backend rejection of credentials or
// token (401/403).
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// ErrorDetail returns the server-supplied detail message for err, or the
// fallback when there is none.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
