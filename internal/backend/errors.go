package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nfrund/propertyhub/internal/domain"
)

// APIError describes a failed backend call. It unwraps to one of the domain
// sentinel errors so callers can use errors.Is(err, domain.ErrNotFound).
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// statusError maps an HTTP status to the matching domain error.
func statusError(status int) error {
	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrUnauthorized
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case status >= 500, status == http.StatusTooManyRequests:
		return domain.ErrBackendUnavailable
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
