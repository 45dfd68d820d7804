package domain

import "errors"

// Sentinel errors for the domain layer. The backend client maps HTTP
// statuses onto them so handlers and views can check with errors.Is.
var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("backend unavailable")
)
