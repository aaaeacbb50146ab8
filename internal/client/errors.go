// internal/client/errors.go
package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotAuthenticated   = errors.New("no user is logged in")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not the owner")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionExpired     = errors.New("session expired")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Is lets callers match API errors against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrSessionExpired:
		return e.Status == http.StatusUnauthorized
	case ErrInvalidInput:
		return e.Status == http.StatusBadRequest
	}
	return false
}
