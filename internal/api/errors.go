package api

import (
	"errors"
	"fmt"
)

// AuthError indicates the backend rejected the bearer token (HTTP 401).
// The client never reacts to it by clearing the stored token; the UI
// decides whether to send the user back through login.
type AuthError struct {
	Operation string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: unauthorized on %s", e.Operation)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-401 error response from the backend.
type APIError struct {
	StatusCode int
	Operation  string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf(
			"api error (%d) on %s: %s",
			e.StatusCode, e.Operation, e.Message,
		)
	}
	return fmt.Sprintf("api error (%d) on %s", e.StatusCode, e.Operation)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
