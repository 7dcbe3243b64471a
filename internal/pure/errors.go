package pure

import (
	"errors"
	"fmt"
)

// Common errors returned by the Pure client.
var (
	// ErrNotFound indicates the resource does not exist in Pure.
	ErrNotFound = errors.New("not found in Pure")

	// ErrAuthError indicates a missing or invalid API key.
	ErrAuthError = errors.New("Pure authentication error")

	// ErrConnectivity indicates Pure could not be reached at all. Pipelines
	// treat this as fatal before any batch is staged.
	ErrConnectivity = errors.New("cannot reach Pure")
)

// APIError represents a non-2xx response from the Pure API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Pure API error (status %d, %s): %s", e.StatusCode, e.Endpoint, e.Body)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
