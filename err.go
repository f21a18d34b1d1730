package trilium

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors
var (
	ErrNoServerURL  = errors.New("server URL is not set")
	ErrNoCredential = errors.New("either a token or a password must be set")
	ErrNotFound     = errors.New("entity not found")
	ErrUnauthorized = errors.New("token was not accepted")
)

// APIError is a decoded ETAPI error body.
//
// The server reports failures as JSON documents of the form
// {"status": 404, "code": "NOTE_NOT_FOUND", "message": "..."}.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("etapi: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
}

// Is maps well-known ETAPI statuses onto the package sentinels, so callers
// can match with errors.Is instead of inspecting codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}

	return false
}
