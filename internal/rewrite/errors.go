package rewrite

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when the model client is built without a key.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY is not set")

// ErrInvalidAPIKey indicates the model API rejected the key
var ErrInvalidAPIKey = errors.New("invalid or unauthorized model API key")

// ErrRateLimited indicates the model API quota was exceeded
var ErrRateLimited = errors.New("model API rate limit exceeded")

// ErrBlocked indicates the model refused the prompt.
var ErrBlocked = errors.New("prompt blocked by model safety filters")

// ServerError represents a 5xx error from the model API
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("model server error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("model server error: HTTP %d: %s", e.StatusCode, e.Message)
}
