package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx answer from the auth gateway.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth gateway returned status %d - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("auth gateway returned status %d", e.Status)
}

// IsConflict reports whether err means "identity already registered".
func IsConflict(err error) bool {
	return StatusOf(err) == http.StatusConflict
}

// StatusOf returns the gateway status carried by err, or 0 for transport
// failures and foreign errors.
func StatusOf(err error) int {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Status
	}
	return 0
}

// MessageOf prefers the gateway's own message text and falls back otherwise.
func MessageOf(err error, fallback string) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return fallback
}
