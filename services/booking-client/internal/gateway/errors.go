package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is wrapped by every APIError carrying a 401.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx backend response. Message is the backend's user-facing
// "error" field, Detail its optional diagnostic "message" field.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, msg, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusOf returns the HTTP status behind err, or 0 for transport failures.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf turns err into something safe to show a user: the backend's own message when
// it sent one, fallback otherwise.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
