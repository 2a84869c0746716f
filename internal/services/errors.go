package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/desertthunder/moviex/internal/shared"
)

// APIError is a non-2xx answer from the backend carrying its human readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap maps the status onto the shared sentinels so callers can use [errors.Is].
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return shared.ErrNotFound
	case e.StatusCode >= 500:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// ValidationError is the backend rejecting a record, with one message per field path.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.FieldNames() {
		parts = append(parts, f+": "+e.Fields[f])
	}
	msg := "validation failed"
	if e.Message != "" {
		msg = e.Message
	}
	if len(parts) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return shared.ErrValidation }

// FieldNames returns the rejected field paths in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// errorBody covers both failure payloads: {"error": "..."} and {"validation_errors": {...}}.
type errorBody struct {
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validation_errors"`
}

// decodeError turns a failed response body into an [APIError] or [ValidationError].
func decodeError(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(truncate(string(body), 200))}
	}

	if len(eb.ValidationErrors) > 0 {
		return &ValidationError{Message: eb.Error, Fields: eb.ValidationErrors}
	}

	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}
	return &APIError{StatusCode: status, Message: msg}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
