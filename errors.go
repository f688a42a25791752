package endpoint

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ValidationError is the failure of one declared input category. It carries
// the first violation found while binding or checking constraints, in the
// fixed order path → query → body. It always encodes as 400 with a
// plain-text message and is never delivered to the handler.
type ValidationError struct {
	Field   string // dotted field path, e.g. "id" or "body.username"
	Message string
}

// Error returns "<field> <message>", or just the message for body-level failures.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// StatusCode returns 400.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// HTTPError is the structured error outcome: a deliberate business-level
// rejection with an explicit status code and message. Returning one from a
// handler or a service factory short-circuits the request; it is encoded
// as-is, never masked.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns a structured error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted structured error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
