// Package exception turns errors into HTTP responses.
//
// Handlers return errors; Render is the single place that decides the status
// and writes the failure envelope:
//
//	{
//	  "success": false,
//	  "timestamp": "2024-05-01T10:00:00Z",
//	  "message": "Validation failed",
//	  "errors": {"items.0.sku": ["The sku field is required."]},
//	  "code": 422,
//	  "method": "POST",
//	  "path": "/api/products"
//	}
package exception

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/sellerhub/pkg/validate"
	"gorm.io/gorm"
)

// HTTPError is an error that already knows its response status.
type HTTPError struct {
	Status  int
	Message string
	Errors  any
	cause   error
}

func (e *HTTPError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.cause }

// WithCause attaches the underlying error. It is logged, never sent.
func (e *HTTPError) WithCause(err error) *HTTPError {
	e.cause = err
	return e
}

// New builds an HTTPError with the given status. An empty message falls back
// to the status text.
func New(status int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}

func BadRequest(message string) *HTTPError   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *HTTPError { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *HTTPError    { return New(http.StatusForbidden, message) }
func NotFound(message string) *HTTPError     { return New(http.StatusNotFound, message) }
func Conflict(message string) *HTTPError     { return New(http.StatusConflict, message) }

func TooManyRequests(message string) *HTTPError {
	return New(http.StatusTooManyRequests, message)
}

// Internal hides cause behind a generic 500.
func Internal(cause error) *HTTPError {
	return New(http.StatusInternalServerError, "").WithCause(cause)
}

// Validation is the 422 raised when a request body breaks its rules.
func Validation(errs validate.Errors) *HTTPError {
	return &HTTPError{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
		cause:   errs,
	}
}

// From maps any error onto an HTTPError.
func From(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	var ve validate.Errors
	if errors.As(err, &ve) {
		return Validation(ve)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("Resource not found").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return New(http.StatusServiceUnavailable, "Request timed out").WithCause(err)
	case errors.Is(err, context.Canceled):
		// 499 is the de-facto "client closed request" code.
		return New(499, "Client closed request").WithCause(err)
	}

	return Internal(err)
}
