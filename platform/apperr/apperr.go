// Package apperr provides typed domain errors. Services return these and the
// HTTP layer maps them to status codes without inspecting error strings.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind categorizes a domain error.
type Kind int

const (
	// KindUnknown is the default kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a missing resource (lead, rule, booking, ...).
	KindNotFound
	// KindValidation indicates a payload that failed field validation.
	KindValidation
	// KindConflict indicates a state conflict, e.g. an illegal status transition.
	KindConflict
	// KindUnauthorized indicates missing or failed authentication.
	KindUnauthorized
	// KindBadRequest indicates a malformed request.
	KindBadRequest
	// KindInternal indicates an unexpected internal failure.
	KindInternal
)

// Error is a domain error carrying a Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Err     error       // wrapped cause, optional
	Details interface{} // extra payload for the response, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is/As on the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to a status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// WithDetails attaches response details and returns the error.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// New creates a domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a domain error wrapping a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Validation creates a validation error.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict creates a conflict error.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// BadRequest creates a bad-request error.
func BadRequest(message string) *Error { return New(KindBadRequest, message) }

// Internal creates an internal error.
func Internal(message string) *Error { return New(KindInternal, message) }

// GetKind extracts the kind from an error, KindUnknown for foreign errors.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
