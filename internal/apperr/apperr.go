// Package apperr defines the closed set of failures a request can end in and
// how each one is reported over HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	InvalidRequest
	Unauthenticated
	Forbidden
	NotFound
	MethodNotSupported
	Conflict
	PayloadTooLarge
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "invalid_request"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case MethodNotSupported:
		return "method_not_supported"
	case Conflict:
		return "conflict"
	case PayloadTooLarge:
		return "payload_too_large"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case InvalidRequest:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case MethodNotSupported:
		return http.StatusMethodNotAllowed
	case Conflict:
		return http.StatusConflict
	case PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(format string, args ...any) *Error {
	return New(InvalidRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *Error { return New(Unauthenticated, message) }

func Denied(message string) *Error { return New(Forbidden, message) }

func Missing(message string) *Error { return New(NotFound, message) }

func Duplicate(message string) *Error { return New(Conflict, message) }

func TooLarge(message string) *Error { return New(PayloadTooLarge, message) }

// Internalf hides err behind the generic client message.
func Internalf(err error) *Error {
	return Wrap(Internal, "internal server error", err)
}

// As extracts an *Error from err's chain. Anything unclassified is Internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internalf(err)
}
