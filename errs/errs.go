package errs

import (
	"errors"
	"net/http"
)

type Kind string

const (
	InvalidCredentials Kind = "INVALID_CREDENTIALS"
	Unauthenticated    Kind = "UNAUTHENTICATED"
	Forbidden          Kind = "FORBIDDEN"
	NotFound           Kind = "NOT_FOUND"
	Validation         Kind = "VALIDATION_ERROR"
	Conflict           Kind = "CONFLICT"
	StoreUnavailable   Kind = "STORE_UNAVAILABLE"
	Internal           Kind = "INTERNAL"
)

// Error is the single error type handlers translate into a response.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewInvalidCredentials() *Error { return New(InvalidCredentials, "INVALID_CREDENTIALS") }

func NewUnauthenticated(message string) *Error { return New(Unauthenticated, message) }

func NewForbidden(message string) *Error { return New(Forbidden, message) }

func NewNotFound(message string) *Error { return New(NotFound, message) }

func NewValidation(message string) *Error { return New(Validation, message) }

func NewConflict(message string) *Error { return New(Conflict, message) }

func NewStoreUnavailable(err error) *Error {
	return Wrap(StoreUnavailable, "STORE_UNAVAILABLE", err)
}

// KindOf reports the kind of err, Internal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-visible message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "INTERNAL_ERROR"
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retriable is true only for store outages.
func Retriable(kind Kind) bool {
	return kind == StoreUnavailable
}

func Status(kind Kind) int {
	switch kind {
	case InvalidCredentials, Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case StoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
