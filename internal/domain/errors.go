package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the transport layer can map them to
// status codes without string matching.
type ErrorKind string

const (
	KindInvalid            ErrorKind = "INVALID"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindPreconditionFailed ErrorKind = "PRECONDITION_FAILED"
	KindConflict           ErrorKind = "CONFLICT"
	KindInvalidCode        ErrorKind = "INVALID_CODE"
	KindCodeExpired        ErrorKind = "CODE_EXPIRED"
	KindAttemptsExceeded   ErrorKind = "ATTEMPTS_EXCEEDED"
	KindRateLimited        ErrorKind = "RATE_LIMITED"
	KindIntegrityViolation ErrorKind = "INTEGRITY_VIOLATION"
	KindUnavailable        ErrorKind = "UNAVAILABLE"
)

// Error is the service-layer error type. Kind drives the HTTP status; the
// optional fields carry structured detail the API returns to callers
// (remaining OTP attempts, conflicting booking windows).
type Error struct {
	Kind    ErrorKind
	Message string

	RemainingAttempts *int32
	Conflicts         []AvailabilityWindow

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Wrap attaches an underlying cause and returns the error.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// KindOf returns the kind of err, or empty when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ErrInvalid(format string, args ...interface{}) *Error {
	return newError(KindInvalid, format, args...)
}

func ErrNotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func ErrUnauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

func ErrPreconditionFailed(format string, args ...interface{}) *Error {
	return newError(KindPreconditionFailed, format, args...)
}

// ErrConflict carries the windows that block the requested range.
func ErrConflict(conflicts []AvailabilityWindow, format string, args ...interface{}) *Error {
	e := newError(KindConflict, format, args...)
	e.Conflicts = conflicts
	return e
}

// ErrInvalidCode reports a wrong code and how many attempts remain.
func ErrInvalidCode(remaining int32) *Error {
	e := newError(KindInvalidCode, "invalid verification code")
	e.RemainingAttempts = &remaining
	return e
}

func ErrCodeExpired() *Error {
	return newError(KindCodeExpired, "verification code has expired")
}

func ErrAttemptsExceeded() *Error {
	return newError(KindAttemptsExceeded, "maximum verification attempts exceeded")
}

func ErrRateLimited(format string, args ...interface{}) *Error {
	return newError(KindRateLimited, format, args...)
}

func ErrIntegrity(format string, args ...interface{}) *Error {
	return newError(KindIntegrityViolation, format, args...)
}

func ErrUnavailable(format string, args ...interface{}) *Error {
	return newError(KindUnavailable, format, args...)
}
