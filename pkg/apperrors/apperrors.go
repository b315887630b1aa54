// Package apperrors defines the error kinds shared by repository layers and
// the boundary classes handlers translate them into.
//
// Repository code returns errors derived from one of the kinds:
//
//	var ErrAccessDenied = apperrors.New(apperrors.ErrAccessDenied, "case not found or access denied")
//
// Handlers call Translate to obtain the boundary class, stable code, and
// HTTP status for any error returned by a domain system.
package apperrors

import (
	"errors"
	"net/http"
)

// Repository-level error kinds.
var (
	ErrAccessDenied         = errors.New("access denied")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateAssociation = errors.New("duplicate association")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthenticated      = errors.New("authentication required")
)

// Class is a boundary-facing error classification.
type Class int

const (
	InternalError Class = iota
	AuthenticationFailure
	UnauthorizedAccess
	ResourceNotFound
	ResourceConflict
	InvalidRequest
)

// Code returns the stable classification code for the class.
func (c Class) Code() string {
	switch c {
	case AuthenticationFailure:
		return "authentication_failure"
	case UnauthorizedAccess:
		return "unauthorized_access"
	case ResourceNotFound:
		return "resource_not_found"
	case ResourceConflict:
		return "resource_conflict"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "internal_error"
	}
}

// Status returns the HTTP status code for the class.
func (c Class) Status() int {
	switch c {
	case AuthenticationFailure:
		return http.StatusUnauthorized
	case UnauthorizedAccess:
		return http.StatusForbidden
	case ResourceNotFound:
		return http.StatusNotFound
	case ResourceConflict:
		return http.StatusConflict
	case InvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (c Class) String() string {
	return c.Code()
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New creates a domain error with its own message that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Error is the translated form of a domain error at the boundary.
type Error struct {
	Class   Class
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Code returns the stable classification code.
func (e *Error) Code() string { return e.Class.Code() }

// Status returns the HTTP status code.
func (e *Error) Status() int { return e.Class.Status() }

// Classify maps an error to its boundary class by kind.
func Classify(err error) Class {
	switch {
	case err == nil:
		return InternalError
	case errors.Is(err, ErrUnauthenticated):
		return AuthenticationFailure
	case errors.Is(err, ErrAccessDenied):
		return UnauthorizedAccess
	case errors.Is(err, ErrNotFound):
		return ResourceNotFound
	case errors.Is(err, ErrDuplicateAssociation):
		return ResourceConflict
	case errors.Is(err, ErrInvalidInput):
		return InvalidRequest
	}
	return InternalError
}

// Translate converts err into a boundary Error. Errors already translated are
// returned as-is. Internal errors carry a generic message so driver and storage
// details never reach the client; the original error stays reachable via Unwrap.
func Translate(err error) *Error {
	var translated *Error
	if errors.As(err, &translated) {
		return translated
	}

	class := Classify(err)
	if class == InternalError {
		return &Error{Class: class, Message: "internal server error", Err: err}
	}

	msg := err.Error()
	var ke *kindError
	if errors.As(err, &ke) {
		msg = ke.msg
	}

	return &Error{Class: class, Message: msg, Err: err}
}

// MapHTTPStatus returns the HTTP status code for err.
func MapHTTPStatus(err error) int {
	return Translate(err).Status()
}
