// Package apperr defines the error taxonomy shared by every flow in the
// service and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input was rejected, e.g. a uniqueness
	// constraint on a contact field.
	ErrValidation = errors.New("validation failed")
	// ErrPermission means the caller's role does not allow the action.
	ErrPermission = errors.New("permission denied")
	// ErrBackend means the data store or storage provider rejected or could
	// not complete the request.
	ErrBackend = errors.New("backend failure")
)

// NotFound returns an error wrapping ErrNotFound for the given entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Validation returns an error wrapping ErrValidation with a user facing message.
func Validation(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Permission returns an error wrapping ErrPermission with the denial reason.
func Permission(reason string) error {
	return &Error{kind: ErrPermission, msg: reason}
}

// Backend wraps err as a transport/backend failure.
func Backend(op string, err error) error {
	return &Error{kind: ErrBackend, msg: op, cause: err}
}

// Error carries a taxonomy kind plus a message safe to show to the caller.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Message returns the caller-facing message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

// Status maps err onto an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrBackend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPError converts err into an echo HTTP error. Backend causes are not
// leaked to the client.
func HTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	status := Status(err)
	msg := err.Error()
	var ae *Error
	if errors.As(err, &ae) {
		msg = ae.Message()
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return echo.NewHTTPError(status, msg).SetInternal(err)
}
