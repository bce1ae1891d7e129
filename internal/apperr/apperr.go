package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeInvalidInput    = "invalid-input"
	CodeNotFound        = "not-found"
	CodeStorage         = "storage-error"
	CodePartialFailure  = "partial-failure"
	CodeProvider        = "provider-error"
	CodeInternal        = "internal-error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthenticated, errors.New(msg))
}

func Validation(msg string) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, errors.New(msg))
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, CodeNotFound, errors.New(msg))
}

// Storage wraps a backing-store failure.
func Storage(op string, err error) *Error {
	return New(http.StatusInternalServerError, CodeStorage, fmt.Errorf("%s: %w", op, err))
}

// PartialFailure marks a replace where the delete committed and the insert did not.
// The user's checklist is empty until the operation is retried.
func PartialFailure(err error) *Error {
	return New(http.StatusServiceUnavailable, CodePartialFailure,
		fmt.Errorf("checklist temporarily empty, please retry: %w", err))
}

func Provider(op string, err error) *Error {
	return New(http.StatusBadGateway, CodeProvider, fmt.Errorf("%s: %w", op, err))
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}

func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}
