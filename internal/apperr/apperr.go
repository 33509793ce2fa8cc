// Package apperr defines the typed errors handlers translate into HTTP
// statuses. Each error captures the stack where it was created.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		var ge *goerrors.Error
		if errors.As(err, &ge) {
			stack = ge.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, err)
}

func InvalidInput(message string, err error) *Error {
	return New(KindInvalidInput, message, err)
}

func Conflict(message string, err error) *Error {
	return New(KindConflict, message, err)
}

func Unauthorized(message string, err error) *Error {
	return New(KindUnauthorized, message, err)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// As returns the first *Error in err's chain. Anything else is reported as
// an internal error wrapping err.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal server error", err)
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
