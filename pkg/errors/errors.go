// Package errors defines the coded errors shared by the record loaders,
// builders, renderers, CLI and preview host.
//
// Every failure carries a [Code]. Callers branch on the code rather than
// on message text:
//
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // draw the empty state
//	}
//
// [ErrCodeInvalidInput] is special: it describes input that cannot be
// visualized (an unknown attribute, no matching records, a graph without
// co-occurrences). Renderers turn it into an explicit empty state instead
// of failing.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"    // data cannot be visualized
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"   // unreadable records file or unknown output format
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"   // bad option or config file value
	ErrCodeInvalidViz    Code = "INVALID_VIZ_TYPE" // neither treemap nor graph
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// HTTPStatus maps the code to the status the preview host answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidConfig, ErrCodeInvalidViz:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// InvalidInput is shorthand for New(ErrCodeInvalidInput, ...).
func InvalidInput(format string, args ...any) *Error {
	return New(ErrCodeInvalidInput, format, args...)
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message without the code prefix, for display
// in empty states and HTTP error bodies.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
