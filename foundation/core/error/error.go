// File: error.go
// Title: Core Error Implementation
// Description: The Error type: a message with an optional cause, a code,
//              the operation that failed and free-form details. Works with
//              errors.Is and errors.As.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2026-10-12 v0.2.0: Dropped user/request/localization context, errors.As lookups
// - 2026-10-16 v0.3.0: Dropped stack traces and timestamps; severity follows the code

package error

import (
	"errors"
)

// Error is a classified error. Builders modify the receiver and return it
// so calls can be chained right after New or Wrap.
type Error struct {
	message   string
	cause     error
	code      Code
	operation string
	details   map[string]interface{}
}

// New creates an error with CodeUnknown
func New(message string) *Error {
	return &Error{message: message, code: CodeUnknown}
}

// Wrap puts message in front of err. The code and details of a wrapped
// *Error are inherited. Wrap(nil, ...) is nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	e := &Error{message: message, cause: err, code: CodeUnknown}
	var inner *Error
	if errors.As(err, &inner) {
		e.code = inner.code
		for k, v := range inner.details {
			e.WithDetail(k, v)
		}
	}
	return e
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the code
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	return e
}

// WithOperation names the operation that failed, e.g. "history.record"
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithDetail attaches a key-value pair
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
	return e
}

func (e *Error) Code() Code {
	return e.code
}

// Severity is derived from the code
func (e *Error) Severity() Severity {
	return e.code.Severity()
}

func (e *Error) Operation() string {
	return e.operation
}

// Details returns a copy of the attached details
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// HasCode reports whether the first *Error in err's chain has code
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.code == code
}

// GetCode returns the code of the first *Error in err's chain, or
// CodeUnknown when there is none
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}
