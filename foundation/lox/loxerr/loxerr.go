// File: loxerr.go
// Title: Lox Pipeline Error Record
// Description: Defines the structured error returned by the lexer, parser
//              and evaluator: kind, message, optional line and optional
//              offending lexeme. Renders the reference diagnostic format and
//              converts to the platform error type for logging.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial error record

package loxerr

import (
	"errors"
	"fmt"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
)

// Kind classifies a pipeline error by the stage that produced it
type Kind int

const (
	// Lexical errors come from the scanner
	Lexical Kind = iota + 1
	// Syntax errors come from the parser
	Syntax
	// Runtime errors come from the evaluator
	Runtime
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Code maps the kind to its platform error code
func (k Kind) Code() mdwerror.Code {
	switch k {
	case Lexical:
		return mdwerror.CodeLoxLexical
	case Syntax:
		return mdwerror.CodeLoxSyntax
	case Runtime:
		return mdwerror.CodeLoxRuntime
	default:
		return mdwerror.CodeUnknown
	}
}

// Error is the record every core stage returns on failure.
// Line is 1-based; 0 means no line is available.
type Error struct {
	Kind      Kind
	Message   string
	Line      int
	Lexeme    string
	HasLexeme bool
}

// New creates an error of the given kind without position
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// AtLine sets the offending line
func (e *Error) AtLine(line int) *Error {
	e.Line = line
	return e
}

// WithLexeme sets the offending lexeme
func (e *Error) WithLexeme(lexeme string) *Error {
	e.Lexeme = lexeme
	e.HasLexeme = true
	return e
}

// Error renders the diagnostic line:
//
//	[line 3] Error at ')': expected expression
//	[line 3] Error: unterminated string
//	Error: expression nesting exceeds maximum depth
func (e *Error) Error() string {
	var location string
	if e.HasLexeme {
		location = fmt.Sprintf(" at '%s'", e.Lexeme)
	}
	if e.Line > 0 {
		return fmt.Sprintf("[line %d] Error%s: %s", e.Line, location, e.Message)
	}
	return fmt.Sprintf("Error%s: %s", location, e.Message)
}

// Core converts the record to the platform error type with code, severity
// and line/lexeme details.
func (e *Error) Core() *mdwerror.Error {
	core := mdwerror.New(e.Message).
		WithCode(e.Kind.Code()).
		WithOperation("lox." + e.Kind.String()).
		WithDetail("kind", e.Kind.String())
	if e.Line > 0 {
		core.WithDetail("line", e.Line)
	}
	if e.HasLexeme {
		core.WithDetail("lexeme", e.Lexeme)
	}
	return core
}

// As returns the record in err's chain, if any
func As(err error) (*Error, bool) {
	var loxErr *Error
	if errors.As(err, &loxErr) {
		return loxErr, true
	}
	return nil, false
}

// KindOf returns the kind of the record in err's chain, or 0
func KindOf(err error) Kind {
	if loxErr, ok := As(err); ok {
		return loxErr.Kind
	}
	return 0
}

// IsKind reports whether err carries a record of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
