// File: codes.go
// Title: Error Codes and Severity
// Description: Error codes used by mlox to classify failures of the
//              expression engine, the history store and the configuration
//              layer, and the severity each code implies.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-12 v0.2.0: Replaced TCOL codes with LOX_* codes
// - 2026-10-16 v0.3.0: Severity derived from the code only

package error

// Code classifies an error
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// Expression engine
	CodeLoxLexical Code = "LOX_LEXICAL"
	CodeLoxSyntax  Code = "LOX_SYNTAX"
	CodeLoxRuntime Code = "LOX_RUNTIME"

	// Scripts and the history database
	CodeIOError       Code = "IO_ERROR"
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the code itself
func (c Code) String() string {
	return string(c)
}

// Severity tells a logger how loudly to report an error
type Severity int

const (
	// SeverityLow is a problem with the user's input: a bad expression,
	// an unknown mode or a canceled request
	SeverityLow Severity = iota

	// SeverityMedium affects one operation
	SeverityMedium

	// SeverityHigh is a broken dependency such as the history database
	// or the configuration
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Severity returns the severity errors with this code carry
func (c Code) Severity() Severity {
	switch c {
	case CodeLoxLexical, CodeLoxSyntax, CodeLoxRuntime, CodeInvalidInput, CodeCanceled:
		return SeverityLow
	case CodeDatabaseError, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
