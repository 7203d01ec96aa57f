// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     logging
// Description: Key-value logging facade over the Foundation logger
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	mdwlog "github.com/msto63/mlox/foundation/core/log"
)

// Logger wraps the Foundation logger with key-value pair methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a key-value logger derived from the default logger
func New(name string) *Logger {
	return Wrap(mdwlog.GetDefault().WithField("component", name), name)
}

// Wrap turns an existing Foundation logger into a key-value logger
func Wrap(logger *mdwlog.Logger, name string) *Logger {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Logger{Logger: logger, name: name}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields.
// Non-string keys and a trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
