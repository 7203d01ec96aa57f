// File: logger.go
// Title: Core Logger Implementation
// Description: The Logger type. Loggers are immutable: With* methods return
//              derived loggers that share the parent's output.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-12 v0.2.0: Session context, stderr default output, errors.As in LogError
// - 2026-10-16 v0.3.0: Immutable loggers over a shared sink, Enabled guard

package log

import (
	"io"
	"os"
	"sync"
	"time"
)

// sink serializes writes from every logger derived from one root
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *sink) write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(p)
}

// Logger writes leveled records with persistent fields
type Logger struct {
	level   Level
	format  Format
	sink    *sink
	name    string
	session string
	fields  Fields
}

// Config configures a root logger
type Config struct {
	Level  Level
	Format Format
	// Output defaults to os.Stderr; stdout is reserved for program output
	Output io.Writer
	Name   string
}

// New creates an info-level JSON logger on stderr
func New() *Logger {
	return NewWithConfig(Config{Level: LevelInfo})
}

// NewWithConfig creates a root logger
func NewWithConfig(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		level:  config.Level,
		format: config.Format,
		sink:   &sink{out: out},
		name:   config.Name,
	}
}

// Discard returns a logger that writes nothing
func Discard() *Logger {
	return NewWithConfig(Config{Level: levelOff, Output: io.Discard})
}

func (l *Logger) derive(change func(*Logger)) *Logger {
	child := *l
	child.fields = l.fields.Merge(nil)
	change(&child)
	return &child
}

// WithLevel returns a logger with a different minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	return l.derive(func(c *Logger) { c.level = level })
}

// WithField returns a logger that adds key to every record
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.derive(func(c *Logger) { c.fields[key] = value })
}

// WithSessionID tags every record with a REPL, script or request session
func (l *Logger) WithSessionID(id string) *Logger {
	return l.derive(func(c *Logger) { c.session = id })
}

// Level returns the minimum level
func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether records at level are written. Use it to skip
// building expensive fields.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, fields)
}

func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields)
}

func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields)
}

func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields)
}

func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, fields)
}

// WarnWithErr logs err at warn level
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields)
}

func (l *Logger) log(level Level, message string, err error, fields []Fields) {
	if !l.Enabled(level) {
		return
	}

	r := &record{
		time:    time.Now(),
		level:   level,
		message: message,
		logger:  l.name,
		session: l.session,
		fields:  l.fields,
		err:     err,
	}
	for _, f := range fields {
		r.fields = r.fields.Merge(f)
	}
	l.sink.write(r.encode(l.format))
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// GetDefault returns the process-wide logger
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger; nil is ignored
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}
