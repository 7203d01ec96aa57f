// File: timer.go
// Title: Operation Timer
// Description: Measures one operation, such as a pipeline run, and logs its
//              checkpoints and outcome with the elapsed time.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with performance timing
// - 2026-10-12 v0.2.0: Shared level dispatch, removed StopWithResult
// - 2026-10-16 v0.3.0: Failure level follows the error's severity

package log

import (
	"errors"
	"time"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
)

// Timer times one operation. It is not safe for concurrent use.
type Timer struct {
	logger  *Logger
	op      string
	start   time.Time
	fields  Fields
	stopped bool
}

// StartTimer starts timing op; outcome records are logged at debug level
func (l *Logger) StartTimer(op string) *Timer {
	return &Timer{logger: l, op: op, start: time.Now(), fields: Fields{}}
}

// WithField adds a field to the checkpoint and outcome records
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Checkpoint logs the time elapsed so far under name
func (t *Timer) Checkpoint(name string, fields Fields) {
	if t.stopped {
		return
	}
	t.logger.Debug(t.op+" checkpoint: "+name, t.fields.Merge(Fields{
		"operation":  t.op,
		"checkpoint": name,
		"elapsed_ms": milliseconds(time.Since(t.start)),
	}), fields)
}

// Stop logs "<op> completed" and returns the elapsed time. Only the first
// Stop or StopWithError logs; later calls return 0.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	elapsed := t.finish()
	t.logger.log(LevelDebug, t.op+" completed", nil, []Fields{t.fields})
	return elapsed
}

// StopWithError logs "<op> failed" with err. Errors of low severity, such
// as a malformed expression, stay at debug level; high severity errors are
// logged at error level and everything else at warn level.
func (t *Timer) StopWithError(err error) time.Duration {
	if t.stopped {
		return 0
	}
	elapsed := t.finish()
	t.fields["success"] = false
	t.logger.log(failureLevel(err), t.op+" failed", err, []Fields{t.fields})
	return elapsed
}

func (t *Timer) finish() time.Duration {
	elapsed := time.Since(t.start)
	t.stopped = true
	t.fields["operation"] = t.op
	t.fields["duration_ms"] = milliseconds(elapsed)
	return elapsed
}

func failureLevel(err error) Level {
	var coded *mdwerror.Error
	if !errors.As(err, &coded) {
		return LevelWarn
	}
	switch coded.Severity() {
	case mdwerror.SeverityLow:
		return LevelDebug
	case mdwerror.SeverityHigh:
		return LevelError
	default:
		return LevelWarn
	}
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
