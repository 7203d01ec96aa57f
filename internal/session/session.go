// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     session
// Description: Driver that runs lines and files through the engine and
//              tracks error state and exit codes
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox"
	"github.com/msto63/mlox/foundation/lox/loxerr"
	"github.com/msto63/mlox/foundation/lox/value"
	"github.com/msto63/mlox/internal/history"
)

// Process exit codes (sysexits.h)
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitNoInput  = 66
	ExitSoftware = 70
)

// Recorder receives every interactive line
type Recorder interface {
	Record(ctx context.Context, entry *history.Entry) error
}

// Options configures a session
type Options struct {
	// Out receives value displays (default: os.Stdout)
	Out io.Writer

	// Err receives error renderings (default: os.Stderr)
	Err io.Writer

	Logger *mdwlog.Logger

	// Recorder stores interactive lines (optional)
	Recorder Recorder
}

// Outcome describes one evaluated line
type Outcome struct {
	Input  string
	Output string
	Err    error
	Value  value.Value
}

// Failed reports whether the line produced an error
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// ErrorKind returns "lexical", "syntax", "runtime", "internal" or ""
func (o Outcome) ErrorKind() string {
	if o.Err == nil {
		return ""
	}
	if kind := loxerr.KindOf(o.Err); kind != 0 {
		return kind.String()
	}
	return "internal"
}

// Session runs source through an engine and remembers whether an error
// occurred. It is safe for concurrent use.
type Session struct {
	ID string

	engine   *lox.Engine
	out      io.Writer
	errOut   io.Writer
	logger   *mdwlog.Logger
	recorder Recorder

	mu              sync.Mutex
	hadError        bool
	hadRuntimeError bool
}

// New creates a session with a fresh ID
func New(engine *lox.Engine, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	id := uuid.New().String()

	return &Session{
		ID:       id,
		engine:   engine,
		out:      opts.Out,
		errOut:   opts.Err,
		logger:   opts.Logger.WithField("component", "lox-session").WithSessionID(id),
		recorder: opts.Recorder,
	}
}

// RunLine evaluates one interactive line. Surrounding whitespace is
// trimmed and blank lines are ignored. The line is handed to the
// recorder after evaluation.
func (s *Session) RunLine(ctx context.Context, line string) Outcome {
	line = strings.TrimSpace(line)
	if line == "" {
		return Outcome{}
	}

	outcome := s.run(ctx, line)

	if s.recorder != nil {
		entry := &history.Entry{
			SessionID: s.ID,
			Input:     line,
			Output:    outcome.Output,
			ErrorKind: outcome.ErrorKind(),
		}
		if err := s.recorder.Record(ctx, entry); err != nil {
			s.logger.WarnWithErr("failed to record history entry", err)
		}
	}

	return outcome
}

// RunSource evaluates a complete source text as is
func (s *Session) RunSource(ctx context.Context, source string) Outcome {
	return s.run(ctx, source)
}

// RunFile evaluates the contents of a file and returns the process exit
// code: 0, 65 for lexical or syntax errors, 70 for runtime errors, 66 when
// the file cannot be read.
func (s *Session) RunFile(ctx context.Context, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(s.errOut, "Could not read file: %v\n", err)
		s.logger.Debug("script unreadable", mdwlog.Fields{"path": path, "error": err.Error()})
		return ExitNoInput
	}

	s.logger.Debug("running script", mdwlog.Fields{"path": path, "bytes": len(data)})
	s.run(ctx, string(data))
	return s.ExitCode()
}

func (s *Session) run(ctx context.Context, source string) Outcome {
	outcome := Outcome{Input: source}

	result, err := s.engine.Run(ctx, source)
	if err != nil {
		outcome.Err = err
		outcome.Output = render(err)
		s.markError(err)
		fmt.Fprintln(s.errOut, outcome.Output)
		return outcome
	}

	outcome.Value = result.Value
	outcome.Output = result.Value.Display()
	fmt.Fprintln(s.out, outcome.Output)

	s.logger.Trace("evaluated", mdwlog.Fields{
		"type":     result.Value.Type().String(),
		"duration": result.Duration.String(),
	})
	return outcome
}

func (s *Session) markError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch loxerr.KindOf(err) {
	case loxerr.Lexical, loxerr.Syntax:
		s.hadError = true
	default:
		s.hadRuntimeError = true
	}
}

// render returns the diagnostic line for err. Lox errors carry their own
// rendering; anything else is prefixed like an unlocated error.
func render(err error) string {
	if loxErr, ok := loxerr.As(err); ok {
		return loxErr.Error()
	}
	return "Error: " + err.Error()
}

// HadError reports a lexical or syntax error since the last Reset
func (s *Session) HadError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hadError
}

// HadRuntimeError reports a runtime error since the last Reset
func (s *Session) HadRuntimeError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hadRuntimeError
}

// Reset clears both error flags
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hadError = false
	s.hadRuntimeError = false
}

// ExitCode maps the error flags to a process exit code. Lexical and syntax
// errors take precedence.
func (s *Session) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.hadError:
		return ExitDataErr
	case s.hadRuntimeError:
		return ExitSoftware
	default:
		return ExitOK
	}
}

// Engine returns the engine the session runs on
func (s *Session) Engine() *lox.Engine {
	return s.engine
}
