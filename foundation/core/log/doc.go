// Package log provides structured logging for the mlox toolchain.
//
// Package: log
// Title: mlox Structured Logging
// Description: Leveled records with persistent fields, JSON, text, console
//              and logfmt output, and timers for pipeline runs. The lexer,
//              parser, evaluator, REPL sessions, history store and servers
//              all log through it.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-12 v0.2.0: Session context replaces request/user/correlation IDs, async mode removed
// - 2026-10-16 v0.3.0: Immutable loggers, severity-driven timer failures
//
// Usage:
//   import mdwlog "github.com/msto63/mlox/foundation/core/log"
//
//   logger := mdwlog.GetDefault().WithField("component", "lox-parser")
//   if logger.Enabled(mdwlog.LevelTrace) {
//     logger.Trace("parse completed", mdwlog.Fields{"tree": ast.Print(expr)})
//   }
//
//   timer := logger.StartTimer("lox run")
//   defer timer.Stop()
package log
