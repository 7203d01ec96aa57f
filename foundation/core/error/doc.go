// Package error provides the classified error type used across mlox.
//
// Package: error
// Title: mlox Error Handling
// Description: Errors with a code, the failing operation, details and an
//              optional cause. Language errors from the expression engine
//              convert into this type so loggers can pick a level from the
//              code's severity.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-12 v0.2.0: Trimmed code table, added LOX_* codes for engine errors
// - 2026-10-16 v0.3.0: Severity derived from codes, stack capture removed
//
// Usage:
//   import mdwerror "github.com/msto63/mlox/foundation/core/error"
//
//   err := mdwerror.Wrap(sqlErr, "failed to record history entry").
//     WithCode(mdwerror.CodeDatabaseError).
//     WithOperation("history.record")
//
//   if mdwerror.HasCode(err, mdwerror.CodeDatabaseError) {
//     // history is unavailable, keep evaluating
//   }
package error
