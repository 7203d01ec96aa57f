// Package stringx provides the small set of Unicode-safe string helpers the
// mlox command line and REPL need for display: blank checks, rune-aware
// truncation and padding, and line handling for multi-line history entries.
//
// Package: stringx
// Title: Extended String Operations
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2025-01-26 v0.2.0: Enhanced documentation
// - 2026-10-12 v0.3.0: Reduced to display helpers, added OneLine
//
// Usage:
//
//	import mdwstringx "github.com/msto63/mlox/foundation/utils/stringx"
//
//	if mdwstringx.IsBlank(line) {
//		continue
//	}
//	fmt.Println(mdwstringx.PadRight(kind, 12, ' '), mdwstringx.Truncate(src, 40, "..."))
package stringx
