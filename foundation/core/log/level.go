// File: level.go
// Title: Log Levels
// Description: Log levels and their names, short tags and console colors.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-12 v0.2.0: Removed priority helpers
// - 2026-10-16 v0.3.0: Table-driven names; fatal and audit removed

package log

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
)

// Level orders records by importance
type Level int

const (
	// LevelTrace carries per-token and per-node output of the engine
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError

	// levelOff is above every level a record can have
	levelOff
)

var levelInfo = [...]struct {
	name, tag, color string
}{
	LevelTrace: {"trace", "TRC", "\033[37m"},
	LevelDebug: {"debug", "DBG", "\033[36m"},
	LevelInfo:  {"info", "INF", "\033[32m"},
	LevelWarn:  {"warn", "WRN", "\033[33m"},
	LevelError: {"error", "ERR", "\033[31m"},
}

func (l Level) valid() bool {
	return l >= LevelTrace && l < levelOff
}

func (l Level) String() string {
	if !l.valid() {
		return "unknown"
	}
	return levelInfo[l].name
}

func (l Level) tag() string {
	if !l.valid() {
		return "???"
	}
	return levelInfo[l].tag
}

func (l Level) color() string {
	if !l.valid() {
		return "\033[0m"
	}
	return levelInfo[l].color
}

// ParseLevel accepts a level name, its three-letter tag or "warning".
// Unknown input yields LevelInfo and an INVALID_INPUT error.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn, nil
	}
	for l := LevelTrace; l < levelOff; l++ {
		if s == levelInfo[l].name || s == strings.ToLower(levelInfo[l].tag) {
			return l, nil
		}
	}
	return LevelInfo, mdwerror.New(fmt.Sprintf("invalid log level: %q", s)).
		WithCode(mdwerror.CodeInvalidInput)
}
