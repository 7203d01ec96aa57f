// File: stringx.go
// Title: Core String Utility Functions
// Description: Implements Unicode-safe string helpers used for terminal and
//              history display.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-12 v0.3.0: Kept display helpers only, added OneLine

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank is the inverse of IsBlank.
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// Truncate truncates a string to maxLen runes, adding an ellipsis if truncated.
// Multi-byte characters are never split.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}

	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}

	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// PadRight pads s to width runes with the given pad character.
// If the string is already longer than width, it returns the original string.
func PadRight(s string, width int, pad rune) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		return s
	}

	var builder strings.Builder
	builder.Grow(len(s) + (width-runeCount)*utf8.RuneLen(pad))
	builder.WriteString(s)
	for i := runeCount; i < width; i++ {
		builder.WriteRune(pad)
	}
	return builder.String()
}

// SplitLines splits a string into lines, handling \n, \r\n, and \r endings.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	return strings.Split(s, "\n")
}

// OneLine joins the trimmed, non-blank lines of s with a single space.
func OneLine(s string) string {
	var parts []string
	for _, line := range SplitLines(s) {
		if IsNotBlank(line) {
			parts = append(parts, strings.TrimSpace(line))
		}
	}
	return strings.Join(parts, " ")
}

// FirstNonBlank returns the first non-blank string from the provided strings.
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if IsNotBlank(s) {
			return s
		}
	}
	return ""
}
