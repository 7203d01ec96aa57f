// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     repl
// Description: Styles for the interactive prompt
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package repl

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette - Same as the platform TUIs for consistency
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	InputEchoStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	TypeStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// HelpText lists the key bindings shown below the input
const HelpText = "enter: evaluate  ↑/↓: history  pgup/pgdn: scroll  ctrl+l: clear  esc/ctrl+c: quit"
