// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the interactive prompt
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/mlox/internal/session"
	"github.com/msto63/mlox/pkg/core/version"
)

// Config holds prompt configuration
type Config struct {
	// Prompt shown before the input (default: "> ")
	Prompt string

	// History seeds ↑/↓ recall, oldest first
	History []string

	// HistoryLimit caps the in-memory recall list (default: 500)
	HistoryLimit int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Prompt:       "> ",
		HistoryLimit: 500,
	}
}

// scrollLine is one evaluated input in the scrollback
type scrollLine struct {
	input  string
	output string
	kind   string
	failed bool
}

// Model is the Bubbletea model of the interactive prompt
type Model struct {
	// State
	width  int
	height int
	ready  bool

	// Components
	input    textinput.Model
	viewport viewport.Model

	// Evaluation
	ctx     context.Context
	session *session.Session
	lines   []scrollLine

	// Input history
	inputHistory []string
	historyIndex int    // -1 = new input
	currentInput string // input being typed before navigating
	historyLimit int
	prompt       string
}

// New creates the prompt model. Lines are evaluated through sess, whose
// own output writers are not used by the model.
func New(ctx context.Context, sess *session.Session, cfg Config) Model {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultConfig().Prompt
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}

	ti := textinput.New()
	ti.Prompt = PromptStyle.Render(cfg.Prompt)
	ti.Placeholder = "expression"
	ti.CharLimit = 4096
	ti.Focus()

	history := append([]string(nil), cfg.History...)
	if len(history) > cfg.HistoryLimit {
		history = history[len(history)-cfg.HistoryLimit:]
	}

	return Model{
		input:        ti,
		ctx:          ctx,
		session:      sess,
		inputHistory: history,
		historyIndex: -1,
		historyLimit: cfg.HistoryLimit,
		prompt:       cfg.Prompt,
	}
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2 // title + blank
		footerHeight := 3 // input + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - len(m.prompt) - 1
		m.updateViewportContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.lines = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		m.evaluate(line)
		return m, nil

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.inputHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.input.SetValue(m.inputHistory[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evaluate runs one line and appends the result to the scrollback
func (m *Model) evaluate(line string) {
	if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != line {
		m.inputHistory = append(m.inputHistory, line)
		if len(m.inputHistory) > m.historyLimit {
			m.inputHistory = m.inputHistory[len(m.inputHistory)-m.historyLimit:]
		}
	}
	m.historyIndex = -1
	m.currentInput = ""

	outcome := m.session.RunLine(m.ctx, line)
	// interactive errors never end the session
	m.session.Reset()

	entry := scrollLine{input: line, output: outcome.Output, failed: outcome.Failed()}
	if outcome.Value != nil {
		entry.kind = outcome.Value.Type().String()
	}
	m.lines = append(m.lines, entry)

	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting mlox..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("mlox " + version.Platform))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(HelpText))
	return b.String()
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}

	var content strings.Builder
	for _, line := range m.lines {
		content.WriteString(PromptStyle.Render(m.prompt))
		content.WriteString(InputEchoStyle.Render(line.input))
		content.WriteString("\n")
		if line.failed {
			content.WriteString(ErrorStyle.Render(line.output))
		} else {
			content.WriteString(ValueStyle.Render(line.output))
			content.WriteString("  ")
			content.WriteString(TypeStyle.Render(line.kind))
		}
		content.WriteString("\n")
	}
	m.viewport.SetContent(content.String())
}

// Run starts the full-screen prompt and blocks until the user quits
func Run(ctx context.Context, sess *session.Session, cfg Config) error {
	program := tea.NewProgram(New(ctx, sess, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
