// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive terminal prompts used by the CLI:
// a yes/no confirmation and a single-line text input, both implemented as
// bubbletea models.
//
// Prompts are a courtesy, not a gate: when stdin is not a terminal the
// prompt functions return their configured default immediately instead of
// rendering, so piped and scripted invocations never block.
package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrAborted is returned when the user dismisses a prompt with Ctrl+C or
// Escape instead of answering it.
var ErrAborted = errors.New("prompt aborted")

// Prompt styles, shared by the confirm and input models.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	subtleStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// isInputTerminal reports whether stdin is connected to a terminal.
// Returns false inside pipes and $() command substitution.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// outputOr returns w, or os.Stderr when w is nil. Prompts render to stderr
// by default so their frames are never captured by command substitution.
func outputOr(w io.Writer) io.Writer {
	if w != nil {
		return w
	}

	return os.Stderr
}
