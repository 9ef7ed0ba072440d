// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	// ConfirmOptions configures the Confirm prompt.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description provides additional context below the title.
		Description string
		// Affirmative is the label for the "yes" choice (default: "Yes").
		Affirmative string
		// Negative is the label for the "no" choice (default: "No").
		Negative string
		// Default is the pre-selected answer, and the answer returned
		// outright when stdin is not a terminal.
		Default bool
		// Output is where the prompt renders. nil means stderr.
		Output io.Writer
	}

	// confirmModel is the bubbletea model behind Confirm.
	confirmModel struct {
		title       string
		description string
		affirmative string
		negative    string
		value       bool
		done        bool
		aborted     bool
	}
)

// Init implements tea.Model.
func (m confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.value = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.value = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.value = !m.value
	}

	return m, nil
}

// View implements tea.Model.
func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	yes := " " + m.affirmative + " "
	no := " " + m.negative + " "
	if m.value {
		yes = selectedStyle.Render(yes)
	} else {
		no = selectedStyle.Render(no)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	if m.description != "" {
		b.WriteString("\n" + subtleStyle.Render(m.description))
	}
	b.WriteString(fmt.Sprintf("\n%s / %s\n", yes, no))

	return b.String()
}

// Confirm renders a yes/no prompt and returns the user's answer. When
// stdin is not a terminal the prompt is skipped and opts.Default is
// returned. Dismissing the prompt returns ErrAborted.
func Confirm(opts ConfirmOptions) (bool, error) {
	if !isInputTerminal() {
		return opts.Default, nil
	}

	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}

	m := confirmModel{
		title:       opts.Title,
		description: opts.Description,
		affirmative: opts.Affirmative,
		negative:    opts.Negative,
		value:       opts.Default,
	}

	result, err := tea.NewProgram(m, tea.WithOutput(outputOr(opts.Output))).Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt failed: %w", err)
	}

	final := result.(confirmModel)
	if final.aborted {
		return false, ErrAborted
	}

	return final.value, nil
}
