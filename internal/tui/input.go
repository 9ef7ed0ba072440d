// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	// InputOptions configures the Input prompt.
	InputOptions struct {
		// Title is the prompt displayed above the input field.
		Title string
		// Placeholder is shown inside the empty input field.
		Placeholder string
		// Default is returned when the user submits an empty value, and
		// returned outright when stdin is not a terminal.
		Default string
		// Validate rejects a submitted value by returning an error; the
		// error message is shown and the prompt stays open. nil accepts
		// everything. The default value is validated too.
		Validate func(string) error
		// Output is where the prompt renders. nil means stderr.
		Output io.Writer
	}

	// inputModel is the bubbletea model behind Input.
	inputModel struct {
		textInput textinput.Model
		title     string
		fallback  string
		validate  func(string) error
		errMsg    string
		done      bool
		aborted   bool
	}
)

// Init implements tea.Model.
func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			val := m.value()
			if m.validate != nil {
				if err := m.validate(val); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m inputModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}

	return b.String()
}

// value returns the submitted text, falling back to the configured
// default when the field is empty.
func (m inputModel) value() string {
	val := strings.TrimSpace(m.textInput.Value())
	if val == "" {
		return m.fallback
	}

	return val
}

// Input renders a single-line text prompt and returns the submitted
// value. When stdin is not a terminal the prompt is skipped and
// opts.Default is returned (validated when a validator is set).
// Dismissing the prompt returns ErrAborted.
func Input(opts InputOptions) (string, error) {
	if !isInputTerminal() {
		if opts.Validate != nil {
			if err := opts.Validate(opts.Default); err != nil {
				return "", err
			}
		}

		return opts.Default, nil
	}

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Focus()

	m := inputModel{
		textInput: ti,
		title:     opts.Title,
		fallback:  opts.Default,
		validate:  opts.Validate,
	}

	result, err := tea.NewProgram(m, tea.WithOutput(outputOr(opts.Output))).Run()
	if err != nil {
		return "", fmt.Errorf("input prompt failed: %w", err)
	}

	final := result.(inputModel)
	if final.aborted {
		return "", ErrAborted
	}

	return final.value(), nil
}
