// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "scan project",
			},
			expected: "failed to scan project",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "scan project",
				Resource:  "./src",
			},
			expected: "failed to scan project: ./src",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "load configuration",
				Cause:     errors.New("syntax error at line 5"),
			},
			expected: "failed to load configuration: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "write manifest",
				Resource:  "requirements.txt",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to write manifest: requirements.txt: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	noCause := &ActionableError{Operation: "test"}
	if noCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil when there is no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	err := &ActionableError{
		Operation: "write manifest",
		Resource:  "requirements.txt",
		Suggestions: []string{
			"Check directory permissions",
			"Use --dry-run to preview changes",
		},
		Cause: errors.New("permission denied"),
	}

	t.Run("non-verbose includes suggestions", func(t *testing.T) {
		got := err.Format(false)
		if !strings.Contains(got, "failed to write manifest: requirements.txt: permission denied") {
			t.Errorf("Format(false) missing main message:\n%s", got)
		}
		if !strings.Contains(got, "• Check directory permissions") {
			t.Errorf("Format(false) missing first suggestion:\n%s", got)
		}
		if strings.Contains(got, "Error chain:") {
			t.Errorf("Format(false) should not include the error chain:\n%s", got)
		}
	})

	t.Run("verbose includes error chain", func(t *testing.T) {
		got := err.Format(true)
		if !strings.Contains(got, "Error chain:") {
			t.Errorf("Format(true) missing error chain:\n%s", got)
		}
		if !strings.Contains(got, "1. permission denied") {
			t.Errorf("Format(true) missing chain entry:\n%s", got)
		}
	})
}

func TestErrorContextBuilder(t *testing.T) {
	cause := errors.New("boom")

	err := NewErrorContext().
		WithOperation("reconcile manifest").
		WithResource("requirements.txt").
		WithSuggestion("first hint").
		WithSuggestions("second hint", "third hint").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil with operation set")
	}
	if err.Operation != "reconcile manifest" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if err.Resource != "requirements.txt" {
		t.Errorf("Resource = %q", err.Resource)
	}
	if len(err.Suggestions) != 3 {
		t.Errorf("len(Suggestions) = %d, want 3", len(err.Suggestions))
	}
	if !errors.Is(err, cause) {
		t.Error("built error should wrap the cause")
	}
	if !err.HasSuggestions() {
		t.Error("HasSuggestions() should be true")
	}
}

func TestErrorContextBuildWithoutOperation(t *testing.T) {
	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestWrapHelpers(t *testing.T) {
	if WrapWithOperation(nil, "op") != nil {
		t.Error("WrapWithOperation(nil, ...) should return nil")
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil, ...) should return nil")
	}

	cause := errors.New("boom")
	wrapped := WrapWithContext(cause, "scan project", "./src")
	if wrapped.Error() != "failed to scan project: ./src: boom" {
		t.Errorf("WrapWithContext message = %q", wrapped.Error())
	}
}
