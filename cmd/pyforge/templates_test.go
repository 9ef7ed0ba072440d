// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestTemplatesListShowsBuiltins(t *testing.T) {
	// Not parallel: cobra initializers touch package-level flag state.

	app, stdout, _ := newTestApp(t, Dependencies{})

	if err := runCLI(t, app, "templates", "list"); err != nil {
		t.Fatalf("templates list failed: %v", err)
	}

	out := stdout.String()
	for _, name := range []string{"minimal", "default", "full"} {
		if !strings.Contains(out, name) {
			t.Errorf("built-in template %q missing from listing: %q", name, out)
		}
	}

	// The configured default template is marked.
	if !strings.Contains(out, "(default)") {
		t.Errorf("default marker missing from listing: %q", out)
	}
}

func TestTemplatesShow(t *testing.T) {
	// Not parallel: cobra initializers touch package-level flag state.

	app, stdout, _ := newTestApp(t, Dependencies{})

	if err := runCLI(t, app, "templates", "show", "full"); err != nil {
		t.Fatalf("templates show failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Template:", "Directories:", "Files:", "Post-create hooks:", "src/{package}/", "git init -q"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q missing from output: %q", want, out)
		}
	}
}

func TestTemplatesShowWithoutHooksOmitsSection(t *testing.T) {
	// Not parallel: cobra initializers touch package-level flag state.

	app, stdout, _ := newTestApp(t, Dependencies{})

	if err := runCLI(t, app, "templates", "show", "minimal"); err != nil {
		t.Fatalf("templates show failed: %v", err)
	}

	if strings.Contains(stdout.String(), "Post-create hooks:") {
		t.Errorf("hook section should be omitted for a hook-less template: %q", stdout.String())
	}
}

func TestTemplatesShowUnknownSuggests(t *testing.T) {
	// Not parallel: cobra initializers touch package-level flag state.

	app, _, stderr := newTestApp(t, Dependencies{})

	err := runCLI(t, app, "templates", "show", "ful")
	if err == nil {
		t.Fatal("expected an unknown template to fail")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected exit code 1, got %T: %v", err, err)
	}

	if !strings.Contains(stderr.String(), "Did you mean") || !strings.Contains(stderr.String(), "full") {
		t.Errorf("suggestion missing from stderr: %q", stderr.String())
	}
}
