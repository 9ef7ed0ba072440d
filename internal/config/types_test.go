// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"pyforge/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SourceSuffix != ".py" {
		t.Errorf("expected default source suffix to be .py, got %s", cfg.SourceSuffix)
	}

	if cfg.ManifestName != "requirements.txt" {
		t.Errorf("expected default manifest name to be requirements.txt, got %s", cfg.ManifestName)
	}

	if len(cfg.ExcludeDirs) == 0 {
		t.Error("expected default exclude dirs to be non-empty")
	}

	if len(cfg.ExtendExcludeDirs) != 0 {
		t.Errorf("expected default extend exclude dirs to be empty, got %v", cfg.ExtendExcludeDirs)
	}

	if len(cfg.ExtraStdlib) != 0 {
		t.Errorf("expected default extra stdlib to be empty, got %v", cfg.ExtraStdlib)
	}

	if cfg.DefaultTemplate != "default" {
		t.Errorf("expected default template to be default, got %s", cfg.DefaultTemplate)
	}

	if cfg.SummaryFile != "STRUCTURE.md" {
		t.Errorf("expected default summary file to be STRUCTURE.md, got %s", cfg.SummaryFile)
	}

	if cfg.UI.ColorScheme != "auto" {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}

	if !cfg.UI.Interactive {
		t.Error("expected default interactive to be true")
	}

	if !cfg.Hooks.Enabled {
		t.Error("expected hooks to be enabled by default")
	}

	if cfg.Hooks.TimeoutSeconds != 30 {
		t.Errorf("expected default hook timeout to be 30s, got %d", cfg.Hooks.TimeoutSeconds)
	}

	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("expected default config to be valid, got %v", errs)
	}
}

func TestDefaultExcludeDirsCoverVirtualEnvs(t *testing.T) {
	dirs := DefaultExcludeDirs()

	want := []DirName{"myenv", "venv", ".venv", "__pycache__", ".git"}
	for _, w := range want {
		found := false
		for _, d := range dirs {
			if d == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("default exclude dirs missing %q", w)
		}
	}
}

func TestColorSchemeIsValid(t *testing.T) {
	tests := []struct {
		scheme ColorScheme
		valid  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{ColorScheme("neon"), false},
		{ColorScheme(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			valid, errs := tt.scheme.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid {
				if len(errs) != 1 {
					t.Fatalf("expected 1 error, got %d", len(errs))
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got %v", errs[0])
				}
			}
		})
	}
}

func TestSourceSuffixIsValid(t *testing.T) {
	tests := []struct {
		suffix SourceSuffix
		valid  bool
	}{
		{".py", true},
		{".pyi", true},
		{"", false},
		{".", false},
		{"py", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.suffix), func(t *testing.T) {
			valid, errs := tt.suffix.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidSourceSuffix) {
				t.Errorf("error should wrap ErrInvalidSourceSuffix, got %v", errs[0])
			}
		})
	}
}

func TestManifestNameIsValid(t *testing.T) {
	tests := []struct {
		name  ManifestName
		valid bool
	}{
		{"requirements.txt", true},
		{"requirements/dev.txt", true},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			valid, errs := tt.name.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidManifestName) {
				t.Errorf("error should wrap ErrInvalidManifestName, got %v", errs[0])
			}
		})
	}
}

func TestDirNameIsValid(t *testing.T) {
	tests := []struct {
		name  DirName
		valid bool
	}{
		{"venv", true},
		{".venv", true},
		{"__pycache__", true},
		{"", false},
		{"  ", false},
		{"a/b", false},
		{`a\b`, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			valid, errs := tt.name.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidDirName) {
				t.Errorf("error should wrap ErrInvalidDirName, got %v", errs[0])
			}
		})
	}
}

func TestSummaryFileNameIsValid(t *testing.T) {
	tests := []struct {
		name  SummaryFileName
		valid bool
	}{
		{"STRUCTURE.md", true},
		{"", true}, // disabled
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			valid, errs := tt.name.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidSummaryFileName) {
				t.Errorf("error should wrap ErrInvalidSummaryFileName, got %v", errs[0])
			}
		})
	}
}

func TestTemplateNameIsValid(t *testing.T) {
	tests := []struct {
		name  TemplateName
		valid bool
	}{
		{"default", true},
		{"minimal", true},
		{"", false},
		{"  ", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			valid, errs := tt.name.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidTemplateName) {
				t.Errorf("error should wrap ErrInvalidTemplateName, got %v", errs[0])
			}
		})
	}
}

func TestHooksConfigIsValid(t *testing.T) {
	valid, _ := (HooksConfig{Enabled: true, TimeoutSeconds: 30}).IsValid()
	if !valid {
		t.Error("expected hooks config with positive timeout to be valid")
	}

	valid, errs := (HooksConfig{Enabled: true, TimeoutSeconds: 0}).IsValid()
	if valid {
		t.Error("expected hooks config with zero timeout to be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidHooksConfig) {
		t.Errorf("error should wrap ErrInvalidHooksConfig, got %v", errs[0])
	}
}

func TestConfigIsValidAggregatesFieldErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourceSuffix = "py"
	cfg.ManifestName = " "
	cfg.ExcludeDirs = []DirName{"ok", "bad/name"}
	cfg.ExtraStdlib = []types.PackageName{"os", "not a name"}
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected config to be invalid")
	}
	if len(errs) != 1 {
		t.Fatalf("expected a single aggregate error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("aggregate should wrap ErrInvalidConfig, got %v", errs[0])
	}

	var invalidCfg *InvalidConfigError
	if !errors.As(errs[0], &invalidCfg) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(invalidCfg.FieldErrors) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(invalidCfg.FieldErrors), invalidCfg.FieldErrors)
	}
}

func TestEffectiveExcludeDirs(t *testing.T) {
	cfg := Config{
		ExcludeDirs:       []DirName{"venv", ".git", "venv"},
		ExtendExcludeDirs: []DirName{"data", ".git"},
	}

	got := cfg.EffectiveExcludeDirs()
	want := []string{"venv", ".git", "data"}

	if len(got) != len(want) {
		t.Fatalf("EffectiveExcludeDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EffectiveExcludeDirs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtraStdlibNames(t *testing.T) {
	cfg := Config{ExtraStdlib: []types.PackageName{"six", "mock"}}

	got := cfg.ExtraStdlibNames()
	if len(got) != 2 || got[0] != "six" || got[1] != "mock" {
		t.Errorf("ExtraStdlibNames() = %v, want [six mock]", got)
	}
}
