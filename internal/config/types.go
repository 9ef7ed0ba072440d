// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"pyforge/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSourceSuffix is returned when a SourceSuffix value is malformed.
	ErrInvalidSourceSuffix = errors.New("invalid source suffix")
	// ErrInvalidManifestName is returned when a ManifestName value is whitespace-only.
	ErrInvalidManifestName = errors.New("invalid manifest name")
	// ErrInvalidDirName is the sentinel error wrapped by InvalidDirNameError.
	ErrInvalidDirName = errors.New("invalid directory name")
	// ErrInvalidSummaryFileName is returned when a SummaryFileName value is whitespace-only.
	ErrInvalidSummaryFileName = errors.New("invalid summary file name")
	// ErrInvalidTemplateName is returned when a TemplateName value is whitespace-only.
	ErrInvalidTemplateName = errors.New("invalid template name")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidHooksConfig is the sentinel error wrapped by InvalidHooksConfigError.
	ErrInvalidHooksConfig = errors.New("invalid hooks config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// SourceSuffix is the filename suffix of source files considered during
	// import scanning (e.g., ".py"). A valid suffix starts with a dot and
	// has at least one character after it.
	SourceSuffix string

	// InvalidSourceSuffixError is returned when a SourceSuffix value is malformed.
	// It wraps ErrInvalidSourceSuffix for errors.Is() compatibility.
	InvalidSourceSuffixError struct {
		Value SourceSuffix
	}

	// ManifestName is the file name (or project-relative path) of the
	// dependency manifest maintained by pyforge. A valid name must be
	// non-empty and not whitespace-only.
	ManifestName string

	// InvalidManifestNameError is returned when a ManifestName value is
	// empty or whitespace-only. It wraps ErrInvalidManifestName for errors.Is().
	InvalidManifestNameError struct {
		Value ManifestName
	}

	// DirName is a directory basename matched against during tree traversal.
	// A valid name must be non-empty, not whitespace-only, and must not
	// contain path separators (exclusions match basenames, not paths).
	DirName string

	// InvalidDirNameError is returned when a DirName value is empty,
	// whitespace-only, or contains a path separator.
	InvalidDirNameError struct {
		Value DirName
	}

	// SummaryFileName is the file the project structure summary is written to.
	// The zero value ("") is valid and disables summary generation.
	// Non-zero values must not be whitespace-only.
	SummaryFileName string

	// InvalidSummaryFileNameError is returned when a SummaryFileName value is
	// non-empty but whitespace-only.
	InvalidSummaryFileNameError struct {
		Value SummaryFileName
	}

	// TemplateName identifies a scaffold template by name.
	// Defined locally to avoid coupling config to internal/scaffold;
	// the CLI casts at the boundary.
	TemplateName string

	// InvalidTemplateNameError is returned when a TemplateName value is
	// empty or whitespace-only.
	InvalidTemplateNameError struct {
		Value TemplateName
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidHooksConfigError is returned when a HooksConfig has invalid fields.
	// It wraps ErrInvalidHooksConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidHooksConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SourceSuffix selects which files are scanned for imports.
		SourceSuffix SourceSuffix `json:"source_suffix" mapstructure:"source_suffix"`
		// ManifestName is the dependency manifest file maintained in the project root.
		ManifestName ManifestName `json:"manifest_name" mapstructure:"manifest_name"`
		// ExcludeDirs replaces the built-in list of directory basenames skipped during scanning.
		ExcludeDirs []DirName `json:"exclude_dirs" mapstructure:"exclude_dirs"`
		// ExtendExcludeDirs appends to the effective exclusion list without replacing it.
		ExtendExcludeDirs []DirName `json:"extend_exclude_dirs" mapstructure:"extend_exclude_dirs"`
		// ExtraStdlib lists additional module names treated as part of the standard library.
		ExtraStdlib []types.PackageName `json:"extra_stdlib" mapstructure:"extra_stdlib"`
		// DefaultTemplate is applied by `pyforge init` when --template is not given.
		DefaultTemplate TemplateName `json:"default_template" mapstructure:"default_template"`
		// SummaryFile is where the project structure summary is written. Empty disables it.
		SummaryFile SummaryFileName `json:"summary_file" mapstructure:"summary_file"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Hooks configures post-create hook execution
		Hooks HooksConfig `json:"hooks" mapstructure:"hooks"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Interactive enables interactive prompts (confirmations, pickers)
		Interactive bool `json:"interactive" mapstructure:"interactive"`
	}

	// HooksConfig configures post-create hook execution.
	HooksConfig struct {
		// Enabled enables/disables post-create hooks (default: true)
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// TimeoutSeconds bounds the runtime of a single hook script
		TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the SourceSuffix.
func (s SourceSuffix) String() string { return string(s) }

// IsValid returns whether the SourceSuffix is valid.
// A valid suffix starts with "." followed by at least one character.
func (s SourceSuffix) IsValid() (bool, []error) {
	if len(s) < 2 || s[0] != '.' {
		return false, []error{&InvalidSourceSuffixError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceSuffixError.
func (e *InvalidSourceSuffixError) Error() string {
	return fmt.Sprintf("invalid source suffix %q: must start with '.' followed by at least one character", e.Value)
}

// Unwrap returns ErrInvalidSourceSuffix for errors.Is() compatibility.
func (e *InvalidSourceSuffixError) Unwrap() error { return ErrInvalidSourceSuffix }

// String returns the string representation of the ManifestName.
func (m ManifestName) String() string { return string(m) }

// IsValid returns whether the ManifestName is valid.
// A valid name must be non-empty and not whitespace-only.
func (m ManifestName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(m)) == "" {
		return false, []error{&InvalidManifestNameError{Value: m}}
	}
	return true, nil
}

// Error implements the error interface for InvalidManifestNameError.
func (e *InvalidManifestNameError) Error() string {
	return fmt.Sprintf("invalid manifest name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidManifestName for errors.Is() compatibility.
func (e *InvalidManifestNameError) Unwrap() error { return ErrInvalidManifestName }

// String returns the string representation of the DirName.
func (d DirName) String() string { return string(d) }

// IsValid returns whether the DirName is valid.
// A valid name must be non-empty, not whitespace-only, and free of path
// separators, since exclusions are matched against directory basenames.
func (d DirName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" || strings.ContainsAny(string(d), `/\`) {
		return false, []error{&InvalidDirNameError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDirNameError.
func (e *InvalidDirNameError) Error() string {
	return fmt.Sprintf("invalid directory name %q: must be a non-empty basename without path separators", e.Value)
}

// Unwrap returns ErrInvalidDirName for errors.Is() compatibility.
func (e *InvalidDirNameError) Unwrap() error { return ErrInvalidDirName }

// String returns the string representation of the SummaryFileName.
func (s SummaryFileName) String() string { return string(s) }

// IsValid returns whether the SummaryFileName is valid.
// The zero value ("") is valid (summary generation disabled).
// Non-zero values must not be whitespace-only.
func (s SummaryFileName) IsValid() (bool, []error) {
	if s == "" {
		return true, nil
	}
	if strings.TrimSpace(string(s)) == "" {
		return false, []error{&InvalidSummaryFileNameError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSummaryFileNameError.
func (e *InvalidSummaryFileNameError) Error() string {
	return fmt.Sprintf("invalid summary file name %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidSummaryFileName for errors.Is() compatibility.
func (e *InvalidSummaryFileNameError) Unwrap() error { return ErrInvalidSummaryFileName }

// String returns the string representation of the TemplateName.
func (n TemplateName) String() string { return string(n) }

// IsValid returns whether the TemplateName is valid.
// A valid name must be non-empty and not whitespace-only.
func (n TemplateName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidTemplateNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTemplateNameError.
func (e *InvalidTemplateNameError) Error() string {
	return fmt.Sprintf("invalid template name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidTemplateName for errors.Is() compatibility.
func (e *InvalidTemplateNameError) Unwrap() error { return ErrInvalidTemplateName }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the HooksConfig has valid fields.
// TimeoutSeconds must be positive; Enabled needs no validation.
func (c HooksConfig) IsValid() (bool, []error) {
	var errs []error
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("hooks timeout_seconds must be positive, got %d", c.TimeoutSeconds))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHooksConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHooksConfigError.
func (e *InvalidHooksConfigError) Error() string {
	return fmt.Sprintf("invalid hooks config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHooksConfig for errors.Is() compatibility.
func (e *InvalidHooksConfigError) Unwrap() error { return ErrInvalidHooksConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to the scalar validators of SourceSuffix, ManifestName,
// each exclusion entry, each extra stdlib name, DefaultTemplate,
// SummaryFile, UI, and Hooks.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.SourceSuffix.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ManifestName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, d := range c.ExcludeDirs {
		if valid, fieldErrs := d.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, d := range c.ExtendExcludeDirs {
		if valid, fieldErrs := d.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, name := range c.ExtraStdlib {
		if err := name.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if valid, fieldErrs := c.DefaultTemplate.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.SummaryFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Hooks.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// EffectiveExcludeDirs returns the exclusion list actually applied during
// scanning: ExcludeDirs plus ExtendExcludeDirs, deduplicated, original
// order preserved.
func (c Config) EffectiveExcludeDirs() []string {
	seen := make(map[string]bool, len(c.ExcludeDirs)+len(c.ExtendExcludeDirs))
	out := make([]string, 0, len(c.ExcludeDirs)+len(c.ExtendExcludeDirs))
	for _, list := range [][]DirName{c.ExcludeDirs, c.ExtendExcludeDirs} {
		for _, d := range list {
			s := string(d)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ExtraStdlibNames returns ExtraStdlib as plain strings for use with
// the stdlib registry.
func (c Config) ExtraStdlibNames() []string {
	out := make([]string, 0, len(c.ExtraStdlib))
	for _, n := range c.ExtraStdlib {
		out = append(out, string(n))
	}
	return out
}

// DefaultExcludeDirs returns the built-in list of directory basenames
// skipped during scanning. Covers virtual environments, VCS metadata,
// caches, and build output.
func DefaultExcludeDirs() []DirName {
	return []DirName{
		"myenv",
		"venv",
		".venv",
		"env",
		".git",
		"__pycache__",
		"node_modules",
		".tox",
		".mypy_cache",
		".pytest_cache",
		"site-packages",
		"dist",
		"build",
		".eggs",
		".idea",
		".vscode",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SourceSuffix:      ".py",
		ManifestName:      "requirements.txt",
		ExcludeDirs:       DefaultExcludeDirs(),
		ExtendExcludeDirs: []DirName{},
		ExtraStdlib:       []types.PackageName{},
		DefaultTemplate:   "default",
		SummaryFile:       "STRUCTURE.md",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Interactive: true,
		},
		Hooks: HooksConfig{
			Enabled:        true,
			TimeoutSeconds: 30,
		},
	}
}
