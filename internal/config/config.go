// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"pyforge/internal/cueutil"
	"pyforge/internal/issue"
	"pyforge/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "pyforge"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the project-local config file looked up in the
	// working directory. It takes precedence over the user-level config.
	LocalConfigFileName = "pyforge.cue"
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g., PYFORGE_MANIFEST_NAME, PYFORGE_UI_VERBOSE).
	EnvPrefix = "PYFORGE"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the pyforge configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// TemplatesDir returns the directory for user-defined scaffold templates,
// located under the configuration directory.
func TemplatesDir() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "templates"), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("source_suffix", defaults.SourceSuffix)
	v.SetDefault("manifest_name", defaults.ManifestName)
	v.SetDefault("exclude_dirs", defaults.ExcludeDirs)
	v.SetDefault("extend_exclude_dirs", defaults.ExtendExcludeDirs)
	v.SetDefault("extra_stdlib", defaults.ExtraStdlib)
	v.SetDefault("default_template", defaults.DefaultTemplate)
	v.SetDefault("summary_file", defaults.SummaryFile)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)
	v.SetDefault("hooks.enabled", defaults.Hooks.Enabled)
	v.SetDefault("hooks.timeout_seconds", defaults.Hooks.TimeoutSeconds)

	// Environment overrides: PYFORGE_MANIFEST_NAME, PYFORGE_UI_VERBOSE, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		cfgPath := opts.ConfigFilePath.String()
		if !fileExists(cfgPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'pyforge config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", cfgPath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'pyforge config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = cfgPath
	} else {
		// Project-local config takes precedence over the user-level one.
		if fileExists(LocalConfigFileName) {
			if err := loadCUEIntoViper(v, LocalConfigFileName); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(LocalConfigFileName).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("See 'pyforge config --help' for configuration options").
					Wrap(err).
					BuildError()
			}
			resolvedPath = LocalConfigFileName
		} else {
			cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
			if err != nil {
				return nil, "", err
			}

			cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
			if fileExists(cuePath) {
				if err := loadCUEIntoViper(v, cuePath); err != nil {
					return nil, "", issue.NewErrorContext().
						WithOperation("load configuration").
						WithResource(cuePath).
						WithSuggestion("Check that the file contains valid CUE syntax").
						WithSuggestion("Verify the configuration values match the expected schema").
						WithSuggestion("See 'pyforge config --help' for configuration options").
						Wrap(err).
						BuildError()
				}
				resolvedPath = cuePath
			}
			// If no config file found, use defaults (no error)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate exclusion lists for constraints that CUE cannot express:
	// entries must be unique within each list.
	if err := validateExcludeDirs("exclude_dirs", cfg.ExcludeDirs); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Remove duplicate entries from exclude_dirs").
			Wrap(err).
			BuildError()
	}
	if err := validateExcludeDirs("extend_exclude_dirs", cfg.ExtendExcludeDirs); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Remove duplicate entries from extend_exclude_dirs").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because:
// 1. Config decodes to map[string]any (not a struct) for Viper integration
// 2. Uses Concrete(false) because config fields are optional
// 3. Needs to merge into Viper's config map, not return a struct
func loadCUEIntoViper(v *viper.Viper, path string) error {
	// Read CUE file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Check file size using cueutil
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	// Parse with CUE
	ctx := cuecontext.New()

	// Compile the schema
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	// Compile the user's config file
	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Decode to Go map
	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// validateExcludeDirs checks an exclusion list for constraints that CUE
// cannot express: every entry must be unique within the list.
//
// The fieldName parameter is used in error messages to identify which list
// failed validation ("exclude_dirs" vs "extend_exclude_dirs").
func validateExcludeDirs(fieldName string, dirs []DirName) error {
	seen := make(map[DirName]int, len(dirs))
	for i, d := range dirs {
		if firstIdx, exists := seen[d]; exists {
			return fmt.Errorf("%s[%d]: duplicate entry %q (same as %s[%d])", fieldName, i, d, fieldName, firstIdx)
		}
		seen[d] = i
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// EnsureTemplatesDir creates the user templates directory if it doesn't exist
func EnsureTemplatesDir() error {
	tplDir, err := TemplatesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(tplDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pyforge configuration file\n")
	sb.WriteString("// Run 'pyforge config show' to inspect the effective configuration.\n\n")

	sb.WriteString(fmt.Sprintf("source_suffix: %q\n", cfg.SourceSuffix))
	sb.WriteString(fmt.Sprintf("manifest_name: %q\n", cfg.ManifestName))

	if len(cfg.ExcludeDirs) > 0 {
		sb.WriteString("\nexclude_dirs: [\n")
		for _, d := range cfg.ExcludeDirs {
			sb.WriteString(fmt.Sprintf("\t%q,\n", d))
		}
		sb.WriteString("]\n")
	}

	if len(cfg.ExtendExcludeDirs) > 0 {
		sb.WriteString("\nextend_exclude_dirs: [\n")
		for _, d := range cfg.ExtendExcludeDirs {
			sb.WriteString(fmt.Sprintf("\t%q,\n", d))
		}
		sb.WriteString("]\n")
	}

	if len(cfg.ExtraStdlib) > 0 {
		sb.WriteString("\nextra_stdlib: [\n")
		for _, n := range cfg.ExtraStdlib {
			sb.WriteString(fmt.Sprintf("\t%q,\n", n))
		}
		sb.WriteString("]\n")
	}

	sb.WriteString(fmt.Sprintf("\ndefault_template: %q\n", cfg.DefaultTemplate))
	sb.WriteString(fmt.Sprintf("summary_file: %q\n", cfg.SummaryFile))

	// UI config
	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tinteractive: %v\n", cfg.UI.Interactive))
	sb.WriteString("}\n")

	// Hooks config
	sb.WriteString("\nhooks: {\n")
	sb.WriteString(fmt.Sprintf("\tenabled: %v\n", cfg.Hooks.Enabled))
	sb.WriteString(fmt.Sprintf("\ttimeout_seconds: %v\n", cfg.Hooks.TimeoutSeconds))
	sb.WriteString("}\n")

	return sb.String()
}
