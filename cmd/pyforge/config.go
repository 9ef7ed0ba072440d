// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"pyforge/internal/config"
	"pyforge/internal/issue"
	"pyforge/pkg/types"
)

// newConfigCommand creates the `pyforge config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pyforge configuration",
		Long: `Manage pyforge configuration.

Configuration is stored in:
  - Linux: ~/.config/pyforge/config.cue
  - macOS: ~/Library/Application Support/pyforge/config.cue
  - Windows: %APPDATA%\pyforge\config.cue

A pyforge.cue file in the working directory takes precedence over the
user-level file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the user-level config file.

List-valued keys (exclude_dirs, extend_exclude_dirs, extra_stdlib) are
edited in the config file directly; set covers the scalar keys.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(cfgFile)})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(app.stderr, rendered)

		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	// The provider does not report which file it resolved, so the display
	// path mirrors its lookup order: --config flag, ./pyforge.cue, then
	// the user-level config file.
	if path := resolveConfigDisplayPath(); path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("source_suffix"), valueStyle.Render(cfg.SourceSuffix.String()))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("manifest_name"), valueStyle.Render(cfg.ManifestName.String()))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_template"), valueStyle.Render(cfg.DefaultTemplate.String()))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("summary_file"), valueStyle.Render(cfg.SummaryFile.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("exclude_dirs"))
	for _, dir := range cfg.ExcludeDirs {
		fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(dir.String()))
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("extend_exclude_dirs"))
	if len(cfg.ExtendExcludeDirs) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, dir := range cfg.ExtendExcludeDirs {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(dir.String()))
		}
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("extra_stdlib"))
	if len(cfg.ExtraStdlib) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, name := range cfg.ExtraStdlib {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(name.String()))
		}
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  interactive: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Interactive)))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("hooks"))
	fmt.Fprintf(app.stdout, "  enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Hooks.Enabled)))
	fmt.Fprintf(app.stdout, "  timeout_seconds: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Hooks.TimeoutSeconds)))

	return nil
}

func initConfigFile(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	existed := fileExistsCheck(cfgPath)

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if existed {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), cfgPath)
	} else {
		fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	}

	// Also create the user templates directory
	tplDir, err := config.TemplatesDir()
	if err == nil {
		if mkdirErr := config.EnsureTemplatesDir(); mkdirErr != nil {
			slog.Warn("failed to create templates directory", "path", tplDir, "error", mkdirErr)
		} else {
			fmt.Fprintf(app.stdout, "%s Created templates directory at %s\n", SuccessStyle.Render("✓"), tplDir)
		}
	} else {
		slog.Warn("failed to determine templates directory", "error", err)
	}

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	tplDir, err := config.TemplatesDir()
	if err == nil {
		fmt.Fprintf(app.stdout, "Templates directory: %s\n", tplDir)
	}

	if fileExistsCheck(config.LocalConfigFileName) {
		fmt.Fprintf(app.stdout, "Local override: %s %s\n", config.LocalConfigFileName, SubtitleStyle.Render("(takes precedence)"))
	}

	return nil
}

// setConfigValue updates one configuration key and persists the result to
// the user-level config file. The effective configuration is loaded first,
// so values coming from a local pyforge.cue carry over into the saved file.
func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(cfgFile)})
	if err != nil {
		return err
	}

	switch key {
	case "source_suffix":
		suffix := config.SourceSuffix(value)
		if valid, errs := suffix.IsValid(); !valid {
			return errs[0]
		}
		cfg.SourceSuffix = suffix

	case "manifest_name":
		name := config.ManifestName(value)
		if valid, errs := name.IsValid(); !valid {
			return errs[0]
		}
		cfg.ManifestName = name

	case "default_template":
		name := config.TemplateName(value)
		if valid, errs := name.IsValid(); !valid {
			return errs[0]
		}
		cfg.DefaultTemplate = name

	case "summary_file":
		// An empty value is allowed: it disables summary generation.
		name := config.SummaryFileName(value)
		if valid, errs := name.IsValid(); !valid {
			return errs[0]
		}
		cfg.SummaryFile = name

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if valid, errs := scheme.IsValid(); !valid {
			return errs[0]
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.interactive":
		cfg.UI.Interactive = value == "true" || value == "1"

	case "hooks.enabled":
		cfg.Hooks.Enabled = value == "true" || value == "1"

	case "hooks.timeout_seconds":
		seconds, convErr := strconv.Atoi(value)
		if convErr != nil || seconds <= 0 {
			return fmt.Errorf("invalid hooks.timeout_seconds: must be a positive integer")
		}
		cfg.Hooks.TimeoutSeconds = seconds

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: source_suffix, manifest_name, default_template, summary_file, ui.color_scheme, ui.verbose, ui.interactive, hooks.enabled, hooks.timeout_seconds", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)

	return nil
}

// resolveConfigDisplayPath returns the config file the provider would load,
// or "" when every candidate is absent and defaults apply.
func resolveConfigDisplayPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if fileExistsCheck(config.LocalConfigFileName) {
		return config.LocalConfigFileName
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if fileExistsCheck(path) {
		return path
	}

	return ""
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}

	return err == nil && !info.IsDir()
}
