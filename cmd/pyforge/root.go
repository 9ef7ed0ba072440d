// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pyforge/internal/config"
	"pyforge/internal/issue"
	"pyforge/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
)

func init() {
	cobra.OnInitialize(initRootConfig)
}

// NewRootCommand builds the root command tree. All subcommands delegate
// business logic through the App's service interfaces.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pyforge",
		Short: "Python project scaffolding and dependency tracking",
		Long: TitleStyle.Render("pyforge") + SubtitleStyle.Render(" - Python project scaffolding and dependency tracking") + `

pyforge scaffolds Python projects from templates and keeps their
requirements.txt in sync with the imports the source code actually
uses. It scans for import statements, filters out the standard
library, and merges what remains into the manifest without ever
touching existing version pins.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Scaffold a project with: pyforge init my-project
  2. Write code, import what you need
  3. Run 'pyforge sync' to update requirements.txt

` + SubtitleStyle.Render("Examples:") + `
  pyforge init my-project   Scaffold a new Python project
  pyforge sync              Reconcile requirements.txt with the code
  pyforge scan              Show the imports the code depends on
  pyforge doctor            Check project health
  pyforge templates list    List available scaffold templates`,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pyforge/config.cue)")

	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newSyncCommand(app))
	rootCmd.AddCommand(newScanCommand(app))
	rootCmd.AddCommand(newDepsCommand(app))
	rootCmd.AddCommand(newTemplatesCommand(app))
	rootCmd.AddCommand(newDoctorCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the App and runs the root command. This is called by
// main.main(). It only needs to happen once.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and environment overrides. A .env
// in the working directory is folded into the environment first so
// PYFORGE_* variables declared there behave like real environment ones.
func initRootConfig() {
	_ = godotenv.Load()

	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(cfgFile),
	})
	if err != nil {
		// Config loading problems must never be silent, even when defaults
		// keep the command usable.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
