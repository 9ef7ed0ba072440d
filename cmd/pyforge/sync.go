// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pyforge/internal/app/reconcile"
	"pyforge/internal/discovery"
	"pyforge/internal/issue"
	"pyforge/internal/tui"
	"pyforge/internal/watch"
	"pyforge/pkg/pyproject"
	"pyforge/pkg/requirements"
	"pyforge/pkg/types"
)

type (
	// syncOptions captures the sync command's inputs after flag parsing.
	syncOptions struct {
		root             string
		manifest         string
		dryRun           bool
		yes              bool
		includePyproject bool
		includeExtras    bool
		output           outputFormat
	}

	// syncReport is the machine-readable sync outcome for --output json/yaml.
	syncReport struct {
		Root         string   `json:"root" yaml:"root"`
		Manifest     string   `json:"manifest" yaml:"manifest"`
		FilesScanned int      `json:"files_scanned" yaml:"files_scanned"`
		Added        []string `json:"added" yaml:"added"`
		DryRun       bool     `json:"dry_run" yaml:"dry_run"`
	}
)

// newSyncCommand creates the `pyforge sync` command.
func newSyncCommand(app *App) *cobra.Command {
	var (
		manifestPath     string
		dryRun           bool
		yes              bool
		includePyproject bool
		includeExtras    bool
		watchMode        bool
		output           string
	)

	syncCmd := &cobra.Command{
		Use:   "sync [root]",
		Short: "Reconcile the requirements manifest with the project's imports",
		Long: `Reconcile the requirements manifest with the project's imports.

sync scans the project tree for import statements, reduces them to
third-party package names, and merges any missing names into the
manifest. Existing entries keep their version pins; new entries are
added unpinned. The manifest is rewritten sorted, one package per line.

With --watch, sync stays running and re-reconciles whenever a source
file changes. Watch runs never prompt and only write the manifest when
there is something to add.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			opts := syncOptions{
				root:             ".",
				manifest:         manifestPath,
				dryRun:           dryRun,
				yes:              yes,
				includePyproject: includePyproject || includeExtras,
				includeExtras:    includeExtras,
				output:           format,
			}
			if len(args) > 0 {
				opts.root = args[0]
			}

			if watchMode {
				// Watch mode re-reconciles on file changes, while dry-run
				// prevents writes entirely. Structured output is pointless
				// for an open-ended stream of runs.
				if dryRun {
					return fmt.Errorf("--watch and --dry-run cannot be used together")
				}
				if format != outputText {
					return fmt.Errorf("--watch supports only text output")
				}

				return runSyncWatch(cmd, app, opts)
			}

			return runSync(cmd, app, opts)
		},
	}

	syncCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest path (default is <root>/requirements.txt)")
	syncCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would be added without writing")
	syncCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	syncCmd.Flags().BoolVar(&includePyproject, "include-pyproject", false, "also merge dependencies declared in pyproject.toml")
	syncCmd.Flags().BoolVar(&includeExtras, "include-extras", false, "also merge optional-dependency extras (implies --include-pyproject)")
	syncCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-reconcile whenever source files change")
	syncCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")

	return syncCmd
}

// runSync performs one reconcile pass: scan, merge, confirm, persist.
func runSync(cmd *cobra.Command, app *App, opts syncOptions) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)
	if hasErrorDiagnostic(cfgDiags) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: errors.New("configuration is unusable")}
	}

	extras, err := pyprojectExtras(opts.root, opts.includePyproject, opts.includeExtras)
	if err != nil {
		return err
	}

	// Reconcile dry first so the confirm prompt can sit between the scan
	// and the write without a second scan.
	result, err := app.Reconciler.Reconcile(ctx, cfg, reconcile.Request{
		Root:         opts.root,
		ManifestPath: opts.manifest,
		ExtraNames:   extras,
		DryRun:       true,
	})
	if err != nil {
		renderReconcileFailure(app.stderr, err)
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)

	// One prompt around the whole added set. Skipped with --yes, with
	// --dry-run, or when prompts are disabled via ui.interactive; a
	// non-terminal stdin answers with the default (proceed).
	if len(result.Added) > 0 && !opts.dryRun && !opts.yes && cfg.UI.Interactive {
		proceed, promptErr := tui.Confirm(tui.ConfirmOptions{
			Title:       fmt.Sprintf("Add %d package(s) to %s?", len(result.Added), result.ManifestPath),
			Description: joinNames(result.Added),
			Default:     true,
			Output:      app.stderr,
		})
		if promptErr != nil && !errors.Is(promptErr, tui.ErrAborted) {
			return promptErr
		}
		if promptErr != nil || !proceed {
			fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render("Canceled - manifest unchanged."))

			return nil
		}
	}

	if !opts.dryRun {
		if err := result.Manifest.Save(result.ManifestPath); err != nil {
			renderReconcileFailure(app.stderr, err)
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}
	}

	if opts.output != outputText {
		return renderStructured(app.stdout, opts.output, syncReport{
			Root:         opts.root,
			Manifest:     result.ManifestPath,
			FilesScanned: result.FilesScanned,
			Added:        packageNameStrings(result.Added),
			DryRun:       opts.dryRun,
		})
	}

	printSyncOutcome(app.stdout, result, opts.dryRun)

	return nil
}

// runSyncWatch runs an initial reconcile and then re-reconciles on source
// changes until the context is cancelled (e.g., Ctrl+C). Watch runs never
// prompt, and they write the manifest only when there is something to add.
func runSyncWatch(cmd *cobra.Command, app *App, opts syncOptions) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)
	if hasErrorDiagnostic(cfgDiags) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: errors.New("configuration is unusable")}
	}

	reconcileOnce := func(ctx context.Context) error {
		extras, err := pyprojectExtras(opts.root, opts.includePyproject, opts.includeExtras)
		if err != nil {
			return err
		}

		result, err := app.Reconciler.Reconcile(ctx, cfg, reconcile.Request{
			Root:         opts.root,
			ManifestPath: opts.manifest,
			ExtraNames:   extras,
			DryRun:       true,
		})
		if err != nil {
			return err
		}

		app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)

		if len(result.Added) > 0 {
			if err := result.Manifest.Save(result.ManifestPath); err != nil {
				return err
			}
		}

		printSyncOutcome(app.stdout, result, false)

		return nil
	}

	fmt.Fprintf(app.stdout, "%s Watch mode: initial reconcile of '%s'\n", VerboseHighlightStyle.Render("→"), opts.root)
	if err := reconcileOnce(ctx); err != nil {
		// Log but don't stop — the user may fix the error and save again.
		fmt.Fprintf(app.stderr, "%s Initial reconcile failed: %v\n", WarningStyle.Render("!"), err)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))

	patterns := []string{"**/*" + cfg.SourceSuffix.String()}
	if opts.includePyproject {
		patterns = append(patterns, "pyproject.toml")
	}

	// The manifest itself is ignored so our own writes can never feed back
	// into the watcher, whatever the configured source suffix is.
	manifestBase := cfg.ManifestName.String()
	if opts.manifest != "" {
		manifestBase = filepath.Base(opts.manifest)
	}

	ignore := make([]string, 0, len(cfg.EffectiveExcludeDirs())+1)
	for _, dir := range cfg.EffectiveExcludeDirs() {
		ignore = append(ignore, "**/"+dir+"/**")
	}
	ignore = append(ignore, "**/"+manifestBase)

	watchCfg := watch.Config{
		Patterns: patterns,
		Ignore:   ignore,
		BaseDir:  opts.root,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "%s Detected %d change(s). Reconciling...\n",
				VerboseHighlightStyle.Render("→"), len(changed))
			if err := reconcileOnce(ctx); err != nil {
				fmt.Fprintf(app.stderr, "%s Reconcile failed: %v\n", WarningStyle.Render("!"), err)
			}
			fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n\n", VerboseHighlightStyle.Render("→"))
			return nil
		},
		Stdout: app.stdout,
		Stderr: app.stderr,
	}

	w, err := watch.New(watchCfg)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(ctx)
}

// printSyncOutcome writes the human-readable reconcile summary.
func printSyncOutcome(stdout io.Writer, result *reconcile.Result, dryRun bool) {
	if len(result.Added) == 0 {
		fmt.Fprintf(stdout, "%s %s is up to date %s\n",
			SuccessStyle.Render("✓"),
			result.ManifestPath,
			SubtitleStyle.Render(fmt.Sprintf("(%d files scanned)", result.FilesScanned)))

		return
	}

	if dryRun {
		fmt.Fprintf(stdout, "%s Would add %d package(s) to %s:\n",
			VerboseHighlightStyle.Render("→"), len(result.Added), result.ManifestPath)
	} else {
		fmt.Fprintf(stdout, "%s Added %d package(s) to %s:\n",
			SuccessStyle.Render("✓"), len(result.Added), result.ManifestPath)
	}

	for _, name := range result.Added {
		fmt.Fprintf(stdout, "  %s %s\n", SuccessStyle.Render("+"), CmdStyle.Render(name.String()))
	}
}

// pyprojectExtras returns the dependency names declared in the project's
// pyproject.toml when enabled is set. With optional, the requirements of
// every optional-dependency extra are folded in as well. A missing file
// is not an error; a present but unreadable one is.
func pyprojectExtras(root string, enabled, optional bool) ([]types.PackageName, error) {
	if !enabled {
		return nil, nil
	}

	doc, err := pyproject.Load(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	if optional {
		return doc.Project.AllDependencyNames(), nil
	}

	return doc.Project.DependencyNames(), nil
}

// renderReconcileFailure prints the issue card matching a reconcile failure,
// followed by the plain error line.
func renderReconcileFailure(stderr io.Writer, err error) {
	switch {
	case errors.Is(err, discovery.ErrInvalidRoot):
		renderServiceError(stderr, newServiceError(err, issue.ProjectRootNotFoundId, ""))
	case errors.Is(err, requirements.ErrPersistFailed):
		renderServiceError(stderr, newServiceError(err, issue.ManifestWriteFailedId, ""))
	}

	fmt.Fprintf(stderr, "\n%s %v\n", ErrorStyle.Render("Error:"), err)
}

// packageNameStrings converts validated names to plain strings for
// structured output.
func packageNameStrings(names []types.PackageName) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name.String())
	}

	return out
}

// joinNames renders a package name list for prompt descriptions.
func joinNames(names []types.PackageName) string {
	return strings.Join(packageNameStrings(names), ", ")
}
