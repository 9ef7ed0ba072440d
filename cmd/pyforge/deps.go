// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyforge/internal/app/reconcile"
	"pyforge/internal/config"
	"pyforge/internal/discovery"
	"pyforge/pkg/requirements"
	"pyforge/pkg/types"
)

var (
	depsSuccessIcon = SuccessStyle.Render("✓")
	depsInfoIcon    = SubtitleStyle.Render("•")
)

// newDepsCommand creates the `pyforge deps` command tree for direct
// manifest edits that bypass scanning.
func newDepsCommand(app *App) *cobra.Command {
	var manifestPath string

	depsCmd := &cobra.Command{
		Use:   "deps",
		Short: "Edit the requirements manifest directly",
		Long: `Edit the requirements manifest directly, without scanning.

These commands operate on the manifest in the current directory (or the
one named via --manifest). Lines the manifest parser cannot use are
reported and dropped on the next rewrite.

Examples:
  pyforge deps list
  pyforge deps add requests numpy==1.21.0
  pyforge deps remove requests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	depsCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "manifest path (default is ./requirements.txt)")

	depsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List manifest entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsList(cmd, app, manifestPath)
		},
	})

	depsCmd.AddCommand(&cobra.Command{
		Use:   "add NAME[==VERSION]...",
		Short: "Add packages to the manifest",
		Long: `Add packages to the manifest.

A bare name adds an unpinned entry and never touches an existing one,
pin included. A name with an explicit specifier (numpy==1.21.0) sets
that exact entry, replacing any previous pin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsAdd(cmd, app, manifestPath, args)
		},
	})

	depsCmd.AddCommand(&cobra.Command{
		Use:   "remove NAME...",
		Short: "Remove packages from the manifest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsRemove(cmd, app, manifestPath, args)
		},
	})

	return depsCmd
}

func runDepsList(cmd *cobra.Command, app *App, manifestPath string) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	path := resolveManifestFlag(manifestPath, cfg)
	manifest, err := requirements.Load(path)
	if err != nil {
		return err
	}

	app.Diagnostics.Render(ctx, skippedLineDiagnostics(path, manifest.Skipped), app.stderr)

	if manifest.Len() == 0 {
		fmt.Fprintf(app.stdout, "%s No entries in %s\n", depsInfoIcon, path)
		fmt.Fprintf(app.stdout, "%s To add packages, use: %s\n", depsInfoIcon, CmdStyle.Render("pyforge deps add <name>"))

		return nil
	}

	for _, name := range manifest.Names() {
		entry, _ := manifest.Get(name)
		if entry.Specifier != "" {
			fmt.Fprintf(app.stdout, "%s%s\n", CmdStyle.Render(entry.Name.String()), VerboseStyle.Render(entry.Specifier))
			continue
		}

		fmt.Fprintln(app.stdout, CmdStyle.Render(entry.Name.String()))
	}

	fmt.Fprintln(app.stdout, SubtitleStyle.Render(fmt.Sprintf("(%d entries in %s)", manifest.Len(), path)))

	return nil
}

func runDepsAdd(cmd *cobra.Command, app *App, manifestPath string, args []string) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	// Validate every argument before touching the manifest, so a typo in
	// the third name cannot leave a half-applied edit behind.
	entries := make([]requirements.Entry, 0, len(args))
	for _, arg := range args {
		entry, err := parseEntryArg(arg)
		if err != nil {
			return err
		}

		entries = append(entries, entry)
	}

	path := resolveManifestFlag(manifestPath, cfg)
	manifest, err := requirements.Load(path)
	if err != nil {
		return err
	}

	app.Diagnostics.Render(ctx, skippedLineDiagnostics(path, manifest.Skipped), app.stderr)

	changed := false
	for _, entry := range entries {
		existing, present := manifest.Get(entry.Name)

		switch {
		case !present:
			manifest.Set(entry)
			changed = true
			fmt.Fprintf(app.stdout, "%s added %s\n", depsSuccessIcon, CmdStyle.Render(entry.String()))
		case entry.Specifier == "":
			// Bare re-add keeps whatever pin is already there.
			fmt.Fprintf(app.stdout, "%s %s already present (kept %s)\n",
				depsInfoIcon, entry.Name, CmdStyle.Render(existing.String()))
		case entry.Specifier == existing.Specifier:
			fmt.Fprintf(app.stdout, "%s %s already present\n", depsInfoIcon, CmdStyle.Render(existing.String()))
		default:
			manifest.Set(entry)
			changed = true
			fmt.Fprintf(app.stdout, "%s pinned %s (was %s)\n",
				depsSuccessIcon, CmdStyle.Render(entry.String()), existing.String())
		}
	}

	if !changed {
		return nil
	}

	if err := manifest.Save(path); err != nil {
		renderReconcileFailure(app.stderr, err)
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(app.stdout, "%s Manifest updated: %s\n", depsSuccessIcon, path)

	return nil
}

func runDepsRemove(cmd *cobra.Command, app *App, manifestPath string, args []string) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	names := make([]types.PackageName, 0, len(args))
	for _, arg := range args {
		name := types.PackageName(arg)
		if err := name.Validate(); err != nil {
			return fmt.Errorf("invalid package name %q: %w", arg, err)
		}

		names = append(names, name)
	}

	path := resolveManifestFlag(manifestPath, cfg)
	manifest, err := requirements.Load(path)
	if err != nil {
		return err
	}

	app.Diagnostics.Render(ctx, skippedLineDiagnostics(path, manifest.Skipped), app.stderr)

	removed := 0
	for _, name := range names {
		if manifest.Remove(name) {
			removed++
			fmt.Fprintf(app.stdout, "%s removed %s\n", depsSuccessIcon, CmdStyle.Render(name.String()))
			continue
		}

		fmt.Fprintf(app.stderr, "%s %s not in manifest\n", WarningStyle.Render("!"), name)
	}

	if removed == 0 {
		return nil
	}

	if err := manifest.Save(path); err != nil {
		renderReconcileFailure(app.stderr, err)
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(app.stdout, "%s Manifest updated: %s\n", depsSuccessIcon, path)

	return nil
}

// parseEntryArg parses a deps add argument through the manifest line
// parser, accepting exactly what a manifest line would.
func parseEntryArg(arg string) (requirements.Entry, error) {
	parsed := requirements.Parse(arg)
	names := parsed.Names()
	if len(names) != 1 {
		return requirements.Entry{}, fmt.Errorf("invalid package entry %q (expected NAME or NAME==VERSION)", arg)
	}

	entry, _ := parsed.Get(names[0])

	return entry, nil
}

// resolveManifestFlag picks the manifest path: the explicit flag value
// when given, otherwise the configured name in the working directory.
func resolveManifestFlag(manifestPath string, cfg *config.Config) string {
	if manifestPath != "" {
		return manifestPath
	}

	return cfg.ManifestName.String()
}

// skippedLineDiagnostics converts tolerated-but-unusable manifest lines
// into warning diagnostics, matching the reconciler's phrasing.
func skippedLineDiagnostics(manifestPath string, skipped []requirements.SkippedLine) []discovery.Diagnostic {
	if len(skipped) == 0 {
		return nil
	}

	diags := make([]discovery.Diagnostic, 0, len(skipped))
	for _, line := range skipped {
		diags = append(diags, discovery.Diagnostic{
			Severity: discovery.SeverityWarning,
			Code:     reconcile.CodeManifestLineSkipped,
			Message:  fmt.Sprintf("skipped unrecognized manifest line %d: %q", line.Number, line.Text),
			Path:     manifestPath,
		})
	}

	return diags
}
