// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyforge/internal/stdlib"
	"pyforge/pkg/types"
)

// scanReport is the machine-readable scan outcome for --output json/yaml.
type scanReport struct {
	Root         string   `json:"root" yaml:"root"`
	FilesScanned int      `json:"files_scanned" yaml:"files_scanned"`
	Packages     []string `json:"packages" yaml:"packages"`
	Stdlib       []string `json:"stdlib,omitempty" yaml:"stdlib,omitempty"`
}

// newScanCommand creates the `pyforge scan` command.
func newScanCommand(app *App) *cobra.Command {
	var (
		all    bool
		output string
	)

	scanCmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Show the third-party packages the project imports",
		Long: `Show the third-party packages the project imports.

scan walks the project tree, extracts import statements from source
files (ignoring comments and docstrings), reduces them to top-level
package names, and filters out the Python standard library. The result
is the package set that sync would merge into the manifest.

With --all, names that were filtered as standard library are listed
too, marked as such.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			return runScan(cmd, app, root, all, format)
		},
	}

	scanCmd.Flags().BoolVarP(&all, "all", "a", false, "include standard-library imports in the listing")
	scanCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")

	return scanCmd
}

func runScan(cmd *cobra.Command, app *App, root string, all bool, format outputFormat) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)
	if hasErrorDiagnostic(cfgDiags) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: fmt.Errorf("configuration is unusable")}
	}

	var (
		thirdParty  []types.PackageName
		stdlibNames []types.PackageName
		scanned     int
	)

	if all {
		// Scan with an empty registry so stdlib imports survive, then
		// separate them locally with the real one.
		result, err := app.Reconciler.DiscoverAll(ctx, cfg, root)
		if err != nil {
			renderReconcileFailure(app.stderr, err)
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}

		app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)
		scanned = result.FilesScanned

		std := stdlib.Default()
		if extras := cfg.ExtraStdlibNames(); len(extras) > 0 {
			std = std.Extend(extras...)
		}

		for _, name := range result.Packages {
			if std.Contains(name.String()) {
				stdlibNames = append(stdlibNames, name)
				continue
			}

			thirdParty = append(thirdParty, name)
		}
	} else {
		result, err := app.Reconciler.Discover(ctx, cfg, root)
		if err != nil {
			renderReconcileFailure(app.stderr, err)
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}

		app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)
		scanned = result.FilesScanned
		thirdParty = result.Packages
	}

	if format != outputText {
		return renderStructured(app.stdout, format, scanReport{
			Root:         root,
			FilesScanned: scanned,
			Packages:     packageNameStrings(thirdParty),
			Stdlib:       packageNameStrings(stdlibNames),
		})
	}

	for _, name := range thirdParty {
		fmt.Fprintln(app.stdout, CmdStyle.Render(name.String()))
	}
	for _, name := range stdlibNames {
		fmt.Fprintf(app.stdout, "%s %s\n", VerboseStyle.Render(name.String()), SubtitleStyle.Render("(stdlib)"))
	}

	summary := fmt.Sprintf("(%d third-party, %d files scanned)", len(thirdParty), scanned)
	if all {
		summary = fmt.Sprintf("(%d third-party, %d stdlib, %d files scanned)", len(thirdParty), len(stdlibNames), scanned)
	}
	fmt.Fprintln(app.stdout, SubtitleStyle.Render(summary))

	return nil
}
