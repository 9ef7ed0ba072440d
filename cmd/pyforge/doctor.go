// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyforge/internal/config"
	"pyforge/internal/scaffold"
	"pyforge/pkg/platform"
	"pyforge/pkg/pyproject"
	"pyforge/pkg/requirements"
)

// Doctor check statuses. A fail makes the command exit non-zero; warns
// are advisory only.
const (
	doctorStatusOK   = "ok"
	doctorStatusWarn = "warn"
	doctorStatusFail = "fail"
)

type (
	// doctorCheck is one health check outcome.
	doctorCheck struct {
		Name   string `json:"name" yaml:"name"`
		Status string `json:"status" yaml:"status"`
		Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	}

	// doctorReport is the machine-readable doctor outcome for --output json/yaml.
	doctorReport struct {
		Root    string        `json:"root" yaml:"root"`
		Checks  []doctorCheck `json:"checks" yaml:"checks"`
		Healthy bool          `json:"healthy" yaml:"healthy"`
	}
)

// newDoctorCommand creates the `pyforge doctor` command.
func newDoctorCommand(app *App) *cobra.Command {
	var (
		fixSummary bool
		output     string
	)

	doctorCmd := &cobra.Command{
		Use:   "doctor [root]",
		Short: "Check project health",
		Long: `Check project health.

doctor looks for the problems that make dependency tracking unreliable:
a missing project root, manifest lines that would be silently dropped,
virtualenvs the scanner is not excluding, a stale summary document,
pyproject.toml dependencies that sync is not being told about, and
sandboxed installs (Flatpak, Snap) where watch mode may miss file
events on host paths.

Warnings are advisory; the command exits non-zero only when a check
fails outright.`,
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

			return runDoctor(cmd, app, root, fixSummary, format)
		},
	}

	doctorCmd.Flags().BoolVar(&fixSummary, "fix-summary", false, "regenerate the summary document before checking")
	doctorCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")

	return doctorCmd
}

func runDoctor(cmd *cobra.Command, app *App, root string, fixSummary bool, format outputFormat) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	checks := []doctorCheck{checkRoot(root)}

	// The remaining tree checks only run when the root check passed.
	if checks[0].Status != doctorStatusFail {
		checks = append(checks,
			checkManifest(cfg, root),
			checkVirtualenvExclusions(cfg, root),
			checkSummary(cfg, root, fixSummary),
			checkPyproject(root),
		)
	}

	checks = append(checks, checkSandbox(platform.DetectSandbox()))

	healthy := true
	for _, check := range checks {
		if check.Status == doctorStatusFail {
			healthy = false
		}
	}

	if format != outputText {
		if err := renderStructured(app.stdout, format, doctorReport{
			Root:    root,
			Checks:  checks,
			Healthy: healthy,
		}); err != nil {
			return err
		}
	} else {
		printDoctorReport(app, root, checks, healthy)
	}

	if !healthy {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1}
	}

	return nil
}

func printDoctorReport(app *App, root string, checks []doctorCheck, healthy bool) {
	fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Project health:"), root)
	fmt.Fprintln(app.stdout)

	warns := 0
	fails := 0
	for _, check := range checks {
		icon := SuccessStyle.Render("✓")
		switch check.Status {
		case doctorStatusWarn:
			icon = WarningStyle.Render("!")
			warns++
		case doctorStatusFail:
			icon = ErrorStyle.Render("✗")
			fails++
		}

		fmt.Fprintf(app.stdout, "  %s %-22s %s\n", icon, check.Name, check.Detail)
	}

	fmt.Fprintln(app.stdout)
	switch {
	case healthy && warns == 0:
		fmt.Fprintln(app.stdout, SuccessStyle.Render("All checks passed."))
	case healthy:
		fmt.Fprintln(app.stdout, WarningStyle.Render(fmt.Sprintf("%d warning(s).", warns)))
	default:
		fmt.Fprintln(app.stdout, ErrorStyle.Render(fmt.Sprintf("%d check(s) failed, %d warning(s).", fails, warns)))
	}
}

func checkRoot(root string) doctorCheck {
	check := doctorCheck{Name: "project root"}

	info, err := os.Stat(root)
	switch {
	case err != nil:
		check.Status = doctorStatusFail
		check.Detail = fmt.Sprintf("%s does not exist", root)
	case !info.IsDir():
		check.Status = doctorStatusFail
		check.Detail = fmt.Sprintf("%s is not a directory", root)
	default:
		check.Status = doctorStatusOK
		check.Detail = "exists"
	}

	return check
}

func checkManifest(cfg *config.Config, root string) doctorCheck {
	check := doctorCheck{Name: "manifest"}
	path := filepath.Join(root, cfg.ManifestName.String())

	if _, err := os.Stat(path); err != nil {
		check.Status = doctorStatusWarn
		check.Detail = fmt.Sprintf("%s not found (sync will create it)", cfg.ManifestName)

		return check
	}

	manifest, err := requirements.Load(path)
	if err != nil {
		check.Status = doctorStatusFail
		check.Detail = fmt.Sprintf("unreadable: %v", err)

		return check
	}

	if len(manifest.Skipped) > 0 {
		check.Status = doctorStatusWarn
		check.Detail = fmt.Sprintf("%d entries; %d unparseable line(s) will be dropped on the next rewrite",
			manifest.Len(), len(manifest.Skipped))

		return check
	}

	check.Status = doctorStatusOK
	check.Detail = fmt.Sprintf("%d entries", manifest.Len())

	return check
}

// checkVirtualenvExclusions looks for directories that hold a pyvenv.cfg —
// the marker every venv/virtualenv layout writes — and verifies each one is
// covered by the effective exclusion list. An unexcluded virtualenv pollutes
// the scan with every installed package.
func checkVirtualenvExclusions(cfg *config.Config, root string) doctorCheck {
	check := doctorCheck{Name: "virtualenv exclusions"}

	excluded := make(map[string]bool)
	for _, dir := range cfg.EffectiveExcludeDirs() {
		excluded[dir] = true
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		check.Status = doctorStatusWarn
		check.Detail = fmt.Sprintf("could not inspect %s: %v", root, err)

		return check
	}

	found := 0
	var unexcluded []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), "pyvenv.cfg")); err != nil {
			continue
		}

		found++
		if !excluded[entry.Name()] {
			unexcluded = append(unexcluded, entry.Name())
		}
	}

	switch {
	case len(unexcluded) > 0:
		check.Status = doctorStatusFail
		check.Detail = fmt.Sprintf("virtualenv %v not in the exclusion list; scans will pick up installed packages", unexcluded)
	case found > 0:
		check.Status = doctorStatusOK
		check.Detail = fmt.Sprintf("%d virtualenv(s) found, all excluded", found)
	default:
		check.Status = doctorStatusOK
		check.Detail = "no virtualenvs in the project root"
	}

	return check
}

func checkSummary(cfg *config.Config, root string, fix bool) doctorCheck {
	check := doctorCheck{Name: "summary document"}
	summaryFile := cfg.SummaryFile.String()

	if summaryFile == "" {
		check.Status = doctorStatusOK
		check.Detail = "disabled in config"

		return check
	}

	if fix {
		if err := scaffold.WriteSummary(root, summaryFile, cfg.EffectiveExcludeDirs()); err != nil {
			check.Status = doctorStatusFail
			check.Detail = fmt.Sprintf("failed to regenerate %s: %v", summaryFile, err)

			return check
		}

		check.Status = doctorStatusOK
		check.Detail = fmt.Sprintf("%s regenerated", summaryFile)

		return check
	}

	fresh, err := scaffold.SummaryUpToDate(root, summaryFile, cfg.EffectiveExcludeDirs())
	switch {
	case err != nil:
		check.Status = doctorStatusWarn
		check.Detail = fmt.Sprintf("could not compare %s: %v", summaryFile, err)
	case fresh:
		check.Status = doctorStatusOK
		check.Detail = fmt.Sprintf("%s is up to date", summaryFile)
	default:
		check.Status = doctorStatusWarn
		check.Detail = fmt.Sprintf("%s is stale (run 'pyforge doctor --fix-summary')", summaryFile)
	}

	return check
}

func checkPyproject(root string) doctorCheck {
	check := doctorCheck{Name: "pyproject.toml"}

	doc, err := pyproject.Load(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			check.Status = doctorStatusOK
			check.Detail = "not present"

			return check
		}

		check.Status = doctorStatusFail
		check.Detail = fmt.Sprintf("unreadable: %v", err)

		return check
	}

	deps := doc.Project.DependencyNames()
	if len(deps) > 0 {
		check.Status = doctorStatusOK
		check.Detail = fmt.Sprintf("%d dependencies declared ('pyforge sync --include-pyproject' merges them)", len(deps))

		return check
	}

	check.Status = doctorStatusOK
	check.Detail = "present, no dependencies declared"

	return check
}

// checkSandbox reports the application sandbox, if any. Inside Flatpak or
// Snap the process sees its own filesystem namespace, so watch mode can
// miss change events on host paths.
func checkSandbox(sb platform.SandboxType) doctorCheck {
	check := doctorCheck{Name: "sandbox"}

	if sb == platform.SandboxNone {
		check.Status = doctorStatusOK
		check.Detail = "none detected"

		return check
	}

	check.Status = doctorStatusWarn
	check.Detail = fmt.Sprintf("running inside a %s sandbox; watch mode may miss changes on host paths", sb)

	return check
}
