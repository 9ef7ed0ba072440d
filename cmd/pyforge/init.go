// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pyforge/internal/issue"
	"pyforge/internal/scaffold"
	"pyforge/internal/tui"
)

// initOptions captures the init command's inputs after flag parsing.
type initOptions struct {
	name      string
	template  string
	directory string
	force     bool
	noInput   bool
}

// newInitCommand creates the `pyforge init` command.
func newInitCommand(app *App) *cobra.Command {
	var (
		templateName string
		directory    string
		force        bool
		noInput      bool
	)

	initCmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Scaffold a new Python project from a template",
		Long: `Scaffold a new Python project from a template.

Templates define the directory layout, starter files, and optional
post-create hook commands. Built-in templates: minimal, default, full.
User templates placed under the config directory's templates/ folder
extend or override the built-in catalog.

When the project name is omitted and stdin is a terminal, init prompts
for it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := initOptions{
				template:  templateName,
				directory: directory,
				force:     force,
				noInput:   noInput,
			}
			if len(args) > 0 {
				opts.name = args[0]
			}

			return runInit(cmd, app, opts)
		},
	}

	initCmd.Flags().StringVarP(&templateName, "template", "t", "", "template to use (default from config)")
	initCmd.Flags().StringVarP(&directory, "directory", "d", "", "parent directory for the new project (default is the working directory)")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "scaffold into an existing directory")
	initCmd.Flags().BoolVar(&noInput, "no-input", false, "never prompt; fail when required values are missing")

	return initCmd
}

func runInit(cmd *cobra.Command, app *App, opts initOptions) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)
	if hasErrorDiagnostic(cfgDiags) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: errors.New("configuration is unusable")}
	}

	if opts.name == "" {
		if opts.noInput {
			return fmt.Errorf("project name required (pass it as an argument or drop --no-input)")
		}
		if !cfg.UI.Interactive {
			return fmt.Errorf("project name required (prompts are disabled via ui.interactive)")
		}

		name, err := tui.Input(tui.InputOptions{
			Title:       "Project name",
			Placeholder: "my-project",
			Validate: func(v string) error {
				if strings.TrimSpace(v) == "" {
					return fmt.Errorf("project name must not be empty")
				}

				return nil
			},
			Output: app.stderr,
		})
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render("Canceled."))

				return nil
			}

			return err
		}
		opts.name = name
	}

	templateName := opts.template
	if templateName == "" {
		templateName = cfg.DefaultTemplate.String()
	}

	catalog, err := scaffold.LoadCatalog()
	if err != nil {
		return err
	}

	tpl, err := catalog.Get(templateName)
	if err != nil {
		if errors.Is(err, scaffold.ErrTemplateNotFound) {
			printTemplateSuggestions(app, catalog, templateName)
			renderServiceError(app.stderr, newServiceError(err, issue.TemplateNotFoundId, ""))
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}

		return err
	}

	root, err := scaffold.Create(scaffold.CreateOptions{
		Name:      opts.name,
		Template:  tpl,
		ParentDir: opts.directory,
		Force:     opts.force,
	})
	if err != nil {
		if errors.Is(err, scaffold.ErrProjectExists) {
			renderServiceError(app.stderr, newServiceError(err, issue.ProjectExistsId, ""))
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}

		return err
	}

	if err := scaffold.WriteSummary(root, cfg.SummaryFile.String(), cfg.EffectiveExcludeDirs()); err != nil {
		fmt.Fprintf(app.stderr, "%s failed to write %s: %v\n", WarningStyle.Render("warning:"), cfg.SummaryFile, err)
	}

	hookFailures := runInitHooks(cmd, app, root, tpl, opts.name, cfg.Hooks.Enabled, cfg.Hooks.TimeoutSeconds)

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), root)
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintf(app.stdout, "  1. cd %s\n", opts.name)
	fmt.Fprintln(app.stdout, "  2. Create a virtualenv: python -m venv .venv && source .venv/bin/activate")
	fmt.Fprintln(app.stdout, "  3. Write code, then run 'pyforge sync' to track your imports")

	if hookFailures > 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: fmt.Errorf("%d post-create hook(s) failed", hookFailures)}
	}

	return nil
}

// runInitHooks executes the template's post-create hook commands and
// reports them to the user. The scaffold itself already succeeded, so
// failures are rendered but do not undo anything.
func runInitHooks(cmd *cobra.Command, app *App, root string, tpl *scaffold.Template, projectName string, enabled bool, timeoutSeconds int) int {
	if len(tpl.PostCreate) == 0 {
		return 0
	}

	if !enabled {
		fmt.Fprintf(app.stdout, "%s Skipping %d post-create hook(s) (disabled in config)\n",
			SubtitleStyle.Render("→"), len(tpl.PostCreate))

		return 0
	}

	timeout := time.Duration(timeoutSeconds) * time.Second
	results := scaffold.RunPostCreate(cmd.Context(), root, tpl, projectName, timeout)

	failures := 0
	for _, result := range results {
		if !result.Failed() {
			if verbose {
				fmt.Fprintf(app.stdout, "%s hook ok: %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(result.Command))
			}
			continue
		}

		failures++
		fmt.Fprintf(app.stderr, "%s hook failed: %s: %v\n", ErrorStyle.Render("✗"), CmdStyle.Render(result.Command), result.Err)
		if output := strings.TrimSpace(result.Output); output != "" {
			fmt.Fprintf(app.stderr, "%s\n", VerboseStyle.Render(output))
		}
	}

	if failures > 0 {
		renderServiceError(app.stderr, newServiceError(
			fmt.Errorf("%d post-create hook(s) failed", failures), issue.HookFailedId, ""))
	}

	return failures
}

// printTemplateSuggestions lists close name matches for a template typo.
func printTemplateSuggestions(app *App, catalog *scaffold.Catalog, name string) {
	suggestions := catalog.Suggest(name, 3)
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintf(app.stderr, "%s template %q not found. Did you mean:\n", ErrorStyle.Render("Error:"), name)
	for _, suggestion := range suggestions {
		fmt.Fprintf(app.stderr, "  %s\n", CmdStyle.Render(suggestion))
	}
}
