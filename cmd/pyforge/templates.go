// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"pyforge/internal/issue"
	"pyforge/internal/scaffold"
)

// newTemplatesCommand creates the `pyforge templates` command tree.
func newTemplatesCommand(app *App) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect the scaffold template catalog",
		Long: `Inspect the scaffold template catalog.

The catalog combines the built-in templates with user templates from
the config directory's templates/ folder. A user template with the
same name as a built-in one replaces it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	templatesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplatesList(cmd, app)
		},
	})

	templatesCmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Show a template's layout and hooks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplatesShow(cmd, app, args[0])
		},
	})

	return templatesCmd
}

func runTemplatesList(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	catalog, err := scaffold.LoadCatalog()
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Available templates"))
	fmt.Fprintln(app.stdout)

	templates := catalog.List()
	for _, tpl := range templates {
		marker := ""
		if tpl.Name == cfg.DefaultTemplate.String() {
			marker = " " + SubtitleStyle.Render("(default)")
		}

		fmt.Fprintf(app.stdout, "  %-12s %s%s\n", CmdStyle.Render(tpl.Name), tpl.Description, marker)
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render(fmt.Sprintf("(%d templates)", len(templates))))

	return nil
}

func runTemplatesShow(cmd *cobra.Command, app *App, name string) error {
	catalog, err := scaffold.LoadCatalog()
	if err != nil {
		return err
	}

	tpl, err := catalog.Get(name)
	if err != nil {
		if errors.Is(err, scaffold.ErrTemplateNotFound) {
			printTemplateSuggestions(app, catalog, name)
			renderServiceError(app.stderr, newServiceError(err, issue.TemplateNotFoundId, ""))
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}

		return err
	}

	fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Template:"), CmdStyle.Render(tpl.Name))
	if tpl.Description != "" {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render(tpl.Description))
	}

	if len(tpl.Directories) > 0 {
		fmt.Fprintln(app.stdout)
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("Directories:"))
		for _, dir := range tpl.Directories {
			fmt.Fprintf(app.stdout, "  %s/\n", dir)
		}
	}

	if len(tpl.Files) > 0 {
		paths := maps.Keys(tpl.Files)
		slices.Sort(paths)

		fmt.Fprintln(app.stdout)
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("Files:"))
		for _, path := range paths {
			fmt.Fprintf(app.stdout, "  %s\n", path)
		}
	}

	if len(tpl.PostCreate) > 0 {
		fmt.Fprintln(app.stdout)
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("Post-create hooks:"))
		for _, hook := range tpl.PostCreate {
			fmt.Fprintf(app.stdout, "  %s\n", CmdStyle.Render(hook))
		}
	}

	return nil
}
