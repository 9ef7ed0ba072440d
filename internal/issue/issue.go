// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ProjectRootNotFoundId Id = iota + 1
	ManifestWriteFailedId
	ConfigLoadFailedId
	TemplateNotFoundId
	ProjectExistsId
	HookFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	projectRootNotFoundIssue = &Issue{
		id: ProjectRootNotFoundId,
		mdMsg: `
# Project root not found!

The directory you asked pyforge to scan does not exist or is not a directory.

## Things you can try:
- Check the path for typos:
~~~
$ pyforge scan ./my-project
~~~

- Create a new project first:
~~~
$ pyforge init my-project
~~~

- Run pyforge from inside the project and omit the path argument:
~~~
$ cd my-project && pyforge sync
~~~`,
	}

	manifestWriteFailedIssue = &Issue{
		id: ManifestWriteFailedId,
		mdMsg: `
# Failed to write the requirements manifest!

pyforge could not persist requirements.txt. The previous manifest content
is untouched — writes are all-or-nothing.

## Common causes:
- The project directory is read-only
- The disk is full
- Another process holds a lock on the file (some editors do this)

## Things you can try:
- Check directory permissions:
~~~
$ ls -ld .
~~~

- Preview the changes without writing:
~~~
$ pyforge sync --dry-run
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the pyforge configuration file.

## Configuration file locations:
- Project-local: ./pyforge.cue
- Linux: ~/.config/pyforge/config.cue
- macOS: ~/Library/Application Support/pyforge/config.cue
- Windows: %APPDATA%\pyforge\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ pyforge config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
source_suffix: ".py"
manifest_name: "requirements.txt"
extend_exclude_dirs: ["fixtures"]

ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	templateNotFoundIssue = &Issue{
		id: TemplateNotFoundId,
		mdMsg: `
# Template not found!

The scaffold template you asked for is not in the catalog.

## Things you can try:
- List the available templates:
~~~
$ pyforge templates list
~~~

- Check for typos in the template name (pyforge suggests close matches)
- Add your own template under the user templates directory:
~~~
$ pyforge config path   # shows the config directory
~~~
  then place a ` + "`<name>.cue`" + ` file in its ` + "`templates/`" + ` subdirectory.`,
	}

	projectExistsIssue = &Issue{
		id: ProjectExistsId,
		mdMsg: `
# Project directory already exists!

pyforge refuses to scaffold over an existing directory by default so it
never clobbers your work.

## Things you can try:
- Pick a different project name
- Re-run with --force to scaffold into the existing directory:
~~~
$ pyforge init my-project --force
~~~`,
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# Post-create hook failed!

The project was scaffolded successfully, but one of the template's
post-create hook commands exited with an error.

## Things you can try:
- Inspect the hook commands in the template:
~~~
$ pyforge templates show <template>
~~~

- Run the failing command manually inside the new project
- Disable hooks in your configuration:
~~~cue
hooks: {
	enabled: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		projectRootNotFoundIssue.Id(): projectRootNotFoundIssue,
		manifestWriteFailedIssue.Id(): manifestWriteFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		templateNotFoundIssue.Id():    templateNotFoundIssue,
		projectExistsIssue.Id():       projectExistsIssue,
		hookFailedIssue.Id():          hookFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
