// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	_ "embed"
	"strings"

	"pyforge/internal/cueutil"
)

//go:embed template_schema.cue
var templateSchema []byte

// Template describes a project scaffold: the directories and files to
// create and the hook commands to run once the tree is written.
type Template struct {
	// Name identifies the template in the catalog.
	Name string `json:"name"`
	// Description is a one-line summary shown in listings.
	Description string `json:"description"`
	// Directories lists project-relative directories to create.
	Directories []string `json:"directories"`
	// Files maps project-relative paths to their initial contents.
	Files map[string]string `json:"files"`
	// PostCreate lists shell commands run in the project root after
	// scaffolding.
	PostCreate []string `json:"post_create"`
}

// ParseTemplate validates a CUE template document against the embedded
// #Template schema and decodes it. The filename appears in validation
// errors so users can locate the offending document.
func ParseTemplate(data []byte, filename string) (*Template, error) {
	result, err := cueutil.ParseAndDecode[Template](templateSchema, data, "#Template", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	tpl := result.Value

	return &tpl, nil
}

// PackageDirName derives the Python package directory name for a project:
// lower-cased, with hyphens and dots replaced by underscores so the result
// stays importable.
func PackageDirName(projectName string) string {
	pkg := strings.ToLower(projectName)
	pkg = strings.ReplaceAll(pkg, "-", "_")
	pkg = strings.ReplaceAll(pkg, ".", "_")

	return pkg
}

// ExpandPlaceholders substitutes the {name} and {package} placeholders in
// s with the project name and its derived package directory name.
func ExpandPlaceholders(s, projectName string) string {
	r := strings.NewReplacer(
		"{name}", projectName,
		"{package}", PackageDirName(projectName),
	)

	return r.Replace(s)
}
