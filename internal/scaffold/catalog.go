// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"pyforge/internal/config"

	"github.com/sahilm/fuzzy"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//go:embed templates/*.cue
var embeddedTemplates embed.FS

// ErrTemplateNotFound is the sentinel error wrapped by TemplateNotFoundError.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateNotFoundError is returned when a template name is not in the
// catalog. It wraps ErrTemplateNotFound for errors.Is() compatibility.
type TemplateNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// Unwrap returns ErrTemplateNotFound for errors.Is() compatibility.
func (e *TemplateNotFoundError) Unwrap() error { return ErrTemplateNotFound }

// Catalog holds the available scaffold templates, keyed by name.
type Catalog struct {
	templates map[string]*Template
}

// LoadCatalog builds the template catalog: the embedded templates first,
// then any *.cue files in the user templates directory, which override or
// extend the embedded set by name.
func LoadCatalog() (*Catalog, error) {
	c := &Catalog{templates: make(map[string]*Template)}

	entries, err := embeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded templates: %w", err)
	}
	for _, entry := range entries {
		data, readErr := embeddedTemplates.ReadFile(path.Join("templates", entry.Name()))
		if readErr != nil {
			return nil, fmt.Errorf("failed to read embedded template %s: %w", entry.Name(), readErr)
		}
		tpl, parseErr := ParseTemplate(data, entry.Name())
		if parseErr != nil {
			return nil, fmt.Errorf("invalid embedded template %s: %w", entry.Name(), parseErr)
		}
		c.templates[tpl.Name] = tpl
	}

	userDir, err := config.TemplatesDir()
	if err != nil {
		return nil, err
	}

	// Glob returns nil for a nonexistent directory, so a user without
	// custom templates pays no cost here.
	userFiles, err := filepath.Glob(filepath.Join(userDir, "*.cue"))
	if err != nil {
		return nil, fmt.Errorf("failed to list user templates: %w", err)
	}
	for _, file := range userFiles {
		data, readErr := os.ReadFile(file)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read user template %s: %w", file, readErr)
		}
		tpl, parseErr := ParseTemplate(data, filepath.Base(file))
		if parseErr != nil {
			return nil, fmt.Errorf("invalid user template %s: %w", file, parseErr)
		}
		c.templates[tpl.Name] = tpl
	}

	return c, nil
}

// Names returns the template names in the catalog, sorted.
func (c *Catalog) Names() []string {
	names := maps.Keys(c.templates)
	slices.Sort(names)

	return names
}

// List returns all templates in the catalog, ordered by name.
func (c *Catalog) List() []*Template {
	names := c.Names()
	out := make([]*Template, 0, len(names))
	for _, name := range names {
		out = append(out, c.templates[name])
	}

	return out
}

// Get returns the template with the given name, or a TemplateNotFoundError.
func (c *Catalog) Get(name string) (*Template, error) {
	tpl, ok := c.templates[name]
	if !ok {
		return nil, &TemplateNotFoundError{Name: name}
	}

	return tpl, nil
}

// Suggest returns up to limit catalog names that fuzzy-match the given
// (unknown) name, best matches first. Used for "did you mean" hints.
func (c *Catalog) Suggest(name string, limit int) []string {
	matches := fuzzy.Find(name, c.Names())
	sort.Sort(matches)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		out = append(out, m.Str)
	}

	return out
}
