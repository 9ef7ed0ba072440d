// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pyforge/pkg/types"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrProjectExists is the sentinel error wrapped by ProjectExistsError.
	ErrProjectExists = errors.New("project already exists")
	// ErrInvalidProjectName is the sentinel error wrapped by InvalidProjectNameError.
	ErrInvalidProjectName = errors.New("invalid project name")
)

type (
	// ProjectExistsError is returned when the target directory already
	// exists and Force was not set. It wraps ErrProjectExists.
	ProjectExistsError struct {
		Path string
	}

	// InvalidProjectNameError is returned when a project name cannot be
	// used as a directory name or does not derive a valid package name.
	// It wraps ErrInvalidProjectName.
	InvalidProjectNameError struct {
		Name  string
		Cause error
	}

	// CreateOptions configures Create.
	CreateOptions struct {
		// Name is the project name; it becomes the directory name.
		Name string
		// Template is the scaffold template to instantiate.
		Template *Template
		// ParentDir is where the project directory is created. Empty
		// means the current working directory.
		ParentDir string
		// Force allows scaffolding into an existing directory.
		Force bool
	}
)

// Error implements the error interface.
func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project already exists at %s", e.Path)
}

// Unwrap returns ErrProjectExists for errors.Is() compatibility.
func (e *ProjectExistsError) Unwrap() error { return ErrProjectExists }

// Error implements the error interface.
func (e *InvalidProjectNameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid project name %q: %v", e.Name, e.Cause)
	}

	return fmt.Sprintf("invalid project name %q", e.Name)
}

// Unwrap returns ErrInvalidProjectName for errors.Is() compatibility.
func (e *InvalidProjectNameError) Unwrap() error { return ErrInvalidProjectName }

// Create instantiates a template into a new project directory and returns
// the path to the created project. The target directory must not exist
// unless opts.Force is set. If writing the tree fails and the directory
// was created by this call, it is removed again.
func Create(opts CreateOptions) (string, error) {
	if opts.Template == nil {
		return "", fmt.Errorf("scaffold: template is required")
	}
	if err := validateProjectName(opts.Name); err != nil {
		return "", err
	}

	parentDir := opts.ParentDir
	if parentDir == "" {
		var err error
		parentDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absParentDir, err := filepath.Abs(parentDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent directory: %w", err)
	}

	target := filepath.Join(absParentDir, opts.Name)

	created := false
	if _, err := os.Stat(target); err == nil {
		if !opts.Force {
			return "", &ProjectExistsError{Path: target}
		}
	} else {
		created = true
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := writeTree(target, opts.Template, opts.Name); err != nil {
		if created {
			_ = os.RemoveAll(target) // Best-effort cleanup on error path
		}

		return "", err
	}

	return target, nil
}

// writeTree materializes the template's directories and files under root,
// expanding placeholders in both paths and contents.
func writeTree(root string, tpl *Template, projectName string) error {
	for _, dir := range tpl.Directories {
		rel := ExpandPlaceholders(dir, projectName)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("template directory %q escapes the project root", dir)
		}
		if err := os.MkdirAll(filepath.Join(root, rel), 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", rel, err)
		}
	}

	// Deterministic write order keeps failures reproducible.
	paths := maps.Keys(tpl.Files)
	slices.Sort(paths)

	for _, p := range paths {
		rel := ExpandPlaceholders(p, projectName)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("template file %q escapes the project root", p)
		}

		abs := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}

		content := ExpandPlaceholders(tpl.Files[p], projectName)
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", rel, err)
		}
	}

	return nil
}

// validateProjectName checks that name is usable as a directory name and
// that the derived package directory name passes package name validation.
func validateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidProjectNameError{Name: name, Cause: fmt.Errorf("must be non-empty")}
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return &InvalidProjectNameError{Name: name, Cause: fmt.Errorf("must be a plain directory name")}
	}
	if err := types.PackageName(PackageDirName(name)).Validate(); err != nil {
		return &InvalidProjectNameError{Name: name, Cause: err}
	}

	return nil
}
