// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"pyforge/internal/config"
	"pyforge/internal/stdlib"
	"pyforge/pkg/types"
)

// ErrInvalidRoot is the sentinel error wrapped by RootError.
var ErrInvalidRoot = errors.New("invalid project root")

type (
	// Discovery scans a project tree for Python import statements and
	// reduces them to the set of third-party package names the project
	// depends on. Instances are cheap and safe for concurrent use.
	Discovery struct {
		cfg    *config.Config
		std    *stdlib.Set
		logger *log.Logger
	}

	// Option customizes a Discovery instance.
	Option func(*Discovery)

	// RootError is returned when the scan root does not exist or is not a
	// directory. It wraps ErrInvalidRoot.
	RootError struct {
		// Root is the path that was rejected.
		Root string
		// Cause is the underlying stat error, or nil when the path exists
		// but is not a directory.
		Cause error
	}
)

// Error implements the error interface.
func (e *RootError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid project root %q: %v", e.Root, e.Cause)
	}

	return fmt.Sprintf("invalid project root %q: not a directory", e.Root)
}

// Unwrap returns ErrInvalidRoot so callers can use errors.Is for
// programmatic detection.
func (e *RootError) Unwrap() error { return ErrInvalidRoot }

// WithLogger sets the logger used for scan progress. The default discards
// all output.
func WithLogger(logger *log.Logger) Option {
	return func(d *Discovery) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithStdlib overrides the standard-library registry used to separate
// stdlib imports from third-party packages. Mostly useful in tests; the
// default is stdlib.Default() extended with the configured extra names.
func WithStdlib(set *stdlib.Set) Option {
	return func(d *Discovery) {
		d.std = set
	}
}

// New creates a Discovery instance backed by the given configuration.
// A nil cfg falls back to config.DefaultConfig().
func New(cfg *config.Config, opts ...Option) *Discovery {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	d := &Discovery{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.std == nil {
		std := stdlib.Default()
		if extras := cfg.ExtraStdlibNames(); len(extras) > 0 {
			std = std.Extend(extras...)
		}

		d.std = std
	}

	return d
}

// DiscoverPackages walks the project tree rooted at root and returns the
// deduplicated, sorted set of third-party package names imported by its
// source files, together with diagnostics for anything that could not be
// read along the way.
//
// The root must exist and be a directory; anything else is a fatal
// RootError. Past that precondition the scan is resilient: unreadable
// files and directories become warning diagnostics and the walk moves on.
// Directories whose basename matches the configured exclude list are
// skipped entirely, except for the root itself — scanning a directory
// that happens to be named like a virtualenv is explicit intent.
func (d *Discovery) DiscoverPackages(ctx context.Context, root string) (*PackageSetResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &RootError{Root: root, Cause: err}
	}

	if !info.IsDir() {
		return nil, &RootError{Root: root}
	}

	excluded := make(map[string]bool)
	for _, dir := range d.cfg.EffectiveExcludeDirs() {
		excluded[dir] = true
	}

	suffix := d.cfg.SourceSuffix.String()
	seen := make(map[types.PackageName]bool)
	result := &PackageSetResult{Diagnostics: make([]Diagnostic, 0)}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeDirUnreadable,
				Message:  fmt.Sprintf("failed to read directory %s: %v", path, err),
				Path:     path,
				Cause:    err,
			})

			return nil
		}

		if entry.IsDir() {
			if path != root && excluded[entry.Name()] {
				return fs.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(entry.Name(), suffix) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeFileUnreadable,
				Message:  fmt.Sprintf("failed to read source file %s: %v", path, err),
				Path:     path,
				Cause:    err,
			})

			return nil
		}

		result.FilesScanned++

		for _, ref := range extractModuleRefs(string(data)) {
			name := types.PackageName(topLevelName(ref))
			// Relative imports reduce to "" and fail validation here.
			if name.Validate() != nil {
				continue
			}

			if d.std.Contains(name.String()) {
				continue
			}

			if !seen[name] {
				seen[name] = true

				d.logger.Debug("discovered package", "name", name, "file", path)
			}
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan of %s aborted: %w", root, walkErr)
	}

	names := maps.Keys(seen)
	slices.Sort(names)
	result.Packages = names

	d.logger.Debug("scan complete",
		"root", root,
		"files", result.FilesScanned,
		"packages", len(result.Packages))

	return result, nil
}
