// SPDX-License-Identifier: MPL-2.0

package reconcile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pyforge/internal/config"
	"pyforge/internal/discovery"
	"pyforge/pkg/requirements"
	"pyforge/pkg/types"
)

// CodeManifestLineSkipped is the diagnostic code for manifest lines the
// tolerant parser could not use.
const CodeManifestLineSkipped = "manifest_line_skipped"

type (
	// Reconciler runs the scan-merge-persist pipeline: discover the
	// packages a project imports, fold them into its requirements
	// manifest, and write the result back.
	Reconciler struct {
		cfg    *config.Config
		disc   *discovery.Discovery
		logger *log.Logger
	}

	// Option customizes a Reconciler instance.
	Option func(*Reconciler)

	// Request describes one reconciliation run.
	Request struct {
		// Root is the project directory to scan. It must exist and be a
		// directory; discovery enforces the precondition.
		Root string
		// ManifestPath overrides the manifest location. Empty means the
		// configured manifest name resolved under Root.
		ManifestPath string
		// ExtraNames are merged alongside the discovered imports, e.g.
		// dependencies declared in pyproject.toml.
		ExtraNames []types.PackageName
		// DryRun computes the full result without touching the manifest
		// file. Callers can persist later via Result.Manifest.Save.
		DryRun bool
	}

	// Result is the outcome of a reconciliation run.
	Result struct {
		// Added lists the names merged into the manifest by this run, in
		// lexicographic order. Empty means the manifest already covered
		// every discovered package.
		Added []types.PackageName
		// Manifest is the post-merge manifest.
		Manifest *requirements.Manifest
		// ManifestPath is the resolved path the manifest was written to
		// (or would be, for a dry run).
		ManifestPath string
		// FilesScanned counts the source files the scan parsed.
		FilesScanned int
		// Diagnostics aggregates scan warnings and skipped manifest lines.
		Diagnostics []discovery.Diagnostic
	}
)

// WithLogger sets the logger used for pipeline progress. The default
// discards all output. When no WithDiscovery override is given, the
// scanner built by New shares this logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDiscovery overrides the scanner. Mostly useful in tests.
func WithDiscovery(disc *discovery.Discovery) Option {
	return func(r *Reconciler) {
		r.disc = disc
	}
}

// New creates a Reconciler backed by the given configuration. A nil cfg
// falls back to config.DefaultConfig().
func New(cfg *config.Config, opts ...Option) *Reconciler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	r := &Reconciler{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.disc == nil {
		r.disc = discovery.New(cfg, discovery.WithLogger(r.logger))
	}

	return r
}

// Discover scans the project tree without touching the manifest. It is
// the read-only half of the pipeline, exposed for "what does this
// project import" queries.
func (r *Reconciler) Discover(ctx context.Context, root string) (*discovery.PackageSetResult, error) {
	return r.disc.DiscoverPackages(ctx, root)
}

// Reconcile discovers the project's imports, merges them (plus any
// ExtraNames) into the manifest, and persists the merged manifest
// unless the request is a dry run. The written file is always the full
// sorted rendering — existing pins survive, stale duplicates do not.
//
// Failures split three ways: a bad root or an unreadable existing
// manifest aborts before any mutation; per-file scan problems and
// unparseable manifest lines degrade to diagnostics on the result; a
// failed write surfaces as a requirements.PersistError.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (*Result, error) {
	scan, err := r.disc.DiscoverPackages(ctx, req.Root)
	if err != nil {
		return nil, err
	}

	manifestPath := r.resolveManifestPath(req)

	manifest, err := requirements.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cannot reconcile %s: %w", manifestPath, err)
	}

	result := &Result{
		Manifest:     manifest,
		ManifestPath: manifestPath,
		FilesScanned: scan.FilesScanned,
		Diagnostics:  scan.Diagnostics,
	}

	for _, skipped := range manifest.Skipped {
		result.Diagnostics = append(result.Diagnostics, discovery.Diagnostic{
			Severity: discovery.SeverityWarning,
			Code:     CodeManifestLineSkipped,
			Message:  fmt.Sprintf("skipped unrecognized manifest line %d: %q", skipped.Number, skipped.Text),
			Path:     manifestPath,
		})
	}

	names := make([]types.PackageName, 0, len(scan.Packages)+len(req.ExtraNames))
	names = append(names, scan.Packages...)
	names = append(names, req.ExtraNames...)

	result.Added = manifest.Merge(names)

	r.logger.Debug("reconciled manifest",
		"manifest", manifestPath,
		"scanned", result.FilesScanned,
		"added", len(result.Added),
		"dry_run", req.DryRun)

	if req.DryRun {
		return result, nil
	}

	if err := manifest.Save(manifestPath); err != nil {
		return nil, err
	}

	return result, nil
}

// resolveManifestPath applies the manifest location default: an explicit
// request path wins, otherwise the configured name under the root.
func (r *Reconciler) resolveManifestPath(req Request) string {
	if req.ManifestPath != "" {
		return req.ManifestPath
	}

	return filepath.Join(req.Root, r.cfg.ManifestName.String())
}
