// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"pyforge/internal/app/reconcile"
	"pyforge/internal/config"
	"pyforge/internal/discovery"
	"pyforge/internal/stdlib"
	"pyforge/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer — all Cobra command handlers receive an App reference and delegate
	// business logic through its service interfaces (Config, Reconciler).
	App struct {
		Config      ConfigProvider
		Reconciler  ReconcileService
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests can supply mock implementations
	// to isolate specific service behavior.
	Dependencies struct {
		Config      ConfigProvider
		Reconciler  ReconcileService
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ReconcileService scans project trees and reconciles discovered imports
	// into the requirements manifest. Implementations must not write directly
	// to stdout/stderr; diagnostics are returned as structured data for the
	// CLI layer to render.
	//
	// Discover filters the standard library out of the result; DiscoverAll
	// keeps every top-level import so callers can do their own separation.
	ReconcileService interface {
		Discover(ctx context.Context, cfg *config.Config, root string) (*discovery.PackageSetResult, error)
		DiscoverAll(ctx context.Context, cfg *config.Config, root string) (*discovery.PackageSetResult, error)
		Reconcile(ctx context.Context, cfg *config.Config, req reconcile.Request) (*reconcile.Result, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	// appReconcileService implements ReconcileService by building a fresh
	// reconciler per call. Reconciler instances are cheap — construction is a
	// struct literal plus a stdlib-registry lookup — so per-call construction
	// keeps every invocation on the caller's config without shared state.
	appReconcileService struct{}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Reconciler == nil {
		deps.Reconciler = &appReconcileService{}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Reconciler:  deps.Reconciler,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// serviceLogger builds the logger handed to services. Quiet by default;
// --verbose switches to debug-level output on stderr.
func serviceLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard)
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(log.DebugLevel)
	logger.SetReportTimestamp(false)
	logger.SetPrefix("pyforge")

	return logger
}

// Discover scans the tree rooted at root for third-party imports.
func (s *appReconcileService) Discover(ctx context.Context, cfg *config.Config, root string) (*discovery.PackageSetResult, error) {
	return reconcile.New(cfg, reconcile.WithLogger(serviceLogger())).Discover(ctx, root)
}

// DiscoverAll scans like Discover but with an empty stdlib registry, so
// standard-library imports appear in the result alongside third-party ones.
func (s *appReconcileService) DiscoverAll(ctx context.Context, cfg *config.Config, root string) (*discovery.PackageSetResult, error) {
	scanner := discovery.New(cfg,
		discovery.WithLogger(serviceLogger()),
		discovery.WithStdlib(stdlib.New()))

	return scanner.DiscoverPackages(ctx, root)
}

// Reconcile merges discovered imports into the manifest per the request.
func (s *appReconcileService) Reconcile(ctx context.Context, cfg *config.Config, req reconcile.Request) (*reconcile.Result, error) {
	return reconcile.New(cfg, reconcile.WithLogger(serviceLogger())).Reconcile(ctx, req)
}

// loadConfigWithFallback loads configuration via the provider. On failure it
// returns defaults with a diagnostic so callers stay operational.
//
// Diagnostic severity depends on the failure mode:
//   - Explicit --config path: always SeverityError (user-specified file must work).
//   - Default path with existing but malformed file: SeverityError (syntax errors
//     in a file the user created should not be silently downgraded to a warning).
//   - Default path with missing config dir or similar infrastructure error:
//     SeverityWarning (common on fresh installs, defaults are appropriate).
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string) (*config.Config, []discovery.Diagnostic) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
	if err == nil {
		return cfg, nil
	}

	// When the user explicitly specified a config path, do not silently fall back
	// to defaults — surface the error as a diagnostic so downstream callers can
	// decide whether to abort.
	if configPath != "" {
		return config.DefaultConfig(), []discovery.Diagnostic{{
			Severity: discovery.SeverityError,
			Code:     discovery.CodeConfigLoadFailed,
			Message:  fmt.Sprintf("failed to load config from %s: %v", configPath, err),
			Path:     configPath,
			Cause:    err,
		}}
	}

	// Default config path: differentiate "file exists but is broken" (syntax error,
	// schema violation) from "cannot determine config dir" (missing HOME, etc.).
	// The config loader only returns errors for existing files; missing files silently
	// return defaults. So if we got an error here, a config file likely exists but
	// is malformed — use SeverityError to surface it clearly.
	severity := discovery.SeverityError
	if errors.Is(err, os.ErrNotExist) {
		severity = discovery.SeverityWarning
	}

	return config.DefaultConfig(), []discovery.Diagnostic{{
		Severity: severity,
		Code:     discovery.CodeConfigLoadFailed,
		Message:  fmt.Sprintf("failed to load config, using defaults: %v", err),
		Cause:    err,
	}}
}

// hasErrorDiagnostic reports whether any diagnostic carries error severity.
func hasErrorDiagnostic(diags []discovery.Diagnostic) bool {
	for _, diag := range diags {
		if diag.Severity == discovery.SeverityError {
			return true
		}
	}

	return false
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
