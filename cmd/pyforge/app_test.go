// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"pyforge/internal/app/reconcile"
	"pyforge/internal/config"
	"pyforge/internal/discovery"
)

type staticConfigProvider struct {
	cfg *config.Config
	err error
}

func (p *staticConfigProvider) Load(_ context.Context, _ config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}

	return p.cfg, nil
}

// fakeReconcileService returns canned results and records the requests it saw.
type fakeReconcileService struct {
	discoverResult *discovery.PackageSetResult
	discoverErr    error
	reconcileFn    func(req reconcile.Request) (*reconcile.Result, error)
	requests       []reconcile.Request
}

func (s *fakeReconcileService) Discover(_ context.Context, _ *config.Config, _ string) (*discovery.PackageSetResult, error) {
	if s.discoverErr != nil {
		return nil, s.discoverErr
	}

	return s.discoverResult, nil
}

func (s *fakeReconcileService) DiscoverAll(ctx context.Context, cfg *config.Config, root string) (*discovery.PackageSetResult, error) {
	return s.Discover(ctx, cfg, root)
}

func (s *fakeReconcileService) Reconcile(_ context.Context, _ *config.Config, req reconcile.Request) (*reconcile.Result, error) {
	s.requests = append(s.requests, req)

	return s.reconcileFn(req)
}

// newTestApp builds an App around fakes with buffered output streams.
func newTestApp(t *testing.T, deps Dependencies) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps.Stdout = stdout
	deps.Stderr = stderr

	if deps.Config == nil {
		deps.Config = &staticConfigProvider{cfg: config.DefaultConfig()}
	}

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}

	return app, stdout, stderr
}

// runCLI executes the command tree built around app with the given args
// and returns the error from Execute. Command output lands in the
// buffers wired by newTestApp; cobra's own usage printing is discarded.
func runCLI(t *testing.T, app *App, args ...string) error {
	t.Helper()

	root := NewRootCommand(app)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	return root.Execute()
}

func TestNewApp_DefaultsForOmittedDependencies(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}

	if app.Config == nil {
		t.Error("NewApp() should install a default config provider")
	}

	if app.Reconciler == nil {
		t.Error("NewApp() should install a default reconcile service")
	}

	if app.Diagnostics == nil {
		t.Error("NewApp() should install a default diagnostic renderer")
	}

	if app.stdout != os.Stdout || app.stderr != os.Stderr {
		t.Error("NewApp() should default output streams to the process streams")
	}
}

func TestNewApp_PreservesInjectedDependencies(t *testing.T) {
	t.Parallel()

	provider := &staticConfigProvider{cfg: config.DefaultConfig()}
	svc := &fakeReconcileService{}
	stdout := &bytes.Buffer{}

	app, err := NewApp(Dependencies{Config: provider, Reconciler: svc, Stdout: stdout})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}

	if app.Config != provider {
		t.Error("NewApp() replaced the injected config provider")
	}

	if app.Reconciler != svc {
		t.Error("NewApp() replaced the injected reconcile service")
	}

	if app.stdout != stdout {
		t.Error("NewApp() replaced the injected stdout")
	}
}

func TestLoadConfigWithFallback_Success(t *testing.T) {
	t.Parallel()

	want := config.DefaultConfig()

	cfg, diags := loadConfigWithFallback(context.Background(), &staticConfigProvider{cfg: want}, "")
	if cfg != want {
		t.Error("expected the provider's config to pass through")
	}

	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %#v", diags)
	}
}

func TestLoadConfigWithFallback_ExplicitPathFailureIsError(t *testing.T) {
	t.Parallel()

	provider := &staticConfigProvider{err: errors.New("no such file")}

	cfg, diags := loadConfigWithFallback(context.Background(), provider, "custom.cue")
	if cfg == nil {
		t.Fatal("expected fallback defaults, got nil config")
	}

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %#v", diags)
	}

	if diags[0].Severity != discovery.SeverityError {
		t.Errorf("severity = %q, want error", diags[0].Severity)
	}

	if diags[0].Path != "custom.cue" {
		t.Errorf("diagnostic path = %q, want custom.cue", diags[0].Path)
	}

	if !hasErrorDiagnostic(diags) {
		t.Error("hasErrorDiagnostic() should report the explicit-path failure")
	}
}

func TestLoadConfigWithFallback_DefaultPathMalformedFileIsError(t *testing.T) {
	t.Parallel()

	provider := &staticConfigProvider{err: errors.New("schema violation")}

	_, diags := loadConfigWithFallback(context.Background(), provider, "")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %#v", diags)
	}

	if diags[0].Severity != discovery.SeverityError {
		t.Errorf("severity = %q, want error", diags[0].Severity)
	}
}

func TestLoadConfigWithFallback_DefaultPathMissingInfraIsWarning(t *testing.T) {
	t.Parallel()

	provider := &staticConfigProvider{err: fmt.Errorf("resolve config dir: %w", os.ErrNotExist)}

	cfg, diags := loadConfigWithFallback(context.Background(), provider, "")
	if cfg == nil {
		t.Fatal("expected fallback defaults, got nil config")
	}

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %#v", diags)
	}

	if diags[0].Severity != discovery.SeverityWarning {
		t.Errorf("severity = %q, want warning", diags[0].Severity)
	}

	if hasErrorDiagnostic(diags) {
		t.Error("a missing-infrastructure warning should not count as an error")
	}
}

func TestHasErrorDiagnostic(t *testing.T) {
	t.Parallel()

	warn := discovery.Diagnostic{Severity: discovery.SeverityWarning}
	fail := discovery.Diagnostic{Severity: discovery.SeverityError}

	if hasErrorDiagnostic(nil) {
		t.Error("nil diagnostics should report no errors")
	}

	if hasErrorDiagnostic([]discovery.Diagnostic{warn}) {
		t.Error("warnings alone should report no errors")
	}

	if !hasErrorDiagnostic([]discovery.Diagnostic{warn, fail}) {
		t.Error("an error diagnostic should be detected")
	}
}

func TestDefaultDiagnosticRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	renderer := &defaultDiagnosticRenderer{}
	renderer.Render(context.Background(), []discovery.Diagnostic{
		{Severity: discovery.SeverityWarning, Message: "skipped a line", Path: "requirements.txt"},
		{Severity: discovery.SeverityError, Message: "config is broken"},
	}, &buf)

	out := buf.String()

	if !strings.Contains(out, "warning") || !strings.Contains(out, "skipped a line (requirements.txt)") {
		t.Errorf("warning line rendered wrong: %q", out)
	}

	if !strings.Contains(out, "error") || !strings.Contains(out, "config is broken") {
		t.Errorf("error line rendered wrong: %q", out)
	}
}
