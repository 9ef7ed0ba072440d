// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"pyforge/pkg/types"
)

type (
	// Severity indicates how serious a diagnostic is.
	Severity string

	// Diagnostic describes a non-fatal problem encountered while scanning a
	// project tree. Diagnostics are collected and returned to the caller
	// rather than printed, so that the CLI layer can decide how to render
	// them (stderr, JSON output, log files, etc).
	Diagnostic struct {
		// Severity indicates how serious the issue is.
		Severity Severity
		// Code is a stable, machine-readable identifier for the kind of
		// issue (e.g. "source_file_unreadable").
		Code string
		// Message is a human-readable description of the issue.
		Message string
		// Path is the filesystem path the diagnostic refers to, when known.
		Path string
		// Cause is the underlying error, if any.
		Cause error
	}

	// PackageSetResult bundles the outcome of a project scan: the imported
	// third-party package names together with any diagnostics produced
	// along the way.
	PackageSetResult struct {
		// Packages holds the discovered package names, deduplicated and
		// sorted lexicographically.
		Packages []types.PackageName
		// Diagnostics lists non-fatal issues encountered during the scan.
		Diagnostics []Diagnostic
		// FilesScanned counts the source files whose contents were parsed.
		FilesScanned int
	}
)

const (
	// SeverityWarning indicates a recoverable issue; the scan continued.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a serious issue with a specific input; the
	// scan continued but results may be incomplete.
	SeverityError Severity = "error"
)

// Diagnostic codes emitted by this package.
const (
	// CodeDirUnreadable is reported when a directory cannot be listed.
	CodeDirUnreadable = "source_dir_unreadable"
	// CodeFileUnreadable is reported when a source file cannot be read.
	CodeFileUnreadable = "source_file_unreadable"
	// CodeConfigLoadFailed is reported by callers that fall back to default
	// configuration after a failed load.
	CodeConfigLoadFailed = "config_load_failed"
)

// HasErrors reports whether any diagnostic carries SeverityError.
func (r *PackageSetResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Has reports whether the result contains the given package name.
func (r *PackageSetResult) Has(name types.PackageName) bool {
	for _, pkg := range r.Packages {
		if pkg == name {
			return true
		}
	}

	return false
}
