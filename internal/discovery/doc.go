// SPDX-License-Identifier: MPL-2.0

// Package discovery locates the third-party Python packages a project
// depends on by scanning its source tree for import statements.
//
// This package intentionally combines two related concerns:
//   - walking a project tree while honoring the configured directory
//     exclusions (virtualenvs, VCS metadata, caches, build output)
//   - extracting module references from individual source files and
//     reducing them to top-level package names
//
// Both stages feed a single result type, PackageSetResult, which carries
// the discovered names alongside diagnostics for anything that could not
// be read. Scans are resilient past the root precondition: a broken file
// or directory produces a warning diagnostic, never a failed scan.
//
// File organization:
//   - discovery.go: Discovery type, tree walk, stdlib filtering
//   - imports.go: source normalization and import extraction
//   - diagnostic.go: Severity, Diagnostic, and PackageSetResult types
package discovery
