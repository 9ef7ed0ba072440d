// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

// packageNamePattern matches the names accepted into a requirements
// manifest: ASCII letters, digits, underscores, and hyphens. Dotted
// module paths must be reduced to their first segment before
// validation.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type (
	// PackageName is the top-level name of an importable Python package
	// (the first dot-segment of a module path, e.g. "sklearn" for
	// "sklearn.linear_model"). The zero value ("") is invalid.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName is empty or
	// contains characters outside [A-Za-z0-9_-].
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	if e.Value == "" {
		return "invalid package name: must be non-empty"
	}
	return fmt.Sprintf("invalid package name %q: only letters, digits, '_' and '-' are allowed", e.Value)
}

// Unwrap returns ErrInvalidPackageName so callers can use errors.Is for
// programmatic detection.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// Validate returns an error if the PackageName is empty or contains
// disallowed characters.
func (n PackageName) Validate() error {
	if !packageNamePattern.MatchString(string(n)) {
		return &InvalidPackageNameError{Value: n}
	}
	return nil
}

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }
