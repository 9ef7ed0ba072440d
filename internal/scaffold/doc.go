// SPDX-License-Identifier: MPL-2.0

// Package scaffold creates Python project trees from templates.
//
// A template is a CUE document validated against an embedded #Template
// schema: a set of directories, a map of file paths to contents, and an
// optional list of post-create shell commands. The package ships a small
// embedded catalog (minimal, default, full) that user templates placed
// under the configuration directory can override or extend by name.
//
// Paths, contents, and hook commands may use the {name} and {package}
// placeholders, which are replaced at create time with the project name
// and its derived package directory name.
package scaffold
