// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from a project-local pyforge.cue in the working directory
// when present, otherwise from ~/.config/pyforge/config.cue (or XDG equivalent on
// Linux, ~/Library/Application Support/pyforge/config.cue on macOS,
// %APPDATA%\pyforge\config.cue on Windows). Environment variables prefixed with
// PYFORGE_ override file values. The package provides type-safe configuration
// access covering scan behavior (source suffix, exclusion lists, extra stdlib
// names), manifest location, scaffold template selection, UI settings, and
// post-create hook execution.
//
// Configuration validation is performed against a CUE schema (config_schema.cue)
// to ensure type safety and provide clear error messages for invalid configurations.
package config
