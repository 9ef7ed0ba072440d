// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package centralizes platform-specific concerns such as OS name
// constants for runtime.GOOS comparisons and detection of application
// sandboxes (Flatpak, Snap) that constrain filesystem and process access.
package platform
