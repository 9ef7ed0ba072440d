// SPDX-License-Identifier: MPL-2.0

// Package requirements reads, merges, and writes pip-style requirements
// manifests (one package per line, optional version specifier).
//
// Parsing is tolerant: comments and blank lines vanish, and anything
// else that does not look like an entry is recorded as skipped rather
// than raised. Merging never touches existing entries — a pinned
// version survives any number of reconciliations — and rendering is
// always sorted and newline-terminated so repeated runs produce
// byte-identical files. Writes go through a temp file and a rename; a
// failed save never leaves a half-written manifest behind.
package requirements
