// SPDX-License-Identifier: MPL-2.0

package requirements

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"pyforge/pkg/types"
)

// ErrPersistFailed is the sentinel error wrapped by PersistError.
var ErrPersistFailed = errors.New("manifest persist failed")

// entryLinePattern matches one manifest entry: a package name optionally
// followed by a version specifier. The specifier is opaque — captured
// verbatim, never reparsed, and written back exactly as it was read.
var entryLinePattern = regexp.MustCompile(`^([A-Za-z0-9_-]+)((?:===|==|>=|<=|~=|!=)\S+)?$`)

type (
	// Entry is one manifest line: a package name with an optional version
	// specifier. "numpy==1.21.0" parses to Name "numpy" and Specifier
	// "==1.21.0"; a bare "requests" has an empty Specifier.
	Entry struct {
		// Name is the package the entry declares.
		Name types.PackageName
		// Specifier is the raw version constraint including its operator,
		// or "" for an unversioned entry.
		Specifier string
	}

	// SkippedLine records a manifest line that did not parse as an entry.
	// Skipped lines are tolerated and reported, never raised as errors,
	// and they are dropped when the manifest is rendered back to disk.
	SkippedLine struct {
		// Number is the 1-based line number in the source content.
		Number int
		// Text is the offending line, trimmed.
		Text string
	}

	// Manifest is a parsed requirements file: a mapping of package name to
	// entry. Entries carry no positional order of their own — rendering is
	// always lexicographic by name.
	Manifest struct {
		// Entries maps package names to their manifest entries.
		Entries map[types.PackageName]Entry
		// Skipped lists lines the parser tolerated but could not use.
		Skipped []SkippedLine
	}

	// PersistError is returned when the manifest could not be written back
	// to disk. It wraps ErrPersistFailed and carries the attempted path.
	PersistError struct {
		// Path is the manifest path the write was aimed at.
		Path string
		// Cause is the underlying filesystem error.
		Cause error
	}
)

// Error implements the error interface.
func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist manifest %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrPersistFailed so callers can use errors.Is for
// programmatic detection.
func (e *PersistError) Unwrap() error { return ErrPersistFailed }

// String renders the entry as a manifest line (without the newline).
func (e Entry) String() string {
	return e.Name.String() + e.Specifier
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Entries: make(map[types.PackageName]Entry)}
}

// Load reads and parses the manifest at the given path. A missing file
// yields an empty manifest, not an error; any other read failure is
// returned to the caller.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}

		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(string(data)), nil
}

// Parse builds a manifest from raw file content. Parsing is tolerant:
// blank lines and "#" comments vanish silently, and any other line that
// does not look like an entry is recorded in Skipped instead of failing
// the parse. When a name appears more than once, the first occurrence
// wins.
func Parse(content string) *Manifest {
	m := NewManifest()

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		match := entryLinePattern.FindStringSubmatch(line)
		if match == nil {
			m.Skipped = append(m.Skipped, SkippedLine{Number: i + 1, Text: line})

			continue
		}

		name := types.PackageName(match[1])
		if _, ok := m.Entries[name]; ok {
			continue
		}

		m.Entries[name] = Entry{Name: name, Specifier: match[2]}
	}

	return m
}

// Has reports whether the manifest contains an entry for name.
func (m *Manifest) Has(name types.PackageName) bool {
	_, ok := m.Entries[name]

	return ok
}

// Get returns the entry for name.
func (m *Manifest) Get(name types.PackageName) (Entry, bool) {
	entry, ok := m.Entries[name]

	return entry, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int { return len(m.Entries) }

// Names returns every entry name in lexicographic order.
func (m *Manifest) Names() []types.PackageName {
	names := maps.Keys(m.Entries)
	slices.Sort(names)

	return names
}

// Missing returns the given names that have no manifest entry yet, in
// lexicographic order. Duplicate input names collapse to one. Callers
// use this to preview a merge without mutating anything.
func (m *Manifest) Missing(names []types.PackageName) []types.PackageName {
	missing := make([]types.PackageName, 0)
	seen := make(map[types.PackageName]bool, len(names))

	for _, name := range names {
		if seen[name] || m.Has(name) {
			continue
		}

		seen[name] = true
		missing = append(missing, name)
	}

	slices.Sort(missing)

	return missing
}

// Merge inserts every name not already present as an unversioned entry
// and returns the added names in lexicographic order. Existing entries —
// version specifiers included — are never touched, so merging the same
// set a second time adds nothing.
func (m *Manifest) Merge(names []types.PackageName) []types.PackageName {
	added := m.Missing(names)
	for _, name := range added {
		m.Entries[name] = Entry{Name: name}
	}

	return added
}

// Set inserts or replaces an entry wholesale. Reconciliation never
// overwrites pins; Set exists for callers that manage entries directly,
// such as an explicit "add this pinned package" command.
func (m *Manifest) Set(entry Entry) {
	m.Entries[entry.Name] = entry
}

// Remove deletes the entry for name, reporting whether it was present.
func (m *Manifest) Remove(name types.PackageName) bool {
	_, ok := m.Entries[name]
	delete(m.Entries, name)

	return ok
}

// Render serializes the manifest: one entry per line, sorted by name,
// every line newline-terminated. An empty manifest renders as empty
// content.
func (m *Manifest) Render() string {
	var sb strings.Builder

	for _, name := range m.Names() {
		sb.WriteString(m.Entries[name].String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Save writes the rendered manifest to path, replacing whatever was
// there. The content lands in a temp file first and moves into place
// via rename, so a failed write leaves either the previous manifest or
// nothing — never a truncated file that still parses.
func (m *Manifest) Save(path string) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &PersistError{Path: path, Cause: err}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(m.Render()), 0o644); err != nil {
		return &PersistError{Path: path, Cause: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup of temp file

		return &PersistError{Path: path, Cause: err}
	}

	return nil
}
