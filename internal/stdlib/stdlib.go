// SPDX-License-Identifier: MPL-2.0

// Package stdlib provides the registry of Python standard-library
// module names used to separate stdlib imports from third-party
// packages during discovery.
//
// The default registry is embedded at build time and loaded once;
// configuration may extend it with additional names, producing a new
// set without mutating the default.
package stdlib

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed modules.txt
var modulesData string

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Set is an immutable membership set of standard-library top-level
// module names. The zero value is not usable; construct via Default,
// New, or Extend.
type Set struct {
	names map[string]struct{}
}

// Default returns the embedded standard-library registry. The set is
// built lazily on first use and shared by all callers; it must never
// be mutated.
func Default() *Set {
	defaultOnce.Do(func() {
		defaultSet = New(parseModules(modulesData)...)
	})
	return defaultSet
}

// New builds a Set from the given module names.
func New(names ...string) *Set {
	s := &Set{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		s.names[name] = struct{}{}
	}
	return s
}

// Contains reports whether name belongs to the standard library.
// Dotted module paths are reduced to their first segment, so
// "os.path" and "os" are equivalent.
func (s *Set) Contains(name string) bool {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	_, ok := s.names[name]
	return ok
}

// Extend returns a new Set containing every name in s plus the given
// extras. The receiver is left untouched.
func (s *Set) Extend(names ...string) *Set {
	out := &Set{names: make(map[string]struct{}, len(s.names)+len(names))}
	for name := range s.names {
		out.names[name] = struct{}{}
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		out.names[name] = struct{}{}
	}
	return out
}

// Len returns the number of names in the set.
func (s *Set) Len() int { return len(s.names) }

// parseModules extracts module names from the embedded data file:
// one name per line, blank lines and '#' comments skipped.
func parseModules(data string) []string {
	lines := strings.Split(data, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}
