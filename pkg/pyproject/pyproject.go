// SPDX-License-Identifier: MPL-2.0

// Package pyproject reads the PEP 621 project metadata out of a
// pyproject.toml file, primarily so declared dependencies can be folded
// into manifest reconciliation alongside discovered imports.
package pyproject

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"

	"pyforge/pkg/types"
)

type (
	// Document is the subset of a pyproject.toml file this tool reads.
	Document struct {
		Project Project `toml:"project"`
	}

	// Project mirrors the PEP 621 [project] table.
	Project struct {
		// Name is the distribution name.
		Name string `toml:"name"`
		// Description is the one-line project summary.
		Description string `toml:"description"`
		// RequiresPython is the interpreter constraint, e.g. ">=3.9".
		RequiresPython string `toml:"requires-python"`
		// Dependencies lists PEP 508 requirement strings.
		Dependencies []string `toml:"dependencies"`
		// OptionalDependencies maps extras to their requirement lists.
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	}
)

// Load reads and decodes the pyproject.toml at path. A missing file is
// an error here, unlike a missing requirements manifest: callers only
// load pyproject metadata when explicitly asked to use it, so nothing
// to read means the request cannot be honored.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pyproject file: %w", err)
	}

	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pyproject file: %w", err)
	}

	return &doc, nil
}

// DependencyNames reduces the project's core dependencies to validated
// package names, deduplicated and sorted. Requirement strings whose
// distribution name falls outside the manifest naming policy (dotted
// names, direct URLs) are dropped.
func (p *Project) DependencyNames() []types.PackageName {
	return reduceNames(p.Dependencies)
}

// AllDependencyNames is DependencyNames plus the requirements of every
// optional extra.
func (p *Project) AllDependencyNames() []types.PackageName {
	reqs := make([]string, 0, len(p.Dependencies))
	reqs = append(reqs, p.Dependencies...)

	for _, extra := range p.OptionalDependencies {
		reqs = append(reqs, extra...)
	}

	return reduceNames(reqs)
}

func reduceNames(reqs []string) []types.PackageName {
	seen := make(map[types.PackageName]bool, len(reqs))
	names := make([]types.PackageName, 0, len(reqs))

	for _, req := range reqs {
		name := types.PackageName(distName(req))
		if name.Validate() != nil || seen[name] {
			continue
		}

		seen[name] = true
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// distName cuts a PEP 508 requirement string down to its distribution
// name: everything before the first extras bracket, version operator,
// environment marker, URL reference, parenthesis, or whitespace.
func distName(req string) string {
	req = strings.TrimSpace(req)
	if i := strings.IndexAny(req, "[=<>!~;@( \t"); i >= 0 {
		return req[:i]
	}

	return req
}
