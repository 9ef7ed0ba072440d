// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// RenderSummary walks the project tree under root and renders a markdown
// inventory of its directories and files. Directories whose basename is in
// excludeDirs are skipped, as is the summary file itself so the document
// stays stable across refreshes.
func RenderSummary(root, summaryFile string, excludeDirs []string) (string, error) {
	excluded := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[d] = true
	}

	var dirs, files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded[d.Name()] {
				return fs.SkipDir
			}
			dirs = append(dirs, rel+"/")

			return nil
		}

		if summaryFile != "" && rel == filepath.ToSlash(summaryFile) {
			return nil
		}
		files = append(files, rel)

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk project tree: %w", err)
	}

	slices.Sort(dirs)
	slices.Sort(files)

	var sb strings.Builder
	sb.WriteString("# Project structure\n\n")
	sb.WriteString("Maintained by pyforge. Regenerate with `pyforge doctor --fix-summary`.\n")

	if len(dirs) > 0 {
		sb.WriteString("\n## Directories\n\n")
		for _, d := range dirs {
			sb.WriteString(fmt.Sprintf("- `%s`\n", d))
		}
	}

	if len(files) > 0 {
		sb.WriteString("\n## Files\n\n")
		for _, f := range files {
			sb.WriteString(fmt.Sprintf("- `%s`\n", f))
		}
	}

	return sb.String(), nil
}

// WriteSummary renders the project inventory and writes it to summaryFile
// inside root. An empty summaryFile disables summary generation.
func WriteSummary(root, summaryFile string, excludeDirs []string) error {
	if summaryFile == "" {
		return nil
	}

	content, err := RenderSummary(root, summaryFile, excludeDirs)
	if err != nil {
		return err
	}

	dest := filepath.Join(root, summaryFile)
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", summaryFile, err)
	}

	return nil
}

// SummaryUpToDate reports whether the summary file inside root matches the
// current project inventory. A missing file is stale; an empty summaryFile
// (summaries disabled) is always up to date.
func SummaryUpToDate(root, summaryFile string, excludeDirs []string) (bool, error) {
	if summaryFile == "" {
		return true, nil
	}

	existing, err := os.ReadFile(filepath.Join(root, summaryFile))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read summary %s: %w", summaryFile, err)
	}

	want, err := RenderSummary(root, summaryFile, excludeDirs)
	if err != nil {
		return false, err
	}

	return string(existing) == want, nil
}
