// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"regexp"
	"strings"
)

// Import statements are recognized with line-anchored patterns after
// normalization. This intentionally trades full grammar awareness for
// predictability: a handful of regular expressions over comment-stripped
// lines covers real-world Python code, while import-like text inside
// ordinary string literals remains a known, documented blind spot.
var (
	// fromLinePattern matches "from <module> import ..." and captures the
	// (possibly dotted) module reference.
	fromLinePattern = regexp.MustCompile(`^from\s+([\w.]+)`)

	// importLinePattern matches "import <list>" and captures the remainder
	// of the line, which may be a comma-separated list with aliases.
	importLinePattern = regexp.MustCompile(`^import\s+(.+)$`)
)

// extractModuleRefs returns every module reference imported by the given
// source text, in order of appearance and with duplicates preserved.
// References keep their dots ("os.path", "sklearn.svm"); relative imports
// yield their leading-dot form and are filtered out downstream.
func extractModuleRefs(src string) []string {
	refs := make([]string, 0)

	for line := range strings.SplitSeq(stripTripleQuoted(src), "\n") {
		line = strings.TrimSpace(stripLineComment(line))

		if m := fromLinePattern.FindStringSubmatch(line); m != nil {
			refs = append(refs, m[1])

			continue
		}

		m := importLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		// "import a, b as c" imports both a and b; the alias never names
		// a module.
		for part := range strings.SplitSeq(m[1], ",") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}

			refs = append(refs, fields[0])
		}
	}

	return refs
}

// topLevelName reduces a dotted module reference to the name that a package
// index would know: the first dot-separated segment. Relative references
// ("." or ".sibling") reduce to the empty string.
func topLevelName(ref string) string {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i]
	}

	return ref
}

// stripLineComment removes a trailing "#" comment from a single line. The
// marker is honored even inside string literals; that imprecision only ever
// hides imports that were already quoted text.
func stripLineComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}

	return line
}

// stripTripleQuoted removes triple-quoted blocks (both `'''` and `"""`
// delimiters) from source text so that import-like lines inside docstrings
// are not mistaken for real imports. Newlines inside removed blocks are
// preserved, keeping the remaining lines intact for per-line parsing.
// Whichever delimiter opens first wins; the other style is inert until the
// block closes. An unterminated block runs to the end of the input.
func stripTripleQuoted(src string) string {
	var sb strings.Builder

	sb.Grow(len(src))

	for i := 0; i < len(src); {
		var delim string

		switch {
		case strings.HasPrefix(src[i:], `"""`):
			delim = `"""`
		case strings.HasPrefix(src[i:], "'''"):
			delim = "'''"
		default:
			sb.WriteByte(src[i])
			i++

			continue
		}

		end := strings.Index(src[i+len(delim):], delim)
		if end < 0 {
			writeNewlines(&sb, src[i:])

			break
		}

		stop := i + len(delim) + end + len(delim)
		writeNewlines(&sb, src[i:stop])
		i = stop
	}

	return sb.String()
}

func writeNewlines(sb *strings.Builder, s string) {
	for i := range len(s) {
		if s[i] == '\n' {
			sb.WriteByte('\n')
		}
	}
}
