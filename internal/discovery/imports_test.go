// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractModuleRefs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		// Plain import statements
		{name: "empty source", src: "", want: []string{}},
		{name: "single import", src: "import os", want: []string{"os"}},
		{name: "dotted import", src: "import os.path", want: []string{"os.path"}},
		{name: "comma list", src: "import os, sys, requests", want: []string{"os", "sys", "requests"}},
		{name: "aliased import", src: "import numpy as np", want: []string{"numpy"}},
		{name: "aliased comma list", src: "import numpy as np, pandas as pd", want: []string{"numpy", "pandas"}},

		// from-import statements
		{name: "from import", src: "from requests import get", want: []string{"requests"}},
		{name: "dotted from import", src: "from sklearn.svm import SVC", want: []string{"sklearn.svm"}},
		{name: "relative from import", src: "from . import helpers", want: []string{"."}},
		{name: "relative dotted from import", src: "from ..pkg import thing", want: []string{"..pkg"}},
		{name: "parenthesized from import", src: "from collections import (\n    OrderedDict,\n)", want: []string{"collections"}},

		// Placement
		{name: "indented import", src: "def f():\n    import json\n", want: []string{"json"}},
		{name: "multiple lines", src: "import os\nfrom flask import Flask\nimport requests\n", want: []string{"os", "flask", "requests"}},
		{name: "duplicates preserved", src: "import os\nimport os\n", want: []string{"os", "os"}},

		// Comment and docstring masking
		{name: "commented out import", src: "# import requests", want: []string{}},
		{name: "trailing comment kept", src: "import requests  # http client", want: []string{"requests"}},
		{name: "import inside docstring", src: "\"\"\"\nimport fake_module\n\"\"\"\nimport real_module\n", want: []string{"real_module"}},
		{name: "import inside single-quoted docstring", src: "'''\nfrom fake import thing\n'''\n", want: []string{}},

		// Near misses that must not match
		{name: "identifier prefix", src: "important_data = 5", want: []string{}},
		{name: "from without space", src: "fromage = 'cheese'", want: []string{}},
		{name: "import in string assignment", src: "s = 'import requests'", want: []string{}},
		{name: "bare import keyword", src: "import", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := extractModuleRefs(tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractModuleRefs(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestTopLevelName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "plain name", ref: "requests", want: "requests"},
		{name: "dotted path", ref: "sklearn.svm", want: "sklearn"},
		{name: "deeply dotted path", ref: "a.b.c.d", want: "a"},
		{name: "relative dot", ref: ".", want: ""},
		{name: "relative sibling", ref: ".sibling", want: ""},
		{name: "empty", ref: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := topLevelName(tt.ref); got != tt.want {
				t.Errorf("topLevelName(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestStripLineComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "no comment", line: "import os", want: "import os"},
		{name: "full line comment", line: "# import os", want: ""},
		{name: "trailing comment", line: "import os  # stdlib", want: "import os  "},
		{name: "hash in string still truncates", line: "s = 'a#b'", want: "s = 'a"},
		{name: "empty line", line: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := stripLineComment(tt.line); got != tt.want {
				t.Errorf("stripLineComment(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestStripTripleQuoted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "no blocks", src: "import os\n", want: "import os\n"},
		{name: "double-quoted block", src: "\"\"\"doc\"\"\"\nimport os\n", want: "\nimport os\n"},
		{name: "single-quoted block", src: "'''doc'''\nimport os\n", want: "\nimport os\n"},
		{
			name: "multiline block keeps newlines",
			src:  "\"\"\"\nline one\nline two\n\"\"\"\nimport os\n",
			want: "\n\n\n\nimport os\n",
		},
		{
			name: "first delimiter wins",
			src:  "\"\"\" contains ''' inside \"\"\"x",
			want: "x",
		},
		{
			name: "single-quoted block hides double quotes",
			src:  "''' \"\"\" '''y",
			want: "y",
		},
		{name: "unterminated block strips to end", src: "\"\"\"\nimport hidden\n", want: "\n\n"},
		{name: "adjacent blocks", src: "'''a'''\"\"\"b\"\"\"z", want: "z"},
		{name: "empty source", src: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := stripTripleQuoted(tt.src); got != tt.want {
				t.Errorf("stripTripleQuoted(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestStripTripleQuotedPreservesLineCount(t *testing.T) {
	t.Parallel()

	src := "before\n\"\"\"\na\nb\nc\n\"\"\"\nafter\n"

	got := stripTripleQuoted(src)
	if strings.Count(got, "\n") != strings.Count(src, "\n") {
		t.Errorf("newline count changed: got %d, want %d", strings.Count(got, "\n"), strings.Count(src, "\n"))
	}

	if !strings.Contains(got, "before") || !strings.Contains(got, "after") {
		t.Errorf("text outside the block should survive, got %q", got)
	}
}
