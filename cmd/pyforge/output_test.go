// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    outputFormat
		wantErr bool
	}{
		{"text", "text", outputText, false},
		{"json", "json", outputJSON, false},
		{"yaml", "yaml", outputYAML, false},
		{"unknown", "xml", "", true},
		{"empty", "", "", true},
		{"case sensitive", "JSON", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseOutputFormat(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseOutputFormat(%q) should fail", tt.value)
				}

				return
			}

			if err != nil {
				t.Fatalf("parseOutputFormat(%q) returned error: %v", tt.value, err)
			}

			if got != tt.want {
				t.Errorf("parseOutputFormat(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderStructured_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report := syncReport{Root: ".", Manifest: "requirements.txt", FilesScanned: 3, Added: []string{"flask"}}
	if err := renderStructured(&buf, outputJSON, report); err != nil {
		t.Fatalf("renderStructured() returned error: %v", err)
	}

	var decoded syncReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Manifest != "requirements.txt" || decoded.FilesScanned != 3 {
		t.Errorf("decoded report = %+v", decoded)
	}

	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("JSON output should end with a newline")
	}
}

func TestRenderStructured_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report := scanReport{Root: ".", FilesScanned: 2, Packages: []string{"requests", "sklearn"}}
	if err := renderStructured(&buf, outputYAML, report); err != nil {
		t.Fatalf("renderStructured() returned error: %v", err)
	}

	var decoded scanReport
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}

	if len(decoded.Packages) != 2 || decoded.Packages[0] != "requests" {
		t.Errorf("decoded report = %+v", decoded)
	}
}

func TestRenderStructured_RejectsText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	if err := renderStructured(&buf, outputText, struct{}{}); err == nil {
		t.Fatal("renderStructured() should reject the text format")
	}
}
