// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// outputFormat selects how commands with an --output flag serialize their
// result: human-readable text, JSON, or YAML.
type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

// parseOutputFormat validates an --output flag value.
func parseOutputFormat(value string) (outputFormat, error) {
	switch outputFormat(value) {
	case outputText, outputJSON, outputYAML:
		return outputFormat(value), nil
	default:
		return "", fmt.Errorf("invalid output format %q (valid: text, json, yaml)", value)
	}
}

// renderStructured writes v to w in the requested machine-readable format.
// Callers handle outputText themselves; asking for it here is a bug.
func renderStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}

		_, _ = fmt.Fprintln(w, string(data))

		return nil
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML output: %w", err)
		}

		_, _ = fmt.Fprint(w, string(data))

		return nil
	default:
		return fmt.Errorf("renderStructured called with format %q", format)
	}
}
