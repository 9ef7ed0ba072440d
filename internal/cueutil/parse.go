// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing and schema validation
// helpers. Callers supply an embedded schema, raw document bytes, and
// the name of the schema definition to validate against; the document
// is unified with the definition and decoded into a Go value.
package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result bundles the decoded value of a successful parse.
type Result[T any] struct {
	// Value is the decoded Go value after schema unification.
	Value T
}

// ParseAndDecode compiles the schema, unifies the document with the
// named definition (e.g. "#Config"), validates the result, and decodes
// it into T. Validation failures include the configured filename so
// users can locate the offending document.
func ParseAndDecode[T any](schema, data []byte, defName string, opts ...Option) (Result[T], error) {
	var result Result[T]

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.filename
	if filename == "" {
		filename = "input.cue"
	}

	if o.maxFileSize > 0 && int64(len(data)) > o.maxFileSize {
		return result, fmt.Errorf("%s exceeds maximum allowed size of %d bytes", filename, o.maxFileSize)
	}

	cctx := cuecontext.New()

	schemaVal := cctx.CompileBytes(schema)
	if err := schemaVal.Err(); err != nil {
		return result, fmt.Errorf("failed to compile schema: %w", err)
	}

	def := schemaVal.LookupPath(cue.ParsePath(defName))
	if !def.Exists() {
		return result, fmt.Errorf("schema definition %s not found", defName)
	}
	if err := def.Err(); err != nil {
		return result, fmt.Errorf("failed to resolve schema definition %s: %w", defName, err)
	}

	docVal := cctx.CompileBytes(data, cue.Filename(filename))
	if err := docVal.Err(); err != nil {
		return result, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	unified := def.Unify(docVal)
	var validateOpts []cue.Option
	if o.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return result, fmt.Errorf("failed to validate %s: %w", filename, err)
	}

	if err := unified.Decode(&result.Value); err != nil {
		return result, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	return result, nil
}
