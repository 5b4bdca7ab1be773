// Package validation wraps JSON Schema compilation and argument checking
// for tool input schemas.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema for a tool's argument object.
type Schema struct {
	compiled *gojsonschema.Schema
}

// Compile builds a Schema from a schema document. A document that does not
// compile is a programming error in the tool definition, surfaced at
// registration time rather than per request.
func Compile(doc map[string]interface{}) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks an argument mapping against the schema and returns nil when
// it conforms. On violation it returns an error carrying the first reported
// problem; callers surface that single message, matching the one-error-at-a-
// time contract of the intake validation rules.
func (s *Schema) Validate(args map[string]interface{}) error {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validate arguments: %w", err)
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	return fmt.Errorf("%s: %s", first.Field(), first.Description())
}
