// Package schema validates raw event lines against the JSON schema of
// the test lifecycle event stream.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// eventSchema describes one line of the event stream: an envelope with a
// type tag and a data payload. Unknown extra fields are allowed so newer
// runners stay compatible.
const eventSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Test lifecycle event",
  "type": "object",
  "required": ["type", "data"],
  "properties": {
    "type": {
      "type": "string",
      "enum": [
        "test:enqueue",
        "test:start",
        "test:pass",
        "test:fail",
        "test:diagnostic",
        "test:stdout",
        "test:stderr",
        "test:summary"
      ]
    },
    "data": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "nesting": {"type": "integer", "minimum": 0},
        "file": {"type": "string"},
        "line": {"type": "integer"},
        "column": {"type": "integer"},
        "message": {"type": "string"},
        "success": {"type": "boolean"},
        "counts": {
          "type": "object",
          "additionalProperties": {"type": "number"}
        },
        "details": {
          "type": "object",
          "properties": {
            "duration_ms": {"type": "number"},
            "error": {"$ref": "#/definitions/errorObject"}
          }
        },
        "todo": {"type": ["boolean", "string"]},
        "skip": {"type": ["boolean", "string"]}
      }
    }
  },
  "definitions": {
    "errorObject": {
      "type": "object",
      "properties": {
        "message": {"type": "string"},
        "code": {"type": "string"},
        "failureType": {"type": "string"},
        "stack": {"type": "string"},
        "cause": {
          "anyOf": [
            {"$ref": "#/definitions/errorObject"},
            {"type": "string"}
          ]
        }
      }
    }
  }
}`

// Validator checks event lines against the embedded schema. The schema is
// compiled once; a Validator is safe for reuse across lines.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the event schema.
func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile event schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// ValidateLine checks one raw event line. It returns nil when the line is
// a schema-conformant event.
func (v *Validator) ValidateLine(line []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return fmt.Errorf("not a JSON document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
}
