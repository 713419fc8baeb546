package fir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SummarySchema is the JSON schema every persisted Summary must satisfy.
const SummarySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["overview", "keyPoints", "entities", "timeline"],
  "properties": {
    "overview": {"type": "string", "minLength": 1},
    "keyPoints": {"type": "array", "items": {"type": "string"}},
    "entities": {
      "type": "object",
      "required": ["firNumber", "policeStation", "date", "time", "complainant", "accused",
                   "witnesses", "sections", "location", "investigatingOfficer"],
      "properties": {
        "firNumber": {"$ref": "#/definitions/field"},
        "policeStation": {"$ref": "#/definitions/field"},
        "date": {"$ref": "#/definitions/field"},
        "time": {"$ref": "#/definitions/field"},
        "complainant": {"$ref": "#/definitions/field"},
        "accused": {"$ref": "#/definitions/field"},
        "location": {"$ref": "#/definitions/field"},
        "investigatingOfficer": {"$ref": "#/definitions/field"},
        "witnesses": {"type": "array", "items": {"type": "string", "minLength": 1}, "uniqueItems": true},
        "sections": {"type": "array", "items": {"type": "string", "pattern": "^IPC \\d+[A-Z]?$"}, "uniqueItems": true}
      }
    },
    "timeline": {
      "type": "array",
      "maxItems": 1,
      "items": {
        "type": "object",
        "required": ["time", "event"],
        "properties": {
          "time": {"type": "string", "minLength": 1},
          "event": {"type": "string", "minLength": 1}
        }
      }
    }
  },
  "definitions": {
    "field": {"type": "string", "minLength": 1}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("summary.json", bytes.NewReader([]byte(SummarySchema))); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("summary.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateJSON checks encoded summary JSON against SummarySchema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("summary does not match schema: %w", err)
	}
	return nil
}

// ValidateSummary marshals s and validates it against SummarySchema.
func ValidateSummary(s Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return ValidateJSON(b)
}
