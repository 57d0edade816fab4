package partition

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchema reports an exported record that does not match the record schema.
var ErrSchema = errors.New("record does not match partition schema")

const schemaURL = "partition.json"

// recordSchema describes every shape Export can produce.
const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "#/$defs/record",
  "$defs": {
    "records": {"type": "array", "items": {"$ref": "#/$defs/record"}},
    "record": {
      "type": "object",
      "required": ["type"],
      "oneOf": [
        {
          "properties": {
            "type": {"enum": ["h1", "h2", "h3", "h4", "h5", "h6"]},
            "value": {"type": "string"}
          },
          "required": ["value"],
          "additionalProperties": false
        },
        {
          "properties": {
            "type": {"enum": ["p", "text", "bold", "italics", "quotes"]},
            "value": {"type": "string"},
            "partitions": {"$ref": "#/$defs/records"}
          },
          "not": {"required": ["value", "partitions"]},
          "additionalProperties": false
        },
        {
          "properties": {
            "type": {"const": "link"},
            "value": {"type": "string"},
            "link": {"type": "string"}
          },
          "required": ["value", "link"],
          "additionalProperties": false
        },
        {
          "properties": {
            "type": {"const": "relation"},
            "value": {"type": "string"},
            "relation": {"type": "string"}
          },
          "required": ["value", "relation"],
          "additionalProperties": false
        },
        {
          "properties": {
            "type": {"const": "color"},
            "value": {"type": "string"},
            "color": {"type": "string"}
          },
          "required": ["value", "color"],
          "additionalProperties": false
        },
        {
          "properties": {
            "type": {"enum": ["ul", "ol"]},
            "items": {"$ref": "#/$defs/records"}
          },
          "required": ["items"],
          "additionalProperties": false
        },
        {
          "properties": {
            "type": {"const": "image"},
            "altText": {"type": "string"},
            "link": {"type": "string"}
          },
          "required": ["altText", "link"],
          "additionalProperties": false
        },
        {
          "properties": {"type": {"const": "hr"}},
          "additionalProperties": false
        }
      ]
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(recordSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateRecord checks rec, and every record nested in it, against the
// exported record schema.
func ValidateRecord(rec Record) error {
	return validate(rec)
}

// ValidateRecords checks each record in recs.
func ValidateRecords(recs []Record) error {
	for i, rec := range recs {
		if err := validate(rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func validate(rec Record) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	// The validator only understands values produced by encoding/json.
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
