/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package schemaregistry

import (
	"encoding/json"

	"github.com/tryfix/kafkaconnect"
)

// Schema is an Avro schema definition supplied either as raw JSON text or as
// a structured document. Both variants are normalized to a single canonical
// JSON encoding before validation and transmission.
type Schema struct {
	text       string
	doc        map[string]interface{}
	structured bool
}

// RawSchema wraps an already JSON-encoded Avro schema definition.
func RawSchema(text string) Schema {
	return Schema{text: text}
}

// StructuredSchema wraps an Avro schema definition built as a document, eg:
//
//	StructuredSchema(map[string]interface{}{
//		`type`: `record`, `name`: `Order`,
//		`fields`: []interface{}{map[string]interface{}{`name`: `id`, `type`: `int`}},
//	})
func StructuredSchema(doc map[string]interface{}) Schema {
	return Schema{doc: doc, structured: true}
}

func (s Schema) empty() bool {
	if s.structured {
		return len(s.doc) == 0
	}

	return s.text == ``
}

// canonical re-encodes either variant so byte-identical schema content always
// submits the same payload regardless of how the caller spelled it.
func (s Schema) canonical() (string, error) {
	if s.structured {
		byt, err := json.Marshal(s.doc)
		if err != nil {
			return ``, &kafkaconnect.SchemaError{Err: err}
		}

		return string(byt), nil
	}

	var v interface{}
	if err := json.Unmarshal([]byte(s.text), &v); err != nil {
		return ``, &kafkaconnect.SchemaError{Err: err}
	}

	byt, err := json.Marshal(v)
	if err != nil {
		return ``, &kafkaconnect.SchemaError{Err: err}
	}

	return string(byt), nil
}
