/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package serde

import (
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/tryfix/errors"
)

type AvroUnmarshaler struct {
	schema avro.Schema
	data   []byte
}

// AvroMarshaller encodes and decodes Avro payloads for a single schema
// definition. Fields bind through `avro:"..."` struct tags.
type AvroMarshaller struct {
	schema     string
	avroSchema avro.Schema
}

func NewAvroMarshaller(schema string) *AvroMarshaller {
	return &AvroMarshaller{
		schema: schema,
	}
}

func (s *AvroMarshaller) Init() error {
	schema, err := avro.Parse(s.schema)
	if err != nil {
		return errors.WithPrevious(err, fmt.Sprintf(`schema parsing error for %s`, s.schema))
	}

	s.avroSchema = schema
	return nil
}

func (s *AvroMarshaller) NewUnmarshaler(data []byte) Unmarshaler {
	return &AvroUnmarshaler{
		schema: s.avroSchema,
		data:   data,
	}
}

func (s *AvroUnmarshaler) Unmarshal(in interface{}) error {
	return avro.Unmarshal(s.schema, s.data, in)
}

func (s *AvroMarshaller) Marshall(data interface{}) ([]byte, error) {
	byt, err := avro.Marshal(s.avroSchema, data)
	if err != nil {
		return nil, errors.WithPrevious(err, fmt.Sprintf(`avro marshal failed for %s`, s.schema))
	}

	return byt, nil
}
