/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package serde

import (
	"encoding/binary"
	"fmt"

	"github.com/tryfix/errors"
)

// Encoder pairs one registered subject version with its Marshaller and can
// encode and decode wire-framed messages.
type Encoder struct {
	subject    *Subject
	serde      *Serde
	marshaller Marshaller
}

func newEncoder(serde *Serde, subject *Subject, marshaller Marshaller) *Encoder {
	return &Encoder{
		subject:    subject,
		serde:      serde,
		marshaller: marshaller,
	}
}

// Encode returns a byte slice with the encoded message. The magic byte and
// schema id are prepended to its beginning
//
//	╔════════════════════╤════════════════════╤═════════════════╗
//	║ magic byte(1 byte) │ schema id(4 bytes) │ encoded message ║
//	╚════════════════════╧════════════════════╧═════════════════╝
func (e *Encoder) Encode(data interface{}) ([]byte, error) {
	byt, err := e.marshaller.Marshall(data)
	if err != nil {
		return nil, errors.WithPrevious(err, fmt.Sprintf(`encode failed for schema [%d]`, e.subject.Id))
	}

	return append(encodePrefix(e.subject.Id), byt...), nil
}

// Decode resolves the schema id embedded in data and returns the decoded go
// value produced by the UnmarshalerFunc registered for that schema.
func (e *Encoder) Decode(data []byte) (interface{}, error) {
	if len(data) < 5 {
		return nil, errors.New(`message is shorter than the wire prefix`)
	}

	id := decodePrefix(data)

	encoder, ok := e.serde.encoderByID(id)
	if !ok {
		return nil, errors.New(fmt.Sprintf(`schema id [%d] is not registered`, id))
	}

	if encoder.subject.UnmarshalerFunc == nil {
		return nil, errors.New(fmt.Sprintf(`unmarshaler does not exist for schema id [%d]`, id))
	}

	return encoder.subject.UnmarshalerFunc(encoder.marshaller.NewUnmarshaler(data[5:]))
}

// Schema returns the schema definition associated with the Encoder
func (e *Encoder) Schema() string {
	return e.subject.Schema
}

// GenericEncoder is a decode-only Encoder, the schema is resolved from the
// id embedded in each message.
type GenericEncoder struct {
	*Encoder
}

func (e *GenericEncoder) Encode(data interface{}) ([]byte, error) {
	panic(`serde: generic encoder does not support encoding of messages`)
}

// Schema returns the schema definition associated with the Encoder
func (e *GenericEncoder) Schema() string {
	return `generic`
}

func encodePrefix(id int) []byte {
	byt := make([]byte, 5)
	binary.BigEndian.PutUint32(byt[1:], uint32(id))
	return byt
}

func decodePrefix(byt []byte) int {
	return int(binary.BigEndian.Uint32(byt[1:5]))
}
