// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package pproflite implements a minimal, schema-free reader for the
// protocol-buffer wire format used by profile.proto. It knows nothing about
// Profile, Sample, Mapping, or any other pprof message: it only knows how to
// walk a byte buffer and hand back one (field number, wire type, value)
// triple at a time, recursing into length-delimited sub-messages on request.
package pproflite

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// WireType is one of the four wire types the profile.proto subset of
// protobuf uses.
type WireType int8

const (
	Varint          WireType = 0
	Fixed64         WireType = 1
	LengthDelimited WireType = 2
	Fixed32         WireType = 5
)

// Field is one decoded (tag, wiretype, value) triple. For Varint and
// Fixed64/Fixed32 fields, Uint64 carries the value. For LengthDelimited
// fields, Bytes carries the raw payload (the caller decides whether it is a
// nested message, a string, or a packed repeated scalar).
type Field struct {
	Number int
	Type   WireType
	Uint64 uint64
	Bytes  []byte
}

// Decoder walks a byte buffer field-by-field.
type Decoder struct {
	data []byte
}

// NewDecoder returns a Decoder over data. The Decoder does not take
// ownership of data past the lifetime of the FieldEach call: callers must
// not rely on Bytes outliving a subsequent mutation of the input slice they
// supplied, but the Decoder itself never mutates it.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// FieldEach calls f once per top-level field remaining in the buffer, in
// wire order, until the buffer is exhausted or f returns an error. It does
// not recurse into length-delimited fields; callers that need to decode a
// nested message construct a new Decoder over Field.Bytes and call FieldEach
// on it.
func (d *Decoder) FieldEach(f func(Field) error) error {
	for len(d.data) > 0 {
		field, rest, err := d.next()
		if err != nil {
			return err
		}
		d.data = rest
		if err := f(field); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether every byte of the buffer has been consumed.
func (d *Decoder) Empty() bool {
	return len(d.data) == 0
}

func (d *Decoder) next() (Field, []byte, error) {
	tag, n := protowire.ConsumeTag(d.data)
	if n < 0 {
		return Field{}, nil, badVarint()
	}
	number := int(tag.Number())
	wt := WireType(tag.Type())
	rest := d.data[n:]

	switch wt {
	case Varint:
		v, n := protowire.ConsumeVarint(rest)
		if n < 0 {
			return Field{}, nil, badVarint()
		}
		return Field{Number: number, Type: wt, Uint64: v}, rest[n:], nil
	case Fixed64:
		v, n := protowire.ConsumeFixed64(rest)
		if n < 0 {
			return Field{}, nil, fmt.Errorf("%w: truncated fixed64", ErrDecodeField)
		}
		return Field{Number: number, Type: wt, Uint64: v}, rest[n:], nil
	case Fixed32:
		v, n := protowire.ConsumeFixed32(rest)
		if n < 0 {
			return Field{}, nil, fmt.Errorf("%w: truncated fixed32", ErrDecodeField)
		}
		return Field{Number: number, Type: wt, Uint64: uint64(v)}, rest[n:], nil
	case LengthDelimited:
		b, n := protowire.ConsumeBytes(rest)
		if n < 0 {
			return Field{}, nil, fmt.Errorf("%w: length prefix exceeds remaining input", ErrTooMuchData)
		}
		return Field{Number: number, Type: wt, Bytes: b}, rest[n:], nil
	default:
		return Field{}, nil, fmt.Errorf("%w: unknown wire type %d on field %d", ErrDecodeField, wt, number)
	}
}

func badVarint() error {
	return fmt.Errorf("%w: varint overrun", ErrBadVarint)
}
