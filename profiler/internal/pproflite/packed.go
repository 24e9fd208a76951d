// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package pproflite

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// DecodePackedVarint decodes a packed length-delimited sequence of varints,
// as produced by a repeated scalar field encoded in packed form. It is the
// caller's job to know, from the field's wire type on the outer message,
// whether a field was sent packed (LengthDelimited) or unpacked (one Varint
// field per repetition); this helper only handles the packed case.
func DecodePackedVarint(data []byte) ([]uint64, error) {
	var out []uint64
	for len(data) > 0 {
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return nil, badVarint()
		}
		out = append(out, v)
		data = data[n:]
	}
	return out, nil
}

// DualScalarAccumulator accumulates a repeated scalar field that may appear
// on the wire as either repeated unpacked Varint fields or a single packed
// LengthDelimited field (profile.proto allows either encoding for
// Sample.location_id, Sample.value, and Profile.comment). Feed it every
// Field seen for the given field number, in order.
type DualScalarAccumulator struct {
	values []uint64
}

// Add folds one Field of the tracked field number into the accumulator.
func (a *DualScalarAccumulator) Add(f Field) error {
	switch f.Type {
	case Varint:
		a.values = append(a.values, f.Uint64)
	case LengthDelimited:
		vs, err := DecodePackedVarint(f.Bytes)
		if err != nil {
			return err
		}
		a.values = append(a.values, vs...)
	default:
		return fmt.Errorf("%w: field %d has unexpected wire type for a repeated scalar", ErrDecodeField, f.Number)
	}
	return nil
}

// Values returns the accumulated scalars in wire order.
func (a *DualScalarAccumulator) Values() []uint64 {
	return a.values
}
