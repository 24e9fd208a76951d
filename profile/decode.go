// Copyright 2014 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package profile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/rustatian/rock/internal/log"
	"github.com/rustatian/rock/profiler/internal/pproflite"
)

// field tags, fixed by the profile.proto schema.
const (
	tagProfileSampleType        = 1
	tagProfileSample            = 2
	tagProfileMapping           = 3
	tagProfileLocation          = 4
	tagProfileFunction          = 5
	tagProfileStringTable       = 6
	tagProfileDropFrames        = 7
	tagProfileKeepFrames        = 8
	tagProfileTimeNanos         = 9
	tagProfileDurationNanos     = 10
	tagProfilePeriodType        = 11
	tagProfilePeriod            = 12
	tagProfileComment           = 13
	tagProfileDefaultSampleType = 14

	tagValueTypeType = 1
	tagValueTypeUnit = 2

	tagSampleLocation = 1
	tagSampleValue    = 2
	tagSampleLabel    = 3

	tagLabelKey     = 1
	tagLabelStr     = 2
	tagLabelNum     = 3
	tagLabelNumUnit = 4

	tagMappingID              = 1
	tagMappingStart           = 2
	tagMappingLimit           = 3
	tagMappingOffset          = 4
	tagMappingFilename        = 5
	tagMappingBuildID         = 6
	tagMappingHasFunctions    = 7
	tagMappingHasFilenames    = 8
	tagMappingHasLineNumbers  = 9
	tagMappingHasInlineFrames = 10

	tagLocationID        = 1
	tagLocationMappingID = 2
	tagLocationAddress   = 3
	tagLocationLine      = 4
	tagLocationIsFolded  = 5

	tagLineFunctionID = 1
	tagLineLine       = 2

	tagFunctionID         = 1
	tagFunctionName       = 2
	tagFunctionSystemName = 3
	tagFunctionFilename   = 4
	tagFunctionStartLine  = 5
)

// Decode decodes a whole-buffer pprof profile: it transparently inflates a
// gzip-compressed input, decodes the protobuf wire format into a flat
// Profile, resolves every string-table and id cross-reference (linking),
// and validates the result. It never returns a partial Profile: any failure
// in any stage returns a nil Profile and a non-nil *Error.
func Decode(data []byte) (*Profile, error) {
	raw, err := maybeUncompress(data)
	if err != nil {
		return nil, err
	}

	p, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}

	if err := p.link(); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func maybeUncompress(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	log.Warn("decode: input is gzip-compressed, inflating before decode")
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, uncompressFailed(err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, uncompressFailed(err)
	}
	return out, nil
}

func decodeProfile(data []byte) (*Profile, error) {
	p := &Profile{}
	var (
		sawTimeNanos    bool
		commentAcc      pproflite.DualScalarAccumulator
		stringTableSeen int
	)

	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagProfileSampleType:
			vt, err := decodeValueType(f.Bytes)
			if err != nil {
				return err
			}
			p.SampleType = append(p.SampleType, vt)
		case tagProfileSample:
			s, err := decodeSample(f.Bytes)
			if err != nil {
				return err
			}
			p.Sample = append(p.Sample, s)
		case tagProfileMapping:
			m, err := decodeMapping(f.Bytes)
			if err != nil {
				return err
			}
			p.Mapping = append(p.Mapping, m)
		case tagProfileLocation:
			l, err := decodeLocation(f.Bytes)
			if err != nil {
				return err
			}
			p.Location = append(p.Location, l)
		case tagProfileFunction:
			fn, err := decodeFunction(f.Bytes)
			if err != nil {
				return err
			}
			p.Function = append(p.Function, fn)
		case tagProfileStringTable:
			s := string(f.Bytes)
			if stringTableSeen == 0 && s != "" {
				return decodeFieldFailed(fmt.Errorf("string table entry 0 must be empty, got %q", s))
			}
			stringTableSeen++
			p.stringTable = append(p.stringTable, s)
		case tagProfileDropFrames:
			p.dropFramesX = int64(f.Uint64)
		case tagProfileKeepFrames:
			p.keepFramesX = int64(f.Uint64)
		case tagProfileTimeNanos:
			if sawTimeNanos {
				return decodeFieldFailed(fmt.Errorf("concatenated profiles detected"))
			}
			sawTimeNanos = true
			p.TimeNanos = int64(f.Uint64)
		case tagProfileDurationNanos:
			p.DurationNanos = int64(f.Uint64)
		case tagProfilePeriodType:
			vt, err := decodeValueType(f.Bytes)
			if err != nil {
				return err
			}
			p.PeriodType = vt
		case tagProfilePeriod:
			p.Period = int64(f.Uint64)
		case tagProfileComment:
			if err := commentAcc.Add(f); err != nil {
				return decodeFieldFailed(err)
			}
		case tagProfileDefaultSampleType:
			p.defaultSampleTypeX = int64(f.Uint64)
		default:
			// unknown field of known wire type: skipped, per the
			// profile.proto evolution convention.
			log.Warn("decode: skipping unknown profile field %d", f.Number)
		}
		return nil
	})
	if err != nil {
		return nil, asDecodeFieldFailed(err)
	}

	for _, v := range commentAcc.Values() {
		p.commentX = append(p.commentX, int64(v))
	}

	if len(p.stringTable) == 0 {
		p.stringTable = []string{""}
	}

	return p, nil
}

// asDecodeFieldFailed wraps err as a DecodeFieldFailed Error unless it is
// already one (decodeProfile's field callback constructs *Error directly for
// schema-violation cases, e.g. the concatenated-profiles check above).
func asDecodeFieldFailed(err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return decodeFieldFailed(err)
}

func decodeValueType(data []byte) (*ValueType, error) {
	vt := &ValueType{}
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagValueTypeType:
			vt.typeX = int64(f.Uint64)
		case tagValueTypeUnit:
			vt.unitX = int64(f.Uint64)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vt, nil
}

func decodeFunction(data []byte) (*Function, error) {
	fn := &Function{}
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagFunctionID:
			fn.ID = f.Uint64
		case tagFunctionName:
			fn.nameX = int64(f.Uint64)
		case tagFunctionSystemName:
			fn.systemNameX = int64(f.Uint64)
		case tagFunctionFilename:
			fn.filenameX = int64(f.Uint64)
		case tagFunctionStartLine:
			fn.StartLine = int64(f.Uint64)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func decodeLine(data []byte) (Line, error) {
	var ln Line
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagLineFunctionID:
			ln.functionIDX = f.Uint64
		case tagLineLine:
			ln.Line = int64(f.Uint64)
		}
		return nil
	})
	if err != nil {
		return Line{}, err
	}
	return ln, nil
}

func decodeLocation(data []byte) (*Location, error) {
	l := &Location{}
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagLocationID:
			l.ID = f.Uint64
		case tagLocationMappingID:
			l.mappingIDX = f.Uint64
		case tagLocationAddress:
			l.Address = f.Uint64
		case tagLocationLine:
			ln, err := decodeLine(f.Bytes)
			if err != nil {
				return err
			}
			l.Line = append(l.Line, ln)
		case tagLocationIsFolded:
			l.IsFolded = f.Uint64 != 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func decodeMapping(data []byte) (*Mapping, error) {
	m := &Mapping{}
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagMappingID:
			m.ID = f.Uint64
		case tagMappingStart:
			m.Start = f.Uint64
		case tagMappingLimit:
			m.Limit = f.Uint64
		case tagMappingOffset:
			m.Offset = f.Uint64
		case tagMappingFilename:
			m.fileX = int64(f.Uint64)
		case tagMappingBuildID:
			m.buildIDX = int64(f.Uint64)
		case tagMappingHasFunctions:
			m.HasFunctions = f.Uint64 != 0
		case tagMappingHasFilenames:
			m.HasFilenames = f.Uint64 != 0
		case tagMappingHasLineNumbers:
			m.HasLineNumbers = f.Uint64 != 0
		case tagMappingHasInlineFrames:
			m.HasInlineFrames = f.Uint64 != 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodeLabel(data []byte) (label, error) {
	var lb label
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagLabelKey:
			lb.keyX = int64(f.Uint64)
		case tagLabelStr:
			lb.strX = int64(f.Uint64)
		case tagLabelNum:
			lb.numX = int64(f.Uint64)
		case tagLabelNumUnit:
			lb.numUnitX = int64(f.Uint64)
		}
		return nil
	})
	if err != nil {
		return label{}, err
	}
	return lb, nil
}

func decodeSample(data []byte) (*Sample, error) {
	s := &Sample{}
	var locAcc, valAcc pproflite.DualScalarAccumulator
	d := pproflite.NewDecoder(data)
	err := d.FieldEach(func(f pproflite.Field) error {
		switch f.Number {
		case tagSampleLocation:
			return locAcc.Add(f)
		case tagSampleValue:
			return valAcc.Add(f)
		case tagSampleLabel:
			lb, err := decodeLabel(f.Bytes)
			if err != nil {
				return err
			}
			s.labels = append(s.labels, lb)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.locationIDX = locAcc.Values()
	for _, v := range valAcc.Values() {
		s.Value = append(s.Value, int64(v))
	}
	return s, nil
}
