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

import "google.golang.org/protobuf/encoding/protowire"

func appendVarintField(b []byte, num int, v uint64) []byte {
	b = protowire.AppendTag(b, protowire.Number(num), protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num int, payload []byte) []byte {
	b = protowire.AppendTag(b, protowire.Number(num), protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(payload)))
	return append(b, payload...)
}

// wireBuilder accumulates the fields of one protobuf message.
type wireBuilder struct {
	buf []byte
}

func (w *wireBuilder) varint(num int, v uint64) *wireBuilder {
	w.buf = appendVarintField(w.buf, num, v)
	return w
}

func (w *wireBuilder) bytes(num int, payload []byte) *wireBuilder {
	w.buf = appendBytesField(w.buf, num, payload)
	return w
}

func (w *wireBuilder) msg(num int, inner *wireBuilder) *wireBuilder {
	return w.bytes(num, inner.buf)
}

// testProfileBuilder assembles a profile.proto message field by field. It
// starts empty; each helper appends one field, interning its strings into a
// string table that bytes() writes ahead of every other field.
type testProfileBuilder struct {
	wireBuilder
	strings []string
}

func newTestProfileBuilder() *testProfileBuilder {
	return &testProfileBuilder{strings: []string{""}}
}

// intern returns the string table index for s, adding it if necessary.
func (b *testProfileBuilder) intern(s string) uint64 {
	for i, existing := range b.strings {
		if existing == s {
			return uint64(i)
		}
	}
	b.strings = append(b.strings, s)
	return uint64(len(b.strings) - 1)
}

func (b *testProfileBuilder) sampleType(typ, unit string) *testProfileBuilder {
	vt := &wireBuilder{}
	vt.varint(tagValueTypeType, b.intern(typ))
	vt.varint(tagValueTypeUnit, b.intern(unit))
	b.msg(tagProfileSampleType, vt)
	return b
}

func (b *testProfileBuilder) function(id uint64, name string) *testProfileBuilder {
	fn := &wireBuilder{}
	fn.varint(tagFunctionID, id)
	fn.varint(tagFunctionName, b.intern(name))
	fn.varint(tagFunctionSystemName, b.intern(name))
	b.msg(tagProfileFunction, fn)
	return b
}

func (b *testProfileBuilder) location(id, functionID uint64, line int64) *testProfileBuilder {
	ln := &wireBuilder{}
	ln.varint(tagLineFunctionID, functionID)
	ln.varint(tagLineLine, uint64(line))

	loc := &wireBuilder{}
	loc.varint(tagLocationID, id)
	loc.msg(tagLocationLine, ln)
	b.msg(tagProfileLocation, loc)
	return b
}

func (b *testProfileBuilder) sample(locationID uint64, value int64) *testProfileBuilder {
	s := &wireBuilder{}
	s.varint(tagSampleLocation, locationID)
	s.varint(tagSampleValue, uint64(value))
	b.msg(tagProfileSample, s)
	return b
}

func (b *testProfileBuilder) period(p int64) *testProfileBuilder {
	b.varint(tagProfilePeriod, uint64(p))
	return b
}

// bytes finalizes the message, prepending the string table.
func (b *testProfileBuilder) bytes() []byte {
	var out []byte
	for _, s := range b.strings {
		out = appendBytesField(out, tagProfileStringTable, []byte(s))
	}
	return append(out, b.buf...)
}
