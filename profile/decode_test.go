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
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeMinimalProfile(t *testing.T) {
	data := newTestProfileBuilder().
		sampleType("samples", "count").
		function(1, "main.main").
		location(1, 1, 10).
		sample(1, 7).
		period(1).
		bytes()

	p, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, p.SampleType, 1)
	require.Equal(t, "samples", p.SampleType[0].Type)
	require.Equal(t, "count", p.SampleType[0].Unit)
	require.Len(t, p.Sample, 1)
	require.Equal(t, []int64{7}, p.Sample[0].Value)
	require.Len(t, p.Sample[0].Location, 1)
	require.Equal(t, uint64(1), p.Sample[0].Location[0].ID)
	require.Equal(t, "main.main", p.Sample[0].Location[0].Line[0].Function.Name)
	require.Equal(t, int64(1), p.Period)
}

func TestDecodeGzipCompressed(t *testing.T) {
	raw := newTestProfileBuilder().
		sampleType("samples", "count").
		function(1, "main.main").
		location(1, 1, 10).
		sample(1, 7).
		bytes()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, p.Sample, 1)
}

func TestDecodeRejectsNonEmptyFirstStringTableEntry(t *testing.T) {
	var buf []byte
	buf = appendBytesField(buf, tagProfileStringTable, []byte("not-empty"))

	_, err := Decode(buf)
	require.Error(t, err)
}

func TestDecodeRejectsConcatenatedProfiles(t *testing.T) {
	b := newTestProfileBuilder()
	b.varint(tagProfileTimeNanos, 1)
	b.varint(tagProfileTimeNanos, 2)
	_, err := Decode(b.bytes())
	require.Error(t, err)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	b := newTestProfileBuilder().
		sampleType("samples", "count").
		function(1, "main.main").
		location(1, 1, 10).
		sample(1, 7)
	b.varint(999, 42)

	p, err := Decode(b.bytes())
	require.NoError(t, err)
	require.Len(t, p.Sample, 1)
}

func TestDecodeRejectsBadVarint(t *testing.T) {
	buf := append([]byte{0x08}, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}...)
	_, err := Decode(buf)
	require.Error(t, err)
}

func TestDecodeRejectsUnlinkableSample(t *testing.T) {
	b := newTestProfileBuilder().sampleType("samples", "count")
	b.sample(999, 1) // location 999 was never declared
	_, err := Decode(b.bytes())
	require.Error(t, err)
}
