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

// Package profile decodes, links, validates, and renders profiles in the
// pprof wire format (profile.proto). Decode is whole-buffer: a Profile is
// produced atomically or not at all.
package profile

import "github.com/rustatian/rock/profiler/internal/immutable"

// ValueType describes the semantics of one column of a Sample's values: a
// (type, unit) pair such as ("cpu", "nanoseconds") or ("alloc_space", "bytes").
type ValueType struct {
	Type string
	Unit string

	typeX int64
	unitX int64
}

// Function is a named, addressable unit of code.
type Function struct {
	ID         uint64
	Name       string
	SystemName string
	Filename   string
	StartLine  int64

	nameX       int64
	systemNameX int64
	filenameX   int64
}

// Line is one frame inside a Location: innermost inline frame first on the
// wire, outermost caller last.
type Line struct {
	Function *Function
	Line     int64

	functionIDX uint64
}

// Location is a program point: an address plus its inline-expansion chain.
type Location struct {
	ID       uint64
	Mapping  *Mapping
	Address  uint64
	Line     []Line
	IsFolded bool

	mappingIDX uint64
}

// Mapping is a contiguous region of a binary loaded into memory.
type Mapping struct {
	ID              uint64
	Start           uint64
	Limit           uint64
	Offset          uint64
	File            string
	BuildID         string
	HasFunctions    bool
	HasFilenames    bool
	HasLineNumbers  bool
	HasInlineFrames bool

	fileX    int64
	buildIDX int64
}

// label is the decoded, not-yet-linked form of Profile.Sample.Label.
// Exactly one of strX/numX is meaningful, selected by which was nonzero on
// the wire.
type label struct {
	keyX     int64
	strX     int64
	numX     int64
	numUnitX int64
}

// Sample is one weighted call stack observation, leaf location first.
type Sample struct {
	Location     []*Location
	Value        []int64
	Label        map[string][]string
	NumLabel     map[string][]int64
	NumUnitLabel map[string][]string

	locationIDX []uint64
	labels      []label
}

// Profile is the in-memory, linked representation of a decoded
// profile.proto message. Decode builds one and runs the post-decode linker
// on it before returning it; a Profile can also be assembled directly from
// its exported fields. Validate, Render and the reports/graph builder only
// read it; Scale, ScaleN and NormalizeMappings modify it in place.
type Profile struct {
	SampleType        []*ValueType
	DefaultSampleType string
	Sample            []*Sample
	Mapping           []*Mapping
	Location          []*Location
	Function          []*Function

	DropFrames string
	KeepFrames string

	TimeNanos     int64
	DurationNanos int64
	PeriodType    *ValueType
	Period        int64

	comments immutable.StringSlice

	commentX           []int64
	dropFramesX        int64
	keepFramesX        int64
	stringTable        []string
	defaultSampleTypeX int64
}

// Comments returns the profile's free-form comment lines. The returned
// slice is a private copy: mutating it does not affect the Profile.
func (p *Profile) Comments() []string {
	return p.comments.Slice()
}

func (p *Profile) string(x int64) string {
	if x < 0 || int(x) >= len(p.stringTable) {
		return ""
	}
	return p.stringTable[x]
}
