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

import "github.com/rustatian/rock/profiler/internal/immutable"

// link resolves every string-table index and every id-valued
// cross-reference a decoded Profile carries. It runs in the fixed order the
// spec mandates: mappings, then functions, then locations (which depend on
// both), then sample types, then samples (which depend on locations and on
// resolved label keys), then the scalar index-valued fields. Once link
// returns without error, every *X field on the Profile is stale and every
// resolved field is authoritative.
func (p *Profile) link() error {
	mappings := make(map[uint64]*Mapping, len(p.Mapping))
	for _, m := range p.Mapping {
		m.File = p.string(m.fileX)
		m.BuildID = p.string(m.buildIDX)
		mappings[m.ID] = m
	}

	functions := make(map[uint64]*Function, len(p.Function))
	for _, fn := range p.Function {
		fn.Name = p.string(fn.nameX)
		fn.SystemName = p.string(fn.systemNameX)
		fn.Filename = p.string(fn.filenameX)
		functions[fn.ID] = fn
	}

	locations := make(map[uint64]*Location, len(p.Location))
	for _, l := range p.Location {
		if l.mappingIDX != 0 {
			l.Mapping = mappings[l.mappingIDX]
		}
		for i := range l.Line {
			if l.Line[i].functionIDX != 0 {
				l.Line[i].Function = functions[l.Line[i].functionIDX]
			}
		}
		locations[l.ID] = l
	}

	for _, vt := range p.SampleType {
		vt.Type = p.string(vt.typeX)
		vt.Unit = p.string(vt.unitX)
	}

	for _, s := range p.Sample {
		if err := p.linkSample(s, locations); err != nil {
			return err
		}
	}

	if p.PeriodType != nil {
		p.PeriodType.Type = p.string(p.PeriodType.typeX)
		p.PeriodType.Unit = p.string(p.PeriodType.unitX)
	}
	p.DropFrames = p.string(p.dropFramesX)
	p.KeepFrames = p.string(p.keepFramesX)

	var comments []string
	for _, x := range p.commentX {
		comments = append(comments, p.string(x))
	}
	p.comments = immutable.NewStringSlice(comments)

	p.DefaultSampleType = p.string(p.defaultSampleTypeX)

	return nil
}

func (p *Profile) linkSample(s *Sample, locations map[uint64]*Location) error {
	s.Label = map[string][]string{}
	s.NumLabel = map[string][]int64{}
	s.NumUnitLabel = map[string][]string{}

	for _, lb := range s.labels {
		key := p.string(lb.keyX)
		switch {
		case lb.strX != 0:
			s.Label[key] = append(s.Label[key], p.string(lb.strX))
		case lb.numX != 0:
			if lb.numUnitX != 0 {
				unit := p.string(lb.numUnitX)
				for len(s.NumUnitLabel[key]) < len(s.NumLabel[key]) {
					s.NumUnitLabel[key] = append(s.NumUnitLabel[key], "")
				}
				s.NumUnitLabel[key] = append(s.NumUnitLabel[key], unit)
			}
			s.NumLabel[key] = append(s.NumLabel[key], lb.numX)
		}
	}
	for key, values := range s.NumLabel {
		for len(s.NumUnitLabel[key]) < len(values) {
			s.NumUnitLabel[key] = append(s.NumUnitLabel[key], "")
		}
	}

	s.Location = make([]*Location, len(s.locationIDX))
	for i, id := range s.locationIDX {
		s.Location[i] = locations[id]
	}

	return nil
}
