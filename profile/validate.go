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

import "fmt"

// Validate checks the structural-integrity invariants of spec §3/§4.6
// against a linked Profile. It returns the first violation found; it does
// not attempt to collect every violation.
func (p *Profile) Validate() error {
	sampleTypeLen := len(p.SampleType)
	if sampleTypeLen == 0 && len(p.Sample) == 0 {
		return validationFailed("missing sample type information")
	}
	for _, s := range p.Sample {
		if len(s.Value) != sampleTypeLen {
			return validationFailed(fmt.Sprintf("mismatch: sample has %d values vs. %d sample types", len(s.Value), sampleTypeLen))
		}
		for _, l := range s.Location {
			if l == nil {
				return validationFailed("sample references a location that does not exist")
			}
		}
	}

	mappings := make(map[uint64]*Mapping, len(p.Mapping))
	for _, m := range p.Mapping {
		if m == nil || m.ID == 0 {
			return validationFailed("found mapping with reserved ID=0")
		}
		if _, dup := mappings[m.ID]; dup {
			return validationFailed(fmt.Sprintf("multiple mappings with same id: %d", m.ID))
		}
		mappings[m.ID] = m
	}

	functions := make(map[uint64]*Function, len(p.Function))
	for _, fn := range p.Function {
		if fn == nil || fn.ID == 0 {
			return validationFailed("found function with reserved ID=0")
		}
		if _, dup := functions[fn.ID]; dup {
			return validationFailed(fmt.Sprintf("multiple functions with same id: %d", fn.ID))
		}
		functions[fn.ID] = fn
	}

	locations := make(map[uint64]*Location, len(p.Location))
	for _, l := range p.Location {
		if l == nil || l.ID == 0 {
			return validationFailed("found location with reserved id=0")
		}
		if _, dup := locations[l.ID]; dup {
			return validationFailed(fmt.Sprintf("multiple locations with same id: %d", l.ID))
		}
		locations[l.ID] = l

		if m := l.Mapping; m != nil {
			if m.ID == 0 || mappings[m.ID] != m {
				return validationFailed(fmt.Sprintf("inconsistent mapping %p: %d", m, m.ID))
			}
		}
		for _, ln := range l.Line {
			if fn := ln.Function; fn != nil {
				if fn.ID == 0 || functions[fn.ID] != fn {
					return validationFailed(fmt.Sprintf("inconsistent function %p: %d", fn, fn.ID))
				}
			}
		}
	}

	return nil
}
