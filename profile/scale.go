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

// Scale multiplies every sample value by ratio.
func (p *Profile) Scale(ratio float64) {
	if ratio == 1 {
		return
	}
	ratios := make([]float64, len(p.SampleType))
	for i := range ratios {
		ratios[i] = ratio
	}
	// len(p.SampleType) == len(ratios) by construction.
	_ = p.ScaleN(ratios)
}

// ScaleN multiplies each sample's i-th value by ratios[i].
func (p *Profile) ScaleN(ratios []float64) error {
	if len(p.SampleType) != len(ratios) {
		return fmt.Errorf("mismatched scale ratios, got %d, want %d", len(ratios), len(p.SampleType))
	}
	allOnes := true
	for _, r := range ratios {
		if r != 1 {
			allOnes = false
			break
		}
	}
	if allOnes {
		return nil
	}
	for _, s := range p.Sample {
		for i, v := range s.Value {
			if ratios[i] != 1 {
				s.Value[i] = int64(float64(v) * ratios[i])
			}
		}
	}
	return nil
}

// Copy returns a fully independent deep copy of p: mutating the result
// never affects p, and vice versa.
func (p *Profile) Copy() *Profile {
	functions := make(map[*Function]*Function, len(p.Function))
	for _, fn := range p.Function {
		cp := *fn
		functions[fn] = &cp
	}

	mappings := make(map[*Mapping]*Mapping, len(p.Mapping))
	for _, m := range p.Mapping {
		cp := *m
		mappings[m] = &cp
	}

	locations := make(map[*Location]*Location, len(p.Location))
	for _, l := range p.Location {
		cp := *l
		cp.Line = append([]Line(nil), l.Line...)
		if l.Mapping != nil {
			cp.Mapping = mappings[l.Mapping]
		}
		for i, ln := range cp.Line {
			if ln.Function != nil {
				cp.Line[i].Function = functions[ln.Function]
			}
		}
		locations[l] = &cp
	}

	pp := &Profile{
		DefaultSampleType: p.DefaultSampleType,
		DropFrames:        p.DropFrames,
		KeepFrames:        p.KeepFrames,
		TimeNanos:         p.TimeNanos,
		DurationNanos:     p.DurationNanos,
		Period:            p.Period,
		comments:          p.comments,
	}

	for _, st := range p.SampleType {
		cp := *st
		pp.SampleType = append(pp.SampleType, &cp)
	}
	if p.PeriodType != nil {
		cp := *p.PeriodType
		pp.PeriodType = &cp
	}
	for _, fn := range p.Function {
		pp.Function = append(pp.Function, functions[fn])
	}
	for _, m := range p.Mapping {
		pp.Mapping = append(pp.Mapping, mappings[m])
	}
	for _, l := range p.Location {
		pp.Location = append(pp.Location, locations[l])
	}

	for _, s := range p.Sample {
		cp := &Sample{
			Value: append([]int64(nil), s.Value...),
		}
		for _, l := range s.Location {
			cp.Location = append(cp.Location, locations[l])
		}
		cp.Label = make(map[string][]string, len(s.Label))
		for k, v := range s.Label {
			cp.Label[k] = append([]string(nil), v...)
		}
		cp.NumLabel = make(map[string][]int64, len(s.NumLabel))
		for k, v := range s.NumLabel {
			cp.NumLabel[k] = append([]int64(nil), v...)
		}
		cp.NumUnitLabel = make(map[string][]string, len(s.NumUnitLabel))
		for k, v := range s.NumUnitLabel {
			cp.NumUnitLabel[k] = append([]string(nil), v...)
		}
		pp.Sample = append(pp.Sample, cp)
	}

	return pp
}
