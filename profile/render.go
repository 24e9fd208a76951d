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
	"fmt"
	"sort"
	"strings"
	"time"
)

const labelIndent = "                "             // 16 spaces
const locationContinuationIndent = "             " // 13 spaces

// Render produces the canonical, deterministic text form of a linked
// Profile. Calling Render twice on the same Profile produces byte-identical
// output.
func (p *Profile) Render() string {
	var ss []string

	for _, c := range p.Comments() {
		ss = append(ss, "Comment: "+c)
	}
	if pt := p.PeriodType; pt != nil {
		ss = append(ss, fmt.Sprintf("PeriodType: %s %s", pt.Type, pt.Unit))
	}
	ss = append(ss, fmt.Sprintf("Period: %d", p.Period))
	if p.TimeNanos > 0 {
		ss = append(ss, "Time UTC: "+time.Unix(0, p.TimeNanos).UTC().Format("2006-01-02 15:04:05"))
	}
	if p.DurationNanos != 0 {
		ss = append(ss, fmt.Sprintf("Duration: %gs", float64(p.DurationNanos)/1e9))
	}

	ss = append(ss, "Samples:")
	var header string
	for _, st := range p.SampleType {
		dflt := ""
		if st.Type == p.DefaultSampleType {
			dflt = "[dflt]"
		}
		header += fmt.Sprintf("%s/%s%s ", st.Type, st.Unit, dflt)
	}
	ss = append(ss, strings.TrimSpace(header))

	for _, s := range p.Sample {
		ss = append(ss, renderSampleLine(s))
		if len(s.Label) > 0 {
			ss = append(ss, labelIndent+renderStringLabels(s.Label))
		}
		if len(s.NumLabel) > 0 {
			ss = append(ss, labelIndent+renderNumLabels(s.NumLabel, s.NumUnitLabel))
		}
	}

	ss = append(ss, "Locations")
	for _, l := range p.Location {
		ss = append(ss, renderLocationLines(l)...)
	}

	ss = append(ss, "Mappings")
	for _, m := range p.Mapping {
		ss = append(ss, renderMappingLine(m))
	}

	return strings.Join(ss, "\n") + "\n"
}

func renderSampleLine(s *Sample) string {
	var line string
	for _, v := range s.Value {
		line += fmt.Sprintf(" %10d", v)
	}
	line += ": "
	for _, l := range s.Location {
		line += fmt.Sprintf("%d ", l.ID)
	}
	return line
}

func renderStringLabels(labels map[string][]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", k, labels[k]))
	}
	return strings.Join(parts, " ")
}

func renderNumLabels(numLabels map[string][]int64, numUnits map[string][]string) string {
	keys := make([]string, 0, len(numLabels))
	for k := range numLabels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		values := numLabels[k]
		units := numUnits[k]
		elems := make([]string, len(values))
		if len(units) == len(values) {
			for i, v := range values {
				elems[i] = fmt.Sprintf("%d %s", v, units[i])
			}
		} else {
			for i, v := range values {
				elems[i] = fmt.Sprintf("%d", v)
			}
		}
		parts = append(parts, fmt.Sprintf("%s:%v", k, elems))
	}
	return strings.Join(parts, " ")
}

func renderLocationLines(l *Location) []string {
	prefix := fmt.Sprintf("%6d: %#x ", l.ID, l.Address)
	if m := l.Mapping; m != nil {
		prefix += fmt.Sprintf("M=%d ", m.ID)
	}
	if l.IsFolded {
		prefix += "[F] "
	}

	if len(l.Line) == 0 {
		return []string{prefix}
	}

	lines := make([]string, 0, len(l.Line))
	for i, ln := range l.Line {
		frame := "??"
		if fn := ln.Function; fn != nil {
			frame = fmt.Sprintf("%s %s:%d s=%d", fn.Name, fn.Filename, ln.Line, fn.StartLine)
			if fn.Name != fn.SystemName {
				frame += "(" + fn.SystemName + ")"
			}
		}
		lines = append(lines, prefix+frame)
		if i == 0 {
			prefix = locationContinuationIndent
		}
	}
	return lines
}

func renderMappingLine(m *Mapping) string {
	var bits string
	if m.HasFunctions {
		bits += "[FN]"
	}
	if m.HasFilenames {
		bits += "[FL]"
	}
	if m.HasLineNumbers {
		bits += "[LN]"
	}
	if m.HasInlineFrames {
		bits += "[IN]"
	}
	return fmt.Sprintf("%d: %#x/%#x/%#x %s %s %s", m.ID, m.Start, m.Limit, m.Offset, m.File, m.BuildID, bits)
}
