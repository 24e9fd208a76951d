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
	"regexp"
	"strings"
)

var sharedLibRx = regexp.MustCompile(`([.]so$|[.]so[._][0-9]+)`)

// NormalizeMappings applies heuristic fixups to account for quirks of some
// profile producers. It is not run automatically by Decode; a caller opts
// in before rendering or graphing a profile whose mappings look suspect.
//
// It merges adjacent mappings that describe the same shared object,
// promotes whichever mapping looks like the main binary to index 0, and
// renumbers mapping ids densely starting at 1.
func (p *Profile) NormalizeMappings() {
	if len(p.Mapping) > 1 {
		merged := []*Mapping{p.Mapping[0]}
		for _, m := range p.Mapping[1:] {
			last := merged[len(merged)-1]
			if offset := last.Offset + (last.Limit - last.Start); last.Limit == m.Start &&
				offset == m.Offset &&
				(last.File == m.File || last.File == "") {
				last.File = m.File
				last.Limit = m.Limit
				if last.BuildID == "" {
					last.BuildID = m.BuildID
				}
				p.repointLocations(m, last)
				continue
			}
			merged = append(merged, m)
		}
		p.Mapping = merged
	}

	for i, m := range p.Mapping {
		file := strings.TrimSpace(strings.Replace(m.File, "(deleted)", "", -1))
		if len(file) == 0 {
			continue
		}
		if len(sharedLibRx.FindStringSubmatch(file)) > 0 {
			continue
		}
		if strings.HasPrefix(file, "[") {
			continue
		}
		p.Mapping[0], p.Mapping[i] = p.Mapping[i], p.Mapping[0]
		break
	}

	for i, m := range p.Mapping {
		m.ID = uint64(i + 1)
	}
}

func (p *Profile) repointLocations(from, to *Mapping) {
	for _, l := range p.Location {
		if l.Mapping == from {
			l.Mapping = to
		}
	}
}
