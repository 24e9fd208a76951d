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

import "sort"

// NumLabelUnits walks every sample's NumLabel/NumUnitLabel pair and picks,
// for each label key, the first unit encountered. Any later unit that
// disagrees with that first choice is recorded as ignored rather than
// applied. Keys that never carry a unit get one inferred: "alignment" and
// "request" default to "bytes", everything else defaults to the key name
// itself.
func (p *Profile) NumLabelUnits() (map[string]string, map[string][]string, error) {
	numLabelUnits := make(map[string]string)
	ignoredUnits := make(map[string]map[string]struct{})
	encounteredKeys := make(map[string]struct{})

	for _, s := range p.Sample {
		for k := range s.NumLabel {
			encounteredKeys[k] = struct{}{}

			for _, unit := range s.NumUnitLabel[k] {
				if unit == "" {
					continue
				}
				if want, ok := numLabelUnits[k]; ok {
					if want != unit {
						if ignoredUnits[k] == nil {
							ignoredUnits[k] = make(map[string]struct{})
						}
						ignoredUnits[k][unit] = struct{}{}
					}
				} else {
					numLabelUnits[k] = unit
				}
			}
		}
	}

	for key := range encounteredKeys {
		if _, ok := numLabelUnits[key]; ok {
			continue
		}
		switch key {
		case "alignment", "request":
			numLabelUnits[key] = "bytes"
		default:
			numLabelUnits[key] = key
		}
	}

	unitsIgnored := make(map[string][]string, len(ignoredUnits))
	for key, set := range ignoredUnits {
		units := make([]string, 0, len(set))
		for u := range set {
			units = append(units, u)
		}
		sort.Strings(units)
		unitsIgnored[key] = units
	}

	return numLabelUnits, unitsIgnored, nil
}
