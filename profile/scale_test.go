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
	"testing"

	"github.com/stretchr/testify/require"
)

func scaleTestProfile() *Profile {
	return &Profile{
		SampleType: []*ValueType{{Type: "cpu", Unit: "nanoseconds"}, {Type: "samples", Unit: "count"}},
		Sample: []*Sample{
			{Value: []int64{1000, 1}},
			{Value: []int64{2000, 2}},
		},
	}
}

func TestScaleMultipliesEveryValue(t *testing.T) {
	p := scaleTestProfile()
	p.Scale(2)
	require.Equal(t, []int64{2000, 2}, p.Sample[0].Value)
	require.Equal(t, []int64{4000, 4}, p.Sample[1].Value)
}

func TestScaleOneIsNoop(t *testing.T) {
	p := scaleTestProfile()
	before := append([]int64(nil), p.Sample[0].Value...)
	p.Scale(1)
	require.Equal(t, before, p.Sample[0].Value)
}

func TestScaleNPerColumnRatios(t *testing.T) {
	p := scaleTestProfile()
	require.NoError(t, p.ScaleN([]float64{0.5, 1}))
	require.Equal(t, []int64{500, 1}, p.Sample[0].Value)
	require.Equal(t, []int64{1000, 2}, p.Sample[1].Value)
}

func TestScaleNRejectsMismatchedLength(t *testing.T) {
	p := scaleTestProfile()
	require.Error(t, p.ScaleN([]float64{1}))
}

func TestCopyIsFullyIndependent(t *testing.T) {
	fn := &Function{ID: 1, Name: "main.main"}
	loc := &Location{ID: 1, Line: []Line{{Function: fn}}}
	p := &Profile{
		SampleType: []*ValueType{{Type: "samples", Unit: "count"}},
		Function:   []*Function{fn},
		Location:   []*Location{loc},
		Sample:     []*Sample{{Value: []int64{1}, Location: []*Location{loc}, Label: map[string][]string{"k": {"v"}}}},
	}

	cp := p.Copy()
	cp.Sample[0].Value[0] = 99
	cp.Sample[0].Label["k"][0] = "changed"
	cp.Function[0].Name = "renamed"

	require.Equal(t, int64(1), p.Sample[0].Value[0])
	require.Equal(t, "v", p.Sample[0].Label["k"][0])
	require.Equal(t, "main.main", p.Function[0].Name)
	require.NotSame(t, p.Location[0], cp.Location[0])
	require.Equal(t, p.Location[0].Line[0].Function.Name, cp.Location[0].Line[0].Function.Name)
}
