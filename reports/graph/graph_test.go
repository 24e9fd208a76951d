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

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustatian/rock/profile"
)

func testProfile() *profile.Profile {
	fnMain := &profile.Function{ID: 1, Name: "main.main", SystemName: "main.main"}
	fnWork := &profile.Function{ID: 2, Name: "main.work", SystemName: "main.work"}

	locMain := &profile.Location{ID: 1, Line: []profile.Line{{Function: fnMain, Line: 10}}}
	locWork := &profile.Location{ID: 2, Line: []profile.Line{{Function: fnWork, Line: 20}}}

	return &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "samples", Unit: "count"}},
		Function:   []*profile.Function{fnMain, fnWork},
		Location:   []*profile.Location{locMain, locWork},
		Sample: []*profile.Sample{
			{Value: []int64{5}, Location: []*profile.Location{locWork, locMain}},
			{Value: []int64{3}, Location: []*profile.Location{locWork, locMain}},
			{Value: []int64{2}, Location: []*profile.Location{locMain}},
		},
	}
}

func TestNewAccumulatesFlatAndCum(t *testing.T) {
	g, err := New(testProfile(), &Options{ValueIndex: 0})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)

	var mainNode, workNode *Node
	for _, n := range g.Nodes {
		switch n.Info.Name {
		case "main.main":
			mainNode = n
		case "main.work":
			workNode = n
		}
	}
	require.NotNil(t, mainNode)
	require.NotNil(t, workNode)

	// work is the leaf in the first two samples: flat=5+3=8, cum=8.
	require.Equal(t, int64(8), workNode.Flat)
	require.Equal(t, int64(8), workNode.Cum)

	// main is the leaf in the third sample (flat=2) and on the call path
	// for every sample (cum=5+3+2=10).
	require.Equal(t, int64(2), mainNode.Flat)
	require.Equal(t, int64(10), mainNode.Cum)
}

func TestNewBuildsSymmetricEdge(t *testing.T) {
	g, err := New(testProfile(), &Options{ValueIndex: 0})
	require.NoError(t, err)

	var mainNode, workNode *Node
	for _, n := range g.Nodes {
		switch n.Info.Name {
		case "main.main":
			mainNode = n
		case "main.work":
			workNode = n
		}
	}

	edge, ok := mainNode.Out[workNode]
	require.True(t, ok)
	require.Equal(t, int64(8), edge.Weight)

	back, ok := workNode.In[mainNode]
	require.True(t, ok)
	require.Same(t, edge, back)
}

func TestNewDropNegative(t *testing.T) {
	p := testProfile()
	p.Sample = append(p.Sample, &profile.Sample{
		Value:    []int64{-1},
		Location: []*profile.Location{p.Location[1]},
	})

	g, err := New(p, &Options{ValueIndex: 0, DropNegative: true})
	require.NoError(t, err)
	var workNode *Node
	for _, n := range g.Nodes {
		if n.Info.Name == "main.work" {
			workNode = n
		}
	}
	require.Equal(t, int64(8), workNode.Flat, "negative sample must be excluded")
}

func TestNewLineLevelResolution(t *testing.T) {
	fn := &profile.Function{ID: 1, Name: "main.f", SystemName: "main.f"}
	loc := &profile.Location{ID: 1, Line: []profile.Line{
		{Function: fn, Line: 42},
		{Function: fn, Line: 7},
	}}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "samples", Unit: "count"}},
		Function:   []*profile.Function{fn},
		Location:   []*profile.Location{loc},
		Sample: []*profile.Sample{
			{Value: []int64{4}, Location: []*profile.Location{loc}},
		},
	}

	g, err := New(p, &Options{ValueIndex: 0, Lines: true})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2, "one Node per inlined line")

	for _, n := range g.Nodes {
		for _, other := range g.Nodes {
			if n == other {
				continue
			}
			e, ok := n.Out[other]
			if ok {
				require.True(t, e.Inline, "adjacent lines within one Location are an inline call")
			}
		}
	}
}

func TestNewKeptNodesFilters(t *testing.T) {
	g, err := New(testProfile(), &Options{
		ValueIndex: 0,
		KeptNodes: func(info NodeInfo) bool {
			return info.Name == "main.main"
		},
	})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	require.Equal(t, "main.main", g.Nodes[0].Info.Name)
}

func TestNewLabelTags(t *testing.T) {
	fn := &profile.Function{ID: 1, Name: "main.f", SystemName: "main.f"}
	loc := &profile.Location{ID: 1, Line: []profile.Line{{Function: fn}}}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "samples", Unit: "count"}},
		Function:   []*profile.Function{fn},
		Location:   []*profile.Location{loc},
		Sample: []*profile.Sample{
			{
				Value:    []int64{10},
				Location: []*profile.Location{loc},
				Label:    map[string][]string{"request": {"GET /foo"}},
				NumLabel: map[string][]int64{"bytes": {128}},
			},
		},
	}

	g, err := New(p, &Options{ValueIndex: 0})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)

	n := g.Nodes[0]
	tag, ok := n.LabelTags["request:GET /foo"]
	require.True(t, ok)
	require.Equal(t, int64(10), tag.Cum)

	numGroup, ok := n.NumericTags["bytes"]
	require.True(t, ok)
	require.Len(t, numGroup, 1)
}
