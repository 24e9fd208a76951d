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

// Package graph builds a reporting graph out of a linked profile.Profile:
// one Node per distinct program location (or per line, with line-level
// resolution), Edges between callers and callees, and Tags summarizing
// sample labels.
package graph

import (
	"fmt"

	"github.com/rustatian/rock/profile"
)

// NodeInfo describes the source location a Node stands for.
type NodeInfo struct {
	Name      string
	OrigName  string
	Address   uint64
	File      string
	StartLine int64
	Lineno    int64
	Objfile   string
}

// Node is a unique program location in a Graph.
type Node struct {
	Info NodeInfo

	// Function points at the Node representing the whole function this
	// Node belongs to. It points back to itself when the Node already is
	// function-level (line resolution disabled).
	Function *Node

	Flat, FlatDiv int64
	Cum, CumDiv   int64

	In, Out map[*Node]*Edge

	LabelTags   map[string]*Tag
	NumericTags map[string]map[string]*Tag
}

func newNode(info NodeInfo) *Node {
	return &Node{
		Info:        info,
		In:          make(map[*Node]*Edge),
		Out:         make(map[*Node]*Edge),
		LabelTags:   make(map[string]*Tag),
		NumericTags: make(map[string]map[string]*Tag),
	}
}

// FlatValue returns the exclusive value for n, dividing by FlatDiv when set.
func (n *Node) FlatValue() int64 {
	if n.FlatDiv == 0 {
		return n.Flat
	}
	return n.Flat / n.FlatDiv
}

// CumValue returns the inclusive value for n, dividing by CumDiv when set.
func (n *Node) CumValue() int64 {
	if n.CumDiv == 0 {
		return n.Cum
	}
	return n.Cum / n.CumDiv
}

// Edge is a call edge between two Nodes.
type Edge struct {
	Src, Dest         *Node
	Weight, WeightDiv int64
	Residual, Inline  bool
}

// WeightValue returns the edge's weight, dividing by WeightDiv when set.
func (e *Edge) WeightValue() int64 {
	if e.WeightDiv == 0 {
		return e.Weight
	}
	return e.Weight / e.WeightDiv
}

// Tag annotates a subset of a Node's samples, e.g. one distinct label value.
type Tag struct {
	Name          string
	Unit          string
	Value         int64
	Flat, FlatDiv int64
	Cum, CumDiv   int64
}

// CumValue returns the tag's inclusive value, dividing by CumDiv when set.
func (t *Tag) CumValue() int64 {
	if t.CumDiv == 0 {
		return t.Cum
	}
	return t.Cum / t.CumDiv
}

// FlatValue returns the tag's exclusive value, dividing by FlatDiv when set.
func (t *Tag) FlatValue() int64 {
	if t.FlatDiv == 0 {
		return t.Flat
	}
	return t.Flat / t.FlatDiv
}

// Graph is a built reporting graph: the interned, populated node set.
type Graph struct {
	Nodes []*Node
}

// Options controls how New builds a Graph from a Profile.
type Options struct {
	// ValueIndex selects which Sample.Value entry is the node weight.
	ValueIndex int
	// SampleMeanDivisor, when true, adds each sample's value at
	// DivisorIndex to every *_div counter that sample contributes to; the
	// FlatValue, CumValue and WeightValue accessors divide by those sums.
	SampleMeanDivisor bool
	DivisorIndex      int
	// DropNegative excludes samples whose selected value is negative.
	DropNegative bool
	// Lines enables line-level resolution: one Node per Location.Line
	// entry instead of one Node per Location.
	Lines bool
	// KeptNodes, when set, filters the final node set.
	KeptNodes func(NodeInfo) bool
}

type nodeMap map[NodeInfo]*Node

func (nm nodeMap) intern(info NodeInfo) *Node {
	if n, ok := nm[info]; ok {
		return n
	}
	n := newNode(info)
	nm[info] = n
	return n
}

func (nm nodeMap) internFunction(info NodeInfo) *Node {
	key := info
	key.Address = 0
	key.Lineno = 0
	return nm.intern(key)
}

// New builds a Graph from p according to o. It returns an error instead of
// panicking if the edge set it built turns out to be internally
// inconsistent (see addEdge) — this should never happen given New's own
// construction, but callers driving decoded, possibly-adversarial profiles
// should never have to recover from a panic to find out.
func New(p *profile.Profile, o *Options) (*Graph, error) {
	nm := make(nodeMap)
	// sampled records every Node some sample's sequence reached. A
	// function-level Node interned only as another Node's Function target
	// is not in it and is left out of the Graph.
	sampled := make(map[*Node]bool)

	for _, s := range p.Sample {
		value := sampleValue(s, o.ValueIndex)
		if o.DropNegative && value < 0 {
			continue
		}
		var divisor int64
		if o.SampleMeanDivisor {
			divisor = sampleValue(s, o.DivisorIndex)
		}

		seq := buildSequence(s, o, nm)
		if len(seq) == 0 {
			continue
		}

		seen := make(map[*Node]bool, len(seq))
		for i, step := range seq {
			n := step.node
			sampled[n] = true
			if !seen[n] {
				n.Cum += value
				n.CumDiv += divisor
				seen[n] = true
			}
			isLeaf := i == 0
			if isLeaf {
				n.Flat += value
				n.FlatDiv += divisor
			}
			addLabelTags(n, s, value, divisor, isLeaf)
		}

		for i := 0; i+1 < len(seq); i++ {
			callee, caller := seq[i].node, seq[i+1].node
			if callee == caller {
				continue
			}
			inline := seq[i].locIdx == seq[i+1].locIdx
			if err := addEdge(caller, callee, value, divisor, false, inline); err != nil {
				return nil, err
			}
		}
	}

	nodes := make([]*Node, 0, len(nm))
	for _, n := range nm {
		if !sampled[n] {
			continue
		}
		if o.KeptNodes != nil && !o.KeptNodes(n.Info) {
			continue
		}
		nodes = append(nodes, n)
	}
	return &Graph{Nodes: nodes}, nil
}

func sampleValue(s *profile.Sample, idx int) int64 {
	if idx < 0 || idx >= len(s.Value) {
		return 0
	}
	return s.Value[idx]
}

type nodeStep struct {
	node   *Node
	locIdx int
}

// buildSequence expands s's location list (leaf-first, per the decoder's
// ordering guarantee) into a leaf-first sequence of Nodes, recording which
// original Location each Node came from so adjacent Nodes sharing a
// Location can be recognized as an inlined call.
func buildSequence(s *profile.Sample, o *Options, nm nodeMap) []nodeStep {
	var seq []nodeStep
	for li, loc := range s.Location {
		for _, n := range nodesForLocation(loc, o.Lines, nm) {
			seq = append(seq, nodeStep{node: n, locIdx: li})
		}
	}
	return seq
}

func nodesForLocation(loc *profile.Location, lines bool, nm nodeMap) []*Node {
	if !lines || len(loc.Line) == 0 {
		info := nodeInfoForLocation(loc)
		n := nm.intern(info)
		if n.Function == nil {
			n.Function = n
		}
		return []*Node{n}
	}

	nodes := make([]*Node, len(loc.Line))
	for i, ln := range loc.Line {
		info := nodeInfoForLine(loc, ln)
		n := nm.intern(info)
		if n.Function == nil {
			n.Function = nm.internFunction(info)
		}
		nodes[i] = n
	}
	return nodes
}

func nodeInfoForLocation(loc *profile.Location) NodeInfo {
	info := NodeInfo{Address: loc.Address}
	if len(loc.Line) > 0 {
		fillLineInfo(&info, loc.Line[0])
	}
	if m := loc.Mapping; m != nil {
		info.Objfile = m.File
	}
	return info
}

func nodeInfoForLine(loc *profile.Location, ln profile.Line) NodeInfo {
	info := NodeInfo{Address: loc.Address}
	fillLineInfo(&info, ln)
	if m := loc.Mapping; m != nil {
		info.Objfile = m.File
	}
	return info
}

func fillLineInfo(info *NodeInfo, ln profile.Line) {
	info.Lineno = ln.Line
	if fn := ln.Function; fn != nil {
		info.Name = fn.Name
		info.OrigName = fn.SystemName
		info.File = fn.Filename
		info.StartLine = fn.StartLine
	}
}

// addEdge inserts or updates the edge from caller to callee, keeping
// caller.Out and callee.In symmetric. Weights accumulate; inline is
// AND-ed and residual is OR-ed across contributions, matching the merge
// semantics of an edge fed by more than one sample. It returns an error,
// rather than panicking, if the two sides turn out not to agree — an
// internal invariant that New's own construction should never violate.
func addEdge(caller, callee *Node, weight, weightDiv int64, residual, inline bool) error {
	e, ok := caller.Out[callee]
	if !ok {
		e = &Edge{Src: caller, Dest: callee, Residual: residual, Inline: inline}
		caller.Out[callee] = e
		callee.In[caller] = e
	} else {
		e.Residual = e.Residual || residual
		e.Inline = e.Inline && inline
	}
	e.Weight += weight
	e.WeightDiv += weightDiv

	if caller.Out[callee] != callee.In[caller] {
		return fmt.Errorf("asymmetric edge between %q and %q", caller.Info.Name, callee.Info.Name)
	}
	return nil
}

func addLabelTags(n *Node, s *profile.Sample, value, divisor int64, isLeaf bool) {
	for k, vs := range s.Label {
		for _, v := range vs {
			key := k + ":" + v
			tag, ok := n.LabelTags[key]
			if !ok {
				tag = &Tag{Name: v}
				n.LabelTags[key] = tag
			}
			tag.Cum += value
			tag.CumDiv += divisor
			if isLeaf {
				tag.Flat += value
				tag.FlatDiv += divisor
			}
		}
	}

	for k, vs := range s.NumLabel {
		units := s.NumUnitLabel[k]
		group, ok := n.NumericTags[k]
		if !ok {
			group = make(map[string]*Tag)
			n.NumericTags[k] = group
		}
		for i, v := range vs {
			var unit string
			if i < len(units) {
				unit = units[i]
			}
			key := fmt.Sprintf("%d %s", v, unit)
			tag, ok := group[key]
			if !ok {
				tag = &Tag{Name: key, Unit: unit, Value: v}
				group[key] = tag
			}
			tag.Cum += value
			tag.CumDiv += divisor
			if isLeaf {
				tag.Flat += value
				tag.FlatDiv += divisor
			}
		}
	}
}
