// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package stackparse

import (
	"fmt"

	"github.com/rustatian/rock/profile"
)

// ToProfile converts a set of parsed goroutine dumps into a profile.Profile
// with one sample per goroutine, so a plain-text dump can be validated and
// rendered by the same Profile methods as a wire-format profile. The result
// is assembled directly from its exported fields; it is not decoded or
// linked. Each sample's value is the goroutine's wait time in nanoseconds
// (0 for a goroutine with no recorded wait), and its location stack is the
// goroutine's call stack, leaf frame first, with the "created by" frame
// appended as the root when present.
func ToProfile(goroutines []*Goroutine) *profile.Profile {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "goroutine", Unit: "nanoseconds"}},
	}

	funcs := map[string]*profile.Function{}
	locs := map[string]*profile.Location{}
	nextFuncID := uint64(1)
	nextLocID := uint64(1)

	internFunc := func(name string) *profile.Function {
		if fn, ok := funcs[name]; ok {
			return fn
		}
		fn := &profile.Function{ID: nextFuncID, Name: name, SystemName: name}
		nextFuncID++
		funcs[name] = fn
		p.Function = append(p.Function, fn)
		return fn
	}

	internLoc := func(f *Frame) *profile.Location {
		key := fmt.Sprintf("%s\x00%s\x00%d", f.Func, f.File, f.Line)
		if loc, ok := locs[key]; ok {
			return loc
		}
		fn := internFunc(f.Func)
		fn.Filename = f.File
		loc := &profile.Location{
			ID:   nextLocID,
			Line: []profile.Line{{Function: fn, Line: int64(f.Line)}},
		}
		nextLocID++
		locs[key] = loc
		p.Location = append(p.Location, loc)
		return loc
	}

	for _, g := range goroutines {
		var stack []*profile.Location
		for _, f := range g.Stack {
			stack = append(stack, internLoc(f))
		}
		if g.CreatedBy != nil {
			stack = append(stack, internLoc(g.CreatedBy))
		}
		p.Sample = append(p.Sample, &profile.Sample{
			Value:    []int64{g.Wait.Nanoseconds()},
			Location: stack,
			Label:    map[string][]string{"state": {g.State}},
		})
	}

	return p
}
