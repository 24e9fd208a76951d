// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2021 Datadog, Inc.

package pprofutils

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustatian/rock/profile"
)

// Text converts collapsed-stack text into a Profile.
type Text struct{}

// Convert reads collapsed-stack text from r: an optional header line of
// space-separated "type/unit" pairs, followed by one line per stack,
// frames joined by ';', followed by one or more space-separated values.
func (Text) Convert(r io.Reader) (*profile.Profile, error) {
	p := &profile.Profile{}
	functions := map[string]*profile.Function{}
	locations := map[string]*profile.Location{}
	var nextID uint64

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first && isHeaderLine(line) {
			for _, field := range strings.Fields(line) {
				parts := strings.SplitN(field, "/", 2)
				p.SampleType = append(p.SampleType, &profile.ValueType{Type: parts[0], Unit: parts[1]})
			}
			first = false
			continue
		}
		first = false

		stack, values, err := parseStackLine(line)
		if err != nil {
			return nil, err
		}

		s := &profile.Sample{Value: values}
		for i := len(stack) - 1; i >= 0; i-- {
			name := stack[i]
			loc, ok := locations[name]
			if !ok {
				fn, ok := functions[name]
				if !ok {
					nextID++
					fn = &profile.Function{ID: nextID, Name: name, SystemName: name}
					functions[name] = fn
				}
				nextID++
				loc = &profile.Location{ID: nextID, Line: []profile.Line{{Function: fn}}}
				locations[name] = loc
			}
			s.Location = append(s.Location, loc)
		}
		p.Sample = append(p.Sample, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.SampleType) == 0 {
		p.SampleType = []*profile.ValueType{{Type: "samples", Unit: "count"}}
	}
	for _, loc := range locations {
		p.Location = append(p.Location, loc)
	}
	for _, fn := range functions {
		p.Function = append(p.Function, fn)
	}

	return p, nil
}

// isHeaderLine reports whether line looks like a "type/unit type/unit ..."
// sample-type header rather than a "frame;frame;frame value" stack line.
func isHeaderLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if strings.Contains(f, ";") {
			return false
		}
		parts := strings.SplitN(f, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return false
		}
		if _, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			return false
		}
	}
	return true
}

func parseStackLine(line string) ([]string, []int64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, nil, fmt.Errorf("pprofutils: malformed stack line %q", line)
	}
	stack := strings.Split(fields[0], ";")
	values := make([]int64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("pprofutils: malformed value %q in line %q: %w", f, line, err)
		}
		values = append(values, v)
	}
	return stack, values, nil
}
