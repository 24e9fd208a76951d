// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2021 Datadog, Inc.

package pprofutils

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rustatian/rock/profile"
)

// Protobuf converts a Profile into collapsed-stack text.
type Protobuf struct {
	// SampleTypes, when set, emits a header line listing each sample
	// type as "type/unit", space-separated, before the stack lines.
	SampleTypes bool
}

// Convert writes p to w as collapsed-stack text, one line per sample,
// heaviest (by first value) first.
func (c Protobuf) Convert(p *profile.Profile, w io.Writer) error {
	if c.SampleTypes {
		fields := make([]string, len(p.SampleType))
		for i, st := range p.SampleType {
			fields[i] = st.Type + "/" + st.Unit
		}
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(fields, " ")); err != nil {
			return err
		}
	}

	type stackLine struct {
		stack  string
		values []int64
	}
	lines := make([]stackLine, len(p.Sample))
	for i, s := range p.Sample {
		frames := make([]string, len(s.Location))
		for j, l := range s.Location {
			name := "??"
			if len(l.Line) > 0 && l.Line[0].Function != nil {
				name = l.Line[0].Function.Name
			}
			frames[len(s.Location)-1-j] = name
		}
		lines[i] = stackLine{stack: strings.Join(frames, ";"), values: s.Value}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		vi, vj := firstValue(lines[i].values), firstValue(lines[j].values)
		return vi > vj
	})

	for _, l := range lines {
		values := make([]string, len(l.values))
		for i, v := range l.values {
			values[i] = strconv.FormatInt(v, 10)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", l.stack, strings.Join(values, " ")); err != nil {
			return err
		}
	}
	return nil
}

func firstValue(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}
