// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package stackparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToProfileBuildsOneSamplePerGoroutine(t *testing.T) {
	goroutines := []*Goroutine{
		{
			ID:    1,
			State: "running",
			Stack: []*Frame{
				{Func: "main.work", File: "/src/main.go", Line: 20},
				{Func: "main.main", File: "/src/main.go", Line: 10},
			},
		},
		{
			ID:    2,
			State: "chan receive",
			Wait:  3 * time.Minute,
			Stack: []*Frame{
				{Func: "main.work", File: "/src/main.go", Line: 20},
			},
			CreatedBy: &Frame{Func: "main.main", File: "/src/main.go", Line: 11},
		},
	}

	p := ToProfile(goroutines)

	require.Len(t, p.Sample, 2)
	require.Equal(t, "goroutine", p.SampleType[0].Type)
	require.Equal(t, int64(0), p.Sample[0].Value[0])
	require.Equal(t, (3 * time.Minute).Nanoseconds(), p.Sample[1].Value[0])
	require.Equal(t, []string{"chan receive"}, p.Sample[1].Label["state"])

	// main.work is shared between both goroutines' leaf frames and must be
	// interned to the same Location, not duplicated.
	require.Same(t, p.Sample[0].Location[0], p.Sample[1].Location[0])
	require.Len(t, p.Location, 3)
	require.Len(t, p.Function, 2)
}

func TestToProfileEmptyInput(t *testing.T) {
	p := ToProfile(nil)
	require.Empty(t, p.Sample)
	require.Equal(t, "goroutine", p.SampleType[0].Type)
}
