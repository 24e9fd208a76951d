// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package immutable provides copy-on-read wrappers around mutable Go types,
// so a struct can hand out a slice field to callers without risking a
// caller's mutation leaking back into the struct's own state.
package immutable

// StringSlice is a read-only snapshot of a []string. Every read returns an
// independent copy, so neither the caller that constructed it nor any
// reader can observe another reader's mutations.
type StringSlice struct {
	values []string
}

// NewStringSlice snapshots values. Later mutation of the values slice by the
// caller has no effect on the returned StringSlice.
func NewStringSlice(values []string) StringSlice {
	cp := make([]string, len(values))
	copy(cp, values)
	return StringSlice{values: cp}
}

// Slice returns an independent copy of the wrapped strings.
func (s StringSlice) Slice() []string {
	cp := make([]string, len(s.values))
	copy(cp, s.values)
	return cp
}

// Append returns a new StringSlice with v appended, leaving s unmodified.
func (s StringSlice) Append(v string) StringSlice {
	cp := make([]string, len(s.values)+1)
	copy(cp, s.values)
	cp[len(s.values)] = v
	return StringSlice{values: cp}
}
