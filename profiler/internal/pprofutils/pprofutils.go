// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2021 Datadog, Inc.

// Package pprofutils provides converters between the pprof wire format
// (decoded via github.com/rustatian/rock/profile) and the collapsed-stack
// text format used by flame graph tooling: one line per unique call stack,
// frames separated by ';', followed by one or more space-separated sample
// values.
package pprofutils
