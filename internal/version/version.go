// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package version records the release this build of rock was cut from.
package version

// Tag is the git tag this source tree corresponds to. It is bumped as part
// of the release process and is read by TestTag to catch a forgotten bump.
const Tag = "v0.1.0"
