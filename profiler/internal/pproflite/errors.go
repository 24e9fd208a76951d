// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package pproflite

import "errors"

// Sentinel errors wrapped by the field-level failures FieldEach returns.
// Callers that need the decode-field error taxonomy of the profile package
// match against these with errors.Is.
var (
	ErrBadVarint   = errors.New("bad varint")
	ErrTooMuchData = errors.New("length prefix exceeds remaining input")
	ErrDecodeField = errors.New("decode field failed")
)
