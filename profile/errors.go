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

package profile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies an Error by which stage of the pipeline produced it.
type Kind int

const (
	// KindUncompressFailed means the gzip front-end could not inflate the input.
	KindUncompressFailed Kind = iota
	// KindDecodeField means the wire reader or a message decoder rejected the input.
	KindDecodeField
	// KindValidation means a decoded, linked Profile failed a structural check.
	KindValidation
	// KindIO means the input could not be read at all.
	KindIO
	// KindUnknown is a catch-all for failures that don't fit the other kinds.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindUncompressFailed:
		return "ProfileUncompressFailed"
	case KindDecodeField:
		return "DecodeFieldFailed"
	case KindValidation:
		return "ValidationFailed"
	case KindIO:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the single error type the package's top-level entry points
// return. Every failure in decode, link, or validate is reported as one of
// these, tagged with the Kind that names which stage produced it and a
// correlation ID a caller can grep out of logs.
type Error struct {
	Kind   Kind
	Reason string
	ID     string
	cause  error
}

func newError(kind Kind, cause error) *Error {
	return &Error{
		Kind:   kind,
		Reason: cause.Error(),
		ID:     uuid.NewString(),
		cause:  cause,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s [id=%s]", e.Kind, e.Reason, e.ID)
}

// Unwrap exposes the underlying cause so callers can match against the
// sentinel errors in the pproflite package with errors.Is.
func (e *Error) Unwrap() error {
	return e.cause
}

func uncompressFailed(cause error) error  { return newError(KindUncompressFailed, cause) }
func decodeFieldFailed(cause error) error { return newError(KindDecodeField, cause) }
func validationFailed(reason string) error {
	return newError(KindValidation, errors.New(reason))
}
// IOFailed wraps cause as a KindIO Error. It is exported so callers outside
// this package (e.g. the CLI, reading a profile off disk) can report a
// read failure through the same Error taxonomy as Decode's internal stages.
func IOFailed(cause error) error { return newError(KindIO, cause) }
