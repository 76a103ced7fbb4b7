// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wirepb

import (
	"fmt"

	"buf.build/go/wirepb/internal/wire"
)

// Sentinel errors surfaced by [Message.Unmarshal]. Match them with
// [errors.Is]; the concrete error is always a [*Error] carrying position
// context.
var (
	// ErrTruncated is io.ErrUnexpectedEOF: the buffer ended in the middle of
	// a tag, a length prefix, or a value.
	ErrTruncated = wire.ErrTruncated
	// ErrOverflow reports a varint that exceeds the 10-byte cap or carries
	// bits past bit 63.
	ErrOverflow = wire.ErrOverflow
	// ErrFieldNumber reports a tag with field number zero or out of range.
	ErrFieldNumber = wire.ErrFieldNumber
	// ErrWireType reports a tag whose wire type bits are not one of the four
	// supported layouts.
	ErrWireType = wire.ErrWireType
	// ErrReserved reports the legacy start/end-group wire types, which this
	// codec does not support.
	ErrReserved = wire.ErrReserved
	// ErrMalformedPacked reports a packed payload whose length is not a
	// multiple of the element width, or whose final varint element runs past
	// the declared length.
	ErrMalformedPacked = wire.ErrMalformedPacked
	// ErrUTF8 reports invalid UTF-8 in a string field. String fields are
	// validated at decode time; see [WithAllowInvalidUTF8].
	ErrUTF8 = wire.ErrUTF8
	// ErrTooDeep reports message nesting beyond the configured limit; see
	// [WithMaxDepth].
	ErrTooDeep = wire.ErrTooDeep
	// ErrTooBig reports an input larger than 4 GiB, which cannot be
	// addressed by the codec's 32-bit zero-copy offsets.
	ErrTooBig = wire.ErrTooBig
)

// Error is the error type returned by parsing operations.
type Error struct {
	err    error
	offset int
	num    int32
}

// Offset returns the byte offset into the top-level input at which the
// error occurred. Offsets are absolute even for errors inside nested
// messages.
func (e *Error) Offset() int { return e.offset }

// FieldNumber returns the field being decoded when the error occurred, or
// zero if the error happened before a field was identified.
func (e *Error) FieldNumber() int32 { return e.num }

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *Error) Unwrap() error { return e.err }

// Error implements [error].
func (e *Error) Error() string {
	if e.num != 0 {
		return fmt.Sprintf("wirepb: parse error at offset %d/%#x, field %d: %v",
			e.offset, e.offset, e.num, e.err)
	}
	return fmt.Sprintf("wirepb: parse error at offset %d/%#x: %v", e.offset, e.offset, e.err)
}

// errAt wraps err with position context, unless it is already wrapped.
func errAt(err error, offset int, num int32) error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{err: err, offset: offset, num: num}
}
