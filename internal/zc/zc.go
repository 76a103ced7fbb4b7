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

// Package zc provides helpers for working with zero-copy ranges.
package zc

import (
	"fmt"
	"math"

	"buf.build/go/wirepb/internal/debug"
)

// Range is a representation of a []byte as a slice relative to the source
// buffer of a parsed message.
//
// This is a packed representation of a value with the layout
//
//	struct {
//	  offset, len uint32
//	}
//
// The zero value faithfully represents an empty slice.
type Range uint64

// New creates a new Range with the given start offset and length.
//
// Both values must fit in a uint32; parse entry points reject inputs larger
// than 4 GiB before any Range is constructed.
func New(offset, length int) Range {
	debug.Assert(offset >= 0 && length >= 0 &&
		offset <= math.MaxUint32 && length <= math.MaxUint32,
		"range does not fit in zc.Range: [%d:+%d]", offset, length)
	return Range(uint32(offset)) | Range(length)<<32
}

// Start returns the start offset of this range in the message source.
func (r Range) Start() int { return int(uint32(r)) }

// End returns the end offset of this range in the message source.
func (r Range) End() int { return r.Start() + r.Len() }

// Len returns the length of this range.
func (r Range) Len() int { return int(r >> 32) }

// Bytes converts this range into a byte slice, given the message source.
//
// The returned slice aliases src and is valid for as long as src is; no
// copy occurs.
func (r Range) Bytes(src []byte) []byte {
	if r.Len() == 0 {
		return nil
	}
	return src[r.Start():r.End():r.End()]
}

// String converts this range into a string, given the message source.
//
// Unlike [Range.Bytes] this copies, because Go strings are immutable.
func (r Range) String(src []byte) string {
	if r.Len() == 0 {
		return ""
	}
	return string(src[r.Start():r.End()])
}

// Format implements [fmt.Formatter].
func (r Range) Format(s fmt.State, verb rune) {
	fmt.Fprintf(s, "[%d:%d]", r.Start(), r.End())
}
