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
	"math"

	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/wirepb/internal/zc"
	"buf.build/go/wirepb/internal/zigzag"
)

// Repeated holds the elements of a repeated field in decode order.
// Append-only during decode; duplicates are allowed; packed and
// per-element wire forms accumulate into the same sequence.
//
// Scalar elements are stored as raw wire bit patterns widened to 64 bits;
// string, bytes and message elements are stored as ranges into the shared
// input, so no element is copied during decode.
type Repeated struct {
	m    *Message
	arch archetype
	kind protoreflect.Kind

	nums  []uint64
	spans []zc.Range
	msgs  []*Lazy
}

// Len returns the number of elements.
func (r *Repeated) Len() int {
	if r == nil {
		return 0
	}
	switch r.arch {
	case archString, archBytes:
		return len(r.spans)
	case archMessage:
		return len(r.msgs)
	default:
		return len(r.nums)
	}
}

// Uint64 returns element i of an unsigned integer field.
func (r *Repeated) Uint64(i int) uint64 { return r.nums[i] }

// Uint32 returns element i of a fixed32 or uint32 field.
func (r *Repeated) Uint32(i int) uint32 { return uint32(r.nums[i]) }

// Int64 returns element i of a signed integer field, zigzag-decoding for
// sint kinds.
func (r *Repeated) Int64(i int) int64 {
	if r.arch == archZigzag {
		return zigzag.Decode64[int64](r.nums[i])
	}
	return int64(r.nums[i])
}

// Int32 returns element i of a 32-bit signed integer field.
func (r *Repeated) Int32(i int) int32 {
	if r.arch == archZigzag {
		return zigzag.Decode64[int32](r.nums[i])
	}
	return int32(r.nums[i])
}

// Bool returns element i of a bool field.
func (r *Repeated) Bool(i int) bool { return r.nums[i] != 0 }

// Float64 returns element i of a double field.
func (r *Repeated) Float64(i int) float64 { return math.Float64frombits(r.nums[i]) }

// Float32 returns element i of a float field.
func (r *Repeated) Float32(i int) float32 { return math.Float32frombits(uint32(r.nums[i])) }

// String returns element i of a string field.
func (r *Repeated) String(i int) string { return r.spans[i].String(r.m.src) }

// Bytes returns element i of a bytes field as a view into the decoded
// input.
func (r *Repeated) Bytes(i int) []byte { return r.spans[i].Bytes(r.m.src) }

// Message returns element i of a message field, decoding it on first
// access.
func (r *Repeated) Message(i int) (*Message, error) { return r.msgs[i].Force() }
