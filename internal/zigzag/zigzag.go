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

// Package zigzag converts between signed integers and their zigzag wire
// representation, which sint32 and sint64 fields use so that small negative
// values stay small on the wire.
package zigzag

import (
	"unsafe"

	"google.golang.org/protobuf/encoding/protowire"
)

// Number is any integer type that can appear zigzag-encoded on the wire.
type Number interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

// Decode decodes a zigzag-encoded value of any type.
//
// The raw value is masked to the width of T first; plain sign extension
// does not decode correctly for 32-bit values.
func Decode[T Number](raw T) T {
	n := uint64(raw)
	n &= 1<<(unsafe.Sizeof(raw)*8) - 1

	return T(protowire.DecodeZigZag(n))
}

// Decode64 is a helper for calling Decode with a raw 64-bit input.
func Decode64[T Number](raw uint64) T {
	return Decode(T(raw))
}

// Encode encodes v into its zigzag wire representation.
func Encode(v int64) uint64 {
	return protowire.EncodeZigZag(v)
}

// Encode32 encodes a 32-bit value; the result always fits in 33 bits.
func Encode32(v int32) uint64 {
	return uint64(uint32(v)<<1) ^ uint64(uint32(v>>31))
}
