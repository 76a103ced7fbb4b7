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

// Package leb128 implements the LEB128 variable-length integer encoding
// that underlies the Protobuf wire format.
//
// Every value is encoded as a sequence of bytes carrying 7 payload bits
// each; the high bit of each byte signals continuation. A uint64 therefore
// occupies between 1 and [MaxLen] bytes. Decoding accepts non-canonical
// (overlong) encodings up to the 10-byte cap, and rejects anything that
// carries bits past bit 63.
package leb128

import "math/bits"

// MaxLen is the maximum number of bytes a LEB128-encoded uint64 can occupy.
const MaxLen = 10

// Decode decodes a varint from the front of b.
//
// It returns the decoded value and the number of bytes consumed. The count
// is zero if b ends before a terminating byte is found, and negative if the
// encoding exceeds the 10-byte cap or sets bits past bit 63. The value is
// zero in both failure cases.
//
// When at least 16 bytes are available the branchless batch path is used;
// it is byte-for-byte equivalent to the scalar path for every input.
func Decode(b []byte) (uint64, int) {
	if batchEnabled && len(b) >= batchLen {
		return decodeBatch(b)
	}
	return decodeScalar(b)
}

// decodeScalar is the portable byte-at-a-time decode path.
func decodeScalar(b []byte) (uint64, int) {
	// Fast path: one-byte varints dominate real messages, both as small
	// scalar values and as tags and length prefixes.
	if len(b) > 0 && b[0] < 0x80 {
		return uint64(b[0]), 1
	}

	var x uint64
	for i := 0; i < len(b); i++ {
		c := b[i]
		if i == MaxLen-1 {
			// The 10th byte may only contribute the last remaining bit of a
			// uint64. Anything else either overflows 64 bits or continues
			// past the cap.
			if c > 1 {
				return 0, -1
			}
			return x | uint64(c)<<63, MaxLen
		}
		x |= uint64(c&0x7f) << (7 * i)
		if c < 0x80 {
			return x, i + 1
		}
	}
	return 0, 0
}

// Append appends the encoding of v to buf and returns the extended buffer.
func Append(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// lzToLen maps bits.LeadingZeros64 results (0-64) to the minimal encoded
// byte count: ceil((64-lz)/7), minimum 1. A table lookup beats the division
// and avoids a branch for the zero case.
var lzToLen = [65]byte{
	10,
	9, 9, 9, 9, 9, 9, 9,
	8, 8, 8, 8, 8, 8, 8,
	7, 7, 7, 7, 7, 7, 7,
	6, 6, 6, 6, 6, 6, 6,
	5, 5, 5, 5, 5, 5, 5,
	4, 4, 4, 4, 4, 4, 4,
	3, 3, 3, 3, 3, 3, 3,
	2, 2, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 1, 1, 1,
}

// Len returns the number of bytes Append would write for v.
func Len(v uint64) int {
	return int(lzToLen[bits.LeadingZeros64(v)])
}
