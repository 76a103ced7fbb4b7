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

package leb128

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// batchLen is the window the batch decoder consumes per call.
const batchLen = 16

// batchEnabled selects the decode strategy once, at process start. The batch
// path leans on cheap unaligned 8-byte loads, which only the 64-bit targets
// we care about provide; everything else takes the scalar path.
var batchEnabled = runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64"

const msbMask = 0x8080_8080_8080_8080

// decodeBatch decodes a varint from a window of at least 16 bytes without
// branching per input byte.
//
// It loads the window as two little-endian 64-bit words, computes a bitmask
// of the bytes whose continuation bit is clear, finds the terminating byte
// with a trailing-zero count over that mask, and merges the 7-bit payload
// groups with shifts. The result, including the error cases, is identical
// to decodeScalar for every input; leb128_test.go checks this exhaustively
// against random and adversarial windows.
func decodeBatch(b []byte) (uint64, int) {
	_ = b[batchLen-1]
	lo := binary.LittleEndian.Uint64(b)
	hi := binary.LittleEndian.Uint64(b[8:])

	// Bytes whose sign bit was set become zero here, so the lowest set bit
	// marks the terminating byte.
	notLo := ^lo & msbMask
	notHi := ^hi & msbMask

	// Mask away everything after the terminating byte. Subtracting 1 flips
	// the zeros below the lowest set bit; XOR keeps that bit and everything
	// beneath it. When the terminator is not in the low word the subtraction
	// wraps and the mask covers the whole word.
	maskLo := (notLo - 1) ^ notLo
	partLo := maskLo & lo

	var partHi uint64
	if notLo == 0 {
		maskHi := (notHi - 1) ^ notHi
		partHi = maskHi & hi
	}

	// Merge the 7-bit groups. This is the portable equivalent of a PEXT over
	// 0x7f7f...7f: each group moves down by its index. Ripping through all
	// eight groups unconditionally is cheaper than branching on the length.
	x := partLo&0x7f |
		partLo&0x7f00>>1 |
		partLo&0x7f_0000>>2 |
		partLo&0x7f00_0000>>3 |
		partLo&0x7f_0000_0000>>4 |
		partLo&0x7f00_0000_0000>>5 |
		partLo&0x7f_0000_0000_0000>>6 |
		partLo&0x7f00_0000_0000_0000>>7 |
		partHi&0x7f<<56 |
		partHi&0x100<<55

	n := bits.TrailingZeros64(notLo) >> 3
	if notLo == 0 {
		n = 8 + bits.TrailingZeros64(notHi)>>3
	}
	n++

	switch {
	case n > MaxLen:
		return 0, -1
	case n == MaxLen && hi>>8&0xff > 1:
		// Same rule as the scalar path: the 10th byte may only contribute
		// bit 63.
		return 0, -1
	}
	return x, n
}
