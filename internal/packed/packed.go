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

// Package packed bulk-decodes and encodes packed repeated scalar payloads.
//
// Decoded elements are widened to uint64 bit patterns regardless of their
// declared width; the message layer reinterprets them per field kind. This
// keeps one storage shape for every packed array.
package packed

import (
	"encoding/binary"

	"buf.build/go/wirepb/internal/leb128"
	"buf.build/go/wirepb/internal/wire"
)

// AppendVarints decodes a packed varint payload, appending each element to
// dst. Elements are decoded back-to-back; a varint that would run past the
// end of the payload, or trailing garbage that is not a whole varint, is a
// malformed packed field.
func AppendVarints(dst []uint64, payload []byte) ([]uint64, error) {
	for len(payload) > 0 {
		v, n := leb128.Decode(payload)
		if n <= 0 {
			return dst, wire.ErrMalformedPacked
		}
		dst = append(dst, v)
		payload = payload[n:]
	}
	return dst, nil
}

// AppendFixed32s decodes a packed fixed32/sfixed32/float payload.
//
// The payload length must be an exact multiple of four. Elements are read
// four at a time while a full 16-byte block remains; the tail falls back to
// single loads. Both paths produce identical values for every input, which
// packed_test.go verifies.
func AppendFixed32s(dst []uint64, payload []byte) ([]uint64, error) {
	if len(payload)%4 != 0 {
		return dst, wire.ErrMalformedPacked
	}
	for len(payload) >= 16 {
		dst = append(dst,
			uint64(binary.LittleEndian.Uint32(payload)),
			uint64(binary.LittleEndian.Uint32(payload[4:])),
			uint64(binary.LittleEndian.Uint32(payload[8:])),
			uint64(binary.LittleEndian.Uint32(payload[12:])),
		)
		payload = payload[16:]
	}
	for len(payload) > 0 {
		dst = append(dst, uint64(binary.LittleEndian.Uint32(payload)))
		payload = payload[4:]
	}
	return dst, nil
}

// AppendFixed64s decodes a packed fixed64/sfixed64/double payload.
//
// The payload length must be an exact multiple of eight; elements are read
// four at a time while a 32-byte block remains.
func AppendFixed64s(dst []uint64, payload []byte) ([]uint64, error) {
	if len(payload)%8 != 0 {
		return dst, wire.ErrMalformedPacked
	}
	for len(payload) >= 32 {
		dst = append(dst,
			binary.LittleEndian.Uint64(payload),
			binary.LittleEndian.Uint64(payload[8:]),
			binary.LittleEndian.Uint64(payload[16:]),
			binary.LittleEndian.Uint64(payload[24:]),
		)
		payload = payload[32:]
	}
	for len(payload) > 0 {
		dst = append(dst, binary.LittleEndian.Uint64(payload))
		payload = payload[8:]
	}
	return dst, nil
}

// EncodeVarints appends the packed varint encoding of els to buf.
func EncodeVarints(buf []byte, els []uint64) []byte {
	for _, v := range els {
		buf = leb128.Append(buf, v)
	}
	return buf
}

// VarintsLen returns the packed payload length EncodeVarints would produce.
func VarintsLen(els []uint64) int {
	var n int
	for _, v := range els {
		n += leb128.Len(v)
	}
	return n
}

// EncodeFixed32s appends the packed little-endian encoding of els,
// truncated to 32 bits each, to buf.
func EncodeFixed32s(buf []byte, els []uint64) []byte {
	for _, v := range els {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	return buf
}

// EncodeFixed64s appends the packed little-endian encoding of els to buf.
func EncodeFixed64s(buf []byte, els []uint64) []byte {
	for _, v := range els {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return buf
}
