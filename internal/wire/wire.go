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

// Package wire implements the record layer of the Protobuf wire format:
// field keys, wire types, and a bounds-checked cursor over a shared input
// buffer.
package wire

import (
	"errors"
	"io"

	"buf.build/go/wirepb/internal/leb128"
)

// Errors shared by every layer of the codec. The root package re-exports
// these as its public sentinels.
var (
	ErrTruncated       = io.ErrUnexpectedEOF
	ErrOverflow        = errors.New("variable length integer overflow")
	ErrFieldNumber     = errors.New("invalid field number")
	ErrWireType        = errors.New("invalid wire type")
	ErrReserved        = errors.New("cannot parse reserved group wire type")
	ErrMalformedPacked = errors.New("malformed packed field")
	ErrUTF8            = errors.New("invalid UTF-8 in string")
	ErrTooDeep         = errors.New("exceeded maximum recursion depth")
	ErrTooBig          = errors.New("input longer than 4GiB")
)

// Type denotes the physical layout of a field in an encoded message.
type Type int8

const (
	// TypeVarint is used for int32, int64, uint32, uint64, sint32, sint64,
	// bool and enum fields.
	TypeVarint Type = 0
	// TypeFixed64 is used for fixed64, sfixed64 and double fields.
	TypeFixed64 Type = 1
	// TypeLen is used for string, bytes, message and packed repeated fields.
	TypeLen Type = 2
	// TypeStartGroup and TypeEndGroup delimit the legacy group encoding,
	// which this codec rejects.
	TypeStartGroup Type = 3
	TypeEndGroup   Type = 4
	// TypeFixed32 is used for fixed32, sfixed32 and float fields.
	TypeFixed32 Type = 5
)

// Field number bounds. The 19000-19999 band is reserved by the descriptor
// language; it is valid on the wire, so the cursor does not reject it.
const (
	MinNumber = 1
	MaxNumber = 1<<29 - 1
)

// Key is a decoded field key: a field number paired with a wire type.
type Key struct {
	Num  int32
	Type Type
}

// checkType validates the wire-type bits of a raw key.
func checkType(t Type) error {
	switch t {
	case TypeVarint, TypeFixed64, TypeLen, TypeFixed32:
		return nil
	case TypeStartGroup, TypeEndGroup:
		return ErrReserved
	default:
		return ErrWireType
	}
}

// AppendKey appends the encoding of k to buf.
func AppendKey(buf []byte, k Key) []byte {
	return leb128.Append(buf, uint64(k.Num)<<3|uint64(k.Type))
}

// KeyLen returns the encoded length of a key with the given field number.
//
// The wire type lives in the low three bits and never changes the length.
func KeyLen(num int32) int {
	return leb128.Len(uint64(num) << 3)
}

// Cursor is a forward-only reader over a bounded window of the shared input
// buffer. Sub-cursors produced by [Cursor.Sub] share the buffer but can
// never read outside their own window, which is what keeps a corrupted
// nested length from reaching sibling data.
type Cursor struct {
	src      []byte
	pos, end int
}

// NewCursor returns a cursor over all of src.
func NewCursor(src []byte) Cursor {
	return Cursor{src: src, end: len(src)}
}

// Pos returns the cursor's offset in the shared buffer. Offsets are always
// relative to the top-level input, so they are meaningful in errors even
// when the cursor is deeply nested.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes in the cursor's window.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// Done reports whether the window is exhausted.
func (c *Cursor) Done() bool { return c.pos == c.end }

// Varint reads a LEB128 varint.
func (c *Cursor) Varint() (uint64, error) {
	v, n := leb128.Decode(c.window())
	if n <= 0 {
		if n == 0 {
			return 0, ErrTruncated
		}
		return 0, ErrOverflow
	}
	c.pos += n
	return v, nil
}

// Fixed32 reads a little-endian 32-bit value.
func (c *Cursor) Fixed32() (uint32, error) {
	w := c.window()
	if len(w) < 4 {
		return 0, ErrTruncated
	}
	v := uint32(w[0]) | uint32(w[1])<<8 | uint32(w[2])<<16 | uint32(w[3])<<24
	c.pos += 4
	return v, nil
}

// Fixed64 reads a little-endian 64-bit value.
func (c *Cursor) Fixed64() (uint64, error) {
	w := c.window()
	if len(w) < 8 {
		return 0, ErrTruncated
	}
	v := uint64(w[0]) | uint64(w[1])<<8 | uint64(w[2])<<16 | uint64(w[3])<<24 |
		uint64(w[4])<<32 | uint64(w[5])<<40 | uint64(w[6])<<48 | uint64(w[7])<<56
	c.pos += 8
	return v, nil
}

// Key reads and validates a field key.
//
// Keys always fit in 32 bits: the largest valid key is
// (2^29-1)<<3 | 7 == MaxUint32, so any larger varint is a field number
// error, not an overflow.
func (c *Cursor) Key() (Key, error) {
	raw, err := c.Varint()
	if err != nil {
		return Key{}, err
	}
	if raw > 1<<32-1 || raw>>3 < MinNumber {
		return Key{}, ErrFieldNumber
	}
	k := Key{Num: int32(raw >> 3), Type: Type(raw & 0b111)}
	if err := checkType(k.Type); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Len reads the length prefix of a length-delimited value and validates it
// against the window, so the subsequent [Cursor.Sub] cannot fail.
func (c *Cursor) Len() (int, error) {
	v, err := c.Varint()
	if err != nil {
		return 0, err
	}
	if v > uint64(c.Remaining()) {
		return 0, ErrTruncated
	}
	return int(v), nil
}

// Sub carves the next n bytes into a bounded sub-cursor and advances past
// them.
func (c *Cursor) Sub(n int) (Cursor, error) {
	if n < 0 || n > c.Remaining() {
		return Cursor{}, ErrTruncated
	}
	sub := Cursor{src: c.src, pos: c.pos, end: c.pos + n}
	c.pos += n
	return sub, nil
}

// Skip consumes a value of the given wire type without interpreting it.
// This is how unrecognized fields stay decodable for forward compatibility.
func (c *Cursor) Skip(t Type) error {
	switch t {
	case TypeVarint:
		_, err := c.Varint()
		return err
	case TypeFixed64:
		return c.advance(8)
	case TypeFixed32:
		return c.advance(4)
	case TypeLen:
		n, err := c.Len()
		if err != nil {
			return err
		}
		return c.advance(n)
	default:
		return checkType(t)
	}
}

func (c *Cursor) advance(n int) error {
	if n > c.Remaining() {
		return ErrTruncated
	}
	c.pos += n
	return nil
}

// Advance moves the cursor forward by n bytes, which must not exceed
// [Cursor.Remaining].
func (c *Cursor) Advance(n int) error { return c.advance(n) }

// window returns the unread portion of the cursor's bounded view.
func (c *Cursor) window() []byte { return c.src[c.pos:c.end] }

// Window exposes the unread bytes of the cursor; used by the packed codec,
// which consumes whole payloads at a time.
func (c *Cursor) Window() []byte { return c.window() }
