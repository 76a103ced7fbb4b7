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
	"math"
	"unicode/utf8"

	"buf.build/go/wirepb/internal/wire"
	"buf.build/go/wirepb/internal/zc"
	"buf.build/go/wirepb/internal/zigzag"
)

// Message is a decoded message value: a mapping from declared field numbers
// to values, plus the set of wire records the schema did not recognize.
//
// A Message is created empty by [New], populated either by
// [Message.Unmarshal] or by the Set/Append builder methods, and should be
// treated as immutable once decode returns. String and bytes accessors
// return views into the input buffer; the Message keeps that buffer alive,
// so a decoded Message and everything read from it may outlive the decode
// call and move across goroutines freely, provided nothing mutates it.
type Message struct {
	ty  *Type
	src []byte // decoded: the input buffer; built: owned scratch

	values  []value
	unknown []unknown
}

// value is one field slot. Exactly one of the payload members is
// meaningful, picked by the field's archetype; bits holds every scalar as
// its raw wire bit pattern.
type value struct {
	set  bool
	bits uint64
	span zc.Range
	msg  *Lazy
	list *Repeated
}

// unknown is a retained wire record for a field number the schema does not
// declare. raw spans the whole record, tag included, so re-encoding it is a
// verbatim byte copy; val spans just the value for content comparison.
type unknown struct {
	num int32
	typ wire.Type
	raw zc.Range
	val zc.Range
}

// UnknownField is one preserved occurrence of an unrecognized field.
type UnknownField struct {
	// Num is the field number the record carried.
	Num int32
	// Raw holds the record verbatim, tag through value. It aliases the
	// decoded input.
	Raw []byte
}

// New allocates a new empty [Message] of the given [Type].
func New(ty *Type) *Message {
	return &Message{ty: ty, values: make([]value, len(ty.fields))}
}

// Type returns the compiled type this message was created with.
func (m *Message) Type() *Type { return m.ty }

// field resolves a field number, panicking for numbers the schema does not
// declare; reading or writing an undeclared field is a programming error,
// not an input error.
func (m *Message) field(num int32) *field {
	f := m.ty.fieldByNumber(num)
	if f == nil {
		panic(fmt.Sprintf("wirepb: %v has no field %d", m.ty.desc.FullName(), num))
	}
	return f
}

// Has reports whether the field was explicitly present: decoded from the
// wire or set by a builder method. Repeated fields report true once they
// have at least one element.
func (m *Message) Has(num int32) bool {
	v := m.values[m.field(num).index]
	if v.list != nil {
		return v.list.Len() > 0
	}
	return v.set
}

// GetUint64 returns a uint32, uint64, or enum field's value, or zero when
// absent.
func (m *Message) GetUint64(num int32) uint64 {
	return m.values[m.field(num).index].bits
}

// GetUint32 returns a fixed32 or uint32 field's value.
func (m *Message) GetUint32(num int32) uint32 {
	return uint32(m.GetUint64(num))
}

// GetInt64 returns a signed integer field's value. Zigzag decoding is
// applied for sint32/sint64 fields.
func (m *Message) GetInt64(num int32) int64 {
	f := m.field(num)
	bits := m.values[f.index].bits
	if f.arch == archZigzag {
		return zigzag.Decode64[int64](bits)
	}
	return int64(bits)
}

// GetInt32 returns a 32-bit signed integer field's value.
func (m *Message) GetInt32(num int32) int32 {
	f := m.field(num)
	bits := m.values[f.index].bits
	if f.arch == archZigzag {
		return zigzag.Decode64[int32](bits)
	}
	return int32(bits)
}

// GetBool returns a bool field's value.
func (m *Message) GetBool(num int32) bool {
	return m.GetUint64(num) != 0
}

// GetFloat64 returns a double field's value.
func (m *Message) GetFloat64(num int32) float64 {
	return math.Float64frombits(m.GetUint64(num))
}

// GetFloat32 returns a float field's value.
func (m *Message) GetFloat32(num int32) float32 {
	return math.Float32frombits(uint32(m.GetUint64(num)))
}

// GetString returns a string field's value. The bytes were UTF-8 validated
// when the field was decoded or set.
func (m *Message) GetString(num int32) string {
	return m.values[m.field(num).index].span.String(m.src)
}

// GetBytes returns a bytes field's value as a view into the decoded input;
// no copy occurs.
func (m *Message) GetBytes(num int32) []byte {
	return m.values[m.field(num).index].span.Bytes(m.src)
}

// GetMessage returns a singular message field's value, decoding it on
// first access. Returns nil when the field is absent. The error reports a
// malformed sub-message, positioned relative to the top-level input.
func (m *Message) GetMessage(num int32) (*Message, error) {
	v := m.values[m.field(num).index]
	if v.msg == nil {
		return nil, nil
	}
	return v.msg.Force()
}

// GetRepeated returns a repeated field's elements, or nil when no element
// was decoded or appended.
func (m *Message) GetRepeated(num int32) *Repeated {
	return m.values[m.field(num).index].list
}

// Unknown returns the retained unrecognized fields in wire order.
func (m *Message) Unknown() []UnknownField {
	if len(m.unknown) == 0 {
		return nil
	}
	out := make([]UnknownField, len(m.unknown))
	for i, u := range m.unknown {
		out[i] = UnknownField{Num: u.num, Raw: u.raw.Bytes(m.src)}
	}
	return out
}

// Builder methods. These construct a message for encoding; they must not be
// mixed with Unmarshal on the same Message.

// SetUint64 sets a varint, fixed64, or enum field.
func (m *Message) SetUint64(num int32, v uint64) {
	f := m.field(num)
	m.values[f.index].set = true
	m.values[f.index].bits = v
}

// SetInt64 sets a signed integer field, zigzag-encoding for sint kinds.
func (m *Message) SetInt64(num int32, v int64) {
	f := m.field(num)
	bits := uint64(v)
	if f.arch == archZigzag {
		bits = zigzag.Encode(v)
	}
	m.values[f.index].set = true
	m.values[f.index].bits = bits
}

// SetInt32 sets a 32-bit signed integer field.
//
// Plain int32 fields sign-extend on the wire, matching every protobuf
// runtime; sint32 fields zigzag-encode instead.
func (m *Message) SetInt32(num int32, v int32) {
	f := m.field(num)
	bits := uint64(v)
	if f.arch == archZigzag {
		bits = zigzag.Encode32(v)
	}
	m.values[f.index].set = true
	m.values[f.index].bits = bits
}

// SetBool sets a bool field.
func (m *Message) SetBool(num int32, v bool) {
	var bits uint64
	if v {
		bits = 1
	}
	m.SetUint64(num, bits)
}

// SetFloat64 sets a double field.
func (m *Message) SetFloat64(num int32, v float64) {
	m.SetUint64(num, math.Float64bits(v))
}

// SetFloat32 sets a float field.
func (m *Message) SetFloat32(num int32, v float32) {
	m.SetUint64(num, uint64(math.Float32bits(v)))
}

// SetString sets a string field. Returns [ErrUTF8] if s is not valid
// UTF-8; the strict validation policy applies on both sides of the codec.
func (m *Message) SetString(num int32, s string) error {
	if !utf8.ValidString(s) {
		return &Error{err: wire.ErrUTF8, num: num}
	}
	f := m.field(num)
	m.values[f.index].set = true
	m.values[f.index].span = m.intern([]byte(s))
	return nil
}

// SetBytes sets a bytes field. The contents are copied.
func (m *Message) SetBytes(num int32, b []byte) {
	f := m.field(num)
	m.values[f.index].set = true
	m.values[f.index].span = m.intern(b)
}

// SetMessage sets a singular message field to an already-built message.
func (m *Message) SetMessage(num int32, sub *Message) {
	f := m.field(num)
	m.values[f.index].set = true
	m.values[f.index].msg = builtLazy(sub)
}

// AppendUint64 appends to a repeated varint or fixed-width field.
func (m *Message) AppendUint64(num int32, v uint64) {
	r := m.list(m.field(num))
	r.nums = append(r.nums, v)
}

// AppendInt64 appends to a repeated signed integer field, zigzag-encoding
// for sint kinds.
func (m *Message) AppendInt64(num int32, v int64) {
	f := m.field(num)
	bits := uint64(v)
	if f.arch == archZigzag {
		bits = zigzag.Encode(v)
	}
	r := m.list(f)
	r.nums = append(r.nums, bits)
}

// AppendString appends to a repeated string field, validating UTF-8.
func (m *Message) AppendString(num int32, s string) error {
	if !utf8.ValidString(s) {
		return &Error{err: wire.ErrUTF8, num: num}
	}
	r := m.list(m.field(num))
	r.spans = append(r.spans, m.intern([]byte(s)))
	return nil
}

// AppendBytes appends to a repeated bytes field. The contents are copied.
func (m *Message) AppendBytes(num int32, b []byte) {
	r := m.list(m.field(num))
	r.spans = append(r.spans, m.intern(b))
}

// AppendMessage appends an already-built message to a repeated message
// field.
func (m *Message) AppendMessage(num int32, sub *Message) {
	r := m.list(m.field(num))
	r.msgs = append(r.msgs, builtLazy(sub))
}

// intern copies b into the message-owned scratch buffer and returns its
// range. Offsets stay valid across reallocation because scratch is
// append-only.
func (m *Message) intern(b []byte) zc.Range {
	start := len(m.src)
	m.src = append(m.src, b...)
	return zc.New(start, len(b))
}

// list returns the field's element accumulator, creating it on first use.
func (m *Message) list(f *field) *Repeated {
	v := &m.values[f.index]
	if v.list == nil {
		v.list = &Repeated{m: m, arch: f.arch, kind: f.kind}
		v.set = true
	}
	return v.list
}
