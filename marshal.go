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
	"encoding/binary"

	"buf.build/go/wirepb/internal/leb128"
	"buf.build/go/wirepb/internal/packed"
	"buf.build/go/wirepb/internal/wire"
)

// Marshal encodes m into the binary wire format.
//
// The output is deterministic: declared fields are written in field-number
// order, packed encoding is used for every packable repeated scalar, and
// retained unknown fields follow verbatim in their original occurrence
// order. A decode/encode round trip therefore reproduces unknown fields'
// tag and value content exactly, though not necessarily their original
// position between known fields.
//
// Marshal forces any still-deferred sub-messages first, so it can fail
// with the deferred segment's parse error.
func (m *Message) Marshal() ([]byte, error) {
	return m.MarshalAppend(nil)
}

// MarshalAppend is like [Message.Marshal], appending to buf.
func (m *Message) MarshalAppend(buf []byte) ([]byte, error) {
	if err := m.force(); err != nil {
		return nil, err
	}
	n := m.size()
	if cap(buf)-len(buf) < n {
		grown := make([]byte, len(buf), len(buf)+n)
		copy(grown, buf)
		buf = grown
	}
	return m.encode(buf), nil
}

// Size returns the number of bytes [Message.Marshal] would produce. Like
// Marshal it forces deferred sub-messages, so it can fail with their parse
// errors.
func (m *Message) Size() (int, error) {
	if err := m.force(); err != nil {
		return 0, err
	}
	return m.size(), nil
}

// force recursively decodes every deferred sub-message so that the
// encoding passes below cannot fail.
func (m *Message) force() error {
	for i := range m.ty.fields {
		f := &m.ty.fields[i]
		v := &m.values[f.index]
		if !v.set || f.arch != archMessage {
			continue
		}
		if f.repeated {
			if v.list == nil {
				continue
			}
			for _, l := range v.list.msgs {
				sub, err := l.Force()
				if err != nil {
					return err
				}
				if err := sub.force(); err != nil {
					return err
				}
			}
			continue
		}
		if v.msg == nil {
			continue
		}
		sub, err := v.msg.Force()
		if err != nil {
			return err
		}
		if err := sub.force(); err != nil {
			return err
		}
	}
	return nil
}

// size returns the encoded length of m. Every Lazy must be forced.
func (m *Message) size() int {
	var n int
	for i := range m.ty.fields {
		f := &m.ty.fields[i]
		v := &m.values[f.index]
		if !v.set {
			continue
		}
		if f.repeated {
			n += m.repeatedSize(f, v.list)
			continue
		}
		switch f.arch {
		case archVarint, archZigzag:
			n += wire.KeyLen(f.num) + leb128.Len(v.bits)
		case archFixed32:
			n += wire.KeyLen(f.num) + 4
		case archFixed64:
			n += wire.KeyLen(f.num) + 8
		case archString, archBytes:
			n += wire.KeyLen(f.num) + leb128.Len(uint64(v.span.Len())) + v.span.Len()
		case archMessage:
			sz := v.msg.msg.size()
			n += wire.KeyLen(f.num) + leb128.Len(uint64(sz)) + sz
		}
	}
	for _, u := range m.unknown {
		n += u.raw.Len()
	}
	return n
}

func (m *Message) repeatedSize(f *field, r *Repeated) int {
	if r == nil || r.Len() == 0 {
		return 0
	}
	var n int
	switch f.arch {
	case archVarint, archZigzag:
		sz := packed.VarintsLen(r.nums)
		n = wire.KeyLen(f.num) + leb128.Len(uint64(sz)) + sz
	case archFixed32:
		sz := 4 * len(r.nums)
		n = wire.KeyLen(f.num) + leb128.Len(uint64(sz)) + sz
	case archFixed64:
		sz := 8 * len(r.nums)
		n = wire.KeyLen(f.num) + leb128.Len(uint64(sz)) + sz
	case archString, archBytes:
		for _, span := range r.spans {
			n += wire.KeyLen(f.num) + leb128.Len(uint64(span.Len())) + span.Len()
		}
	case archMessage:
		for _, l := range r.msgs {
			sz := l.msg.size()
			n += wire.KeyLen(f.num) + leb128.Len(uint64(sz)) + sz
		}
	}
	return n
}

// encode writes m to buf in the deterministic field order. Every Lazy must
// be forced.
func (m *Message) encode(buf []byte) []byte {
	for i := range m.ty.fields {
		f := &m.ty.fields[i]
		v := &m.values[f.index]
		if !v.set {
			continue
		}
		if f.repeated {
			buf = m.encodeRepeated(buf, f, v.list)
			continue
		}
		switch f.arch {
		case archVarint, archZigzag:
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeVarint})
			buf = leb128.Append(buf, v.bits)
		case archFixed32:
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeFixed32})
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v.bits))
		case archFixed64:
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeFixed64})
			buf = binary.LittleEndian.AppendUint64(buf, v.bits)
		case archString, archBytes:
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
			buf = leb128.Append(buf, uint64(v.span.Len()))
			buf = append(buf, v.span.Bytes(m.src)...)
		case archMessage:
			sub := v.msg.msg
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
			buf = leb128.Append(buf, uint64(sub.size()))
			buf = sub.encode(buf)
		}
	}
	for _, u := range m.unknown {
		buf = append(buf, u.raw.Bytes(m.src)...)
	}
	return buf
}

func (m *Message) encodeRepeated(buf []byte, f *field, r *Repeated) []byte {
	if r == nil || r.Len() == 0 {
		return buf
	}
	switch f.arch {
	case archVarint, archZigzag:
		buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
		buf = leb128.Append(buf, uint64(packed.VarintsLen(r.nums)))
		buf = packed.EncodeVarints(buf, r.nums)
	case archFixed32:
		buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
		buf = leb128.Append(buf, uint64(4*len(r.nums)))
		buf = packed.EncodeFixed32s(buf, r.nums)
	case archFixed64:
		buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
		buf = leb128.Append(buf, uint64(8*len(r.nums)))
		buf = packed.EncodeFixed64s(buf, r.nums)
	case archString, archBytes:
		for _, span := range r.spans {
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
			buf = leb128.Append(buf, uint64(span.Len()))
			buf = append(buf, span.Bytes(m.src)...)
		}
	case archMessage:
		for _, l := range r.msgs {
			buf = wire.AppendKey(buf, wire.Key{Num: f.num, Type: wire.TypeLen})
			buf = leb128.Append(buf, uint64(l.msg.size()))
			buf = l.msg.encode(buf)
		}
	}
	return buf
}
