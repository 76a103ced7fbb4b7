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
	"unicode/utf8"

	"buf.build/go/wirepb/internal/debug"
	"buf.build/go/wirepb/internal/packed"
	"buf.build/go/wirepb/internal/wire"
	"buf.build/go/wirepb/internal/zc"
)

// options collects the tunables for a single Unmarshal call. They propagate
// into lazy sub-message decodes triggered later.
type options struct {
	maxDepth         int
	discardUnknown   bool
	allowInvalidUTF8 bool
}

func newOptions() options {
	return options{maxDepth: 1000}
}

// UnmarshalOption is a configuration setting for [Message.Unmarshal].
type UnmarshalOption struct{ apply func(*options) }

// WithMaxDepth sets the maximum message nesting depth for the parser. The
// default is 1000.
//
// Setting a large value enables potential DoS vectors.
func WithMaxDepth(depth int) UnmarshalOption {
	return UnmarshalOption{func(o *options) { o.maxDepth = depth }}
}

// WithDiscardUnknown sets whether fields absent from the schema are
// discarded while parsing.
//
// Setting this option breaks round-tripping, but speeds up messages with
// many unknown fields.
func WithDiscardUnknown(discard bool) UnmarshalOption {
	return UnmarshalOption{func(o *options) { o.discardUnknown = discard }}
}

// WithAllowInvalidUTF8 sets whether UTF-8 validation of string fields is
// skipped. The default policy is strict: invalid sequences reject the whole
// record at decode time rather than propagating silently.
func WithAllowInvalidUTF8(allow bool) UnmarshalOption {
	return UnmarshalOption{func(o *options) { o.allowInvalidUTF8 = allow }}
}

// Unmarshal decodes data into m, which must be freshly created by [New].
//
// The message aliases data; the caller must not modify data for as long as
// the message or anything read from it is reachable. No input, however
// adversarial, makes Unmarshal panic or read outside data: every error is
// reported as a [*Error] with the offending byte offset and, where known,
// the field number.
func (m *Message) Unmarshal(data []byte, opts ...UnmarshalOption) error {
	if m.src != nil {
		panic("wirepb: Unmarshal called on a non-empty message")
	}
	if len(data) > math.MaxUint32 {
		return &Error{err: wire.ErrTooBig}
	}

	o := newOptions()
	for _, opt := range opts {
		if opt.apply != nil {
			opt.apply(&o)
		}
	}

	m.src = data
	c := wire.NewCursor(data)
	return m.decode(&c, o, o.maxDepth)
}

// decode runs the record loop over one bounded window, merging each field
// into m. It is called for the top-level message and, via [Lazy.Force],
// for each deferred sub-message.
func (m *Message) decode(c *wire.Cursor, o options, depth int) error {
	if depth <= 0 {
		return errAt(wire.ErrTooDeep, c.Pos(), 0)
	}

	for !c.Done() {
		start := c.Pos()
		k, err := c.Key()
		if err != nil {
			return errAt(err, start, 0)
		}
		if debug.Enabled {
			debug.Log("key", "field %d, wire type %d at %d", k.Num, k.Type, start)
		}

		f := m.ty.fieldByNumber(k.Num)
		if f == nil || !f.accepts(k.Type) {
			// Forward compatibility: skip the value without interpreting it
			// and retain the whole record for round-tripping.
			valStart := c.Pos()
			if err := c.Skip(k.Type); err != nil {
				return errAt(err, valStart, k.Num)
			}
			if !o.discardUnknown {
				m.unknown = append(m.unknown, unknown{
					num: k.Num,
					typ: k.Type,
					raw: zc.New(start, c.Pos()-start),
					val: zc.New(valStart, c.Pos()-valStart),
				})
			}
			continue
		}

		if err := m.mergeField(c, f, k.Type, o, depth); err != nil {
			return err
		}
	}
	return nil
}

// mergeField decodes one record into its field slot: singular scalars
// overwrite (last occurrence wins), singular messages accumulate merge
// segments, repeated fields append.
func (m *Message) mergeField(c *wire.Cursor, f *field, t wire.Type, o options, depth int) error {
	start := c.Pos()

	if t == wire.TypeLen && f.packable {
		return m.mergePacked(c, f)
	}

	switch f.arch {
	case archVarint, archZigzag:
		v, err := c.Varint()
		if err != nil {
			return errAt(err, start, f.num)
		}
		m.setBits(f, v)

	case archFixed32:
		v, err := c.Fixed32()
		if err != nil {
			return errAt(err, start, f.num)
		}
		m.setBits(f, uint64(v))

	case archFixed64:
		v, err := c.Fixed64()
		if err != nil {
			return errAt(err, start, f.num)
		}
		m.setBits(f, v)

	case archString, archBytes:
		n, err := c.Len()
		if err != nil {
			return errAt(err, start, f.num)
		}
		span := zc.New(c.Pos(), n)
		if err := c.Advance(n); err != nil {
			return errAt(err, start, f.num)
		}
		if f.utf8 && !o.allowInvalidUTF8 && !utf8.Valid(span.Bytes(m.src)) {
			return errAt(wire.ErrUTF8, span.Start(), f.num)
		}
		if f.repeated {
			r := m.list(f)
			r.spans = append(r.spans, span)
		} else {
			m.values[f.index].set = true
			m.values[f.index].span = span
		}

	case archMessage:
		n, err := c.Len()
		if err != nil {
			return errAt(err, start, f.num)
		}
		sub, err := c.Sub(n)
		if err != nil {
			return errAt(err, start, f.num)
		}
		span := zc.New(sub.Pos(), n)
		if f.repeated {
			r := m.list(f)
			r.msgs = append(r.msgs, newLazy(f.message, m.src, span, o, depth-1))
		} else {
			v := &m.values[f.index]
			if v.msg == nil {
				v.msg = newLazy(f.message, m.src, span, o, depth-1)
				v.set = true
			} else {
				// Second occurrence of a singular message field: proto3
				// merges it field-by-field onto the first. Deferring the
				// extra segment preserves laziness; Force replays them in
				// order, which is the same overlay.
				v.msg.spans = append(v.msg.spans, span)
			}
		}
	}
	return nil
}

// setBits stores a scalar wire value: append for repeated fields,
// last-occurrence-wins for singular ones.
func (m *Message) setBits(f *field, bits uint64) {
	if f.repeated {
		r := m.list(f)
		r.nums = append(r.nums, bits)
		return
	}
	m.values[f.index].set = true
	m.values[f.index].bits = bits
}

// mergePacked decodes a packed scalar run, appending every element.
func (m *Message) mergePacked(c *wire.Cursor, f *field) error {
	start := c.Pos()
	n, err := c.Len()
	if err != nil {
		return errAt(err, start, f.num)
	}
	sub, err := c.Sub(n)
	if err != nil {
		return errAt(err, start, f.num)
	}

	r := m.list(f)
	payload := sub.Window()
	switch f.arch {
	case archVarint, archZigzag:
		r.nums, err = packed.AppendVarints(r.nums, payload)
	case archFixed32:
		r.nums, err = packed.AppendFixed32s(r.nums, payload)
	case archFixed64:
		r.nums, err = packed.AppendFixed64s(r.nums, payload)
	}
	if err != nil {
		return errAt(err, sub.Pos(), f.num)
	}
	return nil
}
