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
	"bytes"
	"sort"

	"buf.build/go/wirepb/internal/wire"
)

// Equal reports whether two messages are structurally equal: the same
// descriptor, the same set of present fields, equal values field by field,
// and the same multiset of retained unknown records.
//
// Equality is presence-sensitive: an absent int32 and an explicitly set
// zero are different messages, because they encode differently. Scalars
// compare by wire bit pattern, so two NaN doubles with the same bits are
// equal while differently-signed zeros are not. Unknown records compare
// as an order-insensitive multiset of (field number, wire type, value
// bytes), since their position between known fields carries no meaning.
//
// Deferred sub-messages are forced as needed; if either side fails to
// decode, the messages are reported unequal.
func Equal(a, b *Message) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.ty.desc.FullName() != b.ty.desc.FullName() {
		return false
	}
	for i := range a.ty.fields {
		f := &a.ty.fields[i]
		if !equalField(a, b, f, b.ty.fieldByNumber(f.num)) {
			return false
		}
	}
	return equalUnknown(a, b)
}

func equalField(a, b *Message, fa, fb *field) bool {
	if fb == nil || fa.arch != fb.arch || fa.repeated != fb.repeated {
		return false
	}
	va, vb := &a.values[fa.index], &b.values[fb.index]
	if fa.repeated {
		return equalRepeated(a, b, fa, va.list, vb.list)
	}
	if a.Has(fa.num) != b.Has(fb.num) {
		return false
	}
	if !va.set {
		return true
	}
	switch fa.arch {
	case archString, archBytes:
		return bytes.Equal(va.span.Bytes(a.src), vb.span.Bytes(b.src))
	case archMessage:
		return equalLazy(va.msg, vb.msg)
	default:
		return va.bits == vb.bits
	}
}

func equalRepeated(a, b *Message, f *field, ra, rb *Repeated) bool {
	if ra.Len() != rb.Len() {
		return false
	}
	if ra.Len() == 0 {
		return true
	}
	switch f.arch {
	case archString, archBytes:
		for i := range ra.spans {
			if !bytes.Equal(ra.spans[i].Bytes(a.src), rb.spans[i].Bytes(b.src)) {
				return false
			}
		}
	case archMessage:
		for i := range ra.msgs {
			if !equalLazy(ra.msgs[i], rb.msgs[i]) {
				return false
			}
		}
	default:
		for i := range ra.nums {
			if ra.nums[i] != rb.nums[i] {
				return false
			}
		}
	}
	return true
}

func equalLazy(la, lb *Lazy) bool {
	ma, err := la.Force()
	if err != nil {
		return false
	}
	mb, err := lb.Force()
	if err != nil {
		return false
	}
	return Equal(ma, mb)
}

// unknownRecord is an unknown occurrence resolved to its bytes, for
// multiset comparison.
type unknownRecord struct {
	num int32
	typ wire.Type
	val []byte
}

func resolveUnknown(m *Message, us []unknown) []unknownRecord {
	out := make([]unknownRecord, len(us))
	for i, u := range us {
		out[i] = unknownRecord{num: u.num, typ: u.typ, val: u.val.Bytes(m.src)}
	}
	sort.Slice(out, func(i, j int) bool {
		switch a, b := out[i], out[j]; {
		case a.num != b.num:
			return a.num < b.num
		case a.typ != b.typ:
			return a.typ < b.typ
		default:
			return bytes.Compare(a.val, b.val) < 0
		}
	})
	return out
}

func equalUnknown(a, b *Message) bool {
	if len(a.unknown) != len(b.unknown) {
		return false
	}
	if len(a.unknown) == 0 {
		return true
	}
	ua, ub := resolveUnknown(a, a.unknown), resolveUnknown(b, b.unknown)
	for i := range ua {
		if ua[i].num != ub[i].num || ua[i].typ != ub[i].typ || !bytes.Equal(ua[i].val, ub[i].val) {
			return false
		}
	}
	return true
}
