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
	"sync"

	"buf.build/go/wirepb/internal/wire"
	"buf.build/go/wirepb/internal/zc"
)

// Lazy is a deferred sub-message: the bounded byte ranges of its wire
// encoding, decoded on first structural access and cached.
//
// A singular message field that occurs more than once on the wire
// accumulates one range per occurrence; forcing decodes them in order into
// a single message, which is exactly proto3's field-by-field merge
// overlay. The ranges are fixed when the enclosing record is read, and the
// deferred decode runs on a cursor bounded to each range, so it can never
// read sibling data no matter what lengths the nested bytes claim.
//
// Forcing is synchronized, so an un-forced Lazy may be shared across
// goroutines once the enclosing decode has returned.
type Lazy struct {
	ty    *Type
	src   []byte
	spans []zc.Range
	opts  options
	depth int

	once sync.Once
	msg  *Message
	err  error
}

// newLazy records a deferred sub-message decode.
func newLazy(ty *Type, src []byte, span zc.Range, opts options, depth int) *Lazy {
	return &Lazy{ty: ty, src: src, spans: []zc.Range{span}, opts: opts, depth: depth}
}

// builtLazy wraps an already-constructed message, for the builder path.
func builtLazy(m *Message) *Lazy {
	l := &Lazy{msg: m}
	l.once.Do(func() {})
	return l
}

// Force decodes the sub-message on first call and caches the result;
// subsequent calls return the cached value without re-parsing. The cached
// error is sticky too: a malformed lazy segment fails every access the
// same way.
func (l *Lazy) Force() (*Message, error) {
	l.once.Do(func() {
		m := New(l.ty)
		m.src = l.src
		for _, span := range l.spans {
			c := wire.NewCursor(l.src)
			if err := c.Advance(span.Start()); err != nil {
				l.err = errAt(err, span.Start(), 0)
				return
			}
			sub, err := c.Sub(span.Len())
			if err != nil {
				l.err = errAt(err, span.Start(), 0)
				return
			}
			if err := m.decode(&sub, l.opts, l.depth); err != nil {
				l.err = err
				return
			}
		}
		l.msg = m
	})
	return l.msg, l.err
}
