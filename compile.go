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
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/wirepb/internal/wire"
)

// Type is a compiled message schema: the per-field table the decode and
// encode loops dispatch on.
//
// Compile a Type once per descriptor and reuse it for every message; it is
// immutable and safe for concurrent use.
type Type struct {
	desc   protoreflect.MessageDescriptor
	fields []field // sorted by field number; encode order

	// Field number lookup: a dense table for small numbers, a map for
	// anything beyond it. Stored values are index+1 so that zero means
	// "no such field".
	dense  []int32
	sparse map[int32]int32
}

// defaultDenseLimit bounds the dense lookup table. Nearly all real schemas
// fit.
const defaultDenseLimit = 256

// archetype classifies a field by its physical wire layout. It decides
// which decode routine runs and how the value is stored.
type archetype uint8

const (
	archVarint  archetype = iota // int32/64, uint32/64, bool, enum
	archZigzag                   // sint32, sint64
	archFixed32                  // fixed32, sfixed32, float
	archFixed64                  // fixed64, sfixed64, double
	archString
	archBytes
	archMessage
)

// field is one entry of a compiled field table.
type field struct {
	num      int32
	index    int32 // dense slot in Message.values
	kind     protoreflect.Kind
	arch     archetype
	repeated bool
	packable bool
	utf8     bool
	message  *Type // nested schema for archMessage
}

// wireType returns the wire type a singular value of this field uses.
func (f *field) wireType() wire.Type {
	switch f.arch {
	case archVarint, archZigzag:
		return wire.TypeVarint
	case archFixed32:
		return wire.TypeFixed32
	case archFixed64:
		return wire.TypeFixed64
	default:
		return wire.TypeLen
	}
}

// accepts reports whether a value with the given wire type can be merged
// into this field. Repeated packable scalars accept both the packed and the
// per-element form, regardless of which one the schema nominally prefers;
// anything else is captured as an unknown field.
func (f *field) accepts(t wire.Type) bool {
	if t == f.wireType() {
		return true
	}
	return f.repeated && f.packable && t == wire.TypeLen
}

// CompileOption is a configuration setting for [Compile].
type CompileOption struct{ apply func(*compiler) }

// WithDenseLimit sets the largest field number served by the compiled
// type's constant-time lookup table; numbers beyond it fall back to a map.
// The default is 256, which covers nearly every real schema without
// letting one huge field number inflate the table.
func WithDenseLimit(limit int32) CompileOption {
	return CompileOption{func(c *compiler) { c.denseLimit = limit }}
}

// Compile builds a [Type] from a message descriptor.
//
// The descriptor typically comes from a registered generated type, from
// [google.golang.org/protobuf/reflect/protodesc], or from a compiled
// descriptor set. Nested and recursive message types are compiled along
// with the root. Map fields are compiled as repeated fields of their
// synthetic entry message. Proto2 group fields are not supported.
func Compile(md protoreflect.MessageDescriptor, opts ...CompileOption) (*Type, error) {
	c := &compiler{
		types:      make(map[protoreflect.FullName]*Type),
		denseLimit: defaultDenseLimit,
	}
	for _, opt := range opts {
		if opt.apply != nil {
			opt.apply(c)
		}
	}
	return c.compile(md)
}

type compiler struct {
	types      map[protoreflect.FullName]*Type
	denseLimit int32
}

func (c *compiler) compile(md protoreflect.MessageDescriptor) (*Type, error) {
	if t, ok := c.types[md.FullName()]; ok {
		return t, nil
	}

	t := &Type{desc: md}
	// Memoize before walking fields so that recursive types terminate.
	c.types[md.FullName()] = t

	fds := md.Fields()
	t.fields = make([]field, 0, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		f, err := c.compileField(fds.Get(i))
		if err != nil {
			return nil, err
		}
		t.fields = append(t.fields, f)
	}
	slices.SortFunc(t.fields, func(a, b field) int {
		return int(a.num - b.num)
	})

	var maxDense int32
	for i := range t.fields {
		t.fields[i].index = int32(i)
		if n := t.fields[i].num; n <= c.denseLimit && n > maxDense {
			maxDense = n
		}
	}
	t.dense = make([]int32, maxDense+1)
	for i := range t.fields {
		f := &t.fields[i]
		if f.num <= maxDense {
			t.dense[f.num] = f.index + 1
			continue
		}
		if t.sparse == nil {
			t.sparse = make(map[int32]int32)
		}
		t.sparse[f.num] = f.index + 1
	}

	return t, nil
}

func (c *compiler) compileField(fd protoreflect.FieldDescriptor) (field, error) {
	if fd.IsMap() {
		// Map fields are repeated synthetic entry messages on the wire, and
		// that is exactly how they are modeled here.
		entry, err := c.compile(fd.Message())
		if err != nil {
			return field{}, err
		}
		return field{
			num:      int32(fd.Number()),
			kind:     protoreflect.MessageKind,
			arch:     archMessage,
			repeated: true,
			message:  entry,
		}, nil
	}

	f := field{
		num:      int32(fd.Number()),
		kind:     fd.Kind(),
		repeated: fd.IsList(),
	}

	switch fd.Kind() {
	case protoreflect.Int32Kind, protoreflect.Int64Kind,
		protoreflect.Uint32Kind, protoreflect.Uint64Kind,
		protoreflect.BoolKind, protoreflect.EnumKind:
		f.arch, f.packable = archVarint, true
	case protoreflect.Sint32Kind, protoreflect.Sint64Kind:
		f.arch, f.packable = archZigzag, true
	case protoreflect.Fixed32Kind, protoreflect.Sfixed32Kind, protoreflect.FloatKind:
		f.arch, f.packable = archFixed32, true
	case protoreflect.Fixed64Kind, protoreflect.Sfixed64Kind, protoreflect.DoubleKind:
		f.arch, f.packable = archFixed64, true
	case protoreflect.StringKind:
		f.arch, f.utf8 = archString, true
	case protoreflect.BytesKind:
		f.arch = archBytes
	case protoreflect.MessageKind:
		f.arch = archMessage
		sub, err := c.compile(fd.Message())
		if err != nil {
			return field{}, err
		}
		f.message = sub
	case protoreflect.GroupKind:
		return field{}, fmt.Errorf("wirepb: %v: group fields are not supported", fd.FullName())
	default:
		return field{}, fmt.Errorf("wirepb: %v: unsupported kind %v", fd.FullName(), fd.Kind())
	}

	return f, nil
}

// Descriptor returns the descriptor this type was compiled from.
func (t *Type) Descriptor() protoreflect.MessageDescriptor { return t.desc }

// fieldByNumber looks up a field table entry, or nil for unknown numbers.
func (t *Type) fieldByNumber(num int32) *field {
	var slot int32
	switch {
	case num >= wire.MinNumber && num < int32(len(t.dense)):
		slot = t.dense[num]
	case t.sparse != nil:
		slot = t.sparse[num]
	}
	if slot == 0 {
		return nil
	}
	return &t.fields[slot-1]
}
