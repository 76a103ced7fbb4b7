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

package testdata

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File is the test schema, built by hand so the corpus needs no protoc
// step. It declares:
//
//	test.Scalars   one field of every scalar kind
//	test.Repeated  repeated forms of the packable kinds plus string/bytes
//	test.Nested    a recursive message with a map field
var File = mustBuildFile()

// MessageByName resolves a top-level message of [File], such as
// "test.Scalars".
func MessageByName(name string) (protoreflect.MessageDescriptor, error) {
	md := File.Messages().ByName(protoreflect.FullName(name).Name())
	if md == nil {
		return nil, fmt.Errorf("testdata: no message %q", name)
	}
	return md, nil
}

func mustBuildFile() protoreflect.FileDescriptor {
	field := func(name string, num int32, ty descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(name),
			Number: proto.Int32(num),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:   ty.Enum(),
		}
	}
	repeated := func(name string, num int32, ty descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
		f := field(name, num, ty)
		f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		return f
	}
	message := func(name string, num int32, tyName string) *descriptorpb.FieldDescriptorProto {
		f := field(name, num, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
		f.TypeName = proto.String(tyName)
		return f
	}

	scalars := &descriptorpb.DescriptorProto{
		Name: proto.String("Scalars"),
		Field: []*descriptorpb.FieldDescriptorProto{
			field("i32", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			field("i64", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			field("u32", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			field("u64", 4, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
			field("s32", 5, descriptorpb.FieldDescriptorProto_TYPE_SINT32),
			field("s64", 6, descriptorpb.FieldDescriptorProto_TYPE_SINT64),
			field("f32", 7, descriptorpb.FieldDescriptorProto_TYPE_FIXED32),
			field("f64", 8, descriptorpb.FieldDescriptorProto_TYPE_FIXED64),
			field("sf32", 9, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32),
			field("sf64", 10, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64),
			field("fl", 11, descriptorpb.FieldDescriptorProto_TYPE_FLOAT),
			field("db", 12, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
			field("ok", 13, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			field("str", 14, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			field("raw", 15, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
		},
	}

	repeatedMsg := &descriptorpb.DescriptorProto{
		Name: proto.String("Repeated"),
		Field: []*descriptorpb.FieldDescriptorProto{
			repeated("i32", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			repeated("u64", 2, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
			repeated("s64", 3, descriptorpb.FieldDescriptorProto_TYPE_SINT64),
			repeated("f32", 4, descriptorpb.FieldDescriptorProto_TYPE_FIXED32),
			repeated("f64", 5, descriptorpb.FieldDescriptorProto_TYPE_FIXED64),
			repeated("fl", 6, descriptorpb.FieldDescriptorProto_TYPE_FLOAT),
			repeated("db", 7, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
			repeated("ok", 8, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			repeated("str", 9, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			repeated("raw", 10, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
		},
	}

	attrsEntry := &descriptorpb.DescriptorProto{
		Name: proto.String("AttrsEntry"),
		Field: []*descriptorpb.FieldDescriptorProto{
			field("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			field("value", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
		},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
	nested := &descriptorpb.DescriptorProto{
		Name: proto.String("Nested"),
		Field: []*descriptorpb.FieldDescriptorProto{
			field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			message("child", 2, ".test.Nested"),
			func() *descriptorpb.FieldDescriptorProto {
				f := message("children", 3, ".test.Nested")
				f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
				return f
			}(),
			message("scalars", 4, ".test.Scalars"),
			func() *descriptorpb.FieldDescriptorProto {
				f := message("attrs", 5, ".test.Nested.AttrsEntry")
				f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
				return f
			}(),
			field("big", 1000, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
		},
		NestedType: []*descriptorpb.DescriptorProto{attrsEntry},
	}

	fdp := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("test.proto"),
		Package:     proto.String("test"),
		Syntax:      proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{scalars, repeatedMsg, nested},
	}

	fd, err := protodesc.NewFile(fdp, nil)
	if err != nil {
		panic(fmt.Sprintf("testdata: building schema: %v", err))
	}
	return fd
}
