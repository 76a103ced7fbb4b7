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

// Package wirepb is a zero-copy codec for the Protobuf binary wire format,
// built directly on a schema's [protoreflect.MessageDescriptor] with no
// generated code.
//
// To use it, compile a descriptor into a [*Type] once, then decode as many
// buffers as you like against it:
//
//	ty, err := wirepb.Compile(md)
//	if err != nil {
//		// Schema uses features this codec rejects, such as groups.
//	}
//
//	msg := wirepb.New(ty)
//	if err := msg.Unmarshal(data); err != nil {
//		// data is malformed; the *Error carries the byte offset.
//	}
//	name := msg.GetString(1)
//
// # Zero copy
//
// Decoding does not copy field payloads. String, bytes, and sub-message
// values are ranges into the input buffer, so the caller must not modify
// data after a successful Unmarshal for as long as the message or anything
// read from it is reachable. Sub-messages are decoded lazily on first
// access and the result is cached; the whole structure is safe for
// concurrent readers once decode returns.
//
// # Untrusted input
//
// Unmarshal is total over arbitrary bytes: any input either decodes or
// fails with a [*Error], without panics and without reading outside the
// buffer. Nesting depth is capped (see [WithMaxDepth]) and a nested
// message can never claim bytes beyond its enclosing record, so lazy
// decoding is no less strict than eager decoding. The input length itself
// is the only resource bound; callers decoding untrusted data should limit
// it before calling Unmarshal.
//
// # Round-tripping
//
// Records for field numbers the schema does not declare are preserved
// verbatim and re-emitted by [Message.Marshal], so decode/encode round
// trips do not lose data written by a newer schema. [WithDiscardUnknown]
// trades that away for speed.
package wirepb // import "buf.build/go/wirepb"
