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

package wirepb_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buf.build/go/wirepb"
)

func TestEqual(t *testing.T) {
	t.Parallel()
	scalars := compile(t, "test.Scalars")

	decode := func(t *testing.T, ty *wirepb.Type, src string) *wirepb.Message {
		t.Helper()
		m := wirepb.New(ty)
		require.NoError(t, m.Unmarshal(ps(t, src)))
		return m
	}

	t.Run("identity", func(t *testing.T) {
		t.Parallel()
		m := decode(t, scalars, `1: 150 14: {"x"}`)
		assert.True(t, wirepb.Equal(m, m))
		assert.True(t, wirepb.Equal(nil, nil))
		assert.False(t, wirepb.Equal(m, nil))
		assert.True(t, wirepb.Equal(m, decode(t, scalars, `14: {"x"} 1: 150`)))
		assert.False(t, wirepb.Equal(m, decode(t, scalars, `1: 151 14: {"x"}`)))
	})

	t.Run("presence", func(t *testing.T) {
		t.Parallel()
		// An explicit zero and an absent field encode differently, so they
		// compare unequal.
		zero := wirepb.New(scalars)
		zero.SetUint64(4, 0)
		assert.False(t, wirepb.Equal(zero, wirepb.New(scalars)))

		other := wirepb.New(scalars)
		other.SetUint64(4, 0)
		assert.True(t, wirepb.Equal(zero, other))
	})

	t.Run("float-bits", func(t *testing.T) {
		t.Parallel()
		nan1 := wirepb.New(scalars)
		nan1.SetFloat64(12, math.NaN())
		nan2 := wirepb.New(scalars)
		nan2.SetFloat64(12, math.NaN())
		// Same NaN bit pattern: equal even though NaN != NaN.
		assert.True(t, wirepb.Equal(nan1, nan2))

		pos := wirepb.New(scalars)
		pos.SetFloat64(12, 0)
		neg := wirepb.New(scalars)
		neg.SetFloat64(12, math.Copysign(0, -1))
		// Differing bit patterns: unequal even though +0 == -0.
		assert.False(t, wirepb.Equal(pos, neg))
	})

	t.Run("different-types", func(t *testing.T) {
		t.Parallel()
		assert.False(t, wirepb.Equal(wirepb.New(scalars), wirepb.New(compile(t, "test.Repeated"))))
	})

	t.Run("unknown-multiset", func(t *testing.T) {
		t.Parallel()
		// Unknown records compare as a multiset: occurrence order between
		// known fields carries no meaning.
		a := decode(t, scalars, `99: 1 98: {"x"} 1: 150`)
		b := decode(t, scalars, `1: 150 98: {"x"} 99: 1`)
		assert.True(t, wirepb.Equal(a, b))

		assert.False(t, wirepb.Equal(a, decode(t, scalars, `99: 2 98: {"x"} 1: 150`)))
		assert.False(t, wirepb.Equal(a, decode(t, scalars, `99: 1 1: 150`)))

		// Same bytes under a different wire type are different records.
		c := decode(t, scalars, `99: 1`)
		d := decode(t, scalars, `99: {`+"`01`"+`}`)
		assert.False(t, wirepb.Equal(c, d))
	})

	t.Run("messages", func(t *testing.T) {
		t.Parallel()
		nested := compile(t, "test.Nested")
		a := decode(t, nested, `2: {1: {"a"}}`)
		b := decode(t, nested, `2: {1: {"a"}}`)
		assert.True(t, wirepb.Equal(a, b))
		assert.False(t, wirepb.Equal(a, decode(t, nested, `2: {1: {"b"}}`)))
		// Present-but-empty and absent child differ.
		assert.False(t, wirepb.Equal(decode(t, nested, `2: {}`), wirepb.New(nested)))
	})
}
