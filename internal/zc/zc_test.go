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

package zc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"buf.build/go/wirepb/internal/zc"
)

func TestRange(t *testing.T) {
	t.Parallel()

	src := []byte("hello, world")

	r := zc.New(7, 5)
	assert.Equal(t, 7, r.Start())
	assert.Equal(t, 12, r.End())
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, "world", r.String(src))
	assert.Equal(t, []byte("world"), r.Bytes(src))
	assert.Equal(t, "[7:12]", fmt.Sprint(r))

	// Bytes aliases src rather than copying.
	assert.Same(t, &src[7], &r.Bytes(src)[0])

	var zero zc.Range
	assert.Zero(t, zero.Len())
	assert.Nil(t, zero.Bytes(src))
	assert.Equal(t, "", zero.String(src))
}
