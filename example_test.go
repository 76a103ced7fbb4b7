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
	"fmt"
	"log"

	"buf.build/go/wirepb"
	"buf.build/go/wirepb/internal/testdata"
)

func Example() {
	md, err := testdata.MessageByName("test.Scalars")
	if err != nil {
		log.Fatal(err)
	}
	ty, err := wirepb.Compile(md)
	if err != nil {
		log.Fatal(err)
	}

	m := wirepb.New(ty)
	if err := m.Unmarshal([]byte{0x08, 0x96, 0x01}); err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.GetInt32(1))
	// Output: 150
}
