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

// Package testdata loads the YAML wire-format corpus that the top-level
// decode/encode tests and fuzzers run against.
package testdata

import (
	"bytes"
	"embed"
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/protocolbuffers/protoscope"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var corpus embed.FS

// TestCase is one entry of the corpus. Each YAML file holds a single case;
// its specimens are the same schema type in up to two source encodings.
type TestCase struct {
	Name string `yaml:"-"`

	// TypeName names a top-level message of [File], e.g. "test.Scalars".
	TypeName string                         `yaml:"type"`
	Desc     protoreflect.MessageDescriptor `yaml:"-"`

	// Fails marks a corpus entry whose specimens are all malformed; the
	// decoder under test must reject every one of them.
	Fails bool `yaml:"fails"`

	// Two ways to write a specimen: whitespace-insensitive hex, and
	// protoscope text.
	Hex        []string `yaml:"hex"`
	Protoscope []string `yaml:"protoscope"`

	Specimens [][]byte `yaml:"-"`
}

// RunAll runs every corpus entry as a subtest of t.
func RunAll(t *testing.T, f func(*testing.T, *TestCase)) {
	t.Helper()

	err := fs.WalkDir(corpus, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err, "loading test %q", path)
		if d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		t.Run(strings.TrimSuffix(path, ".yaml"), func(t *testing.T) {
			t.Parallel()
			data, err := fs.ReadFile(corpus, path)
			require.NoError(t, err, "loading test %q", path)
			f(t, parseTestCase(t, path, data))
		})
		return nil
	})
	require.NoError(t, err)
}

// AllSpecimens returns every specimen in the corpus, for seeding fuzzers.
func AllSpecimens(t testing.TB) [][]byte {
	t.Helper()

	var out [][]byte
	err := fs.WalkDir(corpus, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		data, err := fs.ReadFile(corpus, path)
		require.NoError(t, err)
		out = append(out, parseTestCase(t, path, data).Specimens...)
		return nil
	})
	require.NoError(t, err)
	return out
}

func parseTestCase(t testing.TB, path string, file []byte) *TestCase {
	t.Helper()

	require.True(t, bytes.HasSuffix(file, []byte("\n")), "missing trailing newline in %q", path)

	test := new(TestCase)
	dec := yaml.NewDecoder(bytes.NewReader(file))
	dec.KnownFields(true)
	err := dec.Decode(test)
	require.NoError(t, err, "loading test %q", path)

	test.Name = strings.TrimSuffix(path, ".yaml")
	test.Desc, err = MessageByName(test.TypeName)
	require.NoError(t, err, "loading test %q", path)

	for _, raw := range test.Hex {
		r := strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")
		b, err := hex.DecodeString(r.Replace(raw))
		require.NoError(t, err, "loading test %q", path)
		test.Specimens = append(test.Specimens, b)
	}

	for _, raw := range test.Protoscope {
		b, err := protoscope.NewScanner(raw).Exec()
		require.NoError(t, err, "loading test %q", path)
		test.Specimens = append(test.Specimens, b)
	}

	return test
}
