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

//go:build debug

// Package debug includes debugging helpers.
//
// These are only active when building with the debug tag; in ordinary builds
// every function in this package compiles to nothing.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Enabled is true if the package is being built with the debug tag, which
// enables various debugging features.
const Enabled = true

// Log prints debugging information to stderr.
//
// operation identifies the codec step being logged (e.g. "varint", "key",
// "skip"); format and args describe the values involved.
func Log(operation, format string, args ...any) {
	_, file, line, _ := runtime.Caller(1)
	file = filepath.Base(file)

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s:%d %s: %s\n", file, line, operation, msg)
	_ = os.Stderr.Sync()
}

// Assert panics if cond is false, but only in debug mode.
//
// This guards internal invariants, such as bounds propagation between nested
// cursors. A failed assertion is a bug in this module, never a property of
// the input.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("wirepb: internal assertion failed: "+format, args...))
	}
}
