// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package perrors defines the typed error values this compiler raises,
// distinguishing schema problems discovered at ingest time from value
// problems discovered while evaluating runtime data against a built schema.
package perrors

import (
	"fmt"

	spb "google.golang.org/genproto/googleapis/rpc/status"
)

// SchemaError reports a malformed or unsupported descriptor: a duplicate
// type key within a oneof, an unresolvable cross-module reference, an
// import cycle, a nested enum, and similar structural problems caught while
// building a schema.Collection.
type SchemaError struct {
	Module string
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("schema error: %s", e.Detail)
	}
	return fmt.Sprintf("schema error in module %q: %s", e.Module, e.Detail)
}

// TypeError reports a value of the wrong Go type being supplied for a
// field, for example assigning a string where an int32 field expects an
// integer.
type TypeError struct {
	Field string
	Want  string
	Got   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %q: want %s, got %s", e.Field, e.Want, e.Got)
}

// RangeError reports an integer value outside the representable range of
// its declared wire type, for example a value outside int32 assigned to an
// INT32 field.
type RangeError struct {
	Field string
	Value int64
	Width int
	Signed bool
}

func (e *RangeError) Error() string {
	kind := "unsigned"
	if e.Signed {
		kind = "signed"
	}
	return fmt.Sprintf("field %q: value %d out of range for %d-bit %s integer", e.Field, e.Value, e.Width, kind)
}

// WireError reports a malformed or unparseable encoding on the wire: a
// truncated varint, a length prefix that runs past the end of the buffer,
// or (when tolerance flags are not set) a field whose wire type does not
// match its schema declaration.
type WireError struct {
	Offset int
	Detail string
}

func (e *WireError) Error() string {
	return fmt.Sprintf("wire format error at offset %d: %s", e.Offset, e.Detail)
}

// BuildError reports a failure in a build step: the external toolchain
// (protoc or the native-extension compiler) that this package does not
// itself invoke, see spec.md §1 Non-goals, and also codegen.Generate's own
// failures to parse the descriptor set or expand the module template. Its
// Status method converts it into a status.Status so a caller that proxies
// the build across a process or RPC boundary can forward a code and
// message without having to invent its own mapping.
type BuildError struct {
	Detail string
	Cause  error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build failed: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("build failed: %s", e.Detail)
}

func (e *BuildError) Unwrap() error { return e.Cause }

// buildErrorCode is google.rpc.Code.INTERNAL, the code this package assigns
// every BuildError: whatever the underlying toolchain failure, it is always
// this process's own build step that failed, not a caller-supplied request.
const buildErrorCode = 13

// Status converts e into a google.rpc.Status, letting a caller that proxies
// this compiler across a process or RPC boundary forward a structured
// status instead of a bare error string.
func (e *BuildError) Status() *spb.Status {
	return &spb.Status{
		Code:    buildErrorCode,
		Message: e.Error(),
	}
}
