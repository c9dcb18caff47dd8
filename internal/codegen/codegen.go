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

// Package codegen ties internal/descriptor, internal/schema,
// internal/template and internal/stubgen together into the two generated
// artifacts spec.md §6.4 describes: a native-extension source file and its
// accompanying typed stub. It deliberately stops at source generation — the
// protoc invocation that produces a FileDescriptorSet and the g++
// invocation that builds the generated source are both external toolchain
// steps spec.md §1 places out of scope.
package codegen

import (
	_ "embed"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/harmonic-ai/pbcc/internal/config"
	"github.com/harmonic-ai/pbcc/internal/descriptor"
	"github.com/harmonic-ai/pbcc/internal/perrors"
	"github.com/harmonic-ai/pbcc/internal/schema"
	"github.com/harmonic-ai/pbcc/internal/stubgen"
	"github.com/harmonic-ai/pbcc/internal/template"
)

//go:embed templates/module.cc.mustache
var defaultTemplate string

// Result is the pair of artifacts a single Generate call produces.
type Result struct {
	// Source is the generated .cc source text.
	Source string
	// Stub is the generated .pyi stub text, empty when cfg.SourceOnly is
	// set.
	Stub string
	// Collection is the schema built from the input descriptor set, for
	// callers that want to inspect it (tests, diagnostics) without
	// re-ingesting.
	Collection *schema.Collection
}

// Generate reads a serialized FileDescriptorSet from descriptorSetBytes,
// builds its schema, and renders the .cc source and (unless
// cfg.SourceOnly) .pyi stub (spec.md §6.1, §6.4).
func Generate(descriptorSetBytes []byte, cfg *config.Config) (*Result, error) {
	fds := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(descriptorSetBytes, fds); err != nil {
		return nil, &perrors.BuildError{Detail: "parsing descriptor set", Cause: err}
	}

	coll, err := descriptor.Ingest(fds)
	if err != nil {
		return nil, err
	}

	view := &template.View{
		Collection:         coll,
		EmitLineDirectives: !cfg.NoLineDirectives,
		ModuleBasename:     cfg.OutputBasename,
	}
	source, err := template.Expand(defaultTemplate, view)
	if err != nil {
		return nil, &perrors.BuildError{Detail: "expanding module template", Cause: err}
	}

	result := &Result{Source: source, Collection: coll}
	if !cfg.SourceOnly {
		result.Stub = stubgen.Generate(coll)
	}
	return result, nil
}

// FileNames returns the conventional output file names for basename,
// matching the original compiler's --output-basename flag (spec.md §6.4).
func FileNames(basename string) (source, stub string) {
	return fmt.Sprintf("%s.cc", basename), fmt.Sprintf("%s.pyi", basename)
}
