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

package codegen

import (
	"strings"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/harmonic-ai/pbcc/internal/config"
)

func strp(s string) *string { return &s }
func i32p(v int32) *int32   { return &v }

func sampleDescriptorSet(t *testing.T) []byte {
	t.Helper()
	label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	typ := descriptorpb.FieldDescriptorProto_TYPE_INT32
	fds := &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			{
				Name:    strp("widgets.proto"),
				Package: strp("acme"),
				MessageType: []*descriptorpb.DescriptorProto{
					{
						Name: strp("Widget"),
						Field: []*descriptorpb.FieldDescriptorProto{
							{Name: strp("id"), Number: i32p(1), Type: &typ, Label: &label},
						},
					},
				},
			},
		},
	}
	data, err := proto.Marshal(fds)
	if err != nil {
		t.Fatalf("proto.Marshal() = %v", err)
	}
	return data
}

func TestGenerate(t *testing.T) {
	cfg := config.New("compile")
	cfg.OutputBasename = "widgets_pb"

	result, err := Generate(sampleDescriptorSet(t), cfg)
	if err != nil {
		t.Fatalf("Generate() = %v", err)
	}

	if !strings.Contains(result.Source, "namespace widgets {") {
		t.Errorf("source missing namespace widgets:\n%s", result.Source)
	}
	if !strings.Contains(result.Source, "class Widgets__Widget {") {
		t.Errorf("source missing class Widgets__Widget:\n%s", result.Source)
	}
	if !strings.Contains(result.Stub, "class Widget:") {
		t.Errorf("stub missing class Widget:\n%s", result.Stub)
	}
}

func TestGenerate_sourceOnly(t *testing.T) {
	cfg := config.New("compile")
	cfg.OutputBasename = "widgets_pb"
	cfg.SourceOnly = true

	result, err := Generate(sampleDescriptorSet(t), cfg)
	if err != nil {
		t.Fatalf("Generate() = %v", err)
	}
	if result.Stub != "" {
		t.Errorf("Stub = %q, want empty when SourceOnly is set", result.Stub)
	}
}

func TestGenerate_malformedDescriptorSet(t *testing.T) {
	cfg := config.New("compile")
	cfg.OutputBasename = "x"
	if _, err := Generate([]byte{0xFF, 0xFF, 0xFF}, cfg); err == nil {
		t.Fatal("Generate() = nil, want error for malformed input")
	}
}

func TestFileNames(t *testing.T) {
	source, stub := FileNames("widgets_pb")
	if source != "widgets_pb.cc" || stub != "widgets_pb.pyi" {
		t.Errorf("FileNames() = (%q, %q)", source, stub)
	}
}
