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

package stubgen

import (
	"strings"
	"testing"

	"github.com/harmonic-ai/pbcc/internal/schema"
)

func TestGenerate(t *testing.T) {
	coll := schema.NewCollection()
	mod := schema.NewModuleInfo("widgets")
	coll.Modules["widgets"] = mod

	color := &schema.EnumInfo{Module: "widgets", LocalName: "Color", Values: []schema.EnumValue{{Name: "RED", Number: 0}}}
	mod.Enums["Color"] = color

	msg := &schema.MessageInfo{
		Module:         "widgets",
		LocalName:      "Widget",
		FieldForNumber: map[int32]*schema.FieldInfo{},
		FieldGroups:    map[string]*schema.FieldGroup{},
	}
	id := &schema.FieldInfo{Group: "id", DataType: schema.Int32, Number: 1}
	names := &schema.FieldInfo{Group: "names", DataType: schema.String, IsRepeated: true, Number: 2}
	msg.FieldGroups["id"] = &schema.FieldGroup{Name: "id", Fields: []*schema.FieldInfo{id}}
	msg.FieldGroups["names"] = &schema.FieldGroup{Name: "names", Fields: []*schema.FieldInfo{names}}
	msg.FieldForNumber[1] = id
	msg.FieldForNumber[2] = names
	mod.Messages["Widget"] = msg

	got := Generate(coll)

	for _, want := range []string{
		"class Color:",
		"RED: Color",
		"class Widget:",
		"id: int = ...,",
		"names: list[str] = ...,",
		"def from_proto_data(cls, data: bytes)",
		"def to_dict(self) -> dict: ...",
		"def has_unknown_fields(self) -> bool: ...",
		"def get_unknown_fields(self) -> bytes: ...",
		"def delete_unknown_fields(self) -> None: ...",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Generate() missing %q; got:\n%s", want, got)
		}
	}
}

func TestPyTypeForGroup_optionalSingleton(t *testing.T) {
	g := &schema.FieldGroup{Name: "nickname", Fields: []*schema.FieldInfo{
		{Group: "nickname", DataType: schema.String, IsOptional: true, Number: 1},
	}}
	if got, want := pyTypeForGroup(g), "str | None"; got != want {
		t.Errorf("pyTypeForGroup() = %q, want %q", got, want)
	}
}

func TestPyTypeForGroup_oneof(t *testing.T) {
	g := &schema.FieldGroup{Name: "tag", Fields: []*schema.FieldInfo{
		{Group: "tag", DataType: schema.String, Number: 1},
		{Group: "tag", DataType: schema.Int32, Number: 2},
	}}
	got := pyTypeForGroup(g)
	if !strings.Contains(got, "str") || !strings.Contains(got, "int") || !strings.HasSuffix(got, "| None") {
		t.Errorf("pyTypeForGroup() = %q, want a union of str/int ending in | None", got)
	}
}

func TestPyTypeForGroup_map(t *testing.T) {
	entry := &schema.MessageInfo{
		LocalName: "CountsEntry",
		MapKey:    &schema.FieldInfo{Group: "key", DataType: schema.String, Number: 1},
		MapValue:  &schema.FieldInfo{Group: "value", DataType: schema.Int32, Number: 2},
	}
	g := &schema.FieldGroup{Name: "counts", Fields: []*schema.FieldInfo{
		{Group: "counts", DataType: schema.Map, Message: entry, Number: 1},
	}}
	if got, want := pyTypeForGroup(g), "dict[str, int]"; got != want {
		t.Errorf("pyTypeForGroup() = %q, want %q", got, want)
	}
}
