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

// Package stubgen emits the static-typing stub (spec.md §4.3) describing
// the generated extension's Python-visible surface: one class per message,
// one enum per schema enum, keyword-only constructors, and the fixed method
// surface (from_proto_data, as_proto_data, parse_into, to_dict, copy,
// to_bytes/from_bytes, unknown-field probes). Assembled as plain Go string
// building rather than through internal/template, because the stub's
// structure is simpler as direct control flow than as a mustache template:
// nested indentation doesn't benefit from a section-based templating
// language the way the iteration-heavy .cc source does. Enums are written
// as plain classes with annotated members (no IntEnum base), per-group
// lines carry no field-number comments, and no global alias declarations
// are written.
package stubgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harmonic-ai/pbcc/internal/identifiers"
	"github.com/harmonic-ai/pbcc/internal/schema"
)

// Generate returns the .pyi source for coll's modules (spec.md §4.3).
func Generate(coll *schema.Collection) string {
	var b strings.Builder
	b.WriteString("# Generated stub. Do not edit.\n")
	b.WriteString("from typing import overload\n\n")

	for _, mod := range coll.SortedModules() {
		writeModule(&b, mod)
	}
	return b.String()
}

func writeModule(b *strings.Builder, mod *schema.ModuleInfo) {
	for _, e := range mod.SortedEnums() {
		writeEnum(b, e)
	}
	for _, msg := range mod.SortedMessages() {
		writeMessage(b, msg)
	}
}

func writeEnum(b *strings.Builder, e *schema.EnumInfo) {
	name := identifiers.PythonClassName(e.LocalName)
	fmt.Fprintf(b, "class %s:\n", name)
	for _, v := range e.SortedValues() {
		fmt.Fprintf(b, "    %s: %s\n", v.Name, name)
	}
	b.WriteString("\n")
}

func writeMessage(b *strings.Builder, msg *schema.MessageInfo) {
	name := identifiers.PythonClassName(msg.LocalName)
	fmt.Fprintf(b, "class %s:\n", name)
	b.WriteString("    __slots__ = (\n")
	for _, g := range msg.SortedFieldGroups() {
		fmt.Fprintf(b, "        %q,\n", identifiers.PythonFieldName(g.Name))
	}
	b.WriteString("    )\n\n")

	writeConstructor(b, msg)
	b.WriteString("\n")

	for _, g := range msg.SortedFieldGroups() {
		writeProperty(b, g)
	}

	writeCommonMethods(b, name)
	b.WriteString("\n")
}

func writeConstructor(b *strings.Builder, msg *schema.MessageInfo) {
	b.WriteString("    def __init__(\n")
	b.WriteString("        self,\n")
	b.WriteString("        *,\n")
	for _, g := range msg.SortedFieldGroups() {
		fmt.Fprintf(b, "        %s: %s = ...,\n", identifiers.PythonFieldName(g.Name), pyTypeForGroup(g))
	}
	b.WriteString("    ) -> None: ...\n")
}

func writeProperty(b *strings.Builder, g *schema.FieldGroup) {
	fmt.Fprintf(b, "    @property\n")
	fmt.Fprintf(b, "    def %s(self) -> %s: ...\n", identifiers.PythonFieldName(g.Name), pyTypeForGroup(g))
	if g.IsOneOf() {
		fmt.Fprintf(b, "    def which_%s(self) -> str: ...\n", identifiers.PythonFieldName(g.Name))
	}
}

func writeCommonMethods(b *strings.Builder, className string) {
	fmt.Fprintf(b, "    @classmethod\n    def from_proto_data(cls, data: bytes) -> %q: ...\n", className)
	b.WriteString("    def as_proto_data(self) -> bytes: ...\n")
	b.WriteString("    def parse_into(self, data: bytes) -> None: ...\n")
	b.WriteString("    def to_dict(self) -> dict: ...\n")
	fmt.Fprintf(b, "    def copy(self, **overrides: object) -> %q: ...\n", className)
	b.WriteString("    def to_bytes(self) -> bytes: ...\n")
	fmt.Fprintf(b, "    @classmethod\n    def from_bytes(cls, data: bytes) -> %q: ...\n", className)
	b.WriteString("    def has_unknown_fields(self) -> bool: ...\n")
	b.WriteString("    def get_unknown_fields(self) -> bytes: ...\n")
	b.WriteString("    def delete_unknown_fields(self) -> None: ...\n")
	b.WriteString("    def __eq__(self, other: object) -> bool: ...\n")
	b.WriteString("    def __hash__(self) -> int: ...\n")
	b.WriteString("    def __repr__(self) -> str: ...\n")
}

// pyTypeForGroup returns the Python type annotation for a field group,
// following the original's py_type_for_field_group: T | None for a
// collapsed proto3-optional singleton, list[T] for a repeated field, a
// dict[K, V] for a map, and for a real oneof the alphabetically sorted
// member union followed by | None (spec.md §3/§4.3).
func pyTypeForGroup(g *schema.FieldGroup) string {
	if g.IsOneOf() {
		members := make([]string, 0, len(g.Fields))
		for _, f := range g.SortedFields() {
			members = append(members, pyTypeForField(f))
		}
		sort.Strings(members)
		return strings.Join(members, " | ") + " | None"
	}

	f := g.Fields[0]
	t := pyTypeForField(f)
	switch {
	case f.IsOptional:
		return t + " | None"
	case f.IsRepeated:
		return "list[" + t + "]"
	default:
		return t
	}
}

func pyTypeForField(f *schema.FieldInfo) string {
	switch f.DataType {
	case schema.Float, schema.Double:
		return "float"
	case schema.Int32, schema.Uint32, schema.Sint32, schema.Int64, schema.Uint64, schema.Sint64,
		schema.Fixed32, schema.Sfixed32, schema.Fixed64, schema.Sfixed64:
		return "int"
	case schema.Bool:
		return "bool"
	case schema.String:
		return "str"
	case schema.Bytes:
		return "bytes"
	case schema.Enum:
		return identifiers.PythonClassName(f.Enum.LocalName)
	case schema.Message:
		return identifiers.PythonClassName(f.Message.LocalName)
	case schema.Map:
		return fmt.Sprintf("dict[%s, %s]", pyTypeForField(f.Message.MapKey), pyTypeForField(f.Message.MapValue))
	default:
		return "object"
	}
}
