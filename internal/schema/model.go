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

// Package schema holds the in-memory model built by internal/descriptor and
// consumed by internal/stubgen and internal/template. It is immutable once
// built: nothing outside internal/descriptor mutates a Collection.
package schema

import (
	"fmt"
	"sort"
)

// DataType enumerates the field shapes spec.md §3 requires a FieldInfo to
// carry. It deliberately mirrors descriptorpb.FieldDescriptorProto_Type
// rather than reusing it, because MAP is synthesized (spec.md §9) and has no
// descriptor-level counterpart.
type DataType int

const (
	UnknownType DataType = iota
	Float
	Double
	Int32
	Uint32
	Sint32
	Int64
	Uint64
	Sint64
	Fixed32
	Sfixed32
	Fixed64
	Sfixed64
	Bool
	Enum
	String
	Bytes
	Map
	Message
)

func (t DataType) String() string {
	switch t {
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Int32:
		return "INT32"
	case Uint32:
		return "UINT32"
	case Sint32:
		return "SINT32"
	case Int64:
		return "INT64"
	case Uint64:
		return "UINT64"
	case Sint64:
		return "SINT64"
	case Fixed32:
		return "FIXED32"
	case Sfixed32:
		return "SFIXED32"
	case Fixed64:
		return "FIXED64"
	case Sfixed64:
		return "SFIXED64"
	case Bool:
		return "BOOL"
	case Enum:
		return "ENUM"
	case String:
		return "STRING"
	case Bytes:
		return "BYTES"
	case Map:
		return "MAP"
	case Message:
		return "MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// IsPrimitive reports whether t is a scalar wire type (not ENUM, MAP or
// MESSAGE), i.e. one whose default value is a language literal rather than a
// constructed object.
func (t DataType) IsPrimitive() bool {
	switch t {
	case Enum, Map, Message, UnknownType:
		return false
	default:
		return true
	}
}

// IsSigned reports whether t is a signed integer type, for RangeError
// validation (spec.md §4.5/§7).
func (t DataType) IsSigned() bool {
	switch t {
	case Int32, Sint32, Sfixed32, Int64, Sint64, Sfixed64:
		return true
	default:
		return false
	}
}

// IsZigZag reports whether t uses zig-zag varint encoding on the wire.
func (t DataType) IsZigZag() bool {
	return t == Sint32 || t == Sint64
}

// BitWidth returns the integer width of t, or 0 if t is not an integer type.
func (t DataType) BitWidth() int {
	switch t {
	case Int32, Uint32, Sint32, Fixed32, Sfixed32:
		return 32
	case Int64, Uint64, Sint64, Fixed64, Sfixed64:
		return 64
	default:
		return 0
	}
}

// EnumValue is a single named member of an Enum.
type EnumValue struct {
	Name   string
	Number int32
}

// EnumInfo describes a proto3 enum (spec.md §3's EnumInfo).
type EnumInfo struct {
	// Module is the short name of the owning module.
	Module string
	// LocalName is the dotted local name, qualified by the containing
	// message when the enum is nested (top-level-in-message only; enums
	// nested in messages are rejected at ingest time per spec.md §1
	// Non-goals, so in practice this is always unqualified).
	LocalName string
	// Values is in declaration order; SortedValues returns a copy sorted
	// by Number (ascending).
	Values []EnumValue

	byName map[string]int32
}

// MemberForValue returns the first member name with the given number, or
// ("", false) if no member has that number.
func (e *EnumInfo) MemberForValue(v int32) (string, bool) {
	for _, mv := range e.Values {
		if mv.Number == v {
			return mv.Name, true
		}
	}
	return "", false
}

// HasMember reports whether name is a declared member of this enum.
func (e *EnumInfo) HasMember(name string) bool {
	for _, mv := range e.Values {
		if mv.Name == name {
			return true
		}
	}
	return false
}

// SortedValues returns Values sorted by numeric value, matching spec.md §4.2
// ("members by numeric value").
func (e *EnumInfo) SortedValues() []EnumValue {
	out := append([]EnumValue(nil), e.Values...)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// QualifiedName returns "module.LocalName", the cross-module reference key.
func (e *EnumInfo) QualifiedName() string {
	return e.Module + "." + e.LocalName
}

// FieldInfo describes a single field within a FieldGroup (spec.md §3's
// FieldInfo).
type FieldInfo struct {
	// Group is the field's group name: its own name for a plain field, or
	// the containing sum's name for a oneof member.
	Group string
	// IsOptional is true for a collapsed proto3-optional singleton.
	IsOptional bool
	// IsRepeated is true for a repeated field; always false when IsOptional
	// is true and always false for MAP fields (spec.md §3 normalization;
	// maps are structurally repeated on the wire but that is hidden here).
	IsRepeated bool
	DataType   DataType
	// Enum is non-nil iff DataType == Enum.
	Enum *EnumInfo
	// Message is non-nil iff DataType == Message or DataType == Map (for
	// MAP, Message points at the synthesized map-entry message).
	Message *MessageInfo
	// Number is the field's proto wire number.
	Number int32
}

// TypeKey returns a string that uniquely identifies this field's value type,
// used to enforce the "every field in a sum group has a distinct type"
// invariant (spec.md §3).
func (f *FieldInfo) TypeKey() string {
	switch f.DataType {
	case Enum:
		return fmt.Sprintf("ENUM(%s.%s)", f.Enum.Module, f.Enum.LocalName)
	case Map:
		key, value := f.Message.MapKey, f.Message.MapValue
		return fmt.Sprintf("MAP(%s,%s)", key.TypeKey(), value.TypeKey())
	case Message:
		return fmt.Sprintf("MESSAGE(%s.%s)", f.Message.Module, f.Message.LocalName)
	default:
		return f.DataType.String()
	}
}

// FieldGroup is either a single field under its own name, or the members of
// a proto3 oneof sharing a group name (spec.md §3/GLOSSARY).
type FieldGroup struct {
	Name   string
	Fields []*FieldInfo
}

// IsOneOf reports whether this group is a true sum (≥2 members). A group
// with exactly one field is a plain field, never a oneof, even if the
// descriptor declared a one-member oneof that was not the optional-singleton
// shape (the ingester builds such a group as a one-field group named after
// the oneof; the predicate is structural, matching spec.md §3: "a group
// with exactly one field is a plain field").
func (g *FieldGroup) IsOneOf() bool {
	return len(g.Fields) > 1
}

// MinFieldNumber returns the lowest field number among the group's members,
// used for the group-ordering rule in spec.md §4.2.
func (g *FieldGroup) MinFieldNumber() int32 {
	min := g.Fields[0].Number
	for _, f := range g.Fields[1:] {
		if f.Number < min {
			min = f.Number
		}
	}
	return min
}

// SortedFields returns Fields sorted by field number.
func (g *FieldGroup) SortedFields() []*FieldInfo {
	out := append([]*FieldInfo(nil), g.Fields...)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// IsRepeated reports whether every field in the group is repeated. The
// ingester does not check groups for a mix of repeated and non-repeated
// fields; for a mixed group this returns false.
func (g *FieldGroup) IsRepeated() bool {
	for _, f := range g.Fields {
		if !f.IsRepeated {
			return false
		}
	}
	return true
}

// IsOptional reports whether any field in the group is the collapsed
// optional-singleton shape. Since optional collapsing always produces a
// one-member group, this is equivalent to len(Fields) == 1 && Fields[0].IsOptional.
func (g *FieldGroup) IsOptional() bool {
	for _, f := range g.Fields {
		if f.IsOptional {
			return true
		}
	}
	return false
}

// MessageInfo describes a proto3 message (spec.md §3's MessageInfo).
type MessageInfo struct {
	Module    string
	LocalName string

	FieldForNumber map[int32]*FieldInfo
	FieldGroups    map[string]*FieldGroup

	// MapKey and MapValue are non-nil iff this message is a map-entry
	// message (field set {1:key, 2:value}, group names {"key","value"},
	// name ending in "Entry" — spec.md §3).
	MapKey, MapValue *FieldInfo
}

// IsMapEntry reports whether this message was structurally recognized as a
// map entry.
func (m *MessageInfo) IsMapEntry() bool {
	return m.MapKey != nil && m.MapValue != nil
}

// QualifiedName returns "module.LocalName".
func (m *MessageInfo) QualifiedName() string {
	return m.Module + "." + m.LocalName
}

// SortedFieldGroups returns the message's field groups ordered by the
// minimum field number in each group (spec.md §4.2).
func (m *MessageInfo) SortedFieldGroups() []*FieldGroup {
	out := make([]*FieldGroup, 0, len(m.FieldGroups))
	for _, g := range m.FieldGroups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinFieldNumber() < out[j].MinFieldNumber() })
	return out
}

// SortedFieldNumbers returns the message's field numbers in ascending order.
// The generated serializer and repr do not use it: they follow
// SortedFieldGroups.
func (m *MessageInfo) SortedFieldNumbers() []int32 {
	out := make([]int32, 0, len(m.FieldForNumber))
	for n := range m.FieldForNumber {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ModuleInfo is a set of enums and messages local to one schema file,
// indexed by local name (spec.md §3's ModuleInfo).
type ModuleInfo struct {
	Name     string
	Enums    map[string]*EnumInfo
	Messages map[string]*MessageInfo

	// InProgress is never set by internal/descriptor, which detects import
	// cycles from the file-level dependency graph instead
	// (checkImportCycles); it stays false on every ingested module.
	InProgress bool
}

// NewModuleInfo returns an empty module ready for the ingester to populate.
func NewModuleInfo(name string) *ModuleInfo {
	return &ModuleInfo{
		Name:     name,
		Enums:    make(map[string]*EnumInfo),
		Messages: make(map[string]*MessageInfo),
	}
}

// SortedEnums returns the module's enums ordered alphabetically by local
// name (spec.md §4.2).
func (m *ModuleInfo) SortedEnums() []*EnumInfo {
	names := make([]string, 0, len(m.Enums))
	for n := range m.Enums {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*EnumInfo, len(names))
	for i, n := range names {
		out[i] = m.Enums[n]
	}
	return out
}

// SortedMessages returns the module's non-map-entry messages ordered
// alphabetically by local name (spec.md §4.2/§4.3: map-entry messages are
// never surfaced as their own generated type).
func (m *ModuleInfo) SortedMessages() []*MessageInfo {
	names := make([]string, 0, len(m.Messages))
	for n, msg := range m.Messages {
		if msg.IsMapEntry() {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*MessageInfo, len(names))
	for i, n := range names {
		out[i] = m.Messages[n]
	}
	return out
}

// AliasTarget is either an *EnumInfo, a *MessageInfo, or nil to mark an
// ambiguous (multiply-defined) global name (spec.md §3 "Global aliases").
type AliasTarget struct {
	Enum    *EnumInfo
	Message *MessageInfo
}

// Ambiguous reports whether this alias target was suppressed because the
// name exists in more than one module.
func (a AliasTarget) Ambiguous() bool {
	return a.Enum == nil && a.Message == nil
}

// Collection is the full set of ingested modules plus the computed global
// alias table (spec.md §3's ModuleCollection).
type Collection struct {
	Modules       map[string]*ModuleInfo
	GlobalAliases map[string]AliasTarget
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		Modules:       make(map[string]*ModuleInfo),
		GlobalAliases: make(map[string]AliasTarget),
	}
}

// SortedModuleNames returns module short names in alphabetical order
// (spec.md §4.2: "modules alphabetically").
func (c *Collection) SortedModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for n := range c.Modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedModules returns modules in alphabetical order by short name.
func (c *Collection) SortedModules() []*ModuleInfo {
	names := c.SortedModuleNames()
	out := make([]*ModuleInfo, len(names))
	for i, n := range names {
		out[i] = c.Modules[n]
	}
	return out
}

// ComputeGlobalAliases populates GlobalAliases: a name present in exactly
// one module becomes a top-level alias; a name present in ≥2 modules is
// recorded as ambiguous (spec.md §3).
func (c *Collection) ComputeGlobalAliases() {
	c.GlobalAliases = make(map[string]AliasTarget)
	seen := make(map[string]bool)
	for _, mod := range c.Modules {
		for _, msg := range mod.Messages {
			if msg.IsMapEntry() {
				continue
			}
			c.addAlias(msg.LocalName, AliasTarget{Message: msg}, seen)
		}
		for _, e := range mod.Enums {
			c.addAlias(e.LocalName, AliasTarget{Enum: e}, seen)
		}
	}
}

func (c *Collection) addAlias(name string, target AliasTarget, seen map[string]bool) {
	if seen[name] {
		c.GlobalAliases[name] = AliasTarget{}
		return
	}
	seen[name] = true
	c.GlobalAliases[name] = target
}

// SortedGlobalAliasNames returns alias names in alphabetical order.
func (c *Collection) SortedGlobalAliasNames() []string {
	names := make([]string, 0, len(c.GlobalAliases))
	for n := range c.GlobalAliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
