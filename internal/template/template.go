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

// Package template expands the generated .cc source's scaffolding against a
// schema.Collection. The original compiler walked FOREACH_MODULE,
// FOREACH_ENUM, FOREACH_MESSAGE, FOREACH_MESSAGE_FIELD_GROUP and similar
// comment-tagged regions by hand, re-running a small interpreter over
// balanced __COMPILER__FOREACH_*__/__COMPILER__END_*__ blocks. This package
// expresses the same per-module/per-message/per-field-group iteration as
// mustache list sections, and the IF_* tags as mustache boolean sections,
// using github.com/cbroglie/mustache: {{#ModuleViews}}...{{/ModuleViews}}
// replaces FOREACH_MODULE, {{#IsOneOf}}...{{/IsOneOf}} replaces
// IF_MESSAGE_FIELD_GROUP_IS_ONEOF, and so on. See SPEC_FULL.md's "Template
// expander as mustache" section for the full tag-to-section mapping.
package template

import (
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"

	"github.com/harmonic-ai/pbcc/internal/identifiers"
	"github.com/harmonic-ai/pbcc/internal/schema"
	"github.com/harmonic-ai/pbcc/internal/wirelayout"
)

// View wraps a schema.Collection with the extra per-call state (the
// output basename, the line-directive toggle) a mustache template needs but
// that does not belong on schema.Collection itself.
type View struct {
	*schema.Collection
	// EmitLineDirectives mirrors the original compiler's
	// --no-line-directives flag; {{#EmitLineDirectives}} sections in a
	// template are skipped entirely when this is false. The bundled
	// module.cc.mustache has no such sections.
	EmitLineDirectives bool
	// ModuleBasename is the basename shared by the generated .cc/.pyi pair,
	// used in the template's header comment and include guard.
	ModuleBasename string
}

// EnumValueView adapts a schema.EnumValue for template use.
type EnumValueView struct {
	Name   string
	Number int32
}

// EnumView wraps a schema.EnumInfo with its C++/Python spellings and
// sorted members, matching the "key bindings" spec.md §4.4 requires an
// implementer to supply for an enum: a codec-table reference (CCName, used
// as the generated enum class's own name and as the table key every field
// referencing this enum links against) and the member list in wire order.
type EnumView struct {
	*schema.EnumInfo
	CCName     string
	PythonName string
	Values     []EnumValueView
}

// NewEnumView builds an EnumView for e.
func NewEnumView(e *schema.EnumInfo) EnumView {
	sorted := e.SortedValues()
	values := make([]EnumValueView, len(sorted))
	for i, v := range sorted {
		values[i] = EnumValueView{Name: v.Name, Number: v.Number}
	}
	return EnumView{
		EnumInfo:   e,
		CCName:     identifiers.Mangle(e.QualifiedName()),
		PythonName: identifiers.PythonClassName(e.LocalName),
		Values:     values,
	}
}

// FieldInfoView exposes the per-field "key bindings" spec.md §4.4 asks an
// implementer to provide: the field's data-type tag, its wire type, the
// zig-zag flag, its default-value expression, and — for ENUM/MESSAGE/MAP
// fields — the codec it dispatches to (an enum's CCName, a submessage
// type's parse/serialize entry points, or a map's key/value tags).
type FieldInfoView struct {
	*schema.FieldInfo
	// CCName is this field's mangled storage-member name.
	CCName string
	// PythonName is the snake_case accessor/constructor-argument name.
	PythonName string
	// DataTypeTag is the DataType's string tag (e.g. "INT32", "MESSAGE").
	DataTypeTag string
	// WireTypeTag is the generated codec's wire-type constant
	// (WIRE_VARINT/WIRE_I32/WIRE_I64/WIRE_LEN).
	WireTypeTag string
	IsZigZag    bool
	IsPackable  bool
	IsEnum      bool
	IsMessage   bool
	IsMap       bool
	IsPrimitive bool
	// CCType is the C++ storage type for a primitive/enum/message field
	// (ignored for MAP, which uses MapKey/MapValue's own CCType instead).
	CCType string
	// DefaultExpr is the default-value expression for a single value of
	// this field (spec.md §4.4's default-value bindings); callers compose
	// it with the group's repeated/optional wrapper.
	DefaultExpr string
	// EnumCodec is this field's enum codec-table reference, set iff
	// DataTypeTag == "ENUM".
	EnumCodec string
	// MessageCodec is this field's submessage type name, whose
	// from_proto_data/as_proto_data static/member functions this field's
	// parse/serialize case calls into, set iff DataTypeTag == "MESSAGE".
	MessageCodec string
	// ParseFn, SerializeFn and SubmessageTypeObj are the three submessage
	// codec entry points spec.md §4.4 asks an implementer to bind: the
	// static parse constructor, the instance serializer, and the type
	// object a PyObject* field stores its Python wrapper as. Set iff
	// DataTypeTag == "MESSAGE".
	ParseFn, SerializeFn, SubmessageTypeObj string
	// MapKey and MapValue describe a MAP field's entry codec.
	MapKey, MapValue *FieldInfoView
}

// NewFieldInfoView builds a FieldInfoView for f.
func NewFieldInfoView(f *schema.FieldInfo) *FieldInfoView {
	v := &FieldInfoView{
		FieldInfo:   f,
		PythonName:  identifiers.PythonFieldName(f.Group),
		DataTypeTag: f.DataType.String(),
		WireTypeTag: wirelayout.WireTypeName(wirelayout.WireTypeFor(f.DataType)),
		IsZigZag:    f.DataType.IsZigZag(),
		IsPackable:  wirelayout.IsPackable(f.DataType),
		IsPrimitive: f.DataType.IsPrimitive(),
	}
	switch f.DataType {
	case schema.Enum:
		v.IsEnum = true
		v.CCName = identifiers.CCIdentifier(identifiers.PythonFieldName(f.Group))
		v.CCType = identifiers.Mangle(f.Enum.QualifiedName())
		v.EnumCodec = v.CCType
		v.DefaultExpr = "create_py_int_zero()"
	case schema.Message:
		v.IsMessage = true
		v.CCName = identifiers.CCIdentifier(identifiers.PythonFieldName(f.Group))
		v.CCType = identifiers.Mangle(f.Message.QualifiedName())
		v.MessageCodec = v.CCType
		v.ParseFn = fmt.Sprintf("reinterpret_cast<ParseMessageFn>(%s::from_proto_data)", v.CCType)
		v.SerializeFn = v.CCType + "::as_proto_data"
		v.SubmessageTypeObj = "&" + v.CCType + "::py_type"
		v.DefaultExpr = "nullptr"
	case schema.Map:
		v.IsMap = true
		v.CCName = identifiers.CCIdentifier(identifiers.PythonFieldName(f.Group))
		v.MapKey = NewFieldInfoView(f.Message.MapKey)
		v.MapValue = NewFieldInfoView(f.Message.MapValue)
		v.DefaultExpr = "create_py_empty_dict()"
	default:
		v.CCName = identifiers.CCIdentifier(identifiers.PythonFieldName(f.Group))
		v.CCType = wirelayout.CCTypeForPrimitive(f.DataType)
		v.DefaultExpr = wirelayout.CCDefaultForPrimitive(f.DataType)
	}
	return v
}

// FieldGroupView adapts a schema.FieldGroup for template use: its mangled
// and Python names, its members as FieldInfoView, and the composed
// default-value expression for the group as a whole, a boxed PyObject*
// factory call (an optional group defaults to None, a repeated group to an
// empty list, and any other group, oneofs included, to the default of its
// lowest-numbered member; a map member's default is an empty dict).
type FieldGroupView struct {
	*schema.FieldGroup
	CCName      string
	PythonName  string
	Fields      []*FieldInfoView
	DefaultExpr string
}

// NewFieldGroupView builds a FieldGroupView for g.
func NewFieldGroupView(g *schema.FieldGroup) FieldGroupView {
	sorted := g.SortedFields()
	fields := make([]*FieldInfoView, len(sorted))
	for i, f := range sorted {
		fields[i] = NewFieldInfoView(f)
	}

	v := FieldGroupView{
		FieldGroup: g,
		CCName:     identifiers.CCIdentifier(identifiers.PythonFieldName(g.Name)),
		PythonName: identifiers.PythonFieldName(g.Name),
		Fields:     fields,
	}

	switch {
	case g.IsOptional():
		v.DefaultExpr = "create_py_none()"
	case g.IsRepeated():
		v.DefaultExpr = "create_py_empty_list()"
	default:
		v.DefaultExpr = fields[0].DefaultExpr
	}
	return v
}

// MessageView wraps a schema.MessageInfo with its field groups pre-wrapped
// as FieldGroupView so the template can reach Message from inside a field
// group section without a parent-context lookup.
type MessageView struct {
	*schema.MessageInfo
	CCName     string
	PythonName string
	Groups     []FieldGroupView
}

// NewMessageView builds a MessageView for msg.
func NewMessageView(msg *schema.MessageInfo) MessageView {
	groups := msg.SortedFieldGroups()
	views := make([]FieldGroupView, len(groups))
	for i, g := range groups {
		views[i] = NewFieldGroupView(g)
	}
	return MessageView{
		MessageInfo: msg,
		CCName:      identifiers.Mangle(msg.QualifiedName()),
		PythonName:  identifiers.PythonClassName(msg.LocalName),
		Groups:      views,
	}
}

type moduleView struct {
	*schema.ModuleInfo
	Messages []MessageView
	Enums    []EnumView
}

// ModuleViews returns v's modules pre-wrapped with their messages and
// enums, for templates that iterate {{#ModuleViews}}...{{#Messages}}.
func (v *View) ModuleViews() []moduleView {
	mods := v.SortedModules()
	out := make([]moduleView, len(mods))
	for i, m := range mods {
		msgs := m.SortedMessages()
		msgViews := make([]MessageView, len(msgs))
		for j, msg := range msgs {
			msgViews[j] = NewMessageView(msg)
		}
		enums := m.SortedEnums()
		enumViews := make([]EnumView, len(enums))
		for j, e := range enums {
			enumViews[j] = NewEnumView(e)
		}
		out[i] = moduleView{ModuleInfo: m, Messages: msgViews, Enums: enumViews}
	}
	return out
}

// Expand renders tmplText against v, returning the fully expanded source.
// After rendering it scans the output for the literal substring "{{",
// matching the original compiler's end-of-expansion assertion that no
// sentinel or unrendered tag remains (spec.md §4.4). A mustache section or
// variable this view does not expose renders as empty output, leaves no
// "{{" behind, and is therefore not reported by this scan.
func Expand(tmplText string, v *View) (string, error) {
	out, err := mustache.Render(tmplText, v)
	if err != nil {
		return "", fmt.Errorf("expanding template: %w", err)
	}
	if idx := strings.Index(out, "{{"); idx >= 0 {
		return "", fmt.Errorf("expanding template: unrendered tag remains at offset %d: %q", idx, excerpt(out, idx))
	}
	return out, nil
}

func excerpt(s string, idx int) string {
	end := idx + 24
	if end > len(s) {
		end = len(s)
	}
	return s[idx:end]
}
