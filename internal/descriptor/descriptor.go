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

// Package descriptor ingests a compiled FileDescriptorSet into a
// schema.Collection (spec.md §4.1): it registers every top-level message
// and enum across the set, then resolves field types, folds proto3-optional
// singletons and real oneofs into schema.FieldGroups, and detects
// structural map entries.
package descriptor

import (
	"path"
	"sort"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/harmonic-ai/pbcc/internal/perrors"
	"github.com/harmonic-ai/pbcc/internal/schema"
)

// node is a registered top-level type, either a message or an enum,
// indexed by its fully-qualified descriptor name (".pkg.Name").
type node struct {
	module   string
	msgDesc  *descriptorpb.DescriptorProto
	enumDesc *descriptorpb.EnumDescriptorProto
	msgInfo  *schema.MessageInfo
	enumInfo *schema.EnumInfo
}

type ingester struct {
	coll    *schema.Collection
	byFQN   map[string]*node
	pending []*node // in registration order, for deterministic error messages
}

// Ingest builds a schema.Collection from a compiled descriptor set,
// matching spec.md §6.1's input contract.
func Ingest(fds *descriptorpb.FileDescriptorSet) (*schema.Collection, error) {
	in := &ingester{
		coll:  schema.NewCollection(),
		byFQN: make(map[string]*node),
	}

	if err := in.checkImportCycles(fds); err != nil {
		return nil, err
	}

	for _, f := range fds.GetFile() {
		mod := moduleName(f.GetName())
		if _, ok := in.coll.Modules[mod]; !ok {
			in.coll.Modules[mod] = schema.NewModuleInfo(mod)
		}
		pkg := f.GetPackage()
		if err := in.registerEnums(mod, pkg, f.GetEnumType()); err != nil {
			return nil, err
		}
		if err := in.registerMessages(mod, pkg, f.GetMessageType(), true); err != nil {
			return nil, err
		}
	}

	for _, n := range in.pending {
		if n.msgDesc != nil {
			if err := in.buildMessage(n); err != nil {
				return nil, err
			}
		}
	}

	in.coll.ComputeGlobalAliases()
	return in.coll, nil
}

// moduleName derives a module's short name from its .proto file path:
// the basename with the extension stripped (spec.md GLOSSARY "module").
func moduleName(protoPath string) string {
	base := path.Base(protoPath)
	return strings.TrimSuffix(base, ".proto")
}

func fqName(pkg, name string) string {
	if pkg == "" {
		return "." + name
	}
	return "." + pkg + "." + name
}

func (in *ingester) registerEnums(module, pkg string, enums []*descriptorpb.EnumDescriptorProto) error {
	for _, ed := range enums {
		fq := fqName(pkg, ed.GetName())
		info := &schema.EnumInfo{Module: module, LocalName: ed.GetName()}
		n := &node{module: module, enumDesc: ed, enumInfo: info}
		in.byFQN[fq] = n
		in.pending = append(in.pending, n)
		in.coll.Modules[module].Enums[ed.GetName()] = info
		for _, v := range ed.GetValue() {
			info.Values = append(info.Values, schema.EnumValue{Name: v.GetName(), Number: v.GetNumber()})
		}
	}
	return nil
}

func (in *ingester) registerMessages(module, pkg string, messages []*descriptorpb.DescriptorProto, topLevel bool) error {
	for _, md := range messages {
		if !topLevel && !md.GetOptions().GetMapEntry() {
			return &perrors.SchemaError{
				Module: module,
				Detail: "nested message types are not supported: " + md.GetName(),
			}
		}
		if len(md.GetEnumType()) > 0 {
			return &perrors.SchemaError{
				Module: module,
				Detail: "nested enum types are not supported: " + md.GetEnumType()[0].GetName() + " in " + md.GetName(),
			}
		}

		fq := fqName(pkg, md.GetName())
		info := &schema.MessageInfo{
			Module:         module,
			LocalName:      md.GetName(),
			FieldForNumber: make(map[int32]*schema.FieldInfo),
			FieldGroups:    make(map[string]*schema.FieldGroup),
		}
		n := &node{module: module, msgDesc: md, msgInfo: info}
		in.byFQN[fq] = n
		in.pending = append(in.pending, n)
		in.coll.Modules[module].Messages[md.GetName()] = info

		// Map-entry synthetic messages nest one level below their owning
		// message in the descriptor but are never resolved as nested
		// types in this model: only the Entry message's own fq name is
		// registered, which is all field type resolution ever needs.
		if nested := md.GetNestedType(); len(nested) > 0 {
			nestedPkg := pkg
			if pkg == "" {
				nestedPkg = md.GetName()
			} else {
				nestedPkg = pkg + "." + md.GetName()
			}
			if err := in.registerMessages(module, nestedPkg, nested, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildMessage resolves n's fields into schema.FieldGroups, folding
// proto3-optional singletons and real oneofs, and detecting map entries
// (spec.md §3, §4.1).
func (in *ingester) buildMessage(n *node) error {
	md := n.msgDesc
	info := n.msgInfo

	oneofFields := make(map[int32][]*descriptorpb.FieldDescriptorProto)
	var plain []*descriptorpb.FieldDescriptorProto
	for _, fd := range md.GetField() {
		if fd.OneofIndex != nil && !fd.GetProto3Optional() {
			idx := fd.GetOneofIndex()
			oneofFields[idx] = append(oneofFields[idx], fd)
		} else {
			plain = append(plain, fd)
		}
	}

	for _, fd := range plain {
		fi, err := in.buildField(n, fd)
		if err != nil {
			return err
		}
		group := &schema.FieldGroup{Name: fd.GetName(), Fields: []*schema.FieldInfo{fi}}
		info.FieldGroups[group.Name] = group
		info.FieldForNumber[fi.Number] = fi
	}

	oneofNames := md.GetOneofDecl()
	for idx, fds := range oneofFields {
		groupName := "oneof"
		if int(idx) < len(oneofNames) {
			groupName = oneofNames[idx].GetName()
		}
		var fields []*schema.FieldInfo
		seen := make(map[string]bool)
		for _, fd := range fds {
			fi, err := in.buildField(n, fd)
			if err != nil {
				return err
			}
			key := fi.TypeKey()
			if seen[key] {
				return &perrors.SchemaError{
					Module: n.module,
					Detail: "oneof " + groupName + " in " + info.LocalName + " has two members of the same type " + key,
				}
			}
			seen[key] = true
			fields = append(fields, fi)
			info.FieldForNumber[fi.Number] = fi
		}
		info.FieldGroups[groupName] = &schema.FieldGroup{Name: groupName, Fields: fields}
	}

	return in.detectMapEntry(info, md)
}

func (in *ingester) buildField(n *node, fd *descriptorpb.FieldDescriptorProto) (*schema.FieldInfo, error) {
	fi := &schema.FieldInfo{
		Group:      fd.GetName(),
		IsOptional: fd.GetProto3Optional(),
		IsRepeated: fd.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED,
		Number:     fd.GetNumber(),
	}

	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		fi.DataType = schema.Float
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		fi.DataType = schema.Double
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		fi.DataType = schema.Int32
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		fi.DataType = schema.Uint32
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		fi.DataType = schema.Sint32
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		fi.DataType = schema.Int64
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		fi.DataType = schema.Uint64
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		fi.DataType = schema.Sint64
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		fi.DataType = schema.Fixed32
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		fi.DataType = schema.Sfixed32
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		fi.DataType = schema.Fixed64
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		fi.DataType = schema.Sfixed64
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		fi.DataType = schema.Bool
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		fi.DataType = schema.String
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		fi.DataType = schema.Bytes
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		target, ok := in.byFQN[fd.GetTypeName()]
		if !ok || target.enumInfo == nil {
			return nil, &perrors.SchemaError{Module: n.module, Detail: "unresolved enum reference " + fd.GetTypeName()}
		}
		fi.DataType = schema.Enum
		fi.Enum = target.enumInfo
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		target, ok := in.byFQN[fd.GetTypeName()]
		if !ok || target.msgInfo == nil {
			return nil, &perrors.SchemaError{Module: n.module, Detail: "unresolved message reference " + fd.GetTypeName()}
		}
		if target.msgDesc.GetOptions().GetMapEntry() {
			fi.DataType = schema.Map
			fi.IsRepeated = false
			fi.Message = target.msgInfo
		} else {
			fi.DataType = schema.Message
			fi.Message = target.msgInfo
		}
	default:
		return nil, &perrors.SchemaError{Module: n.module, Detail: "unsupported field type for " + fd.GetName()}
	}

	return fi, nil
}

// detectMapEntry records MapKey/MapValue on info if it was synthesized by
// protoc for a map<...> field: options.map_entry set, exactly fields 1
// ("key") and 2 ("value"), name ending in "Entry" (spec.md §3).
func (in *ingester) detectMapEntry(info *schema.MessageInfo, md *descriptorpb.DescriptorProto) error {
	if !md.GetOptions().GetMapEntry() {
		return nil
	}
	if !strings.HasSuffix(info.LocalName, "Entry") {
		return &perrors.SchemaError{Module: info.Module, Detail: "map entry message name must end in Entry: " + info.LocalName}
	}
	key, ok1 := info.FieldForNumber[1]
	value, ok2 := info.FieldForNumber[2]
	if !ok1 || !ok2 || key.Group != "key" || value.Group != "value" {
		return &perrors.SchemaError{Module: info.Module, Detail: "map entry message has unexpected field shape: " + info.LocalName}
	}
	info.MapKey = key
	info.MapValue = value
	return nil
}

// checkImportCycles walks the file-level Dependency graph and reports a
// SchemaError if it is cyclic. A descriptor set produced by protoc is
// always acyclic (the original compiler's ModuleCollection.InProgress flag
// guarded against cycles introduced by its own incremental, one-file-at-a-
// time invocation of protoc); this check preserves the same invariant over
// an already-flattened set.
func (in *ingester) checkImportCycles(fds *descriptorpb.FileDescriptorSet) error {
	deps := make(map[string][]string)
	names := make([]string, 0, len(fds.GetFile()))
	for _, f := range fds.GetFile() {
		deps[f.GetName()] = f.GetDependency()
		names = append(names, f.GetName())
	}
	sort.Strings(names)

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return &perrors.SchemaError{Detail: "import cycle detected at " + name}
		}
		state[name] = visiting
		for _, dep := range deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
