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

// Package identifiers mangles dotted schema names (module.Message.Nested)
// into the flat, collision-free identifiers the generated C++ source and
// Python stub need (spec.md §4.3/§4.4 GLOSSARY "mangled name").
package identifiers

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Mangle turns a dotted qualified name into a single C-identifier-safe
// token, joining components with a double underscore so that "a.B" and
// "a_B" (which would otherwise collide once dots are stripped) stay
// distinguishable.
func Mangle(qualifiedName string) string {
	parts := strings.Split(qualifiedName, ".")
	for i, p := range parts {
		parts[i] = strcase.ToCamel(p)
	}
	return strings.Join(parts, "__")
}

// PythonClassName returns the local (non-mangled) name used for the
// generated Python class/enum in the .pyi stub: CamelCase, independent of
// whatever case convention the source .proto used for the message or enum
// name.
func PythonClassName(localName string) string {
	return strcase.ToCamel(localName)
}

// PythonFieldName returns the snake_case accessor name for a field, given
// its group name from the schema (spec.md §4.3's keyword-only constructor
// argument names and property names).
func PythonFieldName(groupName string) string {
	return strcase.ToSnake(groupName)
}

// CCIdentifier returns a name safe to use as a C++ identifier (function,
// variable, or type name) for the given mangled or local name, guarding
// against the rare case of a name that collides with a C++ reserved word
// by appending a trailing underscore, the same convention protoc's own C++
// generator uses.
func CCIdentifier(name string) string {
	if reservedCCWords[name] {
		return name + "_"
	}
	return name
}

var reservedCCWords = map[string]bool{
	"class": true, "struct": true, "union": true, "template": true,
	"namespace": true, "new": true, "delete": true, "operator": true,
	"public": true, "private": true, "protected": true, "friend": true,
	"virtual": true, "explicit": true, "export": true, "import": true,
	"module": true, "this": true, "typename": true,
}
