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

// Package wirelayout pins the protobuf wire-format facts the generated
// codec needs: which wire type a DataType uses, how its default value is
// constructed, and the zig-zag transform for signed varint fields. The
// actual tag/varint encoding used by the template's worked examples is
// provided by protowire directly; this package supplies the schema-to-wire
// mapping protowire itself has no opinion on.
package wirelayout

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/harmonic-ai/pbcc/internal/schema"
)

// WireTypeFor returns the protowire.Type a field of the given DataType is
// encoded with. MAP and MESSAGE fields, and packed repeated primitives, are
// always protowire.BytesType (LEN); unpacked repeated primitives use the
// scalar's own wire type once per element (spec.md §4.5).
func WireTypeFor(t schema.DataType) protowire.Type {
	switch t {
	case schema.Int32, schema.Uint32, schema.Sint32,
		schema.Int64, schema.Uint64, schema.Sint64,
		schema.Bool, schema.Enum:
		return protowire.VarintType
	case schema.Fixed32, schema.Sfixed32, schema.Float:
		return protowire.Fixed32Type
	case schema.Fixed64, schema.Sfixed64, schema.Double:
		return protowire.Fixed64Type
	case schema.String, schema.Bytes, schema.Message, schema.Map:
		return protowire.BytesType
	default:
		return protowire.VarintType
	}
}

// WireTypeName returns the generated codec's spelling for a protowire.Type,
// used as the tag in the per-field parse switch the template emits
// (spec.md §4.5).
func WireTypeName(t protowire.Type) string {
	switch t {
	case protowire.VarintType:
		return "WIRE_VARINT"
	case protowire.Fixed32Type:
		return "WIRE_I32"
	case protowire.Fixed64Type:
		return "WIRE_I64"
	case protowire.BytesType:
		return "WIRE_LEN"
	default:
		return "WIRE_VARINT"
	}
}

// CCDefaultForPrimitive returns the boxed-default factory call a field of
// this primitive DataType is initialized to when absent from the wire,
// following the original's CC_DEFAULT_VALUE_CONSTRUCTOR_FOR_PRIMITIVE_DATA_TYPE
// table: every field slot stores a PyObject*, so "zero" is a freshly built
// Python int/float/bool/str/bytes rather than a C++ literal. Callers handle
// ENUM and MESSAGE defaults themselves, since those need the field's
// resolved enum/message type.
func CCDefaultForPrimitive(t schema.DataType) string {
	switch t {
	case schema.Float, schema.Double:
		return "create_py_float_zero()"
	case schema.Int32, schema.Uint32, schema.Sint32, schema.Fixed32, schema.Sfixed32,
		schema.Int64, schema.Uint64, schema.Sint64, schema.Fixed64, schema.Sfixed64:
		return "create_py_int_zero()"
	case schema.Bool:
		return "create_py_false()"
	case schema.String:
		return "create_py_empty_str()"
	case schema.Bytes:
		return "create_py_empty_bytes()"
	default:
		return "create_py_none()"
	}
}

// CCTypeForPrimitive returns the native C++ type a primitive DataType is
// unboxed into while the wire codec decodes or encodes it — a varint field
// is read into this type via protowire-style arithmetic and then boxed into
// the PyObject* the field slot actually stores, and the reverse on encode.
func CCTypeForPrimitive(t schema.DataType) string {
	switch t {
	case schema.Float:
		return "float"
	case schema.Double:
		return "double"
	case schema.Int32, schema.Sint32, schema.Sfixed32:
		return "int32_t"
	case schema.Uint32, schema.Fixed32:
		return "uint32_t"
	case schema.Int64, schema.Sint64, schema.Sfixed64:
		return "int64_t"
	case schema.Uint64, schema.Fixed64:
		return "uint64_t"
	case schema.Bool:
		return "bool"
	case schema.String:
		return "std::string"
	case schema.Bytes:
		return "std::vector<uint8_t>"
	default:
		return "int32_t"
	}
}

// IsPackable reports whether repeated fields of this DataType use the
// packed LEN encoding by default in proto3 (every scalar numeric type and
// bool; strings, bytes, and message types are never packed).
func IsPackable(t schema.DataType) bool {
	switch t {
	case schema.String, schema.Bytes, schema.Message, schema.Map:
		return false
	default:
		return true
	}
}

// ZigZagEncode32 maps a signed 32-bit value to its zig-zag unsigned form,
// as used by SINT32 fields (spec.md §8.a: sint32=-1 encodes as 0x01).
func ZigZagEncode32(v int32) uint32 {
	return uint32(protowire.EncodeZigZag(int64(v)))
}

// ZigZagDecode32 reverses ZigZagEncode32.
func ZigZagDecode32(v uint32) int32 {
	return int32(protowire.DecodeZigZag(uint64(v)))
}

// ZigZagEncode64 maps a signed 64-bit value to its zig-zag unsigned form,
// as used by SINT64 fields.
func ZigZagEncode64(v int64) uint64 {
	return protowire.EncodeZigZag(v)
}

// ZigZagDecode64 reverses ZigZagEncode64.
func ZigZagDecode64(v uint64) int64 {
	return protowire.DecodeZigZag(v)
}

// ReprTruncationThreshold is the maximum number of bytes a BYTES field's
// repr() renders before truncating with a trailing ellipsis marker
// (spec.md §4.6, §9 Open Question — fixed at the low end of the spec's
// suggested 64-128 byte range).
const ReprTruncationThreshold = 64

// FitsInRange reports whether v fits in the representable range of an
// integer field with the given bit width and signedness (spec.md §4.5
// RangeError checks).
func FitsInRange(v int64, width int, signed bool) bool {
	if signed {
		switch width {
		case 32:
			return v >= math.MinInt32 && v <= math.MaxInt32
		case 64:
			return true
		}
	} else {
		switch width {
		case 32:
			return v >= 0 && v <= math.MaxUint32
		case 64:
			return v >= 0
		}
	}
	return false
}
