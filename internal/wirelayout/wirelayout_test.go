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

package wirelayout

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/harmonic-ai/pbcc/internal/schema"
)

func TestWireTypeFor(t *testing.T) {
	for _, test := range []struct {
		dt   schema.DataType
		want protowire.Type
	}{
		{schema.Int32, protowire.VarintType},
		{schema.Sint64, protowire.VarintType},
		{schema.Bool, protowire.VarintType},
		{schema.Enum, protowire.VarintType},
		{schema.Fixed32, protowire.Fixed32Type},
		{schema.Float, protowire.Fixed32Type},
		{schema.Fixed64, protowire.Fixed64Type},
		{schema.Double, protowire.Fixed64Type},
		{schema.String, protowire.BytesType},
		{schema.Bytes, protowire.BytesType},
		{schema.Message, protowire.BytesType},
		{schema.Map, protowire.BytesType},
	} {
		if got := WireTypeFor(test.dt); got != test.want {
			t.Errorf("WireTypeFor(%v) = %v, want %v", test.dt, got, test.want)
		}
	}
}

func TestIsPackable(t *testing.T) {
	for _, test := range []struct {
		dt   schema.DataType
		want bool
	}{
		{schema.Int32, true},
		{schema.Bool, true},
		{schema.Enum, true},
		{schema.String, false},
		{schema.Bytes, false},
		{schema.Message, false},
		{schema.Map, false},
	} {
		if got := IsPackable(test.dt); got != test.want {
			t.Errorf("IsPackable(%v) = %v, want %v", test.dt, got, test.want)
		}
	}
}

func TestWireTypeName(t *testing.T) {
	for _, test := range []struct {
		wt   protowire.Type
		want string
	}{
		{protowire.VarintType, "WIRE_VARINT"},
		{protowire.Fixed32Type, "WIRE_I32"},
		{protowire.Fixed64Type, "WIRE_I64"},
		{protowire.BytesType, "WIRE_LEN"},
	} {
		if got := WireTypeName(test.wt); got != test.want {
			t.Errorf("WireTypeName(%v) = %q, want %q", test.wt, got, test.want)
		}
	}
}

func TestCCDefaultForPrimitive(t *testing.T) {
	for _, test := range []struct {
		dt   schema.DataType
		want string
	}{
		{schema.Float, "create_py_float_zero()"},
		{schema.Double, "create_py_float_zero()"},
		{schema.Int32, "create_py_int_zero()"},
		{schema.Sint64, "create_py_int_zero()"},
		{schema.Bool, "create_py_false()"},
		{schema.String, "create_py_empty_str()"},
		{schema.Bytes, "create_py_empty_bytes()"},
	} {
		if got := CCDefaultForPrimitive(test.dt); got != test.want {
			t.Errorf("CCDefaultForPrimitive(%v) = %q, want %q", test.dt, got, test.want)
		}
	}
}

func TestCCTypeForPrimitive(t *testing.T) {
	for _, test := range []struct {
		dt   schema.DataType
		want string
	}{
		{schema.Float, "float"},
		{schema.Double, "double"},
		{schema.Int32, "int32_t"},
		{schema.Uint64, "uint64_t"},
		{schema.Bool, "bool"},
		{schema.String, "std::string"},
		{schema.Bytes, "std::vector<uint8_t>"},
	} {
		if got := CCTypeForPrimitive(test.dt); got != test.want {
			t.Errorf("CCTypeForPrimitive(%v) = %q, want %q", test.dt, got, test.want)
		}
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	// spec.md §8.a: sint32 = -1 must zig-zag encode to 1 (wire bytes 0x01).
	if got := ZigZagEncode32(-1); got != 1 {
		t.Errorf("ZigZagEncode32(-1) = %d, want 1", got)
	}
	if got := ZigZagDecode32(1); got != -1 {
		t.Errorf("ZigZagDecode32(1) = %d, want -1", got)
	}

	for _, v := range []int32{0, -1, 1, math32Min, math32Max} {
		if got := ZigZagDecode32(ZigZagEncode32(v)); got != v {
			t.Errorf("round trip 32 for %d = %d", v, got)
		}
	}
	for _, v := range []int64{0, -1, 1, -1 << 40, 1 << 40} {
		if got := ZigZagDecode64(ZigZagEncode64(v)); got != v {
			t.Errorf("round trip 64 for %d = %d", v, got)
		}
	}
}

const (
	math32Min = -(1 << 31)
	math32Max = (1 << 31) - 1
)

func TestFitsInRange(t *testing.T) {
	for _, test := range []struct {
		v      int64
		width  int
		signed bool
		want   bool
	}{
		{0x7FFFFFFF, 32, true, true},
		{0x80000000, 32, true, false},
		{-0x80000000, 32, true, true},
		{-0x80000001, 32, true, false},
		{0x100000000, 32, false, false},
		{0xFFFFFFFF, 32, false, true},
		{-1, 32, false, false},
	} {
		if got := FitsInRange(test.v, test.width, test.signed); got != test.want {
			t.Errorf("FitsInRange(%d, %d, %v) = %v, want %v", test.v, test.width, test.signed, got, test.want)
		}
	}
}
