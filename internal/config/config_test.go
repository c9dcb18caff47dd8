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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	got := New("compile")
	want := &Config{
		CommandName:    "compile",
		OutputBasename: "generated",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("New() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pbcompile.yaml")
	contents := "descriptor_set: testdata/module.binpb\noutput_basename: mymodule\nsource_only: true\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	cfg := New("compile")
	if err := cfg.Load(path); err != nil {
		t.Fatalf("Load() = %v", err)
	}

	want := &Config{
		CommandName:    "compile",
		DescriptorSet:  "testdata/module.binpb",
		OutputBasename: "mymodule",
		SourceOnly:     true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_missingFile(t *testing.T) {
	cfg := New("compile")
	if err := cfg.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() = nil, want error")
	}
}

func TestLoad_malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pbcompile.yaml")
	if err := os.WriteFile(path, []byte("descriptor_set: [unterminated"), 0644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	cfg := New("compile")
	if err := cfg.Load(path); err == nil {
		t.Fatal("Load() = nil, want error")
	}
}

func TestIsValid(t *testing.T) {
	for _, test := range []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{DescriptorSet: "mod.binpb", OutputBasename: "generated"},
		},
		{
			name:    "missing descriptor set",
			cfg:     Config{OutputBasename: "generated"},
			wantErr: true,
		},
		{
			name:    "missing output basename",
			cfg:     Config{DescriptorSet: "mod.binpb"},
			wantErr: true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			ok, err := test.cfg.IsValid()
			if test.wantErr {
				if err == nil {
					t.Fatal("IsValid() = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("IsValid() = %v", err)
			}
			if !ok {
				t.Fatal("IsValid() = false, want true")
			}
		})
	}
}
