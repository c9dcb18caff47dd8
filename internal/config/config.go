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

// Package config defines configuration used by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values parsed from flags or an optional
// YAML config file. When adding members to this
// struct, please keep them in alphabetical order.
type Config struct {
	// CommandName is the name of the command being executed.
	//
	// CommandName is populated automatically after flag parsing. No user
	// setup is expected.
	CommandName string

	// DescriptorSet is the path to a serialized FileDescriptorSet produced
	// by protoc --descriptor_set_out (spec.md §6.1).
	//
	// DescriptorSet is specified with the -descriptor-set flag, or the
	// descriptor_set key in a YAML config file.
	DescriptorSet string `yaml:"descriptor_set"`

	// IgnoreIncorrectTypes is not read by codegen.Generate, so it does not
	// change the generated source: the generated parser stores every
	// wire-type mismatch on a known field as unknown-field bytes and never
	// fails on one, and it does not check map key/value wire types.
	//
	// IgnoreIncorrectTypes is specified with the -ignore-incorrect-types
	// flag, or the ignore_incorrect_types key in a YAML config file.
	IgnoreIncorrectTypes bool `yaml:"ignore_incorrect_types"`

	// NoLineDirectives mirrors the original's --no-line-directives flag. It
	// sets template.View.EmitLineDirectives, but the bundled template emits
	// no line directives, so the generated source is the same either way.
	//
	// NoLineDirectives is specified with the -no-line-directives flag, or
	// the no_line_directives key in a YAML config file.
	NoLineDirectives bool `yaml:"no_line_directives"`

	// OutputBasename is the basename (no extension) shared by the generated
	// .cc and .pyi files (spec.md §6.4).
	//
	// OutputBasename is specified with the -output-basename flag, or the
	// output_basename key in a YAML config file.
	OutputBasename string `yaml:"output_basename"`

	// RetainUnknownFields is not read by codegen.Generate, so it does not
	// change the generated source: the generated parser always keeps the
	// bytes of fields absent from the schema and re-emits them on
	// serialize. The -retain-unknown-fields flag defaults to true; New
	// leaves it false.
	//
	// RetainUnknownFields is specified with the -retain-unknown-fields
	// flag, or the retain_unknown_fields key in a YAML config file.
	RetainUnknownFields bool `yaml:"retain_unknown_fields"`

	// SourceOnly restricts generation to the .cc source, skipping the .pyi
	// stub, mirroring the original's --source-only flag.
	//
	// SourceOnly is specified with the -source-only flag, or the
	// source_only key in a YAML config file.
	SourceOnly bool `yaml:"source_only"`
}

// New returns a new Config populated with its defaults.
func New(cmdName string) *Config {
	c := &Config{CommandName: cmdName}
	c.SetDefaults()
	return c
}

// Load reads a YAML config file at path and merges it onto c. Fields already
// set on c (for example by flags parsed before Load is called) are left
// untouched only when the file is silent on them; an explicit zero value in
// the file still overrides a non-zero flag value, since flags and file are
// never expected to both supply the same field in normal use.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return nil
}

// SetDefaults initializes values not set directly by the user. Boolean
// defaults (RetainUnknownFields) live in cmd/pbcompile's flag.BoolVar calls
// instead of here, since a bare bool field cannot tell "unset" from "false".
func (c *Config) SetDefaults() error {
	if c.OutputBasename == "" {
		c.OutputBasename = "generated"
	}
	return nil
}

// IsValid ensures the values contained in a Config are valid.
func (c *Config) IsValid() (bool, error) {
	if c.DescriptorSet == "" {
		return false, errors.New("descriptor set path not specified")
	}
	if c.OutputBasename == "" {
		return false, errors.New("output basename not specified")
	}
	return true, nil
}
