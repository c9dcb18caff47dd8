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

// Command pbcompile reads a protoc-generated FileDescriptorSet and emits a
// native-extension source file plus its typed stub (spec.md §6).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/harmonic-ai/pbcc/internal/cli"
	"github.com/harmonic-ai/pbcc/internal/codegen"
	"github.com/harmonic-ai/pbcc/internal/config"
)

func main() {
	root := &cli.Command{
		Short:     "pbcompile compiles protobuf descriptors into a native Python extension",
		UsageLine: "pbcompile <command> [arguments]",
		Long:      "pbcompile reads a protoc-generated descriptor set and emits a native-extension source file and its typed stub.",
		Commands:  []*cli.Command{newCompileCommand(), newVersionCommand()},
	}
	root.Init()

	if err := root.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCompileCommand() *cli.Command {
	cfg := config.New("compile")
	var configPath string

	cmd := &cli.Command{
		Short:     "compile builds a native extension module from a descriptor set",
		UsageLine: "pbcompile compile -descriptor-set FILE -output-basename NAME [flags]",
		Long:      "compile ingests a FileDescriptorSet and writes a .cc source file and a .pyi stub next to it.",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runCompile(cfg, configPath)
		},
	}
	cmd.Init()
	cmd.Flags.StringVar(&cfg.DescriptorSet, "descriptor-set", "", "path to a serialized FileDescriptorSet")
	cmd.Flags.StringVar(&cfg.OutputBasename, "output-basename", "", "basename (no extension) for the generated files")
	cmd.Flags.BoolVar(&cfg.NoLineDirectives, "no-line-directives", false, "omit source line directives from the generated source")
	cmd.Flags.BoolVar(&cfg.SourceOnly, "source-only", false, "generate only the .cc source, skipping the .pyi stub")
	cmd.Flags.BoolVar(&cfg.RetainUnknownFields, "retain-unknown-fields", true, "not read by code generation; the generated parser always keeps bytes for schema-absent fields")
	cmd.Flags.BoolVar(&cfg.IgnoreIncorrectTypes, "ignore-incorrect-types", false, "not read by code generation; the generated parser always stores a wire-type mismatch as unknown")
	cmd.Flags.StringVar(&configPath, "config", "", "optional YAML file providing any of the above as defaults")

	return cmd
}

func runCompile(cfg *config.Config, configPath string) error {
	if configPath != "" {
		if err := cfg.Load(configPath); err != nil {
			return err
		}
	}
	if err := cfg.SetDefaults(); err != nil {
		return err
	}
	if ok, err := cfg.IsValid(); !ok {
		return err
	}

	data, err := os.ReadFile(cfg.DescriptorSet)
	if err != nil {
		return fmt.Errorf("reading descriptor set %q: %w", cfg.DescriptorSet, err)
	}

	result, err := codegen.Generate(data, cfg)
	if err != nil {
		return err
	}

	sourceName, stubName := codegen.FileNames(cfg.OutputBasename)
	if err := os.WriteFile(sourceName, []byte(result.Source), 0644); err != nil {
		return fmt.Errorf("writing %q: %w", sourceName, err)
	}
	slog.Info("wrote generated source", "path", sourceName)

	if !cfg.SourceOnly {
		if err := os.WriteFile(stubName, []byte(result.Stub), 0644); err != nil {
			return fmt.Errorf("writing %q: %w", stubName, err)
		}
		slog.Info("wrote generated stub", "path", stubName)
	}
	return nil
}

func newVersionCommand() *cli.Command {
	cmd := &cli.Command{
		Short:     "version prints the pbcompile build version",
		UsageLine: "pbcompile version",
		Long:      "version prints the build version embedded by the Go toolchain.",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println(cli.Version())
			return nil
		},
	}
	cmd.Init()
	return cmd
}
