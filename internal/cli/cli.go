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

// Package cli defines a lightweight framework for building CLI commands.
// It's designed to be generic and self-contained, with no embedded business
// logic or dependencies on the surrounding application's configuration.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Command represents a single command that can be executed by the
// application.
type Command struct {
	// Short is a concise one-line description of the command.
	Short string

	// UsageLine is the one line usage.
	UsageLine string

	// Long is the full description of the command.
	Long string

	// Action executes the command once flags have been parsed.
	Action func(ctx context.Context, cmd *Command) error

	// Commands are the sub commands.
	Commands []*Command

	// Flags is the command's flag set for parsing arguments and generating
	// usage messages. Populated by Init.
	Flags *flag.FlagSet
}

// Init creates a new flag set for the command, reporting usage through c's
// own usage renderer on a parse error.
func (c *Command) Init() *Command {
	c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.Flags.Usage = func() {
		c.usage(c.Flags.Output())
	}
	return c
}

// Name is the command name. Command.Short is always expected to begin with
// this name.
func (c *Command) Name() string {
	if c.Short == "" {
		panic("command is missing documentation")
	}
	parts := strings.Fields(c.Short)
	return parts[0]
}

// Run resolves args against c's command tree, parses flags for the resolved
// command, and invokes its Action.
func (c *Command) Run(ctx context.Context, args []string) error {
	cmd, rest, err := lookupCommand(c, args)
	if err != nil {
		return err
	}
	if err := cmd.Flags.Parse(rest); err != nil {
		return err
	}
	if cmd.Action == nil {
		return fmt.Errorf("command %q has no action and no subcommand was given", cmd.Name())
	}
	return cmd.Action(ctx, cmd)
}

// lookupCommand walks args against cmd's subcommand tree, stopping at the
// first flag argument or at a command that has no subcommands (so that the
// remaining args, including any flags, can be parsed by the resolved
// command). A non-flag argument that names none of a command's subcommands
// is an error.
func lookupCommand(cmd *Command, args []string) (*Command, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return cmd, args, nil
	}
	for _, sub := range cmd.Commands {
		if sub.Name() == args[0] {
			return lookupCommand(sub, args[1:])
		}
	}
	if len(cmd.Commands) == 0 {
		return cmd, args, nil
	}
	return nil, nil, fmt.Errorf("invalid command: %q", args[0])
}

func (c *Command) usage(w io.Writer) {
	if c.Short == "" || c.UsageLine == "" || c.Long == "" {
		panic(fmt.Sprintf("command %q is missing documentation", c.Name()))
	}

	fmt.Fprintf(w, "%s\n\nUsage:\n\n  %s\n\n", c.Long, c.UsageLine)
	if len(c.Commands) > 0 {
		fmt.Fprint(w, "Commands:\n\n")
		for _, sub := range c.Commands {
			parts := strings.Fields(sub.Short)
			short := strings.Join(parts[1:], " ")
			fmt.Fprintf(w, "  %-25s  %s\n", sub.Name(), short)
		}
		fmt.Fprint(w, "\n")
	}
	if hasFlags(c.Flags) {
		fmt.Fprint(w, "Flags:\n\n")
		c.Flags.SetOutput(w)
		c.Flags.PrintDefaults()
		fmt.Fprint(w, "\n\n")
	}
}

func hasFlags(fs *flag.FlagSet) bool {
	visited := false
	fs.VisitAll(func(f *flag.Flag) {
		visited = true
	})
	return visited
}
