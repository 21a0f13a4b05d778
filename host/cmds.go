// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A command describes one host command and the handler that runs it.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	handler     func(h *Host, args []string) error
}

var (
	commands []command
	cmds     *cmd.Tree
)

func init() {
	commands = []command{
		{
			name:        "help",
			brief:       "Display help for a command",
			description: "Display help for a command.",
			usage:       "help [<command>]",
			handler:     (*Host).cmdHelp,
		},
		{
			name:  "assemble",
			brief: "Assemble source files",
			description: "Run the selected assembler on each of the specified" +
				" files, producing a program image and its load address." +
				" When more than one file is given, the files are assembled" +
				" in parallel and their diagnostics are displayed in order.",
			usage:   "assemble <filename> [<filename> ...]",
			handler: (*Host).cmdAssemble,
		},
		{
			name:  "backends",
			brief: "List assembler backends",
			description: "List the assembler backends and check whether the" +
				" tool each one runs is available.",
			usage:   "backends",
			handler: (*Host).cmdBackends,
		},
		{
			name:  "load",
			brief: "Load a configuration file",
			description: "Load configuration variables from a file. Each line" +
				" of the file has the form 'key = value'; lines starting with" +
				" '#' are ignored.",
			usage:   "load <filename>",
			handler: (*Host).cmdLoad,
		},
		{
			name:  "probe",
			brief: "Check whether a tool can be run",
			description: "Run an executable once with a help flag to check" +
				" whether it is installed. Any program that starts is" +
				" available, whatever its exit code.",
			usage:   "probe <path> [<flag>]",
			handler: (*Host).cmdProbe,
		},
		{
			name:        "quit",
			brief:       "Quit the program",
			description: "Quit the program.",
			usage:       "quit",
			handler:     (*Host).cmdQuit,
		},
		{
			name:  "set",
			brief: "Set a configuration variable",
			description: "Set the value of a configuration variable. Type the set" +
				" command without a variable name or value to display the current" +
				" values of all configuration variables. A variable may be named" +
				" by any unambiguous prefix.",
			usage:   "set [<var> <value>]",
			handler: (*Host).cmdSet,
		},
	}

	root := cmd.NewTree(cmd.TreeDescriptor{Name: "apple2ts"})
	for i := range commands {
		c := &commands[i]
		root.AddCommand(cmd.CommandDescriptor{
			Name:        c.name,
			Brief:       c.brief,
			Description: c.description,
			Usage:       c.usage,
			Data:        c,
		})
	}

	root.AddShortcut("a", "assemble")
	root.AddShortcut("?", "help")

	cmds = root
}
