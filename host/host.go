// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that drives 6502 assemblers
// from a command prompt or a script.
//
// Within the host it is possible to assemble source files with any of the
// supported assembler backends, inspect and change the assembler
// configuration, and check which assembler tools are installed.
package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/beevik/cmd"
	"github.com/ct6502/apple2ts-studio/asm"
	"github.com/ct6502/apple2ts-studio/assembler"
	"github.com/ct6502/apple2ts-studio/backend"
	"github.com/ct6502/apple2ts-studio/config"
	"github.com/ct6502/apple2ts-studio/diag"
)

// ImageExt is the extension of the program images a host saves.
const ImageExt = ".a2bin"

var errQuit = errors.New("Exiting program")

// A command looked up from an input line, along with its arguments.
type selection struct {
	command *cmd.Command
	args    []string
}

// A Host runs assembler commands read from a terminal or a script.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	cfg         config.Config
	imageDir    string
	lastCmd     *selection

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the assembly in progress
}

// New creates a new host using the given assembler configuration. Until
// RunCommands is called, output goes to standard output.
func New(cfg config.Config) *Host {
	return &Host{
		output: bufio.NewWriter(os.Stdout),
		cfg:    cfg,
	}
}

// Config returns the host's current assembler configuration.
func (h *Host) Config() config.Config {
	return h.cfg
}

// SaveImages causes every successfully assembled program to be saved to
// dir, as a binary file that starts with a 4-byte load header. An empty
// dir stops images from being saved.
func (h *Host) SaveImages(dir string) {
	h.imageDir = dir
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}

		var s selection
		if line != "" {
			s.command, s.args, err = cmds.LookupCommand(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.interactive && h.lastCmd != nil {
			s = *h.lastCmd
		}

		if s.command == nil {
			continue
		}
		h.lastCmd = &s

		c := s.command.Data.(*command)
		if err := c.handler(h, s.args); err != nil {
			break
		}
	}
}

// Break interrupts the assembly in progress, killing any assembler tool
// it is running. It does nothing when no assembly is in progress. Break may
// be called from any goroutine.
func (h *Host) Break() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}
}

// Start an interruptible operation. The returned function must be called
// when the operation completes.
func (h *Host) begin() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	return ctx, func() {
		h.mu.Lock()
		h.cancel = nil
		h.mu.Unlock()
		cancel()
	}
}

// AssembleFiles assembles source files with the configured backend and
// reports the outcome of each. A single file's diagnostics are displayed
// as they are produced. Multiple files are assembled in parallel, and the
// diagnostics of each are displayed in order once all have finished. The
// returned error joins the errors of all files that failed.
func (h *Host) AssembleFiles(paths ...string) error {
	ctx, done := h.begin()
	defer done()

	var errs []error
	var jobs []*assembler.Job
	for _, path := range paths {
		req, err := assembler.ReadRequest(path)
		if err != nil {
			h.printf("Error: %v\n", err)
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, &assembler.Job{Request: req})
	}

	switch len(jobs) {
	case 0:
	case 1:
		j := jobs[0]
		sink := diag.NewWriterSink(flushWriter{h.output})
		j.Result, j.Err = assembler.New(h.cfg, sink).AssembleFile(ctx, j.Request)
		h.report(j)
	default:
		recorders := make([]*diag.Recorder, len(jobs))
		for i, j := range jobs {
			recorders[i] = new(diag.Recorder)
			j.Sink = recorders[i]
		}
		assembler.New(h.cfg, nil).AssembleFiles(ctx, jobs)
		for i, j := range jobs {
			recorders[i].WriteTo(h.output)
			h.report(j)
		}
	}

	for _, j := range jobs {
		if j.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.Request.SourcePath, j.Err))
		}
	}
	return errors.Join(errs...)
}

// Display the outcome of a single assembly and save its program image if
// requested.
func (h *Host) report(j *assembler.Job) {
	name := filepath.Base(j.Request.SourcePath)
	if j.Err != nil {
		h.printf("Error: %v\n", j.Err)
		h.printf("Failed to assemble '%s'.\n", name)
		return
	}

	r := j.Result
	h.printf("Assembled '%s': %d bytes at $%04X.\n", name, len(r.Binary), r.LoadAddress)

	if h.imageDir != "" {
		base := asm.Scan(j.Request.Source).BaseName(j.Request.SourcePath)
		filename := filepath.Join(h.imageDir, base+ImageExt)
		if err := saveImage(filename, r); err != nil {
			h.printf("Failed to save '%s': %v\n", filename, err)
			j.Err = err
			return
		}
		h.printf("Saved '%s'.\n", filename)
	}
}

func saveImage(filename string, r *backend.Result) error {
	b := backend.AppendHeader(make([]byte, 0, backend.HeaderSize+len(r.Binary)), r.LoadAddress, len(r.Binary))
	b = append(b, r.Binary...)
	return os.WriteFile(filename, b, 0644)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) cmdHelp(args []string) error {
	if len(args) == 0 {
		h.displayCommands()
		return nil
	}

	found, _, err := cmds.LookupCommand(strings.Join(args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	c := found.Data.(*command)
	h.printf("Syntax: %s\n\n", c.usage)
	switch {
	case c.description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, c.description))
	case c.brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, c.brief))
	}
	return nil
}

func (h *Host) cmdAssemble(args []string) error {
	if len(args) < 1 {
		h.displayHelpText("assemble")
		return nil
	}
	h.AssembleFiles(args...)
	return nil
}

func (h *Host) cmdBackends(args []string) error {
	ctx, done := h.begin()
	defer done()

	var current string
	if b, err := backend.Lookup(h.cfg.Backend, h.cfg); err == nil {
		current = b.Name()
	}

	h.println("Backend    Selected  Status")
	h.println("---------  --------  -------------")
	for _, name := range backend.Names() {
		b, err := backend.Lookup(name, h.cfg)
		if err != nil {
			continue
		}

		selected := ""
		if name == current {
			selected = "*"
		}

		status := "not installed"
		if b.Available(ctx) {
			status = "available"
		}
		h.printf("%-9s  %-8s  %s\n", name, selected, status)
	}
	return nil
}

func (h *Host) cmdLoad(args []string) error {
	if len(args) < 1 {
		h.displayHelpText("load")
		return nil
	}

	// Load into a copy so that a bad file leaves the configuration as it
	// was.
	cfg := h.cfg
	if err := cfg.Load(args[0]); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.cfg = cfg
	h.printf("Loaded '%s'.\n", args[0])
	return nil
}

func (h *Host) cmdProbe(args []string) error {
	if len(args) < 1 {
		h.displayHelpText("probe")
		return nil
	}

	ctx, done := h.begin()
	defer done()

	var flag string
	if len(args) >= 2 {
		flag = args[1]
	}

	if backend.Probe(ctx, args[0], flag) {
		h.printf("'%s' is available.\n", args[0])
	} else {
		h.printf("'%s' is not available.\n", args[0])
	}
	return nil
}

func (h *Host) cmdQuit(args []string) error {
	return errQuit
}

func (h *Host) cmdSet(args []string) error {
	switch len(args) {
	case 0:
		h.println("Variables:")
		h.cfg.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText("set")

	default:
		key, value := args[0], strings.Join(args[1:], " ")
		if err := h.cfg.Set(key, value); err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.println("Setting updated.")
	}
	return nil
}

func (h *Host) displayCommands() {
	h.println("apple2ts commands:")
	for _, c := range commands {
		h.printf("    %-15s  %s\n", c.name, c.brief)
	}
}

func (h *Host) displayHelpText(name string) {
	for _, c := range commands {
		if c.name == name {
			h.printf("Syntax: %s\n", c.usage)
			return
		}
	}
	h.println("<no help text>")
}
