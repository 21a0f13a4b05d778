// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend runs 6502 assemblers and normalizes what they produce
// into a load address and a program image.
//
// Each supported external assembler has an adapter that knows how to
// invoke it, where it leaves its output and how that output is laid out:
//
//	cl65      raw binary written to the path given with -o
//	64tass    binary written to the path given with -o, optionally
//	          prefixed with a 4-byte Apple II load header
//	merlin32  binary written to the name given by the source's DSK
//	          directive
//
// The "fallback" backend uses the built-in encoder from package asm and
// never fails.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ct6502/apple2ts-studio/asm"
	"github.com/ct6502/apple2ts-studio/config"
	"github.com/ct6502/apple2ts-studio/diag"
)

// A Request identifies the source file to assemble.
type Request struct {
	SourcePath string // absolute path of the source file
	Source     string // contents of the source file
	WorkDir    string // directory relative output paths are resolved in
}

// A Result is an assembled program.
type Result struct {
	LoadAddress uint16 // address the program image is loaded at
	Binary      []byte // program image, without any tool-specific header
}

// A Backend assembles source files into program images.
type Backend interface {
	// Name returns the name the backend is selected by.
	Name() string

	// Available reports whether the backend's tool can be run.
	Available(ctx context.Context) bool

	// Assemble assembles the requested source file. Diagnostic lines are
	// appended to sink as they are produced.
	Assemble(ctx context.Context, req *Request, meta asm.Metadata, sink diag.Sink) (*Result, error)
}

var (
	errOverwriteSource = errors.New("output would overwrite the source file")
	errOutputIsDir     = errors.New("output path is a directory")
)

var backends = map[string]func(cfg *config.Config) Backend{
	"64tass":   newTass,
	"cl65":     newCL65,
	"merlin32": newMerlin,
	"fallback": func(*config.Config) Backend { return Builtin{} },
}

// Names returns the names of all backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the backend registered under name, configured from cfg.
// An empty name selects the fallback backend.
func Lookup(name string, cfg config.Config) (Backend, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "fallback"
	}
	fn, ok := backends[key]
	if !ok {
		return nil, &Error{
			Kind: ErrUnknownBackend,
			Err:  fmt.Errorf("'%s' (expected one of %s)", name, strings.Join(Names(), ", ")),
		}
	}
	return fn(&cfg), nil
}

// A tool holds what all external assembler adapters share.
type tool struct {
	name      string // backend name
	path      string // configured executable
	args      string // configured argument template
	probeFlag string // flag passed when probing the tool
}

func (t *tool) Name() string {
	return t.name
}

func (t *tool) Available(ctx context.Context) bool {
	return Probe(ctx, t.path, t.probeFlag)
}

// Executable returns the program the backend runs.
func (t *tool) Executable() string {
	return executable(t.path)
}

func (t *tool) expand(x expansion) (arguments, error) {
	a, err := expandArgs(t.args, x)
	if err != nil {
		return a, &Error{Kind: ErrInvalidArgs, Backend: t.name, Err: err}
	}
	return a, nil
}

// Run the tool with the given arguments, expecting it to produce a binary
// at output. Its standard output and error are always forwarded to sink.
func (t *tool) run(ctx context.Context, req *Request, sink diag.Sink, args []string, output string) (*outcome, error) {
	if filepath.Clean(output) == filepath.Clean(req.SourcePath) {
		return nil, &Error{Kind: ErrIO, Backend: t.name, Path: output, Err: errOverwriteSource}
	}

	// Remove output left by an earlier run, so that a tool that succeeds
	// without writing anything is detected.
	if err := removeStale(output); err != nil {
		return nil, &Error{Kind: ErrIO, Backend: t.name, Path: output, Err: err}
	}

	path := executable(t.path)
	diag.Printf(sink, "Running: %s", commandLine(path, args))

	o, err := run(ctx, req.WorkDir, path, args)
	if o != nil {
		diag.Tagged(sink, t.name+" stdout", o.stdout)
		diag.Tagged(sink, t.name+" stderr", o.stderr)
	}

	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		return nil, &Error{Kind: ErrTimeout, Backend: t.name, Path: path, Err: err}
	case errors.Is(err, context.Canceled):
		return nil, fmt.Errorf("%s: %w", t.name, err)
	default:
		return nil, &Error{Kind: ErrToolNotFound, Backend: t.name, Path: path, Err: err}
	}

	if o.exitCode != 0 {
		return nil, &Error{
			Kind:     ErrToolFailed,
			Backend:  t.name,
			ExitCode: o.exitCode,
			Stdout:   o.stdout,
			Stderr:   o.stderr,
		}
	}

	o.output = output
	return o, nil
}

// Remove a file left at the output path. A directory there is an error,
// never something to delete.
func removeStale(output string) error {
	fi, err := os.Lstat(output)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case fi.IsDir():
		return errOutputIsDir
	}
	return os.Remove(output)
}

// Read the binary a successful tool run produced.
func (t *tool) read(o *outcome) ([]byte, error) {
	b, err := os.ReadFile(o.output)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &Error{Kind: ErrOutputMissing, Backend: t.name, Path: o.output}
	case err != nil:
		return nil, &Error{Kind: ErrIO, Backend: t.name, Path: o.output, Err: err}
	}
	return b, nil
}

// Assemble with a tool that is told where to write its binary with -o, and
// return the binary. The binary is named after the source's DSK directive,
// with a .bin extension.
func (t *tool) assembleBin(ctx context.Context, req *Request, meta asm.Metadata, sink diag.Sink) ([]byte, error) {
	output := filepath.Join(req.WorkDir, meta.BaseName(req.SourcePath)+".bin")

	a, err := t.expand(expansion{source: req.SourcePath, output: output})
	if err != nil {
		return nil, err
	}
	if !a.hasOutput {
		a.args = append(a.args, "-o", output)
	}
	if !a.hasSource {
		a.args = append(a.args, req.SourcePath)
	}

	o, err := t.run(ctx, req, sink, a.args, output)
	if err != nil {
		return nil, err
	}
	return t.read(o)
}
