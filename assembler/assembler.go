// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assembler turns 6502 assembly source files into loadable program
// images. It reads the program's directives, selects the configured
// assembler backend, checks that its tool can be run and hands the source
// to it, reporting progress to a diagnostics sink as it goes.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ct6502/apple2ts-studio/asm"
	"github.com/ct6502/apple2ts-studio/backend"
	"github.com/ct6502/apple2ts-studio/config"
	"github.com/ct6502/apple2ts-studio/diag"
	"golang.org/x/sync/errgroup"
)

// An Assembler assembles source files using the backend selected by its
// configuration.
type Assembler struct {
	cfg  config.Config
	sink diag.Sink
}

// New creates an assembler. Diagnostics are appended to sink; a nil sink
// discards them.
func New(cfg config.Config, sink diag.Sink) *Assembler {
	if sink == nil {
		sink = diag.Discard
	}
	return &Assembler{cfg: cfg, sink: sink}
}

// ReadRequest reads the source file at path and builds an assembly request
// for it. Output files are placed in the source file's directory.
func ReadRequest(path string) (*backend.Request, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &backend.Error{Kind: backend.ErrIO, Path: path, Err: err}
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, &backend.Error{Kind: backend.ErrIO, Path: abs, Err: err}
	}
	return &backend.Request{
		SourcePath: abs,
		Source:     string(b),
		WorkDir:    filepath.Dir(abs),
	}, nil
}

// AssembleFile assembles the requested source file. The sink is cleared
// before anything else happens.
func (a *Assembler) AssembleFile(ctx context.Context, req *backend.Request) (*backend.Result, error) {
	a.sink.Clear()
	diag.Printf(a.sink, "Assembling: %s", req.SourcePath)
	diag.Printf(a.sink, "Selected assembler: %s", a.cfg.Backend)

	meta := a.scan(req)

	b, err := backend.Lookup(a.cfg.Backend, a.cfg)
	if err != nil {
		return nil, err
	}

	if !b.Available(ctx) {
		if !a.cfg.BestEffort {
			return nil, notFound(b)
		}
		diag.Printf(a.sink, "%s is not available, using built-in assembler", b.Name())
		b = backend.Builtin{}
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	r, err := b.Assemble(ctx, req, meta, a.sink)
	if err != nil {
		return nil, err
	}

	diag.Printf(a.sink, "Generated %d bytes at address $%04X", len(r.Binary), r.LoadAddress)
	return r, nil
}

// Scan the request's source for directives and report what was found.
func (a *Assembler) scan(req *backend.Request) asm.Metadata {
	meta := asm.Scan(req.Source)

	if meta.HasOrigin {
		diag.Printf(a.sink, "Found load address: $%04X", meta.LoadAddress)
	} else {
		diag.Printf(a.sink, "No load address found, defaulting to $%04X", meta.LoadAddress)
	}

	if meta.OutputName != "" {
		diag.Printf(a.sink, "Found binary name: %s", meta.OutputName)
	} else {
		diag.Printf(a.sink, "No DSK directive found, using default: %s", meta.BaseName(req.SourcePath))
	}

	return meta
}

func notFound(b backend.Backend) error {
	e := &backend.Error{Kind: backend.ErrToolNotFound, Backend: b.Name()}
	if x, ok := b.(interface{ Executable() string }); ok {
		e.Path = x.Executable()
	}
	return e
}

// A Job is one source file in a batch assembly. Its diagnostics are
// appended to Sink; Result and Err are filled in when the batch completes.
type Job struct {
	Request *backend.Request
	Sink    diag.Sink
	Result  *backend.Result
	Err     error
}

// AssembleFiles assembles several jobs concurrently and waits for all of
// them to finish. The returned error joins the errors of every failed job,
// each prefixed with its source path.
func (a *Assembler) AssembleFiles(ctx context.Context, jobs []*Job) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, j := range jobs {
		g.Go(func() error {
			j.Result, j.Err = New(a.cfg, j.Sink).AssembleFile(ctx, j.Request)
			return nil
		})
	}
	g.Wait()

	var errs []error
	for _, j := range jobs {
		if j.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.Request.SourcePath, j.Err))
		}
	}
	return errors.Join(errs...)
}
