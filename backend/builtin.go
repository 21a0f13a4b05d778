// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"context"

	"github.com/ct6502/apple2ts-studio/asm"
	"github.com/ct6502/apple2ts-studio/diag"
)

// Builtin is the fallback backend. It encodes source text with the
// built-in encoder, which handles only a handful of instructions but never
// fails.
type Builtin struct{}

func (Builtin) Name() string {
	return "fallback"
}

func (Builtin) Available(context.Context) bool {
	return true
}

// Assemble encodes the source text. The returned error is always nil.
func (Builtin) Assemble(ctx context.Context, req *Request, meta asm.Metadata, sink diag.Sink) (*Result, error) {
	diag.Printf(sink, "Using built-in assembler")
	a := asm.Encode(req.Source, diag.NewLineWriter(sink))
	diag.Printf(sink, "Built-in assembler generated %d bytes with %d warnings", len(a.Code), len(a.Warnings))
	return &Result{LoadAddress: a.Origin, Binary: a.Code}, nil
}
