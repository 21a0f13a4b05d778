// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"context"

	"github.com/ct6502/apple2ts-studio/asm"
	"github.com/ct6502/apple2ts-studio/config"
	"github.com/ct6502/apple2ts-studio/diag"
)

// The cl65 adapter. cl65 writes a raw program image to the path given with
// -o, so the load address comes from the source's origin directive.
type cl65 struct {
	tool
}

func newCL65(cfg *config.Config) Backend {
	return &cl65{tool{
		name:      "cl65",
		path:      cfg.CL65Path,
		args:      cfg.CL65Args,
		probeFlag: "--version",
	}}
}

func (c *cl65) Assemble(ctx context.Context, req *Request, meta asm.Metadata, sink diag.Sink) (*Result, error) {
	b, err := c.assembleBin(ctx, req, meta, sink)
	if err != nil {
		return nil, err
	}
	return &Result{LoadAddress: meta.LoadAddress, Binary: b}, nil
}
