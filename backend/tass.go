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

// The 64tass adapter. 64tass writes its binary to the path given with -o.
// In its Apple II output format the binary starts with a load header,
// which takes precedence over the source's origin directive and is removed
// from the program image.
type tass struct {
	tool
	header bool // output starts with a load header
}

func newTass(cfg *config.Config) Backend {
	return &tass{
		tool: tool{
			name:      "64tass",
			path:      cfg.TassPath,
			args:      cfg.TassArgs,
			probeFlag: DefaultProbeFlag,
		},
		header: cfg.StripTassHeader(),
	}
}

func (t *tass) Assemble(ctx context.Context, req *Request, meta asm.Metadata, sink diag.Sink) (*Result, error) {
	b, err := t.assembleBin(ctx, req, meta, sink)
	if err != nil {
		return nil, err
	}

	r := &Result{LoadAddress: meta.LoadAddress, Binary: b}
	if t.header {
		h, image, ok := SplitHeader(b)
		if !ok {
			diag.Printf(sink, "Output is too short for a load header; using it unchanged")
			return r, nil
		}
		if int(h.Length) != len(image) {
			diag.Printf(sink, "Load header length %d does not match image size %d", h.Length, len(image))
		}
		r.LoadAddress, r.Binary = h.Address, image
	}
	return r, nil
}
