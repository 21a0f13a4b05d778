// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"path/filepath"

	"github.com/ct6502/apple2ts-studio/asm"
	"github.com/ct6502/apple2ts-studio/config"
	"github.com/ct6502/apple2ts-studio/diag"
)

// The merlin32 adapter. merlin32 cannot be told where to write; it names
// its output after the source's DSK directive, so the adapter reads the
// binary from that name.
type merlin struct {
	tool
	library string // macro library directory
}

func newMerlin(cfg *config.Config) Backend {
	return &merlin{
		tool: tool{
			name:      "merlin32",
			path:      cfg.MerlinPath,
			args:      cfg.MerlinArgs,
			probeFlag: DefaultProbeFlag,
		},
		library: cfg.MerlinLibrary,
	}
}

func (m *merlin) Assemble(ctx context.Context, req *Request, meta asm.Metadata, sink diag.Sink) (*Result, error) {
	output := filepath.Join(req.WorkDir, meta.BaseName(req.SourcePath))

	a, err := m.expand(expansion{source: req.SourcePath, output: output, library: m.library})
	if err != nil {
		return nil, err
	}
	if !a.hasLibrary && m.library != "" {
		a.args = append([]string{"-V", m.library}, a.args...)
	}
	if !a.hasSource {
		a.args = append(a.args, req.SourcePath)
	}

	o, err := m.run(ctx, req, sink, a.args, output)
	if err != nil {
		return nil, err
	}

	b, err := m.read(o)
	if err != nil {
		return nil, err
	}
	return &Result{LoadAddress: meta.LoadAddress, Binary: b}, nil
}
