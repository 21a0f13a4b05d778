// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"time"
)

// DefaultProbeFlag is passed to a tool to check that it can be run. Not
// every 6502 assembler understands --version, but all of them accept a
// help flag.
const DefaultProbeFlag = "--help"

const probeTimeout = 2 * time.Second

// Probe reports whether the executable at path can be run. The tool is run
// once with the given flag; any program that starts counts as available,
// regardless of its exit code. A program that is still running when the
// probe gives up on it has started, so it also counts as available.
func Probe(ctx context.Context, path, flag string) bool {
	if path == "" {
		return false
	}
	if flag == "" {
		flag = DefaultProbeFlag
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	o, err := run(ctx, "", executable(path), []string{flag})
	return err == nil || o != nil
}
