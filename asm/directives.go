// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultOrigin is the load address used when a source file contains no
// origin directive.
const DefaultOrigin = 0x0800

var (
	starOrigin = regexp.MustCompile(`(?i)^\*\s*=\s*\$([0-9a-f]+)`)
	orgOrigin  = regexp.MustCompile(`(?i)^\.?org\s+\$([0-9a-f]+)`)
	dskName    = regexp.MustCompile(`(?i)^dsk\s+([^\s;]+)`)
)

// Metadata describes the program properties declared by directives in an
// assembly source file.
type Metadata struct {
	LoadAddress uint16 // origin directive value, or DefaultOrigin
	HasOrigin   bool   // an origin directive was found
	OutputName  string // DSK directive value, empty if none was found
}

// BaseName returns the name of the binary the program should be written
// to. Without a DSK directive, this is the source file's name stripped of
// its extension.
func (m Metadata) BaseName(sourcePath string) string {
	if m.OutputName != "" {
		return m.OutputName
	}
	base := filepath.Base(sourcePath)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Scan searches assembly source text for origin ("* = $addr", ".org $addr"
// or "org $addr") and output name ("DSK name") directives. The first match
// of each kind wins. Lines that look like directives but fail to parse are
// skipped.
func Scan(source string) Metadata {
	s := newScanner()
	for _, line := range strings.Split(source, "\n") {
		if s.scanLine(line) {
			break
		}
	}
	return s.meta
}

// ScanReader is like Scan but reads the source text from r. The only error
// it returns is one produced while reading.
func ScanReader(r io.Reader) (Metadata, error) {
	s := newScanner()
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 4096), 1<<20)
	for in.Scan() {
		if s.scanLine(in.Text()) {
			break
		}
	}
	return s.meta, in.Err()
}

type scanner struct {
	meta      Metadata
	foundName bool
}

func newScanner() *scanner {
	return &scanner{meta: Metadata{LoadAddress: DefaultOrigin}}
}

// Scan a single line. Return true once both directive kinds have been
// found.
func (s *scanner) scanLine(line string) bool {
	line = strings.TrimSpace(line)

	if !s.meta.HasOrigin {
		m := starOrigin.FindStringSubmatch(line)
		if m == nil {
			m = orgOrigin.FindStringSubmatch(line)
		}
		if m != nil {
			if addr, err := strconv.ParseUint(m[1], 16, 16); err == nil {
				s.meta.LoadAddress = uint16(addr)
				s.meta.HasOrigin = true
			}
		}
	}

	if !s.foundName {
		if m := dskName.FindStringSubmatch(line); m != nil {
			s.meta.OutputName = m[1]
			s.foundName = true
		}
	}

	return s.meta.HasOrigin && s.foundName
}
