// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Use errors.Is to classify an error returned by an
// assembler backend.
var (
	ErrToolNotFound   = errors.New("assembler not found")
	ErrUnknownBackend = errors.New("unknown assembler backend")
	ErrToolFailed     = errors.New("assembler failed")
	ErrOutputMissing  = errors.New("assembler output missing")
	ErrIO             = errors.New("i/o failure")
	ErrTimeout        = errors.New("assembler timed out")
	ErrInvalidArgs    = errors.New("invalid assembler arguments")
)

// Error describes a failed assembly.
type Error struct {
	Kind     error  // one of the Err* failure kinds
	Backend  string // backend name
	Path     string // executable or file involved, if any
	ExitCode int    // process exit code, for ErrToolFailed
	Stdout   []byte // captured standard output, for ErrToolFailed
	Stderr   []byte // captured standard error, for ErrToolFailed
	Err      error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	if e.Backend != "" {
		b.WriteString(e.Backend)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&b, " '%s'", e.Path)
	}
	if e.Kind == ErrToolFailed {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
		if line := firstLine(e.Stderr); line != "" {
			b.WriteString(": ")
			b.WriteString(line)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
