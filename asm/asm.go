// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm scans 6502 assembly source for program directives and
// provides a tiny built-in encoder for use when no external assembler is
// available.
//
// The encoder understands only four instruction forms: LDA immediate, STA
// absolute, RTS and NOP. Anything else is reported as a warning and
// skipped, so encoding always produces a result.
package asm

import (
	"fmt"
	"io"
	"strings"
)

// 6502 opcodes known to the built-in encoder.
const (
	opLDAImm = 0xa9
	opSTAAbs = 0x8d
	opRTS    = 0x60
	opNOP    = 0xea
)

// Assembly contains the machine code produced by the built-in encoder.
type Assembly struct {
	Origin   uint16   // Address of the first byte of code
	Code     []byte   // Encoded machine code
	Warnings []string // Lines the encoder did not understand
}

// WriteTo saves machine code as binary data into an output writer.
func (a *Assembly) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(a.Code)
	return int64(nn), err
}

// The encoder is a state object used while encoding a single source text.
type encoder struct {
	pc       int      // the program counter
	code     []byte   // generated machine code
	warnings []string // unrecognized lines
	out      io.Writer
}

// Encode translates assembly source text into machine code starting at
// DefaultOrigin. A listing of every encoded instruction, and every warning,
// is written to out. Encode never fails; unrecognized lines only produce
// warnings.
func Encode(source string, out io.Writer) *Assembly {
	if out == nil {
		out = io.Discard
	}

	e := &encoder{
		pc:   DefaultOrigin,
		code: make([]byte, 0, 64),
		out:  out,
	}

	for i, line := range strings.Split(source, "\n") {
		e.encodeLine(i+1, strings.TrimSpace(line))
	}

	return &Assembly{
		Origin:   DefaultOrigin,
		Code:     e.code,
		Warnings: e.warnings,
	}
}

func (e *encoder) encodeLine(row int, line string) {
	if line == "" || line[0] == ';' {
		return
	}

	mnemonic, operand := splitStatement(stripComment(line))
	switch strings.ToUpper(mnemonic) {
	case "LDA":
		if !strings.HasPrefix(operand, "#") {
			break
		}
		v, err := ParseValue(operand[1:])
		if err != nil || v > 0xff {
			break
		}
		e.emit(line, opLDAImm, toBytes(1, int(v))...)
		return

	case "STA":
		if operand == "" || operand[0] == '#' {
			break
		}
		v, err := ParseValue(operand)
		if err != nil {
			break
		}
		e.emit(line, opSTAAbs, toBytes(2, int(v))...)
		return

	case "RTS":
		if operand == "" {
			e.emit(line, opRTS)
			return
		}

	case "NOP":
		if operand == "" {
			e.emit(line, opNOP)
			return
		}
	}

	w := fmt.Sprintf("line %d: unrecognized instruction: %s", row, line)
	e.warnings = append(e.warnings, w)
	fmt.Fprintf(e.out, "Warning: %s\n", w)
}

// Append an instruction to the machine code and list it.
func (e *encoder) emit(line string, opcode byte, operand ...byte) {
	b := append([]byte{opcode}, operand...)
	fmt.Fprintf(e.out, "%04X: %-8s  %s\n", e.pc, byteString(b), line)
	e.code = append(e.code, b...)
	e.pc += len(b)
}
