// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"strings"
	"testing"
)

func checkEncode(t *testing.T, source string, expected string) *Assembly {
	t.Helper()

	assembly := Encode(source, nil)

	b := make([]byte, len(assembly.Code)*2)
	for i, j := 0, 0; i < len(assembly.Code); i, j = i+1, j+2 {
		v := assembly.Code[i]
		b[j+0] = hex[v>>4]
		b[j+1] = hex[v&0x0f]
	}
	s := string(b)

	if s != expected {
		t.Error("code doesn't match expected")
		t.Errorf("got: %s\n", s)
		t.Errorf("exp: %s\n", expected)
	}
	return assembly
}

func TestEncodeProgram(t *testing.T) {
	a := checkEncode(t, "LDA #$41\nSTA $0400\nRTS", "A9418D000460")
	if a.Origin != 0x0800 {
		t.Errorf("Origin incorrect. exp: $0800, got: $%04X", a.Origin)
	}
	if len(a.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", a.Warnings)
	}
}

func TestEncodeCaseInsensitive(t *testing.T) {
	checkEncode(t, "lda #$41\nsta $0400\nnop\nrts", "A9418D0004EA60")
}

func TestEncodeOperandForms(t *testing.T) {
	source := `
	LDA #$ff
	LDA #0x10
	LDA #65
	STA $C030
	STA 0x2000
	STA 1024`

	checkEncode(t, source, "A9FFA910A9418D30C08D00208D0004")
}

func TestEncodeSkipsCommentsAndBlankLines(t *testing.T) {
	source := `
; a comment

	NOP ; trailing comment
	; indented comment
	RTS`

	a := checkEncode(t, source, "EA60")
	if len(a.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", a.Warnings)
	}
}

func TestEncodeWarnings(t *testing.T) {
	source := `
	* = $1000
	LDA #$41
	LDX #$01
	LDA $2000
	LDA #$100
	STA #$20
	STA $10000
	RTS A
	NOP`

	a := checkEncode(t, source, "A941EA")

	exp := []string{
		"line 2: unrecognized instruction: * = $1000",
		"line 4: unrecognized instruction: LDX #$01",
		"line 5: unrecognized instruction: LDA $2000",
		"line 6: unrecognized instruction: LDA #$100",
		"line 7: unrecognized instruction: STA #$20",
		"line 8: unrecognized instruction: STA $10000",
		"line 9: unrecognized instruction: RTS A",
	}
	if len(a.Warnings) != len(exp) {
		t.Fatalf("Warning count incorrect. exp: %d, got: %d (%v)", len(exp), len(a.Warnings), a.Warnings)
	}
	for i := range exp {
		if a.Warnings[i] != exp[i] {
			t.Errorf("Warning %d incorrect. exp: %q, got: %q", i, exp[i], a.Warnings[i])
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	sources := []string{
		"LDA #$41\nSTA $0400\nRTS",
		"garbage\x00\xff\n#$%^&*\nLDA #\nSTA\n\n\r\n",
		strings.Repeat("NOP\n", 300),
		"",
	}

	for _, s := range sources {
		a, b := Encode(s, nil), Encode(s, nil)
		if !bytes.Equal(a.Code, b.Code) {
			t.Errorf("encoding %q is not repeatable", s)
		}
		if a.Origin != DefaultOrigin {
			t.Errorf("Origin incorrect. exp: $%04X, got: $%04X", DefaultOrigin, a.Origin)
		}
	}
}

func TestEncodeListing(t *testing.T) {
	var out bytes.Buffer
	Encode("LDA #$41\nSTA $0400\nRTS\nBRK", &out)

	exp := "0800: A9 41     LDA #$41\n" +
		"0802: 8D 00 04  STA $0400\n" +
		"0805: 60        RTS\n" +
		"Warning: line 4: unrecognized instruction: BRK\n"
	if out.String() != exp {
		t.Errorf("listing incorrect.\nexp:\n%s\ngot:\n%s", exp, out.String())
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		s   string
		v   uint16
		bad bool
	}{
		{s: "$41", v: 0x41},
		{s: "$ffff", v: 0xffff},
		{s: "0x1F", v: 0x1f},
		{s: "0X20", v: 0x20},
		{s: "1024", v: 1024},
		{s: " 7 ", v: 7},
		{s: "$10000", bad: true},
		{s: "65536", bad: true},
		{s: "$", bad: true},
		{s: "", bad: true},
		{s: "-1", bad: true},
		{s: "$zz", bad: true},
	}

	for _, tt := range tests {
		v, err := ParseValue(tt.s)
		switch {
		case tt.bad && err == nil:
			t.Errorf("ParseValue(%q): expected error, got $%04X", tt.s, v)
		case !tt.bad && err != nil:
			t.Errorf("ParseValue(%q): %v", tt.s, err)
		case !tt.bad && v != tt.v:
			t.Errorf("ParseValue(%q) incorrect. exp: $%04X, got: $%04X", tt.s, tt.v, v)
		}
	}
}
