package asm

import (
	"strings"
	"testing"
)

func expectMetadata(t *testing.T, source string, addr uint16, name string) {
	t.Helper()
	m := Scan(source)
	if m.LoadAddress != addr {
		t.Errorf("LoadAddress incorrect. exp: $%04X, got: $%04X", addr, m.LoadAddress)
	}
	if m.OutputName != name {
		t.Errorf("OutputName incorrect. exp: %q, got: %q", name, m.OutputName)
	}
}

func TestScanOrigin(t *testing.T) {
	sources := []string{
		"* = $1000",
		"*=$1000",
		"  *   =   $1000 ; start",
		".org $1000",
		".ORG $1000",
		"org $1000",
		"\tORG $1000",
		"; header\n\nLDA #$00\n* = $1000\nRTS",
		"NOP\nNOP\n.org $1000\n.org $2000",
	}
	for _, s := range sources {
		expectMetadata(t, s, 0x1000, "")
	}
}

func TestScanDefaultOrigin(t *testing.T) {
	sources := []string{
		"",
		"LDA #$41\nSTA $0400\nRTS",
		"; * = $1000",
		"LDA * = $1000",
		"origin $1000",
		".org 1000",
		"* = 1000",
	}
	for _, s := range sources {
		m := Scan(s)
		if m.LoadAddress != DefaultOrigin || m.HasOrigin {
			t.Errorf("Scan(%q): expected default origin, got $%04X", s, m.LoadAddress)
		}
	}
}

func TestScanOriginOutOfRange(t *testing.T) {
	expectMetadata(t, "* = $10000", DefaultOrigin, "")
	expectMetadata(t, ".org $123456\n.org $C000", 0xc000, "")
}

func TestScanOutputName(t *testing.T) {
	expectMetadata(t, "DSK GAME.BIN", DefaultOrigin, "GAME.BIN")
	expectMetadata(t, " dsk GAME.BIN ; the game", DefaultOrigin, "GAME.BIN")
	expectMetadata(t, "DSK GAME.BIN;comment", DefaultOrigin, "GAME.BIN")
	expectMetadata(t, "DSK first\nDSK second", DefaultOrigin, "first")
	expectMetadata(t, " ORG $0C00\n DSK hello\n LDA #$41", 0x0c00, "hello")
	expectMetadata(t, "DSK", DefaultOrigin, "")
	expectMetadata(t, "DSKGAME", DefaultOrigin, "")
}

func TestScanReader(t *testing.T) {
	m, err := ScanReader(strings.NewReader("DSK out\r\n* = $6000\r\nRTS\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.LoadAddress != 0x6000 || m.OutputName != "out" {
		t.Errorf("ScanReader incorrect. got: $%04X %q", m.LoadAddress, m.OutputName)
	}
}

func TestMetadataBaseName(t *testing.T) {
	m := Metadata{}
	if got := m.BaseName("/src/hello.s"); got != "hello" {
		t.Errorf("BaseName incorrect. exp: hello, got: %s", got)
	}
	if got := m.BaseName("/src/archive.tar.asm"); got != "archive.tar" {
		t.Errorf("BaseName incorrect. exp: archive.tar, got: %s", got)
	}
	m.OutputName = "GAME"
	if got := m.BaseName("/src/hello.s"); got != "GAME" {
		t.Errorf("BaseName incorrect. exp: GAME, got: %s", got)
	}
}
