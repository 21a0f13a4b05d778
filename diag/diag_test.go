package diag

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func expectLines(t *testing.T, got []string, exp ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(exp, "\n") {
		t.Errorf("lines incorrect.\nexp: %q\ngot: %q", exp, got)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	Printf(&r, "Assembling: %s", "hello.s")
	r.AppendLine("second")
	expectLines(t, r.Lines(), "Assembling: hello.s", "second")

	r.Clear()
	expectLines(t, r.Lines())
	if r.Clears() != 1 {
		t.Errorf("Clears incorrect. exp: 1, got: %d", r.Clears())
	}

	r.AppendLine("after clear")
	var b bytes.Buffer
	r.WriteTo(&b)
	if b.String() != "after clear\n" {
		t.Errorf("WriteTo incorrect. got: %q", b.String())
	}
}

func TestTagged(t *testing.T) {
	var r Recorder
	Tagged(&r, "64tass stderr", []byte("error: one\r\nerror: two\n\n"))
	Tagged(&r, "64tass stdout", nil)
	expectLines(t, r.Lines(), "64tass stderr: error: one", "64tass stderr: error: two")
}

func TestLineWriter(t *testing.T) {
	var r Recorder
	w := NewLineWriter(&r)
	fmt.Fprint(w, "0800: A9 41")
	fmt.Fprint(w, "  LDA #$41\n0802: 60")
	fmt.Fprint(w, "  RTS\r\n")
	expectLines(t, r.Lines(), "0800: A9 41  LDA #$41", "0802: 60  RTS")
}

func TestWriterSink(t *testing.T) {
	var b bytes.Buffer
	s := NewWriterSink(&b)
	s.Clear()
	Printf(s, "Generated %d bytes", 6)
	if b.String() != "Generated 6 bytes\n" {
		t.Errorf("WriterSink output incorrect. got: %q", b.String())
	}
}
