// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag provides the append-only diagnostics channel that assembly
// progress, tool output and warnings are written to.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// A Sink receives diagnostic lines in the order they are produced. Clear is
// called once at the start of each assembly.
type Sink interface {
	Clear()
	AppendLine(line string)
}

// Printf formats a diagnostic line and appends it to the sink.
func Printf(s Sink, format string, args ...any) {
	s.AppendLine(fmt.Sprintf(format, args...))
}

// Tagged appends every line of a block of text, prefixed with a tag, to the
// sink. Empty text produces no output.
func Tagged(s Sink, tag string, text []byte) {
	text = bytes.TrimRight(text, "\r\n")
	if len(text) == 0 {
		return
	}
	for _, l := range strings.Split(string(text), "\n") {
		s.AppendLine(tag + ": " + strings.TrimRight(l, "\r"))
	}
}

// Discard is a sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Clear()            {}
func (discard) AppendLine(string) {}

// WriterSink writes diagnostic lines to an io.Writer. Clearing a writer is
// not possible, so Clear writes nothing.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink that writes each line to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Clear() {}

func (s *WriterSink) AppendLine(line string) {
	s.mu.Lock()
	fmt.Fprintln(s.w, line)
	s.mu.Unlock()
}

// Recorder is a sink that keeps its lines in memory.
type Recorder struct {
	mu     sync.Mutex
	lines  []string
	clears int
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	r.lines = r.lines[:0]
	r.clears++
	r.mu.Unlock()
}

func (r *Recorder) AppendLine(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Clears returns the number of times Clear has been called.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// WriteTo replays the recorded lines to w.
func (r *Recorder) WriteTo(w io.Writer) (n int64, err error) {
	for _, l := range r.Lines() {
		nn, err := fmt.Fprintln(w, l)
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// NewLineWriter returns an io.Writer that appends each complete line
// written to it to the sink. A final unterminated line is held until more
// data arrives.
func NewLineWriter(s Sink) io.Writer {
	return &lineWriter{sink: s}
}

type lineWriter struct {
	sink Sink
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.sink.AppendLine(strings.TrimRight(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}
