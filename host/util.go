// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bufio"
	"strings"
)

const wrapColumn = 79

// Word-wrap text so that no line is wider than wrapColumn, indenting every
// line by the requested number of spaces.
func indentWrap(indent int, s string) string {
	pad := strings.Repeat(" ", indent)

	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(s) {
		switch {
		case n == 0:
			b.WriteString(pad)
			n = indent
		case n+1+len(w) > wrapColumn:
			b.WriteString("\n")
			b.WriteString(pad)
			n = indent
		default:
			b.WriteByte(' ')
			n++
		}
		b.WriteString(w)
		n += len(w)
	}
	return b.String()
}

// A flushWriter flushes its buffered writer after every write, so that
// diagnostics appear as soon as they are produced.
type flushWriter struct {
	w *bufio.Writer
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err == nil {
		err = f.w.Flush()
	}
	return n, err
}
