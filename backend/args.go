// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"strings"

	"github.com/google/shlex"
)

// Placeholders recognized in an argument template.
const (
	phSource  = "{source}"
	phOutput  = "{output}"
	phLibrary = "{library}"
)

// An expansion holds the values substituted for argument template
// placeholders.
type expansion struct {
	source  string
	output  string
	library string
}

// The expanded arguments of a template, and which placeholders it used.
type arguments struct {
	args       []string
	hasSource  bool
	hasOutput  bool
	hasLibrary bool
}

// Split an argument template into words using shell quoting rules and
// substitute its placeholders.
func expandArgs(template string, x expansion) (arguments, error) {
	words, err := shlex.Split(template)
	if err != nil {
		return arguments{}, err
	}

	a := arguments{args: make([]string, 0, len(words)+4)}
	for _, w := range words {
		a.hasSource = a.hasSource || strings.Contains(w, phSource)
		a.hasOutput = a.hasOutput || strings.Contains(w, phOutput)
		a.hasLibrary = a.hasLibrary || strings.Contains(w, phLibrary)
		w = strings.ReplaceAll(w, phSource, x.source)
		w = strings.ReplaceAll(w, phOutput, x.output)
		w = strings.ReplaceAll(w, phLibrary, x.library)
		a.args = append(a.args, w)
	}
	return a, nil
}
