// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings that select and drive an assembler
// backend.
//
// Settings are addressed by dotted, case-insensitive keys such as
// "64tass.path". Any unambiguous prefix of a key may be used in its place.
// Values start at their defaults and may be overridden, in order, by a
// settings file, by APPLE2TS_* environment variables and by explicit calls
// to Set.
package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/beevik/prefixtree/v2"
)

// Config is the complete assembler configuration. It is passed by value,
// so a copy handed to an assembler is not affected by later changes.
type Config struct {
	Backend    string        `key:"backend" doc:"64tass, cl65, merlin32 or fallback"`
	BestEffort bool          `key:"besteffort" doc:"use built-in encoder if tool is missing"`
	Timeout    time.Duration `key:"timeout" doc:"tool time limit, 0 for none"`

	TassPath   string `key:"64tass.path" doc:"64tass executable"`
	TassArgs   string `key:"64tass.args" doc:"64tass arguments"`
	TassHeader string `key:"64tass.header" values:"auto,true,false" doc:"strip 4-byte load header"`

	CL65Path string `key:"cl65.path" doc:"cl65 executable"`
	CL65Args string `key:"cl65.args" doc:"cl65 arguments"`

	MerlinPath    string `key:"merlin32.path" doc:"merlin32 executable"`
	MerlinArgs    string `key:"merlin32.args" doc:"merlin32 arguments"`
	MerlinLibrary string `key:"merlin32.library" doc:"merlin32 macro library directory"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Backend:    "64tass",
		BestEffort: false,
		Timeout:    0,
		TassPath:   "64tass",
		TassArgs:   "-a --nostart --m65c02",
		TassHeader: "auto",
		CL65Path:   "cl65",
		CL65Args:   "-t none",
		MerlinPath: "merlin32",
	}
}

// StripTassHeader reports whether 64tass output carries a 4-byte load
// header. In "auto" mode the header is assumed exactly when the 64tass
// arguments select the --apple-ii output format.
func (c *Config) StripTassHeader() bool {
	switch c.TassHeader {
	case "true":
		return true
	case "false":
		return false
	default:
		return strings.Contains(c.TassArgs, "--apple-ii")
	}
}

type field struct {
	key    string
	index  int
	kind   reflect.Kind
	typ    reflect.Type
	values []string
	doc    string
}

var (
	fieldTree = prefixtree.New[*field]()
	fields    []field
	durType   = reflect.TypeOf(time.Duration(0))
)

func init() {
	typ := reflect.TypeOf(Config{})
	fields = make([]field, typ.NumField())
	for i := 0; i < len(fields); i++ {
		f := typ.Field(i)
		key, _ := f.Tag.Lookup("key")
		doc, _ := f.Tag.Lookup("doc")
		var values []string
		if v, ok := f.Tag.Lookup("values"); ok {
			values = strings.Split(v, ",")
		}
		fields[i] = field{
			key:    key,
			index:  i,
			kind:   f.Type.Kind(),
			typ:    f.Type,
			values: values,
			doc:    doc,
		}
		fieldTree.Add(key, &fields[i])
	}
}

// Keys returns the keys of all settings in declaration order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func lookup(key string) (*field, error) {
	f, err := fieldTree.FindValue(strings.ToLower(key))
	if err != nil {
		return nil, fmt.Errorf("setting '%s': %w", key, err)
	}
	return f, nil
}

// Resolve returns the full key for an abbreviated or differently cased
// key.
func Resolve(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.key, nil
}

// Set parses value according to the type of the setting identified by key
// and stores it.
func (c *Config) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	v := reflect.ValueOf(c).Elem().Field(f.index)
	switch {
	case f.typ == durType:
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("setting '%s': %w", f.key, err)
		}
		v.SetInt(int64(d))

	case f.kind == reflect.Bool:
		b, err := stringToBool(value)
		if err != nil {
			return fmt.Errorf("setting '%s': %w", f.key, err)
		}
		v.SetBool(b)

	case f.kind == reflect.String:
		if f.values != nil {
			value = strings.ToLower(strings.TrimSpace(value))
			if !contains(f.values, value) {
				return fmt.Errorf("setting '%s': invalid value '%s' (expected one of %s)",
					f.key, value, strings.Join(f.values, ", "))
			}
		}
		v.SetString(value)

	default:
		return errors.New("invalid type")
	}

	return nil
}

// Get returns the value of a setting formatted as a string.
func (c *Config) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return format(f, reflect.ValueOf(c).Elem().Field(f.index)), nil
}

// Display writes a table of all settings, their values and their
// descriptions to w.
func (c *Config) Display(w io.Writer) {
	value := reflect.ValueOf(c).Elem()
	for _, f := range fields {
		s := fmt.Sprintf("    %-18s %s", f.key, format(&f, value.Field(f.index)))
		doc := f.doc
		if f.values != nil {
			doc += ": " + strings.Join(f.values, ", ")
		}
		fmt.Fprintf(w, "%-46s (%s)\n", s, doc)
	}
}

func format(f *field, v reflect.Value) string {
	switch {
	case f.typ == durType:
		return time.Duration(v.Int()).String()
	case f.kind == reflect.String:
		return fmt.Sprintf("\"%s\"", v.String())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
