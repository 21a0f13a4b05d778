// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xyproto/env/v2"
)

// EnvPrefix is prepended to the upper-cased setting key, with dots replaced
// by underscores, to form the name of its environment variable. The
// variable for "64tass.path" is APPLE2TS_64TASS_PATH.
const EnvPrefix = "APPLE2TS_"

// EnvName returns the environment variable that overrides a setting.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnv overrides settings with the values of any APPLE2TS_* environment
// variables that are present. All invalid values are reported together.
func (c *Config) ApplyEnv() error {
	var errs []error
	for _, f := range fields {
		name := EnvName(f.key)
		if !env.Has(name) {
			continue
		}
		if err := c.Set(f.key, env.Str(name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Load reads a settings file and applies it to the configuration.
func (c *Config) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := c.Parse(file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Parse reads settings from r. Each non-blank line holds "key = value".
// Lines starting with '#' are comments. A value may be double-quoted to
// preserve surrounding whitespace.
func (c *Config) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("line %d: expected 'key = value'", row)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if strings.HasPrefix(value, "\"") {
			v, err := strconv.Unquote(value)
			if err != nil {
				return fmt.Errorf("line %d: invalid quoted value %s", row, value)
			}
			value = v
		}

		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("line %d: %w", row, err)
		}
	}
	return scanner.Err()
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "0", "false", "no", "off":
		return false, nil
	case "1", "true", "yes", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

// Durations are written as Go durations ("1m30s"). A bare number is taken
// as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration '%s'", s)
	}
	return d, nil
}
