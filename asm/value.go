// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue parses a 16-bit operand value. Hexadecimal values are written
// with a '$' or '0x' prefix; anything else is decimal.
func ParseValue(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	digits, base := s, 10
	switch {
	case strings.HasPrefix(s, "$"):
		digits, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits, base = s[2:], 16
	}

	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value '%s'", s)
	}
	return uint16(v), nil
}
