// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import "encoding/binary"

// HeaderSize is the length of an Apple II binary file header.
const HeaderSize = 4

// A Header is the load header Apple II binary files begin with: a
// little-endian load address followed by a little-endian length.
type Header struct {
	Address uint16
	Length  uint16
}

// SplitHeader separates the load header from the program image in b. It
// returns false if b is too short to hold a header.
func SplitHeader(b []byte) (h Header, image []byte, ok bool) {
	if len(b) < HeaderSize {
		return Header{}, b, false
	}
	h = Header{
		Address: binary.LittleEndian.Uint16(b[0:2]),
		Length:  binary.LittleEndian.Uint16(b[2:4]),
	}
	return h, b[HeaderSize:], true
}

// AppendHeader appends a load header for an image of the given length to
// b.
func AppendHeader(b []byte, addr uint16, length int) []byte {
	b = binary.LittleEndian.AppendUint16(b, addr)
	return binary.LittleEndian.AppendUint16(b, uint16(length))
}
