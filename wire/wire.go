// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package wire implements the self-describing, length-prefixed binary
// encoding used for the two structured MPSI messages: query patterns
// (sent querier -> server) and boolean results (sent server -> querier).
//
// The protocol package treats this encoding as an opaque, swappable
// service; this package is one concrete, bit-exact implementation of
// it.
package wire

import (
	"encoding/binary"
	"fmt"
)

// ErrMalformed is returned by the Decode functions when the input bytes
// are truncated or internally inconsistent.
var ErrMalformed = fmt.Errorf("wire: malformed message")

// EncodeQueryPatterns serializes an ordered list of index-lists: a
// uint32 outer count, followed by, for each inner list, a uint32 count
// and that many uint32 indices.
func EncodeQueryPatterns(patterns [][]int) []byte {
	size := 4
	for _, p := range patterns {
		size += 4 + 4*len(p)
	}
	buf := make([]byte, size)
	off := 0
	binary.BigEndian.PutUint32(buf[off:], uint32(len(patterns)))
	off += 4
	for _, p := range patterns {
		binary.BigEndian.PutUint32(buf[off:], uint32(len(p)))
		off += 4
		for _, idx := range p {
			binary.BigEndian.PutUint32(buf[off:], uint32(idx))
			off += 4
		}
	}
	return buf
}

// DecodeQueryPatterns is the inverse of EncodeQueryPatterns.
func DecodeQueryPatterns(b []byte) ([][]int, error) {
	if len(b) < 4 {
		return nil, ErrMalformed
	}
	outerCount := binary.BigEndian.Uint32(b)
	off := 4
	// every inner list takes at least its 4-byte count
	if uint64(outerCount)*4 > uint64(len(b)-off) {
		return nil, ErrMalformed
	}
	patterns := make([][]int, 0, outerCount)
	for i := uint32(0); i < outerCount; i++ {
		if off+4 > len(b) {
			return nil, ErrMalformed
		}
		innerCount := binary.BigEndian.Uint32(b[off:])
		off += 4
		if off+4*int(innerCount) > len(b) {
			return nil, ErrMalformed
		}
		inner := make([]int, innerCount)
		for j := uint32(0); j < innerCount; j++ {
			inner[j] = int(binary.BigEndian.Uint32(b[off:]))
			off += 4
		}
		patterns = append(patterns, inner)
	}
	if off != len(b) {
		return nil, ErrMalformed
	}
	return patterns, nil
}

// EncodeBools serializes a boolean sequence: a uint32 count followed by
// one byte (0x00/0x01) per value.
func EncodeBools(vals []bool) []byte {
	buf := make([]byte, 4+len(vals))
	binary.BigEndian.PutUint32(buf, uint32(len(vals)))
	for i, v := range vals {
		if v {
			buf[4+i] = 1
		}
	}
	return buf
}

// DecodeBools is the inverse of EncodeBools.
func DecodeBools(b []byte) ([]bool, error) {
	if len(b) < 4 {
		return nil, ErrMalformed
	}
	count := binary.BigEndian.Uint32(b)
	if uint32(len(b)-4) != count {
		return nil, ErrMalformed
	}
	out := make([]bool, count)
	for i := range out {
		out[i] = b[4+i] != 0
	}
	return out, nil
}
