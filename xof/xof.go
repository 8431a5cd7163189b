// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package xof expands a 128-bit seed into a deterministic pseudorandom
// byte stream using BLAKE3 in extensible-output (XOF) mode.
package xof

import (
	"github.com/approxmpsi/delegated-mpsi/simdvec"
	"lukechampine.com/blake3"
)

// SeedSize is the width of a seed in bytes.
const SeedSize = 16

// Seed is a pairwise zero-sharing seed.
type Seed [SeedSize]byte

// Expand feeds seed into BLAKE3's XOF and reads byteCount bytes,
// returning them as a SIMD vector. byteCount must be a multiple of
// simdvec.LaneWidth.
//
// Expand is deterministic in seed: domain separation across calls isn't
// required because every seed is drawn fresh and used exactly once per
// protocol run.
func Expand(seed Seed, byteCount int) (simdvec.Vector, error) {
	h := blake3.New(32, nil)
	h.Write(seed[:])
	out := make([]byte, byteCount)
	if _, err := h.XOF().Read(out); err != nil {
		return simdvec.Vector{}, err
	}
	return simdvec.FromBytes(out)
}
