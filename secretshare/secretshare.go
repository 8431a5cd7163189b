// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package secretshare implements the pairwise-seed zero-sharing scheme
// and the conditional-corruption primitive the MPSI protocol is built
// on top of.
package secretshare

import (
	"fmt"
	"io"

	"github.com/approxmpsi/delegated-mpsi/simdvec"
	"github.com/approxmpsi/delegated-mpsi/xof"
)

// ShareByteCount is the fixed width, in bytes, of a single share cell.
const ShareByteCount = 5

// ErrNoSeeds is returned by CreateZeroShare when given an empty seed
// list; a protocol with fewer than two non-server parties is invalid.
var ErrNoSeeds = fmt.Errorf("secretshare: zero-share construction requires at least one seed")

// CreateZeroShare computes the XOR of expand(seed, byteCount) for every
// seed in seeds. When every unordered pair of clients contributes the
// same seed to both parties' lists, the XOR across all clients' shares
// is the all-zero vector, because each seed's expansion appears exactly
// twice.
func CreateZeroShare(seeds []xof.Seed, byteCount int) (simdvec.Vector, error) {
	if len(seeds) == 0 {
		return simdvec.Vector{}, ErrNoSeeds
	}
	share, err := xof.Expand(seeds[0], byteCount)
	if err != nil {
		return simdvec.Vector{}, err
	}
	for _, seed := range seeds[1:] {
		expanded, err := xof.Expand(seed, byteCount)
		if err != nil {
			return simdvec.Vector{}, err
		}
		if err := share.XOR(expanded); err != nil {
			return simdvec.Vector{}, err
		}
	}
	return share, nil
}

// ConditionallyCorrupt returns a copy of share where every cell i whose
// conditions[i] is true is replaced with ShareByteCount fresh random
// bytes drawn from rng, and every cell whose conditions[i] is false is
// left untouched. rng must be a cryptographically strong source
// (callers pass crypto/rand.Reader in production); randomness is drawn
// fresh on every call and never cached.
func ConditionallyCorrupt(share simdvec.Vector, conditions []bool, rng io.Reader) (simdvec.Vector, error) {
	binCount := len(conditions)
	byteCount := binCount * ShareByteCount
	if share.Len()*simdvec.LaneWidth != byteCount {
		return simdvec.Vector{}, fmt.Errorf("secretshare: share has %d bytes, conditions imply %d",
			share.Len()*simdvec.LaneWidth, byteCount)
	}

	masks, err := expandMasks(conditions)
	if err != nil {
		return simdvec.Vector{}, err
	}

	randomness := make([]byte, byteCount)
	if _, err := io.ReadFull(rng, randomness); err != nil {
		return simdvec.Vector{}, fmt.Errorf("secretshare: drawing randomness: %w", err)
	}
	randomVec, err := simdvec.FromBytes(randomness)
	if err != nil {
		return simdvec.Vector{}, err
	}

	return simdvec.Select(masks, randomVec, share)
}

// expandMasks repeats each condition bit ShareByteCount times (one cell
// is ShareByteCount bytes) and packs the result into lane-wide masks.
func expandMasks(conditions []bool) ([]simdvec.LaneMask, error) {
	bitCount := len(conditions) * ShareByteCount
	if bitCount%simdvec.LaneWidth != 0 {
		return nil, fmt.Errorf("secretshare: %d condition bytes is not a multiple of %d", bitCount, simdvec.LaneWidth)
	}
	masks := make([]simdvec.LaneMask, bitCount/simdvec.LaneWidth)
	pos := 0
	for _, c := range conditions {
		for k := 0; k < ShareByteCount; k++ {
			masks[pos/simdvec.LaneWidth][pos%simdvec.LaneWidth] = c
			pos++
		}
	}
	return masks, nil
}
