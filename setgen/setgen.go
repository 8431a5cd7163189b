// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package setgen generates families of sets with a guaranteed uniform
// intersection, for benchmarking and demonstration.
package setgen

import (
	"fmt"
	"math/rand"

	"github.com/approxmpsi/delegated-mpsi/bloom"
)

// UniformIntersection returns nParties sets of size setSize drawn from
// [0, domainSize), each sharing a common core of intersectionSize
// elements, padded with disjoint filler so every set has exactly
// setSize elements. seed makes the generation reproducible.
func UniformIntersection(nParties, setSize, domainSize, intersectionSize int, seed int64) ([]bloom.Set, error) {
	if intersectionSize > setSize {
		return nil, fmt.Errorf("setgen: intersection size %d exceeds set size %d", intersectionSize, setSize)
	}
	needed := setSize + (nParties-1)*(setSize-intersectionSize)
	if needed > domainSize {
		return nil, fmt.Errorf("setgen: domain size %d too small for %d parties with set size %d and intersection %d",
			domainSize, nParties, setSize, intersectionSize)
	}

	r := rand.New(rand.NewSource(seed))
	pool := r.Perm(domainSize)

	core := pool[:intersectionSize]
	rest := pool[intersectionSize:]

	sets := make([]bloom.Set, nParties)
	fillerPerParty := setSize - intersectionSize
	for p := 0; p < nParties; p++ {
		s := bloom.NewSet(core...)
		start := p * fillerPerParty
		for _, e := range rest[start : start+fillerPerParty] {
			s.Add(e)
		}
		sets[p] = s
	}
	return sets, nil
}
