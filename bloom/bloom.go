// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package bloom implements the Bloom-filter set encoding the MPSI
// protocol tests membership against, and the Set abstraction client
// and querier sets are held in.
package bloom

import (
	"encoding/binary"
	"sort"

	"github.com/dchest/siphash"
)

// hashKey0, hashKey1 seed the siphash-based double hashing used to
// derive hash_count indices per element. They are fixed, public
// constants: the bins an element maps to are not a secret in this
// protocol (the secrecy comes from the secret-sharing layer, not from
// hiding the Bloom hash function), so there is no need to key this per
// party or per run.
const (
	hashKey0 uint64 = 0x6d7073695f6f6e65
	hashKey1 uint64 = 0x6d7073695f74776f
)

// Filter is a boolean sequence of length BinCount; cell i is true iff
// at least one inserted element hashed to it.
type Filter []bool

// Indices returns the hashCount cell indices, in [0, binCount), that
// element maps to. It derives them by double-hashing: h1 and h2 come
// from a single keyed siphash.Hash128 call, and the i-th index is
// (h1 + i*h2) mod binCount, avoiding hashCount independent hash
// invocations per element (the double hashing technique of
// Kirsch & Mitzenmacher).
func Indices(element, binCount, hashCount int) []int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(element))
	h1, h2 := siphash.Hash128(hashKey0, hashKey1, buf[:])

	indices := make([]int, hashCount)
	for i := 0; i < hashCount; i++ {
		combined := h1 + uint64(i)*h2
		indices[i] = int(combined % uint64(binCount))
	}
	return indices
}

// Set is a mathematical set of domain elements.
type Set struct {
	elements map[int]struct{}
}

// NewSet builds a Set from the given elements.
func NewSet(elements ...int) Set {
	s := Set{elements: make(map[int]struct{}, len(elements))}
	for _, e := range elements {
		s.elements[e] = struct{}{}
	}
	return s
}

// Add inserts element into s.
func (s *Set) Add(element int) {
	if s.elements == nil {
		s.elements = make(map[int]struct{})
	}
	s.elements[element] = struct{}{}
}

// Contains reports whether element is in s.
func (s Set) Contains(element int) bool {
	_, ok := s.elements[element]
	return ok
}

// Len returns the number of elements in s.
func (s Set) Len() int { return len(s.elements) }

// Elements returns s's elements in ascending order.
func (s Set) Elements() []int {
	out := make([]int, 0, len(s.elements))
	for e := range s.elements {
		out = append(out, e)
	}
	sort.Ints(out)
	return out
}

// Equal reports whether s and other contain the same elements.
func (s Set) Equal(other Set) bool {
	if len(s.elements) != len(other.elements) {
		return false
	}
	for e := range s.elements {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// Intersection returns the set of elements common to every set in sets.
// Intersection of an empty slice is the empty set.
func Intersection(sets []Set) Set {
	if len(sets) == 0 {
		return NewSet()
	}
	out := NewSet()
	for e := range sets[0].elements {
		inAll := true
		for _, s := range sets[1:] {
			if !s.Contains(e) {
				inAll = false
				break
			}
		}
		if inAll {
			out.Add(e)
		}
	}
	return out
}

// ToBloomFilter encodes s as a Bloom filter of the given dimensions.
func (s Set) ToBloomFilter(binCount, hashCount int) Filter {
	filter := make(Filter, binCount)
	for e := range s.elements {
		for _, idx := range Indices(e, binCount, hashCount) {
			filter[idx] = true
		}
	}
	return filter
}
