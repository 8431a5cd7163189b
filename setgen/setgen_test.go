// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

package setgen

import (
	"testing"

	"github.com/approxmpsi/delegated-mpsi/bloom"
)

func TestUniformIntersection(t *testing.T) {
	sets, err := UniformIntersection(5, 32, 256, 4, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 5 {
		t.Fatalf("expected 5 sets, got %d", len(sets))
	}
	for i, s := range sets {
		if s.Len() != 32 {
			t.Fatalf("set %d has %d elements, want 32", i, s.Len())
		}
	}
	got := bloom.Intersection(sets)
	if got.Len() != 4 {
		t.Fatalf("expected intersection of size 4, got %d: %v", got.Len(), got.Elements())
	}
}

func TestUniformIntersectionRejectsOversizedIntersection(t *testing.T) {
	if _, err := UniformIntersection(3, 4, 100, 5, 1); err == nil {
		t.Fatal("expected error when intersection size exceeds set size")
	}
}

func TestUniformIntersectionRejectsTooSmallDomain(t *testing.T) {
	if _, err := UniformIntersection(5, 32, 10, 4, 1); err == nil {
		t.Fatal("expected error when domain is too small")
	}
}

func TestUniformIntersectionDeterministic(t *testing.T) {
	a, err := UniformIntersection(3, 8, 64, 2, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := UniformIntersection(3, 8, 64, 2, 7)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("expected deterministic output for the same seed, party %d differs", i)
		}
	}
}
