// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

package wire

import (
	"reflect"
	"testing"
)

func TestQueryPatternsRoundTrip(t *testing.T) {
	patterns := [][]int{{1, 2, 3}, {}, {42}}
	encoded := EncodeQueryPatterns(patterns)
	decoded, err := DecodeQueryPatterns(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(patterns, decoded) {
		t.Fatalf("round trip mismatch: got %v want %v", decoded, patterns)
	}
}

func TestQueryPatternsEmpty(t *testing.T) {
	decoded, err := DecodeQueryPatterns(EncodeQueryPatterns(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty result, got %v", decoded)
	}
}

func TestDecodeQueryPatternsMalformed(t *testing.T) {
	cases := [][]byte{
		{},
		{0, 0, 0, 1}, // claims one inner list but no bytes follow
		{0, 0, 0, 1, 0, 0, 0, 5}, // inner count 5 but no indices follow
	}
	for _, c := range cases {
		if _, err := DecodeQueryPatterns(c); err != ErrMalformed {
			t.Fatalf("expected ErrMalformed for %v, got %v", c, err)
		}
	}
}

func TestBoolsRoundTrip(t *testing.T) {
	vals := []bool{true, false, true, true, false}
	decoded, err := DecodeBools(EncodeBools(vals))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(vals, decoded) {
		t.Fatalf("round trip mismatch: got %v want %v", decoded, vals)
	}
}

func TestDecodeBoolsMalformed(t *testing.T) {
	if _, err := DecodeBools([]byte{0, 0, 0, 2, 1}); err != ErrMalformed {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
