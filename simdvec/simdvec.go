// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package simdvec provides a fixed-width, lane-typed byte vector with
// bulk XOR and masked-select operations.
//
// The lane width (64 bytes) matches the width a hardware SIMD backend
// would operate on; this implementation is a portable scalar fallback
// over the same lane shape, since the core's hot path is a handful of
// wide XORs per protocol run rather than a sustained vectorized kernel.
package simdvec

import "fmt"

// LaneWidth is the number of bytes in a single lane.
const LaneWidth = 64

// Lane is one 64-byte chunk of a Vector.
type Lane [LaneWidth]byte

// LaneMask selects, byte by byte, between two lanes in Select.
type LaneMask [LaneWidth]bool

// Vector is a byte sequence partitioned into fixed-width lanes.
type Vector struct {
	lanes []Lane
}

// ErrUnalignedLength is returned when a byte slice's length is not a
// multiple of LaneWidth.
type ErrUnalignedLength struct {
	Len int
}

func (e *ErrUnalignedLength) Error() string {
	return fmt.Sprintf("simdvec: length %d is not a multiple of %d", e.Len, LaneWidth)
}

// ErrLengthMismatch is returned when two vectors participating in an
// operation have a different number of lanes.
type ErrLengthMismatch struct {
	A, B int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("simdvec: lane count mismatch (%d vs %d)", e.A, e.B)
}

// FromBytes partitions b into 64-byte lanes. len(b) must be a multiple
// of LaneWidth.
func FromBytes(b []byte) (Vector, error) {
	if len(b)%LaneWidth != 0 {
		return Vector{}, &ErrUnalignedLength{Len: len(b)}
	}
	n := len(b) / LaneWidth
	lanes := make([]Lane, n)
	for i := 0; i < n; i++ {
		copy(lanes[i][:], b[i*LaneWidth:(i+1)*LaneWidth])
	}
	return Vector{lanes: lanes}, nil
}

// Zero returns a Vector of byteCount zero bytes (byteCount/LaneWidth
// lanes). byteCount must be a multiple of LaneWidth.
func Zero(byteCount int) (Vector, error) {
	if byteCount%LaneWidth != 0 {
		return Vector{}, &ErrUnalignedLength{Len: byteCount}
	}
	return Vector{lanes: make([]Lane, byteCount/LaneWidth)}, nil
}

// Len returns the number of lanes in v.
func (v Vector) Len() int { return len(v.lanes) }

// Bytes flattens v back into a contiguous byte slice.
func (v Vector) Bytes() []byte {
	out := make([]byte, len(v.lanes)*LaneWidth)
	for i, lane := range v.lanes {
		copy(out[i*LaneWidth:], lane[:])
	}
	return out
}

// XOR XORs rhs into v, lane-wise, in place. v and rhs must have the same
// number of lanes.
func (v *Vector) XOR(rhs Vector) error {
	if len(v.lanes) != len(rhs.lanes) {
		return &ErrLengthMismatch{A: len(v.lanes), B: len(rhs.lanes)}
	}
	for i := range v.lanes {
		a := &v.lanes[i]
		b := &rhs.lanes[i]
		for j := 0; j < LaneWidth; j++ {
			a[j] ^= b[j]
		}
	}
	return nil
}

// Select builds a vector whose i-th byte is taken from trueVals if the
// corresponding mask bit is set, else from falseVals. masks, trueVals
// and falseVals must all have the same number of lanes.
func Select(masks []LaneMask, trueVals, falseVals Vector) (Vector, error) {
	if len(masks) != len(trueVals.lanes) || len(masks) != len(falseVals.lanes) {
		return Vector{}, &ErrLengthMismatch{A: len(masks), B: len(trueVals.lanes)}
	}
	out := make([]Lane, len(masks))
	for i, mask := range masks {
		t := &trueVals.lanes[i]
		f := &falseVals.lanes[i]
		var lane Lane
		for j := 0; j < LaneWidth; j++ {
			if mask[j] {
				lane[j] = t[j]
			} else {
				lane[j] = f[j]
			}
		}
		out[i] = lane
	}
	return Vector{lanes: out}, nil
}
