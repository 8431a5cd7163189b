// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package mpsi orchestrates the three-role approximate private set
// intersection protocol: a server (id 0) that aggregates shares and
// answers queries, a querier (id 1) that holds input and receives
// output, and clients (id >= 2) that hold input but receive no output.
package mpsi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/approxmpsi/delegated-mpsi/bloom"
	"github.com/approxmpsi/delegated-mpsi/secretshare"
	"github.com/approxmpsi/delegated-mpsi/simdvec"
	"github.com/approxmpsi/delegated-mpsi/wire"
	"github.com/approxmpsi/delegated-mpsi/xof"
)

// Role identifies which of the three protocol behaviors a party runs.
type Role int

const (
	// RoleServer (id 0) aggregates shares and answers queries. It has
	// no input and produces no output.
	RoleServer Role = iota
	// RoleQuerier (id 1) has input and receives the (approximate)
	// intersection as output.
	RoleQuerier
	// RoleClient (id >= 2) has input but receives no output.
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleQuerier:
		return "querier"
	case RoleClient:
		return "client"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// RoleOf returns the role that party id plays.
func RoleOf(id int) Role {
	switch id {
	case 0:
		return RoleServer
	case 1:
		return RoleQuerier
	default:
		return RoleClient
	}
}

// Seed is a pairwise zero-sharing seed, shared by exactly one unordered
// pair of non-server parties.
type Seed = xof.Seed

// SeedString renders a seed for logs/diagnostics as base64.
func SeedString(s Seed) string {
	return base64.URLEncoding.EncodeToString(s[:])
}

var (
	// ErrSetupInvalid is returned when fewer than three parties are
	// configured, or parameters are otherwise inconsistent.
	ErrSetupInvalid = errors.New("mpsi: setup invalid")
	// ErrChannelBroken is wrapped by the error returned when an
	// underlying Channels read/write fails; the underlying error is
	// included in the message text only.
	ErrChannelBroken = errors.New("mpsi: channel broken")
	// ErrShareSize is returned when a received share's length does not
	// equal bin_count * secretshare.ShareByteCount.
	ErrShareSize = errors.New("mpsi: share size mismatch")
)

// Params are the protocol's fixed construction parameters.
type Params struct {
	BinCount   int // rounded up to a multiple of simdvec.LaneWidth by NewParams
	HashCount  int
	DomainSize int
	SetSize    int
}

// NewParams rounds minimumBinCount up so that BinCount*ShareByteCount is
// a multiple of simdvec.LaneWidth, then returns the Params.
func NewParams(minimumBinCount, hashCount, domainSize, setSize int) Params {
	return Params{
		BinCount:   roundBinCount(minimumBinCount),
		HashCount:  hashCount,
		DomainSize: domainSize,
		SetSize:    setSize,
	}
}

func roundBinCount(minimum int) int {
	// bin_count * ShareByteCount must be a multiple of LaneWidth; since
	// gcd(ShareByteCount, LaneWidth) == 1, bin_count itself must be a
	// multiple of LaneWidth.
	if minimum <= 0 {
		return simdvec.LaneWidth
	}
	rem := minimum % simdvec.LaneWidth
	if rem == 0 {
		return minimum
	}
	return minimum + (simdvec.LaneWidth - rem)
}

// ByteCount returns the total share-vector length in bytes for p.
func (p Params) ByteCount() int {
	return p.BinCount * secretshare.ShareByteCount
}

// Channels is the point-to-point, byte-oriented, FIFO-per-ordered-pair
// substrate the protocol sends and receives over. It is consumed
// opaquely: the core never knows or cares how bytes actually reach the
// peer.
type Channels interface {
	// Send enqueues payload for delivery to peer. It may return before
	// peer has received it.
	Send(ctx context.Context, peer int, payload []byte) error
	// Receive blocks until the next message from peer is available.
	Receive(ctx context.Context, peer int) ([]byte, error)
}

// Setup draws a fresh seed for every unordered pair of non-server
// parties (1 <= i < j <= n-1) and returns each party's seed map, keyed
// directly by peer id (resolving the "self-seed slot" open question:
// no self-slot is ever allocated or removed). Index 0 (the server) gets
// an empty map.
func Setup(n int, rng interface {
	Read(p []byte) (int, error)
}) ([]map[int]Seed, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 parties, got %d", ErrSetupInvalid, n)
	}
	seeds := make([]map[int]Seed, n)
	for i := range seeds {
		seeds[i] = make(map[int]Seed)
	}
	for i := 1; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var s Seed
			if _, err := rng.Read(s[:]); err != nil {
				return nil, fmt.Errorf("mpsi: drawing pairwise seed: %w", err)
			}
			seeds[i][j] = s
			seeds[j][i] = s
		}
	}
	return seeds, nil
}

// Party holds one party's immutable protocol state: its id, the
// parameters, and (for non-server parties) its pairwise seeds.
type Party struct {
	ID     int
	Params Params
	Seeds  map[int]Seed
}

// seedList returns p's seeds in a stable order (ascending peer id), the
// shape secretshare.CreateZeroShare expects.
func (p *Party) seedList() []Seed {
	peers := make([]int, 0, len(p.Seeds))
	for peer := range p.Seeds {
		peers = append(peers, peer)
	}
	for i := 1; i < len(peers); i++ {
		for j := i; j > 0 && peers[j-1] > peers[j]; j-- {
			peers[j-1], peers[j] = peers[j], peers[j-1]
		}
	}
	out := make([]Seed, len(peers))
	for i, peer := range peers {
		out[i] = p.Seeds[peer]
	}
	return out
}

// randSource is the minimal interface RunClient/RunQuerier need from a
// cryptographic RNG; satisfied by crypto/rand.Reader.
type randSource interface {
	Read(p []byte) (int, error)
}

// RunClient executes the client role: encode input as a Bloom filter,
// build a zero-share, corrupt it wherever the filter bit is 0, and send
// the result to the server (id 0). It is also invoked by the querier
// for its own share-production phase.
func (p *Party) RunClient(ctx context.Context, input bloom.Set, channels Channels, rng randSource) error {
	filter := input.ToBloomFilter(p.Params.BinCount, p.Params.HashCount)

	share, err := secretshare.CreateZeroShare(p.seedList(), p.Params.ByteCount())
	if err != nil {
		return fmt.Errorf("mpsi: client %d building zero-share: %w", p.ID, err)
	}

	// conditions is the NEGATION of the Bloom filter: a cell is
	// corrupted when the bit is absent (0), preserved when present (1).
	// Getting this polarity backwards silently breaks soundness.
	conditions := make([]bool, len(filter))
	for i, bit := range filter {
		conditions[i] = !bit
	}

	corrupted, err := secretshare.ConditionallyCorrupt(share, conditions, rng)
	if err != nil {
		return fmt.Errorf("mpsi: client %d corrupting share: %w", p.ID, err)
	}

	if err := channels.Send(ctx, 0, corrupted.Bytes()); err != nil {
		return fmt.Errorf("%w: client %d sending share: %v", ErrChannelBroken, p.ID, err)
	}
	return nil
}

// RunQuerier executes the querier role (id 1): run the client role
// against its own input, send query patterns for every element it
// holds, then filter its elements by the server's reply.
func (p *Party) RunQuerier(ctx context.Context, input bloom.Set, channels Channels, rng randSource) (bloom.Set, error) {
	if err := p.RunClient(ctx, input, channels, rng); err != nil {
		return bloom.Set{}, err
	}

	elements := input.Elements()
	patterns := make([][]int, len(elements))
	for i, e := range elements {
		patterns[i] = bloom.Indices(e, p.Params.BinCount, p.Params.HashCount)
	}
	if err := channels.Send(ctx, 0, wire.EncodeQueryPatterns(patterns)); err != nil {
		return bloom.Set{}, fmt.Errorf("%w: querier sending patterns: %v", ErrChannelBroken, err)
	}

	reply, err := channels.Receive(ctx, 0)
	if err != nil {
		return bloom.Set{}, fmt.Errorf("%w: querier awaiting reply: %v", ErrChannelBroken, err)
	}
	results, err := wire.DecodeBools(reply)
	if err != nil {
		return bloom.Set{}, err
	}
	if len(results) != len(elements) {
		return bloom.Set{}, fmt.Errorf("mpsi: querier got %d results for %d elements", len(results), len(elements))
	}

	out := bloom.NewSet()
	for i, e := range elements {
		if results[i] {
			out.Add(e)
		}
	}
	return out, nil
}

// RunServer executes the server role (id 0): aggregate every client's
// share, test the querier's query patterns against the aggregate, and
// reply with the boolean results.
func (p *Party) RunServer(ctx context.Context, nParties int, channels Channels) error {
	if nParties < 3 {
		return fmt.Errorf("%w: need at least 3 parties, got %d", ErrSetupInvalid, nParties)
	}

	var aggregated simdvec.Vector
	for id := 1; id < nParties; id++ {
		payload, err := channels.Receive(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: server receiving share from %d: %v", ErrChannelBroken, id, err)
		}
		if len(payload) != p.Params.ByteCount() {
			return fmt.Errorf("%w: share from %d is %d bytes, want %d", ErrShareSize, id, len(payload), p.Params.ByteCount())
		}
		vec, err := simdvec.FromBytes(payload)
		if err != nil {
			return fmt.Errorf("mpsi: server parsing share from %d: %w", id, err)
		}
		if id == 1 {
			aggregated = vec
			continue
		}
		if err := aggregated.XOR(vec); err != nil {
			return fmt.Errorf("mpsi: server aggregating share from %d: %w", id, err)
		}
	}

	patternPayload, err := channels.Receive(ctx, 1)
	if err != nil {
		return fmt.Errorf("%w: server receiving query patterns: %v", ErrChannelBroken, err)
	}
	patterns, err := wire.DecodeQueryPatterns(patternPayload)
	if err != nil {
		return err
	}

	cells := splitCells(aggregated.Bytes(), p.Params.BinCount)
	results := make([]bool, len(patterns))
	for i, pattern := range patterns {
		var xorCell [secretshare.ShareByteCount]byte
		for _, idx := range pattern {
			cell := cells[idx]
			for k := range xorCell {
				xorCell[k] ^= cell[k]
			}
		}
		results[i] = xorCell == [secretshare.ShareByteCount]byte{}
	}

	if err := channels.Send(ctx, 1, wire.EncodeBools(results)); err != nil {
		return fmt.Errorf("%w: server sending results: %v", ErrChannelBroken, err)
	}
	return nil
}

func splitCells(b []byte, binCount int) [][secretshare.ShareByteCount]byte {
	cells := make([][secretshare.ShareByteCount]byte, binCount)
	for i := range cells {
		copy(cells[i][:], b[i*secretshare.ShareByteCount:(i+1)*secretshare.ShareByteCount])
	}
	return cells
}
