// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

package mpsi

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"

	"github.com/approxmpsi/delegated-mpsi/bloom"
	"github.com/approxmpsi/delegated-mpsi/netsim"
)

// run executes one full protocol instance: the server, the querier
// (holding sets[0]), and len(sets)-1 clients (holding sets[1:]).
// Returns the querier's output set.
func run(t *testing.T, params Params, sets []bloom.Set) bloom.Set {
	t.Helper()
	n := len(sets) + 1 // + server
	seeds, err := Setup(n, rand.Reader)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	mesh := netsim.NewMesh(n)
	ctx := context.Background()

	var wg sync.WaitGroup
	var serverErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		server := &Party{ID: 0, Params: params, Seeds: seeds[0]}
		serverErr = server.RunServer(ctx, n, mesh.For(0))
	}()

	var querierOut bloom.Set
	var querierErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		querier := &Party{ID: 1, Params: params, Seeds: seeds[1]}
		querierOut, querierErr = querier.RunQuerier(ctx, sets[0], mesh.For(1), rand.Reader)
	}()

	for id := 2; id < n; id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &Party{ID: id, Params: params, Seeds: seeds[id]}
			if err := client.RunClient(ctx, sets[id-1], mesh.For(id), rand.Reader); err != nil {
				t.Errorf("client %d: %v", id, err)
			}
		}()
	}

	wg.Wait()
	if serverErr != nil {
		t.Fatalf("server: %v", serverErr)
	}
	if querierErr != nil {
		t.Fatalf("querier: %v", querierErr)
	}
	return querierOut
}

// TestTinyMPSI runs a querier and one client with overlapping inputs
// and checks the recovered intersection.
func TestTinyMPSI(t *testing.T) {
	params := NewParams(64, 3, 16, 3)
	querier := bloom.NewSet(1, 2, 3)
	client := bloom.NewSet(2, 3, 5)

	out := run(t, params, []bloom.Set{querier, client})
	if !out.Equal(bloom.NewSet(2, 3)) {
		t.Fatalf("expected {2,3}, got %v", out.Elements())
	}
}

// TestDisjointSets checks that pairwise-disjoint inputs produce an
// empty intersection.
func TestDisjointSets(t *testing.T) {
	params := NewParams(64, 3, 16, 2)
	querier := bloom.NewSet(1, 2)
	c1 := bloom.NewSet(3)
	c2 := bloom.NewSet(4)

	out := run(t, params, []bloom.Set{querier, c1, c2})
	if out.Len() != 0 {
		t.Fatalf("expected empty output, got %v", out.Elements())
	}
}

// TestCommutativity checks that reordering client ids (preserving the
// querier as id 1) yields the same output set.
func TestCommutativity(t *testing.T) {
	params := NewParams(256, 4, 64, 6)
	querier := bloom.NewSet(1, 2, 3, 4)
	c1 := bloom.NewSet(2, 3, 10)
	c2 := bloom.NewSet(2, 3, 4, 20)

	outA := run(t, params, []bloom.Set{querier, c1, c2})
	outB := run(t, params, []bloom.Set{querier, c2, c1})
	if !outA.Equal(outB) {
		t.Fatalf("expected commutative output, got %v vs %v", outA.Elements(), outB.Elements())
	}
}

func TestRoleOf(t *testing.T) {
	cases := map[int]Role{0: RoleServer, 1: RoleQuerier, 2: RoleClient, 7: RoleClient}
	for id, want := range cases {
		if got := RoleOf(id); got != want {
			t.Fatalf("RoleOf(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestNewParamsRoundsBinCount(t *testing.T) {
	p := NewParams(100, 3, 256, 32)
	if p.BinCount != 128 {
		t.Fatalf("expected BinCount rounded to 128, got %d", p.BinCount)
	}
	p2 := NewParams(128, 3, 256, 32)
	if p2.BinCount != 128 {
		t.Fatalf("expected BinCount to stay 128, got %d", p2.BinCount)
	}
}

func TestSetupRejectsTooFewParties(t *testing.T) {
	if _, err := Setup(2, rand.Reader); err == nil {
		t.Fatal("expected ErrSetupInvalid for n < 3")
	}
}

func TestSetupPairwiseSeedSymmetry(t *testing.T) {
	seeds, err := Setup(4, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if len(seeds[0]) != 0 {
		t.Fatalf("server should hold no seeds, got %d", len(seeds[0]))
	}
	for i := 1; i < 4; i++ {
		if len(seeds[i]) != 2 {
			t.Fatalf("party %d should hold 2 seeds (n-2), got %d", i, len(seeds[i]))
		}
	}
	if seeds[1][2] != seeds[2][1] {
		t.Fatal("parties 1 and 2 should share the same seed")
	}
	if seeds[1][3] != seeds[3][1] {
		t.Fatal("parties 1 and 3 should share the same seed")
	}
	if seeds[2][3] != seeds[3][2] {
		t.Fatal("parties 2 and 3 should share the same seed")
	}
}

func TestServerRejectsWrongShareSize(t *testing.T) {
	params := NewParams(64, 3, 16, 2)
	mesh := netsim.NewMesh(3)
	ctx := context.Background()

	go func() {
		_ = mesh.For(1).Send(ctx, 0, make([]byte, 7))
		_ = mesh.For(2).Send(ctx, 0, make([]byte, params.ByteCount()))
	}()

	server := &Party{ID: 0, Params: params}
	err := server.RunServer(ctx, 3, mesh.For(0))
	if err == nil {
		t.Fatal("expected ErrShareSize")
	}
}
