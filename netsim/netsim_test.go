// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

package netsim

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSendReceive(t *testing.T) {
	mesh := NewMesh(3)
	ctx := context.Background()

	a := mesh.For(0)
	b := mesh.For(1)

	if err := a.Send(ctx, 1, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := b.Receive(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("got %q", got)
	}
}

func TestFIFOPerPair(t *testing.T) {
	mesh := NewMesh(2)
	ctx := context.Background()
	a := mesh.For(0)
	b := mesh.For(1)

	if err := a.Send(ctx, 1, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := a.Send(ctx, 1, []byte("second")); err != nil {
		t.Fatal(err)
	}
	first, _ := b.Receive(ctx, 0)
	second, _ := b.Receive(ctx, 0)
	if string(first) != "first" || string(second) != "second" {
		t.Fatalf("expected FIFO order, got %q then %q", first, second)
	}
}

func TestReceiveRespectsContextCancellation(t *testing.T) {
	mesh := NewMesh(2)
	b := mesh.For(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := b.Receive(ctx, 0); err == nil {
		t.Fatal("expected context deadline error on an empty link")
	}
}
