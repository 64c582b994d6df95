/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package plasma_test

import (
	"testing"

	"github.com/plasmasync/plasmasync/plasma"
)

func TestIDHexRoundTrip(t *testing.T) {
	var b [plasma.IDLen]byte
	for i := range b {
		b[i] = byte(i + 1)
	}
	id := plasma.NewID(b)
	if got, want := id.Hex(), "0102030405060708090a0b0c0d0e0f1011121314"; got != want {
		t.Fatalf("Hex() = %q, want %q", got, want)
	}
	back, err := plasma.IDFromHex(id.Hex())
	if err != nil {
		t.Fatalf("IDFromHex: %v", err)
	}
	if back != id {
		t.Fatalf("round trip mismatch: %v != %v", back, id)
	}
}

func TestRandIDDistinct(t *testing.T) {
	id1, id2 := plasma.RandID(), plasma.RandID()
	if id1 == id2 {
		t.Fatal("two RandID() calls produced the same id")
	}
}

func TestIDFromHexBadLength(t *testing.T) {
	if _, err := plasma.IDFromHex("abcd"); err == nil {
		t.Fatal("expected error for short hex string")
	}
}
