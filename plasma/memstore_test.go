/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package plasma_test

import (
	"context"
	"testing"

	"github.com/plasmasync/plasmasync/plasma"
)

func TestMemStoreCreateAndSeal(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)

	id := plasma.RandID()
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	meta := []byte{1, 2, 3, 4}

	if err := plasma.CreateAndSeal(ctx, store, id, data, meta); err != nil {
		t.Fatalf("CreateAndSeal: %v", err)
	}

	// creating an object with the same ID should fail
	if err := plasma.CreateAndSeal(ctx, store, id, data, meta); !plasma.IsAlreadyExists(err) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	ob, err := plasma.Get(ctx, store, id, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ob == nil {
		t.Fatal("expected object, got nil")
	}
	if string(ob.Data) != string(data) {
		t.Fatalf("data mismatch: got %v want %v", ob.Data, data)
	}
	if string(ob.Metadata) != string(meta) {
		t.Fatalf("metadata mismatch: got %v want %v", ob.Metadata, meta)
	}

	missing, err := plasma.Get(ctx, store, plasma.RandID(), 0)
	if err != nil {
		t.Fatalf("Get(missing): %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for a non-existent object")
	}
}

func TestMemStoreGetMany(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)
	meta := []byte{1, 2, 3, 4}

	id1, data1 := plasma.RandID(), []byte{1, 2, 3, 4, 5, 6, 7, 8}
	id2, data2 := plasma.RandID(), []byte{1, 3, 5, 7, 9, 11, 13, 15}

	if err := plasma.CreateAndSeal(ctx, store, id1, data1, meta); err != nil {
		t.Fatal(err)
	}
	if err := plasma.CreateAndSeal(ctx, store, id2, data2, meta); err != nil {
		t.Fatal(err)
	}

	ids := []plasma.ID{id1, id2, plasma.RandID()}
	result, err := store.GetMany(ctx, ids, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result))
	}
	if result[0] == nil || string(result[0].Data) != string(data1) {
		t.Fatal("first result should match data1")
	}
	if result[1] == nil || string(result[1].Data) != string(data2) {
		t.Fatal("second result should match data2")
	}
	if result[2] != nil {
		t.Fatal("third result should be nil")
	}
}

func TestMemStoreContainsMany(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)
	meta := []byte{1, 2, 3, 4}

	id1 := plasma.RandID()
	id2 := plasma.RandID()
	if err := plasma.CreateAndSeal(ctx, store, id1, []byte{1}, meta); err != nil {
		t.Fatal(err)
	}
	if err := plasma.CreateAndSeal(ctx, store, id2, []byte{2}, meta); err != nil {
		t.Fatal(err)
	}

	ids := []plasma.ID{id1, id2, plasma.RandID()}
	has, err := store.ContainsMany(ctx, ids)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, true, false}
	for i := range want {
		if has[i] != want[i] {
			t.Fatalf("ContainsMany[%d] = %v, want %v", i, has[i], want[i])
		}
	}
}

func TestMemStoreCreateThenSeal(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)

	id := plasma.RandID()
	meta := []byte{1, 2, 3, 4}
	ob, err := store.Create(ctx, id, 16, meta)
	if err != nil {
		t.Fatal(err)
	}
	if !ob.IsMutable() {
		t.Fatal("freshly created object should be mutable")
	}

	has, _ := plasma.Contains(ctx, store, id)
	if has {
		t.Fatal("object should not be visible before Seal")
	}

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	copy(ob.DataMut(), data)
	if err := ob.Seal(); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if ob.IsMutable() {
		t.Fatal("object should not be mutable after Seal")
	}

	// sealing twice is an error
	if err := ob.Seal(); err == nil {
		t.Fatal("expected error sealing an already-sealed object")
	}

	has, _ = plasma.Contains(ctx, store, id)
	if !has {
		t.Fatal("object should be visible after Seal")
	}

	fetched, err := plasma.Get(ctx, store, id, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(fetched.Data) != string(data) {
		t.Fatalf("fetched data mismatch: got %v want %v", fetched.Data, data)
	}
}

func TestMemStoreCreateThenAbort(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)

	id := plasma.RandID()
	ob, err := store.Create(ctx, id, 16, nil)
	if err != nil {
		t.Fatal(err)
	}
	copy(ob.DataMut(), []byte{1, 2, 3, 4})

	if err := ob.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}

	has, _ := plasma.Contains(ctx, store, id)
	if has {
		t.Fatal("aborted object should not be in the store")
	}

	// a second create with the same id should now succeed
	if _, err := store.Create(ctx, id, 16, nil); err != nil {
		t.Fatalf("Create after abort: %v", err)
	}
}

func TestMemStoreCreateError(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)
	id := plasma.RandID()

	if err := plasma.CreateAndSeal(ctx, store, id, []byte{1, 2}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, id, 16, nil); !plasma.IsAlreadyExists(err) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemStoreDeleteMany(t *testing.T) {
	ctx := context.Background()
	store := plasma.NewMemStore(1 << 20)
	meta := []byte{1, 2, 3, 4}

	id1 := plasma.RandID()
	id2 := plasma.RandID()
	if err := plasma.CreateAndSeal(ctx, store, id1, []byte{1}, meta); err != nil {
		t.Fatal(err)
	}
	if err := plasma.CreateAndSeal(ctx, store, id2, []byte{2}, meta); err != nil {
		t.Fatal(err)
	}

	ids := []plasma.ID{id1, id2, plasma.RandID()}
	if err := store.DeleteMany(ctx, ids); err != nil {
		t.Fatal(err)
	}

	has, err := store.ContainsMany(ctx, ids)
	if err != nil {
		t.Fatal(err)
	}
	for i, h := range has {
		if h {
			t.Fatalf("ids[%d] should have been deleted", i)
		}
	}
}

func TestMemStoreCapacity(t *testing.T) {
	store := plasma.NewMemStore(42 << 20)
	capacity, err := store.StoreCapacity(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if capacity != 42<<20 {
		t.Fatalf("StoreCapacity = %d, want %d", capacity, 42<<20)
	}
}
