/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package proto

import "github.com/plasmasync/plasmasync/plasma"

// ID is the wire representation of an object identifier: a 20-byte opaque
// value, byte-wise comparable, with no bits interpreted by this system.
// It is a distinct type from plasma.ID (with the same length);
// MapObjectIDs bridges the two at the one place they meet.
type ID [plasma.IDLen]byte

func (id ID) Hex() string    { return plasma.ID(id).Hex() }
func (id ID) String() string { return id.Hex() }

// MapObjectIDs converts wire-level ids into the store's ObjectId type, the
// one place the protocol and the store capability surface are bridged.
func MapObjectIDs(ids []ID) []plasma.ID {
	out := make([]plasma.ID, len(ids))
	for i, id := range ids {
		out[i] = plasma.ID(id)
	}
	return out
}

// FromObjectIDs is the inverse of MapObjectIDs, for when a store-side id
// list must go back out over the wire.
func FromObjectIDs(ids []plasma.ID) []ID {
	out := make([]ID, len(ids))
	for i, id := range ids {
		out[i] = ID(id)
	}
	return out
}
