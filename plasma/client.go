/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package plasma

import "context"

// Client is the capability surface the transport layer requires of a
// Plasma shared-memory store connection. Implementations: UnixClient,
// which talks to a real plasma-store-server over a UNIX domain socket, and
// MemStore, an in-process reference implementation used by tests.
type Client interface {
	// ContainsMany reports, for each id in order, whether a sealed object
	// with that id is currently present in the store.
	ContainsMany(ctx context.Context, ids []ID) ([]bool, error)

	// GetMany fetches sealed objects by id, blocking up to timeoutMs for
	// objects not yet present. The returned slice has one entry per input
	// id, in order; an entry is nil if the object was not found within the
	// timeout.
	GetMany(ctx context.Context, ids []ID, timeoutMs int64) ([]*Object, error)

	// Create reserves a new, mutable object of the given size. It fails
	// with ErrAlreadyExists if id is already present (sealed or not).
	Create(ctx context.Context, id ID, size int, metadata []byte) (*MutableObject, error)

	// DeleteMany best-effort deletes the named objects. Ids that do not
	// exist are silently skipped; the returned error, if any, aggregates
	// failures for ids that do exist but could not be deleted.
	DeleteMany(ctx context.Context, ids []ID) error

	// StoreCapacity returns the store's configured total capacity in
	// bytes, queried once by the listener at startup to log and publish it.
	StoreCapacity(ctx context.Context) (int64, error)

	Close() error
}

// Get is a single-id convenience wrapper around GetMany.
func Get(ctx context.Context, c Client, id ID, timeoutMs int64) (*Object, error) {
	obs, err := c.GetMany(ctx, []ID{id}, timeoutMs)
	if err != nil {
		return nil, err
	}
	return obs[0], nil
}

// Contains is a single-id convenience wrapper around ContainsMany.
func Contains(ctx context.Context, c Client, id ID) (bool, error) {
	has, err := c.ContainsMany(ctx, []ID{id})
	if err != nil {
		return false, err
	}
	return has[0], nil
}

// CreateAndSeal creates, fills, and immediately seals a single object —
// the common case for the receiving side of a transfer.
func CreateAndSeal(ctx context.Context, c Client, id ID, data, metadata []byte) error {
	ob, err := c.Create(ctx, id, len(data), metadata)
	if err != nil {
		return err
	}
	copy(ob.DataMut(), data)
	return ob.Seal()
}

// Delete is a single-id convenience wrapper around DeleteMany.
func Delete(ctx context.Context, c Client, id ID) error {
	return c.DeleteMany(ctx, []ID{id})
}
