/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package transport

import (
	"context"
	"io"

	"github.com/plasmasync/plasmasync/cmn/nlog"
	"github.com/plasmasync/plasmasync/plasma"
	"github.com/plasmasync/plasmasync/proto"
)

// Receiver reads an object stream off a freshly opened peer connection and
// inserts each object into the local store (spec §4.4). Prepare performs
// the local, I/O-free guard; Run then drives the socket. Release must be
// called exactly once, regardless of how Prepare/Run conclude, to remove
// the receiver's ids from the `receiving` coordination set.
type Receiver struct {
	store *Store
	ids   []plasma.ID
}

// Prepare reserves ids in the `receiving` set and verifies none are
// already present in the local store. The caller must call Release once
// Prepare returns, success or failure: a successful TryReserve still needs
// undoing if the local-store check that follows it fails.
func (r *Receiver) Prepare(ctx context.Context) error {
	ok, conflict := r.store.Receiving.TryReserve(r.ids)
	if !ok {
		return proto.ErrAlreadyReceiving(conflict)
	}
	present, err := r.store.contains(ctx, r.ids)
	if err != nil {
		return proto.ErrStore("receiver: prepare", r.ids, err)
	}
	if len(present) > 0 {
		return proto.ErrAlreadyInStore(present)
	}
	return nil
}

// Release removes all of the receiver's ids from the `receiving` set,
// whether or not this receiver's Prepare reserved them; calling it more
// than once is a no-op after the first call.
func (r *Receiver) Release() {
	r.store.Receiving.Remove(r.ids)
}

// Run reads the data-plane stream from rw: one status byte, then for each
// id in order a header, metadata, and data, each inserted into the local
// store as it arrives. On a failure at object index i, Run best-effort
// rolls back ids[0:i+1] from the store before returning.
func (r *Receiver) Run(ctx context.Context, rw io.Reader) error {
	var statusBuf [1]byte
	if _, err := io.ReadFull(rw, statusBuf[:]); err != nil {
		return proto.ErrConnection("receiver: read status", err)
	}
	if proto.Code(statusBuf[0]) != proto.Begin {
		return proto.ErrPeer(proto.Code(statusBuf[0]))
	}

	for i, id := range r.ids {
		if err := r.runOne(ctx, rw, id); err != nil {
			r.rollback(ctx, i)
			return err
		}
	}
	return nil
}

func (r *Receiver) runOne(ctx context.Context, rw io.Reader, id plasma.ID) error {
	header, err := proto.ReadObjectHeader(rw)
	if err != nil {
		return proto.ErrConnection("receiver: read header", err)
	}
	metaSize, dataSize := header.MetaSize(), header.DataSize()
	if dataSize == 0 {
		return proto.ErrObjectDataZeroLength(id)
	}
	if dataSize > proto.MaxDataSize {
		return proto.ErrObjectDataTooLarge(id)
	}
	if metaSize > proto.MaxMetaSize {
		return proto.ErrObjectMetaTooLarge(id)
	}

	metadata := make([]byte, metaSize)
	if _, err := io.ReadFull(rw, metadata); err != nil {
		return proto.ErrConnection("receiver: read metadata", err)
	}

	ob, err := r.store.Client.Create(ctx, id, int(dataSize), metadata)
	if err != nil {
		return proto.ErrStore("receiver: create", []plasma.ID{id}, err)
	}
	if _, err := io.ReadFull(rw, ob.DataMut()); err != nil {
		r.abort(ob)
		return proto.ErrConnection("receiver: read data", err)
	}
	if err := ob.Seal(); err != nil {
		r.abort(ob)
		return proto.ErrStore("receiver: seal", []plasma.ID{id}, err)
	}
	if m := r.store.Metrics; m != nil {
		m.ObjectsReceived.Inc()
		m.BytesReceived.Add(float64(dataSize))
	}
	return nil
}

// abort discards an object this receiver created but never sealed.
// DeleteMany only reaches sealed objects (the ids preceding the failing
// index), so the still-pending object at the failing index needs this
// separate release to avoid leaking its store reservation.
func (r *Receiver) abort(ob *plasma.MutableObject) {
	if err := ob.Abort(); err != nil {
		nlog.Warningf("receiver: abort of unsealed object %s failed: %v", ob.ID(), err)
	}
}

func (r *Receiver) rollback(ctx context.Context, uptoInclusive int) {
	victims := r.ids[:uptoInclusive+1]
	if err := r.store.Client.DeleteMany(ctx, victims); err != nil {
		nlog.Warningf("receiver: rollback delete_many failed for %d id(s): %v", len(victims), err)
	}
}
