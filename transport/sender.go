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

// Sender streams a requested object list into a socket (spec §4.3),
// optionally deleting the objects from the local store afterwards (the
// TAKE variant). A Sender is single-use: construct via Store.NewSender,
// call Run once.
type Sender struct {
	store           *Store
	ids             []plasma.ID
	deleteAfterSend bool
}

// Run executes the full send pipeline. Per spec, only steps before BEGIN
// is written may be represented as a response-code byte by the caller;
// once BEGIN is written the stream is append-only and any subsequent
// error is a transport error for the peer's receiver to detect.
func (s *Sender) Run(ctx context.Context, w io.Writer) (err error) {
	defer func() {
		if s.deleteAfterSend {
			s.store.Deleting.Remove(s.ids)
		}
	}()

	// 1. deletion guard
	ok, conflict := s.store.Deleting.CheckThenReserve(s.ids, s.deleteAfterSend)
	if !ok {
		return proto.ErrObjectDeletionScheduled(conflict)
	}

	// 2. retrieval
	objs, err := s.store.Client.GetMany(ctx, s.ids, s.store.TimeoutMs)
	if err != nil {
		return proto.ErrStore("sender: retrieval", s.ids, err)
	}
	var missing []plasma.ID
	for i, ob := range objs {
		if ob == nil {
			missing = append(missing, s.ids[i])
		}
	}
	if len(missing) > 0 {
		return proto.ErrObjectsNotFound(missing)
	}

	// 3. size guard, before any bytes are written
	for i, ob := range objs {
		if len(ob.Metadata) > proto.MaxMetaSize {
			return proto.ErrObjectMetaTooLarge(s.ids[i])
		}
		if len(ob.Data) > proto.MaxDataSize {
			return proto.ErrObjectDataTooLarge(s.ids[i])
		}
	}

	// 4. BEGIN
	if _, err := w.Write([]byte{byte(proto.Begin)}); err != nil {
		return proto.ErrConnection("sender: write begin", err)
	}

	// 5. stream
	for _, ob := range objs {
		header := proto.NewObjectHeader(uint64(len(ob.Metadata)), uint64(len(ob.Data)))
		if err := proto.WriteObjectHeader(w, header); err != nil {
			return proto.ErrConnection("sender: write header", err)
		}
		if _, err := w.Write(ob.Metadata); err != nil {
			return proto.ErrConnection("sender: write metadata", err)
		}
		if _, err := w.Write(ob.Data); err != nil {
			return proto.ErrConnection("sender: write data", err)
		}
	}

	// 6. optional delete, best-effort
	if s.deleteAfterSend {
		if err := s.store.Client.DeleteMany(ctx, s.ids); err != nil {
			nlog.Warningf("sender: post-send delete_many failed for %d id(s): %v", len(s.ids), err)
		}
	}

	if m := s.store.Metrics; m != nil {
		m.ObjectsSent.Add(float64(len(objs)))
		for _, ob := range objs {
			m.BytesSent.Add(float64(len(ob.Data)))
		}
	}
	return nil
}
