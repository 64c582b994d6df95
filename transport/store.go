// Package transport implements the object-transfer engine: the sender and
// receiver pipelines, the fan-out dispatcher, the per-connection handler,
// and the accept loop, all built atop the plasma and proto packages.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package transport

import (
	"context"

	"github.com/plasmasync/plasmasync/plasma"
	"github.com/plasmasync/plasmasync/stats"
	"github.com/plasmasync/plasmasync/transport/idset"
)

// Store is the thin capability wrapper spec §4.1 describes: a connected
// Plasma client plus the two shared coordination sets and the timeout
// applied to GetMany. Senders and Receivers are vended from a Store and
// hold a reference to it and to the relevant set; there are no back
// references.
type Store struct {
	Client    plasma.Client
	Receiving *idset.Set
	Deleting  *idset.Set
	TimeoutMs int64

	// Metrics is nil-safe: a Store with nil Metrics (as NewStore returns
	// it, and as every test uses it) runs with metrics disabled.
	Metrics *stats.Metrics
}

// NewStore wires a connected plasma.Client into a Store with fresh
// coordination sets.
func NewStore(client plasma.Client, timeoutMs int64) *Store {
	return &Store{
		Client:    client,
		Receiving: idset.New(),
		Deleting:  idset.New(),
		TimeoutMs: timeoutMs,
	}
}

func (s *Store) NewSender(ids []plasma.ID, deleteAfterSend bool) *Sender {
	return &Sender{store: s, ids: ids, deleteAfterSend: deleteAfterSend}
}

func (s *Store) NewReceiver(ids []plasma.ID) *Receiver {
	return &Receiver{store: s, ids: ids}
}

func (s *Store) contains(ctx context.Context, ids []plasma.ID) ([]plasma.ID, error) {
	has, err := s.Client.ContainsMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	present := make([]plasma.ID, 0, len(ids))
	for i, ok := range has {
		if ok {
			present = append(present, ids[i])
		}
	}
	return present, nil
}
