// Package idset implements the two process-global coordination sets the
// transfer engine relies on (spec §3's `receiving` and `deleting`): exact,
// mutex-guarded sets of object ids supporting an atomic check-then-insert.
// Per spec §9's design note, the set is sharded by id hash to reduce lock
// contention under concurrent senders/receivers touching disjoint ids.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package idset

import (
	"sort"
	"sync"

	"github.com/OneOfOne/xxhash"

	"github.com/plasmasync/plasmasync/cmn/debug"
	"github.com/plasmasync/plasmasync/plasma"
)

const numShards = 64

type shard struct {
	mu  sync.Mutex
	ids map[plasma.ID]struct{}
}

// Set is a sharded, exclusive-insert set of object ids. The zero value is
// not usable; construct with New.
type Set struct {
	shards [numShards]*shard
}

// New returns an empty coordination set.
func New() *Set {
	s := &Set{}
	for i := range s.shards {
		s.shards[i] = &shard{ids: make(map[plasma.ID]struct{})}
	}
	return s
}

func shardIndex(id plasma.ID) uint64 {
	return xxhash.Checksum64(id[:]) % numShards
}

// shardsFor returns the distinct shard indices touched by ids, sorted, so
// callers can lock them in a fixed global order and avoid deadlocking
// against a concurrent call touching an overlapping id set.
func (s *Set) shardsFor(ids []plasma.ID) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		seen[shardIndex(id)] = struct{}{}
	}
	out := make([]uint64, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// lockAll relies on idxs being sorted and deduplicated (shardsFor's
// contract): locking in a fixed global order is what prevents two
// overlapping-but-not-identical id sets from deadlocking each other.
func (s *Set) lockAll(idxs []uint64) {
	debug.AssertFunc(func() bool {
		return sort.SliceIsSorted(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	}, "idset: shard indices must be sorted before locking")
	for _, idx := range idxs {
		s.shards[idx].mu.Lock()
	}
}

func (s *Set) unlockAll(idxs []uint64) {
	for _, idx := range idxs {
		s.shards[idx].mu.Unlock()
	}
}

// TryReserve inserts every id in ids, but only if none of them is already
// present; the check and the insert happen under the same locked region,
// so two concurrent TryReserve calls racing on an overlapping id set can
// never both succeed (spec invariants 1/2). On failure, already is the
// subset of ids found already present; the set is left unmodified.
func (s *Set) TryReserve(ids []plasma.ID) (ok bool, already []plasma.ID) {
	return s.CheckThenReserve(ids, true)
}

// CheckThenReserve checks, under one locked region, whether any of ids is
// already present; if none are and reserve is true, it inserts all of
// them before releasing the locks. This lets a caller combine a presence
// check with a conditional insert as a single atomic step (spec §4.3's
// sender deletion guard checks `deleting` and, only for delete_after_send
// transfers, reserves into it in the same critical section).
func (s *Set) CheckThenReserve(ids []plasma.ID, reserve bool) (ok bool, conflict []plasma.ID) {
	idxs := s.shardsFor(ids)
	s.lockAll(idxs)
	defer s.unlockAll(idxs)

	for _, id := range ids {
		if _, present := s.shards[shardIndex(id)].ids[id]; present {
			conflict = append(conflict, id)
		}
	}
	if len(conflict) > 0 {
		return false, conflict
	}
	if reserve {
		for _, id := range ids {
			s.shards[shardIndex(id)].ids[id] = struct{}{}
		}
	}
	return true, nil
}

// Remove deletes ids from the set unconditionally; removing an id not
// present is a no-op. Called unconditionally on every sender/receiver exit
// path (spec invariant 5).
func (s *Set) Remove(ids []plasma.ID) {
	idxs := s.shardsFor(ids)
	s.lockAll(idxs)
	defer s.unlockAll(idxs)

	for _, id := range ids {
		delete(s.shards[shardIndex(id)].ids, id)
	}
}

// Contains returns the subset of ids currently in the set (empty if none).
func (s *Set) Contains(ids []plasma.ID) (present []plasma.ID) {
	idxs := s.shardsFor(ids)
	s.lockAll(idxs)
	defer s.unlockAll(idxs)

	for _, id := range ids {
		if _, ok := s.shards[shardIndex(id)].ids[id]; ok {
			present = append(present, id)
		}
	}
	return present
}
