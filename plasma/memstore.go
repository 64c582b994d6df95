/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package plasma

import (
	"context"
	"sync"
)

// MemStore is an in-process Client used by tests in place of a real
// plasma-store-server connection. Its semantics mirror the store's own
// test suite: Create reserves an id exclusively, Seal publishes it,
// DeleteMany is idempotent on missing ids, and StoreCapacity is fixed at
// construction time.
type MemStore struct {
	mu       sync.Mutex
	sealed   map[ID]*Object
	pending  map[ID]*MutableObject
	capacity int64
}

// NewMemStore returns a MemStore advertising the given capacity in bytes.
func NewMemStore(capacity int64) *MemStore {
	return &MemStore{
		sealed:   make(map[ID]*Object),
		pending:  make(map[ID]*MutableObject),
		capacity: capacity,
	}
}

func (m *MemStore) Close() error { return nil }

func (m *MemStore) ContainsMany(_ context.Context, ids []ID) ([]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bool, len(ids))
	for i, id := range ids {
		_, out[i] = m.sealed[id]
	}
	return out, nil
}

func (m *MemStore) GetMany(_ context.Context, ids []ID, _ int64) ([]*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Object, len(ids))
	for i, id := range ids {
		if ob, ok := m.sealed[id]; ok {
			cp := *ob
			out[i] = &cp
		}
	}
	return out, nil
}

func (m *MemStore) Create(_ context.Context, id ID, size int, metadata []byte) (*MutableObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sealed[id]; ok {
		return nil, errExists(id)
	}
	if _, ok := m.pending[id]; ok {
		return nil, errExists(id)
	}
	meta := append([]byte(nil), metadata...)
	mo := newMutableObject(id, make([]byte, size), meta, m.sealFn(id), m.abortFn(id))
	m.pending[id] = mo
	return mo, nil
}

func (m *MemStore) sealFn(id ID) func(ID) error {
	return func(ID) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		mo, ok := m.pending[id]
		if !ok {
			return errNotMutable(id)
		}
		data := append([]byte(nil), mo.data...)
		m.sealed[id] = &Object{ID: id, Data: data, Metadata: mo.metadata}
		delete(m.pending, id)
		return nil
	}
}

func (m *MemStore) abortFn(id ID) func(ID) error {
	return func(ID) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.pending, id)
		return nil
	}
}

func (m *MemStore) DeleteMany(_ context.Context, ids []ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.sealed, id)
	}
	return nil
}

func (m *MemStore) StoreCapacity(context.Context) (int64, error) {
	return m.capacity, nil
}
