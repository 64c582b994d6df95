// Package atomic provides typed, zero-value-ready wrappers over sync/atomic,
// used throughout the codebase in place of bare int64/uint32/bool fields that
// are shared across goroutines.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package atomic

import "sync/atomic"

type Int64 struct{ v int64 }

func (i *Int64) Load() int64          { return atomic.LoadInt64(&i.v) }
func (i *Int64) Store(val int64)      { atomic.StoreInt64(&i.v, val) }
func (i *Int64) Add(delta int64) int64 { return atomic.AddInt64(&i.v, delta) }
func (i *Int64) CAS(old, new int64) bool {
	return atomic.CompareAndSwapInt64(&i.v, old, new)
}

type Uint32 struct{ v uint32 }

func (u *Uint32) Load() uint32           { return atomic.LoadUint32(&u.v) }
func (u *Uint32) Store(val uint32)       { atomic.StoreUint32(&u.v, val) }
func (u *Uint32) Add(delta uint32) uint32 { return atomic.AddUint32(&u.v, delta) }
func (u *Uint32) CAS(old, new uint32) bool {
	return atomic.CompareAndSwapUint32(&u.v, old, new)
}

type Uint64 struct{ v uint64 }

func (u *Uint64) Load() uint64           { return atomic.LoadUint64(&u.v) }
func (u *Uint64) Store(val uint64)       { atomic.StoreUint64(&u.v, val) }
func (u *Uint64) Add(delta uint64) uint64 { return atomic.AddUint64(&u.v, delta) }

type Bool struct{ v uint32 }

func (b *Bool) Load() bool {
	return atomic.LoadUint32(&b.v) != 0
}

func (b *Bool) Store(val bool) {
	if val {
		atomic.StoreUint32(&b.v, 1)
	} else {
		atomic.StoreUint32(&b.v, 0)
	}
}

func (b *Bool) CAS(old, new bool) bool {
	var o, n uint32
	if old {
		o = 1
	}
	if new {
		n = 1
	}
	return atomic.CompareAndSwapUint32(&b.v, o, n)
}

// Swap sets the value and returns the previous one.
func (b *Bool) Swap(val bool) bool {
	var n uint32
	if val {
		n = 1
	}
	return atomic.SwapUint32(&b.v, n) != 0
}
