//go:build debug

// Package debug provides assertion utilities that compile to nothing
// unless built with the "debug" build tag.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package debug

import (
	"fmt"
	"sync"

	"github.com/plasmasync/plasmasync/cmn/nlog"
)

func ON() bool { return true }

func Infof(format string, args ...any) { nlog.InfoDepth(1, fmt.Sprintf(format, args...)) }

func Func(f func()) { f() }

func Assert(cond bool, args ...any) {
	if !cond {
		panic(fmt.Sprint(args...))
	}
}

func AssertFunc(f func() bool, args ...any) { Assert(f(), args...) }

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// AssertMutexLocked cannot observe lock state portably; kept as a no-op
// placeholder so call sites compile identically under both build tags.
func AssertMutexLocked(_ *sync.Mutex)      {}
func AssertRWMutexLocked(_ *sync.RWMutex)  {}
func AssertRWMutexRLocked(_ *sync.RWMutex) {}
