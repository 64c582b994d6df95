// Package mono provides a monotonic nanosecond clock for the logger's flush
// and since-last-write bookkeeping.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package mono

import "time"

var start = time.Now()

// NanoTime returns a monotonically non-decreasing count of nanoseconds,
// suitable only for measuring elapsed durations (never wall-clock time).
func NanoTime() int64 { return int64(time.Since(start)) }
