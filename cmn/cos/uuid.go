// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package cos

import (
	"github.com/teris-io/shortid"

	"github.com/plasmasync/plasmasync/cmn/atomic"
)

// Alphabet for generating short correlation IDs, borrowed from
// shortid.DEFAULT_ABC (len > 0x3f, see genTie).
const connIDABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

const LenShortID = 9 // per https://github.com/teris-io/shortid#id-length

var (
	sid  *shortid.Shortid
	rtie atomic.Uint32
)

// InitShortID must be called once at process startup, before the first
// GenConnID, with a process-specific seed (e.g. derived from the PID and
// start time) so that IDs generated by concurrently-running servers don't
// collide in shared log aggregation.
func InitShortID(seed uint64) {
	sid = shortid.MustNew(4 /*worker*/, connIDABC, seed)
}

// GenConnID returns a short, log-friendly, not-necessarily-unique-across-
// restarts identifier for one accepted connection. It never appears on the
// wire; it exists purely so that log lines from the same connection can be
// correlated.
func GenConnID() string {
	if sid == nil {
		InitShortID(1)
	}
	id := sid.MustGenerate()
	tie := genTie()
	return id + tie
}

// genTie is a 2-letter tie breaker appended to reduce the (already small)
// chance that two connections accepted in the same tick produce the same
// shortid output.
func genTie() string {
	tie := rtie.Add(1)
	b0 := connIDABC[tie&0x3f]
	b1 := connIDABC[(tie>>2)&0x3f]
	return string([]byte{b0, b1})
}
