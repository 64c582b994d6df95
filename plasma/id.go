// Package plasma models the capability surface the transport layer needs
// from an Arrow Plasma shared-memory object store: object identity, sealed
// and in-progress object buffers, and a Client that can create, seal,
// fetch, and delete objects by ID. The store daemon itself is an external
// process; this package only speaks to it.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package plasma

import (
	"crypto/rand"
	"encoding/hex"
)

// IDLen matches Arrow Plasma's 20-byte object id (a SHA1-sized digest, used
// by convention rather than necessity).
const IDLen = 20

// ID identifies an object in the store. It is comparable and usable as a
// map key.
type ID [IDLen]byte

// NewID wraps a caller-supplied 20-byte identifier.
func NewID(b [IDLen]byte) ID { return ID(b) }

// RandID returns a cryptographically random object id, used when the
// caller (e.g. a test, or a client minting a fresh id before a Create) does
// not already have one.
func RandID() ID {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		// crypto/rand failing is unrecoverable on any supported platform.
		panic("plasma: rand.Read failed: " + err.Error())
	}
	return id
}

// IDFromHex parses the lowercase-hex encoding produced by ID.Hex.
func IDFromHex(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(b) != IDLen {
		return id, &Error{Kind: ErrUnknown, Msg: "object id: wrong length"}
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the raw 20-byte identifier.
func (id ID) Bytes() []byte { return id[:] }

// Hex returns the lowercase-hex encoding of the identifier, used in log
// lines and by the CLI.
func (id ID) Hex() string { return hex.EncodeToString(id[:]) }

func (id ID) String() string { return id.Hex() }
