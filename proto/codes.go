// Package proto implements the wire protocol: request/response framing and
// the status-code taxonomy that collapses every local and remote failure
// into a single byte per peer request.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package proto

// Code is a single-byte response/status code, written on the wire in lieu
// of a free-form error string.
type Code byte

const (
	Begin               Code = 0x00
	Success             Code = 0x41
	ObMetaTooLarge      Code = 0x50
	ObDataTooLarge      Code = 0x51
	ObDataZeroLength    Code = 0x52
	PlasmaStoreErr      Code = 0x60
	PeerPlasmaStoreErr  Code = 0x61
	PeerRequestPanicked Code = 0x62
	ObDeletionScheduled Code = 0x70
	ObNotFound          Code = 0x71
	ObAlreadyReceiving  Code = 0x80
	ObAlreadyInStore    Code = 0x81
	PeerConnectionErr   Code = 0x90
	ClientConnectionErr Code = 0x91
)

var codeNames = map[Code]string{
	Begin:               "BEGIN",
	Success:             "SUCCESS",
	ObMetaTooLarge:      "OB_META_TOO_LARGE",
	ObDataTooLarge:      "OB_DATA_TOO_LARGE",
	ObDataZeroLength:    "OB_DATA_ZERO_LENGTH",
	PlasmaStoreErr:      "PLASMA_STORE_ERR",
	PeerPlasmaStoreErr:  "PEER_PLASMA_STORE_ERR",
	PeerRequestPanicked: "PEER_REQUEST_PANICKED",
	ObDeletionScheduled: "OB_DELETION_SCHEDULED",
	ObNotFound:          "OB_NOT_FOUND",
	ObAlreadyReceiving:  "OB_ALREADY_RECEIVING",
	ObAlreadyInStore:    "OB_ALREADY_IN_STORE",
	PeerConnectionErr:   "PEER_CONNECTION_ERR",
	ClientConnectionErr: "CLIENT_CONNECTION_ERR",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
