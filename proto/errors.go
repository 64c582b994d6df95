/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package proto

import (
	"fmt"

	"github.com/plasmasync/plasmasync/plasma"
)

// Error is the single typed error every layer of the transfer engine
// produces: a response Code plus the ids and underlying cause relevant to
// it, so the handler can both log context and reduce the failure to one
// wire byte.
type Error struct {
	Code Code
	Op   string
	IDs  []plasma.ID
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && len(e.IDs) > 0:
		return fmt.Sprintf("%s: %s (%d id(s)): %v", e.Op, e.Code, len(e.IDs), e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	case len(e.IDs) > 0:
		return fmt.Sprintf("%s: %s (%d id(s))", e.Op, e.Code, len(e.IDs))
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(op string, code Code, ids []plasma.ID, err error) *Error {
	return &Error{Code: code, Op: op, IDs: ids, Err: err}
}

// CodeOf reduces any error to its wire response code: *Error carries its
// own code, everything else maps to an unattributed store error, except
// nil which maps to Success.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	if pe, ok := err.(*Error); ok {
		return pe.Code
	}
	return PlasmaStoreErr
}

// Parse-time / validation errors. These never leave a single peer task;
// they terminate a connection (handler) or fail a whole PeerRequest
// (dispatcher), never the store state.

func ErrInvalidRequestType(got byte) *Error {
	return newErr("parse request", ClientConnectionErr, nil, fmt.Errorf("invalid request type %#x", got))
}

func ErrInvalidPeerRequestType(got byte) *Error {
	return newErr("parse peer request", ClientConnectionErr, nil, fmt.Errorf("invalid peer request type %#x", got))
}

func ErrInvalidPeerAddressType(got byte) *Error {
	return newErr("parse socket address", PeerConnectionErr, nil, fmt.Errorf("invalid address family %#x", got))
}

func ErrListTooLong(n, max int) *Error {
	return newErr("parse list", ClientConnectionErr, nil, fmt.Errorf("list length %d exceeds max %d", n, max))
}

func ErrListEmpty() *Error {
	return newErr("parse list", ClientConnectionErr, nil, fmt.Errorf("list must be non-empty"))
}

func ErrDuplicateIDs() *Error {
	return newErr("validate request", ClientConnectionErr, nil, fmt.Errorf("duplicate object ids in request"))
}

// Sender-side errors (spec §4.3).

func ErrObjectDeletionScheduled(ids []plasma.ID) *Error {
	return newErr("sender: deletion guard", ObDeletionScheduled, ids, nil)
}

func ErrObjectsNotFound(ids []plasma.ID) *Error {
	return newErr("sender: retrieval", ObNotFound, ids, nil)
}

func ErrStore(op string, ids []plasma.ID, err error) *Error {
	return newErr(op, PlasmaStoreErr, ids, err)
}

func ErrObjectMetaTooLarge(id plasma.ID) *Error {
	return newErr("size guard", ObMetaTooLarge, []plasma.ID{id}, nil)
}

func ErrObjectDataTooLarge(id plasma.ID) *Error {
	return newErr("size guard", ObDataTooLarge, []plasma.ID{id}, nil)
}

func ErrObjectDataZeroLength(id plasma.ID) *Error {
	return newErr("size guard", ObDataZeroLength, []plasma.ID{id}, nil)
}

func ErrConnection(op string, err error) *Error {
	return newErr(op, PeerConnectionErr, nil, err)
}

func ErrClientConnection(op string, err error) *Error {
	return newErr(op, ClientConnectionErr, nil, err)
}

// Receiver-side errors (spec §4.4).

func ErrAlreadyReceiving(ids []plasma.ID) *Error {
	return newErr("receiver: prepare", ObAlreadyReceiving, ids, nil)
}

func ErrAlreadyInStore(ids []plasma.ID) *Error {
	return newErr("receiver: prepare", ObAlreadyInStore, ids, nil)
}

func ErrPeer(code Code) *Error {
	return newErr("receiver: run", code, nil, fmt.Errorf("peer reported %s", code))
}

// Dispatcher / control-plane errors (spec §4.5).

func ErrPeerAddressIsSelf() *Error {
	return newErr("dispatcher", PeerConnectionErr, nil, fmt.Errorf("peer request targets this server's own address"))
}

func ErrPeerRequestPanicked(r any) *Error {
	return newErr("dispatcher: fan-out task", PeerRequestPanicked, nil, fmt.Errorf("panic: %v", r))
}
