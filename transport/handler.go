/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package transport

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/plasmasync/plasmasync/cmn/cos"
	"github.com/plasmasync/plasmasync/cmn/nlog"
	"github.com/plasmasync/plasmasync/proto"
)

// Handler drives one accepted TCP connection end to end (spec §4.6):
// read a Request, validate it, dispatch to a Sender, Receiver (via peer
// leaf requests), or Dispatcher, and repeat until the peer disconnects or
// a mid-stream error makes the socket unusable.
type Handler struct {
	store   *Store
	conn    net.Conn
	connID  string
	release func() // releases the listener's admission permit
}

func NewHandler(store *Store, conn net.Conn, release func()) *Handler {
	return &Handler{store: store, conn: conn, connID: cos.GenConnID(), release: release}
}

// Run loops reading and dispatching requests until EOF or a terminal
// error. It always closes the connection and releases the admission
// permit on return.
func (h *Handler) Run(ctx context.Context) {
	defer h.release()
	defer h.conn.Close()

	for {
		req, err := proto.ReadRequest(h.conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				nlog.Infof("[%s] connection closed", h.connID)
				return
			}
			nlog.Warningf("[%s] request parse error: %v", h.connID, err)
			return
		}
		if err := req.Validate(); err != nil {
			nlog.Warningf("[%s] request validation error: %v", h.connID, err)
			return
		}
		if err := h.dispatch(ctx, req); err != nil {
			nlog.Warningf("[%s] request handling error: %v", h.connID, err)
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, req *proto.Request) error {
	switch req.Type {
	case proto.ReqCopy:
		return h.runSender(ctx, req, false)
	case proto.ReqTake:
		return h.runSender(ctx, req, true)
	case proto.ReqSync:
		d := NewDispatcher(h.store)
		return d.Run(ctx, req, h.conn.LocalAddr(), h.conn)
	default:
		return proto.ErrInvalidRequestType(byte(req.Type))
	}
}

func (h *Handler) runSender(ctx context.Context, req *proto.Request, deleteAfterSend bool) error {
	ids := proto.MapObjectIDs(req.IDs)
	s := h.store.NewSender(ids, deleteAfterSend)
	err := s.Run(ctx, h.conn)
	if err == nil {
		return nil
	}
	// steps before BEGIN may still report a single error byte in lieu of
	// BEGIN; a write failure here is dropped silently per spec §9(b).
	if pe, ok := err.(*proto.Error); ok && pe.Code != proto.PeerConnectionErr && pe.Code != proto.ClientConnectionErr {
		_, _ = h.conn.Write([]byte{byte(pe.Code)})
	}
	return err
}
