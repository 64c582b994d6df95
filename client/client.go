// Package client is a thin library for issuing SYNC requests against a
// plasmasyncd server, used by cmd/plasmasync-cli and usable directly by
// other Go programs.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package client

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/plasmasync/plasmasync/proto"
)

// Client holds a single connection to a plasmasyncd server and issues
// SYNC requests over it.
type Client struct {
	conn net.Conn
}

// Dial opens a connection to a plasmasyncd server's data-plane port.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Sync issues a single SYNC request built from peers and returns one
// response code per peer, in request order.
func (c *Client) Sync(peers []proto.PeerRequest) ([]proto.Code, error) {
	req := &proto.Request{Type: proto.ReqSync, Peers: peers}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := proto.WriteRequest(c.conn, req); err != nil {
		return nil, fmt.Errorf("client: write request: %w", err)
	}
	resp := make([]byte, len(peers))
	if _, err := io.ReadFull(c.conn, resp); err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	codes := make([]proto.Code, len(resp))
	for i, b := range resp {
		codes[i] = proto.Code(b)
	}
	return codes, nil
}

// SyncOne is a convenience wrapper issuing a SYNC with a single
// PeerRequest of the given type, pulling ids from the named peer.
func (c *Client) SyncOne(reqType proto.RequestType, from *net.TCPAddr, ids []proto.ID) (proto.Code, error) {
	codes, err := c.Sync([]proto.PeerRequest{{Type: reqType, From: *from, IDs: ids}})
	if err != nil {
		return 0, err
	}
	return codes[0], nil
}
