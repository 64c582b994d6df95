/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/plasmasync/plasmasync/cmn/cos"
	"github.com/plasmasync/plasmasync/cmn/nlog"
)

// acceptBackoff is the bounded backoff schedule applied to consecutive
// accept() failures (spec §4.7): 1s, 2s, 3s, 4s, then give up.
var acceptBackoff = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	3 * time.Second,
	4 * time.Second,
}

// Listener accepts TCP connections on 127.0.0.1:port, admitting at most
// maxConnections concurrently via a weighted semaphore, and spawns one
// Handler per accepted connection.
type Listener struct {
	store          *Store
	port           int
	maxConnections int64
	sem            *semaphore.Weighted
	ln             net.Listener
}

func NewListener(store *Store, port int, maxConnections int64) *Listener {
	return &Listener{
		store:          store,
		port:           port,
		maxConnections: maxConnections,
		sem:            semaphore.NewWeighted(maxConnections),
	}
}

// Listen binds the listening socket. Passing port 0 to NewListener lets
// the OS assign a port, retrievable afterwards via Addr — used by tests
// that need to dial the server back.
func (l *Listener) Listen() error {
	addr := fmt.Sprintf("127.0.0.1:%d", l.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	l.ln = ln
	return nil
}

// Addr returns the bound address; valid only after Listen has returned
// successfully.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// logStoreCapacity queries the local store's configured capacity once at
// startup, logs it, and (if metrics are enabled) publishes it as a gauge.
// A failed query is logged and otherwise ignored: capacity reporting is
// advisory and must never block serving.
func (l *Listener) logStoreCapacity(ctx context.Context) {
	capacity, err := l.store.Client.StoreCapacity(ctx)
	if err != nil {
		nlog.Warningf("listener: store capacity query failed: %v", err)
		return
	}
	nlog.Infof("listener: store capacity %d bytes", capacity)
	if m := l.store.Metrics; m != nil {
		m.StoreCapacity.Set(float64(capacity))
	}
}

// Serve runs the accept loop until ln.Close or a terminal accept failure
// (acceptBackoff exhausted). It blocks until then. Serve calls Listen
// itself if the socket has not already been bound.
func (l *Listener) Serve(ctx context.Context) error {
	if l.ln == nil {
		if err := l.Listen(); err != nil {
			return err
		}
	}
	defer l.ln.Close()
	nlog.Infof("listener: serving on %s (max %d connections)", l.ln.Addr(), l.maxConnections)
	l.logStoreCapacity(ctx)

	consecutiveFailures := 0
	for {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return err
		}

		conn, err := l.ln.Accept()
		if err != nil {
			l.sem.Release(1)
			consecutiveFailures++
			if consecutiveFailures > len(acceptBackoff) {
				nlog.Errorf("listener: accept failed %d times in a row, giving up: %v", consecutiveFailures, err)
				return err
			}
			backoff := acceptBackoff[consecutiveFailures-1]
			if cos.IsRetriableConnErr(err) {
				nlog.Warningf("listener: transient accept error (retry %d/%d after %s): %v", consecutiveFailures, len(acceptBackoff), backoff, err)
			} else {
				nlog.Errorf("listener: accept error (retry %d/%d after %s): %v", consecutiveFailures, len(acceptBackoff), backoff, err)
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		consecutiveFailures = 0

		if m := l.store.Metrics; m != nil {
			m.ActiveConnections.Inc()
		}
		var released bool
		release := func() {
			if !released {
				released = true
				l.sem.Release(1)
				if m := l.store.Metrics; m != nil {
					m.ActiveConnections.Dec()
				}
			}
		}
		h := NewHandler(l.store, conn, release)
		go h.Run(ctx)
	}
}
