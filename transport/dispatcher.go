/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"syscall"

	cuckoo "github.com/seiflotfy/cuckoofilter"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/plasmasync/plasmasync/cmn/cos"
	"github.com/plasmasync/plasmasync/cmn/nlog"
	"github.com/plasmasync/plasmasync/proto"
)

// sndBufSize is the outbound peer connection's SO_SNDBUF hint. Best-effort:
// failures to apply it are logged but never fail the dial.
const sndBufSize = 1 << 20

// failedPeerCache is an advisory, approximate record of peer addresses the
// dispatcher recently failed to dial. A cuckoo filter's only failure mode
// is a false positive, so it is consulted purely to log a hint before
// dialing (no metric records it) — it never changes control flow, and must not:
// the coordination sets, not this cache, are what the exactness
// invariants in spec §3 depend on.
type failedPeerCache struct {
	mu     sync.Mutex
	filter *cuckoo.Filter
}

func newFailedPeerCache() *failedPeerCache {
	return &failedPeerCache{filter: cuckoo.NewFilter(1024)}
}

func (c *failedPeerCache) maybeRecentlyFailed(addr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Lookup([]byte(addr))
}

func (c *failedPeerCache) recordFailure(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.InsertUnique([]byte(addr))
}

// Dispatcher fans a SYNC request's PeerRequests out to one task each,
// aggregating a single response byte per task (spec §4.5).
type Dispatcher struct {
	store       *Store
	failedPeers *failedPeerCache
}

func NewDispatcher(store *Store) *Dispatcher {
	return &Dispatcher{store: store, failedPeers: newFailedPeerCache()}
}

// Run executes req.Peers against local bound address self, writing exactly
// len(req.Peers) response bytes to w. An error return means the response
// itself could not be written (ClientConnectionErr); it is the only
// dispatcher-fatal failure and the caller (Handler) must close the
// connection on it.
func (d *Dispatcher) Run(ctx context.Context, req *proto.Request, self net.Addr, w io.Writer) error {
	n := len(req.Peers)
	codes := make([]proto.Code, n)
	for i := range codes {
		codes[i] = proto.Success
	}

	selfTCP, _ := self.(*net.TCPAddr)
	for _, pr := range req.Peers {
		if selfTCP != nil && tcpAddrEqual(&pr.From, selfTCP) {
			// No fan-out is started: the whole SYNC is rejected in one
			// shot, so every response byte carries the same code.
			for i := range codes {
				codes[i] = proto.CodeOf(proto.ErrPeerAddressIsSelf())
			}
			d.observe(codes)
			return writeResponse(w, codes)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range req.Peers {
		i, pr := i, req.Peers[i]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					codes[i] = proto.PeerRequestPanicked
					nlog.Errorf("dispatcher: peer task %d panicked: %v", i, r)
				}
			}()
			if runErr := d.runPeerTask(gctx, &pr); runErr != nil {
				codes[i] = proto.CodeOf(runErr)
				nlog.Warningf("dispatcher: peer task %d (%s) failed: %v", i, pr.From.String(), runErr)
			}
			return nil
		})
	}
	// errgroup's own cancellation-on-error is deliberately unused: every
	// task's own code is what populates the response, and one peer's
	// failure must never cancel its siblings. Every task returns nil (a
	// panic is recovered and recorded in codes by the defer above), so
	// g.Wait() is always nil here by construction.
	_ = g.Wait()

	d.observe(codes)
	return writeResponse(w, codes)
}

func (d *Dispatcher) observe(codes []proto.Code) {
	m := d.store.Metrics
	if m == nil {
		return
	}
	for _, c := range codes {
		m.ObserveResponse(c)
	}
}

func writeResponse(w io.Writer, codes []proto.Code) error {
	resp := make([]byte, len(codes))
	for i, c := range codes {
		resp[i] = byte(c)
	}
	if _, err := w.Write(resp); err != nil {
		return proto.ErrClientConnection("dispatcher: write response", err)
	}
	return nil
}

func (d *Dispatcher) runPeerTask(ctx context.Context, pr *proto.PeerRequest) error {
	ids := proto.MapObjectIDs(pr.IDs)
	recv := d.store.NewReceiver(ids)
	defer recv.Release()

	if err := recv.Prepare(ctx); err != nil {
		return err
	}

	addr := pr.From.String()
	if d.failedPeers.maybeRecentlyFailed(addr) {
		nlog.Infof("dispatcher: dialing %s, recently failed", addr)
	}

	conn, err := dialPeer(ctx, addr)
	if err != nil {
		d.failedPeers.recordFailure(addr)
		if cos.IsRetriableConnErr(err) {
			nlog.Warningf("dispatcher: transient dial failure to %s: %v", addr, err)
		} else {
			nlog.Errorf("dispatcher: dial failure to %s: %v", addr, err)
		}
		return proto.ErrConnection("dispatcher: dial peer", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			nlog.Warningf("dispatcher: closing connection to %s: %v", addr, cerr)
		}
	}()

	leaf := &proto.Request{Type: pr.Type, IDs: pr.IDs}
	if err := proto.WriteRequest(conn, leaf); err != nil {
		return err
	}
	return recv.Run(ctx, conn)
}

func dialPeer(ctx context.Context, addr string) (net.Conn, error) {
	dialer := net.Dialer{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, sndBufSize)
			})
			if err != nil {
				return err
			}
			if sockErr != nil {
				nlog.Warningf("dispatcher: SO_SNDBUF tuning failed for %s: %v", addr, sockErr)
			}
			return nil
		},
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

func tcpAddrEqual(a, b *net.TCPAddr) bool {
	return a.Port == b.Port && a.IP.Equal(b.IP)
}
