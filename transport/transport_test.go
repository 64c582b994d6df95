/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package transport_test

import (
	"context"
	"io"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plasmasync/plasmasync/plasma"
	"github.com/plasmasync/plasmasync/proto"
	"github.com/plasmasync/plasmasync/transport"
)

type server struct {
	store *transport.Store
	ln    *transport.Listener
	addr  *net.TCPAddr
	stop  context.CancelFunc
}

func startServer(capacity int64) *server {
	store := transport.NewStore(plasma.NewMemStore(capacity), 1000)
	ln := transport.NewListener(store, 0, 16)
	Expect(ln.Listen()).To(Succeed())

	ctx, cancel := context.WithCancel(context.Background())
	go ln.Serve(ctx)

	return &server{store: store, ln: ln, addr: ln.Addr().(*net.TCPAddr), stop: cancel}
}

func (s *server) close() { s.stop() }

func syncOneHop(from *net.TCPAddr, ids []proto.ID, take bool) *proto.Request {
	typ := proto.ReqCopy
	if take {
		typ = proto.ReqTake
	}
	return &proto.Request{
		Type: proto.ReqSync,
		Peers: []proto.PeerRequest{
			{Type: typ, From: *from, IDs: ids},
		},
	}
}

func idFrom(b byte) proto.ID {
	var id proto.ID
	for i := range id {
		id[i] = b
	}
	return id
}

func sendSync(addr *net.TCPAddr, req *proto.Request) []byte {
	conn, err := net.DialTimeout("tcp", addr.String(), 2*time.Second)
	Expect(err).NotTo(HaveOccurred())
	defer conn.Close()

	Expect(proto.WriteRequest(conn, req)).To(Succeed())

	resp := make([]byte, len(req.Peers))
	_, err = io.ReadFull(conn, resp)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

var _ = Describe("object sync", func() {
	var a, b *server

	BeforeEach(func() {
		a = startServer(1 << 30)
		b = startServer(1 << 30)
	})

	AfterEach(func() {
		a.close()
		b.close()
	})

	It("copies an object from peer A into B's store (scenario 2)", func() {
		id := idFrom(0xAA)
		data := []byte{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
		meta := []byte{1, 2, 3, 4}
		Expect(plasma.CreateAndSeal(context.Background(), a.store.Client, plasma.ID(id), data, meta)).To(Succeed())

		req := syncOneHop(a.addr, []proto.ID{id}, false)
		resp := sendSync(b.addr, req)
		Expect(resp).To(Equal([]byte{byte(proto.Success)}))

		ob, err := plasma.Get(context.Background(), b.store.Client, plasma.ID(id), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ob).NotTo(BeNil())
		Expect(ob.Data).To(Equal(data))
	})

	It("removes the object from the source on TAKE (scenario 3)", func() {
		id := idFrom(0xBB)
		data := []byte{3, 3, 3, 3}
		Expect(plasma.CreateAndSeal(context.Background(), a.store.Client, plasma.ID(id), data, nil)).To(Succeed())

		req := syncOneHop(a.addr, []proto.ID{id}, true)
		resp := sendSync(b.addr, req)
		Expect(resp).To(Equal([]byte{byte(proto.Success)}))

		hasA, _ := plasma.Contains(context.Background(), a.store.Client, plasma.ID(id))
		Expect(hasA).To(BeFalse())
		hasB, _ := plasma.Contains(context.Background(), b.store.Client, plasma.ID(id))
		Expect(hasB).To(BeTrue())
	})

	It("rejects a peer request whose address is the server's own (scenario 4)", func() {
		id := idFrom(0xCC)
		req := syncOneHop(b.addr, []proto.ID{id}, false)
		resp := sendSync(b.addr, req)
		Expect(resp).To(Equal([]byte{byte(proto.PeerConnectionErr)}))
	})

	It("reports already-in-store without contacting the peer (scenario 5)", func() {
		id := idFrom(0xDD)
		data := []byte{4, 4, 4, 4}
		Expect(plasma.CreateAndSeal(context.Background(), a.store.Client, plasma.ID(id), data, nil)).To(Succeed())
		Expect(plasma.CreateAndSeal(context.Background(), b.store.Client, plasma.ID(id), data, nil)).To(Succeed())

		req := syncOneHop(a.addr, []proto.ID{id}, false)
		resp := sendSync(b.addr, req)
		Expect(resp).To(Equal([]byte{byte(proto.ObAlreadyInStore)}))
	})

	It("rejects oversize object metadata without leaving a partial object (scenario 6)", func() {
		id := idFrom(0xEE)
		oversizeMeta := make([]byte, proto.MaxMetaSize+1)
		Expect(plasma.CreateAndSeal(context.Background(), a.store.Client, plasma.ID(id), []byte{1, 2, 3, 4}, oversizeMeta)).To(Succeed())

		req := syncOneHop(a.addr, []proto.ID{id}, false)
		resp := sendSync(b.addr, req)
		Expect(resp).To(Equal([]byte{byte(proto.ObMetaTooLarge)}))

		has, _ := plasma.Contains(context.Background(), b.store.Client, plasma.ID(id))
		Expect(has).To(BeFalse())
	})

	It("lets exactly one of two concurrent duplicate requests succeed (scenario 7)", func() {
		id := idFrom(0xFF)
		data := []byte{5, 5, 5, 5}
		Expect(plasma.CreateAndSeal(context.Background(), a.store.Client, plasma.ID(id), data, nil)).To(Succeed())

		req := syncOneHop(a.addr, []proto.ID{id}, false)

		type result struct{ resp []byte }
		results := make(chan result, 2)
		for i := 0; i < 2; i++ {
			go func() {
				results <- result{resp: sendSync(b.addr, req)}
			}()
		}
		r1 := <-results
		r2 := <-results

		codes := []byte{r1.resp[0], r2.resp[0]}
		successCount := 0
		for _, c := range codes {
			if proto.Code(c) == proto.Success {
				successCount++
			}
		}
		Expect(successCount).To(Equal(1))

		has, _ := plasma.Contains(context.Background(), b.store.Client, plasma.ID(id))
		Expect(has).To(BeTrue())
	})
})
