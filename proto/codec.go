/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package proto

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
)

// ReadRequest decodes one Request from r. A clean EOF at the very first
// byte (the request-type boundary) is returned as io.EOF so the caller can
// close the connection without logging an error; any other failure is a
// *Error with ClientConnectionErr, except an unknown address family, which
// carries PeerConnectionErr.
func ReadRequest(r io.Reader) (*Request, error) {
	var typeBuf [1]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, ErrClientConnection("read request type", err)
	}

	req := &Request{Type: RequestType(typeBuf[0])}
	switch req.Type {
	case ReqSync:
		n, err := readU16(r)
		if err != nil {
			return nil, ErrClientConnection("read peer count", err)
		}
		if n == 0 {
			return nil, ErrListEmpty()
		}
		if int(n) > MaxNumSyncPeers {
			return nil, ErrListTooLong(int(n), MaxNumSyncPeers)
		}
		req.Peers = make([]PeerRequest, n)
		for i := range req.Peers {
			pr, err := readPeerRequest(r)
			if err != nil {
				return nil, err
			}
			req.Peers[i] = *pr
		}
	case ReqCopy, ReqTake:
		ids, err := readIDList(r)
		if err != nil {
			return nil, err
		}
		req.IDs = ids
	default:
		return nil, ErrInvalidRequestType(typeBuf[0])
	}
	return req, nil
}

// WriteRequest encodes req to w, the exact inverse of ReadRequest.
func WriteRequest(w io.Writer, req *Request) error {
	if err := writeByte(w, byte(req.Type)); err != nil {
		return ErrClientConnection("write request type", err)
	}
	switch req.Type {
	case ReqSync:
		if err := writeU16(w, uint16(len(req.Peers))); err != nil {
			return ErrClientConnection("write peer count", err)
		}
		for i := range req.Peers {
			if err := writePeerRequest(w, &req.Peers[i]); err != nil {
				return err
			}
		}
	case ReqCopy, ReqTake:
		if err := writeIDList(w, req.IDs); err != nil {
			return err
		}
	default:
		return ErrInvalidRequestType(byte(req.Type))
	}
	return nil
}

func readPeerRequest(r io.Reader) (*PeerRequest, error) {
	var typeBuf [1]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		return nil, ErrClientConnection("read peer request type", err)
	}
	t := RequestType(typeBuf[0])
	if t != ReqCopy && t != ReqTake {
		return nil, ErrInvalidPeerRequestType(typeBuf[0])
	}
	addr, err := readSocketAddr(r)
	if err != nil {
		return nil, err
	}
	ids, err := readIDList(r)
	if err != nil {
		return nil, err
	}
	return &PeerRequest{Type: t, From: *addr, IDs: ids}, nil
}

func writePeerRequest(w io.Writer, pr *PeerRequest) error {
	if err := writeByte(w, byte(pr.Type)); err != nil {
		return ErrClientConnection("write peer request type", err)
	}
	if err := writeSocketAddr(w, &pr.From); err != nil {
		return err
	}
	return writeIDList(w, pr.IDs)
}

const (
	familyIPv4 = 4
	familyIPv6 = 6
)

func readSocketAddr(r io.Reader) (*net.TCPAddr, error) {
	var famBuf [1]byte
	if _, err := io.ReadFull(r, famBuf[:]); err != nil {
		return nil, ErrClientConnection("read address family", err)
	}
	port, err := readU16(r)
	if err != nil {
		return nil, ErrClientConnection("read port", err)
	}
	var ip net.IP
	switch famBuf[0] {
	case familyIPv4:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, ErrClientConnection("read ipv4 address", err)
		}
		ip = net.IP(b[:])
	case familyIPv6:
		var b [16]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, ErrClientConnection("read ipv6 address", err)
		}
		ip = net.IP(b[:])
	default:
		return nil, ErrInvalidPeerAddressType(famBuf[0])
	}
	return &net.TCPAddr{IP: ip, Port: int(port)}, nil
}

func writeSocketAddr(w io.Writer, addr *net.TCPAddr) error {
	ip4 := addr.IP.To4()
	if ip4 != nil {
		if err := writeByte(w, familyIPv4); err != nil {
			return ErrClientConnection("write address family", err)
		}
		if err := writeU16(w, uint16(addr.Port)); err != nil {
			return ErrClientConnection("write port", err)
		}
		_, err := w.Write(ip4)
		if err != nil {
			return ErrClientConnection("write ipv4 address", err)
		}
		return nil
	}
	ip16 := addr.IP.To16()
	if ip16 == nil {
		return ErrInvalidPeerAddressType(0)
	}
	if err := writeByte(w, familyIPv6); err != nil {
		return ErrClientConnection("write address family", err)
	}
	if err := writeU16(w, uint16(addr.Port)); err != nil {
		return ErrClientConnection("write port", err)
	}
	if _, err := w.Write(ip16); err != nil {
		return ErrClientConnection("write ipv6 address", err)
	}
	return nil
}

func readIDList(r io.Reader) ([]ID, error) {
	n, err := readU16(r)
	if err != nil {
		return nil, ErrClientConnection("read id list length", err)
	}
	if n == 0 {
		return nil, ErrListEmpty()
	}
	if int(n) > MaxObjectIDListLen {
		return nil, ErrListTooLong(int(n), MaxObjectIDListLen)
	}
	ids := make([]ID, n)
	for i := range ids {
		if _, err := io.ReadFull(r, ids[i][:]); err != nil {
			return nil, ErrClientConnection("read object id", err)
		}
	}
	return ids, nil
}

func writeIDList(w io.Writer, ids []ID) error {
	if err := writeU16(w, uint16(len(ids))); err != nil {
		return ErrClientConnection("write id list length", err)
	}
	for i := range ids {
		if _, err := w.Write(ids[i][:]); err != nil {
			return ErrClientConnection("write object id", err)
		}
	}
	return nil
}

// ObjectHeader is the u64 header preceding each object's bytes on the
// data-plane stream: the low 16 bits hold the metadata size, the upper 48
// bits hold the data size (spec §4.2/§6).
type ObjectHeader uint64

func NewObjectHeader(metaSize, dataSize uint64) ObjectHeader {
	return ObjectHeader(metaSize | (dataSize << 16))
}

func (h ObjectHeader) MetaSize() uint64 { return uint64(h) & 0xFFFF }
func (h ObjectHeader) DataSize() uint64 { return uint64(h) >> 16 }

func ReadObjectHeader(r io.Reader) (ObjectHeader, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return ObjectHeader(binary.LittleEndian.Uint64(buf[:])), nil
}

func WriteObjectHeader(w io.Writer, h ObjectHeader) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(h))
	_, err := w.Write(buf[:])
	return err
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}
