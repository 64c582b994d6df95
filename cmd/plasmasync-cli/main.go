// Command plasmasync-cli is a line-oriented client for plasmasyncd's SYNC
// operation (spec §6). Each stdin line is:
//
//	COPY|TAKE <peer-address> <hex-id> [<hex-id> ...]
//
// and issues one SYNC request, with a single PeerRequest, against the
// server named on the command line.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/plasmasync/plasmasync/client"
	"github.com/plasmasync/plasmasync/plasma"
	"github.com/plasmasync/plasmasync/proto"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <server-address>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "reads lines of \"COPY|TAKE <peer-address> <hex-id>...\" from stdin\n")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	serverAddr := flag.Arg(0)

	ctx := context.Background()
	c, err := client.Dial(ctx, serverAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to %s: %v\n", serverAddr, err)
		os.Exit(1)
	}
	defer c.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		code, err := runLine(c, line)
		if err != nil {
			fmt.Printf("ERROR %v\n", err)
			continue
		}
		fmt.Println(code.String())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "reading stdin: %v\n", err)
		os.Exit(1)
	}
}

func runLine(c *client.Client, line string) (proto.Code, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, fmt.Errorf("expected \"COPY|TAKE <address> <hex-id>...\", got %q", line)
	}

	var reqType proto.RequestType
	switch strings.ToUpper(fields[0]) {
	case "COPY":
		reqType = proto.ReqCopy
	case "TAKE":
		reqType = proto.ReqTake
	default:
		return 0, fmt.Errorf("unknown operation %q, want COPY or TAKE", fields[0])
	}

	peerAddr, err := net.ResolveTCPAddr("tcp", fields[1])
	if err != nil {
		return 0, fmt.Errorf("peer address %q: %w", fields[1], err)
	}

	ids := make([]proto.ID, 0, len(fields)-2)
	for _, hexID := range fields[2:] {
		id, err := plasma.IDFromHex(hexID)
		if err != nil {
			return 0, fmt.Errorf("object id %q: %w", hexID, err)
		}
		ids = append(ids, proto.ID(id))
	}

	return c.SyncOne(reqType, peerAddr, ids)
}
