// Command plasmasyncd is the peer-to-peer object-streaming server: it
// binds a data-plane TCP listener (spec §4.7), fans SYNC/COPY/TAKE
// requests into the local Plasma store, and serves Prometheus metrics and
// a health probe on a separate admin port.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plasmasync/plasmasync/cmn"
	"github.com/plasmasync/plasmasync/cmn/cos"
	"github.com/plasmasync/plasmasync/cmn/nlog"
	"github.com/plasmasync/plasmasync/plasma"
	"github.com/plasmasync/plasmasync/stats"
	"github.com/plasmasync/plasmasync/transport"
)

var (
	build     string
	buildtime string

	configPath string
	conf       = cmn.Default()
)

func init() {
	flag.StringVar(&configPath, "config", "", "plasmasyncd JSON configuration file")
	flag.IntVar(&conf.Port, "port", conf.Port, "data-plane TCP port")
	flag.IntVar(&conf.AdminPort, "admin-port", conf.AdminPort, "admin HTTP port (/metrics, /healthz)")
	flag.Int64Var(&conf.MaxConnections, "max-connections", conf.MaxConnections, "max concurrent data-plane connections")
	flag.StringVar(&conf.PlasmaSocket, "plasma-socket", conf.PlasmaSocket, "Plasma store UNIX domain socket path")
	flag.Int64Var(&conf.PlasmaTimeout, "plasma-timeout", conf.PlasmaTimeout, "Plasma get_many timeout, ms")
	flag.IntVar(&conf.PlasmaRetries, "plasma-retries", conf.PlasmaRetries, "bounded Plasma connect retries")
	nlog.InitFlags(flag.CommandLine)
}

func logFlush() {
	for {
		time.Sleep(time.Minute)
		nlog.Flush()
	}
}

func main() {
	if len(os.Args) == 2 && os.Args[1] == "version" {
		printVer()
		os.Exit(0)
	}
	if len(os.Args) == 2 && strings.Contains(os.Args[1], "help") {
		printVer()
		flag.PrintDefaults()
		os.Exit(0)
	}
	flag.Parse()

	if err := conf.LoadFile(configPath); err != nil {
		cos.ExitLogf("failed to load configuration: %v", err)
	}
	// re-apply explicitly set flags so they take precedence over the file
	flag.Visit(func(f *flag.Flag) { _ = flag.Set(f.Name, f.Value.String()) })
	if err := conf.Validate(); err != nil {
		cos.ExitLogf("invalid configuration: %v", err)
	}

	nlog.Infof("plasmasyncd %s (build %s) starting, port=%d admin-port=%d plasma-socket=%s",
		build, buildtime, conf.Port, conf.AdminPort, conf.PlasmaSocket)
	go logFlush()

	plasmaClient, err := plasma.Dial(conf.PlasmaSocket, conf.PlasmaRetries)
	if err != nil {
		cos.ExitLogf("failed to connect to Plasma store at %q: %v", conf.PlasmaSocket, err)
	}
	defer plasmaClient.Close()

	registry := prometheus.NewRegistry()
	metrics := stats.NewMetrics(registry)

	store := transport.NewStore(plasmaClient, conf.PlasmaTimeout)
	store.Metrics = metrics

	ctx, cancel := context.WithCancel(context.Background())
	installSignalHandler(cancel)

	admin := stats.NewAdminServer(fmt.Sprintf("127.0.0.1:%d", conf.AdminPort), registry)
	go func() {
		if err := admin.ListenAndServe(); err != nil {
			nlog.Warningf("admin server stopped: %v", err)
		}
	}()

	ln := transport.NewListener(store, conf.Port, conf.MaxConnections)
	err = ln.Serve(ctx)

	_ = admin.Shutdown()
	nlog.Flush(true)
	if err != nil && ctx.Err() == nil {
		cos.ExitLogf("listener failed: %v", err)
	}
}

func installSignalHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-c
		nlog.Infof("received signal %v, shutting down", sig)
		cancel()
	}()
}

func printVer() {
	fmt.Printf("plasmasyncd version %s (build %s)\n", build, buildtime)
}
