/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/plasmasync/plasmasync/cmn/nlog"
)

// AdminServer exposes /metrics and /healthz on a separate port from the
// data-plane listener, so operators can scrape Prometheus and probe
// liveness without touching the object-transfer socket.
type AdminServer struct {
	addr string
	srv  *fasthttp.Server
}

// NewAdminServer wires reg's collectors into a promhttp handler, adapted
// onto fasthttp's request signature via fasthttpadaptor.
func NewAdminServer(addr string, reg *prometheus.Registry) *AdminServer {
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	router := func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/metrics":
			metricsHandler(ctx)
		case "/healthz":
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.SetBodyString("ok")
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}

	return &AdminServer{
		addr: addr,
		srv:  &fasthttp.Server{Handler: router, Name: "plasmasyncd-admin"},
	}
}

// ListenAndServe blocks until the server is shut down or fails to bind.
func (a *AdminServer) ListenAndServe() error {
	nlog.Infof("admin: serving /metrics and /healthz on %s", a.addr)
	return a.srv.ListenAndServe(a.addr)
}

// Shutdown gracefully stops the admin server, allowing in-flight scrapes
// to complete.
func (a *AdminServer) Shutdown() error {
	return a.srv.Shutdown()
}
