// Package stats exposes operator-facing Prometheus metrics for the
// transfer engine, plus a minimal admin HTTP surface to serve them.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/plasmasync/plasmasync/proto"
)

// Metrics bundles every counter/gauge the server updates as requests flow
// through the transfer engine.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	ObjectsSent       prometheus.Counter
	ObjectsReceived   prometheus.Counter
	BytesSent         prometheus.Counter
	BytesReceived     prometheus.Counter
	ResponseCodes     *prometheus.CounterVec
	StoreCapacity     prometheus.Gauge
}

// NewMetrics registers every collector against reg (pass
// prometheus.DefaultRegisterer unless the caller wants isolation, e.g. in
// tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "plasmasync",
			Name:      "active_connections",
			Help:      "Number of currently admitted TCP connections.",
		}),
		ObjectsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "plasmasync",
			Name:      "objects_sent_total",
			Help:      "Total objects streamed out by a Sender.",
		}),
		ObjectsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "plasmasync",
			Name:      "objects_received_total",
			Help:      "Total objects inserted into the local store by a Receiver.",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "plasmasync",
			Name:      "bytes_sent_total",
			Help:      "Total object data bytes streamed out by a Sender.",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "plasmasync",
			Name:      "bytes_received_total",
			Help:      "Total object data bytes read in by a Receiver.",
		}),
		ResponseCodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plasmasync",
			Name:      "response_codes_total",
			Help:      "SYNC response codes returned to clients, by code name.",
		}, []string{"code"}),
		StoreCapacity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "plasmasync",
			Name:      "store_capacity_bytes",
			Help:      "Configured total capacity of the local Plasma store, in bytes.",
		}),
	}
}

// ObserveResponse records the per-peer response code a dispatcher task
// produced.
func (m *Metrics) ObserveResponse(code proto.Code) {
	m.ResponseCodes.WithLabelValues(code.String()).Inc()
}
