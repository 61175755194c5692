// Package metrics provides Prometheus instrumentation for RoriForge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway metrics.
var (
	GatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roriforge_gateway_requests_total",
		Help: "Total number of chat requests handled by the gateway, by response status.",
	}, []string{"status"})

	GatewayChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roriforge_gateway_chunks_total",
		Help: "Total number of stream frames relayed to clients.",
	})

	GatewayUpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roriforge_gateway_upstream_open_seconds",
		Help:    "Time until the upstream model stream was opened.",
		Buckets: prometheus.DefBuckets,
	})
)

// Session metrics.
var (
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roriforge_turns_total",
		Help: "Total number of conversation turns, by outcome.",
	}, []string{"outcome"})

	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roriforge_directive_operations_total",
		Help: "Total number of file operations extracted from replies, by kind.",
	}, []string{"kind"})
)

// Turn outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)
