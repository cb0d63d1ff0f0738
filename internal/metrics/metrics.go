// Package metrics defines the Prometheus collectors for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by method, route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitmate_http_requests_total",
		Help: "HTTP requests processed, by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splitmate_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// Recomputes counts balance/settlement recomputations per trigger source.
	Recomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitmate_recomputes_total",
		Help: "Balance sheet recomputations, by trigger source.",
	}, []string{"source"})

	// StaleResultsDiscarded counts recomputation results dropped because a
	// newer snapshot already landed.
	StaleResultsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_recompute_stale_discarded_total",
		Help: "Recomputation results discarded by the latest-wins rule.",
	})

	// RecomputeDuration observes how long a full group recomputation takes.
	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitmate_recompute_duration_seconds",
		Help:    "Duration of a full balance and settlement recomputation.",
		Buckets: prometheus.DefBuckets,
	})

	// UnbalancedPlans counts settlement plans that terminated with residual
	// balances. Should stay at zero; anything else is an upstream bug.
	UnbalancedPlans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_unbalanced_plans_total",
		Help: "Settlement plans that terminated with residual nonzero balances.",
	})
)
