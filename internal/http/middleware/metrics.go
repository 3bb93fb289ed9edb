// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for the bean log API. Every
// series is labelled by route template, never by raw URL, so a bean log id
// in /api/v1/logs/:id does not mint a new series per record. Requests that
// match no route share the single "unmatched" label.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit NoRoute or NoMethod.
const unmatchedRoute = "unmatched"

// headerReplayed is set by handlers that answer from a stored
// Idempotency-Key result instead of creating a new bean log.
const headerReplayed = "Idempotency-Replayed"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// Status is left out to keep the histogram small.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "HTTP requests currently being served.",
		},
	)

	// A full list of a heavy user is the largest payload the API returns.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size by method and route.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8), // 256B..4MiB
		},
		[]string{"method", "route"},
	)

	idemReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beanlog_idempotent_replays_total",
			Help: "Requests answered from a stored Idempotency-Key result.",
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, idemReplays)
}

// routeLabel returns the registered route template for c, or
// unmatchedRoute when the router found none.
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}

// Metrics records request count, latency, in-flight requests, response
// size and idempotent replays. Mount /metrics with promhttp.Handler().
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		route := routeLabel(c)
		method := c.Request.Method

		httpReqs.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, route).Observe(float64(size))
		}
		if c.Writer.Header().Get(headerReplayed) == "true" {
			idemReplays.WithLabelValues(route).Inc()
		}
	}
}
