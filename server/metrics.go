package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedhub_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedhub_sse_clients",
		Help: "The number of connected event stream clients",
	})
)
