package db

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedhub_feeds",
		Help: "The number of feeds in the store",
	})

	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedhub_entries",
		Help: "The number of entries across all feeds",
	})

	entriesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedhub_entries_appended_total",
		Help: "The total number of entries appended to feeds",
	})

	entriesTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedhub_entries_truncated_total",
		Help: "The total number of entries dropped to keep feeds within the entry limit",
	})

	entriesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedhub_entries_expired_total",
		Help: "The total number of entries removed by the retention sweep",
	})

	storeSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedhub_store_saves_total",
		Help: "The total number of attempts to write the storage file",
	}, []string{"result"})

	tidyRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedhub_tidy_runs_total",
		Help: "The total number of retention sweeps run by the background loop",
	}, []string{"result"})

	tidyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedhub_tidy_duration_seconds",
		Help:    "Duration of retention sweeps",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // Start at 100µs, quadruple each bucket
	})
)
