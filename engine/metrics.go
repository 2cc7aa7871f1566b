package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesBuffered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_buffered_total",
			Help: "Audit entries buffered, labeled by event kind.",
		},
		[]string{"event"},
	)

	recordFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_record_failures_total",
			Help: "RecordEvent calls aborted by a fault, labeled by event kind.",
		},
		[]string{"event"},
	)

	flushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_flushes_total",
			Help: "Flush attempts, labeled by outcome (ok, empty, error).",
		},
		[]string{"outcome"},
	)

	flushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "audit_flush_duration_seconds",
			Help:    "Duration of sink appends during flush.",
			Buckets: prometheus.DefBuckets,
		},
	)
)
