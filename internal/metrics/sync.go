package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncObjectsTotal counts per-object sync outcomes: pushed, pulled,
	// merged, or skipped (siv already matched).
	SyncObjectsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "objects_total",
			Help:      "Total number of objects reconciled by the sync engine, by outcome",
		},
		[]string{"outcome"},
	)

	// SyncDurationSeconds observes the wall-clock duration of a full
	// Engine.Sync call.
	SyncDurationSeconds = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of a full sync run",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	// SyncConflictsMergedTotal counts objects where both sides had
	// diverged (different SIVs) and were reconciled via history merge.
	SyncConflictsMergedTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "conflicts_merged_total",
			Help:      "Total number of objects reconciled via merge rather than a plain push or pull",
		},
	)
)

// Outcome labels for SyncObjectsTotal.
const (
	OutcomeSkipped = "skipped"
	OutcomePushed  = "pushed"
	OutcomePulled  = "pulled"
	OutcomeMerged  = "merged"
)
