// Package metrics exposes the prometheus counters and histograms the sync
// engine reports against, following the teacher's internal/metrics
// per-concern file layout (one file per subsystem) and its
// promauto.With(Registry) construction style.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ironvault"

// Registry is the prometheus registry every metric in this package is
// registered against, so a host application can expose it on its own
// /metrics endpoint without pulling in the global default registry.
var Registry = prometheus.NewRegistry()
