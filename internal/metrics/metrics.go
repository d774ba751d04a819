// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics provides observability for searches and index loads.
type Metrics struct {
	// Search requests by index and outcome
	SearchRequests *prometheus.CounterVec

	// Search latency by index, engine round trip included
	SearchLatency *prometheus.HistogramVec

	// Hits returned per page by index
	SearchHits *prometheus.HistogramVec

	// Bulk items by index, operation and result
	BulkItems *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctions_search_requests_total",
			Help: "Total search requests by index and outcome",
		}, []string{"index", "outcome"}),

		SearchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanctions_search_duration_seconds",
			Help:    "Duration of search requests by index",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"index"}),

		SearchHits: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanctions_search_hits",
			Help:    "Number of hits returned per search page",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}, []string{"index"}),

		BulkItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctions_bulk_items_total",
			Help: "Bulk items by index, operation and result",
		}, []string{"index", "op", "result"}),
	}
}

// ObserveSearch records one search request.
func (m *Metrics) ObserveSearch(index, outcome string, d time.Duration, hits int) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(index, outcome).Inc()
	m.SearchLatency.WithLabelValues(index).Observe(d.Seconds())
	if outcome == OutcomeOK {
		m.SearchHits.WithLabelValues(index).Observe(float64(hits))
	}
}

// ObserveBulk records the items of one bulk call.
func (m *Metrics) ObserveBulk(index, op string, indexed, failed int) {
	if m == nil {
		return
	}
	m.BulkItems.WithLabelValues(index, op, "indexed").Add(float64(indexed))
	m.BulkItems.WithLabelValues(index, op, "failed").Add(float64(failed))
}
