// Package metrics exposes the Prometheus collectors recorded by the scan
// pipeline and notifier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts completed scan cycles.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsarb_cycles_total",
		Help: "Total number of completed scan cycles",
	})

	// CycleDurationSeconds tracks scan cycle latency.
	CycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsarb_cycle_duration_seconds",
		Help:    "Duration of a full scan cycle",
		Buckets: prometheus.DefBuckets,
	})

	// FetchFailuresTotal counts platform fetches that failed for a cycle.
	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsarb_fetch_failures_total",
			Help: "Total number of failed platform fetches",
		},
		[]string{"platform", "sport"},
	)

	// RecordsDroppedTotal counts raw records the normalizer rejected.
	RecordsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsarb_records_dropped_total",
			Help: "Total number of raw records dropped during normalization",
		},
		[]string{"platform", "sport"},
	)

	// MarketsNormalized tracks the markets produced by the last cycle.
	MarketsNormalized = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sportsarb_markets_normalized",
			Help: "Markets normalized in the most recent cycle",
		},
		[]string{"platform", "sport"},
	)

	// PairsMatched tracks matched pairs in the last cycle.
	PairsMatched = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sportsarb_pairs_matched",
			Help: "Cross-platform pairs matched in the most recent cycle",
		},
		[]string{"sport"},
	)

	// OpportunitiesFound counts opportunities surfaced by cycles.
	OpportunitiesFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsarb_opportunities_found_total",
			Help: "Total number of arbitrage opportunities found",
		},
		[]string{"sport", "kind"},
	)

	// OpportunityMarginPercent tracks profit margins of surfaced opportunities.
	OpportunityMarginPercent = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsarb_opportunity_margin_percent",
		Help:    "Profit margin of surfaced opportunities in percent",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50},
	})

	// NotificationsSent counts opportunity notifications dispatched.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsarb_notifications_sent_total",
			Help: "Total number of opportunity notifications dispatched",
		},
		[]string{"result"},
	)
)
