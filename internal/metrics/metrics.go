// Package metrics provides Prometheus instrumentation for the matchmaking
// service: counters for joins and created matches, a gauge for pool size, and
// a histogram for how long candidates wait before being paired.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PoolJoinsTotal counts Join calls, labeled by whether the player asked
	// for auto matching.
	PoolJoinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warfront_pool_joins_total",
		Help: "Total number of waiting pool joins",
	}, []string{"auto_matching"})

	// MatchesCreatedTotal counts successfully created games.
	MatchesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warfront_matches_created_total",
		Help: "Total number of games created from matched candidates",
	})

	// MatchCreationFailures counts game-creation calls that failed after a
	// pair was selected. Both candidates return to waiting when this happens.
	MatchCreationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warfront_match_creation_failures_total",
		Help: "Total number of failed game creations for matched pairs",
	})

	// PoolSize tracks the current number of waiting candidates.
	PoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warfront_pool_size",
		Help: "Current number of candidates in the waiting pool",
	})

	// MatchWaitSeconds records how long the selected opponent had been
	// waiting when their game was created.
	MatchWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "warfront_match_wait_seconds",
		Help:    "Time a candidate waited before being matched",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
	})
)

func init() {
	prometheus.MustRegister(
		PoolJoinsTotal,
		MatchesCreatedTotal,
		MatchCreationFailures,
		PoolSize,
		MatchWaitSeconds,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
