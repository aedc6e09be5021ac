package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "findlight",
			Name:      "search_duration_seconds",
			Help:      "Search duration (traversal + matching) in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode"}, // "literal" / "regex"
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "findlight",
			Name:      "searches_total",
			Help:      "Total number of executed searches",
		},
		[]string{"mode", "status"}, // status: "ok" / "empty_query" / "bad_pattern"
	)

	MatchesFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "findlight",
			Name:      "matches_found_total",
			Help:      "Total matches produced across all searches",
		},
	)

	PatternsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "findlight",
			Name:      "patterns_rejected_total",
			Help:      "Patterns rejected by validation",
		},
	)

	MatchCapHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "findlight",
			Name:      "match_cap_hits_total",
			Help:      "Searches that stopped at the match cap",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(MatchesFoundTotal)
	prometheus.MustRegister(PatternsRejectedTotal)
	prometheus.MustRegister(MatchCapHitsTotal)
	searchMetricsRegistered = true
}
