package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recentQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printmate_recent_queries_total",
			Help: "Recent-file page queries by outcome.",
		},
		[]string{"outcome"},
	)

	recentQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "printmate_recent_query_duration_seconds",
			Help:    "Latency of recent-file page queries against the store.",
			Buckets: prometheus.DefBuckets,
		},
	)

	printJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printmate_print_jobs_total",
			Help: "Print jobs submitted to the backend by outcome.",
		},
		[]string{"outcome"},
	)

	identityCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printmate_identity_cache_total",
			Help: "Session identity lookups by cache result.",
		},
		[]string{"result"},
	)
)
