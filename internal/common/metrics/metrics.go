// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_queries_handled_total",
			Help: "Total number of queries handled, by resolved intent",
		},
		[]string{"intent"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_queries_failed_total",
			Help: "Total number of queries that produced an error envelope",
		},
		[]string{"intent", "error_code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "insight_query_duration_seconds",
			Help: "Duration of query handling in seconds",
		},
		[]string{"intent"},
	)

	ForecastSteps = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insight_forecast_steps",
			Help:    "Number of recursive prediction steps per forecast",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		},
		[]string{"country"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_forecast_cache_hits_total",
			Help: "Forecast cache lookups, by outcome",
		},
		[]string{"outcome"},
	)
)
