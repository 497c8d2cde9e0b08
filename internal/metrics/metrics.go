// Package metrics exposes Prometheus instrumentation for recommendation
// requests, the HTTP API and the loaded catalog.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursematch_recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty_query", "embed_error", "dimension_mismatch"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coursematch_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds, embedding included",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendHits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coursematch_recommend_hits",
			Help:    "Number of results returned per successful recommendation",
			Buckets: []float64{0, 1, 3, 6, 10, 25, 50, 100},
		},
	)

	// Catalog Metrics
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursematch_catalog_courses",
			Help: "Number of courses in the loaded catalog",
		},
	)

	CatalogDim = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursematch_catalog_dim",
			Help: "Embedding dimension of the loaded catalog",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursematch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursematch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursematch_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)
)

// Recommendation outcomes.
const (
	OutcomeOK                = "ok"
	OutcomeEmptyQuery        = "empty_query"
	OutcomeEmbedError        = "embed_error"
	OutcomeDimensionMismatch = "dimension_mismatch"
)

// RecordRecommend records one recommendation call.
func RecordRecommend(outcome string, duration time.Duration, hits int) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	RecommendDuration.Observe(duration.Seconds())
	RecommendHits.Observe(float64(hits))
}

// SetCatalog publishes the loaded catalog's shape.
func SetCatalog(size, dim int) {
	CatalogSize.Set(float64(size))
	CatalogDim.Set(float64(dim))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
