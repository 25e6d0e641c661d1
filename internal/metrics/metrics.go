// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

// Package metrics defines the Prometheus collectors exposed on /metrics.
//
// Collectors are registered with the default registry through promauto and
// updated through the Record* helpers so call sites never touch label order.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess      = "success"
	ResultInvalid      = "invalid"
	ResultTimeout      = "timeout"
	ResultCanceled     = "canceled"
	ResultError        = "error"
	ResultHit          = "hit"
	ResultMiss         = "miss"
	ResultFound        = "found"
	ResultNotFound     = "not_found"
	ResultFailed       = "failed"
	ResultPublished    = "published"
	ResultConsumed     = "consumed"
	ResultPublishError = "publish_error"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamflix_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamflix_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Engine Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"result"},
	)

	ModelFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamflix_model_fit_duration_seconds",
			Help:    "Duration of per-request model retraining in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamflix_candidates_scored",
			Help:    "Number of catalog items scored per request",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8), // 10 .. ~164k
		},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamflix_catalog_items",
			Help: "Number of movies in the catalog",
		},
	)

	RatingsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamflix_ratings_loaded",
			Help: "Number of historical ratings loaded at startup",
		},
	)

	// Media Lookup Metrics
	MediaLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_media_lookups_total",
			Help: "Total number of poster and trailer lookups by upstream service",
		},
		[]string{"service", "result"}, // result: "found", "not_found", "failed"
	)

	MediaCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_media_cache_total",
			Help: "Media cache lookups by tier",
		},
		[]string{"tier", "result"}, // result: "hit", "miss"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_events_total",
			Help: "In-process events by topic and outcome",
		},
		[]string{"topic", "result"}, // result: "published", "consumed", "publish_error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
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

// RecordRecommendation records the outcome of one recommendation request.
// fit and scored are observed only for successful requests.
func RecordRecommendation(result string, fit time.Duration, scored int) {
	RecommendRequestsTotal.WithLabelValues(result).Inc()
	if result != ResultSuccess {
		return
	}
	ModelFitDuration.Observe(fit.Seconds())
	CandidatesScored.Observe(float64(scored))
}

// SetDatasetSize publishes catalog and rating counts.
func SetDatasetSize(items, ratings int) {
	CatalogItems.Set(float64(items))
	RatingsLoaded.Set(float64(ratings))
}

// RecordMediaLookup records an upstream poster or trailer lookup.
func RecordMediaLookup(service, result string) {
	MediaLookupsTotal.WithLabelValues(service, result).Inc()
}

// RecordMediaCache records a cache tier lookup.
func RecordMediaCache(tier string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	MediaCacheTotal.WithLabelValues(tier, result).Inc()
}

// RecordEvent records an event bus outcome.
func RecordEvent(topic, result string) {
	EventsTotal.WithLabelValues(topic, result).Inc()
}
