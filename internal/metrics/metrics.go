// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package metrics defines Prometheus instrumentation for the tracker:
// API latency and throughput, event ingestion outcomes, and store query
// performance. Metrics are exposed on GET /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Ingestion metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_ingested_total",
			Help: "Total number of events accepted and persisted",
		},
		[]string{"kind"}, // "generate", "shortlist"
	)

	EventsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_rejected_total",
			Help: "Total number of submissions rejected for an invalid event type",
		},
	)

	EventsCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_cleared_total",
			Help: "Total number of events removed by clear-all operations",
		},
	)

	// Store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of event store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "insert", "list", "count", "clear", "top"
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of event store query errors",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records API endpoint metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreQuery records query duration and any error for a store operation.
func RecordStoreQuery(operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordEventRejected counts a submission rejected for an invalid event type.
func RecordEventRejected() {
	EventsRejected.Inc()
}

// RecordEventIngested counts an accepted event by kind.
func RecordEventIngested(kind string) {
	EventsIngested.WithLabelValues(kind).Inc()
}

// RecordEventsCleared counts events removed by a clear-all.
func RecordEventsCleared(deleted int) {
	EventsCleared.Add(float64(deleted))
}
