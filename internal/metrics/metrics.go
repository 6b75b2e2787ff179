// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reelnotes"

var (
	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of document store operations in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operation_errors_total",
			Help:      "Total number of failed document store operations",
		},
		[]string{"operation", "collection", "error_type"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_gc_runs_total",
			Help:      "Total number of value log garbage collection passes",
		},
		[]string{"result"}, // "rewritten", "nothing", "error"
	)

	StoreBackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_backups_total",
			Help:      "Total number of store snapshots by result",
		},
		[]string{"result"}, // "completed", "failed"
	)

	StoreBackupBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_backup_last_size_bytes",
			Help:      "Compressed size of the most recent store snapshot",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_rate_limit_hits_total",
			Help:      "Total number of requests rejected by a rate limiter",
		},
		[]string{"limiter"}, // "api", "write", "login"
	)

	// Domain Metrics
	RatingsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_submitted_total",
			Help:      "Total number of movie ratings applied",
		},
	)

	RatingConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_conflict_retries_total",
			Help:      "Total number of rating transactions retried after a write conflict",
		},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of image uploads by result",
		},
		[]string{"result"}, // "stored", "rejected_type", "too_large", "error"
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_bytes",
			Help:      "Size of stored uploads in bytes",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 10), // 16KiB .. 8MiB
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of admin login attempts by outcome",
		},
		[]string{"outcome"}, // "success", "invalid", "locked"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "app_info",
			Help:      "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// maxErrorTypeLen bounds the error_type label value.
const maxErrorTypeLen = 50

// ErrorClassifier maps an error to a short, low-cardinality label. The store
// registers one so that its sentinel errors become stable label values.
type ErrorClassifier func(err error) (string, bool)

var classifiers []ErrorClassifier

// RegisterErrorClassifier adds a classifier consulted by RecordStoreOperation.
// It is intended to be called from package init functions.
func RegisterErrorClassifier(c ErrorClassifier) {
	classifiers = append(classifiers, c)
}

// RecordStoreOperation records a document store operation metric.
func RecordStoreOperation(operation, collection string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation, collection, errorType(err)).Inc()
	}
}

func errorType(err error) string {
	for _, c := range classifiers {
		if label, ok := c(err); ok {
			return label
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	msg := err.Error()
	if len(msg) > maxErrorTypeLen {
		msg = msg[:maxErrorTypeLen]
	}
	return msg
}

// GC results.
const (
	GCRewritten = "rewritten"
	GCNothing   = "nothing"
	GCError     = "error"
)

// RecordGCRun records a value log garbage collection pass.
func RecordGCRun(result string) {
	StoreGCRuns.WithLabelValues(result).Inc()
}

// Backup results.
const (
	BackupCompleted = "completed"
	BackupFailed    = "failed"
)

// RecordBackup records a snapshot attempt. size is only recorded for
// completed snapshots.
func RecordBackup(result string, size int64) {
	StoreBackupsTotal.WithLabelValues(result).Inc()
	if result == BackupCompleted {
		StoreBackupBytes.Set(float64(size))
	}
}

// SetAppInfo publishes build information.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the named limiter.
func RecordRateLimitHit(limiter string) {
	APIRateLimitHits.WithLabelValues(limiter).Inc()
}

// RecordUpload records the outcome of an image upload. size is only observed
// for stored files.
func RecordUpload(result string, size int64) {
	UploadsTotal.WithLabelValues(result).Inc()
	if result == UploadStored {
		UploadBytes.Observe(float64(size))
	}
}

// Upload results.
const (
	UploadStored       = "stored"
	UploadRejectedType = "rejected_type"
	UploadTooLarge     = "too_large"
	UploadError        = "error"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginLocked  = "locked"
)

// RecordLogin records an admin login attempt.
func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}
