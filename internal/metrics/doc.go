// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

/*
Package metrics provides Prometheus metrics for Reelnotes.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

Store:
  - reelnotes_store_operation_duration_seconds{operation, collection}
  - reelnotes_store_operation_errors_total{operation, collection, error_type}
  - reelnotes_store_gc_runs_total{result}

API:
  - reelnotes_api_requests_total{method, endpoint, status_code}
  - reelnotes_api_request_duration_seconds{method, endpoint}
  - reelnotes_api_active_requests
  - reelnotes_api_rate_limit_hits_total{limiter}

Domain:
  - reelnotes_ratings_submitted_total
  - reelnotes_rating_conflict_retries_total
  - reelnotes_uploads_total{result}
  - reelnotes_upload_bytes
  - reelnotes_login_attempts_total{outcome}
  - reelnotes_cache_hits_total / reelnotes_cache_misses_total{cache}

Endpoint labels use the chi route pattern (for example /api/movies/{id}) so
that label cardinality stays bounded.
*/
package metrics
