// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

/*
Package middleware provides the HTTP middleware shared by every Reelnotes route.

Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the logging context
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: request counter, latency histogram and in-flight gauge
  - SecurityHeaders: nosniff, frame denial, referrer policy and HSTS behind TLS

The chi router composes them with chi's RealIP, Recoverer and Compress:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests by chi route pattern (for example
"/api/movies/{id}") so that ids never become label values.
*/
package middleware
