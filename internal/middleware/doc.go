// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package middleware provides chi-compatible HTTP middleware.

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    logging context so logging.Ctx(r.Context()) tags every line.
  - PrometheusMetrics: records api_requests_total and
    api_request_duration_seconds labelled by the matched chi route pattern,
    so static file paths do not explode label cardinality.

Both wrap the response writer with chi's WrapResponseWriter, which keeps
http.Hijacker available for the WebSocket upgrade on /ws.

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
