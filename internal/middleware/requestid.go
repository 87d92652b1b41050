// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/geocrowd/internal/logging"
)

// RequestIDHeader is the header read from upstream proxies and echoed back.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds ids accepted from clients.
const maxRequestIDLength = 128

// RequestID reuses a well-formed X-Request-ID or generates a new one, echoes
// it on the response and stores it in both the chi and logging contexts.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = logging.GenerateRequestID()
			r.Header.Set(RequestIDHeader, requestID)
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		chimiddleware.RequestID(next).ServeHTTP(w, r.WithContext(ctx))
	})
}
