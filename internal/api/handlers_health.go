// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/geocrowd/internal/engine"
)

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status           string       `json:"status"`
	Uptime           float64      `json:"uptime_seconds"`
	WebSocketClients int          `json:"websocket_clients"`
	Engine           engine.Stats `json:"engine"`
}

// Health reports liveness together with the current zone and client counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if h.stats != nil {
		status.Engine = h.stats.Stats()
	}
	if h.wsHub != nil {
		status.WebSocketClients = h.wsHub.GetClientCount()
	}
	respondSuccess(w, r, status)
}
