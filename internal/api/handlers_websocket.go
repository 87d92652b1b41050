// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package api

import (
	"net/http"

	"github.com/tomtom215/geocrowd/internal/logging"
)

// WebSocket upgrades the request and hands the connection to the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable")
		return
	}

	// Upgrade writes its own error response.
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client, err := h.wsHub.Accept(r.Context(), conn)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket connection not accepted")
		return
	}
	logging.Ctx(r.Context()).Debug().Str("conn_id", client.ID()).Msg("WebSocket connection accepted")
}
