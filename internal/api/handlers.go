// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/geocrowd/internal/engine"
	"github.com/tomtom215/geocrowd/internal/logging"
	ws "github.com/tomtom215/geocrowd/internal/websocket"
)

// StatsProvider reports engine counts for the health endpoint.
type StatsProvider interface {
	Stats() engine.Stats
}

// HandlerConfig locates page assets and lists the origins allowed to open
// a websocket.
type HandlerConfig struct {
	TemplatesDir   string
	StaticDir      string
	AllowedOrigins []string
}

// Handler serves pages, health and the websocket upgrade.
type Handler struct {
	config    HandlerConfig
	stats     StatsProvider
	wsHub     *ws.Hub
	startTime time.Time
	upgrader  websocket.Upgrader
}

// NewHandler creates a Handler. hub may be nil, in which case /ws answers
// 503.
func NewHandler(config HandlerConfig, stats StatsProvider, hub *ws.Hub) *Handler {
	h := &Handler{
		config:    config,
		stats:     stats,
		wsHub:     hub,
		startTime: time.Now(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// checkWebSocketOrigin accepts origins from the allow list. "*" accepts
// anything, including clients that send no Origin header; otherwise a
// missing Origin is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" {
			return true
		}
		if origin != "" && allowed == origin {
			return true
		}
	}

	logging.Ctx(r.Context()).Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}
