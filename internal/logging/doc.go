// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

// Package logging provides the zerolog-based structured logger used across Geocrowd.
//
// A single global logger is configured once at startup from the LOG_LEVEL,
// LOG_FORMAT and LOG_CALLER settings and then shared by every package:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//
// Request-scoped loggers carry the chi request id:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
//
// Component loggers tag every line with a component field:
//
//	log := logging.WithComponent("engine")
//	log.Debug().Str("conn_id", id).Msg("Client connected")
//
// # slog bridge
//
// The supervisor tree logs through log/slog (sutureslog). NewSlogLogger
// returns an *slog.Logger whose records are written by the global zerolog
// logger so supervisor events share the same format and level.
//
// # Security audit
//
// SecurityLogger writes login and authorization outcomes with the
// "component":"auth" field. Email addresses are masked and passwords are
// never logged.
package logging
