// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package api is the HTTP surface of Geocrowd.

It is deliberately small: the occupancy engine speaks websocket only, and
HTTP exists to hand out the browser pages and to upgrade connections.

Routes:

  - GET /         login page (templates/login.html)
  - GET /*        file from the templates dir, else the static dir
  - GET /ws       websocket upgrade, handed to the hub
  - GET /healthz  engine and hub counts as JSON
  - GET /metrics  Prometheus exposition

Middleware stack, applied in order to every route:

  - middleware.RequestID: X-Request-ID in, out and in the logging context
  - chimiddleware.RealIP and chimiddleware.Recoverer
  - go-chi/cors
  - middleware.PrometheusMetrics

Page and upgrade routes are additionally rate limited per IP with
go-chi/httprate, and page routes are gzip compressed.

Usage:

	handler := api.NewHandler(api.HandlerConfig{
	    TemplatesDir:   cfg.Server.TemplatesDir,
	    StaticDir:      cfg.Server.StaticDir,
	    AllowedOrigins: cfg.WebSocket.AllowedOrigins,
	}, eng, hub)
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))
	srv := &http.Server{Handler: router.SetupChi()}
*/
package api
