// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package main

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/geocrowd/internal/api"
	"github.com/tomtom215/geocrowd/internal/auth"
	"github.com/tomtom215/geocrowd/internal/config"
	"github.com/tomtom215/geocrowd/internal/engine"
	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/supervisor"
	"github.com/tomtom215/geocrowd/internal/supervisor/services"
	ws "github.com/tomtom215/geocrowd/internal/websocket"
)

// application holds the wired components of a running server.
type application struct {
	hub    *ws.Hub
	engine *engine.Engine
	server *http.Server
}

// newApplication builds the engine, hub and HTTP server from cfg.
// The hub and engine reference each other: the engine sends through the
// hub, and the hub reports connection events to the engine.
func newApplication(cfg *config.Config) (*application, error) {
	authn, err := auth.NewAuthenticator(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}
	authz, err := auth.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authorization: %w", err)
	}

	wsCfg := ws.DefaultConfig()
	wsCfg.SendQueueSize = cfg.WebSocket.SendQueueSize
	wsCfg.WriteTimeout = cfg.WebSocket.WriteTimeout
	wsCfg.MaxMessageSize = cfg.WebSocket.MaxMessageSize
	wsCfg.MessageRate = cfg.WebSocket.MessageRate
	wsCfg.MessageBurst = cfg.WebSocket.MessageBurst
	hub := ws.NewHub(wsCfg)

	eng, err := engine.New(engine.Config{
		Transport:     hub,
		Authenticator: authn,
		Authorizer:    authz,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	hub.SetHandler(eng)

	handler := api.NewHandler(api.HandlerConfig{
		TemplatesDir:   cfg.Server.TemplatesDir,
		StaticDir:      cfg.Server.StaticDir,
		AllowedOrigins: cfg.WebSocket.AllowedOrigins,
	}, eng, hub)

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.WebSocket.AllowedOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg))

	// No WriteTimeout: it would apply to hijacked websocket connections.
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		IdleTimeout:       2 * cfg.Server.ReadTimeout,
	}

	return &application{hub: hub, engine: eng, server: server}, nil
}

// supervise registers the hub and HTTP server with a new supervisor tree.
func (a *application) supervise(cfg *config.Config) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, err
	}

	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.server.Addr, cfg.Server.ShutdownTimeout))
	return tree, nil
}

// warnInsecureDefaults logs configuration that is fine for a local event
// laptop and dangerous anywhere else.
func warnInsecureDefaults(cfg *config.Config) {
	if cfg.Admin.Password == "admin" {
		logging.Warn().Msg("ADMIN_PASSWORD is the built-in default; set it before exposing the server")
	}
	if cfg.HasWildcardOrigin() {
		logging.Warn().Msg("WS_ALLOWED_ORIGINS=* accepts websocket connections from any website")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
}
