// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/tomtom215/geocrowd/internal/config"
	"github.com/tomtom215/geocrowd/internal/logging"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Logging still has its defaults here.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("admin", logging.SanitizeEmail(cfg.Admin.Email)).
		Strs("allowed_origins", cfg.WebSocket.AllowedOrigins).
		Msg("Starting Geocrowd")
	warnInsecureDefaults(cfg)

	app, err := newApplication(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}

	tree, err := app.supervise(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Geocrowd stopped")
}
