// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package config loads and validates Geocrowd configuration.

Configuration is layered with koanf v2, later layers overriding earlier ones:

 1. Defaults from defaultConfig (structs provider)
 2. An optional YAML file: CONFIG_PATH, else config.yaml / config.yml in the
    working directory, else /etc/geocrowd/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc. Unmapped
    variables are ignored.

# Environment Variables

Server:
  - HOST: bind address (default: 0.0.0.0)
  - PORT: listen port (default: 5000)
  - TEMPLATES_DIR: page templates, including login.html (default: templates)
  - STATIC_DIR: static assets (default: static)
  - HTTP_READ_TIMEOUT: request header read timeout (default: 15s)
  - HTTP_SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 10s)

Admin credential:
  - ADMIN_EMAIL (default: admin@event.com)
  - ADMIN_PASSWORD (default: admin)
  - ADMIN_BCRYPT_COST: cost used to hash the password at startup (default: 10)

WebSocket:
  - WS_ALLOWED_ORIGINS: comma-separated origins, "*" for any (default: *)
  - WS_SEND_QUEUE_SIZE: outbound messages buffered per connection (default: 64)
  - WS_WRITE_TIMEOUT: per-write deadline (default: 10s)
  - WS_MAX_MESSAGE_SIZE: largest inbound frame in bytes (default: 65536)
  - WS_MESSAGE_RATE / WS_MESSAGE_BURST: inbound token bucket (default: 20/s, 40)

HTTP rate limiting:
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW (default: 300 per 1m)
  - DISABLE_RATE_LIMIT (default: false)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER (default: info, json, false)

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}
*/
package config
