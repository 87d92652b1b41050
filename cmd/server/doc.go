// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package main is the entry point for the Geocrowd server.

Geocrowd tracks how many connected users stand inside each admin-defined
circular zone and pushes role-filtered snapshots of that state to every
websocket client after each change.

# Application Architecture

	Root supervisor ("geocrowd")
	├── messaging-layer
	│   └── websocket-hub   connection registry, per-client send queues
	└── api-layer
	    └── http-server     pages, /healthz, /metrics, /ws upgrade

Initialization order:

 1. Configuration: koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog, JSON or console
 3. Authentication: bcrypt hash of the admin password, casbin role policy
 4. Hub and engine, wired to each other
 5. Chi router and http.Server
 6. Supervisor tree (suture v4)

# Configuration

	PORT=5000                      HTTP listen port
	ADMIN_EMAIL=admin@event.com    admin login
	ADMIN_PASSWORD=admin           change this
	WS_ALLOWED_ORIGINS=*           comma-separated websocket origins
	LOG_LEVEL=info                 trace, debug, info, warn, error
	LOG_FORMAT=json                json or console

See internal/config for the full list. CONFIG_PATH points at an optional
YAML file.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests, the hub closes every websocket with a going-away frame,
and any service that misses the shutdown timeout is logged by name.
*/
package main
