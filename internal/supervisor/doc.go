// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package supervisor runs geocrowd's long-lived services under a suture v4
supervisor tree.

# Layout

	geocrowd
	├── messaging-layer
	│   └── websocket-hub
	└── api-layer
	    └── http-server

The layers restart independently. A listener that fails to bind is retried
by the api layer without tearing down live websocket sessions, and a hub
failure does not take down the health endpoint.

# Shutdown

Canceling the context passed to Serve stops both layers. The HTTP server
drains in-flight requests within its shutdown timeout, and the hub closes
every client queue and reports all departures to the engine at once.
Services that miss the tree's ShutdownTimeout show up in
UnstoppedServiceReport.

# Logging

Supervisor events (service panics, restarts, backoff) are routed through
sutureslog into the slog bridge from the logging package, so they share the
zerolog output of the rest of the process.
*/
package supervisor
