// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package services adapts geocrowd's long-running components to suture's
context-aware Serve pattern.

HTTPServerService turns the blocking ListenAndServe/Shutdown pair of an
*http.Server into a Serve method that drains connections when its context
is canceled. WebSocketHubService delegates to (*websocket.Hub).RunWithContext.

Both implement fmt.Stringer so supervisor events name them:

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))
*/
package services
