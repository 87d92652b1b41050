// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package websocket is the transport between browsers and the occupancy engine.

It uses gorilla/websocket with a hub-and-client layout. The hub owns the set
of live connections, keyed by a uuid connection id, and gives the engine the
four things it needs from a transport:

  - a stable per-connection id (Client.ID)
  - connect and disconnect notifications (Handler.Connect, Handler.Disconnect)
  - inbound frames (Handler.HandleMessage)
  - a non-blocking "send to connection X" (Hub.Send)

Each client runs two goroutines:

  - readPump: reads frames, applies the per-connection token bucket and
    passes allowed frames to the handler
  - writePump: encodes queued messages with goccy/go-json, writes them under
    a deadline and sends keepalive pings

Send never blocks. It enqueues onto a bounded per-connection queue and fails
with ErrSendQueueFull or ErrUnknownConnection instead. Every state_update is
a full snapshot, so a dropped message is superseded by the next one.

Wiring:

	hub := websocket.NewHub(cfg)
	eng, _ := engine.New(engine.Config{Transport: hub, ...})
	hub.SetHandler(eng)
	go hub.RunWithContext(ctx)

	// in the HTTP handler, after Upgrade:
	hub.Accept(r.Context(), conn)

On shutdown the hub closes every queue and reports all ids to the handler
in a single Disconnect call.
*/
package websocket
