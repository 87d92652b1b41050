// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package models defines the data structures shared by the occupancy engine,
the websocket transport, and the HTTP layer.

Key Components:

  - Zone: circular geofence with a crowding threshold and derived occupancy
  - Client: per-connection session state (role, last position, connect time)
  - ZoneFields / ZonePatch / LocationPatch: typed partial updates
  - Command: tagged variant over the inbound message catalogue
  - Outbound / Snapshot: outbound wire envelopes

Wire Format:

Every websocket frame is a JSON envelope:

	{"type": "location_update", "payload": {"lat": 52.52, "lon": 13.40}}

Inbound types: login, location_update, create_zone, update_zone,
delete_zone. Outbound types: login_success, state_update.

A frame whose JSON value is a string is decoded a second time, so clients
that double-encode their messages are accepted:

	"{\"type\":\"login\",\"payload\":{\"email\":\"a@b.c\",\"password\":\"x\"}}"

Derived Fields:

Zone.Count and Zone.IsCrowded are never taken from a command payload. The
patch types simply have no such fields; the engine recomputes them before
every snapshot.
*/
package models
