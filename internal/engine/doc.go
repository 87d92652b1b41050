// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package engine implements the occupancy engine: the in-memory zone store and
client registry, occupancy recomputation, role-scoped snapshots and the
command dispatcher that ties them together.

# Pipeline

Every connection event and every recognised command runs the same pipeline
while holding the engine mutex:

	mutate (possibly a no-op) -> Recompute -> broadcast to every client

Holding one lock across all three steps means no snapshot is ever built
from counts that disagree with the registry. Commands that change nothing
(unknown zone id, rejected payload, insufficient role) still broadcast, so
a refused admin command looks exactly like a valid no-op to the sender.

Frames that do not decode, and envelope types outside the command set, are
dropped before the pipeline and never broadcast.

# Collaborators

The engine never touches sockets. It receives connect, disconnect and
message events through Connect, Disconnect and HandleMessage and delivers
output through a Transport whose Send must not block. Credentials are
checked by an Authenticator and commands are gated by an Authorizer; in
production these are auth.Authenticator and auth.Enforcer.

# Lock order

The engine calls Transport.Send while holding its own mutex. Transports must
therefore never call back into the engine while holding a lock that Send
also takes.
*/
package engine
