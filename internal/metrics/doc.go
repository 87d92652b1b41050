// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

/*
Package metrics defines the Prometheus collectors exported on /metrics.

All collectors are registered on the default registry through promauto at
package init, so importing the package is enough to expose them.

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

WebSocket transport:
  - websocket_connections
  - websocket_messages_received_total{type}
  - websocket_messages_dropped_total{reason}: malformed, unhandled_type, rate_limited
  - websocket_messages_sent_total
  - websocket_send_failures_total{reason}: queue_full, unknown_connection, write_failed

Occupancy engine:
  - geocrowd_commands_rejected_total{command,reason}: unauthorized, invalid_payload, unknown_zone
  - geocrowd_logins_total{role}
  - geocrowd_broadcasts_total
  - geocrowd_broadcast_duration_seconds
  - geocrowd_zones
  - geocrowd_clients{role}
  - geocrowd_zone_occupancy{zone}
  - geocrowd_zone_crowded{zone}

Per-zone series are removed when the zone is deleted so the label set
tracks the live zone store.
*/
package metrics
