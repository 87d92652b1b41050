// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons used as label values.
const (
	ReasonMalformed         = "malformed"
	ReasonUnhandledType     = "unhandled_type"
	ReasonRateLimited       = "rate_limited"
	ReasonQueueFull         = "queue_full"
	ReasonUnknownConnection = "unknown_connection"
	ReasonWriteFailed       = "write_failed"
	ReasonUnauthorized      = "unauthorized"
	ReasonInvalidPayload    = "invalid_payload"
	ReasonUnknownZone       = "unknown_zone"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of open WebSocket connections",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of inbound WebSocket messages by command type",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of inbound WebSocket messages dropped without effect",
		},
		[]string{"reason"},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages written",
		},
	)

	WSSendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_send_failures_total",
			Help: "Total number of outbound WebSocket messages that could not be delivered",
		},
		[]string{"reason"},
	)

	// Engine Metrics
	CommandsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocrowd_commands_rejected_total",
			Help: "Total number of recognised commands that mutated nothing",
		},
		[]string{"command", "reason"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocrowd_logins_total",
			Help: "Total number of logins by granted role",
		},
		[]string{"role"},
	)

	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocrowd_broadcasts_total",
			Help: "Total number of state broadcasts",
		},
	)

	BroadcastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocrowd_broadcast_duration_seconds",
			Help:    "Time to recompute occupancy and enqueue a snapshot for every client",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	ZonesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocrowd_zones",
			Help: "Current number of zones",
		},
	)

	ClientsByRole = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geocrowd_clients",
			Help: "Current number of connected clients by role",
		},
		[]string{"role"},
	)

	ZoneOccupancy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geocrowd_zone_occupancy",
			Help: "Number of located user-role clients inside each zone",
		},
		[]string{"zone"},
	)

	ZoneCrowded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geocrowd_zone_crowded",
			Help: "1 when a zone's occupancy exceeds its threshold, else 0",
		},
		[]string{"zone"},
	)
)

// RecordAPIRequest records an HTTP request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight HTTP requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMessageReceived counts an inbound frame that parsed as a command.
func RecordMessageReceived(msgType string) {
	WSMessagesReceived.WithLabelValues(msgType).Inc()
}

// RecordMessageDropped counts an inbound frame that had no effect.
func RecordMessageDropped(reason string) {
	WSMessagesDropped.WithLabelValues(reason).Inc()
}

// RecordSendFailure counts an outbound message that was not delivered.
func RecordSendFailure(reason string) {
	WSSendFailures.WithLabelValues(reason).Inc()
}

// RecordCommandRejected counts a command that became a no-op.
func RecordCommandRejected(command, reason string) {
	CommandsRejected.WithLabelValues(command, reason).Inc()
}

// RecordLogin counts a login by granted role.
func RecordLogin(role string) {
	LoginsTotal.WithLabelValues(role).Inc()
}

// RecordBroadcast records one broadcast pass.
func RecordBroadcast(duration time.Duration) {
	BroadcastsTotal.Inc()
	BroadcastDuration.Observe(duration.Seconds())
}

// SetZoneOccupancy publishes a zone's latest count and crowded flag.
func SetZoneOccupancy(zoneID string, count int, crowded bool) {
	ZoneOccupancy.WithLabelValues(zoneID).Set(float64(count))
	v := 0.0
	if crowded {
		v = 1
	}
	ZoneCrowded.WithLabelValues(zoneID).Set(v)
}

// DeleteZone drops the per-zone series of a deleted zone.
func DeleteZone(zoneID string) {
	ZoneOccupancy.DeleteLabelValues(zoneID)
	ZoneCrowded.DeleteLabelValues(zoneID)
}

// SetPopulation publishes zone and client totals.
func SetPopulation(zones int, clientsByRole map[string]int) {
	ZonesTotal.Set(float64(zones))
	for role, n := range clientsByRole {
		ClientsByRole.WithLabelValues(role).Set(float64(n))
	}
}
