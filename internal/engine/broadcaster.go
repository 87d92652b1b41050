// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"time"

	"github.com/tomtom215/geocrowd/internal/metrics"
	"github.com/tomtom215/geocrowd/internal/models"
)

// SnapshotFor builds the view of state a role is allowed to see. Admins get
// every zone and every client; users get every zone and an empty client map.
//
// The returned maps are fresh copies and are never mutated afterwards, so
// one snapshot may be shared by any number of recipients.
func SnapshotFor(role models.Role, zones *ZoneStore, clients *ClientRegistry) models.Snapshot {
	s := models.Snapshot{
		Zones: zones.All(),
		Users: map[string]models.Client{},
	}
	if role.IsAdmin() {
		s.Users = clients.All()
	}
	return s
}

// broadcastLocked recomputes occupancy once and sends every registered
// client its role's snapshot. A failed send is logged and skipped. Callers
// must hold e.mu.
func (e *Engine) broadcastLocked() {
	start := time.Now()

	Recompute(e.zones, e.clients)
	e.publishGaugesLocked()

	// Snapshots are built lazily, at most once per role.
	var userMsg, adminMsg *models.Outbound
	for id, c := range e.clients.clients {
		var msg *models.Outbound
		if c.Role.IsAdmin() {
			if adminMsg == nil {
				m := models.NewStateUpdate(SnapshotFor(models.RoleAdmin, e.zones, e.clients))
				adminMsg = &m
			}
			msg = adminMsg
		} else {
			if userMsg == nil {
				m := models.NewStateUpdate(SnapshotFor(models.RoleUser, e.zones, e.clients))
				userMsg = &m
			}
			msg = userMsg
		}
		e.sendLocked(id, *msg)
	}

	metrics.RecordBroadcast(time.Since(start))
}

// sendLocked delivers one message and isolates its failure.
func (e *Engine) sendLocked(connID string, msg models.Outbound) {
	if err := e.transport.Send(connID, msg); err != nil {
		e.log.Warn().Err(err).
			Str("conn_id", connID).
			Str("type", string(msg.Type)).
			Msg("Send to connection failed")
	}
}

func (e *Engine) publishGaugesLocked() {
	for id, z := range e.zones.zones {
		metrics.SetZoneOccupancy(id, z.Count, z.IsCrowded)
	}
	metrics.SetPopulation(e.zones.Len(), e.clients.CountByRole())
}
