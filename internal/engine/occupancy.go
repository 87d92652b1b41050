// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"github.com/tomtom215/geocrowd/internal/geofence"
)

// Recompute rebuilds every zone's Count and IsCrowded from scratch.
//
// Only user-role clients with a known position are counted; admins and
// clients that have not reported a location never contribute. There is no
// membership cache, so the result depends only on the current contents of
// zones and clients. Cost is O(zones x clients).
func Recompute(zones *ZoneStore, clients *ClientRegistry) {
	circles := make(map[string]geofence.Circle, len(zones.zones))
	for id, z := range zones.zones {
		z.Count = 0
		circles[id] = z.Circle()
	}

	for _, c := range clients.clients {
		if !c.Counted() {
			continue
		}
		p, _ := c.Position()
		for id, circle := range circles {
			if circle.Contains(p) {
				zones.zones[id].Count++
			}
		}
	}

	for _, z := range zones.zones {
		z.IsCrowded = z.Count > z.Threshold
	}
}
