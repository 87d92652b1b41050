// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"time"

	"github.com/tomtom215/geocrowd/internal/models"
)

// ClientRegistry maps connection id to session state. Like ZoneStore it
// relies on the engine for serialization.
//
// The mutable fields of a registered client are its role and its location
// (lat, lon, accuracy). Id and connect time never change.
type ClientRegistry struct {
	clients map[string]*models.Client
}

// NewClientRegistry returns an empty registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[string]*models.Client)}
}

// Register adds a client with the default role. Registering an id that is
// already present keeps the existing session.
func (r *ClientRegistry) Register(id string, connectedAt time.Time) {
	if _, ok := r.clients[id]; ok {
		return
	}
	c := models.NewClient(id, connectedAt)
	r.clients[id] = &c
}

// SetRole replaces the role of a registered client. Unknown ids are a no-op
// reported as false.
func (r *ClientRegistry) SetRole(id string, role models.Role) bool {
	c, ok := r.clients[id]
	if !ok {
		return false
	}
	c.Role = role
	return true
}

// MergeLocation applies a location patch, last write wins per field.
// Unknown ids are a no-op reported as false.
func (r *ClientRegistry) MergeLocation(id string, p models.LocationPatch) bool {
	c, ok := r.clients[id]
	if !ok {
		return false
	}
	c.ApplyLocation(p)
	return true
}

// Remove deletes a client. It reports whether the id was registered.
func (r *ClientRegistry) Remove(id string) bool {
	if _, ok := r.clients[id]; !ok {
		return false
	}
	delete(r.clients, id)
	return true
}

// Get returns a deep copy of one client.
func (r *ClientRegistry) Get(id string) (models.Client, bool) {
	c, ok := r.clients[id]
	if !ok {
		return models.Client{}, false
	}
	return c.Clone(), true
}

// All returns deep copies of every client keyed by id.
func (r *ClientRegistry) All() map[string]models.Client {
	out := make(map[string]models.Client, len(r.clients))
	for id, c := range r.clients {
		out[id] = c.Clone()
	}
	return out
}

// Len returns the number of registered clients.
func (r *ClientRegistry) Len() int {
	return len(r.clients)
}

// CountByRole returns the number of clients per role. Both roles are always
// present so gauges drop to zero.
func (r *ClientRegistry) CountByRole() map[string]int {
	out := map[string]int{
		models.RoleUser.String():  0,
		models.RoleAdmin.String(): 0,
	}
	for _, c := range r.clients {
		out[c.Role.String()]++
	}
	return out
}
