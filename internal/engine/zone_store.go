// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"github.com/google/uuid"

	"github.com/tomtom215/geocrowd/internal/models"
)

// ZoneStore maps zone id to zone. It is not safe for concurrent use; the
// engine serializes access.
type ZoneStore struct {
	zones map[string]*models.Zone
	newID func() string
}

// NewZoneStore returns an empty store that assigns random UUIDs.
func NewZoneStore() *ZoneStore {
	return newZoneStore(uuid.NewString)
}

func newZoneStore(newID func() string) *ZoneStore {
	return &ZoneStore{
		zones: make(map[string]*models.Zone),
		newID: newID,
	}
}

// Create stores a new zone and returns its fresh id. It always succeeds.
func (s *ZoneStore) Create(f models.ZoneFields) string {
	id := s.newID()
	for _, taken := s.zones[id]; taken; _, taken = s.zones[id] {
		id = s.newID()
	}
	z := models.NewZone(id, f)
	s.zones[id] = &z
	return id
}

// Update merges p into the zone it names. It reports false for an unknown id.
func (s *ZoneStore) Update(p models.ZonePatch) bool {
	z, ok := s.zones[p.ID]
	if !ok {
		return false
	}
	z.Apply(p)
	return true
}

// Delete removes a zone. It reports false for an unknown id.
func (s *ZoneStore) Delete(id string) bool {
	if _, ok := s.zones[id]; !ok {
		return false
	}
	delete(s.zones, id)
	return true
}

// Get returns a copy of one zone.
func (s *ZoneStore) Get(id string) (models.Zone, bool) {
	z, ok := s.zones[id]
	if !ok {
		return models.Zone{}, false
	}
	return *z, true
}

// All returns a copy of every zone keyed by id.
func (s *ZoneStore) All() map[string]models.Zone {
	out := make(map[string]models.Zone, len(s.zones))
	for id, z := range s.zones {
		out[id] = *z
	}
	return out
}

// Len returns the number of zones.
func (s *ZoneStore) Len() int {
	return len(s.zones)
}
