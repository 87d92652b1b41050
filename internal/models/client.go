// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package models

import (
	"errors"
	"time"

	"github.com/tomtom215/geocrowd/internal/geofence"
)

// ErrIncompletePosition is returned when only one of lat/lon is present.
var ErrIncompletePosition = errors.New("position requires both lat and lon")

// Client is the session state of one connection.
type Client struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Lat         *float64  `json:"lat,omitempty"`
	Lon         *float64  `json:"lon,omitempty"`
	Accuracy    *float64  `json:"accuracy,omitempty"` // meters
	ConnectedAt time.Time `json:"connected_at"`
}

// NewClient returns the state of a freshly connected client: user role,
// no position.
func NewClient(id string, connectedAt time.Time) Client {
	return Client{
		ID:          id,
		Role:        RoleUser,
		ConnectedAt: connectedAt,
	}
}

// Position returns the client's last known position. ok is false until
// both coordinates are known.
func (c *Client) Position() (p geofence.Point, ok bool) {
	if c.Lat == nil || c.Lon == nil {
		return geofence.Point{}, false
	}
	return geofence.Point{Lat: *c.Lat, Lon: *c.Lon}, true
}

// Counted reports whether the client contributes to zone occupancy.
func (c *Client) Counted() bool {
	_, ok := c.Position()
	return c.Role == RoleUser && ok
}

// LocationPatch is the payload of location_update. Lat and Lon must be
// supplied together; a half position is rejected rather than stored.
type LocationPatch struct {
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lon      *float64 `json:"lon" validate:"required,longitude"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
}

// Complete returns ErrIncompletePosition unless both coordinates are set.
func (p LocationPatch) Complete() error {
	if p.Lat == nil || p.Lon == nil {
		return ErrIncompletePosition
	}
	return nil
}

// ApplyLocation merges the patch into c. Fields absent from the patch keep
// their previous values.
func (c *Client) ApplyLocation(p LocationPatch) {
	if p.Lat != nil {
		v := *p.Lat
		c.Lat = &v
	}
	if p.Lon != nil {
		v := *p.Lon
		c.Lon = &v
	}
	if p.Accuracy != nil {
		v := *p.Accuracy
		c.Accuracy = &v
	}
}

// Clone returns a deep copy of c so snapshots never alias registry state.
func (c *Client) Clone() Client {
	out := *c
	if c.Lat != nil {
		v := *c.Lat
		out.Lat = &v
	}
	if c.Lon != nil {
		v := *c.Lon
		out.Lon = &v
	}
	if c.Accuracy != nil {
		v := *c.Accuracy
		out.Accuracy = &v
	}
	return out
}
