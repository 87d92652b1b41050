// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package models

import "github.com/tomtom215/geocrowd/internal/geofence"

// Zone is a circular geofence with a crowding threshold.
//
// Count and IsCrowded are derived: they are written only by occupancy
// recomputation and always reflect the client registry at snapshot time.
type Zone struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Radius    float64 `json:"radius"`    // meters
	Threshold int     `json:"threshold"` // crowded when Count > Threshold
	Count     int     `json:"count"`
	IsCrowded bool    `json:"is_crowded"`
}

// Circle returns the zone geometry.
func (z *Zone) Circle() geofence.Circle {
	return geofence.Circle{
		Center: geofence.Point{Lat: z.Lat, Lon: z.Lon},
		Radius: z.Radius,
	}
}

// ZoneFields is the payload of create_zone.
//
// Geometry is mandatory: a zone without a center or radius could never be
// matched, so such creations are rejected instead of stored.
type ZoneFields struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=128"`
	Lat       *float64 `json:"lat" validate:"required,latitude"`
	Lon       *float64 `json:"lon" validate:"required,longitude"`
	Radius    *float64 `json:"radius" validate:"required,gte=0"`
	Threshold *int     `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}

// NewZone builds a zone from validated creation fields. The derived fields
// start at zero and Threshold defaults to 0 when absent.
func NewZone(id string, f ZoneFields) Zone {
	z := Zone{ID: id}
	z.merge(f.Name, f.Lat, f.Lon, f.Radius, f.Threshold)
	return z
}

// ZonePatch is the payload of update_zone. Only non-nil fields are applied;
// ID selects the zone and is never overwritten.
type ZonePatch struct {
	ID        string   `json:"id" validate:"required"`
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=128"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon       *float64 `json:"lon,omitempty" validate:"omitempty,longitude"`
	Radius    *float64 `json:"radius,omitempty" validate:"omitempty,gte=0"`
	Threshold *int     `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}

// Apply merges the patch into z field by field, last write wins.
func (z *Zone) Apply(p ZonePatch) {
	z.merge(p.Name, p.Lat, p.Lon, p.Radius, p.Threshold)
}

func (z *Zone) merge(name *string, lat, lon, radius *float64, threshold *int) {
	if name != nil {
		z.Name = *name
	}
	if lat != nil {
		z.Lat = *lat
	}
	if lon != nil {
		z.Lon = *lon
	}
	if radius != nil {
		z.Radius = *radius
	}
	if threshold != nil {
		z.Threshold = *threshold
	}
}
