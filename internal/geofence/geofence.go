// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

// Package geofence implements the point-in-circle test used for zone occupancy.
//
// Distances are great-circle distances on a spherical Earth computed with the
// haversine formula. Inputs are assumed to be valid degrees; range checks
// belong to the callers (see internal/validation).
package geofence

import "math"

// EarthRadiusMeters is the mean Earth radius used for all distance math.
const EarthRadiusMeters = 6371000.0

// Point is a WGS 84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Circle is a circular geofence: a center and a radius in meters.
type Circle struct {
	Center Point
	Radius float64
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// Rounding can push h just outside [0, 1] for near-antipodal pairs.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Contains reports whether p lies within the circle (boundary inclusive).
// A point equal to the center is always contained, even for a zero radius.
func (c Circle) Contains(p Point) bool {
	return Distance(p, c.Center) <= c.Radius
}

// Contains reports whether p lies within circle c.
func Contains(p Point, c Circle) bool {
	return c.Contains(p)
}
