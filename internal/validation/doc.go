// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

// Package validation provides struct validation using go-playground/validator v10.
//
// The engine validates every mutating payload before it touches the zone
// store or the client registry. The rules live as struct tags on the
// payload types in internal/models:
//
//	type LocationPatch struct {
//	    Lat      *float64 `json:"lat" validate:"required,latitude"`
//	    Lon      *float64 `json:"lon" validate:"required,longitude"`
//	    Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
//	}
//
//	if err := validation.ValidateStruct(&patch); err != nil {
//	    logging.Warn().Str("reason", err.Error()).Msg("location update rejected")
//	    return
//	}
//
// Field names in error messages are taken from the json tag, so messages
// read in terms of the wire format ("lat is required").
//
// # Thread Safety
//
// GetValidator returns a process-wide singleton. validator.Validate is safe
// for concurrent use and caches struct metadata after the first call.
package validation
