// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package models

// Role is the authorization level of a connection.
type Role string

const (
	// RoleUser is the default role of every new connection. Only user-role
	// clients are counted toward zone occupancy.
	RoleUser Role = "user"

	// RoleAdmin may create, update and delete zones and sees every client.
	RoleAdmin Role = "admin"
)

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsAdmin reports whether r is the admin role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
