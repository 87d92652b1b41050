// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package models

// Outbound is a message sent to a single connection.
type Outbound struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// LoginSuccess is the payload of the login_success reply.
type LoginSuccess struct {
	Role Role `json:"role"`
}

// Snapshot is the role-scoped world state carried by state_update.
// Users is always non-nil so that it encodes as {} for user-role clients.
type Snapshot struct {
	Zones map[string]Zone   `json:"zones"`
	Users map[string]Client `json:"users"`
}

// NewLoginSuccess builds the login_success reply.
func NewLoginSuccess(role Role) Outbound {
	return Outbound{Type: TypeLoginSuccess, Payload: LoginSuccess{Role: role}}
}

// NewStateUpdate wraps a snapshot in a state_update message.
func NewStateUpdate(s Snapshot) Outbound {
	return Outbound{Type: TypeStateUpdate, Payload: s}
}
