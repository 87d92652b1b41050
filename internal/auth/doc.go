// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

// Package auth decides who a connection is and what it may do.
//
// Authenticator maps submitted login credentials to a role. Exactly one
// email/password pair, taken from configuration, grants the admin role;
// anything else, including empty credentials, grants the user role. There
// is no rejection path: every login succeeds with some role.
//
// Enforcer is a casbin policy that maps (role, command) to allow or deny.
// The embedded policy lets every role log in and report its location and
// reserves zone creation, update and deletion for admins.
package auth
