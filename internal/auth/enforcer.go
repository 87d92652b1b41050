// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package auth

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// permission is the casbin (object, action) pair a command needs.
type permission struct {
	object string
	action string
}

var commandPermissions = map[models.MessageType]permission{
	models.TypeLogin:          {"session", "login"},
	models.TypeLocationUpdate: {"location", "update"},
	models.TypeCreateZone:     {"zone", "create"},
	models.TypeUpdateZone:     {"zone", "update"},
	models.TypeDeleteZone:     {"zone", "delete"},
}

// Enforcer answers whether a role may run a command.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// loadPolicy adds the p and g lines of a policy CSV.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Allowed reports whether role may run commands of type t. Unknown command
// types and enforcement errors deny.
func (e *Enforcer) Allowed(role models.Role, t models.MessageType) bool {
	perm, ok := commandPermissions[t]
	if !ok {
		return false
	}

	allowed, err := e.enforcer.Enforce(role.String(), perm.object, perm.action)
	if err != nil {
		logging.Err(err).
			Str("role", role.String()).
			Str("command", string(t)).
			Msg("Authorization check failed")
		return false
	}
	return allowed
}
