// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/models"
)

// Transport delivers one message to one connection. Send must not block:
// a connection that cannot accept the message is reported as an error and
// skipped.
type Transport interface {
	Send(connID string, msg models.Outbound) error
}

// Authenticator maps login credentials to a role.
type Authenticator interface {
	Login(creds models.Credentials) models.Role
}

// Authorizer decides whether a role may run a command type.
type Authorizer interface {
	Allowed(role models.Role, t models.MessageType) bool
}

// Config wires an Engine to its collaborators.
type Config struct {
	Transport     Transport
	Authenticator Authenticator
	Authorizer    Authorizer

	// Audit receives login and access-denied events. Defaults to the
	// global security logger.
	Audit *logging.SecurityLogger

	// Now stamps client connect times. Defaults to time.Now.
	Now func() time.Time
}

var (
	ErrNilTransport     = errors.New("engine: transport is required")
	ErrNilAuthenticator = errors.New("engine: authenticator is required")
	ErrNilAuthorizer    = errors.New("engine: authorizer is required")
)

// Stats is a point-in-time summary for health checks.
type Stats struct {
	Zones   int `json:"zones"`
	Clients int `json:"clients"`
	Users   int `json:"users"`
	Admins  int `json:"admins"`
	Crowded int `json:"crowded"`
}

// Engine owns the zone store and the client registry. All state access goes
// through mu, which is held for the whole mutate-recompute-broadcast
// sequence.
type Engine struct {
	mu      sync.Mutex
	zones   *ZoneStore
	clients *ClientRegistry

	transport Transport
	authn     Authenticator
	authz     Authorizer
	audit     *logging.SecurityLogger
	now       func() time.Time
	log       zerolog.Logger
}

// New returns an engine with empty state.
func New(cfg Config) (*Engine, error) {
	if cfg.Transport == nil {
		return nil, ErrNilTransport
	}
	if cfg.Authenticator == nil {
		return nil, ErrNilAuthenticator
	}
	if cfg.Authorizer == nil {
		return nil, ErrNilAuthorizer
	}
	if cfg.Audit == nil {
		cfg.Audit = logging.NewSecurityLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Engine{
		zones:     NewZoneStore(),
		clients:   NewClientRegistry(),
		transport: cfg.Transport,
		authn:     cfg.Authenticator,
		authz:     cfg.Authorizer,
		audit:     cfg.Audit,
		now:       cfg.Now,
		log:       logging.WithComponent("engine"),
	}, nil
}

// Stats returns current zone and client counts.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	byRole := e.clients.CountByRole()
	s := Stats{
		Zones:   e.zones.Len(),
		Clients: e.clients.Len(),
		Users:   byRole[models.RoleUser.String()],
		Admins:  byRole[models.RoleAdmin.String()],
	}
	for _, z := range e.zones.zones {
		if z.IsCrowded {
			s.Crowded++
		}
	}
	return s
}

// Zones returns a copy of the zone store as last recomputed.
func (e *Engine) Zones() map[string]models.Zone {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zones.All()
}

// Clients returns a copy of the client registry.
func (e *Engine) Clients() map[string]models.Client {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clients.All()
}

// pipeline runs mutate, recomputes occupancy and broadcasts, all under mu.
func (e *Engine) pipeline(mutate func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mutate()
	e.broadcastLocked()
}
