// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"errors"
	"fmt"

	"github.com/tomtom215/geocrowd/internal/metrics"
	"github.com/tomtom215/geocrowd/internal/models"
	"github.com/tomtom215/geocrowd/internal/validation"
)

// Errors returned by HandleMessage and Dispatch. They exist for the
// caller's logging and metrics; nothing is ever sent back to the client.
var (
	ErrUnknownMessageType = errors.New("unhandled message type")
	ErrUnauthorized       = errors.New("command not permitted for role")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrUnknownZone        = errors.New("unknown zone")
	ErrUnknownClient      = errors.New("unknown client")
)

// Connect registers a new connection with the user role. It does not
// broadcast.
func (e *Engine) Connect(connID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clients.Register(connID, e.now())
	metrics.SetPopulation(e.zones.Len(), e.clients.CountByRole())
	e.log.Debug().Str("conn_id", connID).Msg("Client connected")
}

// Disconnect removes the given connections and broadcasts once so remaining
// clients see the updated counts. Removed clients are absent from that
// broadcast.
func (e *Engine) Disconnect(connIDs ...string) {
	if len(connIDs) == 0 {
		return
	}
	e.pipeline(func() {
		for _, id := range connIDs {
			if e.clients.Remove(id) {
				e.log.Debug().Str("conn_id", id).Msg("Client disconnected")
			}
		}
	})
}

// HandleMessage decodes one inbound frame and dispatches it. Malformed frames
// are dropped without a broadcast.
func (e *Engine) HandleMessage(connID string, data []byte) error {
	cmd, err := models.ParseCommand(data)
	if err != nil {
		metrics.RecordMessageDropped(metrics.ReasonMalformed)
		e.log.Warn().Err(err).
			Str("conn_id", connID).
			Int("bytes", len(data)).
			Msg("Dropping malformed message")
		return err
	}
	return e.Dispatch(connID, cmd)
}

// Dispatch runs a decoded command through the pipeline. Unknown command
// types are logged and dropped without a broadcast.
func (e *Engine) Dispatch(connID string, cmd models.Command) error {
	switch c := cmd.(type) {
	case models.Login:
		metrics.RecordMessageReceived(string(models.TypeLogin))
		return e.login(connID, c)
	case models.LocationUpdate:
		metrics.RecordMessageReceived(string(models.TypeLocationUpdate))
		return e.run(connID, c, func() error { return e.updateLocationLocked(connID, c) })
	case models.CreateZone:
		metrics.RecordMessageReceived(string(models.TypeCreateZone))
		return e.run(connID, c, func() error { return e.createZoneLocked(c) })
	case models.UpdateZone:
		metrics.RecordMessageReceived(string(models.TypeUpdateZone))
		return e.run(connID, c, func() error { return e.updateZoneLocked(c) })
	case models.DeleteZone:
		metrics.RecordMessageReceived(string(models.TypeDeleteZone))
		return e.run(connID, c, func() error { return e.deleteZoneLocked(c) })
	default:
		metrics.RecordMessageDropped(metrics.ReasonUnhandledType)
		e.log.Warn().
			Str("conn_id", connID).
			Str("type", string(cmd.MessageType())).
			Msg("Unhandled message type")
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, cmd.MessageType())
	}
}

// run authorizes cmd against the sender's current role and applies it. Both
// refusal and failure leave state untouched and still broadcast.
func (e *Engine) run(connID string, cmd models.Command, apply func() error) error {
	var result error
	e.pipeline(func() {
		if err := e.authorizeLocked(connID, cmd.MessageType()); err != nil {
			result = err
			return
		}
		if err := apply(); err != nil {
			e.rejectLocked(connID, cmd.MessageType(), err)
			result = err
		}
	})
	return result
}

// authorizeLocked checks the role stored in the registry now, not at login
// time, so a connection demoted by a later login loses admin rights at once.
// Unregistered connections are treated as users.
func (e *Engine) authorizeLocked(connID string, t models.MessageType) error {
	role := models.RoleUser
	if c, ok := e.clients.clients[connID]; ok {
		role = c.Role
	}
	if e.authz.Allowed(role, t) {
		return nil
	}

	metrics.RecordCommandRejected(string(t), metrics.ReasonUnauthorized)
	e.audit.LogAccessDenied(connID, role.String(), string(t))
	e.log.Warn().
		Str("conn_id", connID).
		Str("role", role.String()).
		Str("command", string(t)).
		Msg("Dropping unauthorized command")
	return fmt.Errorf("%w: %s may not %s", ErrUnauthorized, role, t)
}

func (e *Engine) rejectLocked(connID string, t models.MessageType, err error) {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		metrics.RecordCommandRejected(string(t), metrics.ReasonInvalidPayload)
		event := e.log.Warn().Err(err).
			Str("conn_id", connID).
			Str("command", string(t))
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			event = event.Strs("fields", verr.Fields()).Array("violations", verr)
		}
		event.Msg("Rejected command payload")
	case errors.Is(err, ErrUnknownZone):
		metrics.RecordCommandRejected(string(t), metrics.ReasonUnknownZone)
		e.log.Debug().Err(err).
			Str("conn_id", connID).
			Str("command", string(t)).
			Msg("Command references unknown zone")
	default:
		e.log.Debug().Err(err).
			Str("conn_id", connID).
			Str("command", string(t)).
			Msg("Command had no effect")
	}
}

// login assigns the role for the supplied credentials, replies to the
// sender with login_success and broadcasts. The credential check runs before
// the engine lock is taken since bcrypt is deliberately slow.
func (e *Engine) login(connID string, c models.Login) error {
	role := e.authn.Login(c.Credentials)

	var result error
	e.pipeline(func() {
		if err := e.authorizeLocked(connID, models.TypeLogin); err != nil {
			result = err
			return
		}
		if !e.clients.SetRole(connID, role) {
			e.log.Debug().Str("conn_id", connID).Msg("Login from unregistered connection")
		}
		metrics.RecordLogin(role.String())
		e.audit.LogLogin(connID, c.Credentials.Email, role.String())
		e.sendLocked(connID, models.NewLoginSuccess(role))
	})
	return result
}

func (e *Engine) updateLocationLocked(connID string, c models.LocationUpdate) error {
	if err := c.Patch.Complete(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if verr := validation.ValidateStruct(c.Patch); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, verr)
	}
	if !e.clients.MergeLocation(connID, c.Patch) {
		return ErrUnknownClient
	}
	return nil
}

func (e *Engine) createZoneLocked(c models.CreateZone) error {
	if verr := validation.ValidateStruct(c.Fields); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, verr)
	}
	id := e.zones.Create(c.Fields)
	e.log.Info().
		Str("zone_id", id).
		Float64("lat", *c.Fields.Lat).
		Float64("lon", *c.Fields.Lon).
		Float64("radius", *c.Fields.Radius).
		Msg("Zone created")
	return nil
}

func (e *Engine) updateZoneLocked(c models.UpdateZone) error {
	if verr := validation.ValidateStruct(c.Patch); verr != nil {
		// A missing id cannot name a zone; report it like any unknown id.
		if c.Patch.ID == "" {
			return fmt.Errorf("%w: empty id", ErrUnknownZone)
		}
		return fmt.Errorf("%w: %w", ErrInvalidPayload, verr)
	}
	if !e.zones.Update(c.Patch) {
		return fmt.Errorf("%w: %q", ErrUnknownZone, c.Patch.ID)
	}
	e.log.Info().Str("zone_id", c.Patch.ID).Msg("Zone updated")
	return nil
}

func (e *Engine) deleteZoneLocked(c models.DeleteZone) error {
	if !e.zones.Delete(c.ID) {
		return fmt.Errorf("%w: %q", ErrUnknownZone, c.ID)
	}
	metrics.DeleteZone(c.ID)
	e.log.Info().Str("zone_id", c.ID).Msg("Zone deleted")
	return nil
}
