// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package models

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// MessageType tags an envelope.
type MessageType string

// Inbound message types.
const (
	TypeLogin          MessageType = "login"
	TypeLocationUpdate MessageType = "location_update"
	TypeCreateZone     MessageType = "create_zone"
	TypeUpdateZone     MessageType = "update_zone"
	TypeDeleteZone     MessageType = "delete_zone"
)

// Outbound message types.
const (
	TypeLoginSuccess MessageType = "login_success"
	TypeStateUpdate  MessageType = "state_update"
)

// ErrMalformedMessage is returned for frames that cannot be decoded into an
// envelope or whose payload does not match the message type.
var ErrMalformedMessage = errors.New("malformed message")

// Envelope is the wire shape shared by inbound and outbound messages.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Command is one decoded inbound message. The concrete types below are the
// complete set; anything else decodes to Unhandled.
type Command interface {
	MessageType() MessageType
}

// Credentials is the payload of login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login asks for a role based on the supplied credentials.
type Login struct{ Credentials Credentials }

// LocationUpdate reports the sender's position.
type LocationUpdate struct{ Patch LocationPatch }

// CreateZone adds a zone. Admin only.
type CreateZone struct{ Fields ZoneFields }

// UpdateZone partially updates a zone. Admin only.
type UpdateZone struct{ Patch ZonePatch }

// DeleteZone removes a zone. Admin only.
type DeleteZone struct {
	ID string `json:"id"`
}

// Unhandled carries the tag of a message type the engine does not know.
type Unhandled struct{ Type MessageType }

func (Login) MessageType() MessageType          { return TypeLogin }
func (LocationUpdate) MessageType() MessageType { return TypeLocationUpdate }
func (CreateZone) MessageType() MessageType     { return TypeCreateZone }
func (UpdateZone) MessageType() MessageType     { return TypeUpdateZone }
func (DeleteZone) MessageType() MessageType     { return TypeDeleteZone }
func (u Unhandled) MessageType() MessageType    { return u.Type }

// ParseCommand decodes a raw frame into a Command.
//
// The frame is either an envelope object or a JSON string holding one. An
// unknown type is not an error: it yields Unhandled so the caller can log
// it. Everything that cannot be decoded wraps ErrMalformedMessage.
func ParseCommand(data []byte) (Command, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	switch env.Type {
	case TypeLogin:
		var c Login
		if err := decodePayload(env, &c.Credentials); err != nil {
			return nil, err
		}
		return c, nil
	case TypeLocationUpdate:
		var c LocationUpdate
		if err := decodePayload(env, &c.Patch); err != nil {
			return nil, err
		}
		return c, nil
	case TypeCreateZone:
		var c CreateZone
		if err := decodePayload(env, &c.Fields); err != nil {
			return nil, err
		}
		return c, nil
	case TypeUpdateZone:
		var c UpdateZone
		if err := decodePayload(env, &c.Patch); err != nil {
			return nil, err
		}
		return c, nil
	case TypeDeleteZone:
		var c DeleteZone
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return Unhandled{Type: env.Type}, nil
	}
}

func decodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return env, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		data = bytes.TrimSpace([]byte(text))
	}

	if len(data) == 0 || data[0] != '{' {
		return env, fmt.Errorf("%w: not a JSON object", ErrMalformedMessage)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	return env, nil
}

// decodePayload unmarshals the envelope payload into dst. A missing or null
// payload is treated as an empty object.
func decodePayload(env Envelope, dst interface{}) error {
	payload := bytes.TrimSpace(env.Payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		payload = []byte("{}")
	}
	if payload[0] != '{' {
		return fmt.Errorf("%w: %s payload is not an object", ErrMalformedMessage, env.Type)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMalformedMessage, env.Type, err)
	}
	return nil
}
