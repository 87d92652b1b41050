// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is one audit record.
type SecurityEvent struct {
	// Event names what happened: login or access_denied.
	Event string
	// ConnID is the WebSocket connection the event came from.
	ConnID string
	// Email is the submitted email. It is masked before logging.
	Email string
	// Role is the role granted or held.
	Role string
	// Action is the command that was attempted, for authorization events.
	Action  string
	Success bool
}

// SecurityLogger writes audit records for logins and authorization decisions.
// Credentials are never written and emails are masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger creates a security logger on a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent writes event at info level, or warn level when it failed.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)
	if event.ConnID != "" {
		e = e.Str("conn_id", event.ConnID)
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.Action != "" {
		e = e.Str("action", event.Action)
	}
	e.Msg("")
}

// LogLogin records a completed login and the role it granted.
func (l *SecurityLogger) LogLogin(connID, email, role string) {
	l.LogEvent(&SecurityEvent{
		Event:   "login",
		ConnID:  connID,
		Email:   email,
		Role:    role,
		Success: true,
	})
}

// LogAccessDenied records a command refused for lack of privilege.
func (l *SecurityLogger) LogAccessDenied(connID, role, action string) {
	l.LogEvent(&SecurityEvent{
		Event:  "access_denied",
		ConnID: connID,
		Role:   role,
		Action: action,
	})
}

// SanitizeEmail masks the local part of an email address.
//
//	SanitizeEmail("admin@event.com") // "ad***@event.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}
