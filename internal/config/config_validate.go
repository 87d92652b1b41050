// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/geocrowd/internal/auth"
	"github.com/tomtom215/geocrowd/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAdmin(); err != nil {
		return err
	}

	if err := c.validateWebSocket(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateAdmin validates the admin credential pair
func (c *Config) validateAdmin() error {
	if strings.TrimSpace(c.Admin.Email) == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if len(c.Admin.Password) > auth.MaxPasswordBytes {
		return fmt.Errorf("ADMIN_PASSWORD must be at most %d bytes", auth.MaxPasswordBytes)
	}
	if c.Admin.BcryptCost < bcrypt.MinCost || c.Admin.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("ADMIN_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// validateWebSocket validates transport limits
func (c *Config) validateWebSocket() error {
	ws := c.WebSocket
	switch {
	case len(ws.AllowedOrigins) == 0:
		return fmt.Errorf("WS_ALLOWED_ORIGINS must list at least one origin (use * for any)")
	case ws.SendQueueSize <= 0:
		return fmt.Errorf("WS_SEND_QUEUE_SIZE must be positive")
	case ws.WriteTimeout <= 0:
		return fmt.Errorf("WS_WRITE_TIMEOUT must be positive")
	case ws.MaxMessageSize <= 0:
		return fmt.Errorf("WS_MAX_MESSAGE_SIZE must be positive")
	case ws.MessageRate <= 0:
		return fmt.Errorf("WS_MESSAGE_RATE must be positive")
	case ws.MessageBurst <= 0:
		return fmt.Errorf("WS_MESSAGE_BURST must be positive")
	}
	return nil
}

// HasWildcardOrigin reports whether any origin may open a websocket.
func (c *Config) HasWildcardOrigin() bool {
	for _, origin := range c.WebSocket.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates the log level and format
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
