// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package config

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "PORT"},
		{"read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "HTTP_READ_TIMEOUT"},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, "HTTP_SHUTDOWN_TIMEOUT"},
		{"empty email", func(c *Config) { c.Admin.Email = "  " }, "ADMIN_EMAIL"},
		{"empty password", func(c *Config) { c.Admin.Password = "" }, "ADMIN_PASSWORD"},
		{"password over 72 bytes", func(c *Config) { c.Admin.Password = strings.Repeat("p", 73) }, "ADMIN_PASSWORD"},
		{"password at 72 bytes", func(c *Config) { c.Admin.Password = strings.Repeat("p", 72) }, ""},
		{"bcrypt cost low", func(c *Config) { c.Admin.BcryptCost = bcrypt.MinCost - 1 }, "ADMIN_BCRYPT_COST"},
		{"bcrypt cost high", func(c *Config) { c.Admin.BcryptCost = bcrypt.MaxCost + 1 }, "ADMIN_BCRYPT_COST"},
		{"no origins", func(c *Config) { c.WebSocket.AllowedOrigins = nil }, "WS_ALLOWED_ORIGINS"},
		{"queue size", func(c *Config) { c.WebSocket.SendQueueSize = 0 }, "WS_SEND_QUEUE_SIZE"},
		{"write timeout", func(c *Config) { c.WebSocket.WriteTimeout = 0 }, "WS_WRITE_TIMEOUT"},
		{"message size", func(c *Config) { c.WebSocket.MaxMessageSize = -1 }, "WS_MAX_MESSAGE_SIZE"},
		{"message rate", func(c *Config) { c.WebSocket.MessageRate = 0 }, "WS_MESSAGE_RATE"},
		{"message burst", func(c *Config) { c.WebSocket.MessageBurst = 0 }, "WS_MESSAGE_BURST"},
		{"rate limit reqs", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestHasWildcardOrigin(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if !cfg.HasWildcardOrigin() {
		t.Error("default origins should include *")
	}
	cfg.WebSocket.AllowedOrigins = []string{"https://x.example.com"}
	if cfg.HasWildcardOrigin() {
		t.Error("explicit origin list reported as wildcard")
	}
}
