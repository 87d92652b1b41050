// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Admin     AdminConfig     `koanf:"admin"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener and page asset settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	TemplatesDir    string        `koanf:"templates_dir"`
	StaticDir       string        `koanf:"static_dir"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AdminConfig is the single admin credential pair. The password is hashed
// with bcrypt at startup and never kept in plaintext afterwards.
type AdminConfig struct {
	Email      string `koanf:"email"`
	Password   string `koanf:"password"`
	BcryptCost int    `koanf:"bcrypt_cost"`
}

// WebSocketConfig tunes the websocket transport.
type WebSocketConfig struct {
	AllowedOrigins []string      `koanf:"allowed_origins"`
	SendQueueSize  int           `koanf:"send_queue_size"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	MaxMessageSize int64         `koanf:"max_message_size"`
	MessageRate    float64       `koanf:"message_rate"` // frames per second
	MessageBurst   int           `koanf:"message_burst"`
}

// SecurityConfig holds HTTP rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}
