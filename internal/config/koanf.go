// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/geocrowd/config.yaml",
	"/etc/geocrowd/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			TemplatesDir:    "templates",
			StaticDir:       "static",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Admin: AdminConfig{
			Email:      "admin@event.com",
			Password:   "admin",
			BcryptCost: 10,
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{"*"},
			SendQueueSize:  64,
			WriteTimeout:   10 * time.Second,
			MaxMessageSize: 64 * 1024,
			MessageRate:    20,
			MessageBurst:   40,
		},
		Security: SecurityConfig{
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; slice fields need splitting.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"websocket.allowed_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"host":                  "server.host",
	"port":                  "server.port",
	"templates_dir":         "server.templates_dir",
	"static_dir":            "server.static_dir",
	"http_read_timeout":     "server.read_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"admin_email":       "admin.email",
	"admin_password":    "admin.password",
	"admin_bcrypt_cost": "admin.bcrypt_cost",

	"ws_allowed_origins":  "websocket.allowed_origins",
	"ws_send_queue_size":  "websocket.send_queue_size",
	"ws_write_timeout":    "websocket.write_timeout",
	"ws_max_message_size": "websocket.max_message_size",
	"ws_message_rate":     "websocket.message_rate",
	"ws_message_burst":    "websocket.message_burst",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into the configuration.
//
// Examples:
//   - PORT -> server.port
//   - ADMIN_EMAIL -> admin.email
//   - WS_ALLOWED_ORIGINS -> websocket.allowed_origins
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
