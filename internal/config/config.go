/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the handful of environment-driven settings this
// module's embedders need: where the backing store lives, and how
// verbosely to log.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/firefly-oss/quark/internal/logging"
)

// Config holds Quark's environment-driven settings.
type Config struct {
	// StoreAddr is the backing wide-column store's connection endpoint.
	// The wire driver that dials it is an external collaborator; Config
	// only carries the address through.
	StoreAddr string

	// LogLevel is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	LogLevel string

	// LogJSON switches the logger to JSON output.
	LogJSON bool
}

const (
	envStoreAddr = "QUARK_STORE_ADDR"
	envLogLevel  = "QUARK_LOG_LEVEL"
	envLogJSON   = "QUARK_LOG_JSON"
)

// DefaultConfig returns Config's zero-risk defaults.
func DefaultConfig() *Config {
	return &Config{
		StoreAddr: "127.0.0.1:9042",
		LogLevel:  "info",
		LogJSON:   false,
	}
}

// Load builds a Config from DefaultConfig, overridden by whichever of
// QUARK_STORE_ADDR / QUARK_LOG_LEVEL / QUARK_LOG_JSON are set in the
// environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(envStoreAddr); v != "" {
		cfg.StoreAddr = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envLogJSON); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			cfg.LogJSON = true
		case "0", "false", "FALSE", "False":
			cfg.LogJSON = false
		default:
			return nil, fmt.Errorf("config: invalid %s value %q", envLogJSON, v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyLogging wires the package-global logging.Logger output to match
// c.LogLevel/c.LogJSON, so constructing a Config and applying it is
// enough to make every component's *logging.Logger honor the
// environment's verbosity without each caller re-parsing QUARK_LOG_LEVEL.
func (c *Config) ApplyLogging() {
	logging.SetGlobalLevel(logging.ParseLevel(c.LogLevel))
	logging.SetJSONMode(c.LogJSON)
}

// Validate reports whether cfg is well-formed.
func (c *Config) Validate() error {
	if c.StoreAddr == "" {
		return fmt.Errorf("config: store address must not be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return nil
}
