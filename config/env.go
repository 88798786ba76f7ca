// Copyright (C) 2025 ironvault-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvironment returns the current environment from IRONVAULT_ENV or
// ENVIRONMENT, defaulting to "development".
func GetEnvironment() string {
	if env := os.Getenv("IRONVAULT_ENV"); env != "" {
		return strings.ToLower(env)
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return strings.ToLower(env)
	}
	return "development"
}

// IsProduction reports whether GetEnvironment returns "production".
func IsProduction() bool { return GetEnvironment() == "production" }

// applyEnvironmentOverrides overrides cfg fields from IRONVAULT_* environment
// variables, highest priority over file-loaded values.
func applyEnvironmentOverrides(cfg *Config) {
	if path := os.Getenv("IRONVAULT_STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}
	if url := os.Getenv("IRONVAULT_SYNC_URL"); url != "" {
		cfg.Sync.URL = url
	}
	if timeout := os.Getenv("IRONVAULT_SYNC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Sync.RequestTimeout = d
		}
	}
	if level := os.Getenv("IRONVAULT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if output := os.Getenv("IRONVAULT_LOG_OUTPUT"); output != "" {
		cfg.Logging.Output = output
	}
	if enabled := os.Getenv("IRONVAULT_METRICS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if addr := os.Getenv("IRONVAULT_METRICS_ADDR"); addr != "" {
		cfg.Metrics.Addr = addr
	}
}
