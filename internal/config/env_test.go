// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_CACHE_GUID": "guid-1",
		"APP_HASH_KEY":   "security_hash",
		"APP_VERSION":    "1.2.3",

		"SERVER_ADDRESS": "127.0.0.1:9100",

		"ADAPTER_ADDRESS":         "localhost:8080",
		"ADAPTER_REQUEST_TIMEOUT": "30s",
		"ADAPTER_AUTH_TOKEN":      "token",

		"SCHEDULER_POLL_INTERVAL":             "4h",
		"SCHEDULER_SHORT_POLL_INTERVAL":       "1m",
		"SCHEDULER_INITIAL_BACKOFF":           "30s",
		"SCHEDULER_SHORT_INITIAL_BACKOFF":     "1s",
		"SCHEDULER_MAX_BACKOFF":               "4h",
		"SCHEDULER_JITTER_PERCENT":            "50",
		"SCHEDULER_LOCAL_NUDGE_DELAY":         "200ms",
		"SCHEDULER_REMOTE_INVALIDATION_DELAY": "250ms",
		"SCHEDULER_DEFAULT_THROTTLE":          "2m",

		"INVALIDATION_MAX_BUFFERED": "5",
		"WORKERS_FLUSH_INTERVAL":    "10s",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DRIVER": "pebble",
		"STORAGE_DB_DSN":    "/var/lib/sync",
	}
	setEnvVars(t, envVars)

	// Act
	cfg, err := parseEnv()

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, App{CacheGUID: "guid-1", HashKey: "security_hash", Version: "1.2.3"}, cfg.App)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.HTTPAddress)
	assert.Equal(t, Adapter{HTTPAddress: "localhost:8080", RequestTimeout: 30 * time.Second, AuthToken: "token"}, cfg.Adapter)

	assert.Equal(t, Scheduler{
		PollInterval:            4 * time.Hour,
		ShortPollInterval:       time.Minute,
		InitialBackoff:          30 * time.Second,
		ShortInitialBackoff:     time.Second,
		MaxBackoff:              4 * time.Hour,
		JitterPercent:           50,
		LocalNudgeDelay:         200 * time.Millisecond,
		RemoteInvalidationDelay: 250 * time.Millisecond,
		DefaultThrottle:         2 * time.Minute,
	}, cfg.Scheduler)

	assert.Equal(t, 5, cfg.Invalidation.MaxBuffered)
	assert.Equal(t, 10*time.Second, cfg.Workers.FlushInterval)
	assert.Equal(t, DB{Driver: "pebble", DSN: "/var/lib/sync"}, cfg.Storage.DB)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"APP_HASH_KEY":    "secret",
		"ADAPTER_ADDRESS": "localhost:8080",
	}
	setEnvVars(t, envVars)

	// Act
	cfg, err := parseEnv()

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.App.HashKey)
	assert.Empty(t, cfg.App.CacheGUID)

	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Zero(t, cfg.Adapter.RequestTimeout)

	// Others untouched
	assert.Equal(t, Scheduler{}, cfg.Scheduler)
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg, err := parseEnv()

	// Assert
	require.NoError(t, err)

	// In this version all nested fields are non-pointer values,
	// so "empty" state is represented by zero values.
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"SCHEDULER_MAX_BACKOFF": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg, err := parseEnv()

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_InvalidNumber(t *testing.T) {
	setEnvVars(t, map[string]string{"SCHEDULER_JITTER_PERCENT": "-5"})

	_, err := parseEnv()
	require.Error(t, err)
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"ADAPTER_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg, err := parseEnv()

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Adapter.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_CACHE_GUID",
		"APP_HASH_KEY",
		"APP_VERSION",

		"SERVER_ADDRESS",

		"ADAPTER_ADDRESS",
		"ADAPTER_REQUEST_TIMEOUT",
		"ADAPTER_AUTH_TOKEN",

		"SCHEDULER_POLL_INTERVAL",
		"SCHEDULER_SHORT_POLL_INTERVAL",
		"SCHEDULER_INITIAL_BACKOFF",
		"SCHEDULER_SHORT_INITIAL_BACKOFF",
		"SCHEDULER_MAX_BACKOFF",
		"SCHEDULER_JITTER_PERCENT",
		"SCHEDULER_LOCAL_NUDGE_DELAY",
		"SCHEDULER_REMOTE_INVALIDATION_DELAY",
		"SCHEDULER_DEFAULT_THROTTLE",

		"INVALIDATION_MAX_BUFFERED",
		"WORKERS_FLUSH_INTERVAL",

		"STORAGE_DB_DRIVER",
		"STORAGE_DB_DSN",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
