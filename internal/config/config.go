// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// engine client. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds the identity of this client installation.
	App App `envPrefix:"APP_"`

	// Storage holds configuration of the directory backing store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the inspection HTTP endpoint settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds settings of the transport to the sync server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Scheduler holds the timing parameters of the sync scheduler.
	Scheduler Scheduler `envPrefix:"SCHEDULER_"`

	// Invalidation holds invalidation buffering settings.
	Invalidation Invalidation `envPrefix:"INVALIDATION_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration of the storage backends.
type Storage struct {
	// DB holds the directory database settings.
	DB DB `envPrefix:"DB_"`
}

// App holds application-level values identifying the client.
type App struct {
	// CacheGUID identifies this client to the server. When empty a new one is
	// generated on first start and persisted with the directory.
	// Env: APP_CACHE_GUID
	CacheGUID string `env:"CACHE_GUID"`

	// HashKey is the HMAC key used to sign outgoing request bodies
	// (the HashSHA256 header).
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running client.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is the path of the rotated client log. Empty means stdout.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Server holds settings of the local inspection endpoint.
type Server struct {
	// HTTPAddress is the TCP address the inspection server listens on,
	// in "host:port" format (e.g. "127.0.0.1:9100").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// DB holds connection settings for the directory backing store.
type DB struct {
	// Driver selects the backing store: "sqlite" or "pebble".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the SQLite data source name or the pebble directory path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Adapter holds settings of the outbound sync transport.
type Adapter struct {
	// HTTPAddress is the base address of the sync server
	// (e.g. "localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of one commit or GetUpdates
	// request (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AuthToken is the bearer token sent with every request. Its expiry is
	// used to decide whether the credentials are still valid.
	// Env: ADAPTER_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`
}

// Scheduler holds the timing parameters of the sync scheduler. Zero values
// fall back to the scheduler defaults.
type Scheduler struct {
	PollInterval        time.Duration `env:"POLL_INTERVAL"`
	ShortPollInterval   time.Duration `env:"SHORT_POLL_INTERVAL"`
	InitialBackoff      time.Duration `env:"INITIAL_BACKOFF"`
	ShortInitialBackoff time.Duration `env:"SHORT_INITIAL_BACKOFF"`
	MaxBackoff          time.Duration `env:"MAX_BACKOFF"`
	// JitterPercent randomizes every backoff delay by up to the given
	// percentage.
	JitterPercent           uint64        `env:"JITTER_PERCENT"`
	LocalNudgeDelay         time.Duration `env:"LOCAL_NUDGE_DELAY"`
	RemoteInvalidationDelay time.Duration `env:"REMOTE_INVALIDATION_DELAY"`
	DefaultThrottle         time.Duration `env:"DEFAULT_THROTTLE"`
}

// Invalidation holds invalidation buffering settings.
type Invalidation struct {
	// MaxBuffered bounds the invalidations kept per object while nobody is
	// registered for it, and per type inside the scheduler.
	// Env: INVALIDATION_MAX_BUFFERED
	MaxBuffered int `env:"MAX_BUFFERED"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// FlushInterval defines how often dirty directory state is saved.
	// Env: WORKERS_FLUSH_INTERVAL
	FlushInterval time.Duration `env:"FLUSH_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. A field keeps the first non-zero value found in:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults (sqlite driver, DSN and request timeout)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
