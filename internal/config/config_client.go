package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// CacheGUID is the configured client identifier; empty means "generate".
	CacheGUID string
	// HashKey is the HMAC key used by the client for payload integrity checks.
	HashKey string
	// Version is reported in the inspection status.
	Version string
	// LogFile is the rotated log path; empty logs to stdout.
	LogFile string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the HTTP endpoint address of the sync server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// AuthToken is the bearer token sent with every request.
	AuthToken string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// Driver is "sqlite" or "pebble".
	Driver string
	// DSN is the SQLite connection string or the pebble directory.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientScheduler holds the scheduler timings. Zero fields select the
// scheduler defaults.
type ClientScheduler struct {
	PollInterval             time.Duration
	ShortPollInterval        time.Duration
	InitialBackoff           time.Duration
	ShortInitialBackoff      time.Duration
	MaxBackoff               time.Duration
	JitterPercent            uint64
	LocalNudgeDelay          time.Duration
	RemoteInvalidationDelay  time.Duration
	DefaultThrottle          time.Duration
	MaxBufferedInvalidations int
}

// ClientServer holds the inspection endpoint settings. An empty address
// disables the endpoint.
type ClientServer struct {
	HTTPAddress string
}

// ClientInvalidation holds invalidation buffering settings.
type ClientInvalidation struct {
	MaxBuffered int
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// FlushInterval defines how often the directory is saved.
	FlushInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Scheduler contains sync scheduling parameters.
	Scheduler ClientScheduler
	// Server contains the inspection endpoint settings.
	Server ClientServer
	// Invalidation contains invalidation buffering settings.
	Invalidation ClientInvalidation
	// Workers contains background job settings.
	Workers ClientWorkers
}

// Drivers accepted in [ClientDB.Driver].
const (
	DriverSQLite = "sqlite"
	DriverPebble = "pebble"
)

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	driver := cfg.Storage.DB.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	return &ClientConfig{
		App: ClientApp{
			CacheGUID: cfg.App.CacheGUID,
			HashKey:   cfg.App.HashKey,
			Version:   cfg.App.Version,
			LogFile:   cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			AuthToken:      cfg.Adapter.AuthToken,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				Driver: driver,
				DSN:    cfg.Storage.DB.DSN,
			},
		},
		Scheduler: ClientScheduler{
			PollInterval:             cfg.Scheduler.PollInterval,
			ShortPollInterval:        cfg.Scheduler.ShortPollInterval,
			InitialBackoff:           cfg.Scheduler.InitialBackoff,
			ShortInitialBackoff:      cfg.Scheduler.ShortInitialBackoff,
			MaxBackoff:               cfg.Scheduler.MaxBackoff,
			JitterPercent:            cfg.Scheduler.JitterPercent,
			LocalNudgeDelay:          cfg.Scheduler.LocalNudgeDelay,
			RemoteInvalidationDelay:  cfg.Scheduler.RemoteInvalidationDelay,
			DefaultThrottle:          cfg.Scheduler.DefaultThrottle,
			MaxBufferedInvalidations: cfg.Invalidation.MaxBuffered,
		},
		Server:       ClientServer{HTTPAddress: cfg.Server.HTTPAddress},
		Invalidation: ClientInvalidation{MaxBuffered: cfg.Invalidation.MaxBuffered},
		Workers:      ClientWorkers{FlushInterval: cfg.Workers.FlushInterval},
	}
}
