package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON must be valid for time.Duration's TextUnmarshal (string, e.g. "30s").
	jsonBody := `{
		"app": {
			"cache_guid": "guid-1",
			"hash_key": "security_hash",
			"version": "1.2.3"
		},
		"server": { "http_address": "127.0.0.1:9100" },
		"adapter": {
			"http_address": "localhost:8080",
			"request_timeout": "30s",
			"auth_token": "bearer"
		},
		"scheduler": {
			"poll_interval": "4h",
			"initial_backoff": "30s",
			"max_backoff": "4h",
			"jitter_percent": 50,
			"local_nudge_delay": "200ms",
			"default_throttle": "2m"
		},
		"invalidation": { "max_buffered": 5 },
		"workers": { "flush_interval": "10s" },
		"storage": {
			"db": { "driver": "sqlite", "dsn": "file:sync.db" }
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, App{CacheGUID: "guid-1", HashKey: "security_hash", Version: "1.2.3"}, cfg.App)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.HTTPAddress)
	assert.Equal(t, Adapter{HTTPAddress: "localhost:8080", RequestTimeout: 30 * time.Second, AuthToken: "bearer"}, cfg.Adapter)

	assert.Equal(t, 4*time.Hour, cfg.Scheduler.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.InitialBackoff)
	assert.Equal(t, 4*time.Hour, cfg.Scheduler.MaxBackoff)
	assert.Equal(t, uint64(50), cfg.Scheduler.JitterPercent)
	assert.Equal(t, 200*time.Millisecond, cfg.Scheduler.LocalNudgeDelay)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.DefaultThrottle)
	assert.Zero(t, cfg.Scheduler.ShortPollInterval)

	assert.Equal(t, 5, cfg.Invalidation.MaxBuffered)
	assert.Equal(t, 10*time.Second, cfg.Workers.FlushInterval)
	assert.Equal(t, DB{Driver: "sqlite", DSN: "file:sync.db"}, cfg.Storage.DB)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	// Act
	cfg, err := parseJSON("definitely-does-not-exist.json")

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{ this is not json }`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad_duration.json")

	// request_timeout should be a duration string; make it invalid.
	jsonBody := `{
		"adapter": { "request_timeout": "not-a-duration" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_EmptyObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// With non-pointer nested structs, all fields are zero values.
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func TestParseJSON_PartialObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "partial.json")

	jsonBody := `{
		"server": { "http_address": "127.0.0.1:8000" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.HTTPAddress)

	// Others remain zero
	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, Adapter{}, cfg.Adapter)
	assert.Equal(t, Scheduler{}, cfg.Scheduler)
	assert.Equal(t, Storage{}, cfg.Storage)
}

func TestDuration_Numeric(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, time.Duration(d))

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1s"`, string(out))
}
