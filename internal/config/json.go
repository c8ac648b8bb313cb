package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] as it is written in the
// JSON config file.
type StructuredJSONConfig struct {
	App struct {
		CacheGUID string `json:"cache_guid"`
		HashKey   string `json:"hash_key"`
		Version   string `json:"version"`
		LogFile   string `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthToken      string   `json:"auth_token"`
	} `json:"adapter,omitempty"`

	Scheduler struct {
		PollInterval            Duration `json:"poll_interval"`
		ShortPollInterval       Duration `json:"short_poll_interval"`
		InitialBackoff          Duration `json:"initial_backoff"`
		ShortInitialBackoff     Duration `json:"short_initial_backoff"`
		MaxBackoff              Duration `json:"max_backoff"`
		JitterPercent           uint64   `json:"jitter_percent"`
		LocalNudgeDelay         Duration `json:"local_nudge_delay"`
		RemoteInvalidationDelay Duration `json:"remote_invalidation_delay"`
		DefaultThrottle         Duration `json:"default_throttle"`
	} `json:"scheduler,omitempty"`

	Invalidation struct {
		MaxBuffered int `json:"max_buffered"`
	} `json:"invalidation,omitempty"`

	Workers struct {
		FlushInterval Duration `json:"flush_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	s := jsonCfg.Scheduler
	cfg := &StructuredConfig{
		App: App{
			CacheGUID: jsonCfg.App.CacheGUID,
			HashKey:   jsonCfg.App.HashKey,
			Version:   jsonCfg.App.Version,
			LogFile:   jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress: jsonCfg.Server.HTTPAddress,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			AuthToken:      jsonCfg.Adapter.AuthToken,
		},
		Scheduler: Scheduler{
			PollInterval:            time.Duration(s.PollInterval),
			ShortPollInterval:       time.Duration(s.ShortPollInterval),
			InitialBackoff:          time.Duration(s.InitialBackoff),
			ShortInitialBackoff:     time.Duration(s.ShortInitialBackoff),
			MaxBackoff:              time.Duration(s.MaxBackoff),
			JitterPercent:           s.JitterPercent,
			LocalNudgeDelay:         time.Duration(s.LocalNudgeDelay),
			RemoteInvalidationDelay: time.Duration(s.RemoteInvalidationDelay),
			DefaultThrottle:         time.Duration(s.DefaultThrottle),
		},
		Invalidation: Invalidation{MaxBuffered: jsonCfg.Invalidation.MaxBuffered},
		Workers:      Workers{FlushInterval: time.Duration(jsonCfg.Workers.FlushInterval)},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
