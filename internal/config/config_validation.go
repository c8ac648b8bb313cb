// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the values that make no sense in any source combination.
// Missing values are left to [ClientConfig.validate].
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case "", DriverSQLite, DriverPebble:
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Scheduler.JitterPercent > 100 {
		return ErrInvalidSchedulerConfigs
	}

	if cfg.Invalidation.MaxBuffered < 0 {
		return ErrInvalidInvalidationConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	s := cfg.Scheduler
	if s.MaxBackoff != 0 && s.MaxBackoff < s.InitialBackoff {
		return ErrInvalidSchedulerConfigs
	}
	if s.ShortPollInterval != 0 && s.PollInterval != 0 && s.ShortPollInterval > s.PollInterval {
		return ErrInvalidSchedulerConfigs
	}

	if cfg.Workers.FlushInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.HashKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
