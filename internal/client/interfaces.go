// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/models"
)

// Client defines the lifecycle contract of a runnable sync engine.
type Client interface {
	// Run starts the engine and blocks until ctx is done or a termination
	// signal arrives, then shuts everything down.
	Run(ctx context.Context) error
}

type schedulerView interface {
	Status() scheduler.Status
	OnCredentialsUpdated()
}

type cycleView interface {
	LastStatus() syncer.CycleStatus
}

type unackedView interface {
	Snapshot() []invalidation.UnackedState
}

type connectionView interface {
	IsConnected() bool
	SetToken(token string)
}

type nudger interface {
	ScheduleLocalNudge(types models.ModelTypeSet)
}
