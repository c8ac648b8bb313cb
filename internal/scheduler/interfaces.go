package scheduler

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-engine/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/scheduler_mock.go -package=mock

// SyncRunner performs sync cycles. It is implemented by syncer.Syncer.
type SyncRunner interface {
	NormalSyncShare(ctx context.Context, types models.ModelTypeSet) error
	ConfigureSyncShare(ctx context.Context, types models.ModelTypeSet, origin models.GetUpdatesOrigin) error
	PollSyncShare(ctx context.Context, types models.ModelTypeSet) error
}

// ConnectionGate reports the credential and connection signals that gate
// every job.
type ConnectionGate interface {
	HasValidCredentials() bool
	IsConnected() bool
}

// AckSink takes acknowledgements and drops of delivered invalidations back
// to the invalidation listener.
type AckSink interface {
	Acknowledge(ctx context.Context, id models.ObjectID, handle models.AckHandle) error
	Drop(ctx context.Context, id models.ObjectID, handle models.AckHandle) error
}

// Observer is told about retry and throttling changes and about protocol
// errors that need the user's attention.
type Observer interface {
	OnRetryTimeChanged(retryAt time.Time)
	OnThrottledTypesChanged(types models.ModelTypeSet)
	OnActionableError(err models.SyncProtocolError)
}
