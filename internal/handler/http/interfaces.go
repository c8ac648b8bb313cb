package http

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/models"
)

// StatusSource exposes the engine state served under /debug.
type StatusSource interface {
	SchedulerStatus() scheduler.Status
	LastCycle() syncer.CycleStatus
	UnackedInvalidations() []invalidation.UnackedState
	DirtyCount() int
	Connected() bool
	// Entries returns snapshots of the entries of t, or of every entry
	// when t is Unspecified.
	Entries(t models.ModelType) []directory.EntryKernel
}

// InvalidationSink accepts pushes delivered to the local endpoint. It is
// implemented by invalidation.Listener.
type InvalidationSink interface {
	OnInvalidate(ctx context.Context, invs []models.Invalidation) error
	UpdateInvalidatorState(state invalidation.State)
}

// EncryptionController is the part of the encryption manager exposed to
// the host process.
type EncryptionController interface {
	SetEncryptionPassphrase(passphrase string) error
	SetDecryptionPassphrase(passphrase string) error
	EnableEncryptEverything() error

	GetPassphraseType() models.PassphraseType
	EncryptEverythingEnabled() bool
	GetEncryptedTypes() models.ModelTypeSet
	HasPendingKeys() bool
	MigratedToKeystore() bool
}

// CredentialsUpdater installs a new server token and retries sync.
type CredentialsUpdater interface {
	UpdateCredentials(token string)
}
