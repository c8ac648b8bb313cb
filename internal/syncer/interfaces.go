package syncer

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/syncer_mock.go -package=mock

// Transport exchanges commit and update messages with the sync server.
// Failures are reported as [models.SyncerError] values.
type Transport interface {
	Commit(ctx context.Context, req models.CommitRequest) (*models.CommitResponse, error)
	GetUpdates(ctx context.Context, req models.GetUpdatesRequest) (*models.GetUpdatesResponse, error)
}

// EncryptionHandler is the view of the encryption manager the pipeline
// needs. Key material never crosses it.
type EncryptionHandler interface {
	CanDecrypt(data models.EncryptedData) bool
	IsEncryptedWithDefaultKey(data models.EncryptedData) bool
	Decrypt(data models.EncryptedData) ([]byte, error)
	EncryptSpecifics(s models.EntitySpecifics) (models.EntitySpecifics, error)
	GetEncryptedTypes() models.ModelTypeSet
	HasPendingKeys() bool
	NeedKeystoreKey() bool
	ApplyNigoriUpdate(tx *directory.WriteTransaction, nigori models.NigoriSpecifics)
	SetKeystoreKeys(tx *directory.WriteTransaction, keys [][]byte)
}

// CycleRecorder receives the status of every finished sync cycle.
type CycleRecorder interface {
	RecordCycle(status CycleStatus)
}

// DefaultFieldValuer fills in the per-type default payload of specifics
// that arrive without a type.
type DefaultFieldValuer interface {
	AddDefaultFieldValue(t models.ModelType, s *models.EntitySpecifics)
}
