package service

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ItemService is the local change facade used by the model layer. Every
// write marks the touched items unsynced and nudges the scheduler.
type ItemService interface {
	Create(ctx context.Context, req models.CreateItemRequest) (models.Item, error)
	Update(ctx context.Context, id string, req models.UpdateItemRequest) (models.Item, error)
	Move(ctx context.Context, id string, req models.MoveItemRequest) (models.Item, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.Item, error)
	List(ctx context.Context, t models.ModelType) ([]models.Item, error)
	// RequestRefresh asks for a download of types without local changes.
	RequestRefresh(types models.ModelTypeSet)
}

// DeleteJournalService hands server-side deletions of journaled types to
// the model layer. Records stay until the model layer purges them.
type DeleteJournalService interface {
	List(ctx context.Context, t models.ModelType) ([]models.Item, error)
	// Purge drops the records of the given ids, or every record of t when
	// ids is empty, and returns how many were dropped.
	Purge(ctx context.Context, t models.ModelType, ids []string) (int, error)
}

// Nudger receives local nudges. It is implemented by scheduler.Scheduler.
type Nudger interface {
	ScheduleLocalNudge(types models.ModelTypeSet)
	ScheduleLocalRefreshRequest(types models.ModelTypeSet)
}

// InvalidationScheduler receives server pushes. It is implemented by
// scheduler.Scheduler.
type InvalidationScheduler interface {
	ScheduleInvalidationNudge(ctx context.Context, inv models.Invalidation)
	SetNotificationsEnabled(enabled bool)
}

// SpecificsDecrypter turns stored specifics back into plaintext. It is
// implemented by encryption.Manager.
type SpecificsDecrypter interface {
	DecryptSpecifics(s models.EntitySpecifics) (models.EntitySpecifics, error)
}

// ChangeObserver is told about items changed by any writer, grouped by
// type.
type ChangeObserver interface {
	OnItemsChanged(t models.ModelType, changes []models.ItemChange)
}
