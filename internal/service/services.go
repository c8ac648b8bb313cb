package service

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// SyncScheduler is the scheduler surface the services drive.
type SyncScheduler interface {
	Nudger
	InvalidationScheduler
}

type Services struct {
	Items          ItemService
	DeleteJournals DeleteJournalService
	Defaults       *DefaultValues
	Changes        *ChangeNotifier
	Invalidations  *SyncInvalidationHandler
}

// NewServices builds the services over dir and subscribes the change
// notifier to its write transactions. defaults is shared with the syncer,
// which fills server items without payload from it.
func NewServices(ctx context.Context, dir *directory.Directory, sched SyncScheduler, decrypter SpecificsDecrypter, defaults *DefaultValues, logger *logger.Logger) *Services {
	changes := NewChangeNotifier()
	dir.AddObserver(changes)

	return &Services{
		Items:          NewItemService(dir, sched, decrypter, defaults, logger),
		DeleteJournals: NewDeleteJournalService(dir, decrypter, logger),
		Defaults:       defaults,
		Changes:        changes,
		Invalidations:  NewSyncInvalidationHandler(ctx, sched, logger),
	}
}
