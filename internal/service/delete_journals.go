package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

type deleteJournalService struct {
	dir       *directory.Directory
	decrypter SpecificsDecrypter
	logger    *logger.Logger
}

func NewDeleteJournalService(dir *directory.Directory, decrypter SpecificsDecrypter, logger *logger.Logger) DeleteJournalService {
	return &deleteJournalService{dir: dir, decrypter: decrypter, logger: logger}
}

// List returns the journaled deletions of t as they looked locally when the
// server deleted them.
func (s *deleteJournalService) List(ctx context.Context, t models.ModelType) ([]models.Item, error) {
	kernels, err := s.journal(ctx, t)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(kernels))
	for _, k := range kernels {
		items = append(items, itemFromKernel(k, s.decrypter, s.logger))
	}
	return items, nil
}

func (s *deleteJournalService) Purge(ctx context.Context, t models.ModelType, ids []string) (int, error) {
	kernels, err := s.journal(ctx, t)
	if err != nil {
		return 0, err
	}

	wanted := make(map[directory.ID]struct{}, len(ids))
	for _, id := range ids {
		wanted[directory.IDFromString(id)] = struct{}{}
	}

	purge := make([]directory.ID, 0, len(kernels))
	for _, k := range kernels {
		if _, ok := wanted[k.ID]; ok || len(ids) == 0 {
			purge = append(purge, k.ID)
		}
	}
	if len(purge) == 0 {
		return 0, nil
	}

	s.dir.PurgeDeleteJournals(purge...)
	s.logger.Info().Str("func", "*deleteJournalService.Purge").
		Str("type", t.String()).
		Int("purged", len(purge)).
		Msg("delete journal purged")
	return len(purge), nil
}

func (s *deleteJournalService) journal(ctx context.Context, t models.ModelType) ([]directory.EntryKernel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !t.KeepsDeleteJournal() {
		return nil, fmt.Errorf("%w: %s keeps no delete journal", ErrUnknownType, t)
	}

	var kernels []directory.EntryKernel
	err := s.dir.Read(func(tx *directory.ReadTransaction) error {
		kernels = tx.GetDeleteJournals(models.NewModelTypeSet(t))
		return nil
	})
	return kernels, err
}
