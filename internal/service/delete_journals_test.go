package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJournaledDirectory returns a directory whose delete journal holds the
// bookmarks named in names, keyed by their ids.
func newJournaledDirectory(t *testing.T, names ...string) (*directory.Directory, map[string]string) {
	t.Helper()
	dir, err := directory.Open(context.Background(), "test", directory.NewInMemoryBackingStore(), logger.Nop())
	require.NoError(t, err)

	ids := make(map[string]string, len(names))
	require.NoError(t, dir.Write(directory.WriterUnittest, func(tx *directory.WriteTransaction) error {
		if _, err := tx.CreatePermanentFolder(models.Bookmarks, bookmarksRoot); err != nil {
			return err
		}
		for _, name := range names {
			e := tx.CreateEntry(models.Bookmarks, bookmarksRoot, name)
			e.PutServerIsDel(true)
			ids[name] = e.ID().String()
		}
		return nil
	}))
	return dir, ids
}

func TestDeleteJournalService_List(t *testing.T) {
	dir, ids := newJournaledDirectory(t, "gone", "also gone")
	svc := NewDeleteJournalService(dir, nil, logger.Nop())

	items, err := svc.List(context.Background(), models.Bookmarks)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.ElementsMatch(t, []string{ids["gone"], ids["also gone"]}, itemIDs(items))
	for _, it := range items {
		assert.Equal(t, models.Bookmarks, it.Type)
	}
}

func TestDeleteJournalService_PurgeSelected(t *testing.T) {
	dir, ids := newJournaledDirectory(t, "gone", "kept")
	svc := NewDeleteJournalService(dir, nil, logger.Nop())

	n, err := svc.Purge(context.Background(), models.Bookmarks, []string{ids["gone"], "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	items, err := svc.List(context.Background(), models.Bookmarks)
	require.NoError(t, err)
	assert.Equal(t, []string{ids["kept"]}, itemIDs(items))
}

func TestDeleteJournalService_PurgeAll(t *testing.T) {
	dir, _ := newJournaledDirectory(t, "a", "b", "c")
	svc := NewDeleteJournalService(dir, nil, logger.Nop())

	n, err := svc.Purge(context.Background(), models.Bookmarks, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, err := svc.List(context.Background(), models.Bookmarks)
	require.NoError(t, err)
	assert.Empty(t, items)

	n, err = svc.Purge(context.Background(), models.Bookmarks, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteJournalService_PurgeIsSaved(t *testing.T) {
	store := directory.NewInMemoryBackingStore()
	dir, err := directory.Open(context.Background(), "test", store, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, dir.Write(directory.WriterUnittest, func(tx *directory.WriteTransaction) error {
		if _, err := tx.CreatePermanentFolder(models.Bookmarks, bookmarksRoot); err != nil {
			return err
		}
		tx.CreateEntry(models.Bookmarks, bookmarksRoot, "gone").PutServerIsDel(true)
		return nil
	}))
	require.NoError(t, dir.SaveChanges(context.Background()))

	svc := NewDeleteJournalService(dir, nil, logger.Nop())
	_, err = svc.Purge(context.Background(), models.Bookmarks, nil)
	require.NoError(t, err)
	require.NoError(t, dir.Close(context.Background()))

	reopened, err := directory.Open(context.Background(), "test", store, logger.Nop())
	require.NoError(t, err)
	items, err := NewDeleteJournalService(reopened, nil, logger.Nop()).List(context.Background(), models.Bookmarks)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteJournalService_TypeWithoutJournal(t *testing.T) {
	dir, _ := newJournaledDirectory(t)
	svc := NewDeleteJournalService(dir, nil, logger.Nop())

	_, err := svc.List(context.Background(), models.Preferences)
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = svc.Purge(context.Background(), models.Preferences, nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDeleteJournalService_CanceledContext(t *testing.T) {
	dir, _ := newJournaledDirectory(t, "gone")
	svc := NewDeleteJournalService(dir, nil, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.List(ctx, models.Bookmarks)
	assert.ErrorIs(t, err, context.Canceled)
}
