package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/mock"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newNotifierDir(t *testing.T, ctrl *gomock.Controller) (*directory.Directory, *mock.MockChangeObserver) {
	t.Helper()
	dir, err := directory.Open(context.Background(), "test", directory.NewInMemoryBackingStore(), logger.Nop())
	require.NoError(t, err)

	observer := mock.NewMockChangeObserver(ctrl)
	n := NewChangeNotifier()
	n.AddObserver(observer)
	dir.AddObserver(n)
	return dir, observer
}

func TestChangeNotifier_PermanentFoldersIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir, _ := newNotifierDir(t, ctrl)

	require.NoError(t, dir.Write(directory.WriterSyncer, func(tx *directory.WriteTransaction) error {
		_, err := tx.CreatePermanentFolder(models.Bookmarks, bookmarksRoot)
		return err
	}))
}

func TestChangeNotifier_CreateUpdateDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir, observer := newNotifierDir(t, ctrl)
	require.NoError(t, dir.Write(directory.WriterUnittest, func(tx *directory.WriteTransaction) error {
		_, err := tx.CreatePermanentFolder(models.Bookmarks, bookmarksRoot)
		return err
	}))

	var got [][]models.ItemChange
	observer.EXPECT().OnItemsChanged(models.Bookmarks, gomock.Any()).
		Do(func(_ models.ModelType, changes []models.ItemChange) {
			got = append(got, changes)
		}).Times(3)

	var id directory.ID
	require.NoError(t, dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		e := tx.CreateEntry(models.Bookmarks, bookmarksRoot, "a")
		id = e.ID()
		return nil
	}))
	require.NoError(t, dir.Write(directory.WriterSyncer, func(tx *directory.WriteTransaction) error {
		tx.GetMutableByID(id).PutNonUniqueName("b")
		return nil
	}))
	require.NoError(t, dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		tx.GetMutableByID(id).PutIsDel(true)
		return nil
	}))

	require.Len(t, got, 3)

	require.Len(t, got[0], 1)
	assert.Nil(t, got[0][0].Before)
	require.NotNil(t, got[0][0].After)
	assert.Equal(t, "a", got[0][0].After.Name)

	require.Len(t, got[1], 1)
	assert.Equal(t, "a", got[1][0].Before.Name)
	assert.Equal(t, "b", got[1][0].After.Name)

	require.Len(t, got[2], 1)
	assert.Equal(t, id.String(), got[2][0].Before.ID)
	assert.Nil(t, got[2][0].After)
}

func TestChangeNotifier_GroupsByType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir, observer := newNotifierDir(t, ctrl)
	require.NoError(t, dir.Write(directory.WriterUnittest, func(tx *directory.WriteTransaction) error {
		if _, err := tx.CreatePermanentFolder(models.Bookmarks, bookmarksRoot); err != nil {
			return err
		}
		_, err := tx.CreatePermanentFolder(models.Preferences, preferencesRoot)
		return err
	}))

	gomock.InOrder(
		observer.EXPECT().OnItemsChanged(models.Bookmarks, gomock.Len(2)),
		observer.EXPECT().OnItemsChanged(models.Preferences, gomock.Len(1)),
	)

	require.NoError(t, dir.Write(directory.WriterSyncAPI, func(tx *directory.WriteTransaction) error {
		tx.CreateEntry(models.Bookmarks, bookmarksRoot, "a")
		tx.CreateEntry(models.Bookmarks, bookmarksRoot, "b")
		tx.CreateEntry(models.Preferences, preferencesRoot, "p")
		return nil
	}))
}
