package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &DB{DB: db, errorClassificator: NewSQLiteErrorClassifier(), logger: logger.Nop()}, mock
}

func kernelJSON(t *testing.T, k directory.EntryKernel) []byte {
	t.Helper()
	b, err := json.Marshal(k)
	require.NoError(t, err)
	return b
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestSQLiteDirectoryStore_Load(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteDirectoryStore(db, logger.Nop())

	entry := testKernel(2, directory.IDFromServer("srv-2"))
	journal := testKernel(5, directory.IDFromServer("srv-5"))
	journal.IsDel = true

	progress, err := json.Marshal(map[models.ModelType]string{models.Bookmarks: "token"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT metahandle, kernel FROM metas")).
		WillReturnRows(sqlmock.NewRows([]string{"metahandle", "kernel"}).
			AddRow(int64(2), kernelJSON(t, entry)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, kernel FROM deleted_metas")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kernel"}).
			AddRow(string(journal.ID), kernelJSON(t, journal)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM share_info")).
		WillReturnRows(sqlmock.NewRows([]string{"cache_guid", "store_birthday", "bag_of_chips", "download_progress", "max_metahandle"}).
			AddRow("guid", "birthday", []byte{9}, string(progress), int64(11)))

	state, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, state.Entries, 1)
	assert.True(t, state.Entries[0].Equal(&entry))
	require.Len(t, state.DeleteJournals, 1)
	assert.True(t, state.DeleteJournals[0].IsDel)
	assert.Equal(t, "guid", state.Info.CacheGUID)
	assert.Equal(t, "birthday", state.Info.StoreBirthday)
	assert.Equal(t, []byte{9}, state.Info.BagOfChips)
	assert.Equal(t, "token", state.Info.DownloadProgress[models.Bookmarks])
	assert.Equal(t, int64(11), state.MaxMetahandle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDirectoryStore_LoadFreshDatabase(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteDirectoryStore(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM metas")).WillReturnRows(sqlmock.NewRows([]string{"metahandle", "kernel"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM deleted_metas")).WillReturnRows(sqlmock.NewRows([]string{"id", "kernel"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM share_info")).
		WillReturnRows(sqlmock.NewRows([]string{"cache_guid", "store_birthday", "bag_of_chips", "download_progress", "max_metahandle"}))

	state, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, state.Entries)
	assert.Empty(t, state.Info.CacheGUID)
	assert.NotNil(t, state.Info.DownloadProgress)
	assert.Zero(t, state.MaxMetahandle)
}

func TestSQLiteDirectoryStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
		want  error
	}{
		{
			name: "query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM metas")).WillReturnError(errors.New("disk I/O error"))
			},
			want: ErrExecutingQuery,
		},
		{
			name: "corrupted kernel",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM metas")).
					WillReturnRows(sqlmock.NewRows([]string{"metahandle", "kernel"}).AddRow(int64(1), []byte("{broken")))
			},
			want: ErrCorruptedKernel,
		},
		{
			name: "corrupted download progress",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM metas")).WillReturnRows(sqlmock.NewRows([]string{"metahandle", "kernel"}))
				mock.ExpectQuery(regexp.QuoteMeta("FROM deleted_metas")).WillReturnRows(sqlmock.NewRows([]string{"id", "kernel"}))
				mock.ExpectQuery(regexp.QuoteMeta("FROM share_info")).
					WillReturnRows(sqlmock.NewRows([]string{"cache_guid", "store_birthday", "bag_of_chips", "download_progress", "max_metahandle"}).
						AddRow("guid", "", nil, "not json", int64(0)))
			},
			want: ErrCorruptedInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			tt.setup(mock)

			_, err := NewSQLiteDirectoryStore(db, logger.Nop()).Load(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ── SaveChanges ──────────────────────────────────────────────────────────────

func TestSQLiteDirectoryStore_SaveChanges(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteDirectoryStore(db, logger.Nop())

	snapshot := &directory.SaveChangesSnapshot{
		Info:                  directory.PersistedKernelInfo{CacheGUID: "guid"}.Clone(),
		InfoDirty:             true,
		DirtyMetas:            []directory.EntryKernel{testKernel(1, directory.RootID), testKernel(2, directory.NewLocalID())},
		MetahandlesToPurge:    []int64{3},
		DeleteJournals:        []directory.EntryKernel{testKernel(4, directory.IDFromServer("gone"))},
		DeleteJournalsToPurge: []directory.ID{directory.IDFromServer("old")},
		MaxMetahandle:         4,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO metas")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO metas")).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM metas WHERE metahandle IN (?)")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO deleted_metas")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM deleted_metas WHERE id IN (?)")).
		WithArgs(string(directory.IDFromServer("old"))).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO share_info")).
		WithArgs(1, "guid", "", sqlmock.AnyArg(), "{}", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveChanges(context.Background(), snapshot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDirectoryStore_SaveChangesOnlyBumpsMaxMetahandle(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteDirectoryStore(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO metas")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE share_info SET max_metahandle = MAX(max_metahandle, ?)")).
		WithArgs(int64(8), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SaveChanges(context.Background(), &directory.SaveChangesSnapshot{
		DirtyMetas:    []directory.EntryKernel{testKernel(8, directory.NewLocalID())},
		MaxMetahandle: 8,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDirectoryStore_SaveChangesRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteDirectoryStore(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO metas")).WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err := store.SaveChanges(context.Background(), &directory.SaveChangesSnapshot{
		DirtyMetas:    []directory.EntryKernel{testKernel(1, directory.RootID)},
		MaxMetahandle: 1,
	})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDirectoryStore_SaveChangesBeginFails(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := NewSQLiteDirectoryStore(db, logger.Nop()).SaveChanges(context.Background(), &directory.SaveChangesSnapshot{})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestSQLiteDirectoryStore_SaveChangesCommitFails(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE share_info")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err := NewSQLiteDirectoryStore(db, logger.Nop()).SaveChanges(context.Background(), &directory.SaveChangesSnapshot{})
	assert.ErrorIs(t, err, ErrCommitingTransaction)
}

func TestSQLiteDirectoryStore_SaveChangesRetriesWhileBusy(t *testing.T) {
	db, mock := newTestDB(t)
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE share_info")).WillReturnError(busy)
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE share_info")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewSQLiteDirectoryStore(db, logger.Nop()).SaveChanges(context.Background(), &directory.SaveChangesSnapshot{MaxMetahandle: 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDirectoryStore_SaveChangesGivesUpWhenAlwaysBusy(t *testing.T) {
	db, mock := newTestDB(t)
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}

	for range busyRetries + 1 {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE share_info")).WillReturnError(busy)
		mock.ExpectRollback()
	}

	err := NewSQLiteDirectoryStore(db, logger.Nop()).SaveChanges(context.Background(), &directory.SaveChangesSnapshot{})
	assert.ErrorIs(t, err, ErrExecutingStatement)

	var sqliteErr sqlite3.Error
	require.ErrorAs(t, err, &sqliteErr)
	assert.Equal(t, sqlite3.ErrBusy, sqliteErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Invalidations ────────────────────────────────────────────────────────────

func TestSQLiteInvalidationStore_Load(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteInvalidationStore(db, logger.Nop())

	id := models.ObjectIDForModelType(models.Bookmarks)
	invs, err := json.Marshal([]models.Invalidation{models.NewInvalidation(id, 3, "payload")})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM unacked_invalidations")).
		WillReturnRows(sqlmock.NewRows([]string{"object_source", "object_name", "invalidations"}).
			AddRow(id.Source, id.Name, string(invs)))

	states, err := store.LoadInvalidationState(context.Background())
	require.NoError(t, err)

	require.Len(t, states, 1)
	assert.Equal(t, id, states[0].ObjectID)
	require.Len(t, states[0].Invalidations, 1)
	assert.Equal(t, "payload", states[0].Invalidations[0].Payload)
}

func TestSQLiteInvalidationStore_LoadCorrupted(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM unacked_invalidations")).
		WillReturnRows(sqlmock.NewRows([]string{"object_source", "object_name", "invalidations"}).
			AddRow(models.SyncObjectSource, "BOOKMARKS", "["))

	_, err := NewSQLiteInvalidationStore(db, logger.Nop()).LoadInvalidationState(context.Background())
	assert.ErrorIs(t, err, ErrCorruptedInvalidations)
}

func TestSQLiteInvalidationStore_SaveReplacesEverything(t *testing.T) {
	db, mock := newTestDB(t)
	store := NewSQLiteInvalidationStore(db, logger.Nop())

	id := models.ObjectIDForModelType(models.Bookmarks)
	states := []invalidation.UnackedState{
		{ObjectID: id, Invalidations: []models.Invalidation{models.NewUnknownVersionInvalidation(id)}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM unacked_invalidations")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO unacked_invalidations")).
		WithArgs(id.Source, id.Name, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveInvalidationState(context.Background(), states))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteInvalidationStore_SaveEmptyOnlyClears(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM unacked_invalidations")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, NewSQLiteInvalidationStore(db, logger.Nop()).SaveInvalidationState(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteInvalidationStore_SaveRollsBack(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM unacked_invalidations")).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := NewSQLiteInvalidationStore(db, logger.Nop()).SaveInvalidationState(context.Background(), nil)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}
