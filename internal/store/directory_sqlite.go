package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// sqliteDirectoryStore is the SQLite implementation of
// [directory.BackingStore]. Every entry is kept as one JSON kernel row in
// "metas"; the indexed columns beside it exist for inspection queries only.
type sqliteDirectoryStore struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteDirectoryStore returns a backing store over an already migrated
// database.
func NewSQLiteDirectoryStore(db *DB, logger *logger.Logger) directory.BackingStore {
	return &sqliteDirectoryStore{DB: db, logger: logger}
}

func (s *sqliteDirectoryStore) Load(ctx context.Context) (*directory.LoadedState, error) {
	state := &directory.LoadedState{}

	entries, err := s.loadKernels(ctx, selectMetas)
	if err != nil {
		return nil, err
	}
	state.Entries = entries

	journals, err := s.loadKernels(ctx, selectDeletedMetas)
	if err != nil {
		return nil, err
	}
	state.DeleteJournals = journals

	if err = s.loadShareInfo(ctx, state); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("func", "*sqliteDirectoryStore.Load").
		Int("entries", len(state.Entries)).
		Int("delete_journals", len(state.DeleteJournals)).
		Msg("directory loaded")
	return state, nil
}

// loadKernels reads (key, kernel) rows produced by query.
func (s *sqliteDirectoryStore) loadKernels(ctx context.Context, query string) ([]directory.EntryKernel, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.loadKernels").Msg("failed to query kernels")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	kernels := make([]directory.EntryKernel, 0, 64)
	for rows.Next() {
		var (
			key  any
			blob []byte
		)
		if err = rows.Scan(&key, &blob); err != nil {
			s.logger.Err(err).Str("func", "*sqliteDirectoryStore.loadKernels").Msg("failed to scan kernel row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		var k directory.EntryKernel
		if err = json.Unmarshal(blob, &k); err != nil {
			s.logger.Err(err).Str("func", "*sqliteDirectoryStore.loadKernels").Any("key", key).Msg("failed to decode kernel")
			return nil, fmt.Errorf("%w: %v: %w", ErrCorruptedKernel, key, err)
		}
		kernels = append(kernels, k)
	}

	if err = rows.Err(); err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.loadKernels").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return kernels, nil
}

func (s *sqliteDirectoryStore) loadShareInfo(ctx context.Context, state *directory.LoadedState) error {
	var (
		info     directory.PersistedKernelInfo
		progress string
	)
	err := s.DB.QueryRowContext(ctx, selectShareInfo).Scan(
		&info.CacheGUID,
		&info.StoreBirthday,
		&info.BagOfChips,
		&progress,
		&state.MaxMetahandle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		state.Info = directory.PersistedKernelInfo{}.Clone()
		return nil
	}
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.loadShareInfo").Msg("failed to read share info")
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = json.Unmarshal([]byte(progress), &info.DownloadProgress); err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.loadShareInfo").Msg("failed to decode download progress")
		return fmt.Errorf("%w: %w", ErrCorruptedInfo, err)
	}
	state.Info = info.Clone()
	return nil
}

// SaveChanges writes the whole snapshot inside one transaction. The
// transaction is replayed while the database is busy.
func (s *sqliteDirectoryStore) SaveChanges(ctx context.Context, snapshot *directory.SaveChangesSnapshot) error {
	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.saveChanges(ctx, snapshot)
	})
}

func (s *sqliteDirectoryStore) saveChanges(ctx context.Context, snapshot *directory.SaveChangesSnapshot) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, k := range snapshot.DirtyMetas {
		if err = execBuilt(ctx, tx, func() (string, []any, error) { return buildUpsertMetaQuery(k) }); err != nil {
			s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Int64("metahandle", k.Metahandle).Msg("failed to save entry")
			return err
		}
	}

	if len(snapshot.MetahandlesToPurge) > 0 {
		if err = execBuilt(ctx, tx, func() (string, []any, error) { return buildPurgeMetasQuery(snapshot.MetahandlesToPurge) }); err != nil {
			s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Msg("failed to purge entries")
			return err
		}
	}

	for _, k := range snapshot.DeleteJournals {
		if err = execBuilt(ctx, tx, func() (string, []any, error) { return buildUpsertDeleteJournalQuery(k) }); err != nil {
			s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Str("id", k.ID.String()).Msg("failed to save delete journal")
			return err
		}
	}

	if len(snapshot.DeleteJournalsToPurge) > 0 {
		if err = execBuilt(ctx, tx, func() (string, []any, error) { return buildPurgeDeleteJournalsQuery(snapshot.DeleteJournalsToPurge) }); err != nil {
			s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Msg("failed to purge delete journals")
			return err
		}
	}

	if snapshot.InfoDirty {
		err = execBuilt(ctx, tx, func() (string, []any, error) {
			return buildUpsertShareInfoQuery(snapshot.Info, snapshot.MaxMetahandle)
		})
	} else {
		err = execBuilt(ctx, tx, func() (string, []any, error) { return buildBumpMaxMetahandleQuery(snapshot.MaxMetahandle) })
	}
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Msg("failed to save share info")
		return err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Err(err).Str("func", "*sqliteDirectoryStore.SaveChanges").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (s *sqliteDirectoryStore) Close() error {
	return s.DB.Close()
}

// execBuilt builds a statement and executes it on tx.
func execBuilt(ctx context.Context, tx *sql.Tx, build func() (string, []any, error)) error {
	query, args, err := build()
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
