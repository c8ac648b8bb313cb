package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// sqliteInvalidationStore persists unacknowledged invalidations next to the
// directory tables. It shares the connection with the directory store and
// does not close it.
type sqliteInvalidationStore struct {
	*DB
	logger *logger.Logger
}

func NewSQLiteInvalidationStore(db *DB, logger *logger.Logger) invalidation.StateStore {
	return &sqliteInvalidationStore{DB: db, logger: logger}
}

func (s *sqliteInvalidationStore) LoadInvalidationState(ctx context.Context) ([]invalidation.UnackedState, error) {
	rows, err := s.DB.QueryContext(ctx, selectUnackedInvalidations)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteInvalidationStore.LoadInvalidationState").Msg("failed to query invalidations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var states []invalidation.UnackedState
	for rows.Next() {
		var (
			state invalidation.UnackedState
			invs  string
		)
		if err = rows.Scan(&state.ObjectID.Source, &state.ObjectID.Name, &invs); err != nil {
			s.logger.Err(err).Str("func", "*sqliteInvalidationStore.LoadInvalidationState").Msg("failed to scan invalidation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err = json.Unmarshal([]byte(invs), &state.Invalidations); err != nil {
			s.logger.Err(err).Str("func", "*sqliteInvalidationStore.LoadInvalidationState").
				Str("object_id", state.ObjectID.String()).
				Msg("failed to decode invalidations")
			return nil, fmt.Errorf("%w: %w", ErrCorruptedInvalidations, err)
		}
		states = append(states, state)
	}

	if err = rows.Err(); err != nil {
		s.logger.Err(err).Str("func", "*sqliteInvalidationStore.LoadInvalidationState").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return states, nil
}

// SaveInvalidationState replaces everything stored with states.
func (s *sqliteInvalidationStore) SaveInvalidationState(ctx context.Context, states []invalidation.UnackedState) error {
	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.saveInvalidationState(ctx, states)
	})
}

func (s *sqliteInvalidationStore) saveInvalidationState(ctx context.Context, states []invalidation.UnackedState) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteInvalidationStore.SaveInvalidationState").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteUnackedInvalidations); err != nil {
		s.logger.Err(err).Str("func", "*sqliteInvalidationStore.SaveInvalidationState").Msg("failed to clear invalidations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if len(states) > 0 {
		err = execBuilt(ctx, tx, func() (string, []any, error) { return buildInsertUnackedInvalidationsQuery(states) })
		if err != nil {
			s.logger.Err(err).Str("func", "*sqliteInvalidationStore.SaveInvalidationState").
				Int("objects", len(states)).
				Msg("failed to insert invalidations")
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		s.logger.Err(err).Str("func", "*sqliteInvalidationStore.SaveInvalidationState").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
