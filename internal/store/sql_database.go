package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/migrations"
)

const (
	busyRetries   = 3
	busyBaseDelay = 25 * time.Millisecond
)

// DB wraps the SQLite connection shared by the SQL stores.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// withRetry runs fn again while it fails with an error the classifier marks
// as [Retryable]. fn must be a whole transaction.
func (db *DB) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(busyRetries, retry.NewExponential(busyBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || db.errorClassificator == nil {
			return err
		}
		if db.errorClassificator.Classify(err) == Retryable {
			db.logger.Warn().Err(err).Str("func", "*DB.withRetry").Msg("database busy, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}
