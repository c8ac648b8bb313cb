package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// ClientStorages groups the persistence backends of one client. Both share
// a single database; closing Directory closes it, so Invalidations must not
// be used after the directory is closed.
type ClientStorages struct {
	// Directory is the backing store handed to [directory.Open].
	Directory directory.BackingStore
	// Invalidations keeps unacknowledged invalidations across restarts.
	Invalidations invalidation.StateStore
}

// NewClientStorages initialises the client storage layer for the driver
// selected in cfg. It performs the following steps:
//  1. For sqlite: opens the database file at cfg.DB.DSN, creating it if it
//     does not yet exist, and runs pending schema migrations.
//  2. For pebble: opens (or creates) the pebble directory at cfg.DB.DSN.
//  3. Wires both stores to the opened database.
//
// Returns [ErrUnknownDriver] for any other driver.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	switch cfg.DB.Driver {
	case config.DriverSQLite, "":
		db, err := NewConnectSQLite(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return &ClientStorages{
			Directory:     NewSQLiteDirectoryStore(db, logger),
			Invalidations: NewSQLiteInvalidationStore(db, logger),
		}, nil

	case config.DriverPebble:
		db, err := OpenPebbleStore(cfg.DB.DSN, nil, logger)
		if err != nil {
			return nil, fmt.Errorf("pebble open error: %w", err)
		}

		return &ClientStorages{
			Directory:     db,
			Invalidations: db,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DB.Driver)
}
