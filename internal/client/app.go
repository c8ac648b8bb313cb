package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/adapter"
	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/crypto"
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/encryption"
	handler "github.com/MKhiriev/go-sync-engine/internal/handler/http"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/metrics"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/server"
	"github.com/MKhiriev/go-sync-engine/internal/service"
	"github.com/MKhiriev/go-sync-engine/internal/store"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/internal/validators"
	"github.com/MKhiriev/go-sync-engine/internal/workers"
	"github.com/MKhiriev/go-sync-engine/models"
)

const (
	directoryName    = "SyncData"
	decryptCacheSize = 1024
	shutdownTimeout  = 10 * time.Second
)

type App struct {
	dir       *directory.Directory
	enc       *encryption.Manager
	transport adapter.ServerAdapter
	syncer    *syncer.Syncer
	scheduler *scheduler.Scheduler
	listener  *invalidation.Listener
	services  *service.Services
	workers   *workers.Workers
	server    server.Server
	metrics   *metrics.Metrics

	logger *logger.Logger
}

// NewApp opens the directory and builds every engine component. Nothing
// runs until Run is called.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	dir, err := directory.Open(ctx, directoryName, storages.Directory, log)
	if err != nil {
		_ = storages.Directory.Close()
		return nil, fmt.Errorf("open directory: %w", err)
	}

	a := &App{dir: dir, metrics: metrics.New(), logger: log}
	if err = a.build(ctx, cfg, storages, buildInfo); err != nil {
		if closeErr := dir.Close(ctx); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, cfg *config.ClientConfig, storages *store.ClientStorages, buildInfo models.AppBuildInfo) error {
	log := a.logger

	if pebbleStore, ok := storages.Directory.(*store.PebbleStore); ok {
		if err := a.metrics.Register(pebbleStore.Collector()); err != nil {
			return fmt.Errorf("register pebble collector: %w", err)
		}
	}

	a.enc = encryption.NewManager(a.dir, crypto.NewCryptographer(decryptCacheSize), log)
	if err := a.enc.Init(); err != nil {
		return fmt.Errorf("init encryption: %w", err)
	}

	transport, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return fmt.Errorf("create server adapter: %w", err)
	}
	a.transport = transport

	defaults := service.NewDefaultValues()
	a.syncer = syncer.NewSyncer(a.dir, transport, a.enc, validators.NewSyncEntityValidator(), log,
		syncer.WithCycleRecorder(a.metrics),
		syncer.WithDefaultFieldValues(defaults),
	)

	a.listener = invalidation.NewListener(storages.Invalidations, cfg.Invalidation.MaxBuffered, log,
		invalidation.WithRecorder(a.metrics),
	)

	a.scheduler = scheduler.NewScheduler(a.syncer, cfg.Scheduler, log,
		scheduler.WithConnectionGate(transport),
		scheduler.WithAckSink(a.listener),
		scheduler.WithObserver(a.metrics),
	)
	transport.OnConnectionChange(a.scheduler.OnConnectionStatusChange)

	// acks and drops must still reach the store while shutting down
	a.services = service.NewServices(context.WithoutCancel(ctx), a.dir, a.scheduler, a.enc, defaults, log)
	a.services.Changes.AddObserver(changeLogger{logger: log})
	a.enc.AddObserver(&encryptionObserver{nudger: a.scheduler, logger: log})

	a.workers = workers.NewWorkers(
		workers.NewFlushWorker(a.dir, cfg.Workers.FlushInterval, a.metrics, log),
		workers.NewConnectivityWorker(transport, 0, log),
	)

	status := &engineStatus{
		dir:       a.dir,
		scheduler: a.scheduler,
		cycles:    a.syncer,
		unacked:   a.listener,
		conn:      transport,
	}
	h := handler.NewHandler(handler.Dependencies{
		Items:          a.services.Items,
		DeleteJournals: a.services.DeleteJournals,
		Status:         status,
		Invalidations:  a.listener,
		Credentials:    status,
		Encryption:     a.enc,
		Metrics:        a.metrics.Handler(),
		BuildInfo:      buildInfo,
		HashKey:        cfg.App.HashKey,
	}, log)

	a.server, err = server.NewServer(h.Init(), cfg.Server, log)
	switch {
	case server.IsDisabled(err):
		log.Info().Msg("local API address is not configured, API disabled")
		a.server = nil
	case err != nil:
		return fmt.Errorf("create server: %w", err)
	}

	return nil
}

// Run starts the engine: it restores buffered invalidations, configures
// every type and then keeps syncing until ctx is done or SIGTERM, SIGINT or
// SIGQUIT arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := a.start(ctx); err != nil {
		a.shutdown()
		return err
	}

	serverErr := make(chan error, 1)
	if a.server != nil {
		go func() { serverErr <- a.server.RunServer() }()
	}

	var err error
	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutdown requested")
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("local API: %w", err)
		}
	}

	if shutdownErr := a.shutdown(); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}
	return err
}

func (a *App) start(ctx context.Context) error {
	if err := a.listener.Start(ctx); err != nil {
		return err
	}

	types := enabledTypes()
	if err := a.services.Invalidations.Register(ctx, a.listener, types); err != nil {
		return fmt.Errorf("register invalidation handler: %w", err)
	}

	a.scheduler.SetEnabledTypes(types)
	a.scheduler.Start(ctx, scheduler.ConfigurationMode)
	err := a.scheduler.ScheduleConfiguration(scheduler.ConfigurationParams{
		Types:  types,
		Origin: a.configurationOrigin(),
		Ready: func() {
			a.logger.Info().Msg("initial configuration finished")
			a.scheduler.Start(ctx, scheduler.NormalMode)
		},
	})
	if err != nil {
		return fmt.Errorf("schedule configuration: %w", err)
	}

	a.workers.Start(ctx)
	a.logger.Info().Stringer("types", types).Str("cache_guid", a.dir.CacheGUID()).Msg("sync engine started")
	return nil
}

// configurationOrigin tells the server whether this client starts from an
// empty directory.
func (a *App) configurationOrigin() models.GetUpdatesOrigin {
	origin := models.OriginNewClient
	_ = a.dir.Read(func(tx *directory.ReadTransaction) error {
		if tx.InitialSyncEnded(models.Nigori) {
			origin = models.OriginReconfiguration
		}
		return nil
	})
	return origin
}

// shutdown stops the components in reverse start order. The directory goes
// last: its Close saves what the flush worker did not and closes the
// backing store.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.workers.Stop()
	a.scheduler.Stop()

	if err := a.dir.Close(ctx); err != nil {
		a.logger.Err(err).Str("func", "*App.shutdown").Msg("error closing directory")
		errs = append(errs, err)
	}

	a.logger.Info().Msg("sync engine stopped")
	return errors.Join(errs...)
}

func enabledTypes() models.ModelTypeSet {
	return models.UserTypes().Union(models.ControlTypes())
}
