package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

const syncHandlerName = "SyncEngine"

// InvalidationRegistry is the part of invalidation.Listener a handler
// registers with.
type InvalidationRegistry interface {
	RegisterHandler(h invalidation.Handler)
	UpdateRegisteredIDs(ctx context.Context, h invalidation.Handler, ids []models.ObjectID) error
	UnregisterHandler(ctx context.Context, h invalidation.Handler) error
}

// SyncInvalidationHandler forwards server pushes for the enabled types to
// the scheduler and tells it whether pushes can be relied on.
type SyncInvalidationHandler struct {
	sched  InvalidationScheduler
	logger *logger.Logger

	// ctx is handed to the acks and drops the scheduler issues for
	// this handler.
	ctx context.Context
}

func NewSyncInvalidationHandler(ctx context.Context, sched InvalidationScheduler, logger *logger.Logger) *SyncInvalidationHandler {
	return &SyncInvalidationHandler{sched: sched, logger: logger, ctx: context.WithoutCancel(ctx)}
}

// Register subscribes the handler to the object ids of types. It may be
// called again when the enabled types change.
func (h *SyncInvalidationHandler) Register(ctx context.Context, registry InvalidationRegistry, types models.ModelTypeSet) error {
	registry.RegisterHandler(h)

	ids := make([]models.ObjectID, 0, types.Len())
	for _, t := range types.Slice() {
		ids = append(ids, models.ObjectIDForModelType(t))
	}
	if err := registry.UpdateRegisteredIDs(ctx, h, ids); err != nil {
		return fmt.Errorf("register invalidation ids: %w", err)
	}

	h.logger.Info().Str("func", "*SyncInvalidationHandler.Register").Stringer("types", types).Msg("invalidation handler registered")
	return nil
}

// OnInvalidatorStateChange implements invalidation.Handler.
func (h *SyncInvalidationHandler) OnInvalidatorStateChange(state invalidation.State) {
	h.logger.Info().Str("func", "*SyncInvalidationHandler.OnInvalidatorStateChange").Stringer("state", state).Msg("invalidator state changed")
	h.sched.SetNotificationsEnabled(state == invalidation.Enabled)
}

// OnIncomingInvalidation implements invalidation.Handler.
func (h *SyncInvalidationHandler) OnIncomingInvalidation(invalidations []models.Invalidation) {
	for _, inv := range invalidations {
		h.sched.ScheduleInvalidationNudge(h.ctx, inv)
	}
}

// OwnerName implements invalidation.Handler.
func (h *SyncInvalidationHandler) OwnerName() string {
	return syncHandlerName
}

// Unregister removes the handler and its ids from registry.
func (h *SyncInvalidationHandler) Unregister(ctx context.Context, registry InvalidationRegistry) error {
	if err := registry.UnregisterHandler(ctx, h); err != nil {
		return fmt.Errorf("unregister invalidation handler: %w", err)
	}
	return nil
}
