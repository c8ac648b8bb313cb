package scheduler

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/models"
)

// InvalidationHandler feeds invalidations from the listener into the
// scheduler as nudges.
type InvalidationHandler struct {
	ctx context.Context
	s   *Scheduler
}

// NewInvalidationHandler returns a handler for s. ctx bounds the acks and
// drops the scheduler sends back.
func NewInvalidationHandler(ctx context.Context, s *Scheduler) *InvalidationHandler {
	return &InvalidationHandler{ctx: ctx, s: s}
}

func (h *InvalidationHandler) OnInvalidatorStateChange(state invalidation.State) {
	h.s.SetNotificationsEnabled(state == invalidation.Enabled)
}

func (h *InvalidationHandler) OnIncomingInvalidation(invalidations []models.Invalidation) {
	for _, inv := range invalidations {
		h.s.ScheduleInvalidationNudge(h.ctx, inv)
	}
}

func (h *InvalidationHandler) OwnerName() string {
	return "scheduler"
}

// ObjectIDs returns the invalidation ids of types.
func ObjectIDs(types models.ModelTypeSet) []models.ObjectID {
	ids := make([]models.ObjectID, 0, types.Len())
	for _, t := range types.Slice() {
		ids = append(ids, models.ObjectIDForModelType(t))
	}
	return ids
}
