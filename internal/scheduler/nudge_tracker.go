package scheduler

import (
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/models"
)

const (
	DefaultLocalNudgeDelay         = 200 * time.Millisecond
	DefaultRemoteInvalidationDelay = 250 * time.Millisecond
	DefaultLocalRefreshDelay       = 0
)

type typeTracker struct {
	localNudges      int
	refreshRequested bool
	invalidations    []models.Invalidation
	throttledUntil   time.Time
}

func (t *typeTracker) syncRequired() bool {
	return t.localNudges > 0 || t.refreshRequested || len(t.invalidations) > 0
}

func (t *typeTracker) throttled() bool {
	return !t.throttledUntil.IsZero()
}

// NudgeTracker records why each type needs a sync cycle and which types are
// throttled. It does no I/O: invalidations to acknowledge or drop are
// returned to the caller.
type NudgeTracker struct {
	types            map[models.ModelType]*typeTracker
	localDelay       time.Duration
	remoteDelay      time.Duration
	maxInvalidations int
}

func NewNudgeTracker(localDelay, remoteDelay time.Duration, maxInvalidations int) *NudgeTracker {
	if localDelay <= 0 {
		localDelay = DefaultLocalNudgeDelay
	}
	if remoteDelay <= 0 {
		remoteDelay = DefaultRemoteInvalidationDelay
	}
	if maxInvalidations <= 0 {
		maxInvalidations = invalidation.DefaultMaxBufferedInvalidations
	}
	return &NudgeTracker{
		types:            make(map[models.ModelType]*typeTracker),
		localDelay:       localDelay,
		remoteDelay:      remoteDelay,
		maxInvalidations: maxInvalidations,
	}
}

func (n *NudgeTracker) tracker(t models.ModelType) *typeTracker {
	tt, ok := n.types[t]
	if !ok {
		tt = &typeTracker{}
		n.types[t] = tt
	}
	return tt
}

// RecordLocalChange notes local edits of types and returns the nudge delay.
func (n *NudgeTracker) RecordLocalChange(types models.ModelTypeSet) time.Duration {
	for _, t := range types.Slice() {
		n.tracker(t).localNudges++
	}
	return n.localDelay
}

// RecordLocalRefreshRequest notes that types should be refetched.
func (n *NudgeTracker) RecordLocalRefreshRequest(types models.ModelTypeSet) time.Duration {
	for _, t := range types.Slice() {
		n.tracker(t).refreshRequested = true
	}
	return DefaultLocalRefreshDelay
}

// RecordRemoteInvalidation buffers inv for its type. Invalidations already
// buffered are ignored. When the buffer overflows the oldest entries are
// returned in dropped. ok is false for object ids that name no model type.
func (n *NudgeTracker) RecordRemoteInvalidation(inv models.Invalidation) (delay time.Duration, dropped []models.Invalidation, ok bool) {
	t, ok := inv.ObjectID.ModelType()
	if !ok {
		return 0, nil, false
	}
	tt := n.tracker(t)
	for _, buffered := range tt.invalidations {
		if buffered.AckHandle.Equals(inv.AckHandle) {
			return n.remoteDelay, nil, true
		}
	}
	tt.invalidations = append(tt.invalidations, inv)
	if over := len(tt.invalidations) - n.maxInvalidations; over > 0 {
		dropped = append(dropped, tt.invalidations[:over]...)
		tt.invalidations = append([]models.Invalidation(nil), tt.invalidations[over:]...)
	}
	return n.remoteDelay, dropped, true
}

// IsSyncRequired reports whether any unthrottled type of types has a
// reason to sync.
func (n *NudgeTracker) IsSyncRequired(types models.ModelTypeSet) bool {
	return !n.GetNudgedTypes(types).Empty()
}

// IsGetUpdatesRequired reports whether any unthrottled type of types was
// refreshed or invalidated.
func (n *NudgeTracker) IsGetUpdatesRequired(types models.ModelTypeSet) bool {
	for t, tt := range n.types {
		if types.Has(t) && !tt.throttled() && (tt.refreshRequested || len(tt.invalidations) > 0) {
			return true
		}
	}
	return false
}

// GetNudgedTypes returns the unthrottled types of types with a reason to
// sync.
func (n *NudgeTracker) GetNudgedTypes(types models.ModelTypeSet) models.ModelTypeSet {
	var nudged models.ModelTypeSet
	for t, tt := range n.types {
		if types.Has(t) && !tt.throttled() && tt.syncRequired() {
			nudged = nudged.With(t)
		}
	}
	return nudged
}

// RecordSuccessfulSyncCycle clears the nudge state of types and returns
// their buffered invalidations, which the cycle has now covered.
func (n *NudgeTracker) RecordSuccessfulSyncCycle(types models.ModelTypeSet) []models.Invalidation {
	var covered []models.Invalidation
	for t, tt := range n.types {
		if !types.Has(t) || tt.throttled() {
			continue
		}
		covered = append(covered, tt.invalidations...)
		tt.localNudges = 0
		tt.refreshRequested = false
		tt.invalidations = nil
	}
	return covered
}

// SetTypesThrottledUntil throttles types until the given time.
func (n *NudgeTracker) SetTypesThrottledUntil(types models.ModelTypeSet, until time.Time) {
	for _, t := range types.Slice() {
		n.tracker(t).throttledUntil = until
	}
}

// UpdateTypeThrottlingState unthrottles the types whose throttle expired
// and reports whether anything changed.
func (n *NudgeTracker) UpdateTypeThrottlingState(now time.Time) bool {
	changed := false
	for _, tt := range n.types {
		if tt.throttled() && !tt.throttledUntil.After(now) {
			tt.throttledUntil = time.Time{}
			changed = true
		}
	}
	return changed
}

func (n *NudgeTracker) GetThrottledTypes() models.ModelTypeSet {
	var throttled models.ModelTypeSet
	for t, tt := range n.types {
		if tt.throttled() {
			throttled = throttled.With(t)
		}
	}
	return throttled
}

func (n *NudgeTracker) IsAnyTypeThrottled() bool {
	return !n.GetThrottledTypes().Empty()
}

func (n *NudgeTracker) IsTypeThrottled(t models.ModelType) bool {
	tt, ok := n.types[t]
	return ok && tt.throttled()
}

// NextUnthrottleTime returns the earliest throttle expiry.
func (n *NudgeTracker) NextUnthrottleTime() (time.Time, bool) {
	var next time.Time
	for _, tt := range n.types {
		if tt.throttled() && (next.IsZero() || tt.throttledUntil.Before(next)) {
			next = tt.throttledUntil
		}
	}
	return next, !next.IsZero()
}

// Statuses returns the state of every tracked type.
func (n *NudgeTracker) Statuses() []TypeStatus {
	out := make([]TypeStatus, 0, len(n.types))
	for t, tt := range n.types {
		out = append(out, TypeStatus{
			Type:                 t,
			Name:                 t.String(),
			LocalNudges:          tt.localNudges,
			RefreshRequested:     tt.refreshRequested,
			PendingInvalidations: len(tt.invalidations),
			ThrottledUntil:       tt.throttledUntil,
		})
	}
	return out
}
