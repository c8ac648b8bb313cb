package invalidation

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/invalidation_mock.go -package=mock

// StateStore persists the unacknowledged invalidations across restarts.
// SaveInvalidationState replaces everything stored before.
type StateStore interface {
	LoadInvalidationState(ctx context.Context) ([]UnackedState, error)
	SaveInvalidationState(ctx context.Context, states []UnackedState) error
}

// Recorder observes invalidation traffic.
type Recorder interface {
	RecordInvalidations(received, buffered int)
}
