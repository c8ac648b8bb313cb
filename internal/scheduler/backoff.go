package scheduler

import (
	"errors"
	"time"

	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultInitialBackoff      = 30 * time.Second
	DefaultShortInitialBackoff = time.Second
	DefaultMaxBackoff          = 4 * time.Hour
	DefaultJitterPercent       = 50
)

// BackoffProvider produces the exponential backoff delays of one failure
// streak. The streak starts with Start and ends with Reset.
type BackoffProvider struct {
	initial      time.Duration
	shortInitial time.Duration
	max          time.Duration
	jitter       uint64

	seq retry.Backoff
}

func NewBackoffProvider(initial, shortInitial, max time.Duration, jitterPercent uint64) *BackoffProvider {
	if initial <= 0 {
		initial = DefaultInitialBackoff
	}
	if shortInitial <= 0 {
		shortInitial = DefaultShortInitialBackoff
	}
	if max <= 0 {
		max = DefaultMaxBackoff
	}
	if jitterPercent > 100 {
		jitterPercent = 100
	}
	return &BackoffProvider{initial: initial, shortInitial: shortInitial, max: max, jitter: jitterPercent}
}

// Start begins a streak after the failure err and returns its first delay.
func (p *BackoffProvider) Start(err error) time.Duration {
	var seq retry.Backoff = retry.NewExponential(p.InitialDelay(err))
	if p.jitter > 0 {
		seq = retry.WithJitterPercent(p.jitter, seq)
	}
	p.seq = retry.WithCappedDuration(p.max, seq)
	return p.Next()
}

// Next returns the delay after one more failure of the current streak.
func (p *BackoffProvider) Next() time.Duration {
	if p.seq == nil {
		return p.max
	}
	d, stop := p.seq.Next()
	if stop {
		return p.max
	}
	return min(d, p.max)
}

// Reset ends the streak.
func (p *BackoffProvider) Reset() {
	p.seq = nil
}

// InBackoff reports whether a streak is running.
func (p *BackoffProvider) InBackoff() bool {
	return p.seq != nil
}

// InitialDelay picks the first delay for err. Failures that clear up by
// themselves retry sooner.
func (p *BackoffProvider) InitialDelay(err error) time.Duration {
	var se models.SyncerError
	if !errors.As(err, &se) {
		var perr models.SyncProtocolError
		if !errors.As(err, &perr) {
			return p.initial
		}
		se = models.SyncerErrorFromProtocol(perr.ErrorType)
	}

	switch se {
	case models.NetworkConnectionUnavailable,
		models.ServerReturnConflict,
		models.ServerReturnMigrationDone,
		models.DatatypeTriggeredRetry:
		return p.shortInitial
	default:
		return p.initial
	}
}
