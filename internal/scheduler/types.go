package scheduler

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-engine/models"
)

// Mode selects which jobs the scheduler runs.
type Mode int

const (
	// NormalMode runs nudge and poll jobs.
	NormalMode Mode = iota
	// ConfigurationMode runs only the pending configuration job.
	ConfigurationMode
)

func (m Mode) String() string {
	switch m {
	case NormalMode:
		return "NORMAL_MODE"
	case ConfigurationMode:
		return "CONFIGURATION_MODE"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// WaitMode is the kind of suspension the scheduler is in.
type WaitMode int

const (
	ExponentialBackoff WaitMode = iota + 1
	Throttled
)

func (m WaitMode) String() string {
	switch m {
	case ExponentialBackoff:
		return "EXPONENTIAL_BACKOFF"
	case Throttled:
		return "THROTTLED"
	default:
		return fmt.Sprintf("WaitMode(%d)", int(m))
	}
}

// WaitInterval is the current global suspension.
type WaitInterval struct {
	Mode   WaitMode      `json:"mode"`
	Length time.Duration `json:"length"`
}

// JobPriority separates ordinary jobs from canary jobs, the only jobs
// allowed to run while backing off.
type JobPriority int

const (
	NormalPriority JobPriority = iota
	CanaryPriority
)

// NudgeSource tells why a nudge was requested.
type NudgeSource int

const (
	SourceLocal NudgeSource = iota
	SourceLocalRefresh
	SourceNotification
)

func (s NudgeSource) String() string {
	switch s {
	case SourceLocal:
		return "LOCAL"
	case SourceLocalRefresh:
		return "LOCAL_REFRESH"
	case SourceNotification:
		return "NOTIFICATION"
	default:
		return fmt.Sprintf("NudgeSource(%d)", int(s))
	}
}

// ConfigurationParams describes one configuration job. Ready is called
// after the job succeeded.
type ConfigurationParams struct {
	Types  models.ModelTypeSet
	Origin models.GetUpdatesOrigin
	Ready  func()
}

// TypeStatus is the per-type nudge and throttle state shown by inspection.
type TypeStatus struct {
	Type                 models.ModelType `json:"-"`
	Name                 string           `json:"type"`
	LocalNudges          int              `json:"local_nudges"`
	RefreshRequested     bool             `json:"refresh_requested"`
	PendingInvalidations int              `json:"pending_invalidations"`
	ThrottledUntil       time.Time        `json:"throttled_until,omitzero"`
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Started       bool          `json:"started"`
	Mode          string        `json:"mode"`
	Wait          *WaitInterval `json:"wait,omitempty"`
	RetryAt       time.Time     `json:"retry_at,omitzero"`
	NextNudgeAt   time.Time     `json:"next_nudge_at,omitzero"`
	NextPollAt    time.Time     `json:"next_poll_at,omitzero"`
	PendingConfig bool          `json:"pending_configuration"`
	SessionError  string        `json:"session_error,omitempty"`
	Types         []TypeStatus  `json:"types"`
}
