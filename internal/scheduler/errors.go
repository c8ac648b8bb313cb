package scheduler

import "errors"

var (
	// ErrConfigurationPending is returned by ScheduleConfiguration while
	// another configuration job has not finished.
	ErrConfigurationPending = errors.New("a configuration job is already pending")
	// ErrNotStarted is returned for requests that need a running scheduler.
	ErrNotStarted = errors.New("scheduler is not started")
	// ErrSessionStopped is returned after an actionable protocol error ended
	// the sync session.
	ErrSessionStopped = errors.New("sync session stopped by protocol error")
)

// ErrWrongMode is returned when a configuration job is requested outside
// configuration mode.
var ErrWrongMode = errors.New("scheduler is not in configuration mode")
