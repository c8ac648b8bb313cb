package scheduler

import "time"

// Clock tells the scheduler the time. Tests replace it.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
