// Package workers provides abstractions for managing and running
// background workers of the sync engine.
// It defines the Worker interface and a Workers aggregate that starts and
// stops multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker's goroutine and returns immediately; the work
// stops when ctx is cancelled or Stop is called. Stop blocks until the
// goroutine has exited and is safe to call on a stopped worker.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Start(ctx context.Context) { /* go loop(ctx) */ }
//	func (w *MyWorker) Stop()                     { /* cancel and wait */ }
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Saver persists pending directory changes. It is implemented by
// directory.Directory.
type Saver interface {
	SaveChanges(ctx context.Context) error
}

// SaveRecorder observes every persistence attempt.
type SaveRecorder interface {
	RecordSave(err error, took time.Duration)
}

// Pinger checks the server connection. It is implemented by the transport
// adapter.
type Pinger interface {
	IsConnected() bool
	Ping(ctx context.Context) error
}
