package workers

import (
	"context"
	"sync"
	"time"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Start starts every worker in order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops the workers in reverse order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

// ticker runs fn every interval in its own goroutine. It carries the
// start/stop bookkeeping shared by the workers of this package.
type ticker struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// start stops any previously running loop, then launches a new one.
func (t *ticker) start(ctx context.Context) {
	t.stop()

	t.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		tk := time.NewTicker(t.interval)
		defer tk.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-tk.C:
				t.fn(loopCtx)
			}
		}
	}()
}

// stop cancels the loop and waits for it. It reports whether a loop was
// running.
func (t *ticker) stop() bool {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
	return cancel != nil
}
