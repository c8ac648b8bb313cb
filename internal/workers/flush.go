// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

const (
	defaultFlushInterval = 10 * time.Second
	finalFlushTimeout    = 5 * time.Second
)

// FlushWorker saves the directory on a ticker and once more when stopped.
// A failed save leaves the changes dirty, so the next tick retries them.
type FlushWorker struct {
	saver    Saver
	recorder SaveRecorder
	logger   *logger.Logger

	t *ticker
}

// NewFlushWorker creates an idle flush worker. recorder may be nil. A zero
// or negative interval defaults to 10 seconds.
func NewFlushWorker(saver Saver, interval time.Duration, recorder SaveRecorder, logger *logger.Logger) *FlushWorker {
	if interval <= 0 {
		interval = defaultFlushInterval
	}

	w := &FlushWorker{saver: saver, recorder: recorder, logger: logger}
	w.t = &ticker{interval: interval, fn: func(ctx context.Context) { _ = w.Flush(ctx) }}
	return w
}

func (w *FlushWorker) Start(ctx context.Context) {
	w.t.start(ctx)
}

// Stop ends the loop and performs a final flush if the worker was running.
func (w *FlushWorker) Stop() {
	if !w.t.stop() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
	defer cancel()
	_ = w.Flush(ctx)
}

// Flush saves pending changes now.
func (w *FlushWorker) Flush(ctx context.Context) error {
	start := time.Now()
	err := w.saver.SaveChanges(ctx)
	if w.recorder != nil {
		w.recorder.RecordSave(err, time.Since(start))
	}
	if err != nil {
		w.logger.Err(err).Str("func", "*FlushWorker.Flush").Msg("failed to save directory")
		return err
	}
	return nil
}
