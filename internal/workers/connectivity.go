package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

const defaultPingInterval = 15 * time.Second

// ConnectivityWorker pings the server while the connection is down. The
// transport itself reports the recovery to its observers.
type ConnectivityWorker struct {
	pinger Pinger
	logger *logger.Logger

	t *ticker
}

func NewConnectivityWorker(pinger Pinger, interval time.Duration, logger *logger.Logger) *ConnectivityWorker {
	if interval <= 0 {
		interval = defaultPingInterval
	}

	w := &ConnectivityWorker{pinger: pinger, logger: logger}
	w.t = &ticker{interval: interval, fn: w.ping}
	return w
}

func (w *ConnectivityWorker) Start(ctx context.Context) {
	w.t.start(ctx)
}

func (w *ConnectivityWorker) Stop() {
	w.t.stop()
}

func (w *ConnectivityWorker) ping(ctx context.Context) {
	if w.pinger.IsConnected() {
		return
	}
	if err := w.pinger.Ping(ctx); err != nil {
		w.logger.Debug().Err(err).Str("func", "*ConnectivityWorker.ping").Msg("server still unreachable")
	}
}
