// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics exposes the sync engine's prometheus collectors.
//
// [Metrics] owns a private registry and plugs into the engine through the
// recorder interfaces of the syncer, the scheduler and the invalidation
// listener.
package metrics

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sync"

type Metrics struct {
	registry *prometheus.Registry

	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	downloaded    *prometheus.CounterVec
	applied       *prometheus.CounterVec
	committed     *prometheus.CounterVec

	protocolErrors *prometheus.CounterVec
	retryAt        prometheus.Gauge
	throttledTypes prometheus.Gauge

	invalidationsReceived prometheus.Counter
	invalidationsBuffered prometheus.Gauge

	saves        *prometheus.CounterVec
	saveDuration prometheus.Histogram
}

var (
	_ syncer.CycleRecorder  = (*Metrics)(nil)
	_ scheduler.Observer    = (*Metrics)(nil)
	_ invalidation.Recorder = (*Metrics)(nil)
)

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Finished sync cycles by origin and outcome",
		}, []string{"origin", "result"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of sync cycles",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"origin"}),
		downloaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_downloaded_total",
			Help:      "Downloaded updates by what the processor did with them",
		}, []string{"kind"}),
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_applied_total",
			Help:      "Applied updates by conflict classification",
		}, []string{"kind"}),
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_items_total",
			Help:      "Committed items by server verdict",
		}, []string{"outcome"}),

		protocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actionable_errors_total",
			Help:      "Protocol errors that stopped the sync session",
		}, []string{"type", "action"}),
		retryAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "retry_at_timestamp_seconds",
			Help:      "Unix time of the next scheduled retry, zero when none",
		}),
		throttledTypes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throttled_types",
			Help:      "Number of model types throttled by the server",
		}),

		invalidationsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_received_total",
			Help:      "Invalidations received from the notification channel",
		}),
		invalidationsBuffered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "invalidations_buffered",
			Help:      "Invalidations waiting for acknowledgement",
		}),

		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_saves_total",
			Help:      "Directory persistence attempts by outcome",
		}, []string{"result"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "directory_save_duration_seconds",
			Help:      "Duration of directory persistence",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cycles, m.cycleDuration, m.downloaded, m.applied, m.committed,
		m.protocolErrors, m.retryAt, m.throttledTypes,
		m.invalidationsReceived, m.invalidationsBuffered,
		m.saves, m.saveDuration,
	)
	return m
}

// Register adds extra collectors, such as a storage engine collector.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCycle implements [syncer.CycleRecorder].
func (m *Metrics) RecordCycle(status syncer.CycleStatus) {
	origin := status.Origin.String()
	m.cycles.WithLabelValues(origin, cycleResult(status)).Inc()
	if !status.StartedAt.IsZero() && status.FinishedAt.After(status.StartedAt) {
		m.cycleDuration.WithLabelValues(origin).Observe(status.FinishedAt.Sub(status.StartedAt).Seconds())
	}

	d := status.Download
	m.downloaded.WithLabelValues("stored").Add(float64(d.Stored))
	m.downloaded.WithLabelValues("reflected").Add(float64(d.Reflected))
	m.downloaded.WithLabelValues("skipped").Add(float64(d.Skipped))
	m.downloaded.WithLabelValues("invalid").Add(float64(d.Invalid))

	u := status.Updates
	m.applied.WithLabelValues("applied").Add(float64(u.UpdatesApplied))
	m.applied.WithLabelValues("hierarchy_conflict").Add(float64(u.HierarchyConflicts))
	m.applied.WithLabelValues("encryption_conflict").Add(float64(u.EncryptionConflicts))
	m.applied.WithLabelValues("server_overwrite").Add(float64(u.ServerOverwrites))

	c := status.Commit
	m.committed.WithLabelValues("success").Add(float64(c.Successes))
	m.committed.WithLabelValues("conflict").Add(float64(c.Conflicts))
	m.committed.WithLabelValues("transient_error").Add(float64(c.TransientErrors))
	m.committed.WithLabelValues("error").Add(float64(c.Errors))
}

// cycleResult names the first failing half of a cycle, or "ok".
func cycleResult(status syncer.CycleStatus) string {
	switch {
	case status.DownloadResult.IsActualError():
		return status.DownloadResult.String()
	case status.CommitResult.IsActualError():
		return status.CommitResult.String()
	default:
		return "ok"
	}
}

// OnRetryTimeChanged implements [scheduler.Observer].
func (m *Metrics) OnRetryTimeChanged(retryAt time.Time) {
	if retryAt.IsZero() {
		m.retryAt.Set(0)
		return
	}
	m.retryAt.Set(float64(retryAt.Unix()))
}

// OnThrottledTypesChanged implements [scheduler.Observer].
func (m *Metrics) OnThrottledTypesChanged(types models.ModelTypeSet) {
	m.throttledTypes.Set(float64(types.Len()))
}

// OnActionableError implements [scheduler.Observer].
func (m *Metrics) OnActionableError(err models.SyncProtocolError) {
	m.protocolErrors.WithLabelValues(err.ErrorType.String(), err.Action.String()).Inc()
}

// RecordInvalidations implements [invalidation.Recorder].
func (m *Metrics) RecordInvalidations(received, buffered int) {
	m.invalidationsReceived.Add(float64(received))
	m.invalidationsBuffered.Set(float64(buffered))
}

// RecordSave counts one directory persistence attempt.
func (m *Metrics) RecordSave(err error, took time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(result).Inc()
	m.saveDuration.Observe(took.Seconds())
}
