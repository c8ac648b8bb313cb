// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	DefaultPollInterval      = 4 * time.Hour
	DefaultShortPollInterval = time.Minute
	DefaultThrottle          = 2 * time.Minute

	// idleWait is how long the loop sleeps with an empty queue.
	idleWait = time.Hour
)

// Scheduler is the sync state machine. Requests may come from any
// goroutine; jobs run one at a time on the event loop started by Start.
type Scheduler struct {
	runner    SyncRunner
	gate      ConnectionGate
	acks      AckSink
	clock     Clock
	backoff   *BackoffProvider
	nudges    *NudgeTracker
	queue     *taskQueue
	observers []Observer
	statuses  *xsync.MapOf[models.ModelType, TypeStatus]
	log       *logger.Logger

	pollInterval      time.Duration
	shortPollInterval time.Duration
	defaultThrottle   time.Duration

	mu                   sync.Mutex
	started              bool
	mode                 Mode
	wait                 *WaitInterval
	retryAt              time.Time
	enabled              models.ModelTypeSet
	routing              models.ModelTypeSet
	pendingConfig        *ConfigurationParams
	invalidationsEnabled bool
	pollRetry            bool
	sessionErr           *models.SyncProtocolError

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithConnectionGate makes every job wait for valid credentials and a
// connection.
func WithConnectionGate(g ConnectionGate) Option {
	return func(s *Scheduler) { s.gate = g }
}

// WithAckSink routes acknowledgements of covered invalidations to a.
func WithAckSink(a AckSink) Option {
	return func(s *Scheduler) { s.acks = a }
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, o) }
}

// NewScheduler creates a stopped scheduler for every protocol type.
func NewScheduler(runner SyncRunner, cfg config.ClientScheduler, log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:            runner,
		clock:             realClock{},
		backoff:           NewBackoffProvider(cfg.InitialBackoff, cfg.ShortInitialBackoff, cfg.MaxBackoff, cfg.JitterPercent),
		nudges:            NewNudgeTracker(cfg.LocalNudgeDelay, cfg.RemoteInvalidationDelay, cfg.MaxBufferedInvalidations),
		queue:             newTaskQueue(),
		statuses:          xsync.NewMapOf[models.ModelType, TypeStatus](),
		log:               log,
		pollInterval:      orDefault(cfg.PollInterval, DefaultPollInterval),
		shortPollInterval: orDefault(cfg.ShortPollInterval, DefaultShortPollInterval),
		defaultThrottle:   orDefault(cfg.DefaultThrottle, DefaultThrottle),
		enabled:           models.ProtocolTypes(),
		routing:           models.ProtocolTypes(),
		wake:              make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// Start switches to mode and runs the event loop until ctx is done or Stop
// is called. Calling Start on a running scheduler only changes the mode.
func (s *Scheduler) Start(ctx context.Context, mode Mode) {
	s.mu.Lock()
	s.startLocked(mode)
	if s.cancel == nil {
		loopCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.wg.Add(1)
		go s.loop(loopCtx)
	}
	s.mu.Unlock()

	s.log.Info().Str("func", "*Scheduler.Start").Stringer("mode", mode).Msg("scheduler started")
	s.signal()
}

func (s *Scheduler) startLocked(mode Mode) {
	s.started = true
	s.mode = mode
	if mode != NormalMode {
		return
	}
	now := s.clock.Now()
	if s.nudges.IsSyncRequired(s.enabled) {
		s.queue.Schedule(taskNudge, now)
	}
	if _, ok := s.queue.Deadline(taskPoll); !ok {
		s.queue.Schedule(taskPoll, now.Add(s.currentPollIntervalLocked()))
	}
}

// Stop ends the event loop, waits for a running job to return and drops
// every pending task, the pending configuration job and the backoff state.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	s.started = false
	s.queue.Clear()
	s.pendingConfig = nil
	s.wait = nil
	s.retryAt = time.Time{}
	s.sessionErr = nil
	s.backoff.Reset()
	s.mu.Unlock()

	s.log.Info().Str("func", "*Scheduler.Stop").Msg("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(idleWait)
	defer timer.Stop()

	for {
		s.runDueTasks(ctx)

		timer.Reset(s.untilNextTask())
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) untilNextTask() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.queue.Next()
	if !ok {
		return idleWait
	}
	return max(next.Sub(s.clock.Now()), 0)
}

func (s *Scheduler) runDueTasks(ctx context.Context) {
	s.mu.Lock()
	due := s.queue.PopDue(s.clock.Now())
	s.mu.Unlock()

	for _, kind := range due {
		if ctx.Err() != nil {
			return
		}
		s.log.Debug().Str("func", "*Scheduler.runDueTasks").Stringer("task", kind).Msg("running task")
		switch kind {
		case taskNudge:
			s.trySyncCycleJob(ctx, NormalPriority)
		case taskCanary:
			s.trySyncCycleJob(ctx, CanaryPriority)
		case taskConfiguration:
			s.doConfigurationJob(ctx, NormalPriority)
		case taskPoll:
			s.doPollJob(ctx, NormalPriority)
		case taskRetry:
			s.onRetryTimer(ctx)
		case taskUnthrottle:
			s.onUnthrottleTimer(ctx)
		}
	}
}

// ── Requests ─────────────────────────────────────────────────────────────────

// SetEnabledTypes sets the types nudge and poll jobs sync.
func (s *Scheduler) SetEnabledTypes(types models.ModelTypeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = types
	if s.pendingConfig == nil {
		s.routing = types
	}
}

// ScheduleLocalNudge asks for a cycle after local edits of types.
func (s *Scheduler) ScheduleLocalNudge(types models.ModelTypeSet) {
	s.mu.Lock()
	delay := s.nudges.RecordLocalChange(types)
	s.scheduleNudgeLocked(delay, SourceLocal)
	s.mu.Unlock()
	s.publishStatuses()
}

// ScheduleLocalRefreshRequest asks for types to be refetched.
func (s *Scheduler) ScheduleLocalRefreshRequest(types models.ModelTypeSet) {
	s.mu.Lock()
	delay := s.nudges.RecordLocalRefreshRequest(types)
	s.scheduleNudgeLocked(delay, SourceLocalRefresh)
	s.mu.Unlock()
	s.publishStatuses()
}

// ScheduleInvalidationNudge asks for a cycle after a server push. Buffered
// invalidations that no longer fit are dropped back to the listener.
func (s *Scheduler) ScheduleInvalidationNudge(ctx context.Context, inv models.Invalidation) {
	s.mu.Lock()
	delay, dropped, ok := s.nudges.RecordRemoteInvalidation(inv)
	if ok {
		s.scheduleNudgeLocked(delay, SourceNotification)
	}
	s.mu.Unlock()

	if !ok {
		s.log.Warn().Str("func", "*Scheduler.ScheduleInvalidationNudge").Stringer("object_id", inv.ObjectID).
			Msg("invalidation for unknown type")
		s.ack(ctx, inv)
		return
	}
	for _, d := range dropped {
		s.drop(ctx, d)
	}
	s.publishStatuses()
}

// scheduleNudgeLocked keeps the earlier of the queued and the new target
// time.
func (s *Scheduler) scheduleNudgeLocked(delay time.Duration, source NudgeSource) {
	if !s.started {
		// picked up by Start
		return
	}
	target := s.clock.Now().Add(delay)
	if cur, ok := s.queue.Deadline(taskNudge); ok && !target.Before(cur) {
		return
	}
	s.queue.Schedule(taskNudge, target)
	s.log.Debug().Str("func", "*Scheduler.scheduleNudgeLocked").Stringer("source", source).
		Dur("delay", delay).Msg("nudge scheduled")
	s.signal()
}

// ScheduleConfiguration queues a configuration job for params.Types. Only
// one may be pending at a time.
func (s *Scheduler) ScheduleConfiguration(params ConfigurationParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.started:
		return ErrNotStarted
	case s.mode != ConfigurationMode:
		return ErrWrongMode
	case s.pendingConfig != nil:
		return ErrConfigurationPending
	}
	s.pendingConfig = &params
	s.queue.Schedule(taskConfiguration, s.clock.Now())
	s.signal()
	return nil
}

// TryCanaryJob queues one attempt that may run despite backoff.
func (s *Scheduler) TryCanaryJob() {
	s.mu.Lock()
	if s.started {
		s.queue.Schedule(taskCanary, s.clock.Now())
	}
	s.mu.Unlock()
	s.signal()
}

// OnCredentialsUpdated retries pending work after new credentials arrived.
func (s *Scheduler) OnCredentialsUpdated() {
	s.TryCanaryJob()
}

// OnConnectionStatusChange retries pending work once the connection is back.
func (s *Scheduler) OnConnectionStatusChange(connected bool) {
	if connected {
		s.TryCanaryJob()
	}
}

// SetNotificationsEnabled switches between the long poll interval, used
// while invalidations arrive, and the short one.
func (s *Scheduler) SetNotificationsEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidationsEnabled = enabled
	if !s.started || s.mode != NormalMode {
		return
	}
	next := s.clock.Now().Add(s.currentPollIntervalLocked())
	if cur, ok := s.queue.Deadline(taskPoll); !ok || next.Before(cur) {
		s.queue.Schedule(taskPoll, next)
		s.signal()
	}
}

// ── Jobs ─────────────────────────────────────────────────────────────────────

func (s *Scheduler) trySyncCycleJob(ctx context.Context, priority JobPriority) {
	s.mu.Lock()
	mode, pendingConfig := s.mode, s.pendingConfig != nil
	nudged := s.nudges.IsSyncRequired(s.enabled)
	pollRetry := s.pollRetry
	s.mu.Unlock()

	switch {
	case mode == ConfigurationMode:
		if pendingConfig {
			s.doConfigurationJob(ctx, priority)
		}
	case nudged:
		s.doNudgeJob(ctx, priority)
	case pollRetry:
		s.doPollJob(ctx, priority)
	}
}

func (s *Scheduler) doNudgeJob(ctx context.Context, priority JobPriority) {
	s.mu.Lock()
	if reason := s.cannotRunNudgeJobLocked(priority); reason != "" {
		s.mu.Unlock()
		s.log.Debug().Str("func", "*Scheduler.doNudgeJob").Str("reason", reason).Msg("nudge job deferred")
		return
	}
	types := s.nudges.GetNudgedTypes(s.enabled)
	s.mu.Unlock()

	if err := s.runner.NormalSyncShare(ctx, types); err != nil {
		s.handleFailure(ctx, err)
		return
	}

	s.mu.Lock()
	covered := s.nudges.RecordSuccessfulSyncCycle(types)
	s.handleSuccessLocked()
	s.queue.Schedule(taskPoll, s.clock.Now().Add(s.currentPollIntervalLocked()))
	s.mu.Unlock()

	for _, inv := range covered {
		s.ack(ctx, inv)
	}
	s.publishStatuses()
	s.notifyRetryTime(time.Time{})
}

func (s *Scheduler) doConfigurationJob(ctx context.Context, priority JobPriority) {
	s.mu.Lock()
	params := s.pendingConfig
	if params == nil || s.mode != ConfigurationMode {
		s.mu.Unlock()
		return
	}
	if reason := s.cannotRunJobLocked(priority); reason != "" {
		s.mu.Unlock()
		s.log.Debug().Str("func", "*Scheduler.doConfigurationJob").Str("reason", reason).Msg("configuration job deferred")
		return
	}
	s.routing = params.Types
	s.mu.Unlock()

	err := s.runner.ConfigureSyncShare(ctx, params.Types, params.Origin)

	s.mu.Lock()
	s.routing = s.enabled
	if err != nil {
		s.mu.Unlock()
		s.handleFailure(ctx, err)
		return
	}
	s.pendingConfig = nil
	s.handleSuccessLocked()
	s.mu.Unlock()

	s.log.Info().Str("func", "*Scheduler.doConfigurationJob").Stringer("types", params.Types).Msg("configuration done")
	s.notifyRetryTime(time.Time{})
	if params.Ready != nil {
		params.Ready()
	}
}

func (s *Scheduler) doPollJob(ctx context.Context, priority JobPriority) {
	s.mu.Lock()
	if s.started && s.mode == NormalMode {
		s.queue.Schedule(taskPoll, s.clock.Now().Add(s.currentPollIntervalLocked()))
	}
	reason := s.cannotRunJobLocked(priority)
	if reason == "" && s.mode != NormalMode {
		reason = "wrong mode"
	}
	if reason != "" {
		s.mu.Unlock()
		s.log.Debug().Str("func", "*Scheduler.doPollJob").Str("reason", reason).Msg("poll job skipped")
		return
	}
	types := s.enabled.Difference(s.nudges.GetThrottledTypes())
	s.mu.Unlock()

	if err := s.runner.PollSyncShare(ctx, types); err != nil {
		s.mu.Lock()
		s.pollRetry = true
		s.mu.Unlock()
		s.handleFailure(ctx, err)
		return
	}

	s.mu.Lock()
	s.pollRetry = false
	s.handleSuccessLocked()
	s.mu.Unlock()
	s.notifyRetryTime(time.Time{})
}

// cannotRunJobLocked returns why no job may run now, or "".
func (s *Scheduler) cannotRunJobLocked(priority JobPriority) string {
	switch {
	case !s.started:
		return "not started"
	case s.sessionErr != nil:
		return "session stopped"
	case s.gate != nil && !s.gate.HasValidCredentials():
		return "invalid credentials"
	case s.gate != nil && !s.gate.IsConnected():
		return "not connected"
	case s.wait != nil && s.wait.Mode == Throttled:
		return "throttled"
	case s.wait != nil && s.wait.Mode == ExponentialBackoff && priority != CanaryPriority:
		return "backing off"
	}
	return ""
}

func (s *Scheduler) cannotRunNudgeJobLocked(priority JobPriority) string {
	if reason := s.cannotRunJobLocked(priority); reason != "" {
		return reason
	}
	if s.mode != NormalMode {
		return "wrong mode"
	}
	if s.nudges.GetNudgedTypes(s.enabled).Empty() {
		if s.nudges.IsAnyTypeThrottled() {
			return "types throttled"
		}
		return "nothing to sync"
	}
	return ""
}

// ── Outcomes ─────────────────────────────────────────────────────────────────

func (s *Scheduler) handleSuccessLocked() {
	s.wait = nil
	s.retryAt = time.Time{}
	s.backoff.Reset()
	s.queue.Cancel(taskRetry)
}

// handleFailure moves the scheduler into backoff, throttling or the stopped
// session state depending on err.
func (s *Scheduler) handleFailure(ctx context.Context, err error) {
	if ctx.Err() != nil {
		// stopped mid-cycle
		return
	}

	var perr models.SyncProtocolError
	isProtocol := errors.As(err, &perr)
	now := s.clock.Now()

	var notify func()
	s.mu.Lock()
	switch {
	case isProtocol && perr.ErrorType == models.Throttled && !perr.ErrorDataTypes.Empty():
		s.nudges.SetTypesThrottledUntil(perr.ErrorDataTypes, now.Add(s.throttleLength(perr)))
		s.scheduleUnthrottleLocked()
		if s.nudges.IsSyncRequired(s.enabled) {
			// the rest may go on
			s.queue.Schedule(taskNudge, now)
		}
		throttled := s.nudges.GetThrottledTypes()
		notify = func() { s.notifyThrottledTypes(throttled) }

	case isProtocol && perr.ErrorType == models.Throttled:
		length := s.throttleLength(perr)
		s.wait = &WaitInterval{Mode: Throttled, Length: length}
		s.backoff.Reset()
		s.retryAt = now.Add(length)
		s.queue.Schedule(taskRetry, s.retryAt)
		retryAt := s.retryAt
		notify = func() { s.notifyRetryTime(retryAt) }

	case isProtocol && perr.IsActionable():
		s.sessionErr = &perr
		s.queue.Clear()
		s.wait = nil
		s.retryAt = time.Time{}
		s.backoff.Reset()
		notify = func() { s.notifyActionableError(perr) }

	case s.wait != nil && s.wait.Mode == Throttled:
		// only the throttle timer restarts
		s.retryAt = now.Add(s.wait.Length)
		s.queue.Schedule(taskRetry, s.retryAt)
		retryAt := s.retryAt
		notify = func() { s.notifyRetryTime(retryAt) }

	default:
		var length time.Duration
		if s.wait == nil {
			length = s.backoff.Start(err)
		} else {
			length = s.backoff.Next()
		}
		s.wait = &WaitInterval{Mode: ExponentialBackoff, Length: length}
		s.retryAt = now.Add(length)
		s.queue.Schedule(taskRetry, s.retryAt)
		retryAt := s.retryAt
		notify = func() { s.notifyRetryTime(retryAt) }
	}
	wait := s.wait
	s.mu.Unlock()

	ev := s.log.Warn().Err(err).Str("func", "*Scheduler.handleFailure")
	if wait != nil {
		ev = ev.Stringer("wait_mode", wait.Mode).Dur("wait", wait.Length)
	}
	ev.Msg("sync job failed")

	s.publishStatuses()
	notify()
	s.signal()
}

func (s *Scheduler) throttleLength(perr models.SyncProtocolError) time.Duration {
	if perr.Throttle > 0 {
		return perr.Throttle
	}
	return s.defaultThrottle
}

func (s *Scheduler) scheduleUnthrottleLocked() {
	if next, ok := s.nudges.NextUnthrottleTime(); ok {
		s.queue.Schedule(taskUnthrottle, next)
		return
	}
	s.queue.Cancel(taskUnthrottle)
}

func (s *Scheduler) onRetryTimer(ctx context.Context) {
	s.mu.Lock()
	if s.wait != nil && s.wait.Mode == Throttled {
		s.wait = nil
		s.retryAt = time.Time{}
	}
	s.mu.Unlock()

	s.trySyncCycleJob(ctx, CanaryPriority)
}

func (s *Scheduler) onUnthrottleTimer(ctx context.Context) {
	s.mu.Lock()
	changed := s.nudges.UpdateTypeThrottlingState(s.clock.Now())
	s.scheduleUnthrottleLocked()
	throttled := s.nudges.GetThrottledTypes()
	s.mu.Unlock()

	if changed {
		s.publishStatuses()
		s.notifyThrottledTypes(throttled)
	}
	s.trySyncCycleJob(ctx, NormalPriority)
}

func (s *Scheduler) currentPollIntervalLocked() time.Duration {
	if s.invalidationsEnabled {
		return s.pollInterval
	}
	return min(s.pollInterval, s.shortPollInterval)
}

// ── Invalidation acks ────────────────────────────────────────────────────────

func (s *Scheduler) ack(ctx context.Context, inv models.Invalidation) {
	if s.acks == nil {
		return
	}
	if err := s.acks.Acknowledge(ctx, inv.ObjectID, inv.AckHandle); err != nil {
		s.log.Err(err).Str("func", "*Scheduler.ack").Stringer("object_id", inv.ObjectID).Msg("error acknowledging invalidation")
	}
}

func (s *Scheduler) drop(ctx context.Context, inv models.Invalidation) {
	if s.acks == nil {
		return
	}
	if err := s.acks.Drop(ctx, inv.ObjectID, inv.AckHandle); err != nil {
		s.log.Err(err).Str("func", "*Scheduler.drop").Stringer("object_id", inv.ObjectID).Msg("error dropping invalidation")
	}
}

// ── Observers ────────────────────────────────────────────────────────────────

func (s *Scheduler) notifyRetryTime(at time.Time) {
	for _, o := range s.observers {
		o.OnRetryTimeChanged(at)
	}
}

func (s *Scheduler) notifyThrottledTypes(types models.ModelTypeSet) {
	for _, o := range s.observers {
		o.OnThrottledTypesChanged(types)
	}
}

func (s *Scheduler) notifyActionableError(perr models.SyncProtocolError) {
	s.log.Error().Str("func", "*Scheduler.notifyActionableError").
		Stringer("error_type", perr.ErrorType).Stringer("action", perr.Action).
		Msg("sync session stopped")
	for _, o := range s.observers {
		o.OnActionableError(perr)
	}
}

// ── Inspection ───────────────────────────────────────────────────────────────

func (s *Scheduler) publishStatuses() {
	s.mu.Lock()
	statuses := s.nudges.Statuses()
	s.mu.Unlock()
	for _, st := range statuses {
		s.statuses.Store(st.Type, st)
	}
}

// TypeStatuses returns the per-type state, ordered by type. It does not
// wait for a running job.
func (s *Scheduler) TypeStatuses() []TypeStatus {
	var out []TypeStatus
	s.statuses.Range(func(_ models.ModelType, st TypeStatus) bool {
		out = append(out, st)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	st := Status{
		Started:       s.started,
		Mode:          s.mode.String(),
		RetryAt:       s.retryAt,
		PendingConfig: s.pendingConfig != nil,
	}
	if s.wait != nil {
		w := *s.wait
		st.Wait = &w
	}
	st.NextNudgeAt, _ = s.queue.Deadline(taskNudge)
	st.NextPollAt, _ = s.queue.Deadline(taskPoll)
	if s.sessionErr != nil {
		st.SessionError = s.sessionErr.Error()
	}
	s.mu.Unlock()

	st.Types = s.TypeStatuses()
	return st
}

// WaitInterval returns the current global suspension, if any.
func (s *Scheduler) WaitInterval() (WaitInterval, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wait == nil {
		return WaitInterval{}, false
	}
	return *s.wait, true
}

func (s *Scheduler) IsBackingOff() bool {
	w, ok := s.WaitInterval()
	return ok && w.Mode == ExponentialBackoff
}

func (s *Scheduler) IsGlobalThrottle() bool {
	w, ok := s.WaitInterval()
	return ok && w.Mode == Throttled
}

// RoutingTypes returns the types the running job is restricted to.
func (s *Scheduler) RoutingTypes() models.ModelTypeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routing
}
