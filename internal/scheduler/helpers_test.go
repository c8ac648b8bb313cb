package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

var (
	bookmarks   = models.NewModelTypeSet(models.Bookmarks)
	preferences = models.NewModelTypeSet(models.Preferences)
	epoch       = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type runnerCall struct {
	kind   string
	types  models.ModelTypeSet
	origin models.GetUpdatesOrigin
}

// fakeRunner records cycles and fails them with the queued errors.
type fakeRunner struct {
	calls       []runnerCall
	errs        []error
	onConfigure func()
}

func (r *fakeRunner) next() error {
	if len(r.errs) == 0 {
		return nil
	}
	err := r.errs[0]
	r.errs = r.errs[1:]
	return err
}

func (r *fakeRunner) NormalSyncShare(_ context.Context, types models.ModelTypeSet) error {
	r.calls = append(r.calls, runnerCall{kind: "normal", types: types})
	return r.next()
}

func (r *fakeRunner) ConfigureSyncShare(_ context.Context, types models.ModelTypeSet, origin models.GetUpdatesOrigin) error {
	r.calls = append(r.calls, runnerCall{kind: "configure", types: types, origin: origin})
	if r.onConfigure != nil {
		r.onConfigure()
	}
	return r.next()
}

func (r *fakeRunner) PollSyncShare(_ context.Context, types models.ModelTypeSet) error {
	r.calls = append(r.calls, runnerCall{kind: "poll", types: types})
	return r.next()
}

type fakeGate struct {
	credentials bool
	connected   bool
}

func (g *fakeGate) HasValidCredentials() bool { return g.credentials }
func (g *fakeGate) IsConnected() bool         { return g.connected }

type fakeAcks struct {
	acked   []models.Invalidation
	dropped []models.Invalidation
}

func (a *fakeAcks) Acknowledge(_ context.Context, id models.ObjectID, h models.AckHandle) error {
	a.acked = append(a.acked, models.Invalidation{ObjectID: id, AckHandle: h})
	return nil
}

func (a *fakeAcks) Drop(_ context.Context, id models.ObjectID, h models.AckHandle) error {
	a.dropped = append(a.dropped, models.Invalidation{ObjectID: id, AckHandle: h})
	return nil
}

type spyObserver struct {
	retryTimes []time.Time
	throttled  []models.ModelTypeSet
	actionable []models.SyncProtocolError
}

func (o *spyObserver) OnRetryTimeChanged(at time.Time) { o.retryTimes = append(o.retryTimes, at) }
func (o *spyObserver) OnThrottledTypesChanged(types models.ModelTypeSet) {
	o.throttled = append(o.throttled, types)
}
func (o *spyObserver) OnActionableError(err models.SyncProtocolError) {
	o.actionable = append(o.actionable, err)
}

func testConfig() config.ClientScheduler {
	return config.ClientScheduler{
		PollInterval:             time.Hour,
		ShortPollInterval:        time.Hour,
		InitialBackoff:           30 * time.Second,
		ShortInitialBackoff:      time.Second,
		MaxBackoff:               2 * time.Minute,
		LocalNudgeDelay:          200 * time.Millisecond,
		RemoteInvalidationDelay:  250 * time.Millisecond,
		DefaultThrottle:          2 * time.Minute,
		MaxBufferedInvalidations: 2,
	}
}

type harness struct {
	s        *Scheduler
	runner   *fakeRunner
	clock    *fakeClock
	observer *spyObserver
}

// newHarness returns a scheduler started in mode without its event loop;
// tests drive it with tick.
func newHarness(t *testing.T, mode Mode, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		runner:   &fakeRunner{},
		clock:    &fakeClock{now: epoch},
		observer: &spyObserver{},
	}
	opts = append([]Option{WithClock(h.clock), WithObserver(h.observer)}, opts...)
	h.s = NewScheduler(h.runner, testConfig(), logger.Nop(), opts...)
	h.s.mu.Lock()
	h.s.startLocked(mode)
	h.s.mu.Unlock()
	return h
}

func (h *harness) tick() {
	h.s.runDueTasks(context.Background())
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.tick()
}
