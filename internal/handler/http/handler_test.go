package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/service"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/models"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

type fakeStatus struct {
	entries   []directory.EntryKernel
	sched     scheduler.Status
	cycle     syncer.CycleStatus
	unacked   []invalidation.UnackedState
	dirty     int
	connected bool
}

func (f *fakeStatus) SchedulerStatus() scheduler.Status                 { return f.sched }
func (f *fakeStatus) LastCycle() syncer.CycleStatus                     { return f.cycle }
func (f *fakeStatus) UnackedInvalidations() []invalidation.UnackedState { return f.unacked }
func (f *fakeStatus) DirtyCount() int                                   { return f.dirty }
func (f *fakeStatus) Connected() bool                                   { return f.connected }

func (f *fakeStatus) Entries(t models.ModelType) []directory.EntryKernel {
	var out []directory.EntryKernel
	for _, k := range f.entries {
		if t == models.Unspecified || k.ModelType() == t {
			out = append(out, k)
		}
	}
	return out
}

type fakeSink struct {
	mu     sync.Mutex
	pushed []models.Invalidation
	states []invalidation.State
	err    error
}

func (f *fakeSink) OnInvalidate(_ context.Context, invs []models.Invalidation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, invs...)
	return nil
}

func (f *fakeSink) UpdateInvalidatorState(state invalidation.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, state)
}

type fakeCredentials struct {
	tokens []string
}

func (f *fakeCredentials) UpdateCredentials(token string) {
	f.tokens = append(f.tokens, token)
}

// ── NewHandler ──────────────────────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	deps := Dependencies{
		Status:    &fakeStatus{connected: true},
		BuildInfo: models.NewAppBuildInfo("v1.0.0", "2026-10-01", "abc123"),
		HashKey:   "k",
	}

	h := NewHandler(deps, logger.Nop())

	require.NotNil(t, h)
	assert.Equal(t, "v1.0.0", h.deps.BuildInfo.BuildVersion())
	assert.Equal(t, "k", h.deps.HashKey)
	assert.True(t, h.deps.Status.Connected())
}

// ── statusFromError ─────────────────────────────────────────────────────────

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: s1", service.ErrItemNotFound), want: http.StatusNotFound},
		{err: fmt.Errorf("%w: s1", service.ErrPermanentItem), want: http.StatusForbidden},
		{err: service.ErrFolderNotEmpty, want: http.StatusConflict},
		{err: service.ErrDuplicateClientTag, want: http.StatusConflict},
		{err: service.ErrTypeNotReady, want: http.StatusServiceUnavailable},
		{err: service.ErrIllegalMove, want: http.StatusBadRequest},
		{err: service.ErrInvalidParent, want: http.StatusBadRequest},
		{err: ErrUnknownModelType, want: http.StatusBadRequest},
		{err: fmt.Errorf("list: %w", context.Canceled), want: http.StatusRequestTimeout},
		{err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
