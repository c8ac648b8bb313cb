// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package invalidation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// Listener buffers incoming invalidations per object id, persists them and
// dispatches them to the registered handlers through a [Registrar].
// Buffered invalidations stay until a handler acknowledges or drops them.
type Listener struct {
	mu          sync.Mutex
	registrar   *Registrar
	store       StateStore
	recorder    Recorder
	maxBuffered int
	sets        map[models.ObjectID]*UnackedInvalidationSet

	log *logger.Logger
}

type ListenerOption func(*Listener)

// WithRecorder reports every received batch to r.
func WithRecorder(r Recorder) ListenerOption {
	return func(l *Listener) { l.recorder = r }
}

// NewListener creates a listener. A nil store keeps state in memory only.
func NewListener(store StateStore, maxBuffered int, log *logger.Logger, opts ...ListenerOption) *Listener {
	if maxBuffered <= 0 {
		maxBuffered = DefaultMaxBufferedInvalidations
	}
	l := &Listener{
		registrar:   NewRegistrar(),
		store:       store,
		maxBuffered: maxBuffered,
		sets:        make(map[models.ObjectID]*UnackedInvalidationSet),
		log:         log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Listener) Registrar() *Registrar {
	return l.registrar
}

// Start restores the persisted sets. Restored sets are unregistered until a
// handler claims their ids.
func (l *Listener) Start(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	states, err := l.store.LoadInvalidationState(ctx)
	if err != nil {
		l.log.Err(err).Str("func", "*Listener.Start").Msg("error loading unacked invalidations")
		return fmt.Errorf("load invalidation state: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, st := range states {
		set := l.setFor(st.ObjectID)
		set.AddSet(st.Invalidations)
	}
	l.log.Debug().Str("func", "*Listener.Start").Int("objects", len(states)).Msg("unacked invalidations restored")
	return nil
}

// RegisterHandler makes h known. It receives nothing until it registers ids.
func (l *Listener) RegisterHandler(h Handler) {
	l.registrar.RegisterHandler(h)
	h.OnInvalidatorStateChange(l.registrar.GetInvalidatorState())
}

// UpdateRegisteredIDs replaces the ids of h and replays everything buffered
// for them. Ids that lost their handler are bounded again.
func (l *Listener) UpdateRegisteredIDs(ctx context.Context, h Handler, ids []models.ObjectID) error {
	if err := l.registrar.UpdateRegisteredIDs(h, ids); err != nil {
		l.log.Err(err).Str("func", "*Listener.UpdateRegisteredIDs").Str("owner", h.OwnerName()).Msg("registration rejected")
		return err
	}

	l.mu.Lock()
	for _, id := range ids {
		l.setFor(id)
	}
	l.syncRegistrationLocked()
	var replay []models.Invalidation
	for _, id := range ids {
		replay = append(replay, l.sets[id].Invalidations()...)
	}
	err := l.persistLocked(ctx)
	l.mu.Unlock()

	if len(replay) > 0 {
		l.log.Debug().Str("func", "*Listener.UpdateRegisteredIDs").Str("owner", h.OwnerName()).
			Int("count", len(replay)).Msg("replaying buffered invalidations")
		l.registrar.DispatchInvalidationsToHandlers(replay)
	}
	return err
}

// UnregisterHandler removes h; its buffered invalidations become bounded.
func (l *Listener) UnregisterHandler(ctx context.Context, h Handler) error {
	l.registrar.UnregisterHandler(h)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncRegistrationLocked()
	return l.persistLocked(ctx)
}

// OnInvalidate buffers invs and dispatches those for registered ids.
func (l *Listener) OnInvalidate(ctx context.Context, invs []models.Invalidation) error {
	l.mu.Lock()
	var deliver []models.Invalidation
	for _, inv := range invs {
		if !inv.AckHandle.IsValid() {
			inv.AckHandle = models.NewAckHandle()
		}
		set := l.setFor(inv.ObjectID)
		set.Add(inv)
		if set.IsRegistered() && set.find(inv.AckHandle) >= 0 {
			deliver = append(deliver, inv)
		}
	}
	buffered := l.bufferedLocked()
	err := l.persistLocked(ctx)
	l.mu.Unlock()

	if l.recorder != nil {
		l.recorder.RecordInvalidations(len(invs), buffered)
	}
	l.log.Debug().Str("func", "*Listener.OnInvalidate").Int("received", len(invs)).
		Int("delivered", len(deliver)).Msg("invalidations received")
	if len(deliver) > 0 {
		l.registrar.DispatchInvalidationsToHandlers(deliver)
	}
	return err
}

// Acknowledge forgets the invalidation of id delivered with handle.
func (l *Listener) Acknowledge(ctx context.Context, id models.ObjectID, handle models.AckHandle) error {
	return l.update(ctx, id, handle, (*UnackedInvalidationSet).Acknowledge)
}

// Drop forgets the invalidation of id delivered with handle and leaves an
// unknown-version marker in its place.
func (l *Listener) Drop(ctx context.Context, id models.ObjectID, handle models.AckHandle) error {
	return l.update(ctx, id, handle, (*UnackedInvalidationSet).Drop)
}

func (l *Listener) update(ctx context.Context, id models.ObjectID, handle models.AckHandle, op func(*UnackedInvalidationSet, models.AckHandle) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.sets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAckHandle, id)
	}
	if err := op(set, handle); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	return l.persistLocked(ctx)
}

// UpdateInvalidatorState forwards the channel state to every handler.
func (l *Listener) UpdateInvalidatorState(state State) {
	l.registrar.UpdateInvalidatorState(state)
}

// Snapshot returns the buffered invalidations of every object id, ordered
// by id.
func (l *Listener) Snapshot() []UnackedState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statesLocked()
}

func (l *Listener) setFor(id models.ObjectID) *UnackedInvalidationSet {
	set, ok := l.sets[id]
	if !ok {
		set = NewUnackedInvalidationSet(id, l.maxBuffered)
		l.sets[id] = set
	}
	return set
}

func (l *Listener) syncRegistrationLocked() {
	registered := make(map[models.ObjectID]struct{})
	for _, id := range l.registrar.GetAllRegisteredIDs() {
		registered[id] = struct{}{}
	}
	for id, set := range l.sets {
		_, want := registered[id]
		switch {
		case want && !set.IsRegistered():
			set.SetHandlerIsRegistered()
		case !want && set.IsRegistered():
			set.SetHandlerIsUnregistered()
		}
	}
}

func (l *Listener) bufferedLocked() int {
	n := 0
	for _, set := range l.sets {
		n += set.Size()
	}
	return n
}

func (l *Listener) statesLocked() []UnackedState {
	states := make([]UnackedState, 0, len(l.sets))
	for _, set := range l.sets {
		if set.Size() == 0 {
			continue
		}
		states = append(states, set.State())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ObjectID.Less(states[j].ObjectID) })
	return states
}

func (l *Listener) persistLocked(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.SaveInvalidationState(ctx, l.statesLocked()); err != nil {
		l.log.Err(err).Str("func", "*Listener.persistLocked").Msg("error saving unacked invalidations")
		return fmt.Errorf("save invalidation state: %w", err)
	}
	return nil
}
