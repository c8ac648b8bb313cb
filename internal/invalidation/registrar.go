package invalidation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/go-sync-engine/models"
)

// State is the health of the invalidation channel as seen by handlers.
type State int

const (
	TransientError State = iota
	Enabled
	CredentialsRejected
)

func (s State) String() string {
	switch s {
	case TransientError:
		return "TRANSIENT_INVALIDATION_ERROR"
	case Enabled:
		return "INVALIDATIONS_ENABLED"
	case CredentialsRejected:
		return "INVALIDATION_CREDENTIALS_REJECTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Handler consumes invalidations of the object ids it registered.
type Handler interface {
	OnInvalidatorStateChange(state State)
	OnIncomingInvalidation(invalidations []models.Invalidation)
	OwnerName() string
}

// Registrar keeps disjoint object id sets per handler and dispatches
// invalidations to the handler owning each id.
type Registrar struct {
	mu       sync.RWMutex
	handlers map[Handler]map[models.ObjectID]struct{}
	state    State
}

func NewRegistrar() *Registrar {
	return &Registrar{
		handlers: make(map[Handler]map[models.ObjectID]struct{}),
		state:    TransientError,
	}
}

// RegisterHandler adds h with no ids. Registering twice is a no-op.
func (r *Registrar) RegisterHandler(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[h]; !ok {
		r.handlers[h] = make(map[models.ObjectID]struct{})
	}
}

// UpdateRegisteredIDs replaces the ids of h. When any id is owned by
// another handler nothing changes and ErrDuplicateObjectID is returned.
func (r *Registrar) UpdateRegisteredIDs(h Handler, ids []models.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[h]; !ok {
		return ErrUnknownHandler
	}
	for other, owned := range r.handlers {
		if other == h {
			continue
		}
		for _, id := range ids {
			if _, taken := owned[id]; taken {
				return fmt.Errorf("%w: %s is owned by %s", ErrDuplicateObjectID, id, other.OwnerName())
			}
		}
	}

	set := make(map[models.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	r.handlers[h] = set
	return nil
}

// UnregisterHandler forgets h and its ids.
func (r *Registrar) UnregisterHandler(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, h)
}

func (r *Registrar) IsHandlerRegistered(h Handler) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[h]
	return ok
}

// GetRegisteredIDs returns the ids of h, sorted.
func (r *Registrar) GetRegisteredIDs(h Handler) []models.ObjectID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedIDs(r.handlers[h])
}

// GetAllRegisteredIDs returns the union of every handler's ids, sorted.
func (r *Registrar) GetAllRegisteredIDs() []models.ObjectID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[models.ObjectID]struct{})
	for _, owned := range r.handlers {
		for id := range owned {
			all[id] = struct{}{}
		}
	}
	return sortedIDs(all)
}

// OwnerOf returns the handler registered for id.
func (r *Registrar) OwnerOf(id models.ObjectID) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for h, owned := range r.handlers {
		if _, ok := owned[id]; ok {
			return h, true
		}
	}
	return nil, false
}

// DispatchInvalidationsToHandlers hands each handler the invalidations of
// its own ids. Handlers with nothing to receive are not called.
func (r *Registrar) DispatchInvalidationsToHandlers(invalidations []models.Invalidation) {
	r.mu.RLock()
	batches := make(map[Handler][]models.Invalidation)
	for _, inv := range invalidations {
		for h, owned := range r.handlers {
			if _, ok := owned[inv.ObjectID]; ok {
				batches[h] = append(batches[h], inv)
				break
			}
		}
	}
	r.mu.RUnlock()

	// handlers may call back into the registrar
	for h, batch := range batches {
		h.OnIncomingInvalidation(batch)
	}
}

// UpdateInvalidatorState records state and tells every handler.
func (r *Registrar) UpdateInvalidatorState(state State) {
	r.mu.Lock()
	r.state = state
	handlers := make([]Handler, 0, len(r.handlers))
	for h := range r.handlers {
		handlers = append(handlers, h)
	}
	r.mu.Unlock()

	for _, h := range handlers {
		h.OnInvalidatorStateChange(state)
	}
}

func (r *Registrar) GetInvalidatorState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func sortedIDs(set map[models.ObjectID]struct{}) []models.ObjectID {
	ids := make([]models.ObjectID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
