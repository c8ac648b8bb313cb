package invalidation

import (
	"sort"

	"github.com/MKhiriev/go-sync-engine/models"
)

// DefaultMaxBufferedInvalidations bounds a set while no handler is
// registered for its object.
const DefaultMaxBufferedInvalidations = 5

// UnackedInvalidationSet is the version-ordered set of invalidations of one
// object that were not acknowledged yet. Unknown-version invalidations order
// first and are all equivalent, so the set holds at most one of them.
type UnackedInvalidationSet struct {
	objectID      models.ObjectID
	registered    bool
	maxBuffered   int
	invalidations []models.Invalidation
}

// NewUnackedInvalidationSet returns an empty, unregistered set for id.
// maxBuffered <= 0 selects DefaultMaxBufferedInvalidations.
func NewUnackedInvalidationSet(id models.ObjectID, maxBuffered int) *UnackedInvalidationSet {
	if maxBuffered <= 0 {
		maxBuffered = DefaultMaxBufferedInvalidations
	}
	return &UnackedInvalidationSet{objectID: id, maxBuffered: maxBuffered}
}

func (s *UnackedInvalidationSet) ObjectID() models.ObjectID {
	return s.objectID
}

func (s *UnackedInvalidationSet) Size() int {
	return len(s.invalidations)
}

func (s *UnackedInvalidationSet) IsRegistered() bool {
	return s.registered
}

// Invalidations returns a copy of the buffered invalidations in order.
func (s *UnackedInvalidationSet) Invalidations() []models.Invalidation {
	out := make([]models.Invalidation, len(s.invalidations))
	copy(out, s.invalidations)
	return out
}

// Add inserts inv unless an equivalent invalidation is already buffered.
// An unregistered set is truncated afterwards.
func (s *UnackedInvalidationSet) Add(inv models.Invalidation) {
	s.insert(inv)
	if !s.registered {
		s.truncate()
	}
}

// AddSet adds every invalidation of invs, truncating once at the end.
func (s *UnackedInvalidationSet) AddSet(invs []models.Invalidation) {
	for _, inv := range invs {
		s.insert(inv)
	}
	if !s.registered {
		s.truncate()
	}
}

// Acknowledge removes the invalidation delivered with handle.
func (s *UnackedInvalidationSet) Acknowledge(handle models.AckHandle) error {
	i := s.find(handle)
	if i < 0 {
		return ErrUnknownAckHandle
	}
	s.remove(i)
	return nil
}

// Drop removes the invalidation delivered with handle and records that
// information was lost: the set then starts with an unknown-version marker
// that carries the dropped invalidation's handle, so acknowledging the
// original handle later clears the marker.
func (s *UnackedInvalidationSet) Drop(handle models.AckHandle) error {
	i := s.find(handle)
	if i < 0 {
		return ErrUnknownAckHandle
	}
	marker := models.NewUnknownVersionInvalidation(s.objectID)
	marker.AckHandle = s.invalidations[i].AckHandle
	s.remove(i)

	// the new marker replaces an existing one
	if len(s.invalidations) > 0 && s.invalidations[0].UnknownVersion {
		s.remove(0)
	}
	s.insert(marker)
	return nil
}

// SetHandlerIsRegistered lifts the buffering bound.
func (s *UnackedInvalidationSet) SetHandlerIsRegistered() {
	s.registered = true
}

// SetHandlerIsUnregistered bounds the set again and truncates it right away.
func (s *UnackedInvalidationSet) SetHandlerIsUnregistered() {
	s.registered = false
	s.truncate()
}

// Clear drops everything without recording a loss.
func (s *UnackedInvalidationSet) Clear() {
	s.invalidations = nil
}

func (s *UnackedInvalidationSet) insert(inv models.Invalidation) {
	inv.ObjectID = s.objectID
	i := sort.Search(len(s.invalidations), func(i int) bool {
		return !s.invalidations[i].VersionLess(inv)
	})
	if i < len(s.invalidations) && s.invalidations[i].Equivalent(inv) {
		return
	}
	s.invalidations = append(s.invalidations, models.Invalidation{})
	copy(s.invalidations[i+1:], s.invalidations[i:])
	s.invalidations[i] = inv
}

func (s *UnackedInvalidationSet) remove(i int) {
	s.invalidations = append(s.invalidations[:i], s.invalidations[i+1:]...)
}

func (s *UnackedInvalidationSet) find(handle models.AckHandle) int {
	for i, inv := range s.invalidations {
		if inv.AckHandle.Equals(handle) {
			return i
		}
	}
	return -1
}

// truncate discards the oldest invalidations above the bound. When anything
// was discarded the set must start with an unknown-version marker; the
// oldest survivor makes room for it.
func (s *UnackedInvalidationSet) truncate() {
	if len(s.invalidations) <= s.maxBuffered {
		return
	}
	s.invalidations = append([]models.Invalidation(nil), s.invalidations[len(s.invalidations)-s.maxBuffered:]...)

	if s.invalidations[0].UnknownVersion {
		return
	}
	s.remove(0)
	s.insert(models.NewUnknownVersionInvalidation(s.objectID))
}

// State returns the persisted form of the set.
func (s *UnackedInvalidationSet) State() UnackedState {
	return UnackedState{ObjectID: s.objectID, Invalidations: s.Invalidations()}
}

// UnackedState is what a StateStore keeps for one object id.
type UnackedState struct {
	ObjectID      models.ObjectID       `json:"object_id"`
	Invalidations []models.Invalidation `json:"invalidations"`
}
