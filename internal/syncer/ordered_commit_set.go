package syncer

import "github.com/MKhiriev/go-sync-engine/models"

// OrderedCommitSet is the append-ordered list of items committed together.
// The position of an item is the index of its entry in the commit request
// and in the server response.
type OrderedCommitSet struct {
	handles []int64
	types   []models.ModelType
	index   map[int64]int
}

// NewOrderedCommitSet returns an empty set.
func NewOrderedCommitSet() *OrderedCommitSet {
	return &OrderedCommitSet{index: make(map[int64]int)}
}

// AddCommitItem appends metahandle unless it is already in the set.
func (s *OrderedCommitSet) AddCommitItem(metahandle int64, t models.ModelType) {
	if s.HaveCommitItem(metahandle) {
		return
	}
	s.index[metahandle] = len(s.handles)
	s.handles = append(s.handles, metahandle)
	s.types = append(s.types, t)
}

// Append adds every item of other that is not in s yet, keeping the order
// of other.
func (s *OrderedCommitSet) Append(other *OrderedCommitSet) {
	for i, h := range other.handles {
		s.AddCommitItem(h, other.types[i])
	}
}

// HaveCommitItem reports whether metahandle is part of the set.
func (s *OrderedCommitSet) HaveCommitItem(metahandle int64) bool {
	_, ok := s.index[metahandle]
	return ok
}

// Position returns the index of metahandle, or -1.
func (s *OrderedCommitSet) Position(metahandle int64) int {
	if i, ok := s.index[metahandle]; ok {
		return i
	}
	return -1
}

func (s *OrderedCommitSet) Size() int {
	return len(s.handles)
}

func (s *OrderedCommitSet) Empty() bool {
	return len(s.handles) == 0
}

// GetCommitHandleAt returns the metahandle at position i.
func (s *OrderedCommitSet) GetCommitHandleAt(i int) int64 {
	return s.handles[i]
}

// GetModelTypeAt returns the model type of the item at position i.
func (s *OrderedCommitSet) GetModelTypeAt(i int) models.ModelType {
	return s.types[i]
}

// GetAllCommitHandles returns the metahandles in commit order.
func (s *OrderedCommitSet) GetAllCommitHandles() []int64 {
	return append([]int64(nil), s.handles...)
}

// Types returns the model types present in the set.
func (s *OrderedCommitSet) Types() models.ModelTypeSet {
	var out models.ModelTypeSet
	for _, t := range s.types {
		out = out.With(t)
	}
	return out
}

// Projection returns the positions of the items of type t in commit order.
func (s *OrderedCommitSet) Projection(t models.ModelType) []int {
	var out []int
	for i, it := range s.types {
		if it == t {
			out = append(out, i)
		}
	}
	return out
}

// Truncate keeps the first max items.
func (s *OrderedCommitSet) Truncate(max int) {
	if max < 0 || max >= len(s.handles) {
		return
	}
	for _, h := range s.handles[max:] {
		delete(s.index, h)
	}
	s.handles = s.handles[:max]
	s.types = s.types[:max]
}

// Clear removes every item.
func (s *OrderedCommitSet) Clear() {
	s.handles = nil
	s.types = nil
	s.index = make(map[int64]int)
}
