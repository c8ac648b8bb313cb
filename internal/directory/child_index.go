package directory

import "sort"

// childIndex keeps the live children of every parent sorted by position.
// Entries with a valid unique position come first in position order;
// entries without one (permanent folders, unordered types) follow in
// metahandle order.
type childIndex map[ID][]*EntryKernel

func childLess(a, b *EntryKernel) bool {
	av, bv := a.UniquePosition.IsValid(), b.UniquePosition.IsValid()
	switch {
	case av && bv:
		if c := a.UniquePosition.Compare(b.UniquePosition); c != 0 {
			return c < 0
		}
		return a.Metahandle < b.Metahandle
	case av != bv:
		return av
	default:
		return a.Metahandle < b.Metahandle
	}
}

func (ci childIndex) insert(k *EntryKernel) {
	if !k.isLive() {
		return
	}
	siblings := ci[k.ParentID]
	i := sort.Search(len(siblings), func(i int) bool { return !childLess(siblings[i], k) })
	if i < len(siblings) && siblings[i] == k {
		return
	}
	siblings = append(siblings, nil)
	copy(siblings[i+1:], siblings[i:])
	siblings[i] = k
	ci[k.ParentID] = siblings
}

func (ci childIndex) remove(k *EntryKernel) {
	siblings := ci[k.ParentID]
	for i, s := range siblings {
		if s == k {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(ci, k.ParentID)
		return
	}
	ci[k.ParentID] = siblings
}

// indexOf returns the position of k among its siblings, or -1.
func (ci childIndex) indexOf(k *EntryKernel) int {
	for i, s := range ci[k.ParentID] {
		if s == k {
			return i
		}
	}
	return -1
}

func (ci childIndex) children(parent ID) []*EntryKernel {
	return ci[parent]
}
