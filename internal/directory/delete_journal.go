package directory

import (
	"sort"

	"github.com/MKhiriev/go-sync-engine/models"
)

// deleteJournal remembers server-side deletions of journaled types until
// the consumer purges them explicitly. It outlives the purge of the entry
// itself.
type deleteJournal struct {
	entries map[ID]EntryKernel
	// unsaved holds ids added or changed since the last snapshot.
	unsaved map[ID]struct{}
	// toPurge holds ids removed since the last snapshot.
	toPurge map[ID]struct{}
}

func newDeleteJournal(loaded []EntryKernel) *deleteJournal {
	j := &deleteJournal{
		entries: make(map[ID]EntryKernel, len(loaded)),
		unsaved: make(map[ID]struct{}),
		toPurge: make(map[ID]struct{}),
	}
	for _, k := range loaded {
		j.entries[k.ID] = k
	}
	return j
}

// update keeps the journal in step with the server deletion state of k.
func (j *deleteJournal) update(wasServerDeleted bool, k *EntryKernel) {
	if !k.ServerModelType().KeepsDeleteJournal() && !k.ModelType().KeepsDeleteJournal() {
		return
	}
	switch {
	case !wasServerDeleted && k.ServerIsDel:
		j.entries[k.ID] = k.Clone()
		j.unsaved[k.ID] = struct{}{}
		delete(j.toPurge, k.ID)
	case wasServerDeleted && !k.ServerIsDel:
		j.remove(k.ID)
	}
}

func (j *deleteJournal) remove(id ID) {
	if _, ok := j.entries[id]; !ok {
		return
	}
	delete(j.entries, id)
	delete(j.unsaved, id)
	j.toPurge[id] = struct{}{}
}

func (j *deleteJournal) list(types models.ModelTypeSet) []EntryKernel {
	out := make([]EntryKernel, 0, len(j.entries))
	for _, k := range j.entries {
		if types.Has(k.ServerModelType()) || types.Has(k.ModelType()) {
			out = append(out, k.Clone())
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Metahandle < out[b].Metahandle })
	return out
}

// takeSnapshot moves the pending work into the snapshot.
func (j *deleteJournal) takeSnapshot(s *SaveChangesSnapshot) {
	for id := range j.unsaved {
		if k, ok := j.entries[id]; ok {
			s.DeleteJournals = append(s.DeleteJournals, k.Clone())
		}
	}
	for id := range j.toPurge {
		s.DeleteJournalsToPurge = append(s.DeleteJournalsToPurge, id)
	}
	clear(j.unsaved)
	clear(j.toPurge)
}

// restore puts back what a failed snapshot carried.
func (j *deleteJournal) restore(s *SaveChangesSnapshot) {
	for _, k := range s.DeleteJournals {
		if _, ok := j.entries[k.ID]; ok {
			j.unsaved[k.ID] = struct{}{}
		}
	}
	for _, id := range s.DeleteJournalsToPurge {
		if _, ok := j.entries[id]; !ok {
			j.toPurge[id] = struct{}{}
		}
	}
}
