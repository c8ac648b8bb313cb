package directory

import (
	"context"
	"maps"
	"sync"

	"github.com/MKhiriev/go-sync-engine/models"
)

// BackingStore persists the directory. Implementations live in
// internal/store; InMemoryBackingStore serves tests and ephemeral
// directories.
type BackingStore interface {
	// Load returns everything persisted for the directory.
	Load(ctx context.Context) (*LoadedState, error)
	// SaveChanges writes the snapshot atomically. A returned error means
	// nothing from the snapshot was persisted.
	SaveChanges(ctx context.Context, snapshot *SaveChangesSnapshot) error
	Close() error
}

// PersistedKernelInfo is the directory-wide state stored next to the
// entries.
type PersistedKernelInfo struct {
	CacheGUID        string                      `json:"cache_guid"`
	StoreBirthday    string                      `json:"store_birthday"`
	BagOfChips       []byte                      `json:"bag_of_chips,omitempty"`
	DownloadProgress map[models.ModelType]string `json:"download_progress"`
}

// Clone returns a deep copy of the info.
func (i PersistedKernelInfo) Clone() PersistedKernelInfo {
	out := i
	out.BagOfChips = append([]byte(nil), i.BagOfChips...)
	out.DownloadProgress = maps.Clone(i.DownloadProgress)
	if out.DownloadProgress == nil {
		out.DownloadProgress = make(map[models.ModelType]string)
	}
	return out
}

// LoadedState is the result of BackingStore.Load.
type LoadedState struct {
	Entries        []EntryKernel
	DeleteJournals []EntryKernel
	Info           PersistedKernelInfo
	// MaxMetahandle is the highest metahandle ever handed out, including
	// purged entries, so handles are never reused.
	MaxMetahandle int64
}

// SaveChangesSnapshot is everything a flush has to write.
type SaveChangesSnapshot struct {
	Info      PersistedKernelInfo
	InfoDirty bool
	// DirtyMetas are upserted.
	DirtyMetas []EntryKernel
	// MetahandlesToPurge are deleted.
	MetahandlesToPurge []int64
	// DeleteJournals are upserted into the journal table.
	DeleteJournals []EntryKernel
	// DeleteJournalsToPurge are removed from the journal table.
	DeleteJournalsToPurge []ID
	MaxMetahandle         int64
}

// Empty reports whether the snapshot carries nothing to persist.
func (s *SaveChangesSnapshot) Empty() bool {
	return !s.InfoDirty && len(s.DirtyMetas) == 0 && len(s.MetahandlesToPurge) == 0 &&
		len(s.DeleteJournals) == 0 && len(s.DeleteJournalsToPurge) == 0
}

// InMemoryBackingStore keeps persisted state in process memory.
type InMemoryBackingStore struct {
	mu       sync.Mutex
	entries  map[int64]EntryKernel
	journals map[ID]EntryKernel
	info     PersistedKernelInfo
	maxMeta  int64

	// FailSaves makes every SaveChanges call fail with ErrSaveChanges.
	FailSaves bool
	// Saves counts successful SaveChanges calls.
	Saves int
}

// NewInMemoryBackingStore returns an empty store.
func NewInMemoryBackingStore() *InMemoryBackingStore {
	return &InMemoryBackingStore{
		entries:  make(map[int64]EntryKernel),
		journals: make(map[ID]EntryKernel),
		info:     PersistedKernelInfo{}.Clone(),
	}
}

func (s *InMemoryBackingStore) Load(_ context.Context) (*LoadedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &LoadedState{Info: s.info.Clone(), MaxMetahandle: s.maxMeta}
	for _, k := range s.entries {
		state.Entries = append(state.Entries, k.Clone())
	}
	for _, k := range s.journals {
		state.DeleteJournals = append(state.DeleteJournals, k.Clone())
	}
	return state, nil
}

func (s *InMemoryBackingStore) SaveChanges(_ context.Context, snapshot *SaveChangesSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSaves {
		return ErrSaveChanges
	}
	for _, k := range snapshot.DirtyMetas {
		s.entries[k.Metahandle] = k.Clone()
	}
	for _, h := range snapshot.MetahandlesToPurge {
		delete(s.entries, h)
	}
	for _, k := range snapshot.DeleteJournals {
		s.journals[k.ID] = k.Clone()
	}
	for _, id := range snapshot.DeleteJournalsToPurge {
		delete(s.journals, id)
	}
	if snapshot.InfoDirty {
		s.info = snapshot.Info.Clone()
	}
	s.maxMeta = max(s.maxMeta, snapshot.MaxMetahandle)
	s.Saves++
	return nil
}

// Entry returns the persisted copy of an entry.
func (s *InMemoryBackingStore) Entry(metahandle int64) (EntryKernel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.entries[metahandle]
	return k, ok
}

// Len returns the number of persisted entries.
func (s *InMemoryBackingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryBackingStore) Close() error {
	return nil
}
