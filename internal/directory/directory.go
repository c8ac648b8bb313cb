// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/google/uuid"
)

// Directory is the transactional entry store. All access goes through Read
// and Write; at most one write transaction is open at any time.
type Directory struct {
	name  string
	store BackingStore
	log   *logger.Logger

	// txMu serializes write transactions against readers and snapshots.
	txMu sync.RWMutex
	// saveMu serializes SaveChanges calls.
	saveMu sync.Mutex
	k      *kernel

	obsMu     sync.RWMutex
	observers []TransactionObserver
}

type kernel struct {
	metahandles map[int64]*EntryKernel
	ids         map[ID]*EntryKernel
	children    childIndex
	serverTags  map[string]*EntryKernel
	clientTags  map[string]*EntryKernel

	unsynced  map[int64]struct{}
	unapplied map[models.ModelType]map[int64]struct{}

	dirty   map[int64]struct{}
	toPurge map[int64]struct{}
	journal *deleteJournal

	info      PersistedKernelInfo
	infoDirty bool

	nextMetahandle int64
}

func newKernel() *kernel {
	return &kernel{
		metahandles: make(map[int64]*EntryKernel),
		ids:         make(map[ID]*EntryKernel),
		children:    make(childIndex),
		serverTags:  make(map[string]*EntryKernel),
		clientTags:  make(map[string]*EntryKernel),
		unsynced:    make(map[int64]struct{}),
		unapplied:   make(map[models.ModelType]map[int64]struct{}),
		dirty:       make(map[int64]struct{}),
		toPurge:     make(map[int64]struct{}),
		journal:     newDeleteJournal(nil),
		info:        PersistedKernelInfo{}.Clone(),
	}
}

// Open loads the directory from store and indexes it. A missing root entry
// or cache GUID is created on the spot.
func Open(ctx context.Context, name string, store BackingStore, log *logger.Logger) (*Directory, error) {
	state, err := store.Load(ctx)
	if err != nil {
		log.Err(err).Str("func", "directory.Open").Str("name", name).Msg("error loading directory")
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	d := &Directory{name: name, store: store, log: log, k: newKernel()}
	if err = d.k.load(state); err != nil {
		log.Err(err).Str("func", "directory.Open").Str("name", name).Msg("error indexing loaded entries")
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if d.k.info.CacheGUID == "" {
		d.k.info.CacheGUID = uuid.NewString()
		d.k.infoDirty = true
	}
	if _, ok := d.k.ids[RootID]; !ok {
		root := &EntryKernel{
			Metahandle:  d.k.nextHandle(),
			ID:          RootID,
			ParentID:    RootID,
			IsDir:       true,
			ServerIsDir: true,
			Ctime:       time.Now().UnixMilli(),
		}
		if err = d.k.insert(root); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		d.k.markDirty(root)
	}

	log.Debug().Str("func", "directory.Open").
		Str("name", name).
		Int("entries", len(d.k.metahandles)).
		Str("cache_guid", d.k.info.CacheGUID).
		Msg("directory opened")
	return d, nil
}

func (k *kernel) load(state *LoadedState) error {
	k.info = state.Info.Clone()
	k.nextMetahandle = state.MaxMetahandle + 1
	for i := range state.Entries {
		entry := state.Entries[i].Clone()
		if err := k.insert(&entry); err != nil {
			return err
		}
		k.nextMetahandle = max(k.nextMetahandle, entry.Metahandle+1)
	}
	k.journal = newDeleteJournal(state.DeleteJournals)
	return nil
}

func (k *kernel) nextHandle() int64 {
	if k.nextMetahandle < 1 {
		k.nextMetahandle = 1
	}
	h := k.nextMetahandle
	k.nextMetahandle++
	return h
}

// insert adds a new kernel to every index.
func (k *kernel) insert(e *EntryKernel) error {
	if _, ok := k.metahandles[e.Metahandle]; ok {
		return fmt.Errorf("%w: metahandle %d", ErrDuplicateIndex, e.Metahandle)
	}
	if _, ok := k.ids[e.ID]; ok {
		return fmt.Errorf("%w: id %s", ErrDuplicateIndex, e.ID)
	}
	if e.UniqueServerTag != "" {
		if _, ok := k.serverTags[e.UniqueServerTag]; ok {
			return fmt.Errorf("%w: server tag %q", ErrDuplicateIndex, e.UniqueServerTag)
		}
	}
	if e.UniqueClientTag != "" {
		if _, ok := k.clientTags[e.UniqueClientTag]; ok {
			return fmt.Errorf("%w: client tag %q", ErrDuplicateIndex, e.UniqueClientTag)
		}
	}

	k.metahandles[e.Metahandle] = e
	k.ids[e.ID] = e
	if e.UniqueServerTag != "" {
		k.serverTags[e.UniqueServerTag] = e
	}
	if e.UniqueClientTag != "" {
		k.clientTags[e.UniqueClientTag] = e
	}
	k.children.insert(e)
	if e.IsUnsynced {
		k.unsynced[e.Metahandle] = struct{}{}
	}
	if e.IsUnappliedUpdate {
		k.addUnapplied(e)
	}
	return nil
}

// drop removes a kernel from every index.
func (k *kernel) drop(e *EntryKernel) {
	k.children.remove(e)
	delete(k.metahandles, e.Metahandle)
	if k.ids[e.ID] == e {
		delete(k.ids, e.ID)
	}
	if e.UniqueServerTag != "" && k.serverTags[e.UniqueServerTag] == e {
		delete(k.serverTags, e.UniqueServerTag)
	}
	if e.UniqueClientTag != "" && k.clientTags[e.UniqueClientTag] == e {
		delete(k.clientTags, e.UniqueClientTag)
	}
	delete(k.unsynced, e.Metahandle)
	k.removeUnapplied(e)
	delete(k.dirty, e.Metahandle)
}

func (k *kernel) addUnapplied(e *EntryKernel) {
	t := e.ServerModelType()
	set, ok := k.unapplied[t]
	if !ok {
		set = make(map[int64]struct{})
		k.unapplied[t] = set
	}
	set[e.Metahandle] = struct{}{}
}

func (k *kernel) removeUnapplied(e *EntryKernel) {
	for _, set := range k.unapplied {
		delete(set, e.Metahandle)
	}
}

func (k *kernel) markDirty(e *EntryKernel) {
	e.dirty = true
	k.dirty[e.Metahandle] = struct{}{}
}

// Name returns the directory name.
func (d *Directory) Name() string {
	return d.name
}

// CacheGUID returns the client identifier of this directory.
func (d *Directory) CacheGUID() string {
	d.txMu.RLock()
	defer d.txMu.RUnlock()
	return d.k.info.CacheGUID
}

// AddObserver registers an observer notified after every write
// transaction that changed something.
func (d *Directory) AddObserver(o TransactionObserver) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	d.observers = append(d.observers, o)
}

// RemoveObserver unregisters o.
func (d *Directory) RemoveObserver(o TransactionObserver) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	for i, obs := range d.observers {
		if obs == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// SaveChanges takes a snapshot of everything dirty and persists it. When
// persisting fails the dirty and purge bookkeeping is restored so the next
// call writes the same data again.
func (d *Directory) SaveChanges(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	snapshot := d.takeSnapshot()
	if snapshot.Empty() {
		return nil
	}

	if err := d.store.SaveChanges(ctx, snapshot); err != nil {
		d.handleSaveChangesFailure(snapshot)
		d.log.Err(err).Str("func", "*Directory.SaveChanges").
			Int("dirty", len(snapshot.DirtyMetas)).
			Int("purged", len(snapshot.MetahandlesToPurge)).
			Msg("error saving directory changes, rolled back")
		return fmt.Errorf("%w: %w", ErrSaveChanges, err)
	}

	d.vacuumAfterSave(snapshot)
	d.log.Debug().Str("func", "*Directory.SaveChanges").
		Int("dirty", len(snapshot.DirtyMetas)).
		Int("purged", len(snapshot.MetahandlesToPurge)).
		Msg("directory changes saved")
	return nil
}

func (d *Directory) takeSnapshot() *SaveChangesSnapshot {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	k := d.k
	s := &SaveChangesSnapshot{
		Info:          k.info.Clone(),
		InfoDirty:     k.infoDirty,
		MaxMetahandle: k.nextMetahandle - 1,
	}
	for h := range k.dirty {
		e, ok := k.metahandles[h]
		if !ok {
			continue
		}
		if e.safeToPurge() {
			s.MetahandlesToPurge = append(s.MetahandlesToPurge, h)
		} else {
			s.DirtyMetas = append(s.DirtyMetas, e.Clone())
		}
		e.dirty = false
	}
	for h := range k.toPurge {
		s.MetahandlesToPurge = append(s.MetahandlesToPurge, h)
	}
	k.journal.takeSnapshot(s)

	clear(k.dirty)
	clear(k.toPurge)
	k.infoDirty = false
	return s
}

func (d *Directory) handleSaveChangesFailure(s *SaveChangesSnapshot) {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	k := d.k
	if s.InfoDirty {
		k.infoDirty = true
	}
	for _, saved := range s.DirtyMetas {
		if e, ok := k.metahandles[saved.Metahandle]; ok {
			k.markDirty(e)
		}
	}
	for _, h := range s.MetahandlesToPurge {
		if e, ok := k.metahandles[h]; ok {
			k.markDirty(e)
			continue
		}
		k.toPurge[h] = struct{}{}
	}
	k.journal.restore(s)
}

// vacuumAfterSave drops purged tombstones from memory once they are gone
// from the store.
func (d *Directory) vacuumAfterSave(s *SaveChangesSnapshot) {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	for _, h := range s.MetahandlesToPurge {
		e, ok := d.k.metahandles[h]
		if !ok || e.dirty || !e.safeToPurge() {
			continue
		}
		d.k.drop(e)
	}
}

// PurgeEntriesWithTypeIn removes every entry of the given types from memory
// and schedules their removal from the store. Type roots are kept.
func (d *Directory) PurgeEntriesWithTypeIn(types models.ModelTypeSet) int {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	purged := 0
	for h, e := range d.k.metahandles {
		if e.ID.IsRoot() || e.UniqueServerTag != "" {
			continue
		}
		if !types.Has(e.ModelType()) && !types.Has(e.ServerModelType()) {
			continue
		}
		d.k.drop(e)
		d.k.toPurge[h] = struct{}{}
		purged++
	}
	for _, t := range types.Slice() {
		if _, ok := d.k.info.DownloadProgress[t]; ok {
			delete(d.k.info.DownloadProgress, t)
			d.k.infoDirty = true
		}
	}
	d.log.Info().Str("func", "*Directory.PurgeEntriesWithTypeIn").
		Stringer("types", types).
		Int("purged", purged).
		Msg("entries purged")
	return purged
}

// PurgeDeleteJournals forgets the journal records of the given ids.
func (d *Directory) PurgeDeleteJournals(ids ...ID) {
	d.txMu.Lock()
	defer d.txMu.Unlock()
	for _, id := range ids {
		d.k.journal.remove(id)
	}
}

// DirtyCount returns the number of entries waiting for the next flush.
func (d *Directory) DirtyCount() int {
	d.txMu.RLock()
	defer d.txMu.RUnlock()
	return len(d.k.dirty)
}

// Close flushes pending changes and closes the backing store.
func (d *Directory) Close(ctx context.Context) error {
	saveErr := d.SaveChanges(ctx)
	if err := d.store.Close(); err != nil {
		d.log.Err(err).Str("func", "*Directory.Close").Msg("error closing backing store")
		return err
	}
	return saveErr
}
