package directory

import (
	"slices"

	"github.com/MKhiriev/go-sync-engine/models"
)

// WriterTag names the component that opened a write transaction.
type WriterTag int

const (
	WriterUnittest WriterTag = iota
	WriterSyncer
	WriterSyncAPI
	WriterEncryption
	WriterPurge
)

func (w WriterTag) String() string {
	switch w {
	case WriterSyncer:
		return "SYNCER"
	case WriterSyncAPI:
		return "SYNCAPI"
	case WriterEncryption:
		return "ENCRYPTION"
	case WriterPurge:
		return "PURGE"
	default:
		return "UNITTEST"
	}
}

// EntryKernelMutation is the before and after state of one entry changed
// by a write transaction.
type EntryKernelMutation struct {
	Original EntryKernel
	Mutated  EntryKernel
}

// TransactionObserver receives the changes of every write transaction after
// the directory lock is released.
type TransactionObserver interface {
	OnTransactionWrite(writer WriterTag, mutations []EntryKernelMutation, types models.ModelTypeSet)
}

// Read runs fn inside a read transaction.
func (d *Directory) Read(fn func(tx *ReadTransaction) error) error {
	d.txMu.RLock()
	defer d.txMu.RUnlock()
	return fn(&ReadTransaction{baseTransaction{d: d, k: d.k}})
}

// Write runs fn inside the exclusive write transaction. Mutations made by
// fn stay applied even when fn returns an error; the decision to proceed is
// the caller's. Observers are notified once the lock is released.
func (d *Directory) Write(writer WriterTag, fn func(tx *WriteTransaction) error) error {
	tx := &WriteTransaction{
		baseTransaction: baseTransaction{d: d, k: d.k},
		writer:          writer,
		originals:       make(map[int64]EntryKernel),
	}

	mutations, types, err := func() ([]EntryKernelMutation, models.ModelTypeSet, error) {
		d.txMu.Lock()
		defer d.txMu.Unlock()
		defer func() { tx.closed = true }()

		err := fn(tx)
		mutations, types := tx.collectMutations()
		return mutations, types, err
	}()

	if len(mutations) > 0 {
		d.notifyObservers(writer, mutations, types)
	}
	return err
}

func (d *Directory) notifyObservers(writer WriterTag, mutations []EntryKernelMutation, types models.ModelTypeSet) {
	d.obsMu.RLock()
	observers := slices.Clone(d.observers)
	d.obsMu.RUnlock()

	for _, o := range observers {
		o.OnTransactionWrite(writer, mutations, types)
	}
}

// baseTransaction holds the lookups shared by read and write transactions.
type baseTransaction struct {
	d *Directory
	k *kernel
}

// ReadTransaction is a consistent read-only view of the directory.
type ReadTransaction struct {
	baseTransaction
}

// WriteTransaction is the exclusive mutable view of the directory.
type WriteTransaction struct {
	baseTransaction
	writer WriterTag

	originals map[int64]EntryKernel
	order     []int64
	closed    bool
}

// Writer returns the tag the transaction was opened with.
func (tx *WriteTransaction) Writer() WriterTag {
	return tx.writer
}

func (tx *WriteTransaction) assertOpen() {
	if tx.closed {
		panic("directory: mutation through a closed write transaction")
	}
}

// saveOriginal records the state of e before its first mutation in tx.
func (tx *WriteTransaction) saveOriginal(e *EntryKernel) {
	if _, ok := tx.originals[e.Metahandle]; ok {
		return
	}
	tx.originals[e.Metahandle] = e.Clone()
	tx.order = append(tx.order, e.Metahandle)
}

// saveCreated records a freshly created entry; its original is the zero
// kernel.
func (tx *WriteTransaction) saveCreated(e *EntryKernel) {
	tx.originals[e.Metahandle] = EntryKernel{Metahandle: e.Metahandle}
	tx.order = append(tx.order, e.Metahandle)
}

func (tx *WriteTransaction) collectMutations() ([]EntryKernelMutation, models.ModelTypeSet) {
	var (
		out   []EntryKernelMutation
		types models.ModelTypeSet
	)
	for _, h := range tx.order {
		original := tx.originals[h]
		current, ok := tx.k.metahandles[h]
		if !ok {
			continue
		}
		if original.Equal(current) {
			continue
		}
		out = append(out, EntryKernelMutation{Original: original, Mutated: current.Clone()})
		types = types.With(current.ModelType()).With(original.ModelType())
	}
	return out, types.Without(models.Unspecified)
}

// GetByHandle returns the entry with the given metahandle.
func (tx *baseTransaction) GetByHandle(metahandle int64) *Entry {
	return tx.wrap(tx.k.metahandles[metahandle])
}

// GetByID returns the entry with the given id.
func (tx *baseTransaction) GetByID(id ID) *Entry {
	if id.IsNull() {
		return &Entry{}
	}
	return tx.wrap(tx.k.ids[id])
}

// GetByClientTag returns the entry holding the unique client tag.
func (tx *baseTransaction) GetByClientTag(tag string) *Entry {
	if tag == "" {
		return &Entry{}
	}
	return tx.wrap(tx.k.clientTags[tag])
}

// GetByServerTag returns the entry holding the unique server tag.
func (tx *baseTransaction) GetByServerTag(tag string) *Entry {
	if tag == "" {
		return &Entry{}
	}
	return tx.wrap(tx.k.serverTags[tag])
}

// GetTypeRoot returns the permanent folder of t.
func (tx *baseTransaction) GetTypeRoot(t models.ModelType) *Entry {
	return tx.GetByServerTag(t.RootTag())
}

func (tx *baseTransaction) wrap(k *EntryKernel) *Entry {
	if k == nil {
		return &Entry{}
	}
	return &Entry{k: k, tx: tx}
}

// GetChildHandles returns the metahandles of the live children of parent
// in sibling order.
func (tx *baseTransaction) GetChildHandles(parent ID) []int64 {
	children := tx.k.children.children(parent)
	out := make([]int64, 0, len(children))
	for _, c := range children {
		out = append(out, c.Metahandle)
	}
	return out
}

// GetFirstChildID returns the id of the first live child of parent.
func (tx *baseTransaction) GetFirstChildID(parent ID) ID {
	children := tx.k.children.children(parent)
	if len(children) == 0 {
		return ""
	}
	return children[0].ID
}

// HasChildren reports whether parent has any live child.
func (tx *baseTransaction) HasChildren(parent ID) bool {
	return len(tx.k.children.children(parent)) > 0
}

// GetAllMetaHandles returns every metahandle in ascending order.
func (tx *baseTransaction) GetAllMetaHandles() []int64 {
	out := make([]int64, 0, len(tx.k.metahandles))
	for h := range tx.k.metahandles {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// GetUnsyncedMetaHandles returns the handles of entries with local changes
// pending commit, in creation order.
func (tx *baseTransaction) GetUnsyncedMetaHandles() []int64 {
	out := make([]int64, 0, len(tx.k.unsynced))
	for h := range tx.k.unsynced {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// UnsyncedCount returns the number of entries pending commit.
func (tx *baseTransaction) UnsyncedCount() int {
	return len(tx.k.unsynced)
}

// GetUnappliedUpdateMetaHandles returns the handles of entries of the given
// server types with server changes pending application.
func (tx *baseTransaction) GetUnappliedUpdateMetaHandles(types models.ModelTypeSet) []int64 {
	var out []int64
	for t, set := range tx.k.unapplied {
		if !types.Has(t) {
			continue
		}
		for h := range set {
			out = append(out, h)
		}
	}
	slices.Sort(out)
	return out
}

// GetDeleteJournals returns the journaled server deletions of the given
// types.
func (tx *baseTransaction) GetDeleteJournals(types models.ModelTypeSet) []EntryKernel {
	return tx.k.journal.list(types)
}

// DownloadProgress returns the progress marker of t.
func (tx *baseTransaction) DownloadProgress(t models.ModelType) string {
	return tx.k.info.DownloadProgress[t]
}

// InitialSyncEnded reports whether the first download of t completed.
func (tx *baseTransaction) InitialSyncEnded(t models.ModelType) bool {
	return tx.k.info.DownloadProgress[t] != "" && tx.GetTypeRoot(t).Good()
}

// StoreBirthday returns the birthday of the server store this directory
// syncs with.
func (tx *baseTransaction) StoreBirthday() string {
	return tx.k.info.StoreBirthday
}

// BagOfChips returns the opaque server cookie.
func (tx *baseTransaction) BagOfChips() []byte {
	return tx.k.info.BagOfChips
}

// CacheGUID returns the client identifier of the directory.
func (tx *baseTransaction) CacheGUID() string {
	return tx.k.info.CacheGUID
}

// SetDownloadProgress stores the progress marker of t.
func (tx *WriteTransaction) SetDownloadProgress(t models.ModelType, marker string) {
	tx.assertOpen()
	if tx.k.info.DownloadProgress[t] == marker {
		return
	}
	tx.k.info.DownloadProgress[t] = marker
	tx.k.infoDirty = true
}

// SetStoreBirthday stores the server store birthday.
func (tx *WriteTransaction) SetStoreBirthday(birthday string) {
	tx.assertOpen()
	if tx.k.info.StoreBirthday == birthday {
		return
	}
	tx.k.info.StoreBirthday = birthday
	tx.k.infoDirty = true
}

// SetBagOfChips stores the opaque server cookie.
func (tx *WriteTransaction) SetBagOfChips(chips []byte) {
	tx.assertOpen()
	tx.k.info.BagOfChips = append([]byte(nil), chips...)
	tx.k.infoDirty = true
}
