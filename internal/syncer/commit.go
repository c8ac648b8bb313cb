package syncer

import (
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// DefaultMaxCommitBatchSize bounds the number of items sent in one commit.
const DefaultMaxCommitBatchSize = 25

// CommitBuilder selects unsynced entries and builds commit messages.
type CommitBuilder struct {
	enc          EncryptionHandler
	log          *logger.Logger
	maxBatchSize int
}

func NewCommitBuilder(enc EncryptionHandler, maxBatchSize int, log *logger.Logger) *CommitBuilder {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxCommitBatchSize
	}
	return &CommitBuilder{enc: enc, log: log, maxBatchSize: maxBatchSize}
}

// MaxBatchSize returns the commit batch limit.
func (b *CommitBuilder) MaxBatchSize() int {
	return b.maxBatchSize
}

// GetCommitIDs collects up to the batch limit of committable unsynced
// entries of types in creation order. New parents always precede their
// children. The limit is hard: a new item whose uncommitted ancestors do
// not fit is left for a later batch. Deletions of items the server never saw are dropped from the
// unsynced set instead of being committed.
func (b *CommitBuilder) GetCommitIDs(tx *directory.WriteTransaction, types models.ModelTypeSet) *OrderedCommitSet {
	set := NewOrderedCommitSet()
	encrypted := b.enc.GetEncryptedTypes()
	pending := b.enc.HasPendingKeys()

	for _, h := range tx.GetUnsyncedMetaHandles() {
		if set.Size() >= b.maxBatchSize {
			break
		}
		if set.HaveCommitItem(h) {
			// pulled in earlier as the ancestor of another item
			continue
		}
		entry := tx.GetMutableByHandle(h)
		if !b.readyForCommit(entry, types, encrypted, pending) {
			continue
		}
		if entry.IsDel() && !entry.ID().ServerKnows() {
			entry.PutIsUnsynced(false)
			continue
		}

		chain, ok := b.uncommittedAncestors(tx, entry, set, types, encrypted, pending)
		if !ok {
			continue
		}
		if set.Size()+len(chain)+1 > b.maxBatchSize {
			if set.Empty() {
				// the outermost ancestors go first; entry follows in a
				// later commit once they are known to the server
				for _, a := range chain[:min(len(chain), b.maxBatchSize)] {
					set.AddCommitItem(a.Metahandle(), a.ModelType())
				}
			}
			break
		}
		for _, a := range chain {
			set.AddCommitItem(a.Metahandle(), a.ModelType())
		}
		set.AddCommitItem(h, entry.ModelType())
	}
	return set
}

func (b *CommitBuilder) readyForCommit(entry *directory.MutableEntry, types, encrypted models.ModelTypeSet, pending bool) bool {
	t := entry.ModelType()
	if !entry.Good() || !entry.IsUnsynced() || !types.Has(t) {
		return false
	}
	if entry.IsUnappliedUpdate() {
		// waits for the conflict to be resolved
		return false
	}
	if entry.UniqueServerTag() != "" && t != models.Nigori {
		return false
	}
	if encrypted.Has(t) && t != models.Nigori && !entry.IsDel() {
		s := entry.Specifics()
		if pending && !s.IsEncrypted() {
			return false
		}
		if s.IsEncrypted() && !b.enc.CanDecrypt(*s.Encrypted) {
			return false
		}
	}
	return true
}

// uncommittedAncestors returns the new ancestors of entry that are not in
// set yet, outermost first. ok is false when one of them cannot be
// committed in this cycle.
func (b *CommitBuilder) uncommittedAncestors(tx *directory.WriteTransaction, entry *directory.MutableEntry, set *OrderedCommitSet, types, encrypted models.ModelTypeSet, pending bool) ([]*directory.MutableEntry, bool) {
	var chain []*directory.MutableEntry
	seen := map[directory.ID]bool{entry.ID(): true}
	for parentID := entry.ParentID(); !parentID.ServerKnows(); {
		if seen[parentID] {
			return nil, false
		}
		seen[parentID] = true

		parent := tx.GetMutableByID(parentID)
		if !parent.Good() {
			return nil, false
		}
		if !set.HaveCommitItem(parent.Metahandle()) {
			if !b.readyForCommit(parent, types, encrypted, pending) {
				return nil, false
			}
			chain = append([]*directory.MutableEntry{parent}, chain...)
		}
		parentID = parent.ParentID()
	}
	return chain, true
}

// BuildCommitMessage renders the entries of set as a commit request.
// Payloads of encrypted types are encrypted in place first, so the entry
// and the committed item carry the same data.
func (b *CommitBuilder) BuildCommitMessage(tx *directory.WriteTransaction, set *OrderedCommitSet) (models.CommitRequest, error) {
	req := models.CommitRequest{
		CacheGUID:     tx.CacheGUID(),
		StoreBirthday: tx.StoreBirthday(),
		Entries:       make([]models.SyncEntity, 0, set.Size()),
	}

	for i := 0; i < set.Size(); i++ {
		entry := tx.GetMutableByHandle(set.GetCommitHandleAt(i))

		specifics := entry.Specifics()
		if !entry.IsDel() {
			encrypted, err := b.enc.EncryptSpecifics(specifics)
			if err != nil {
				return req, err
			}
			if !encrypted.Equal(specifics) {
				entry.PutSpecifics(encrypted)
				specifics = encrypted
			}
		}

		item := models.SyncEntity{
			IDString:               entry.ID().ServerID(),
			ParentIDString:         entry.ParentID().ServerID(),
			Mtime:                  entry.Mtime(),
			Ctime:                  entry.Ctime(),
			Name:                   entry.NonUniqueName(),
			NonUniqueName:          entry.NonUniqueName(),
			Specifics:              specifics,
			Folder:                 entry.IsDir(),
			Deleted:                entry.IsDel(),
			ClientDefinedUniqueTag: entry.UniqueClientTag(),
		}
		if entry.ID().ServerKnows() {
			item.Version = entry.BaseVersion()
		} else {
			item.OriginatorCacheGUID = req.CacheGUID
			item.OriginatorClientItemID = entry.ID().ServerID()
		}
		if entry.ShouldMaintainPosition() {
			item.UniquePosition = entry.UniquePosition().Bytes()
		}
		req.Entries = append(req.Entries, item)
	}
	return req, nil
}
