package directory

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-engine/models"
)

// changesVersion is the base version of an item the client has never
// committed or received.
const changesVersion int64 = -1

// MutableEntry is an Entry that can be changed inside a write
// transaction. Every setter marks the entry dirty; the ones touching an
// index keep that index consistent.
type MutableEntry struct {
	Entry
	wtx *WriteTransaction
}

func (tx *WriteTransaction) wrapMutable(k *EntryKernel) *MutableEntry {
	return &MutableEntry{Entry: *tx.wrap(k), wtx: tx}
}

// GetMutableByHandle returns the mutable entry with the given metahandle.
func (tx *WriteTransaction) GetMutableByHandle(metahandle int64) *MutableEntry {
	return tx.wrapMutable(tx.k.metahandles[metahandle])
}

// GetMutableByID returns the mutable entry with the given id.
func (tx *WriteTransaction) GetMutableByID(id ID) *MutableEntry {
	if id.IsNull() {
		return tx.wrapMutable(nil)
	}
	return tx.wrapMutable(tx.k.ids[id])
}

// GetMutableByClientTag returns the mutable entry holding the client tag.
func (tx *WriteTransaction) GetMutableByClientTag(tag string) *MutableEntry {
	if tag == "" {
		return tx.wrapMutable(nil)
	}
	return tx.wrapMutable(tx.k.clientTags[tag])
}

// GetMutableByServerTag returns the mutable entry holding the server tag.
func (tx *WriteTransaction) GetMutableByServerTag(tag string) *MutableEntry {
	if tag == "" {
		return tx.wrapMutable(nil)
	}
	return tx.wrapMutable(tx.k.serverTags[tag])
}

// CreateEntry creates a new local entry of type t under parent. Ordered
// types get a unique bookmark tag and are placed after the last sibling.
// The caller decides whether the entry is unsynced.
func (tx *WriteTransaction) CreateEntry(t models.ModelType, parent ID, name string) *MutableEntry {
	tx.assertOpen()
	now := time.Now().UnixMilli()
	k := &EntryKernel{
		Metahandle:    tx.k.nextHandle(),
		ID:            NewLocalID(),
		ParentID:      parent,
		BaseVersion:   changesVersion,
		NonUniqueName: name,
		Specifics:     models.DefaultSpecifics(t),
		Mtime:         now,
		Ctime:         now,
	}
	if t.SupportsOrdering() {
		k.UniqueBookmarkTag = GenerateUniqueBookmarkTag(tx.k.info.CacheGUID, k.ID.ServerID())
		k.UniquePosition = tx.positionAfterLast(parent, PositionSuffix(k.UniqueBookmarkTag))
	}
	// fresh local ids never collide
	_ = tx.k.insert(k)
	tx.saveCreated(k)
	tx.k.markDirty(k)
	return tx.wrapMutable(k)
}

// CreateUpdateItem creates the placeholder for a server item seen for the
// first time. It stays deleted until the update is applied.
func (tx *WriteTransaction) CreateUpdateItem(id ID) (*MutableEntry, error) {
	tx.assertOpen()
	k := &EntryKernel{
		Metahandle:  tx.k.nextHandle(),
		ID:          id,
		IsDel:       true,
		BaseVersion: changesVersion,
	}
	if err := tx.k.insert(k); err != nil {
		return nil, err
	}
	tx.saveCreated(k)
	tx.k.markDirty(k)
	return tx.wrapMutable(k), nil
}

// CreatePermanentFolder creates the already synced root folder of t.
func (tx *WriteTransaction) CreatePermanentFolder(t models.ModelType, id ID) (*MutableEntry, error) {
	tx.assertOpen()
	k := &EntryKernel{
		Metahandle:          tx.k.nextHandle(),
		ID:                  id,
		ParentID:            RootID,
		ServerParentID:      RootID,
		BaseVersion:         1,
		ServerVersion:       1,
		IsDir:               true,
		ServerIsDir:         true,
		NonUniqueName:       t.String(),
		ServerNonUniqueName: t.String(),
		UniqueServerTag:     t.RootTag(),
		Specifics:           models.DefaultSpecifics(t),
		ServerSpecifics:     models.DefaultSpecifics(t),
	}
	if err := tx.k.insert(k); err != nil {
		return nil, err
	}
	tx.saveCreated(k)
	tx.k.markDirty(k)
	return tx.wrapMutable(k), nil
}

func (tx *WriteTransaction) positionAfterLast(parent ID, suffix []byte) UniquePosition {
	siblings := tx.k.children.children(parent)
	for i := len(siblings) - 1; i >= 0; i-- {
		if siblings[i].UniquePosition.IsValid() {
			return PositionAfter(siblings[i].UniquePosition, suffix)
		}
	}
	return InitialPosition(suffix)
}

func (e *MutableEntry) modify(fn func(k *EntryKernel)) {
	if e.k == nil {
		panic("directory: mutation of an entry that does not exist")
	}
	e.wtx.assertOpen()
	e.wtx.saveOriginal(e.k)
	fn(e.k)
	e.wtx.k.markDirty(e.k)
}

// modifyTyped is modify for fields the model type derives from; it keeps
// the unapplied index keyed by the right type.
func (e *MutableEntry) modifyTyped(fn func(k *EntryKernel)) {
	e.modify(func(k *EntryKernel) {
		if k.IsUnappliedUpdate {
			e.wtx.k.removeUnapplied(k)
			defer e.wtx.k.addUnapplied(k)
		}
		fn(k)
	})
}

// PutID renumbers the entry. Children keep pointing at the old id until
// they are moved with PutParentIDPropertyOnly.
func (e *MutableEntry) PutID(id ID) error {
	if e.k != nil && e.k.ID == id {
		return nil
	}
	if other, ok := e.wtx.k.ids[id]; ok && other != e.k {
		return fmt.Errorf("%w: id %s", ErrDuplicateIndex, id)
	}
	e.modify(func(k *EntryKernel) {
		if e.wtx.k.ids[k.ID] == k {
			delete(e.wtx.k.ids, k.ID)
		}
		k.ID = id
		e.wtx.k.ids[id] = k
	})
	return nil
}

// PutParentIDPropertyOnly changes the parent pointer and keeps the unique
// position as it is. Only for rewriting the parent of a whole children set
// after an id change; anywhere else it leaves the sibling order undefined.
func (e *MutableEntry) PutParentIDPropertyOnly(parent ID) {
	e.modify(func(k *EntryKernel) {
		e.wtx.k.children.remove(k)
		k.ParentID = parent
		e.wtx.k.children.insert(k)
	})
}

// PutParentID moves the entry under parent, placing it first among its
// new siblings.
func (e *MutableEntry) PutParentID(parent ID) error {
	e.PutParentIDPropertyOnly(parent)
	if !e.k.ShouldMaintainPosition() {
		return nil
	}
	return e.PutPredecessor("")
}

// PutPredecessor positions the entry right after the sibling pred, or
// first when pred is empty.
func (e *MutableEntry) PutPredecessor(pred ID) error {
	if !e.kernel().ShouldMaintainPosition() {
		return nil
	}
	self := e.k
	suffix := PositionSuffix(self.UniqueBookmarkTag)

	var siblings []*EntryKernel
	for _, s := range e.wtx.k.children.children(self.ParentID) {
		if s != self && s.UniquePosition.IsValid() {
			siblings = append(siblings, s)
		}
	}

	if pred.IsNull() {
		if len(siblings) == 0 {
			e.PutUniquePosition(InitialPosition(suffix))
			return nil
		}
		e.PutUniquePosition(PositionBefore(siblings[0].UniquePosition, suffix))
		return nil
	}

	predK, ok := e.wtx.k.ids[pred]
	if !ok || predK == self || !predK.isLive() || predK.ParentID != self.ParentID ||
		!predK.UniquePosition.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPredecessor, pred)
	}
	for i, s := range siblings {
		if s != predK {
			continue
		}
		if i+1 < len(siblings) {
			e.PutUniquePosition(PositionBetween(predK.UniquePosition, siblings[i+1].UniquePosition, suffix))
		} else {
			e.PutUniquePosition(PositionAfter(predK.UniquePosition, suffix))
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidPredecessor, pred)
}

// PutUniquePosition sets the ordering key and re-sorts the siblings.
func (e *MutableEntry) PutUniquePosition(pos UniquePosition) {
	e.modify(func(k *EntryKernel) {
		e.wtx.k.children.remove(k)
		k.UniquePosition = pos
		e.wtx.k.children.insert(k)
	})
}

// PutIsDel turns the entry into a tombstone or back. Tombstones leave the
// tree traversal indexes.
func (e *MutableEntry) PutIsDel(del bool) {
	if e.kernel().IsDel == del {
		return
	}
	e.modify(func(k *EntryKernel) {
		if del {
			e.wtx.k.children.remove(k)
			k.IsDel = true
			return
		}
		k.IsDel = false
		e.wtx.k.children.insert(k)
	})
}

// PutUniqueClientTag sets the client tag, failing when another entry holds
// it already.
func (e *MutableEntry) PutUniqueClientTag(tag string) error {
	if e.kernel().UniqueClientTag == tag {
		return nil
	}
	if other, ok := e.wtx.k.clientTags[tag]; ok && tag != "" && other != e.k {
		return fmt.Errorf("%w: client tag %q", ErrDuplicateIndex, tag)
	}
	e.modify(func(k *EntryKernel) {
		if k.UniqueClientTag != "" {
			delete(e.wtx.k.clientTags, k.UniqueClientTag)
		}
		k.UniqueClientTag = tag
		if tag != "" {
			e.wtx.k.clientTags[tag] = k
		}
	})
	return nil
}

// PutUniqueServerTag sets the server tag, failing when another entry holds
// it already.
func (e *MutableEntry) PutUniqueServerTag(tag string) error {
	if e.kernel().UniqueServerTag == tag {
		return nil
	}
	if other, ok := e.wtx.k.serverTags[tag]; ok && tag != "" && other != e.k {
		return fmt.Errorf("%w: server tag %q", ErrDuplicateIndex, tag)
	}
	e.modifyTyped(func(k *EntryKernel) {
		if k.UniqueServerTag != "" {
			delete(e.wtx.k.serverTags, k.UniqueServerTag)
		}
		k.UniqueServerTag = tag
		if tag != "" {
			e.wtx.k.serverTags[tag] = k
		}
	})
	return nil
}

func (e *MutableEntry) PutIsUnsynced(v bool) {
	if e.kernel().IsUnsynced == v {
		return
	}
	e.modify(func(k *EntryKernel) {
		k.IsUnsynced = v
		if v {
			e.wtx.k.unsynced[k.Metahandle] = struct{}{}
		} else {
			delete(e.wtx.k.unsynced, k.Metahandle)
		}
	})
}

func (e *MutableEntry) PutIsUnappliedUpdate(v bool) {
	if e.kernel().IsUnappliedUpdate == v {
		return
	}
	e.modify(func(k *EntryKernel) {
		k.IsUnappliedUpdate = v
		if v {
			e.wtx.k.addUnapplied(k)
		} else {
			e.wtx.k.removeUnapplied(k)
		}
	})
}

// PutServerIsDel records a server-side deletion and keeps the delete
// journal in step.
func (e *MutableEntry) PutServerIsDel(v bool) {
	if e.kernel().ServerIsDel == v {
		return
	}
	e.modify(func(k *EntryKernel) {
		was := k.ServerIsDel
		k.ServerIsDel = v
		e.wtx.k.journal.update(was, k)
	})
}

func (e *MutableEntry) PutSpecifics(s models.EntitySpecifics) {
	e.modifyTyped(func(k *EntryKernel) { k.Specifics = s.Clone() })
}

func (e *MutableEntry) PutServerSpecifics(s models.EntitySpecifics) {
	e.modifyTyped(func(k *EntryKernel) { k.ServerSpecifics = s.Clone() })
}

func (e *MutableEntry) PutBaseServerSpecifics(s models.EntitySpecifics) {
	e.modify(func(k *EntryKernel) { k.BaseServerSpecifics = s.Clone() })
}

func (e *MutableEntry) PutBaseVersion(v int64) {
	e.modify(func(k *EntryKernel) { k.BaseVersion = v })
}

func (e *MutableEntry) PutServerVersion(v int64) {
	e.modify(func(k *EntryKernel) { k.ServerVersion = v })
}

func (e *MutableEntry) PutMtime(v int64) {
	e.modify(func(k *EntryKernel) { k.Mtime = v })
}

func (e *MutableEntry) PutServerMtime(v int64) {
	e.modify(func(k *EntryKernel) { k.ServerMtime = v })
}

func (e *MutableEntry) PutCtime(v int64) {
	e.modify(func(k *EntryKernel) { k.Ctime = v })
}

func (e *MutableEntry) PutServerCtime(v int64) {
	e.modify(func(k *EntryKernel) { k.ServerCtime = v })
}

func (e *MutableEntry) PutServerParentID(id ID) {
	e.modify(func(k *EntryKernel) { k.ServerParentID = id })
}

func (e *MutableEntry) PutIsDir(v bool) {
	e.modify(func(k *EntryKernel) { k.IsDir = v })
}

func (e *MutableEntry) PutServerIsDir(v bool) {
	e.modify(func(k *EntryKernel) { k.ServerIsDir = v })
}

func (e *MutableEntry) PutNonUniqueName(v string) {
	e.modify(func(k *EntryKernel) { k.NonUniqueName = v })
}

func (e *MutableEntry) PutServerNonUniqueName(v string) {
	e.modify(func(k *EntryKernel) { k.ServerNonUniqueName = v })
}

func (e *MutableEntry) PutUniqueBookmarkTag(tag string) {
	e.modify(func(k *EntryKernel) { k.UniqueBookmarkTag = tag })
}

func (e *MutableEntry) PutServerUniquePosition(pos UniquePosition) {
	e.modify(func(k *EntryKernel) { k.ServerUniquePosition = pos })
}
