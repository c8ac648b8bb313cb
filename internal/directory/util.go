package directory

import (
	"crypto/sha256"
	"encoding/base64"
)

// ChangeEntryIDAndUpdateChildren renumbers entry to newID and points every
// live child at the new id. Children keep their unique positions, so the
// sibling order survives even for children that were not committed
// together with their parent.
func ChangeEntryIDAndUpdateChildren(tx *WriteTransaction, entry *MutableEntry, newID ID) error {
	oldID := entry.ID()
	if oldID == newID {
		return nil
	}
	if err := entry.PutID(newID); err != nil {
		return err
	}
	for _, h := range tx.GetChildHandles(oldID) {
		tx.GetMutableByHandle(h).PutParentIDPropertyOnly(newID)
	}
	return nil
}

// GenerateUniqueBookmarkTag derives the stable ordering tag of an item from
// the cache GUID of its originating client and its originating local id.
func GenerateUniqueBookmarkTag(cacheGUID, originatorItemID string) string {
	sum := sha256.Sum256([]byte(cacheGUID + originatorItemID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// IsLegalNewParent reports whether moving the entry with id under
// newParent keeps the tree acyclic.
func (tx *baseTransaction) IsLegalNewParent(id, newParent ID) bool {
	if id == newParent {
		return false
	}
	cur := newParent
	for steps := 0; !cur.IsRoot(); steps++ {
		if steps > len(tx.k.metahandles) {
			return false
		}
		if cur == id {
			return false
		}
		parent, ok := tx.k.ids[cur]
		if !ok {
			// unknown ancestors are reported by the caller as a missing
			// parent, not as a cycle
			return true
		}
		cur = parent.ParentID
	}
	return true
}

// HasUnsyncedChildren reports whether any live child of id has local
// changes pending commit.
func (tx *baseTransaction) HasUnsyncedChildren(id ID) bool {
	for _, c := range tx.k.children.children(id) {
		if c.IsUnsynced {
			return true
		}
	}
	return false
}
