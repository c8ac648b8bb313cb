package directory

import (
	"github.com/MKhiriev/go-sync-engine/models"
)

// Entry is a read-only handle on one entry, valid for the lifetime of the
// transaction that produced it. A lookup that does not resolve yields an
// entry whose Good reports false; every getter then returns the zero value.
type Entry struct {
	tx *baseTransaction
	k  *EntryKernel
}

// Good reports whether the lookup resolved.
func (e *Entry) Good() bool {
	return e.k != nil
}

// Kernel returns a copy of the underlying kernel.
func (e *Entry) Kernel() EntryKernel {
	if e.k == nil {
		return EntryKernel{}
	}
	return e.k.Clone()
}

func (e *Entry) kernel() *EntryKernel {
	if e.k == nil {
		return &EntryKernel{}
	}
	return e.k
}

func (e *Entry) Metahandle() int64       { return e.kernel().Metahandle }
func (e *Entry) ID() ID                  { return e.kernel().ID }
func (e *Entry) ParentID() ID            { return e.kernel().ParentID }
func (e *Entry) ServerParentID() ID      { return e.kernel().ServerParentID }
func (e *Entry) BaseVersion() int64      { return e.kernel().BaseVersion }
func (e *Entry) ServerVersion() int64    { return e.kernel().ServerVersion }
func (e *Entry) Mtime() int64            { return e.kernel().Mtime }
func (e *Entry) ServerMtime() int64      { return e.kernel().ServerMtime }
func (e *Entry) Ctime() int64            { return e.kernel().Ctime }
func (e *Entry) ServerCtime() int64      { return e.kernel().ServerCtime }
func (e *Entry) IsUnsynced() bool        { return e.kernel().IsUnsynced }
func (e *Entry) IsUnappliedUpdate() bool { return e.kernel().IsUnappliedUpdate }
func (e *Entry) IsDel() bool             { return e.kernel().IsDel }
func (e *Entry) IsDir() bool             { return e.kernel().IsDir }
func (e *Entry) ServerIsDir() bool       { return e.kernel().ServerIsDir }
func (e *Entry) ServerIsDel() bool       { return e.kernel().ServerIsDel }
func (e *Entry) NonUniqueName() string   { return e.kernel().NonUniqueName }
func (e *Entry) ServerNonUniqueName() string {
	return e.kernel().ServerNonUniqueName
}
func (e *Entry) UniqueServerTag() string   { return e.kernel().UniqueServerTag }
func (e *Entry) UniqueClientTag() string   { return e.kernel().UniqueClientTag }
func (e *Entry) UniqueBookmarkTag() string { return e.kernel().UniqueBookmarkTag }

func (e *Entry) Specifics() models.EntitySpecifics {
	return e.kernel().Specifics.Clone()
}

func (e *Entry) ServerSpecifics() models.EntitySpecifics {
	return e.kernel().ServerSpecifics.Clone()
}

func (e *Entry) BaseServerSpecifics() models.EntitySpecifics {
	return e.kernel().BaseServerSpecifics.Clone()
}

func (e *Entry) UniquePosition() UniquePosition {
	return UniquePositionFromBytes(e.kernel().UniquePosition.key)
}

func (e *Entry) ServerUniquePosition() UniquePosition {
	return UniquePositionFromBytes(e.kernel().ServerUniquePosition.key)
}

func (e *Entry) ModelType() models.ModelType {
	return e.kernel().ModelType()
}

func (e *Entry) ServerModelType() models.ModelType {
	return e.kernel().ServerModelType()
}

// IsRoot reports whether the entry is the directory root.
func (e *Entry) IsRoot() bool {
	return e.kernel().ID.IsRoot()
}

// ShouldMaintainPosition reports whether the entry is explicitly ordered
// among its siblings.
func (e *Entry) ShouldMaintainPosition() bool {
	return e.kernel().ShouldMaintainPosition()
}

// PredecessorID returns the id of the previous live sibling, or an empty
// id when the entry is first or not in the tree.
func (e *Entry) PredecessorID() ID {
	if e.k == nil {
		return ""
	}
	siblings := e.tx.k.children.children(e.k.ParentID)
	i := e.tx.k.children.indexOf(e.k)
	if i <= 0 {
		return ""
	}
	return siblings[i-1].ID
}

// SuccessorID returns the id of the next live sibling, or an empty id when
// the entry is last or not in the tree.
func (e *Entry) SuccessorID() ID {
	if e.k == nil {
		return ""
	}
	siblings := e.tx.k.children.children(e.k.ParentID)
	i := e.tx.k.children.indexOf(e.k)
	if i < 0 || i+1 >= len(siblings) {
		return ""
	}
	return siblings[i+1].ID
}

// FirstChildID returns the id of the first live child.
func (e *Entry) FirstChildID() ID {
	if e.k == nil {
		return ""
	}
	return e.tx.GetFirstChildID(e.k.ID)
}
