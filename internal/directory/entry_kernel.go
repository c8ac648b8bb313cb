package directory

import (
	"github.com/MKhiriev/go-sync-engine/models"
)

// EntryKernel is the arena slot of one entry. Fields prefixed with Server
// hold the latest state reported by the server; the others hold the local
// state.
type EntryKernel struct {
	Metahandle int64 `json:"metahandle"`

	// BaseVersion is the server version the local state was derived from.
	BaseVersion int64 `json:"base_version"`
	// ServerVersion is the latest version reported by the server.
	ServerVersion int64 `json:"server_version"`

	// Timestamps are unix milliseconds.
	Mtime       int64 `json:"mtime"`
	ServerMtime int64 `json:"server_mtime"`
	Ctime       int64 `json:"ctime"`
	ServerCtime int64 `json:"server_ctime"`

	ID             ID `json:"id"`
	ParentID       ID `json:"parent_id"`
	ServerParentID ID `json:"server_parent_id"`

	IsUnsynced        bool `json:"is_unsynced"`
	IsUnappliedUpdate bool `json:"is_unapplied_update"`
	IsDel             bool `json:"is_del"`
	IsDir             bool `json:"is_dir"`
	ServerIsDir       bool `json:"server_is_dir"`
	ServerIsDel       bool `json:"server_is_del"`

	NonUniqueName       string `json:"non_unique_name"`
	ServerNonUniqueName string `json:"server_non_unique_name"`

	UniqueServerTag   string `json:"unique_server_tag,omitempty"`
	UniqueClientTag   string `json:"unique_client_tag,omitempty"`
	UniqueBookmarkTag string `json:"unique_bookmark_tag,omitempty"`

	Specifics       models.EntitySpecifics `json:"specifics"`
	ServerSpecifics models.EntitySpecifics `json:"server_specifics"`
	// BaseServerSpecifics keeps the server payload the local edit was based
	// on while an encrypted update is pending.
	BaseServerSpecifics models.EntitySpecifics `json:"base_server_specifics"`

	UniquePosition       UniquePosition `json:"unique_position"`
	ServerUniquePosition UniquePosition `json:"server_unique_position"`

	dirty bool
}

// ModelType returns the type of the local specifics, resolving permanent
// folders through their server tag.
func (k *EntryKernel) ModelType() models.ModelType {
	if k.Specifics.Type != models.Unspecified {
		return k.Specifics.Type
	}
	if t, ok := models.ModelTypeFromRootTag(k.UniqueServerTag); ok {
		return t
	}
	return models.Unspecified
}

// ServerModelType returns the type of the server specifics.
func (k *EntryKernel) ServerModelType() models.ModelType {
	if k.ServerSpecifics.Type != models.Unspecified {
		return k.ServerSpecifics.Type
	}
	if t, ok := models.ModelTypeFromRootTag(k.UniqueServerTag); ok {
		return t
	}
	if k.IsUnappliedUpdate {
		return k.ModelType()
	}
	return models.Unspecified
}

// ShouldMaintainPosition reports whether the entry takes part in explicit
// sibling ordering. Permanent folders are never positioned.
func (k *EntryKernel) ShouldMaintainPosition() bool {
	return k.ModelType().SupportsOrdering() && k.UniqueServerTag == ""
}

// IsDirty reports whether the kernel changed since the last snapshot.
func (k *EntryKernel) IsDirty() bool {
	return k.dirty
}

// Clone returns a deep copy of the kernel.
func (k *EntryKernel) Clone() EntryKernel {
	out := *k
	out.Specifics = k.Specifics.Clone()
	out.ServerSpecifics = k.ServerSpecifics.Clone()
	out.BaseServerSpecifics = k.BaseServerSpecifics.Clone()
	out.UniquePosition = UniquePositionFromBytes(k.UniquePosition.key)
	out.ServerUniquePosition = UniquePositionFromBytes(k.ServerUniquePosition.key)
	return out
}

// Equal compares every persisted field of two kernels.
func (k *EntryKernel) Equal(o *EntryKernel) bool {
	return k.Metahandle == o.Metahandle &&
		k.BaseVersion == o.BaseVersion &&
		k.ServerVersion == o.ServerVersion &&
		k.Mtime == o.Mtime && k.ServerMtime == o.ServerMtime &&
		k.Ctime == o.Ctime && k.ServerCtime == o.ServerCtime &&
		k.ID == o.ID && k.ParentID == o.ParentID && k.ServerParentID == o.ServerParentID &&
		k.IsUnsynced == o.IsUnsynced && k.IsUnappliedUpdate == o.IsUnappliedUpdate &&
		k.IsDel == o.IsDel && k.IsDir == o.IsDir &&
		k.ServerIsDir == o.ServerIsDir && k.ServerIsDel == o.ServerIsDel &&
		k.NonUniqueName == o.NonUniqueName && k.ServerNonUniqueName == o.ServerNonUniqueName &&
		k.UniqueServerTag == o.UniqueServerTag && k.UniqueClientTag == o.UniqueClientTag &&
		k.UniqueBookmarkTag == o.UniqueBookmarkTag &&
		k.Specifics.Equal(o.Specifics) &&
		k.ServerSpecifics.Equal(o.ServerSpecifics) &&
		k.BaseServerSpecifics.Equal(o.BaseServerSpecifics) &&
		k.UniquePosition.Equals(o.UniquePosition) &&
		k.ServerUniquePosition.Equals(o.ServerUniquePosition)
}

// isLive reports whether the entry takes part in tree traversal.
func (k *EntryKernel) isLive() bool {
	return !k.IsDel && !k.ID.IsRoot()
}

// safeToPurge reports whether a tombstone can leave the store: it is
// deleted, the server acknowledged the deletion and nothing is pending.
func (k *EntryKernel) safeToPurge() bool {
	return k.IsDel && !k.IsUnsynced && !k.IsUnappliedUpdate && !k.ID.IsRoot() &&
		(!k.ID.ServerKnows() || k.ServerIsDel)
}
