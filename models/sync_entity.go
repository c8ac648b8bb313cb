package models

// SyncEntity is one item as exchanged with the server, both in commit
// requests and in update batches.
type SyncEntity struct {
	IDString       string `json:"id_string"`
	ParentIDString string `json:"parent_id_string"`
	Version        int64  `json:"version"`
	// Mtime and Ctime are unix milliseconds.
	Mtime int64 `json:"mtime,omitempty"`
	Ctime int64 `json:"ctime,omitempty"`

	Name          string          `json:"name"`
	NonUniqueName string          `json:"non_unique_name,omitempty"`
	Specifics     EntitySpecifics `json:"specifics"`
	Folder        bool            `json:"folder"`
	Deleted       bool            `json:"deleted"`

	ServerDefinedUniqueTag string `json:"server_defined_unique_tag,omitempty"`
	ClientDefinedUniqueTag string `json:"client_defined_unique_tag,omitempty"`

	OriginatorCacheGUID    string `json:"originator_cache_guid,omitempty"`
	OriginatorClientItemID string `json:"originator_client_item_id,omitempty"`

	// UniquePosition is the serialized ordering key; when empty the
	// legacy PositionInParent is used instead.
	UniquePosition   []byte `json:"unique_position,omitempty"`
	PositionInParent int64  `json:"position_in_parent,omitempty"`
}

// DisplayName returns NonUniqueName, falling back to Name.
func (e SyncEntity) DisplayName() string {
	if e.NonUniqueName != "" {
		return e.NonUniqueName
	}
	return e.Name
}

// ModelType returns the type carried by the entity specifics, resolving
// permanent folders through their server tag.
func (e SyncEntity) ModelType() ModelType {
	if e.Specifics.Type != Unspecified {
		return e.Specifics.Type
	}
	if t, ok := ModelTypeFromRootTag(e.ServerDefinedUniqueTag); ok {
		return t
	}
	return Unspecified
}
