package models

import "encoding/json"

// Item is the local view of one synced entity as seen by the model layer.
type Item struct {
	ID        string          `json:"id"`
	ParentID  string          `json:"parent_id"`
	Type      ModelType       `json:"type"`
	Name      string          `json:"name"`
	Folder    bool            `json:"folder"`
	ClientTag string          `json:"client_tag,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	// Undecryptable is set when the payload is encrypted with a key the
	// client does not have yet. Data is empty then.
	Undecryptable bool  `json:"undecryptable,omitempty"`
	Version       int64 `json:"version"`
	Unsynced      bool  `json:"unsynced"`
	Mtime         int64 `json:"mtime"`
}

// CreateItemRequest describes a new local item. An empty ParentID puts the
// item under the root folder of Type.
type CreateItemRequest struct {
	Type      ModelType       `json:"type"`
	ParentID  string          `json:"parent_id,omitempty"`
	Name      string          `json:"name"`
	Folder    bool            `json:"folder,omitempty"`
	ClientTag string          `json:"client_tag,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// UpdateItemRequest changes the name and/or payload of an item. Nil fields
// are left alone.
type UpdateItemRequest struct {
	Name *string         `json:"name,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MoveItemRequest moves an item under ParentID, right after PredecessorID
// or first when PredecessorID is empty.
type MoveItemRequest struct {
	ParentID      string `json:"parent_id"`
	PredecessorID string `json:"predecessor_id,omitempty"`
}

// ItemChange is one item touched by a write transaction.
type ItemChange struct {
	Before *Item `json:"before,omitempty"`
	After  *Item `json:"after,omitempty"`
}
