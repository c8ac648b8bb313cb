package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncObjectSource is the invalidation source of every sync model type.
const SyncObjectSource = 1004

// ObjectID names an invalidated object: a (source, name) pair.
type ObjectID struct {
	Source int    `json:"source"`
	Name   string `json:"name"`
}

// ObjectIDForModelType returns the invalidation object id of t.
func ObjectIDForModelType(t ModelType) ObjectID {
	return ObjectID{Source: SyncObjectSource, Name: NotificationTypeName(t)}
}

// ModelType resolves the model type an object id refers to.
func (o ObjectID) ModelType() (ModelType, bool) {
	if o.Source != SyncObjectSource {
		return Unspecified, false
	}
	return ModelTypeFromString(o.Name)
}

func (o ObjectID) String() string {
	return fmt.Sprintf("%d/%s", o.Source, o.Name)
}

// Less orders object ids by source, then name.
func (o ObjectID) Less(other ObjectID) bool {
	if o.Source != other.Source {
		return o.Source < other.Source
	}
	return o.Name < other.Name
}

// AckHandle identifies one delivery of an invalidation so it can be
// acknowledged or dropped.
type AckHandle struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAckHandle returns a fresh random handle.
func NewAckHandle() AckHandle {
	return AckHandle{State: uuid.NewString(), Timestamp: time.Now()}
}

// IsValid reports whether h was created by NewAckHandle.
func (h AckHandle) IsValid() bool {
	return h.State != ""
}

// Equals compares handles by state only.
func (h AckHandle) Equals(other AckHandle) bool {
	return h.State == other.State
}

// Invalidation is a server push notification that an object changed.
type Invalidation struct {
	ObjectID       ObjectID  `json:"object_id"`
	UnknownVersion bool      `json:"is_unknown_version"`
	Version        int64     `json:"version,omitempty"`
	Payload        string    `json:"payload,omitempty"`
	AckHandle      AckHandle `json:"ack_handle"`
}

// NewInvalidation returns a versioned invalidation with a fresh ack handle.
func NewInvalidation(id ObjectID, version int64, payload string) Invalidation {
	return Invalidation{ObjectID: id, Version: version, Payload: payload, AckHandle: NewAckHandle()}
}

// NewUnknownVersionInvalidation returns an invalidation that tells the
// consumer it lost track of the object's version and must refetch.
func NewUnknownVersionInvalidation(id ObjectID) Invalidation {
	return Invalidation{ObjectID: id, UnknownVersion: true, AckHandle: NewAckHandle()}
}

// VersionLess is the ordering of invalidations of one object: unknown
// versions first, then ascending version. Two unknown-version invalidations
// are equivalent.
func (i Invalidation) VersionLess(other Invalidation) bool {
	if i.UnknownVersion {
		return !other.UnknownVersion
	}
	if other.UnknownVersion {
		return false
	}
	return i.Version < other.Version
}

// Equivalent reports whether neither invalidation orders before the other.
func (i Invalidation) Equivalent(other Invalidation) bool {
	return !i.VersionLess(other) && !other.VersionLess(i)
}
