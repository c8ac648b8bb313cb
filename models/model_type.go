// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"math/bits"
	"sort"
	"strings"
)

// ModelType identifies a class of synchronized data. Every Entry belongs to
// exactly one model type, derived from its specifics.
type ModelType int

const (
	// Unspecified marks entries without specifics (the root, unapplied
	// placeholders).
	Unspecified ModelType = iota
	// TopLevelFolder is the type of permanent server-created folders.
	TopLevelFolder
	Bookmarks
	Preferences
	Passwords
	Autofill
	Themes
	TypedURLs
	Extensions
	Apps
	Sessions
	// Nigori holds the encryption metadata record. It is never encrypted.
	Nigori

	modelTypeCount
)

// FirstRealModelType is the lowest model type that carries user data.
const FirstRealModelType = Bookmarks

var modelTypeNames = map[ModelType]string{
	Unspecified:    "Unspecified",
	TopLevelFolder: "Top Level Folder",
	Bookmarks:      "Bookmarks",
	Preferences:    "Preferences",
	Passwords:      "Passwords",
	Autofill:       "Autofill",
	Themes:         "Themes",
	TypedURLs:      "Typed URLs",
	Extensions:     "Extensions",
	Apps:           "Apps",
	Sessions:       "Sessions",
	Nigori:         "Encryption keys",
}

var modelTypeRootTags = map[ModelType]string{
	Bookmarks:   "bookmarks_root",
	Preferences: "preferences_root",
	Passwords:   "passwords_root",
	Autofill:    "autofill_root",
	Themes:      "themes_root",
	TypedURLs:   "typed_urls_root",
	Extensions:  "extensions_root",
	Apps:        "apps_root",
	Sessions:    "sessions_root",
	Nigori:      "nigori_root",
}

// String returns the human readable model type name.
func (t ModelType) String() string {
	if name, ok := modelTypeNames[t]; ok {
		return name
	}
	return "INVALID"
}

// IsReal reports whether t carries user data (everything except the
// placeholder types).
func (t ModelType) IsReal() bool {
	return t >= FirstRealModelType && t < modelTypeCount
}

// RootTag returns the unique server tag of the permanent folder that roots
// all entries of t. Returns an empty string for types without a root.
func (t ModelType) RootTag() string {
	return modelTypeRootTags[t]
}

// SupportsOrdering reports whether entries of t keep an explicit sibling
// order through unique positions.
func (t ModelType) SupportsOrdering() bool {
	return t == Bookmarks
}

// IsHierarchical reports whether entries of t may form nested folders.
func (t ModelType) IsHierarchical() bool {
	return t == Bookmarks
}

// KeepsDeleteJournal reports whether server-side deletions of t are recorded
// in the directory delete journal.
func (t ModelType) KeepsDeleteJournal() bool {
	return t == Bookmarks
}

// ModelTypeFromRootTag resolves the type owning the permanent folder with the
// given server tag.
func ModelTypeFromRootTag(tag string) (ModelType, bool) {
	for t, rootTag := range modelTypeRootTags {
		if rootTag == tag {
			return t, true
		}
	}
	return Unspecified, false
}

// ModelTypeFromString resolves a model type from its String() form or the
// notification name used by invalidation object ids.
func ModelTypeFromString(name string) (ModelType, bool) {
	for t, n := range modelTypeNames {
		if strings.EqualFold(n, name) || strings.EqualFold(NotificationTypeName(t), name) {
			return t, true
		}
	}
	return Unspecified, false
}

// NotificationTypeName returns the name used for t in invalidation object ids.
func NotificationTypeName(t ModelType) string {
	return strings.ToUpper(strings.ReplaceAll(modelTypeNames[t], " ", "_"))
}

// ModelTypeSet is a small bitset of model types.
type ModelTypeSet uint64

// NewModelTypeSet builds a set holding the given types.
func NewModelTypeSet(types ...ModelType) ModelTypeSet {
	var s ModelTypeSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// With returns a copy of s that also holds t.
func (s ModelTypeSet) With(t ModelType) ModelTypeSet {
	return s | 1<<uint(t)
}

// Without returns a copy of s without t.
func (s ModelTypeSet) Without(t ModelType) ModelTypeSet {
	return s &^ (1 << uint(t))
}

// Has reports whether t is in s.
func (s ModelTypeSet) Has(t ModelType) bool {
	return s&(1<<uint(t)) != 0
}

// HasAll reports whether every type of other is in s.
func (s ModelTypeSet) HasAll(other ModelTypeSet) bool {
	return s&other == other
}

// Union returns the types present in either set.
func (s ModelTypeSet) Union(other ModelTypeSet) ModelTypeSet {
	return s | other
}

// Intersection returns the types present in both sets.
func (s ModelTypeSet) Intersection(other ModelTypeSet) ModelTypeSet {
	return s & other
}

// Difference returns the types of s absent from other.
func (s ModelTypeSet) Difference(other ModelTypeSet) ModelTypeSet {
	return s &^ other
}

// Empty reports whether s holds no types.
func (s ModelTypeSet) Empty() bool {
	return s == 0
}

// Len returns the number of types in s.
func (s ModelTypeSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Slice returns the types of s in ascending order.
func (s ModelTypeSet) Slice() []ModelType {
	out := make([]ModelType, 0, s.Len())
	for t := Unspecified; t < modelTypeCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders s as a comma separated list of type names.
func (s ModelTypeSet) String() string {
	names := make([]string, 0, s.Len())
	for _, t := range s.Slice() {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ProtocolTypes returns every type exchanged with the server.
func ProtocolTypes() ModelTypeSet {
	var s ModelTypeSet
	for t := FirstRealModelType; t < modelTypeCount; t++ {
		s = s.With(t)
	}
	return s
}

// UserTypes returns the protocol types that hold user data (all but Nigori).
func UserTypes() ModelTypeSet {
	return ProtocolTypes().Without(Nigori)
}

// EncryptableUserTypes returns the types that may be encrypted.
func EncryptableUserTypes() ModelTypeSet {
	return UserTypes()
}

// SensitiveTypes returns the types that are always encrypted regardless of
// the encrypt-everything setting.
func SensitiveTypes() ModelTypeSet {
	return NewModelTypeSet(Passwords)
}

// ControlTypes returns the types the engine itself owns.
func ControlTypes() ModelTypeSet {
	return NewModelTypeSet(Nigori)
}

// PriorityTypes returns the types downloaded before everything else in a
// configuration cycle.
func PriorityTypes() ModelTypeSet {
	return ControlTypes()
}
