// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncer

import (
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// UpdateAttemptResponse is the outcome of one attempt to apply an update.
type UpdateAttemptResponse int

const (
	// Success means the update was applied or there was nothing to apply.
	Success UpdateAttemptResponse = iota
	// ConflictSimple means the entry has local changes as well.
	ConflictSimple
	// ConflictHierarchy means applying would break the tree.
	ConflictHierarchy
	// ConflictEncryption means the payload cannot be decrypted yet.
	ConflictEncryption
)

func (r UpdateAttemptResponse) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case ConflictSimple:
		return "CONFLICT_SIMPLE"
	case ConflictHierarchy:
		return "CONFLICT_HIERARCHY"
	case ConflictEncryption:
		return "CONFLICT_ENCRYPTION"
	default:
		return "UNKNOWN"
	}
}

// UpdateCounters summarizes one application of an update batch. Every
// unapplied item is counted exactly once.
type UpdateCounters struct {
	UpdatesApplied      int `json:"updates_applied"`
	HierarchyConflicts  int `json:"hierarchy_conflicts"`
	EncryptionConflicts int `json:"encryption_conflicts"`
	ServerOverwrites    int `json:"server_overwrites"`
}

// Total returns the number of items the counters account for.
func (c UpdateCounters) Total() int {
	return c.UpdatesApplied + c.HierarchyConflicts + c.EncryptionConflicts + c.ServerOverwrites
}

// Add accumulates other into c.
func (c *UpdateCounters) Add(other UpdateCounters) {
	c.UpdatesApplied += other.UpdatesApplied
	c.HierarchyConflicts += other.HierarchyConflicts
	c.EncryptionConflicts += other.EncryptionConflicts
	c.ServerOverwrites += other.ServerOverwrites
}

// AttemptToUpdateEntry applies the pending server state of entry when it
// can be applied without breaking the tree. Encryption is checked first,
// then the hierarchy, then local changes, so an unsynced entry whose update
// would break the tree is a hierarchy conflict and never resolved by
// server-wins.
func AttemptToUpdateEntry(tx *directory.WriteTransaction, entry *directory.MutableEntry, enc EncryptionHandler) UpdateAttemptResponse {
	if !entry.IsUnappliedUpdate() {
		return Success
	}

	if s := entry.ServerSpecifics(); s.IsEncrypted() && !enc.CanDecrypt(*s.Encrypted) {
		return ConflictEncryption
	}
	if s := entry.Specifics(); entry.IsUnsynced() && s.IsEncrypted() && !enc.CanDecrypt(*s.Encrypted) {
		return ConflictEncryption
	}

	if entry.ServerIsDel() {
		// a folder keeps its live children; their own deletions, if any,
		// arrive in the same batch and free it in a later pass
		if entry.IsDir() && tx.HasChildren(entry.ID()) {
			return ConflictHierarchy
		}
	} else if entry.UniqueServerTag() == "" || !entry.ServerParentID().IsNull() {
		parentID := entry.ServerParentID()
		parent := tx.GetByID(parentID)
		// an unknown, deleted or non-folder parent, or a cycle
		if !parent.Good() || parent.IsDel() || !parent.IsDir() ||
			!tx.IsLegalNewParent(entry.ID(), parentID) {
			return ConflictHierarchy
		}
	}

	if entry.IsUnsynced() {
		return ConflictSimple
	}

	UpdateLocalDataFromServerData(tx, entry)
	return Success
}

// UpdateLocalDataFromServerData copies the server fields of entry into its
// local fields and clears the unapplied flag.
func UpdateLocalDataFromServerData(tx *directory.WriteTransaction, entry *directory.MutableEntry) {
	entry.PutIsDir(entry.ServerIsDir())
	entry.PutSpecifics(entry.ServerSpecifics())
	entry.PutBaseServerSpecifics(models.EntitySpecifics{})
	entry.PutNonUniqueName(entry.ServerNonUniqueName())
	entry.PutCtime(entry.ServerCtime())
	entry.PutMtime(entry.ServerMtime())
	entry.PutBaseVersion(entry.ServerVersion())

	if entry.ServerIsDel() {
		entry.PutIsDel(true)
	} else {
		if parent := entry.ServerParentID(); !parent.IsNull() && parent != entry.ParentID() {
			entry.PutParentIDPropertyOnly(parent)
		}
		if pos := entry.ServerUniquePosition(); pos.IsValid() && !pos.Equals(entry.UniquePosition()) {
			entry.PutUniquePosition(pos)
		}
		entry.PutIsDel(false)
	}
	entry.PutIsUnappliedUpdate(false)
}

// UpdateApplicator applies batches of pending server updates.
type UpdateApplicator struct {
	enc      EncryptionHandler
	resolver *ConflictResolver
	log      *logger.Logger
}

func NewUpdateApplicator(enc EncryptionHandler, log *logger.Logger) *UpdateApplicator {
	return &UpdateApplicator{enc: enc, resolver: NewConflictResolver(enc, log), log: log}
}

// AttemptApplications applies the entries with the given handles. Passes
// repeat while hierarchy conflicts keep shrinking, since an item applied in
// one pass may create the parent another item waits for. Items still in
// hierarchy conflict when a pass makes no progress are counted as such.
// Simple conflicts are resolved server-wins at the end.
func (a *UpdateApplicator) AttemptApplications(tx *directory.WriteTransaction, handles []int64) UpdateCounters {
	var (
		counters UpdateCounters
		simple   []int64
	)

	pending := handles
	for pass := 1; len(pending) > 0; pass++ {
		var retry []int64
		for _, h := range pending {
			entry := tx.GetMutableByHandle(h)
			if !entry.Good() {
				continue
			}
			switch AttemptToUpdateEntry(tx, entry, a.enc) {
			case Success:
				counters.UpdatesApplied++
			case ConflictSimple:
				simple = append(simple, h)
			case ConflictEncryption:
				counters.EncryptionConflicts++
			case ConflictHierarchy:
				retry = append(retry, h)
			}
		}

		if len(retry) == len(pending) {
			counters.HierarchyConflicts += len(retry)
			a.log.Debug().Str("func", "*UpdateApplicator.AttemptApplications").
				Int("pass", pass).
				Int("hierarchy_conflicts", len(retry)).
				Msg("no progress, giving up on remaining updates")
			break
		}
		pending = retry
	}

	counters.ServerOverwrites += a.resolver.ResolveSimpleConflicts(tx, simple)
	return counters
}

// ApplyUpdates applies every pending update of the given types except the
// control types, which go through ApplyControlUpdates first.
func (a *UpdateApplicator) ApplyUpdates(tx *directory.WriteTransaction, types models.ModelTypeSet) UpdateCounters {
	handles := tx.GetUnappliedUpdateMetaHandles(types.Difference(models.ControlTypes()))
	if len(handles) == 0 {
		return UpdateCounters{}
	}
	counters := a.AttemptApplications(tx, handles)
	a.log.Debug().Str("func", "*UpdateApplicator.ApplyUpdates").
		Stringer("types", types).
		Int("applied", counters.UpdatesApplied).
		Int("hierarchy_conflicts", counters.HierarchyConflicts).
		Int("encryption_conflicts", counters.EncryptionConflicts).
		Int("server_overwrites", counters.ServerOverwrites).
		Msg("updates applied")
	return counters
}

// ApplyControlUpdates applies a pending Nigori update. The encryption
// manager merges the record and rewrites the node when the local state is
// newer, so a local Nigori change is never lost to server-wins.
func (a *UpdateApplicator) ApplyControlUpdates(tx *directory.WriteTransaction) UpdateCounters {
	var counters UpdateCounters
	for _, h := range tx.GetUnappliedUpdateMetaHandles(models.ControlTypes()) {
		entry := tx.GetMutableByHandle(h)
		nigori := entry.ServerSpecifics().Nigori
		if entry.ServerIsDel() || nigori == nil {
			a.log.Error().Str("func", "*UpdateApplicator.ApplyControlUpdates").
				Int64("metahandle", h).
				Msg("ignoring nigori update without a record")
			counters.HierarchyConflicts++
			continue
		}

		UpdateLocalDataFromServerData(tx, entry)
		entry.PutIsUnsynced(false)
		a.enc.ApplyNigoriUpdate(tx, *nigori)
		counters.UpdatesApplied++
	}
	return counters
}
