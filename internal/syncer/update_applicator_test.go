// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncer

import (
	"fmt"
	"testing"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Ordering ─────────────────────────────────────────────────────────────────

func TestApplyUpdates_ChildBeforeParent(t *testing.T) {
	p := newPipeline(t)

	// the child is stored first, so it gets the lower metahandle and is
	// attempted before its parent exists
	p.store(t,
		bookmarkUpdate("child", "folder", "child", 1, false),
		bookmarkUpdate("folder", bookmarksRootWireID, "folder", 1, true),
	)
	c := p.apply(t)

	assert.Equal(t, UpdateCounters{UpdatesApplied: 2}, c)
	p.read(t, func(tx *directory.ReadTransaction) {
		child := tx.GetByID(directory.IDFromServer("child"))
		require.True(t, child.Good())
		assert.False(t, child.IsDel())
		assert.False(t, child.IsUnappliedUpdate())
		assert.Equal(t, directory.IDFromServer("folder"), child.ParentID())
		assert.NoError(t, tx.CheckInvariants())
	})
}

func TestApplyUpdates_DeepChainInReverseOrder(t *testing.T) {
	p := newPipeline(t)

	const depth = 10
	var updates []models.SyncEntity
	for i := depth - 1; i >= 0; i-- {
		parent := bookmarksRootWireID
		if i > 0 {
			parent = fmt.Sprintf("f%d", i-1)
		}
		updates = append(updates, bookmarkUpdate(fmt.Sprintf("f%d", i), parent, fmt.Sprintf("f%d", i), 1, true))
	}
	p.store(t, updates...)
	c := p.apply(t)

	assert.Equal(t, depth, c.UpdatesApplied)
	assert.Zero(t, c.HierarchyConflicts)
}

// ── Hierarchy conflicts ──────────────────────────────────────────────────────

func TestApplyUpdates_UnknownParent(t *testing.T) {
	p := newPipeline(t)

	p.store(t, bookmarkUpdate("orphan", "nowhere", "orphan", 1, false))
	c := p.apply(t)

	assert.Equal(t, UpdateCounters{HierarchyConflicts: 1}, c)
	p.read(t, func(tx *directory.ReadTransaction) {
		e := tx.GetByID(directory.IDFromServer("orphan"))
		assert.True(t, e.IsUnappliedUpdate())
		assert.True(t, e.IsDel())
	})
}

func TestApplyUpdates_ParentDeletedLocally(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t, bookmarkUpdate("folder", bookmarksRootWireID, "folder", 1, true))

	p.write(t, func(tx *directory.WriteTransaction) {
		f := tx.GetMutableByID(directory.IDFromServer("folder"))
		f.PutIsDel(true)
		f.PutIsUnsynced(true)
	})

	p.store(t, bookmarkUpdate("item", "folder", "item", 1, false))
	c := p.apply(t)

	assert.Equal(t, 1, c.HierarchyConflicts)
	assert.Zero(t, c.UpdatesApplied)
}

func TestApplyUpdates_CycleIsRejected(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t,
		bookmarkUpdate("a", bookmarksRootWireID, "a", 1, true),
		bookmarkUpdate("b", bookmarksRootWireID, "b", 1, true),
	)

	// a under b and b under a
	p.store(t,
		bookmarkUpdate("a", "b", "a", 2, true),
		bookmarkUpdate("b", "a", "b", 2, true),
	)
	c := p.apply(t)

	assert.Equal(t, 2, c.Total())
	assert.Equal(t, 1, c.UpdatesApplied)
	assert.Equal(t, 1, c.HierarchyConflicts)
	p.read(t, func(tx *directory.ReadTransaction) {
		assert.NoError(t, tx.CheckInvariants())
	})
}

func TestApplyUpdates_FolderDeleteWithUnsyncedChild(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t, bookmarkUpdate("folder", bookmarksRootWireID, "folder", 1, true))

	folderID := directory.IDFromServer("folder")
	var childHandle int64
	p.write(t, func(tx *directory.WriteTransaction) {
		childHandle = newLocalItem(tx, folderID, "new child", false).Metahandle()
	})

	p.store(t, deletionUpdate("folder", 2))
	c := p.apply(t)

	assert.Equal(t, UpdateCounters{HierarchyConflicts: 1}, c)
	p.read(t, func(tx *directory.ReadTransaction) {
		folder := tx.GetByID(folderID)
		assert.False(t, folder.IsDel())
		assert.True(t, folder.IsUnappliedUpdate())

		child := tx.GetByHandle(childHandle)
		assert.False(t, child.IsDel())
		assert.True(t, child.IsUnsynced())
		assert.Equal(t, folderID, child.ParentID())
	})
}

func TestApplyUpdates_FolderAndChildrenDeletedTogether(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t,
		bookmarkUpdate("folder", bookmarksRootWireID, "folder", 1, true),
		bookmarkUpdate("c1", "folder", "c1", 1, false),
		bookmarkUpdate("c2", "folder", "c2", 1, false),
	)

	p.store(t, deletionUpdate("folder", 2), deletionUpdate("c1", 2), deletionUpdate("c2", 2))
	c := p.apply(t)

	assert.Equal(t, UpdateCounters{UpdatesApplied: 3}, c)
	p.read(t, func(tx *directory.ReadTransaction) {
		assert.True(t, tx.GetByID(directory.IDFromServer("folder")).IsDel())
		assert.False(t, tx.HasChildren(directory.IDFromServer("folder")))
	})
}

// ── Simple conflicts ─────────────────────────────────────────────────────────

func TestApplyUpdates_ServerWins(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t, bookmarkUpdate("item", bookmarksRootWireID, "original", 1, false))

	id := directory.IDFromServer("item")
	p.write(t, func(tx *directory.WriteTransaction) {
		e := tx.GetMutableByID(id)
		e.PutNonUniqueName("local edit")
		e.PutIsUnsynced(true)
	})

	p.store(t, bookmarkUpdate("item", bookmarksRootWireID, "server edit", 2, false))
	c := p.apply(t)

	assert.Equal(t, UpdateCounters{ServerOverwrites: 1}, c)
	p.read(t, func(tx *directory.ReadTransaction) {
		e := tx.GetByID(id)
		assert.Equal(t, "server edit", e.NonUniqueName())
		assert.Equal(t, int64(2), e.BaseVersion())
		assert.False(t, e.IsUnsynced())
		assert.False(t, e.IsUnappliedUpdate())
	})
}

func TestApplyUpdates_IdenticalConflictClearsUnsynced(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t, bookmarkUpdate("item", bookmarksRootWireID, "original", 1, false))

	id := directory.IDFromServer("item")
	p.write(t, func(tx *directory.WriteTransaction) {
		e := tx.GetMutableByID(id)
		e.PutNonUniqueName("same")
		e.PutSpecifics(bookmarkSpecifics("same"))
		e.PutIsUnsynced(true)
	})

	update := bookmarkUpdate("item", bookmarksRootWireID, "same", 2, false)
	var pos directory.UniquePosition
	p.read(t, func(tx *directory.ReadTransaction) {
		pos = tx.GetByID(id).UniquePosition()
	})
	update.UniquePosition = pos.Bytes()
	p.store(t, update)
	c := p.apply(t)

	assert.Equal(t, 1, c.ServerOverwrites)
	p.read(t, func(tx *directory.ReadTransaction) {
		e := tx.GetByID(id)
		assert.False(t, e.IsUnsynced())
		assert.Equal(t, int64(2), e.BaseVersion())
	})
}

func TestApplyUpdates_ServerWinsRecommitsPlaintextOfEncryptedType(t *testing.T) {
	p := newPipeline(t)
	p.storeAndApply(t, bookmarkUpdate("item", bookmarksRootWireID, "original", 1, false))

	id := directory.IDFromServer("item")
	p.write(t, func(tx *directory.WriteTransaction) {
		e := tx.GetMutableByID(id)
		e.PutNonUniqueName("local edit")
		e.PutIsUnsynced(true)
	})
	p.enc.encrypted = models.NewModelTypeSet(models.Bookmarks)

	// the server still has plaintext while bookmarks are now encrypted
	p.store(t, bookmarkUpdate("item", bookmarksRootWireID, "server edit", 2, false))
	c := p.apply(t)

	assert.Equal(t, 1, c.ServerOverwrites)
	p.read(t, func(tx *directory.ReadTransaction) {
		e := tx.GetByID(id)
		assert.Equal(t, "server edit", e.NonUniqueName())
		assert.True(t, e.IsUnsynced())
	})
}

// ── Encryption conflicts ─────────────────────────────────────────────────────

func TestApplyUpdates_UndecryptablePayload(t *testing.T) {
	p := newPipeline(t)
	p.enc.missing["lost key"] = true

	update := bookmarkUpdate("item", bookmarksRootWireID, "item", 1, false)
	update.Specifics = encryptedSpecifics(models.Bookmarks, "lost key", "blob")
	p.store(t, update)

	c := p.apply(t)
	assert.Equal(t, UpdateCounters{EncryptionConflicts: 1}, c)

	// the key arrives; the next application succeeds
	delete(p.enc.missing, "lost key")
	c = p.apply(t)
	assert.Equal(t, UpdateCounters{UpdatesApplied: 1}, c)
}

// ── Counters ─────────────────────────────────────────────────────────────────

func TestApplyUpdates_CountersCoverEveryItem(t *testing.T) {
	p := newPipeline(t)
	p.enc.missing["lost key"] = true
	p.storeAndApply(t, bookmarkUpdate("edited", bookmarksRootWireID, "edited", 1, false))
	p.write(t, func(tx *directory.WriteTransaction) {
		e := tx.GetMutableByID(directory.IDFromServer("edited"))
		e.PutNonUniqueName("local")
		e.PutIsUnsynced(true)
	})

	encrypted := bookmarkUpdate("secret", bookmarksRootWireID, "secret", 1, false)
	encrypted.Specifics = encryptedSpecifics(models.Bookmarks, "lost key", "blob")

	updates := []models.SyncEntity{
		bookmarkUpdate("edited", bookmarksRootWireID, "server", 2, false),
		bookmarkUpdate("orphan", "missing", "orphan", 1, false),
		encrypted,
	}
	for i := 0; i < 20; i++ {
		updates = append(updates, bookmarkUpdate(fmt.Sprintf("n%d", i), bookmarksRootWireID, fmt.Sprintf("n%d", i), 1, false))
	}
	p.store(t, updates...)

	var pending int
	p.read(t, func(tx *directory.ReadTransaction) {
		pending = len(tx.GetUnappliedUpdateMetaHandles(models.ProtocolTypes()))
	})
	c := p.apply(t)

	assert.Equal(t, pending, c.Total())
	assert.Equal(t, UpdateCounters{
		UpdatesApplied:      20,
		HierarchyConflicts:  1,
		EncryptionConflicts: 1,
		ServerOverwrites:    1,
	}, c)
}

func TestApplyUpdates_Idempotent(t *testing.T) {
	p := newPipeline(t)
	p.store(t,
		bookmarkUpdate("folder", bookmarksRootWireID, "folder", 1, true),
		bookmarkUpdate("item", "folder", "item", 1, false),
	)

	first := p.apply(t)
	second := p.apply(t)

	assert.Equal(t, 2, first.UpdatesApplied)
	assert.Equal(t, UpdateCounters{}, second)
}

// ── Control types ────────────────────────────────────────────────────────────

func TestApplyControlUpdates_HandsNigoriToEncryption(t *testing.T) {
	p := newPipeline(t)
	nigori := models.NigoriSpecifics{PassphraseType: models.KeystorePassphrase}
	p.store(t, models.SyncEntity{
		IDString:               "nigori",
		Version:                1,
		ServerDefinedUniqueTag: models.Nigori.RootTag(),
		Specifics:              models.EntitySpecifics{Type: models.Nigori, Nigori: &nigori},
	})

	var c UpdateCounters
	p.write(t, func(tx *directory.WriteTransaction) {
		c = p.applicator.ApplyControlUpdates(tx)
	})

	assert.Equal(t, UpdateCounters{UpdatesApplied: 1}, c)
	require.Len(t, p.enc.nigori, 1)
	assert.Equal(t, models.KeystorePassphrase, p.enc.nigori[0].PassphraseType)
	p.read(t, func(tx *directory.ReadTransaction) {
		e := tx.GetByServerTag(models.Nigori.RootTag())
		assert.False(t, e.IsUnappliedUpdate())
		assert.False(t, e.IsUnsynced())
	})
}

func TestApplyUpdates_SkipsControlTypes(t *testing.T) {
	p := newPipeline(t)
	nigori := models.NigoriSpecifics{}
	p.store(t, models.SyncEntity{
		IDString:               "nigori",
		Version:                1,
		ServerDefinedUniqueTag: models.Nigori.RootTag(),
		Specifics:              models.EntitySpecifics{Type: models.Nigori, Nigori: &nigori},
	})

	c := p.apply(t)
	assert.Equal(t, UpdateCounters{}, c)
	assert.Empty(t, p.enc.nigori)
}
