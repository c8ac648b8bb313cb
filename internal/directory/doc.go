// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package directory implements the transactional store of synchronized
// entries.
//
// Entries live in an arena indexed by metahandle. Secondary indexes map
// ids, parent ids (children ordered by [UniquePosition]) and unique client
// and server tags back to the arena slot, so re-parenting or renumbering an
// entry is an index update rather than a pointer graph mutation.
//
// All access goes through [Directory.Read] and [Directory.Write]. Any number
// of read transactions may run concurrently; write transactions are
// exclusive. Every mutation marks the entry dirty; [Directory.SaveChanges]
// snapshots the dirty set, hands it to a [BackingStore] and restores the
// bookkeeping when the store fails, so the next flush retries the same data.
package directory
