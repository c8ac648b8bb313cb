package directory

import (
	"errors"
	"fmt"
)

// CheckInvariants walks the whole directory and reports every broken tree,
// index or version invariant. Tests and the debug status endpoint use it.
func (tx *baseTransaction) CheckInvariants() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...))
	}

	k := tx.k
	for h, e := range k.metahandles {
		if e.Metahandle != h {
			fail("metahandle %d indexed as %d", e.Metahandle, h)
		}
		if k.ids[e.ID] != e {
			fail("entry %d not indexed by id %s", h, e.ID)
		}
		if e.UniqueServerTag != "" && k.serverTags[e.UniqueServerTag] != e {
			fail("entry %d not indexed by server tag %q", h, e.UniqueServerTag)
		}
		if e.UniqueClientTag != "" && k.clientTags[e.UniqueClientTag] != e {
			fail("entry %d not indexed by client tag %q", h, e.UniqueClientTag)
		}
		if _, ok := k.unsynced[h]; ok != e.IsUnsynced {
			fail("entry %d unsynced flag %v disagrees with index", h, e.IsUnsynced)
		}
		if e.isLive() {
			if e.ID.ServerKnows() && e.BaseVersion <= 0 {
				fail("synced entry %d has base version %d", h, e.BaseVersion)
			}
			if !e.ParentID.IsRoot() {
				parent, ok := k.ids[e.ParentID]
				switch {
				case !ok:
					fail("entry %d has unknown parent %s", h, e.ParentID)
				case parent.IsDel:
					fail("entry %d lives under deleted parent %s", h, e.ParentID)
				}
			}
			if !tx.IsLegalNewParent(e.ID, e.ParentID) {
				fail("entry %d is part of a cycle", h)
			}
			if k.children.indexOf(e) < 0 {
				fail("live entry %d missing from child index", h)
			}
		}
	}

	for h := range k.unsynced {
		if _, ok := k.metahandles[h]; !ok {
			fail("unsynced index holds unknown handle %d", h)
		}
	}
	for t, set := range k.unapplied {
		for h := range set {
			e, ok := k.metahandles[h]
			if !ok || !e.IsUnappliedUpdate {
				fail("unapplied index for %s holds stale handle %d", t, h)
			}
		}
	}

	for parent, siblings := range k.children {
		for i, s := range siblings {
			if s.ParentID != parent || !s.isLive() {
				fail("child index of %s holds stale entry %d", parent, s.Metahandle)
			}
			if i > 0 && !childLess(siblings[i-1], s) {
				fail("children of %s out of order at %d", parent, s.Metahandle)
			}
		}
	}
	return errors.Join(errs...)
}
