package syncer

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/validators"
	"github.com/MKhiriev/go-sync-engine/models"
)

// CommitCounters summarizes the per-item results of a commit.
type CommitCounters struct {
	Successes       int `json:"successes"`
	Conflicts       int `json:"conflicts"`
	TransientErrors int `json:"transient_errors"`
	Errors          int `json:"errors"`
}

// Add accumulates other into c.
func (c *CommitCounters) Add(other CommitCounters) {
	c.Successes += other.Successes
	c.Conflicts += other.Conflicts
	c.TransientErrors += other.TransientErrors
	c.Errors += other.Errors
}

// CommitResponseProcessor records the outcome of a commit in the directory.
type CommitResponseProcessor struct {
	validator validators.Validator
	log       *logger.Logger
}

func NewCommitResponseProcessor(validator validators.Validator, log *logger.Logger) *CommitResponseProcessor {
	return &CommitResponseProcessor{validator: validator, log: log}
}

// ProcessCommitResponse walks the response in commit order. Every
// successful create is renumbered to its server id together with all of
// its children, committed or not, so sibling order and parent references
// survive the id change.
func (p *CommitResponseProcessor) ProcessCommitResponse(
	ctx context.Context,
	tx *directory.WriteTransaction,
	set *OrderedCommitSet,
	req models.CommitRequest,
	resp models.CommitResponse,
) (CommitCounters, models.SyncerError) {
	var c CommitCounters

	if len(resp.Entries) != set.Size() || len(req.Entries) != set.Size() {
		p.log.Err(ErrCommitSetMismatch).Str("func", "*CommitResponseProcessor.ProcessCommitResponse").
			Int("committed", set.Size()).
			Int("responses", len(resp.Entries)).
			Msg("bad commit response")
		return c, models.ServerResponseValidationFailed
	}
	if err := p.validator.Validate(ctx, resp); err != nil {
		p.log.Err(err).Str("func", "*CommitResponseProcessor.ProcessCommitResponse").Msg("invalid commit response")
		return c, models.ServerResponseValidationFailed
	}

	for i := 0; i < set.Size(); i++ {
		result := resp.Entries[i]
		switch result.ResponseType {
		case models.CommitSuccess:
			if err := p.processSuccessfulCommitItem(tx, set.GetCommitHandleAt(i), req.Entries[i], result); err != nil {
				p.log.Err(err).Str("func", "*CommitResponseProcessor.ProcessCommitResponse").
					Int64("metahandle", set.GetCommitHandleAt(i)).
					Msg("error processing committed item")
				c.Errors++
				continue
			}
			c.Successes++
		case models.CommitConflict:
			c.Conflicts++
		case models.CommitRetry, models.CommitTransientError:
			c.TransientErrors++
		case models.CommitInvalidMessage, models.CommitOverQuota:
			p.log.Error().Str("func", "*CommitResponseProcessor.ProcessCommitResponse").
				Stringer("response_type", result.ResponseType).
				Str("error", result.ErrorMessage).
				Msg("item rejected by server")
			c.Errors++
		}
	}

	switch {
	case c.Errors > 0:
		return c, models.ServerReturnUnknownError
	case c.TransientErrors > 0:
		return c, models.ServerReturnTransientError
	case c.Conflicts > 0:
		return c, models.ServerReturnConflict
	}
	return c, models.SyncerOK
}

func (p *CommitResponseProcessor) processSuccessfulCommitItem(
	tx *directory.WriteTransaction,
	metahandle int64,
	committed models.SyncEntity,
	result models.CommitResponseEntry,
) error {
	entry := tx.GetMutableByHandle(metahandle)
	if !entry.Good() {
		return fmt.Errorf("%w: metahandle %d", directory.ErrEntryNotFound, metahandle)
	}
	if result.Version < entry.BaseVersion() {
		return fmt.Errorf("server version %d is older than base version %d", result.Version, entry.BaseVersion())
	}

	if !entry.ID().ServerKnows() {
		newID := directory.IDFromServer(result.IDString)
		oldID := entry.ID()
		if entry.ShouldMaintainPosition() && entry.UniqueBookmarkTag() == "" {
			entry.PutUniqueBookmarkTag(directory.GenerateUniqueBookmarkTag(tx.CacheGUID(), oldID.ServerID()))
		}
		if err := directory.ChangeEntryIDAndUpdateChildren(tx, entry, newID); err != nil {
			return err
		}
		p.log.Debug().Str("func", "*CommitResponseProcessor.processSuccessfulCommitItem").
			Stringer("old_id", oldID).
			Stringer("new_id", newID).
			Msg("renumbered committed item")
	}

	entry.PutBaseVersion(result.Version)
	if result.Version > entry.ServerVersion() {
		entry.PutServerVersion(result.Version)
	}
	entry.PutServerParentID(entry.ParentID())
	entry.PutServerIsDir(committed.Folder)
	entry.PutServerSpecifics(committed.Specifics)
	entry.PutBaseServerSpecifics(models.EntitySpecifics{})
	if name := result.NonUniqueName; name != "" {
		entry.PutServerNonUniqueName(name)
	} else {
		entry.PutServerNonUniqueName(committed.DisplayName())
	}
	if result.Mtime != 0 {
		entry.PutServerMtime(result.Mtime)
	} else {
		entry.PutServerMtime(committed.Mtime)
	}
	entry.PutServerCtime(committed.Ctime)
	if entry.ShouldMaintainPosition() {
		entry.PutServerUniquePosition(entry.UniquePosition())
	}
	entry.PutServerIsDel(committed.Deleted)

	// an entry edited while the commit was in flight stays unsynced
	if committed.Deleted == entry.IsDel() &&
		committed.NonUniqueName == entry.NonUniqueName() &&
		committed.Specifics.Equal(entry.Specifics()) {
		entry.PutIsUnsynced(false)
	}
	return nil
}
