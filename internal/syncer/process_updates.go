package syncer

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/validators"
	"github.com/MKhiriev/go-sync-engine/models"
)

// VerifyResult is the outcome of storing one downloaded entity.
type VerifyResult int

const (
	// VerifySuccess means the entity was stored as an unapplied update.
	VerifySuccess VerifyResult = iota
	// VerifySkip means the entity carries nothing new.
	VerifySkip
	// VerifyReflection means the entity echoes one of our own commits.
	VerifyReflection
	// VerifyFail means the entity is malformed.
	VerifyFail
)

func (r VerifyResult) String() string {
	switch r {
	case VerifySuccess:
		return "VERIFY_SUCCESS"
	case VerifySkip:
		return "VERIFY_SKIP"
	case VerifyReflection:
		return "VERIFY_REFLECTION"
	case VerifyFail:
		return "VERIFY_FAIL"
	default:
		return "UNKNOWN"
	}
}

// DownloadCounters summarizes the storing of downloaded entities.
type DownloadCounters struct {
	UpdatesDownloaded int `json:"updates_downloaded"`
	Stored            int `json:"stored"`
	Reflected         int `json:"reflected"`
	Skipped           int `json:"skipped"`
	Invalid           int `json:"invalid"`
}

// Add accumulates other into c.
func (c *DownloadCounters) Add(other DownloadCounters) {
	c.UpdatesDownloaded += other.UpdatesDownloaded
	c.Stored += other.Stored
	c.Reflected += other.Reflected
	c.Skipped += other.Skipped
	c.Invalid += other.Invalid
}

// UpdateProcessor stores downloaded entities in the server fields of their
// local entries. Nothing is applied here; see [UpdateApplicator].
type UpdateProcessor struct {
	validator validators.Validator
	defaults  DefaultFieldValuer
	log       *logger.Logger
}

func NewUpdateProcessor(validator validators.Validator, log *logger.Logger) *UpdateProcessor {
	return &UpdateProcessor{validator: validator, log: log}
}

// ProcessUpdates stores a downloaded batch.
func (p *UpdateProcessor) ProcessUpdates(ctx context.Context, tx *directory.WriteTransaction, updates []models.SyncEntity) DownloadCounters {
	c := DownloadCounters{UpdatesDownloaded: len(updates)}
	for _, u := range updates {
		switch p.ProcessUpdate(ctx, tx, u) {
		case VerifySuccess:
			c.Stored++
		case VerifyReflection:
			c.Reflected++
		case VerifySkip:
			c.Skipped++
		case VerifyFail:
			c.Invalid++
		}
	}
	return c
}

// ProcessUpdate stores one entity.
func (p *UpdateProcessor) ProcessUpdate(ctx context.Context, tx *directory.WriteTransaction, update models.SyncEntity) VerifyResult {
	if err := p.validator.Validate(ctx, update); err != nil {
		p.log.Err(err).Str("func", "*UpdateProcessor.ProcessUpdate").
			Str("id", update.IDString).
			Msg("skipping invalid update")
		return VerifyFail
	}

	id := directory.IDFromServer(update.IDString)
	entry, adopted := p.findLocalEntry(tx, update, id)
	if !entry.Good() {
		if update.Deleted {
			return VerifySkip
		}
		var err error
		if entry, err = tx.CreateUpdateItem(id); err != nil {
			p.log.Err(err).Str("func", "*UpdateProcessor.ProcessUpdate").
				Str("id", update.IDString).
				Msg("error creating update item")
			return VerifyFail
		}
	}

	if update.Version <= entry.ServerVersion() {
		return VerifySkip
	}
	if !adopted && update.Version <= entry.BaseVersion() && !entry.IsUnsynced() {
		// our own commit echoed back; the commit response already recorded it
		entry.PutServerVersion(update.Version)
		return VerifyReflection
	}

	if err := p.updateServerFieldsFromUpdate(entry, update); err != nil {
		p.log.Err(err).Str("func", "*UpdateProcessor.ProcessUpdate").
			Str("id", update.IDString).
			Msg("error storing update")
		return VerifyFail
	}
	return VerifySuccess
}

// findLocalEntry looks the entity up by id, by client tag and finally by
// its originator, which finds items whose commit response was lost. The
// latter two are renumbered to the server id on the spot. adopted is true
// for a client-tag match: the local state was not derived from the update,
// so it can never be a reflection.
func (p *UpdateProcessor) findLocalEntry(tx *directory.WriteTransaction, update models.SyncEntity, id directory.ID) (entry *directory.MutableEntry, adopted bool) {
	if e := tx.GetMutableByID(id); e.Good() {
		return e, false
	}
	if update.ClientDefinedUniqueTag != "" {
		if e := tx.GetMutableByClientTag(update.ClientDefinedUniqueTag); e.Good() {
			// nothing of the server item was seen locally yet
			if err := adoptServerID(tx, e, id, 1); err == nil {
				return e, true
			}
		}
	}
	if update.OriginatorCacheGUID == tx.CacheGUID() && update.OriginatorClientItemID != "" {
		e := tx.GetMutableByID(directory.IDFromOriginatorItemID(update.OriginatorClientItemID))
		if e.Good() && !e.ID().ServerKnows() {
			// the commit went through even though we never heard back
			if err := adoptServerID(tx, e, id, update.Version); err != nil {
				p.log.Err(err).Str("func", "*UpdateProcessor.findLocalEntry").Msg("error renumbering committed item")
				return tx.GetMutableByID(""), false
			}
			return e, false
		}
	}
	return tx.GetMutableByID(""), false
}

// adoptServerID renumbers e to id. A server-known entry needs a positive
// base version, so one without gets base.
func adoptServerID(tx *directory.WriteTransaction, e *directory.MutableEntry, id directory.ID, base int64) error {
	if err := directory.ChangeEntryIDAndUpdateChildren(tx, e, id); err != nil {
		return err
	}
	if e.BaseVersion() <= 0 {
		e.PutBaseVersion(base)
	}
	return nil
}

func (p *UpdateProcessor) updateServerFieldsFromUpdate(entry *directory.MutableEntry, update models.SyncEntity) error {
	if update.ServerDefinedUniqueTag != "" {
		if err := entry.PutUniqueServerTag(update.ServerDefinedUniqueTag); err != nil {
			return err
		}
	}
	if update.ClientDefinedUniqueTag != "" {
		if err := entry.PutUniqueClientTag(update.ClientDefinedUniqueTag); err != nil {
			return err
		}
	}

	entry.PutServerVersion(update.Version)
	entry.PutServerCtime(update.Ctime)
	entry.PutServerMtime(update.Mtime)
	entry.PutServerIsDir(update.Folder)

	if update.Deleted {
		entry.PutServerIsDel(true)
		entry.PutIsUnappliedUpdate(true)
		return nil
	}

	specifics := update.Specifics.Clone()
	if specifics.Type == models.Unspecified {
		if p.defaults != nil {
			p.defaults.AddDefaultFieldValue(update.ModelType(), &specifics)
		} else {
			specifics.Type = update.ModelType()
		}
	}
	entry.PutServerSpecifics(specifics)
	entry.PutServerNonUniqueName(update.DisplayName())
	parent := directory.IDFromServer(update.ParentIDString)
	if parent.IsNull() {
		// permanent folders come without a parent
		parent = directory.RootID
	}
	entry.PutServerParentID(parent)

	if specifics.Type.SupportsOrdering() && entry.UniqueServerTag() == "" {
		if entry.UniqueBookmarkTag() == "" {
			entry.PutUniqueBookmarkTag(bookmarkTagFromUpdate(update))
		}
		suffix := directory.PositionSuffix(entry.UniqueBookmarkTag())
		pos := directory.UniquePositionFromBytes(update.UniquePosition)
		if !pos.IsValid() {
			pos = directory.PositionFromInt64(update.PositionInParent, suffix)
		}
		entry.PutServerUniquePosition(pos)
	}

	entry.PutServerIsDel(false)
	entry.PutIsUnappliedUpdate(true)
	return nil
}

func bookmarkTagFromUpdate(update models.SyncEntity) string {
	if update.OriginatorCacheGUID != "" && update.OriginatorClientItemID != "" {
		return directory.GenerateUniqueBookmarkTag(update.OriginatorCacheGUID, update.OriginatorClientItemID)
	}
	return directory.GenerateUniqueBookmarkTag("", update.IDString)
}
