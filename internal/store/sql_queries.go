package store

import (
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
)

const (
	selectMetas = `SELECT metahandle, kernel FROM metas ORDER BY metahandle;`

	selectDeletedMetas = `SELECT id, kernel FROM deleted_metas;`

	selectShareInfo = `SELECT cache_guid, store_birthday, bag_of_chips, download_progress, max_metahandle
		FROM share_info
		WHERE id = 1;`

	selectUnackedInvalidations = `SELECT object_source, object_name, invalidations
		FROM unacked_invalidations
		ORDER BY object_source, object_name;`

	deleteUnackedInvalidations = `DELETE FROM unacked_invalidations;`
)

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildUpsertMetaQuery(k directory.EntryKernel) (string, []any, error) {
	kernel, err := json.Marshal(k)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := sqlite.Insert("metas").
		Options("OR REPLACE").
		Columns("metahandle", "id", "model_type", "is_unsynced", "is_unapplied_update", "kernel").
		Values(k.Metahandle, string(k.ID), k.ModelType().String(), k.IsUnsynced, k.IsUnappliedUpdate, kernel).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildPurgeMetasQuery(handles []int64) (string, []any, error) {
	query, args, err := sqlite.Delete("metas").
		Where(sq.Eq{"metahandle": handles}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertDeleteJournalQuery(k directory.EntryKernel) (string, []any, error) {
	kernel, err := json.Marshal(k)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := sqlite.Insert("deleted_metas").
		Options("OR REPLACE").
		Columns("id", "kernel").
		Values(string(k.ID), kernel).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildPurgeDeleteJournalsQuery(ids []directory.ID) (string, []any, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, string(id))
	}

	query, args, err := sqlite.Delete("deleted_metas").
		Where(sq.Eq{"id": keys}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertShareInfoQuery(info directory.PersistedKernelInfo, maxMetahandle int64) (string, []any, error) {
	progress, err := json.Marshal(info.DownloadProgress)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := sqlite.Insert("share_info").
		Options("OR REPLACE").
		Columns("id", "cache_guid", "store_birthday", "bag_of_chips", "download_progress", "max_metahandle").
		Values(1, info.CacheGUID, info.StoreBirthday, info.BagOfChips, string(progress), maxMetahandle).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildBumpMaxMetahandleQuery(maxMetahandle int64) (string, []any, error) {
	query, args, err := sqlite.Update("share_info").
		Set("max_metahandle", sq.Expr("MAX(max_metahandle, ?)", maxMetahandle)).
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertUnackedInvalidationsQuery(states []invalidation.UnackedState) (string, []any, error) {
	b := sqlite.Insert("unacked_invalidations").
		Columns("object_source", "object_name", "invalidations")
	for _, s := range states {
		invs, err := json.Marshal(s.Invalidations)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		b = b.Values(s.ObjectID.Source, s.ObjectID.Name, string(invs))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
