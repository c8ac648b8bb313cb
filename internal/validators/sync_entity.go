package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/models"
)

// Field name constants used to restrict validation to a subset of checks.
const (
	// FieldIDString targets the server id of an entity.
	FieldIDString = "id_string"

	// FieldParentIDString targets the parent id of a live entity.
	FieldParentIDString = "parent_id_string"

	// FieldVersion targets the server version of an entity.
	FieldVersion = "version"

	// FieldModelType targets the model type carried by the specifics.
	FieldModelType = "model_type"

	// FieldUniquePosition targets the serialized ordering key.
	FieldUniquePosition = "unique_position"

	// FieldCacheGUID targets the cache guid of a commit request.
	FieldCacheGUID = "cache_guid"

	// FieldEntries targets the entry list of commit requests and responses.
	FieldEntries = "entries"
)

// maxUniquePositionLength bounds the ordering keys accepted from the server.
const maxUniquePositionLength = 1024

// SyncEntityValidator validates update entities, commit requests and commit
// responses.
type SyncEntityValidator struct {
}

func NewSyncEntityValidator() Validator {
	return &SyncEntityValidator{}
}

func (v *SyncEntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncEntity:
		return v.validateUpdateEntity(ctx, value, fields...)
	case *models.SyncEntity:
		return v.validateUpdateEntity(ctx, *value, fields...)

	case models.CommitRequest:
		return v.validateCommitRequest(ctx, value, fields...)
	case *models.CommitRequest:
		return v.validateCommitRequest(ctx, *value, fields...)

	case models.CommitResponse:
		return v.validateCommitResponse(ctx, value, fields...)
	case *models.CommitResponse:
		return v.validateCommitResponse(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncEntityValidator) validateUpdateEntity(_ context.Context, e models.SyncEntity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIDString, FieldParentIDString, FieldVersion, FieldModelType, FieldUniquePosition}
	}

	for _, f := range fields {
		switch f {
		case FieldIDString:
			if e.IDString == "" {
				return ErrEmptyIDString
			}
		case FieldParentIDString:
			// deletions and permanent folders may come without a parent
			if e.Deleted || e.ServerDefinedUniqueTag != "" {
				continue
			}
			if e.ParentIDString == "" {
				return ErrEmptyParentIDString
			}
			if e.ParentIDString == e.IDString {
				return ErrSelfParent
			}
		case FieldVersion:
			if e.Version <= 0 {
				return ErrInvalidVersion
			}
		case FieldModelType:
			if !e.Deleted && e.ModelType() == models.Unspecified {
				return ErrUnknownModelType
			}
		case FieldUniquePosition:
			if len(e.UniquePosition) > maxUniquePositionLength {
				return ErrInvalidPosition
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncEntityValidator) validateCommitRequest(ctx context.Context, req models.CommitRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCacheGUID, FieldEntries}
	}

	for _, f := range fields {
		switch f {
		case FieldCacheGUID:
			if req.CacheGUID == "" {
				return ErrEmptyCacheGUID
			}
		case FieldEntries:
			if len(req.Entries) == 0 {
				return ErrEmptyCommitEntries
			}
			for i, e := range req.Entries {
				if err := v.validateUpdateEntity(ctx, e, FieldIDString, FieldModelType); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncEntityValidator) validateCommitResponse(_ context.Context, resp models.CommitResponse, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntries}
	}

	for _, f := range fields {
		switch f {
		case FieldEntries:
			for i, e := range resp.Entries {
				if e.ResponseType < models.CommitSuccess || e.ResponseType > models.CommitTransientError {
					return fmt.Errorf("validation error at index %d: %w", i, ErrInvalidResponseType)
				}
				if e.ResponseType != models.CommitSuccess {
					continue
				}
				if e.IDString == "" {
					return fmt.Errorf("validation error at index %d: %w", i, ErrEmptyIDString)
				}
				if e.Version <= 0 {
					return fmt.Errorf("validation error at index %d: %w", i, ErrInvalidVersion)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
