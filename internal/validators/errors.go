package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyIDString       = errors.New("entity id is required")
	ErrEmptyParentIDString = errors.New("entity parent id is required")
	ErrSelfParent          = errors.New("entity is its own parent")
	ErrInvalidVersion      = errors.New("invalid entity version")
	ErrUnknownModelType    = errors.New("entity has no model type")
	ErrInvalidPosition     = errors.New("invalid unique position")
	ErrEmptyCommitEntries  = errors.New("commit entries list cannot be empty")
	ErrInvalidResponseType = errors.New("invalid commit response type")
	ErrEmptyCacheGUID      = errors.New("cache guid is required")
)
