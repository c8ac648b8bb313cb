package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrItemNotFound       = errors.New("item not found")
	ErrUnknownType        = errors.New("unknown or unsupported model type")
	ErrTypeNotReady       = errors.New("type root folder not downloaded yet")
	ErrInvalidParent      = errors.New("invalid parent")
	ErrIllegalMove        = errors.New("move would create a cycle")
	ErrPermanentItem      = errors.New("permanent items cannot be changed")
	ErrFolderNotEmpty     = errors.New("folder still has children")
	ErrDuplicateClientTag = errors.New("client tag already in use")
)
