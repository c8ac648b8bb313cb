package invalidation

import "errors"

var (
	// ErrDuplicateObjectID is returned when a handler tries to register an
	// object id that already belongs to another handler. The whole
	// registration is rejected.
	ErrDuplicateObjectID = errors.New("object id is registered by another handler")
	// ErrUnknownHandler is returned for handlers that were never registered.
	ErrUnknownHandler = errors.New("handler is not registered")
	// ErrUnknownAckHandle is returned when an ack or drop names no buffered
	// invalidation.
	ErrUnknownAckHandle = errors.New("no buffered invalidation with this ack handle")
)
