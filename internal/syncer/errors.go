package syncer

import "errors"

var (
	// ErrCommitSetMismatch is returned when a commit response does not carry
	// one entry per committed item.
	ErrCommitSetMismatch = errors.New("commit response does not match commit set")

	// ErrNilResponse is returned when the transport returns neither a
	// response nor an error.
	ErrNilResponse = errors.New("transport returned no response")
)
