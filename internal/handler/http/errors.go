// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced while decoding requests of the local API.
// Callers can match against them with [errors.Is].
var (
	// ErrUnknownModelType is returned when a type given by name or number
	// does not resolve to a model type.
	ErrUnknownModelType = errors.New("unknown model type")

	// ErrMissingHash is returned by the integrity check when a request
	// arrives without the HashSHA256 header while a hash key is configured.
	ErrMissingHash = errors.New("missing `HashSHA256` header")

	// ErrHashMismatch is returned when the HashSHA256 header does not match
	// the HMAC of the request body.
	ErrHashMismatch = errors.New("integrity check failed")

	// ErrUnknownInvalidatorState is returned for an invalidator state name
	// that is not one of the known states.
	ErrUnknownInvalidatorState = errors.New("unknown invalidator state")

	// ErrUnknownPurpose is returned when a passphrase is neither meant to
	// encrypt nor to decrypt.
	ErrUnknownPurpose = errors.New("unknown passphrase purpose")
)
