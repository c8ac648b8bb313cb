// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the records the engine exchanges with the
// server before they reach the directory.
//
// Invalid update entities are skipped by the update pipeline; invalid commit
// responses fail the commit with a validation error.
package validators

import "context"

// Validator checks one record. fields narrows the check to the named
// fields; no fields means every rule applies.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
