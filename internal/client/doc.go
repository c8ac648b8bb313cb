// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client builds the sync engine from its configuration and runs it.
//
// It opens the directory on the configured backing store, wires the
// encryption manager, transport, syncer, scheduler and invalidation
// listener together, starts the background workers and the local API, and
// tears all of it down in reverse order on shutdown.
package client
