// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport used by the sync engine to talk to
// the sync server.
//
// The primary abstraction is [ServerAdapter]. It satisfies the syncer's
// Transport and the scheduler's ConnectionGate, so the pipeline and the
// scheduler never see HTTP. The package ships a JSON over HTTP implementation
// ([NewHTTPServerAdapter]).
//
// Transport failures are returned as [models.SyncerError] or
// [models.SyncProtocolError] values wrapped together with the sentinels in
// errors.go, so callers can use either [errors.Is] on the sentinel or
// [errors.As] on the sync outcome.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the sync server.
type ServerAdapter interface {
	// Commit sends local changes. A non-nil response may still carry a
	// protocol error in its status envelope.
	Commit(ctx context.Context, req models.CommitRequest) (*models.CommitResponse, error)
	// GetUpdates downloads one batch of server changes.
	GetUpdates(ctx context.Context, req models.GetUpdatesRequest) (*models.GetUpdatesResponse, error)
	// Ping checks that the server is reachable. It updates the connection
	// status like every other call.
	Ping(ctx context.Context) error

	// SetToken stores the bearer token attached to every request.
	SetToken(token string)
	// Token returns the stored bearer token.
	Token() string

	// HasValidCredentials reports whether a token is set and not expired.
	HasValidCredentials() bool
	// IsConnected reports the outcome of the last request. It starts true.
	IsConnected() bool
	// OnConnectionChange registers fn to be called when the connection
	// status flips.
	OnConnectionChange(fn func(connected bool))
}
