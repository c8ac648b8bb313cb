package server

import "context"

// Server defines the lifecycle contract of the local API server.
type Server interface {
	// RunServer serves requests and blocks until the server stops. A
	// server stopped by Shutdown returns nil.
	RunServer() error

	// Shutdown stops accepting connections and waits for in-flight
	// requests until ctx expires.
	Shutdown(ctx context.Context) error

	// Addr is the configured listen address.
	Addr() string
}
