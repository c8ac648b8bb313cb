// Package server runs the local control API of the sync engine over HTTP
// and shuts it down gracefully.
package server
