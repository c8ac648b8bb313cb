// Package http serves the local control API of the sync engine.
//
// The API lets a host process read and edit items, request refreshes,
// install credentials and push invalidations received from a notification
// channel. /debug/status and /metrics expose the scheduler, the last sync
// cycle and the unacknowledged invalidations. Request tracing, access
// logging, compression and the HMAC check on pushed payloads are applied
// as middleware before a request reaches the service layer.
package http
