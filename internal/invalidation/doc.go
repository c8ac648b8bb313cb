// Package invalidation buffers server push notifications per object until
// a consumer acknowledges them.
//
// An [UnackedInvalidationSet] holds the invalidations of one object id in
// version order. While nobody is registered for the object the set is
// bounded; the oldest entries are discarded and replaced by one
// unknown-version marker so the eventual consumer refetches instead of
// trusting incremental state.
//
// The [Registrar] maps handlers to disjoint object id sets and hands each
// handler only its own invalidations. The [Listener] ties both together:
// it persists the buffered sets, replays them when a handler registers and
// takes acknowledgements and drops back from the consumers.
package invalidation
