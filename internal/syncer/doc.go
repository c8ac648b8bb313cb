// Package syncer implements the commit and update pipeline.
//
// A sync cycle downloads server changes and stores them in the server
// fields of their entries ([UpdateProcessor]), applies them to the local
// fields with conflict classification ([UpdateApplicator]), then selects
// unsynced entries, commits them in parent-first batches ([CommitBuilder])
// and records the server's answer ([CommitResponseProcessor]).
//
// Conflicts are not errors. They are counted in [UpdateCounters] and kept
// as entry state until a later cycle or a new key resolves them.
package syncer
