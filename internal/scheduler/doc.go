// Package scheduler decides when sync cycles run.
//
// Nudges (local changes, refresh requests and remote invalidations) become
// deadline tasks in a queue polled by a single event loop. Before a job runs
// the scheduler checks the mode, global throttling, exponential backoff,
// per-type throttling and the credential/connection gate. Only a canary job
// may bypass backoff; nothing bypasses throttling.
//
// Cancellation removes tasks from the queue. Stop empties it and forgets
// the pending configuration job.
package scheduler
