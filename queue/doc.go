// Package queue admits document jobs into the system and bounds how many
// run at once.
//
// Submissions are persisted before they are visible to workers, so a job
// record always exists by the time it starts executing. The queue itself is
// a fixed-capacity buffer in front of a worker pool: when the buffer is
// full, Submit fails fast with ErrQueueSaturated rather than queuing
// without bound. Callers are expected to back off and retry.
//
// Jobs can be cancelled while queued or running. A queued job that is
// cancelled before a worker picks it up is marked cancelled without ever
// reaching the orchestrator.
package queue
