// Package pipeline provides the orchestrator that drives a job through
// its stage DAG.
//
// A pipeline definition names stages and dependencies; the orchestrator
// resolves it against the executor registry into a stable topological
// order, runs stages whose dependencies all succeeded (concurrently when
// independent), and records exactly one StageResult per stage. Dependents
// of a failed stage are skipped transitively rather than executed against
// data that cannot be valid.
//
// Transient stage failures retry with exponential backoff up to the
// configured limit; permanent failures resolve the stage immediately.
// Every attempt is persisted append-only, so a result's attempt count is
// auditable after the fact.
package pipeline
