// Package inference provides the model runtime manager: the single owner
// of loaded model instances in the process.
//
// The manager guarantees:
//
//   - at most one load operation per model identifier is in flight;
//     concurrent acquirers of an unloaded model share the same load
//   - instances are cached and reference-counted; a handle is never
//     evicted while its reference count is nonzero
//   - least-recently-used idle instances are evicted when the configured
//     memory budget would be exceeded
//   - requests to batching models arriving within the batch window are
//     grouped into one underlying call; non-batching models are called
//     serially per instance
//
// No other package touches model state directly: stage executors go
// through Call, and the orchestrator never sees an ai.Model.
package inference
