// Package stage defines the pipeline stage contract and the built-in
// executors: OCR cleanup, chunking, classification, semantic
// interpretation, summarization, Q&A, and metadata extraction.
//
// Executors are a tagged-variant registry: each variant implements the
// fixed Executor contract and the orchestrator dispatches through the
// interface, never via type inspection. Dependencies and required models
// are declared statically so the orchestrator can build the stage DAG
// before any execution happens.
//
// Executors reach models only through the ModelRuntime contract, keeping
// model caching, eviction, and batching policy inside the inference
// package.
package stage
