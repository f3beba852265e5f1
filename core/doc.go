// Package core defines the domain model for the document-understanding
// pipeline: documents, pipeline definitions, jobs, and per-stage results.
//
// Types in this package are plain data with no behavior beyond validation
// and status derivation. All processing logic lives in the pipeline,
// inference, and stage packages.
package core
