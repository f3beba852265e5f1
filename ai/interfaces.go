package ai

import "context"

// Model is a loaded language-model instance.
// Implementations must be thread-safe for concurrent use; the inference
// manager serializes calls itself when Info().Batching is false.
type Model interface {
	// Info returns static metadata about the loaded instance, including
	// its memory footprint and whether it supports batched generation.
	Info() ModelInfo

	// Generate runs a single inference request against the model.
	// Returns an error if generation fails; transient failures (timeouts,
	// resource exhaustion) are wrapped with Transient so callers can retry.
	Generate(ctx context.Context, req Request) (Response, error)

	// GenerateBatch runs several requests as one underlying model call.
	// The returned slice contains responses in the same order as the input.
	// Implementations that do not support true batching may process the
	// requests sequentially, but must still honor the ordering contract.
	GenerateBatch(ctx context.Context, reqs []Request) ([]Response, error)

	// Close releases resources held by the model instance.
	Close() error
}

// Loader resolves a model identifier to a loaded Model instance.
// Loading is expected to be expensive (network fetch, GPU upload); the
// inference manager caches instances and deduplicates concurrent loads,
// so implementations do not need their own caching.
type Loader interface {
	// Load loads the model identified by modelID.
	// Returns ErrUnknownModel (possibly wrapped) if the identifier is not
	// recognized. The context bounds the load; on expiry the load must
	// abort and return the context error.
	Load(ctx context.Context, modelID string) (Model, error)
}
