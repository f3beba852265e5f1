package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docucore/docucore/ai"
	"github.com/docucore/docucore/core"
)

// ModelRuntime is the only path from an executor to a model. It is
// implemented by the inference manager; acquisition, batching, and release
// happen behind this call.
type ModelRuntime interface {
	Call(ctx context.Context, modelID string, req ai.Request) (ai.Response, error)
}

// Input carries everything an executor may consume: the normalized
// document and the output payloads of its dependency stages, keyed by
// stage name.
type Input struct {
	Document *core.Document
	Upstream map[string][]byte
}

// Executor is one pluggable pipeline stage. Implementations declare their
// dependencies and required models statically; the orchestrator consumes
// the declarations to build the stage DAG.
//
// Execute must be idempotent given identical input and model version:
// stage retries re-run it and expect byte-identical output. Executors
// therefore pin generation temperature to zero and never read wall-clock
// time or random state into their payloads.
type Executor interface {
	// Name is the stage name used in pipeline definitions and results.
	Name() string

	// DependsOn lists the stage names whose success outputs this executor
	// consumes. Empty for root stages.
	DependsOn() []string

	// Models lists the model identifiers the executor calls, for
	// observability and warm-up. Empty for model-free stages.
	Models() []string

	// Optional reports whether a failure of this stage should leave the
	// job completable.
	Optional() bool

	// Execute runs the stage and returns its output payload.
	Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error)
}

// OCROutput is the payload written by the OCR cleanup stage.
type OCROutput struct {
	Text  string `json:"text"`
	Words int    `json:"words"`
}

// ChunkOutput is the payload written by the chunking stage.
type ChunkOutput struct {
	Chunks []string `json:"chunks"`
	Count  int      `json:"count"`
}

// textFrom returns the best upstream text available: the OCR stage's
// cleaned text when present, the raw normalized document otherwise.
func textFrom(in Input) (string, error) {
	if payload, ok := in.Upstream[StageOCR]; ok {
		var out OCROutput
		if err := json.Unmarshal(payload, &out); err != nil {
			return "", fmt.Errorf("%w: %s output: %w", ErrBadUpstream, StageOCR, err)
		}
		return out.Text, nil
	}
	if in.Document == nil || in.Document.Text == "" {
		return "", ErrMissingUpstream
	}
	return in.Document.Text, nil
}

// chunksFrom decodes the chunking stage's output payload.
func chunksFrom(in Input) ([]string, error) {
	payload, ok := in.Upstream[StageChunking]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingUpstream, StageChunking)
	}
	var out ChunkOutput
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %s output: %w", ErrBadUpstream, StageChunking, err)
	}
	if len(out.Chunks) == 0 {
		return nil, fmt.Errorf("%w: %s produced no chunks", ErrBadUpstream, StageChunking)
	}
	return out.Chunks, nil
}

// excerpt joins the first n chunks into one prompt-sized passage.
func excerpt(chunks []string, n int) string {
	if n > len(chunks) {
		n = len(chunks)
	}
	return strings.Join(chunks[:n], "\n\n")
}
