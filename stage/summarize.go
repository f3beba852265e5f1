package stage

import (
	"context"
	"encoding/json"

	"github.com/docucore/docucore/ai"
)

const summarizeSystemPrompt = `You summarize documents for enterprise workflows. ` +
	`Produce a concise summary of at most five sentences covering the document's ` +
	`purpose, parties, and key facts. Reply with the summary only.`

// maxSummaryChunks bounds the prompt size for very long documents.
const maxSummaryChunks = 8

// SummarizeOutput is the payload written by the summarization stage.
type SummarizeOutput struct {
	Summary string `json:"summary"`
}

// Summarization produces a short document summary from the leading chunks.
type Summarization struct {
	modelID string
}

var _ Executor = (*Summarization)(nil)

// NewSummarization creates the summarization executor.
func NewSummarization(modelID string) *Summarization {
	return &Summarization{modelID: modelID}
}

func (e *Summarization) Name() string        { return StageSummarization }
func (e *Summarization) DependsOn() []string { return []string{StageChunking} }
func (e *Summarization) Models() []string    { return []string{e.modelID} }
func (e *Summarization) Optional() bool      { return false }

func (e *Summarization) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	chunks, err := chunksFrom(in)
	if err != nil {
		return nil, err
	}

	resp, err := rt.Call(ctx, e.modelID, ai.Request{
		System: summarizeSystemPrompt,
		Prompt: excerpt(chunks, maxSummaryChunks),
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(SummarizeOutput{Summary: resp.Text})
}
