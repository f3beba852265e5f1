package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docucore/docucore/ai"
)

const interpretSystemPrompt = `You analyze document passages. For the given passage, ` +
	`state in one or two sentences what it establishes: obligations, figures, claims, ` +
	`decisions, or findings. Be literal; do not speculate beyond the text. ` +
	`Reply with the sentences only.`

// maxInterpretedChunks caps per-document model calls; very long documents
// are interpreted from their leading chunks only.
const maxInterpretedChunks = 12

// InterpretOutput is the payload written by the semantic-interpretation stage.
type InterpretOutput struct {
	Notes []string `json:"notes"`
}

// Interpretation derives a per-chunk semantic reading of the document.
// Chunk calls go through the model runtime individually so the manager's
// batching window can coalesce them.
type Interpretation struct {
	modelID string
}

var _ Executor = (*Interpretation)(nil)

// NewInterpretation creates the semantic-interpretation executor.
func NewInterpretation(modelID string) *Interpretation {
	return &Interpretation{modelID: modelID}
}

func (e *Interpretation) Name() string        { return StageInterpretation }
func (e *Interpretation) DependsOn() []string { return []string{StageChunking} }
func (e *Interpretation) Models() []string    { return []string{e.modelID} }
func (e *Interpretation) Optional() bool      { return false }

// Execute produces one interpretation note per chunk, in chunk order.
func (e *Interpretation) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	chunks, err := chunksFrom(in)
	if err != nil {
		return nil, err
	}
	if len(chunks) > maxInterpretedChunks {
		chunks = chunks[:maxInterpretedChunks]
	}

	notes := make([]string, len(chunks))
	for i, chunk := range chunks {
		resp, err := rt.Call(ctx, e.modelID, ai.Request{
			System: interpretSystemPrompt,
			Prompt: chunk,
		})
		if err != nil {
			return nil, fmt.Errorf("interpreting chunk %d: %w", i, err)
		}
		notes[i] = resp.Text
	}

	return json.Marshal(InterpretOutput{Notes: notes})
}
