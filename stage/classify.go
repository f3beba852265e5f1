package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docucore/docucore/ai"
)

// DefaultCategories are the document categories used when a deployment
// does not configure its own taxonomy.
var DefaultCategories = []string{
	"contract",
	"correspondence",
	"financial_statement",
	"invoice",
	"legal_filing",
	"manual",
	"report",
	"research_paper",
	"resume",
	"other",
}

// ClassifyOutput is the payload written by the classification stage.
type ClassifyOutput struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classification assigns the document to one category of a fixed taxonomy
// using a language model.
type Classification struct {
	modelID    string
	categories []string
}

var _ Executor = (*Classification)(nil)

// NewClassification creates the classification executor. An empty
// categories slice selects DefaultCategories.
func NewClassification(modelID string, categories []string) *Classification {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &Classification{modelID: modelID, categories: categories}
}

func (e *Classification) Name() string        { return StageClassification }
func (e *Classification) DependsOn() []string { return []string{StageChunking} }
func (e *Classification) Models() []string    { return []string{e.modelID} }
func (e *Classification) Optional() bool      { return false }

func (e *Classification) systemPrompt() string {
	return fmt.Sprintf(`You classify documents. Assign the document excerpt to exactly one of `+
		`these categories: %s. Reply with a JSON object of the form `+
		`{"category": "<category>", "confidence": <0.0-1.0>} and nothing else.`,
		strings.Join(e.categories, ", "))
}

// Execute classifies the document from its leading chunks.
func (e *Classification) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	chunks, err := chunksFrom(in)
	if err != nil {
		return nil, err
	}

	resp, err := rt.Call(ctx, e.modelID, ai.Request{
		System: e.systemPrompt(),
		Prompt: excerpt(chunks, 3),
	})
	if err != nil {
		return nil, err
	}

	var out ClassifyOutput
	if err := parseModelJSON(resp.Text, &out); err != nil {
		return nil, err
	}
	if !e.known(out.Category) {
		out.Category = "other"
	}
	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}

	return json.Marshal(out)
}

func (e *Classification) known(category string) bool {
	for _, c := range e.categories {
		if c == category {
			return true
		}
	}
	return false
}
