package stage

import (
	"context"
	"encoding/json"

	"github.com/docucore/docucore/ai"
)

const metadataSystemPrompt = `You extract bibliographic metadata from documents. ` +
	`From the excerpt, extract the title, author, language (ISO 639-1 code), and up ` +
	`to eight topical keywords. Use "" for fields the excerpt does not establish. ` +
	`Reply with a JSON object of the form {"title": "", "author": "", "language": "", ` +
	`"keywords": []} and nothing else.`

// MetadataOutput is the payload written by the metadata-extraction stage.
type MetadataOutput struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Language string   `json:"language"`
	Keywords []string `json:"keywords"`
}

// Metadata extracts bibliographic metadata. The stage is optional: its
// failure never fails a job, because metadata is an enrichment rather
// than a required analysis product.
type Metadata struct {
	modelID string
}

var _ Executor = (*Metadata)(nil)

// NewMetadata creates the metadata-extraction executor.
func NewMetadata(modelID string) *Metadata {
	return &Metadata{modelID: modelID}
}

func (e *Metadata) Name() string        { return StageMetadata }
func (e *Metadata) DependsOn() []string { return []string{StageOCR} }
func (e *Metadata) Models() []string    { return []string{e.modelID} }
func (e *Metadata) Optional() bool      { return true }

func (e *Metadata) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	text, err := textFrom(in)
	if err != nil {
		return nil, err
	}
	// The head of the document carries nearly all bibliographic signal.
	if len(text) > 4000 {
		text = text[:4000]
	}

	resp, err := rt.Call(ctx, e.modelID, ai.Request{
		System: metadataSystemPrompt,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	var out MetadataOutput
	if err := parseModelJSON(resp.Text, &out); err != nil {
		return nil, err
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}

	return json.Marshal(out)
}
