package stage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/docucore/docucore/ai"
)

const ocrSystemPrompt = `You clean up text extracted from scanned documents. ` +
	`Fix broken hyphenation, rejoin lines split mid-sentence, and remove page ` +
	`artifacts such as repeated headers and page numbers. Do not paraphrase, ` +
	`summarize, or reorder content. Reply with the cleaned text only.`

// OCR reflows the normalizer's raw extraction into clean prose. With a
// model configured it delegates the cleanup; without one it falls back to
// whitespace normalization, which keeps model-free pipelines usable.
type OCR struct {
	modelID string
}

var _ Executor = (*OCR)(nil)

// NewOCR creates the OCR cleanup executor. An empty modelID selects the
// local whitespace-only cleanup.
func NewOCR(modelID string) *OCR {
	return &OCR{modelID: modelID}
}

func (e *OCR) Name() string        { return StageOCR }
func (e *OCR) DependsOn() []string { return nil }
func (e *OCR) Optional() bool      { return false }

func (e *OCR) Models() []string {
	if e.modelID == "" {
		return nil
	}
	return []string{e.modelID}
}

// Execute produces OCROutput with the cleaned text and its word count.
func (e *OCR) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	if in.Document == nil || in.Document.Text == "" {
		return nil, ErrMissingUpstream
	}

	text := in.Document.Text
	if e.modelID != "" && rt != nil {
		resp, err := rt.Call(ctx, e.modelID, ai.Request{
			System: ocrSystemPrompt,
			Prompt: text,
		})
		if err != nil {
			return nil, err
		}
		if resp.Text != "" {
			text = resp.Text
		}
	} else {
		text = collapseWhitespace(text)
	}

	return json.Marshal(OCROutput{
		Text:  text,
		Words: len(strings.Fields(text)),
	})
}

// collapseWhitespace normalizes runs of blank space while preserving
// paragraph breaks.
func collapseWhitespace(s string) string {
	paragraphs := strings.Split(s, "\n\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
