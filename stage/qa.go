package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docucore/docucore/ai"
)

const qaSystemPrompt = `You answer questions about a document from the excerpt provided. ` +
	`Answer from the text alone; if the excerpt does not contain the answer, reply ` +
	`exactly "not stated in document". Reply with the answer only.`

// maxQAChunks bounds the excerpt given as question context.
const maxQAChunks = 6

// Answer pairs one configured question with the model's answer.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QAOutput is the payload written by the Q&A stage.
type QAOutput struct {
	Answers []Answer `json:"answers"`
}

// QA answers a fixed set of configured questions against the document.
type QA struct {
	modelID   string
	questions []string
}

var _ Executor = (*QA)(nil)

// NewQA creates the Q&A executor for the given question set.
func NewQA(modelID string, questions []string) *QA {
	return &QA{modelID: modelID, questions: questions}
}

func (e *QA) Name() string        { return StageQA }
func (e *QA) DependsOn() []string { return []string{StageChunking} }
func (e *QA) Models() []string    { return []string{e.modelID} }
func (e *QA) Optional() bool      { return false }

// Execute answers each configured question in order. Questions are asked
// as individual runtime calls so the batching window can group them.
func (e *QA) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	chunks, err := chunksFrom(in)
	if err != nil {
		return nil, err
	}
	passage := excerpt(chunks, maxQAChunks)

	answers := make([]Answer, len(e.questions))
	for i, q := range e.questions {
		resp, err := rt.Call(ctx, e.modelID, ai.Request{
			System: qaSystemPrompt,
			Prompt: fmt.Sprintf("Document excerpt:\n%s\n\nQuestion: %s", passage, q),
		})
		if err != nil {
			return nil, fmt.Errorf("answering question %d: %w", i, err)
		}
		answers[i] = Answer{Question: q, Answer: resp.Text}
	}

	return json.Marshal(QAOutput{Answers: answers})
}
