package stage

import (
	"context"
	"encoding/json"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 1500
	defaultChunkOverlap = 150
)

// Chunking splits the cleaned document text into overlapping chunks sized
// for downstream model prompts. It is model-free.
type Chunking struct {
	splitter textsplitter.RecursiveCharacter
}

var _ Executor = (*Chunking)(nil)

// NewChunking creates the chunking executor. Non-positive sizes select
// the defaults (1500 chars with 150 overlap).
func NewChunking(chunkSize, overlap int) *Chunking {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if overlap <= 0 || overlap >= chunkSize {
		overlap = defaultChunkOverlap
	}
	return &Chunking{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

func (e *Chunking) Name() string        { return StageChunking }
func (e *Chunking) DependsOn() []string { return []string{StageOCR} }
func (e *Chunking) Models() []string    { return nil }
func (e *Chunking) Optional() bool      { return false }

// Execute produces ChunkOutput from the OCR stage's cleaned text.
func (e *Chunking) Execute(ctx context.Context, in Input, rt ModelRuntime) ([]byte, error) {
	text, err := textFrom(in)
	if err != nil {
		return nil, err
	}

	chunks, err := e.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}

	return json.Marshal(ChunkOutput{
		Chunks: chunks,
		Count:  len(chunks),
	})
}
