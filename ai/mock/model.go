package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/docucore/docucore/ai"
)

// MockModel is a test double for ai.Model.
// It allows custom behavior injection via function fields.
type MockModel struct {
	// ModelInfo is returned by Info. Zero value gets sensible defaults
	// from NewMockModel.
	ModelInfo ai.ModelInfo

	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, req ai.Request) (ai.Response, error)

	// GenerateBatchFunc is called by GenerateBatch if set.
	// If nil, falls back to per-request Generate.
	GenerateBatchFunc func(ctx context.Context, reqs []ai.Request) ([]ai.Response, error)

	mu         sync.Mutex
	callCount  int
	batchSizes []int
	closed     bool
}

var _ ai.Model = (*MockModel)(nil)

// NewMockModel creates a mock model with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockModel(id string) *MockModel {
	return &MockModel{
		ModelInfo: ai.ModelInfo{ID: id, MemoryUnits: 1, Batching: true},
	}
}

// Info returns the configured model metadata.
func (m *MockModel) Info() ai.ModelInfo {
	return m.ModelInfo
}

// Generate echoes the prompt deterministically unless GenerateFunc is set.
func (m *MockModel) Generate(ctx context.Context, req ai.Request) (ai.Response, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	return ai.Response{Text: fmt.Sprintf("%s::%s", m.ModelInfo.ID, req.Prompt)}, nil
}

// GenerateBatch records the batch size, then delegates.
func (m *MockModel) GenerateBatch(ctx context.Context, reqs []ai.Request) ([]ai.Response, error) {
	m.mu.Lock()
	m.callCount++
	m.batchSizes = append(m.batchSizes, len(reqs))
	m.mu.Unlock()

	if m.GenerateBatchFunc != nil {
		return m.GenerateBatchFunc(ctx, reqs)
	}

	responses := make([]ai.Response, len(reqs))
	for i, req := range reqs {
		if m.GenerateFunc != nil {
			resp, err := m.GenerateFunc(ctx, req)
			if err != nil {
				return nil, err
			}
			responses[i] = resp
			continue
		}
		responses[i] = ai.Response{Text: fmt.Sprintf("%s::%s", m.ModelInfo.ID, req.Prompt)}
	}
	return responses, nil
}

// Close marks the model closed.
func (m *MockModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// CallCount returns the number of Generate/GenerateBatch invocations.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// BatchSizes returns the size of each recorded GenerateBatch call.
func (m *MockModel) BatchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.batchSizes))
	copy(out, m.batchSizes)
	return out
}

// Closed reports whether Close has been called.
func (m *MockModel) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
