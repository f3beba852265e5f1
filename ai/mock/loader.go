// Copyright 2025 Docucore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/docucore/docucore/ai"
)

// MockLoader is a test double for ai.Loader.
// It tracks load counts per model, which tests use to verify that the
// inference manager deduplicates concurrent loads.
type MockLoader struct {
	// LoadFunc is called by Load if set.
	// If nil, returns a fresh MockModel for any identifier.
	LoadFunc func(ctx context.Context, modelID string) (ai.Model, error)

	// Units maps model identifiers to memory units for default models.
	Units map[string]int

	// Batching sets the Batching flag on default models.
	Batching bool

	mu        sync.Mutex
	loadCount map[string]int
	models    map[string]*MockModel
}

var _ ai.Loader = (*MockLoader)(nil)

// NewMockLoader creates a mock loader with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockLoader() *MockLoader {
	return &MockLoader{
		Batching:  true,
		loadCount: make(map[string]int),
		models:    make(map[string]*MockModel),
	}
}

// Load returns a mock model and records the load.
func (l *MockLoader) Load(ctx context.Context, modelID string) (ai.Model, error) {
	l.mu.Lock()
	l.loadCount[modelID]++
	l.mu.Unlock()

	if l.LoadFunc != nil {
		return l.LoadFunc(ctx, modelID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	units := 1
	if u, ok := l.Units[modelID]; ok {
		units = u
	}

	model := NewMockModel(modelID)
	model.ModelInfo = ai.ModelInfo{ID: modelID, MemoryUnits: units, Batching: l.Batching}

	l.mu.Lock()
	l.models[modelID] = model
	l.mu.Unlock()

	return model, nil
}

// LoadCount returns how many times modelID was loaded.
func (l *MockLoader) LoadCount(modelID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadCount[modelID]
}

// Model returns the last default model created for modelID, or an error
// if Load was never called for it.
func (l *MockLoader) Model(modelID string) (*MockModel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.models[modelID]
	if !ok {
		return nil, fmt.Errorf("model %q was never loaded", modelID)
	}
	return m, nil
}
