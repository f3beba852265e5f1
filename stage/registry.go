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


package stage

import (
	"fmt"
	"sync"
)

// Stage names used by the built-in executors.
const (
	StageOCR            = "ocr"
	StageChunking       = "chunking"
	StageClassification = "classification"
	StageInterpretation = "interpretation"
	StageSummarization  = "summarization"
	StageQA             = "qa"
	StageMetadata       = "metadata"
)

// Registry maps stage names to executors. The orchestrator dispatches
// through it; registration order is preserved so that DAG construction is
// deterministic for a given setup.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Executor
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Executor),
	}
}

// Register adds an executor. Duplicate names fail with ErrAlreadyRegistered.
func (r *Registry) Register(e Executor) error {
	if e == nil {
		return fmt.Errorf("cannot register nil executor")
	}
	name := e.Name()
	if name == "" {
		return fmt.Errorf("cannot register executor with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	r.byName[name] = e
	r.order = append(r.order, name)
	return nil
}

// Get returns the executor for a stage name.
func (r *Registry) Get(name string) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return e, nil
}

// Names returns the registered stage names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
