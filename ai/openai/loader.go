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


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docucore/docucore/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Loader implements ai.Loader for OpenAI-compatible services.
type Loader struct {
	config *ai.Config
	logger *slog.Logger
}

var _ ai.Loader = (*Loader)(nil)

// newLoader is an internal constructor that returns the concrete type.
func newLoader(config *ai.Config) (*Loader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Loader{
		config: config,
		logger: slog.Default().With("component", "openai-loader"),
	}, nil
}

// NewLoader creates a model loader backed by an OpenAI-compatible service.
// The config is validated and normalized before use.
//
// Returns ai.Loader interface (not *Loader) to enforce abstraction and
// prevent coupling to OpenAI-specific implementation details.
func NewLoader(config *ai.Config) (ai.Loader, error) {
	return newLoader(config)
}

// Load resolves modelID to a Model bound to the configured service.
// Identifiers outside the configured allow-list fail with ai.ErrUnknownModel.
func (l *Loader) Load(ctx context.Context, modelID string) (ai.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !l.config.Allows(modelID) {
		return nil, fmt.Errorf("%w: %q", ai.ErrUnknownModel, modelID)
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(l.config.Host),
		openai.WithToken(l.config.Token),
		openai.WithModel(modelID),
	)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded model client", "model", modelID)

	return &Model{
		client: client,
		info: ai.ModelInfo{
			ID:          modelID,
			MemoryUnits: l.config.UnitsFor(modelID),
			Batching:    l.config.Batching,
		},
		logger: slog.Default().With("component", "openai-model", "model", modelID),
	}, nil
}
