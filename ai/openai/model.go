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
	"errors"
	"log/slog"
	"net"
	"strings"

	"github.com/docucore/docucore/ai"
	"github.com/tmc/langchaingo/llms"
)

// Model implements ai.Model on top of an OpenAI-compatible chat API.
type Model struct {
	client llms.Model
	info   ai.ModelInfo
	logger *slog.Logger
}

var _ ai.Model = (*Model)(nil)

// Info returns the instance metadata.
func (m *Model) Info() ai.ModelInfo {
	return m.info
}

// Generate runs a single chat completion with temperature 0 so that
// identical requests against the same model version produce identical
// output. Stage retries rely on this.
func (m *Model) Generate(ctx context.Context, req ai.Request) (ai.Response, error) {
	content := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	response, err := m.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		m.logger.Error("generation failed", "model", m.info.ID, "err", err)
		return ai.Response{}, classifyErr(err)
	}

	if len(response.Choices) < 1 {
		m.logger.Debug("no choices returned from model", "model", m.info.ID)
		return ai.Response{}, nil
	}

	return ai.Response{Text: response.Choices[0].Content}, nil
}

// GenerateBatch runs the requests in order against the same instance.
// OpenAI-compatible chat APIs expose no multi-prompt call, so the batch is
// issued as sequential completions; responses preserve input order.
func (m *Model) GenerateBatch(ctx context.Context, reqs []ai.Request) ([]ai.Response, error) {
	responses := make([]ai.Response, len(reqs))
	for i, req := range reqs {
		resp, err := m.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		responses[i] = resp
	}
	return responses, nil
}

// Close releases resources held by the instance.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (m *Model) Close() error {
	return nil
}

// classifyErr marks retry-eligible failures as transient. Timeouts,
// rate limits, and server-side saturation are temporary conditions;
// everything else (bad request shape, unknown parameters) is permanent.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ai.Transient(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ai.Transient(err)
	}
	msg := err.Error()
	for _, marker := range []string{
		"429", "rate limit", "too many requests",
		"500", "502", "503", "504",
		"overloaded", "connection refused", "connection reset",
	} {
		if strings.Contains(msg, marker) {
			return ai.Transient(err)
		}
	}
	return err
}
