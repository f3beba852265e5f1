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


// Package ai provides abstractions for the language-model backends used
// by the document pipeline.
//
// The package defines two key interfaces:
//
//   - Model: a loaded model instance that can generate text, singly or batched
//   - Loader: resolves a model identifier to a loaded Model instance
//
// The inference package builds its caching, eviction, and batching runtime
// on top of these abstractions; stage executors never touch a Model
// directly.
//
// # Implementation Packages
//
//   - ai/openai: production backend for OpenAI-compatible APIs (Ollama,
//     LocalAI, vLLM, OpenAI itself)
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in the implementation packages return interface
// types to prevent coupling to a concrete backend. Mock constructors
// return concrete types so tests can inject behavior and assert on call
// counts.
//
// # Error Classification
//
// Backends distinguish transient failures (timeouts, rate limits, resource
// exhaustion) from permanent ones (malformed input, unsupported operation)
// by wrapping the former with Transient. The retry machinery in the
// pipeline package only retries errors for which IsTransient reports true.
package ai
