// Package openai implements the ai backend contracts for OpenAI-compatible
// chat APIs (Ollama, LocalAI, vLLM, OpenAI itself) using langchaingo.
//
// Loading a model here means constructing a client bound to one model
// identifier; the expensive server-side load happens lazily on the first
// completion. The inference manager still treats Load as the costly step
// and caches the result.
package openai
