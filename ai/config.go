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


package ai

import (
	"errors"
	"strings"
)

const defaultMemoryUnits = 1

// Config holds configuration for model backends.
type Config struct {
	// Host is the base URL for the OpenAI-compatible model service.
	// Example: "http://localhost:11434/v1" for a local server
	Host string

	// Token is the API token. Local OpenAI-compatible services that do not
	// require authentication accept any non-empty value.
	Token string

	// Models is the set of model identifiers this deployment may load.
	// Load requests for identifiers outside this set fail with
	// ErrUnknownModel. An empty set allows any identifier.
	Models []string

	// MemoryUnits maps a model identifier to its footprint against the
	// inference manager's resource budget. Identifiers not present default
	// to DefaultMemoryUnits.
	MemoryUnits map[string]int

	// DefaultMemoryUnits is the footprint assumed for models without an
	// explicit MemoryUnits entry. Default: 1.
	DefaultMemoryUnits int

	// Batching reports whether the backend service supports batched
	// generation calls. Default: true for OpenAI-compatible services.
	Batching bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the model service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithModels restricts the loadable model identifiers.
func WithModels(models ...string) ConfigOption {
	return func(c *Config) {
		c.Models = models
	}
}

// WithMemoryUnits sets the budget footprint for one model identifier.
func WithMemoryUnits(modelID string, units int) ConfigOption {
	return func(c *Config) {
		if c.MemoryUnits == nil {
			c.MemoryUnits = make(map[string]int)
		}
		c.MemoryUnits[modelID] = units
	}
}

// WithBatching sets whether the backend supports batched generation.
func WithBatching(batching bool) ConfigOption {
	return func(c *Config) {
		c.Batching = batching
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:               "http://localhost:11434/v1",
		Token:              "none",
		DefaultMemoryUnits: defaultMemoryUnits,
		Batching:           true,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Allows reports whether modelID may be loaded under this configuration.
func (c *Config) Allows(modelID string) bool {
	if len(c.Models) == 0 {
		return true
	}
	for _, m := range c.Models {
		if m == modelID {
			return true
		}
	}
	return false
}

// UnitsFor returns the budget footprint for modelID.
func (c *Config) UnitsFor(modelID string) int {
	if units, ok := c.MemoryUnits[modelID]; ok && units > 0 {
		return units
	}
	if c.DefaultMemoryUnits > 0 {
		return c.DefaultMemoryUnits
	}
	return defaultMemoryUnits
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Token == "" {
		return errors.New("ai config: Token is required")
	}
	for id, units := range c.MemoryUnits {
		if units <= 0 {
			return errors.New("ai config: memory units for " + id + " must be positive")
		}
	}
	return nil
}
