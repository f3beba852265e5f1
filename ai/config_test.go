package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "none", cfg.Token)
	assert.True(t, cfg.Batching)
	assert.Empty(t, cfg.Models)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:8000"),
		WithToken("secret"),
		WithModels("gpt-4o-mini", "llama3"),
		WithMemoryUnits("llama3", 4),
		WithBatching(false),
	)

	assert.Equal(t, "http://models.internal:8000", cfg.Host)
	assert.Equal(t, "secret", cfg.Token)
	assert.False(t, cfg.Batching)
	assert.Equal(t, []string{"gpt-4o-mini", "llama3"}, cfg.Models)
}

func TestConfigAllows(t *testing.T) {
	tests := []struct {
		name    string
		models  []string
		modelID string
		want    bool
	}{
		{"empty allow-list allows anything", nil, "whatever", true},
		{"listed model allowed", []string{"llama3"}, "llama3", true},
		{"unlisted model rejected", []string{"llama3"}, "mistral", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithModels(tt.models...))
			assert.Equal(t, tt.want, cfg.Allows(tt.modelID))
		})
	}
}

func TestConfigUnitsFor(t *testing.T) {
	cfg := NewConfig(WithMemoryUnits("llama3:70b", 8))

	assert.Equal(t, 8, cfg.UnitsFor("llama3:70b"))
	assert.Equal(t, 1, cfg.UnitsFor("gpt-4o-mini"))
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trims trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"leaves v1 alone", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig(WithToken(""))
	require.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.MemoryUnits = map[string]int{"llama3": 0}
	require.Error(t, cfg.Validate())
}
