package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(NewOCR("")))
	require.NoError(t, r.Register(NewChunking(0, 0)))

	e, err := r.Get(StageOCR)
	require.NoError(t, err)
	assert.Equal(t, StageOCR, e.Name())

	_, err = r.Get("nonexistent")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(NewOCR("")))
	err := r.Register(NewOCR("gpt-4o-mini"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegistryNamesPreserveOrder(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(NewChunking(0, 0)))
	require.NoError(t, r.Register(NewOCR("")))
	require.NoError(t, r.Register(NewMetadata("m")))

	assert.Equal(t, []string{StageChunking, StageOCR, StageMetadata}, r.Names())
}
