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

package inference

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docucore/docucore/ai"
	"github.com/docucore/docucore/ai/mock"
)

func TestAcquireDeduplicatesConcurrentLoads(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader)
	require.NoError(t, err)
	defer manager.Close()

	const goroutines = 16
	ctx := context.Background()

	var wg sync.WaitGroup
	handles := make([]*Handle, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = manager.Acquire(ctx, "llama3")
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, handles[i])
	}

	assert.Equal(t, 1, loader.LoadCount("llama3"))

	for _, h := range handles {
		h.Release()
	}
}

func TestAcquireUnknownModel(t *testing.T) {
	loader := mock.NewMockLoader()
	loader.LoadFunc = func(ctx context.Context, modelID string) (ai.Model, error) {
		return nil, ai.ErrUnknownModel
	}

	manager, err := NewManager(loader)
	require.NoError(t, err)
	defer manager.Close()

	_, err = manager.Acquire(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, IsRetryable(err))
}

func TestAcquireLoadTimeoutIsTransient(t *testing.T) {
	loader := mock.NewMockLoader()
	loader.LoadFunc = func(ctx context.Context, modelID string) (ai.Model, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	manager, err := NewManager(loader, WithLoadTimeout(20*time.Millisecond))
	require.NoError(t, err)
	defer manager.Close()

	_, err = manager.Acquire(context.Background(), "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestAcquireSurvivesInitiatorCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	loader := mock.NewMockLoader()
	var once sync.Once
	loader.LoadFunc = func(ctx context.Context, modelID string) (ai.Model, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return mock.NewMockModel(modelID), nil
	}

	manager, err := NewManager(loader)
	require.NoError(t, err)
	defer manager.Close()

	initCtx, cancel := context.WithCancel(context.Background())
	initErr := make(chan error, 1)
	go func() {
		_, err := manager.Acquire(initCtx, "llama3")
		initErr <- err
	}()
	<-started

	waiterDone := make(chan error, 1)
	var waiterHandle *Handle
	go func() {
		var err error
		waiterHandle, err = manager.Acquire(context.Background(), "llama3")
		waiterDone <- err
	}()

	// Cancelling the acquirer that initiated the load must fail only that
	// acquirer, not the shared load.
	cancel()
	require.ErrorIs(t, <-initErr, context.Canceled)

	close(release)
	require.NoError(t, <-waiterDone)
	require.NotNil(t, waiterHandle)
	waiterHandle.Release()

	assert.Equal(t, 1, loader.LoadCount("llama3"))
}

// introspectingModel lets a test observe manager state from inside Close.
type introspectingModel struct {
	*mock.MockModel
	onClose func()
}

func (m *introspectingModel) Close() error {
	m.onClose()
	return m.MockModel.Close()
}

func TestEvictionClosesVictimsOutsideManagerLock(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader, WithMemoryBudget(1))
	require.NoError(t, err)
	defer manager.Close()

	var loadedAtClose []string
	loader.LoadFunc = func(ctx context.Context, modelID string) (ai.Model, error) {
		return &introspectingModel{
			MockModel: mock.NewMockModel(modelID),
			onClose: func() {
				// Deadlocks if the manager still holds its lock here.
				loadedAtClose, _ = manager.Loaded()
			},
		}, nil
	}

	ctx := context.Background()

	h, err := manager.Acquire(ctx, "model-a")
	require.NoError(t, err)
	h.Release()

	// Loading model-b evicts idle model-a; its Close must see the cache
	// already updated and must not block on the manager.
	h, err = manager.Acquire(ctx, "model-b")
	require.NoError(t, err)
	h.Release()

	assert.Equal(t, []string{"model-b"}, loadedAtClose)
}

func TestEvictionNeverRemovesPinnedModels(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader, WithMemoryBudget(2))
	require.NoError(t, err)
	defer manager.Close()

	ctx := context.Background()

	first, err := manager.Acquire(ctx, "model-a")
	require.NoError(t, err)

	second, err := manager.Acquire(ctx, "model-b")
	require.NoError(t, err)

	// Budget is exhausted and both handles are pinned; loading a third
	// model must not evict either of them.
	third, err := manager.Acquire(ctx, "model-c")
	require.NoError(t, err)

	models, _ := manager.Loaded()
	assert.Contains(t, models, "model-a")
	assert.Contains(t, models, "model-b")
	assert.Contains(t, models, "model-c")

	modelA, err := loader.Model("model-a")
	require.NoError(t, err)
	assert.False(t, modelA.Closed())

	first.Release()
	second.Release()
	third.Release()
}

func TestEvictionReclaimsIdleModels(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader, WithMemoryBudget(1))
	require.NoError(t, err)
	defer manager.Close()

	ctx := context.Background()

	first, err := manager.Acquire(ctx, "model-a")
	require.NoError(t, err)
	first.Release()

	second, err := manager.Acquire(ctx, "model-b")
	require.NoError(t, err)
	defer second.Release()

	models, used := manager.Loaded()
	assert.Equal(t, []string{"model-b"}, models)
	assert.Equal(t, 1, used)

	modelA, err := loader.Model("model-a")
	require.NoError(t, err)
	assert.True(t, modelA.Closed())
}

func TestReacquireAfterEvictionLoadsAgain(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader, WithMemoryBudget(1))
	require.NoError(t, err)
	defer manager.Close()

	ctx := context.Background()

	h, err := manager.Acquire(ctx, "model-a")
	require.NoError(t, err)
	h.Release()

	h, err = manager.Acquire(ctx, "model-b")
	require.NoError(t, err)
	h.Release()

	h, err = manager.Acquire(ctx, "model-a")
	require.NoError(t, err)
	h.Release()

	assert.Equal(t, 2, loader.LoadCount("model-a"))
}

func TestBatchingWindowGroupsCalls(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader, WithBatchWindow(50*time.Millisecond))
	require.NoError(t, err)
	defer manager.Close()

	ctx := context.Background()
	const callers = 4

	var wg sync.WaitGroup
	responses := make([]ai.Response, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = manager.Call(ctx, "llama3", ai.Request{Prompt: "p"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "llama3::p", responses[i].Text)
	}

	model, err := loader.Model("llama3")
	require.NoError(t, err)

	sizes := model.BatchSizes()
	require.NotEmpty(t, sizes)

	total := 0
	for _, size := range sizes {
		total += size
	}
	assert.Equal(t, callers, total)
	assert.Less(t, len(sizes), callers, "expected at least one grouped batch")
}

func TestNonBatchingModelSerializesCalls(t *testing.T) {
	loader := mock.NewMockLoader()
	loader.Batching = false

	manager, err := NewManager(loader)
	require.NoError(t, err)
	defer manager.Close()

	resp, err := manager.Call(context.Background(), "llama3", ai.Request{Prompt: "solo"})
	require.NoError(t, err)
	assert.Equal(t, "llama3::solo", resp.Text)

	model, err := loader.Model("llama3")
	require.NoError(t, err)
	assert.Empty(t, model.BatchSizes())
}

func TestInferClassifiesTransientErrors(t *testing.T) {
	loader := mock.NewMockLoader()
	loader.Batching = false
	loader.LoadFunc = func(ctx context.Context, modelID string) (ai.Model, error) {
		model := mock.NewMockModel(modelID)
		model.ModelInfo.Batching = false
		model.GenerateFunc = func(ctx context.Context, req ai.Request) (ai.Response, error) {
			return ai.Response{}, ai.Transient(errors.New("server overloaded"))
		}
		return model, nil
	}

	manager, err := NewManager(loader)
	require.NoError(t, err)
	defer manager.Close()

	_, err = manager.Call(context.Background(), "llama3", ai.Request{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestManagerClosedRejectsAcquire(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader)
	require.NoError(t, err)

	require.NoError(t, manager.Close())

	_, err = manager.Acquire(context.Background(), "llama3")
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func TestCloseClosesLoadedModels(t *testing.T) {
	loader := mock.NewMockLoader()
	manager, err := NewManager(loader)
	require.NoError(t, err)

	h, err := manager.Acquire(context.Background(), "llama3")
	require.NoError(t, err)
	h.Release()

	require.NoError(t, manager.Close())

	model, err := loader.Model("llama3")
	require.NoError(t, err)
	assert.True(t, model.Closed())
}
