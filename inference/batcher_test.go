package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docucore/docucore/ai"
	"github.com/docucore/docucore/ai/mock"
)

func TestBatcherPreservesOrder(t *testing.T) {
	model := mock.NewMockModel("m")
	b := newBatcher(model, 30*time.Millisecond, slog.Default())

	const callers = 8
	var wg sync.WaitGroup
	responses := make([]ai.Response, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := b.submit(context.Background(), ai.Request{Prompt: fmt.Sprintf("p%d", i)})
			require.NoError(t, err)
			responses[i] = resp
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		assert.Equal(t, fmt.Sprintf("m::p%d", i), responses[i].Text)
	}
}

func TestBatcherFansOutErrors(t *testing.T) {
	model := mock.NewMockModel("m")
	wantErr := errors.New("backend down")
	model.GenerateBatchFunc = func(ctx context.Context, reqs []ai.Request) ([]ai.Response, error) {
		return nil, wantErr
	}

	b := newBatcher(model, 10*time.Millisecond, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.submit(context.Background(), ai.Request{Prompt: "p"})
			assert.ErrorIs(t, err, wantErr)
		}()
	}
	wg.Wait()
}

func TestBatcherCountMismatch(t *testing.T) {
	model := mock.NewMockModel("m")
	model.GenerateBatchFunc = func(ctx context.Context, reqs []ai.Request) ([]ai.Response, error) {
		return []ai.Response{}, nil
	}

	b := newBatcher(model, 5*time.Millisecond, slog.Default())

	_, err := b.submit(context.Background(), ai.Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestBatcherSubmitAfterStop(t *testing.T) {
	model := mock.NewMockModel("m")
	b := newBatcher(model, 5*time.Millisecond, slog.Default())
	b.stop()

	_, err := b.submit(context.Background(), ai.Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func TestBatcherCallerContextCancelled(t *testing.T) {
	model := mock.NewMockModel("m")
	b := newBatcher(model, 50*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.submit(ctx, ai.Request{Prompt: "p"})
	assert.ErrorIs(t, err, context.Canceled)
}
