package inference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docucore/docucore/ai"
)

type batchResult struct {
	resp ai.Response
	err  error
}

type pendingCall struct {
	req ai.Request
	out chan batchResult
}

// batcher groups inference requests arriving within a short time window
// into one underlying model call. The first request of a window arms a
// timer; everything submitted before it fires joins the same batch.
type batcher struct {
	model  ai.Model
	window time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending []pendingCall
	stopped bool
}

func newBatcher(model ai.Model, window time.Duration, logger *slog.Logger) *batcher {
	return &batcher{
		model:  model,
		window: window,
		logger: logger,
	}
}

// submit enqueues a request into the current batching window and blocks
// until the batch resolves or ctx is done. When the caller's context
// expires first, the batch call still completes for the other
// participants; only this caller's result is discarded.
func (b *batcher) submit(ctx context.Context, req ai.Request) (ai.Response, error) {
	out := make(chan batchResult, 1)

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return ai.Response{}, ErrManagerClosed
	}
	b.pending = append(b.pending, pendingCall{req: req, out: out})
	if len(b.pending) == 1 {
		time.AfterFunc(b.window, b.flush)
	}
	b.mu.Unlock()

	select {
	case r := <-out:
		return r.resp, r.err
	case <-ctx.Done():
		return ai.Response{}, ctx.Err()
	}
}

// flush takes the accumulated window and issues one batched model call.
// Responses are distributed to submitters in input order.
func (b *batcher) flush() {
	b.mu.Lock()
	calls := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(calls) == 0 {
		return
	}

	reqs := make([]ai.Request, len(calls))
	for i, c := range calls {
		reqs[i] = c.req
	}

	b.logger.Debug("flushing inference batch", "size", len(calls))

	responses, err := b.model.GenerateBatch(context.Background(), reqs)
	if err != nil {
		for _, c := range calls {
			c.out <- batchResult{err: err}
		}
		return
	}

	if len(responses) != len(calls) {
		err := fmt.Errorf("batch response count mismatch: expected %d, got %d", len(calls), len(responses))
		for _, c := range calls {
			c.out <- batchResult{err: err}
		}
		return
	}

	for i, c := range calls {
		c.out <- batchResult{resp: responses[i]}
	}
}

// stop rejects new submissions and flushes anything still pending, so
// teardown never strands a waiting caller.
func (b *batcher) stop() {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()
	b.flush()
}
