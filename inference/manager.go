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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docucore/docucore/ai"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMemoryBudget = 8
	defaultBatchWindow  = 25 * time.Millisecond
	defaultLoadTimeout  = 30 * time.Second

	// acquireAttempts bounds the retry loop closing the narrow window in
	// which a freshly loaded handle is evicted before the loader's caller
	// claims its reference.
	acquireAttempts = 3
)

// Manager owns every loaded model instance in the process. It deduplicates
// concurrent loads, caches instances keyed by model identifier, evicts
// least-recently-used idle instances under memory pressure, and mediates
// all inference calls, batching them per model when supported.
//
// One Manager is created at process start and torn down with Close, which
// drains in-flight batches and releases every instance.
type Manager struct {
	loader ai.Loader
	logger *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	handles map[string]*Handle
	used    int
	closed  bool

	budget      int
	batchWindow time.Duration
	loadTimeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithMemoryBudget sets the resource budget, in the loader's memory units,
// beyond which idle instances are evicted. A budget of 0 disables eviction.
// Default is 8.
func WithMemoryBudget(units int) Option {
	return func(m *Manager) {
		m.budget = units
	}
}

// WithBatchWindow sets how long the first request of a batch waits for
// company before the underlying model call is issued.
// Default is 25ms.
func WithBatchWindow(window time.Duration) Option {
	return func(m *Manager) {
		if window > 0 {
			m.batchWindow = window
		}
	}
}

// WithLoadTimeout bounds a single model load.
// Default is 30s.
func WithLoadTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		if timeout > 0 {
			m.loadTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates an inference manager over the given loader.
func NewManager(loader ai.Loader, opts ...Option) (*Manager, error) {
	if loader == nil {
		return nil, errors.New("model loader required")
	}

	m := &Manager{
		loader:      loader,
		logger:      slog.Default().With("component", "inference"),
		handles:     make(map[string]*Handle),
		budget:      defaultMemoryBudget,
		batchWindow: defaultBatchWindow,
		loadTimeout: defaultLoadTimeout,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Acquire returns a reference-counted handle for modelID, loading the
// model on first demand. Concurrent acquirers of an unloaded model block
// on one shared load; exactly one loader call happens per identifier.
// Fails with ErrModelUnavailable when the identifier is unknown or the
// load exceeds the configured timeout.
func (m *Manager) Acquire(ctx context.Context, modelID string) (*Handle, error) {
	for attempt := 0; attempt < acquireAttempts; attempt++ {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return nil, ErrManagerClosed
		}
		if h, ok := m.handles[modelID]; ok {
			h.refs++
			h.lastUsed = time.Now()
			m.mu.Unlock()
			return h, nil
		}
		m.mu.Unlock()

		// The shared load must not die with whichever acquirer happened to
		// initiate it, so it runs on a detached context; load applies the
		// load timeout itself. Cancelled waiters abandon the result without
		// failing it for the rest.
		ch := m.group.DoChan(modelID, func() (interface{}, error) {
			return nil, m.load(context.WithoutCancel(ctx), modelID)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
		}

		// Claim a reference. In a narrow window another load's eviction
		// pass can remove the instance before we get here; retry.
		m.mu.Lock()
		if h, ok := m.handles[modelID]; ok {
			h.refs++
			h.lastUsed = time.Now()
			m.mu.Unlock()
			return h, nil
		}
		m.mu.Unlock()
	}

	return nil, fmt.Errorf("%w: %q evicted before acquisition", ErrModelUnavailable, modelID)
}

// load performs the deduplicated load and installs the handle.
func (m *Manager) load(ctx context.Context, modelID string) error {
	// A competing acquirer may have finished the load while we waited on
	// the singleflight slot.
	m.mu.Lock()
	if _, ok := m.handles[modelID]; ok {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(ctx, m.loadTimeout)
	defer cancel()

	start := time.Now()
	model, err := m.loader.Load(loadCtx, modelID)
	if err != nil {
		if errors.Is(err, ai.ErrUnknownModel) {
			return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return ai.Transient(fmt.Errorf("%w: load of %q timed out after %s", ErrModelUnavailable, modelID, m.loadTimeout))
		}
		return err
	}

	info := model.Info()

	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		model.Close()
		return ErrManagerClosed
	}

	victims := m.evictFor(info.MemoryUnits)

	h := &Handle{
		manager:  m,
		model:    model,
		info:     info,
		lastUsed: time.Now(),
	}
	if info.Batching {
		h.batcher = newBatcher(model, m.batchWindow, m.logger.With("model", modelID))
	}

	m.handles[modelID] = h
	m.used += info.MemoryUnits
	used := m.used

	m.mu.Unlock()

	// Stopping a victim's batcher flushes pending requests through a model
	// call, so teardown happens only after m.mu is released.
	for _, victim := range victims {
		if victim.batcher != nil {
			victim.batcher.stop()
		}
		if err := victim.model.Close(); err != nil {
			m.logger.Error("error closing evicted model", "model", victim.info.ID, "err", err)
		}
	}

	m.logger.Info("model loaded",
		"model", modelID,
		"units", info.MemoryUnits,
		"used", used,
		"budget", m.budget,
		"elapsed", time.Since(start))

	return nil
}

// evictFor frees room for an instance of the given size by evicting
// least-recently-used idle handles. Pinned handles (refs > 0) are never
// evicted; when everything is pinned the budget is allowed to overshoot.
// Callers must hold m.mu. Victims are removed from the cache and the
// accounting here, but the caller closes them after releasing the lock
// because teardown can block on an in-flight batch.
func (m *Manager) evictFor(units int) []*Handle {
	if m.budget <= 0 {
		return nil
	}
	var victims []*Handle
	for m.used+units > m.budget {
		var victim *Handle
		var victimID string
		for id, h := range m.handles {
			if h.refs > 0 {
				continue
			}
			if victim == nil || h.lastUsed.Before(victim.lastUsed) {
				victim = h
				victimID = id
			}
		}
		if victim == nil {
			m.logger.Warn("memory budget exceeded with all instances pinned",
				"used", m.used, "budget", m.budget, "incoming", units)
			break
		}

		delete(m.handles, victimID)
		m.used -= victim.info.MemoryUnits
		victims = append(victims, victim)
		m.logger.Info("model evicted", "model", victimID, "units", victim.info.MemoryUnits, "used", m.used)
	}
	return victims
}

// release returns a lease taken by Acquire.
func (m *Manager) release(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.refs > 0 {
		h.refs--
	}
	h.lastUsed = time.Now()
}

// Infer runs one request against an acquired handle. Requests to batching
// models are grouped within the configured window; non-batching models are
// called serially per instance. Failures come back as *InferenceError with
// the transient flag set for retry-eligible conditions.
func (m *Manager) Infer(ctx context.Context, h *Handle, req ai.Request) (ai.Response, error) {
	if h == nil {
		return ai.Response{}, errors.New("nil model handle")
	}

	if h.batcher != nil {
		resp, err := h.batcher.submit(ctx, req)
		return resp, wrapInference(err)
	}

	h.callMu.Lock()
	defer h.callMu.Unlock()
	resp, err := h.model.Generate(ctx, req)
	return resp, wrapInference(err)
}

// Call acquires modelID, runs one request, and releases the handle.
// This is the operation stage executors use; they never hold handles
// across calls.
func (m *Manager) Call(ctx context.Context, modelID string, req ai.Request) (ai.Response, error) {
	h, err := m.Acquire(ctx, modelID)
	if err != nil {
		return ai.Response{}, err
	}
	defer h.Release()
	return m.Infer(ctx, h, req)
}

// Loaded reports the currently cached model identifiers and the used
// budget, for observability and tests.
func (m *Manager) Loaded() (models []string, used int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.handles {
		models = append(models, id)
	}
	return models, m.used
}

// Close tears the manager down: in-flight batches are drained, every
// instance is closed, and further calls fail with ErrManagerClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	handles := m.handles
	m.handles = make(map[string]*Handle)
	m.used = 0
	m.mu.Unlock()

	var firstErr error
	for id, h := range handles {
		if h.batcher != nil {
			h.batcher.stop()
		}
		if err := h.model.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing model %q: %w", id, err)
		}
	}
	return firstErr
}
