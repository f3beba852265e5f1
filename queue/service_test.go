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

package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/pipeline"
	"github.com/docucore/docucore/stage"
	"github.com/docucore/docucore/storage"
)

type memoryStore struct {
	mu        sync.Mutex
	jobs      map[string]*core.Job
	documents map[core.ID]*core.Document
	results   map[string]map[string]core.StageResult
	attempts  map[string][]core.StageAttempt
}

var (
	_ storage.JobRepository      = (*memoryStore)(nil)
	_ storage.DocumentRepository = (*memoryStore)(nil)
)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		jobs:      make(map[string]*core.Job),
		documents: make(map[core.ID]*core.Document),
		results:   make(map[string]map[string]core.StageResult),
		attempts:  make(map[string][]core.StageAttempt),
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memoryStore) AddJob(ctx context.Context, job *core.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.Id]; ok {
		return storage.ErrDuplicateKey
	}
	copied := *job
	m.jobs[job.Id] = &copied
	return nil
}

func (m *memoryStore) GetJob(ctx context.Context, id string) (*core.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *job
	copied.Results = make(map[string]core.StageResult)
	for name, res := range m.results[id] {
		copied.Results[name] = res
	}
	return &copied, nil
}

func (m *memoryStore) UpdateJob(ctx context.Context, job *core.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.jobs[job.Id]
	if !ok {
		return storage.ErrNotFound
	}
	if old.Status.Terminal() {
		return core.ErrTerminalJob
	}
	copied := *job
	m.jobs[job.Id] = &copied
	return nil
}

func (m *memoryStore) RecordStageResult(ctx context.Context, jobID string, result core.StageResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results[jobID] == nil {
		m.results[jobID] = make(map[string]core.StageResult)
	}
	if _, ok := m.results[jobID][result.Stage]; ok {
		return storage.ErrDuplicateKey
	}
	m.results[jobID][result.Stage] = result
	return nil
}

func (m *memoryStore) AppendStageAttempt(ctx context.Context, jobID string, attempt core.StageAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := jobID + "/" + attempt.Stage
	m.attempts[key] = append(m.attempts[key], attempt)
	return nil
}

func (m *memoryStore) GetStageAttempts(ctx context.Context, jobID, stageName string) ([]core.StageAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.StageAttempt(nil), m.attempts[jobID+"/"+stageName]...), nil
}

func (m *memoryStore) ListJobsByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*core.Job
	for _, job := range m.jobs {
		if job.Status == status && len(out) < limit {
			copied := *job
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryStore) jobCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *memoryStore) AddDocument(ctx context.Context, doc *core.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[doc.Id]; !ok {
		copied := *doc
		m.documents[doc.Id] = &copied
	}
	return nil
}

func (m *memoryStore) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// workExecutor is a single-stage executor whose behavior the test controls.
type workExecutor struct {
	mu      sync.Mutex
	ran     int
	execute func(ctx context.Context, in stage.Input) ([]byte, error)
}

var _ stage.Executor = (*workExecutor)(nil)

func (w *workExecutor) Name() string        { return "work" }
func (w *workExecutor) DependsOn() []string { return nil }
func (w *workExecutor) Models() []string    { return nil }
func (w *workExecutor) Optional() bool      { return false }

func (w *workExecutor) Execute(ctx context.Context, in stage.Input, rt stage.ModelRuntime) ([]byte, error) {
	w.mu.Lock()
	w.ran++
	w.mu.Unlock()
	if w.execute != nil {
		return w.execute(ctx, in)
	}
	return []byte(`{}`), nil
}

func (w *workExecutor) runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ran
}

func newTestService(t *testing.T, exec *workExecutor, store *memoryStore, opts ...Option) *Service {
	t.Helper()

	registry := stage.NewRegistry()
	require.NoError(t, registry.Register(exec))

	orch, err := pipeline.NewOrchestrator(registry, nil, store,
		pipeline.WithRetryLimit(1),
		pipeline.WithStageTimeout(time.Second),
	)
	require.NoError(t, err)

	definitions := map[string]*core.PipelineDefinition{
		"work": {Name: "work", Stages: []core.StageSpec{{Name: "work"}}},
	}

	svc, err := NewService(orch, store, store, definitions, opts...)
	require.NoError(t, err)
	return svc
}

func testDoc(text string) *core.Document {
	return &core.Document{
		Id:     core.IDFromContent(text),
		Text:   text,
		Format: core.FormatTXT,
	}
}

func waitForTerminal(t *testing.T, store *memoryStore, jobID string) *core.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		require.NoError(t, err)
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal status", jobID)
	return nil
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	store := newMemoryStore()
	exec := &workExecutor{}
	svc := newTestService(t, exec, store)
	defer svc.Close()

	doc := testDoc("hello world")
	job, err := svc.Submit(context.Background(), doc, "work")
	require.NoError(t, err)
	require.NotEmpty(t, job.Id)
	assert.Equal(t, doc.Id, job.DocumentId)

	done := waitForTerminal(t, store, job.Id)
	assert.Equal(t, core.JobCompleted, done.Status)
	assert.Equal(t, 1, exec.runs())

	stored, err := store.GetDocument(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Text, stored.Text)
}

func TestSubmitUnknownPipeline(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, &workExecutor{}, store)
	defer svc.Close()

	_, err := svc.Submit(context.Background(), testDoc("text"), "nope")
	assert.ErrorIs(t, err, pipeline.ErrUnknownPipeline)
	assert.Equal(t, 0, store.jobCount())
}

func TestSubmitInvalidDocument(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, &workExecutor{}, store)
	defer svc.Close()

	_, err := svc.Submit(context.Background(), &core.Document{Format: core.FormatTXT}, "work")
	require.Error(t, err)
	assert.Equal(t, 0, store.jobCount())
}

func TestSubmitSaturatedQueuePersistsNothing(t *testing.T) {
	store := newMemoryStore()
	release := make(chan struct{})
	exec := &workExecutor{execute: func(ctx context.Context, in stage.Input) ([]byte, error) {
		<-release
		return []byte(`{}`), nil
	}}
	svc := newTestService(t, exec, store,
		WithMaxConcurrentJobs(1),
		WithQueueCapacity(1),
	)
	defer svc.Close()
	defer close(release)

	// Fill the single worker and the single queue slot, then keep
	// submitting until admission is refused.
	accepted := 0
	var saturated error
	for i := 0; i < 8; i++ {
		_, err := svc.Submit(context.Background(), testDoc("payload"), "work")
		if err != nil {
			saturated = err
			break
		}
		accepted++
	}

	require.ErrorIs(t, saturated, ErrQueueSaturated)
	assert.LessOrEqual(t, accepted, 4)
	assert.Equal(t, accepted, store.jobCount(), "a refused submission must leave no job record")
}

func TestSubmitAfterClose(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, &workExecutor{}, store)
	require.NoError(t, svc.Close())

	_, err := svc.Submit(context.Background(), testDoc("text"), "work")
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, &workExecutor{}, store)
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())
}

func TestCancelQueuedJobNeverExecutes(t *testing.T) {
	store := newMemoryStore()
	started := make(chan struct{})
	release := make(chan struct{})
	exec := &workExecutor{execute: func(ctx context.Context, in stage.Input) ([]byte, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return []byte(`{}`), nil
	}}
	svc := newTestService(t, exec, store,
		WithMaxConcurrentJobs(1),
		WithQueueCapacity(4),
	)
	defer svc.Close()

	first, err := svc.Submit(context.Background(), testDoc("first"), "work")
	require.NoError(t, err)
	<-started

	// The worker is busy, so this job sits in the queue.
	second, err := svc.Submit(context.Background(), testDoc("second"), "work")
	require.NoError(t, err)

	svc.Cancel(second.Id)
	close(release)

	firstDone := waitForTerminal(t, store, first.Id)
	assert.Equal(t, core.JobCompleted, firstDone.Status)

	secondDone := waitForTerminal(t, store, second.Id)
	assert.Equal(t, core.JobCancelled, secondDone.Status)
	assert.Empty(t, secondDone.Results)
	assert.Equal(t, 1, exec.runs(), "cancelled queued job must not reach the executor")
}

func TestCancelRunningJob(t *testing.T) {
	store := newMemoryStore()
	started := make(chan struct{})
	exec := &workExecutor{execute: func(ctx context.Context, in stage.Input) ([]byte, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	svc := newTestService(t, exec, store)
	defer svc.Close()

	job, err := svc.Submit(context.Background(), testDoc("slow"), "work")
	require.NoError(t, err)
	<-started

	svc.Cancel(job.Id)

	done := waitForTerminal(t, store, job.Id)
	assert.Equal(t, core.JobCancelled, done.Status)
}

func TestCancelUnknownJobIsNoop(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, &workExecutor{}, store)
	defer svc.Close()

	svc.Cancel("no-such-job")
}

func TestCloseDrainsQueuedJobs(t *testing.T) {
	store := newMemoryStore()
	exec := &workExecutor{}
	svc := newTestService(t, exec, store, WithMaxConcurrentJobs(2))

	var ids []string
	for i := 0; i < 5; i++ {
		job, err := svc.Submit(context.Background(), testDoc("doc"), "work")
		require.NoError(t, err)
		ids = append(ids, job.Id)
	}

	require.NoError(t, svc.Close())

	for _, id := range ids {
		job, err := store.GetJob(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, core.JobCompleted, job.Status)
	}
	assert.Equal(t, 5, exec.runs())
}
